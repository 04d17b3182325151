package catalog

// Compound is one catalog row. Fields holds every column of the source sheet
// keyed by header, including the name column; Name is the coerced name cell.
type Compound struct {
	Name   string
	Fields map[string]string
}

// HasName reports whether the row carries a usable name. Rows without one are
// kept in the catalog but never match a query.
func (c Compound) HasName() bool {
	return c.Name != ""
}

// Field returns a descriptive value by column header.
func (c Compound) Field(column string) (string, bool) {
	v, ok := c.Fields[column]
	return v, ok
}

// ToMap renders the row as header → value over columns. Columns the row's sheet
// did not have are reported as nil.
func (c Compound) ToMap(columns []string) map[string]any {
	out := make(map[string]any, len(columns)+1)
	for _, column := range columns {
		if v, ok := c.Fields[column]; ok {
			out[column] = v
		} else {
			out[column] = nil
		}
	}
	return out
}
