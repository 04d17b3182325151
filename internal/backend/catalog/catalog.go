// Package catalog holds the immutable in-memory compound table loaded once at
// startup. A Catalog is safe for concurrent readers because nothing mutates it
// after construction.
package catalog

// DefaultNameColumn is the header of the column that holds compound names.
const DefaultNameColumn = "Sialic acid analogues"

type Catalog struct {
	nameColumn string
	columns    []string
	compounds  []Compound
}

// New builds a catalog from already parsed rows. columns lists the headers in
// first-seen order.
func New(nameColumn string, columns []string, compounds []Compound) *Catalog {
	return &Catalog{
		nameColumn: nameColumn,
		columns:    append([]string(nil), columns...),
		compounds:  append([]Compound(nil), compounds...),
	}
}

func (c *Catalog) NameColumn() string {
	return c.nameColumn
}

func (c *Catalog) Columns() []string {
	return append([]string(nil), c.columns...)
}

func (c *Catalog) Len() int {
	return len(c.compounds)
}

// At returns the compound at position i in catalog order.
func (c *Catalog) At(i int) Compound {
	return c.compounds[i]
}

// Compounds returns a copy of all rows in catalog order.
func (c *Catalog) Compounds() []Compound {
	return append([]Compound(nil), c.compounds...)
}

// Names returns the distinct non-empty names in first-seen order.
func (c *Catalog) Names() []string {
	seen := make(map[string]struct{}, len(c.compounds))
	names := make([]string, 0, len(c.compounds))
	for _, compound := range c.compounds {
		if !compound.HasName() {
			continue
		}
		if _, dup := seen[compound.Name]; dup {
			continue
		}
		seen[compound.Name] = struct{}{}
		names = append(names, compound.Name)
	}
	return names
}
