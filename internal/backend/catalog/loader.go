package catalog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jo-hoe/sialiccatalog/internal/common"
	"github.com/xuri/excelize/v2"
)

// LoadWorkbook reads every sheet of the workbook at path and concatenates the
// rows into one catalog. The first row of each sheet is its header. A
// non-empty sheet without nameColumn is a fatal data source error.
func LoadWorkbook(path string, nameColumn string) (*Catalog, error) {
	if nameColumn == "" {
		nameColumn = DefaultNameColumn
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook %s: %v", common.ErrDataSource, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("failed to close workbook", "path", path, "error", cerr)
		}
	}()

	builder := newBuilder(nameColumn)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read sheet %q: %v", common.ErrDataSource, sheet, err)
		}
		if err := builder.addSheet(sheet, rows); err != nil {
			return nil, err
		}
	}

	if builder.sheets == 0 {
		return nil, fmt.Errorf("%w: workbook %s contains no data", common.ErrDataSource, path)
	}

	catalog := builder.build()
	slog.Info("catalog loaded",
		"path", path,
		"sheets", builder.sheets,
		"compounds", catalog.Len(),
		"columns", len(catalog.columns))
	return catalog, nil
}

type builder struct {
	nameColumn string
	columns    []string
	seen       map[string]struct{}
	compounds  []Compound
	sheets     int
}

func newBuilder(nameColumn string) *builder {
	return &builder{
		nameColumn: nameColumn,
		seen:       make(map[string]struct{}),
	}
}

// addSheet appends the data rows of one sheet. Blank sheets are skipped.
func (b *builder) addSheet(sheet string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	headers := normalizeHeaders(rows[0])
	nameIndex := -1
	for i, h := range headers {
		if h == b.nameColumn {
			nameIndex = i
			break
		}
	}
	if nameIndex < 0 {
		return fmt.Errorf("%w: sheet %q has no %q column", common.ErrDataSource, sheet, b.nameColumn)
	}

	for _, h := range headers {
		if _, ok := b.seen[h]; !ok {
			b.seen[h] = struct{}{}
			b.columns = append(b.columns, h)
		}
	}

	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		fields := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				fields[h] = row[i]
			} else {
				fields[h] = ""
			}
		}
		b.compounds = append(b.compounds, Compound{
			Name:   fields[b.nameColumn],
			Fields: fields,
		})
	}
	b.sheets++
	return nil
}

func (b *builder) build() *Catalog {
	return New(b.nameColumn, b.columns, b.compounds)
}

// normalizeHeaders trims header cells and names empty ones after their
// position, the way spreadsheet tools label unnamed columns.
// normalizeHeaders trims headers, names empty ones by position and renames
// repeats to "h.1", "h.2", ... so every column keeps its own cell. The first
// occurrence keeps the plain name.
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	used := make(map[string]struct{}, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if _, dup := used[h]; dup {
			base := h
			for n := 1; ; n++ {
				h = fmt.Sprintf("%s.%d", base, n)
				if _, taken := used[h]; !taken {
					break
				}
			}
		}
		used[h] = struct{}{}
		headers[i] = h
	}
	return headers
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
