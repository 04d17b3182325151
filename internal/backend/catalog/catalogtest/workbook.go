// Package catalogtest writes small workbooks for tests of packages that load a
// catalog from disk.
package catalogtest

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet; the first row is the header.
type Sheet struct {
	Name string
	Rows [][]any
}

// WriteWorkbook saves the sheets as descriptions.xlsx under dir and returns its path.
func WriteWorkbook(t *testing.T, dir string, sheets ...Sheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				t.Fatalf("SetSheetName error: %v", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			t.Fatalf("NewSheet(%q) error: %v", sheet.Name, err)
		}
		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName error: %v", err)
			}
			values := append([]any(nil), row...)
			if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
				t.Fatalf("SetSheetRow(%q, %s) error: %v", sheet.Name, cell, err)
			}
		}
	}

	path := filepath.Join(dir, "descriptions.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}
	return path
}

// Analogues returns a single-sheet workbook with the Neu5Ac, Neu5Gc and KDN rows.
func Analogues() Sheet {
	return Sheet{
		Name: "Sheet1",
		Rows: [][]any{
			{"Sialic acid analogues", "Formula", "Description"},
			{"Neu5Ac", "C11H19NO9", "N-acetylneuraminic acid"},
			{"Neu5Gc", "C11H19NO10", "N-glycolylneuraminic acid"},
			{"KDN", "C9H16O9", "2-keto-3-deoxy-D-glycero-D-galacto-nononic acid"},
		},
	}
}
