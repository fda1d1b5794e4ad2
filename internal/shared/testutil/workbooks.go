package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// SheetFixture is one sheet of a generated workbook
type SheetFixture struct {
	Name string
	Rows [][]any
}

// WriteWorkbook saves an xlsx workbook with the given sheets, in order, and returns its path
func WriteWorkbook(t *testing.T, dir, name string, sheets ...SheetFixture) string {
	t.Helper()
	require.NotEmpty(t, sheets, "workbook needs at least one sheet")

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet.Name))
		} else {
			_, err := f.NewSheet(sheet.Name)
			require.NoError(t, err)
		}

		for r, row := range sheet.Rows {
			if len(row) == 0 {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(sheet.Name, cell, &values))
		}
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// LoanSheet builds an SBA report sheet: four preamble rows, a header row, then data rows
func LoanSheet(name string, header []string, data ...[]any) SheetFixture {
	rows := [][]any{
		{"U.S. Small Business Administration"},
		{"Disaster Loan Report"},
		{"Generated for internal review"},
		{"Amounts in USD"},
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	rows = append(rows, headerRow)
	rows = append(rows, data...)

	return SheetFixture{Name: name, Rows: rows}
}

// LoanRows generates n data rows of the form [city-i, state-i, amount]
func LoanRows(n int) [][]any {
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = []any{fmt.Sprintf("City%d", i), fmt.Sprintf("ST%d", i), fmt.Sprintf("%d", (i+1)*1000)}
	}
	return rows
}
