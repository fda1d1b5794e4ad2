package loans

import (
	"strconv"

	apperrors "sbaclean/internal/errors"
	"sbaclean/pkg/contracts/domain"
)

// DefaultHeaderRow is the 0-based row holding column names in SBA reports
const DefaultHeaderRow = 4

// NormalizeOptions controls header detection
type NormalizeOptions struct {
	HeaderRow int
}

// Normalize promotes the header row of raw to column names, drops the rows
// above it and appends year, loan_type and entry_id to every remaining row.
// Header cells are used verbatim. Rows are kept in order, padded to the widest
// row of the sheet, and never filtered.
func Normalize(raw [][]string, sheet string, role domain.LoanType, year int, opts NormalizeOptions) (*domain.LoanTable, error) {
	headerRow := opts.HeaderRow
	if headerRow < 0 {
		headerRow = DefaultHeaderRow
	}
	if len(raw) <= headerRow {
		return nil, apperrors.NewTableShapeError(sheet, len(raw), headerRow)
	}

	width := 0
	for _, row := range raw {
		if len(row) > width {
			width = len(row)
		}
	}

	columns := make([]string, 0, width+3)
	columns = append(columns, pad(raw[headerRow], width)...)
	columns = append(columns, domain.ColumnYear, domain.ColumnLoanType, domain.ColumnEntryID)

	yearValue := strconv.Itoa(year)
	data := raw[headerRow+1:]
	rows := make([][]string, len(data))
	for i, src := range data {
		row := make([]string, 0, width+3)
		row = append(row, pad(src, width)...)
		row = append(row, yearValue, string(role), strconv.Itoa(i))
		rows[i] = row
	}

	return &domain.LoanTable{
		Sheet:    sheet,
		Year:     year,
		LoanType: role,
		Columns:  columns,
		Rows:     rows,
	}, nil
}

// pad copies row and extends it with empty cells up to width
func pad(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
