package workbook

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "sbaclean/internal/errors"
)

// Workbook is an open spreadsheet: an ordered list of sheets and their raw cell grids.
// Rows are returned without header interpretation; a row may be shorter than
// its neighbours when trailing cells are empty.
type Workbook interface {
	SheetNames() []string
	Rows(sheet string) ([][]string, error)
	Close() error
}

// Options configures how cell values are read
type Options struct {
	// FormattedValues returns cells as displayed by their number format (xlsx only).
	// By default the stored value is returned, e.g. 12345.5 rather than "$12,345.50".
	FormattedValues bool
}

// Open opens the workbook at path, choosing the reader from the file extension
func Open(path string, opts Options) (Workbook, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		wb  Workbook
		err error
	)
	switch ext {
	case ".xlsx":
		wb, err = openXLSX(path, opts)
	case ".xls":
		wb, err = openXLS(path)
	default:
		err = fmt.Errorf("unsupported workbook extension %q", ext)
	}
	if err != nil {
		return nil, apperrors.NewWorkbookReadError(path, err)
	}
	return wb, nil
}

// trimTrailingEmptyRows drops empty rows at the end of the grid
func trimTrailingEmptyRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isEmptyRow(rows[end-1]) {
		end--
	}
	return rows[:end]
}

// trimTrailingEmptyCells drops empty cells at the end of a row
func trimTrailingEmptyCells(row []string) []string {
	end := len(row)
	for end > 0 && row[end-1] == "" {
		end--
	}
	return row[:end]
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
