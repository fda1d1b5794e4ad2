package workbook

import (
	"errors"
	"fmt"
	"os"

	"github.com/extrame/xls"
)

// maxXLSColumns is the BIFF8 column limit, used when a row carries no column bounds
const maxXLSColumns = 256

// xlsWorkbook reads legacy BIFF (.xls) workbooks
type xlsWorkbook struct {
	book *xls.WorkBook
	file *os.File
}

func openXLS(path string) (wb *xlsWorkbook, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	// the BIFF decoder panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			f.Close()
			wb, err = nil, fmt.Errorf("corrupt xls file: %v", r)
		}
	}()

	book, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		f.Close()
		return nil, err
	}
	if book == nil {
		f.Close()
		return nil, errors.New("no workbook stream found")
	}
	return &xlsWorkbook{book: book, file: f}, nil
}

func (w *xlsWorkbook) SheetNames() []string {
	var names []string
	for i := 0; i < w.book.NumSheets(); i++ {
		if sheet := w.book.GetSheet(i); sheet != nil {
			names = append(names, sheet.Name)
		}
	}
	return names
}

func (w *xlsWorkbook) Rows(name string) (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("corrupt sheet %q: %v", name, r)
		}
	}()

	var sheet *xls.WorkSheet
	for i := 0; i < w.book.NumSheets(); i++ {
		if s := w.book.GetSheet(i); s != nil && s.Name == name {
			sheet = s
			break
		}
	}
	if sheet == nil {
		return nil, fmt.Errorf("sheet %s does not exist", name)
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := rowAt(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}

		last := row.LastCol()
		if last == 0 {
			last = maxXLSColumns
		}
		cells := make([]string, last)
		for j := row.FirstCol(); j < last; j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, trimTrailingEmptyCells(cells))
	}

	return trimTrailingEmptyRows(rows), nil
}

// rowAt returns row i, or nil when the sheet has no record for it.
// WorkSheet.Row dereferences a missing row, so gaps and empty sheets panic.
func rowAt(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

func (w *xlsWorkbook) Close() error {
	if w.file == nil {
		return nil
	}
	return w.file.Close()
}
