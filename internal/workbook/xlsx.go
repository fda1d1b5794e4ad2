package workbook

import (
	"github.com/xuri/excelize/v2"
)

type xlsxWorkbook struct {
	file *excelize.File
	opts Options
}

func openXLSX(path string, opts Options) (*xlsxWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return &xlsxWorkbook{file: f, opts: opts}, nil
}

func (w *xlsxWorkbook) SheetNames() []string {
	return w.file.GetSheetList()
}

func (w *xlsxWorkbook) Rows(sheet string) ([][]string, error) {
	rows, err := w.file.GetRows(sheet, excelize.Options{RawCellValue: !w.opts.FormattedValues})
	if err != nil {
		return nil, err
	}
	return trimTrailingEmptyRows(rows), nil
}

func (w *xlsxWorkbook) Close() error {
	return w.file.Close()
}
