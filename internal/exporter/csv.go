package exporter

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	apperrors "sbaclean/internal/errors"
	"sbaclean/pkg/contracts/domain"
)

// DefaultDelimiter separates fields in SBA extracts
const DefaultDelimiter = '|'

// OutputMarker ends every extract file name
const OutputMarker = "clean.csv"

// CSVWriter writes loan tables as delimited files
type CSVWriter struct {
	delimiter rune
	logger    *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance. A zero delimiter selects DefaultDelimiter.
func NewCSVWriter(delimiter rune, logger *slog.Logger) *CSVWriter {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{delimiter: delimiter, logger: logger}
}

// Delimiter returns the field separator in use
func (w *CSVWriter) Delimiter() rune {
	return w.delimiter
}

// OutputPath returns the extract path for a workbook and loan type:
// <dir>/<fileName><suffix>clean.csv
func OutputPath(dir, fileName string, role domain.LoanType) string {
	return filepath.Join(dir, fileName+role.Suffix()+OutputMarker)
}

// WriteTable writes the table's columns and rows to path, replacing any existing file.
// Fields are written verbatim and quoted only when they contain the delimiter,
// a double quote or a line break. A failed write may leave a truncated file behind.
func (w *CSVWriter) WriteTable(path string, table *domain.LoanTable) (domain.OutputRecord, error) {
	if !validDelimiter(w.delimiter) {
		return domain.OutputRecord{}, apperrors.NewWriteError(path, fmt.Errorf("invalid field delimiter %q", w.delimiter))
	}

	w.logger.Debug("Writing CSV file",
		slog.String("file_path", path),
		slog.String("loan_type", string(table.LoanType)),
		slog.Int("record_count", len(table.Rows)))

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return domain.OutputRecord{}, apperrors.NewWriteError(path, err)
	}

	if err := w.write(file, table); err != nil {
		file.Close()
		return domain.OutputRecord{}, apperrors.NewWriteError(path, err)
	}
	if err := file.Close(); err != nil {
		return domain.OutputRecord{}, apperrors.NewWriteError(path, err)
	}

	return domain.OutputRecord{
		LoanType: table.LoanType,
		Sheet:    table.Sheet,
		Path:     path,
		Rows:     len(table.Rows),
	}, nil
}

func (w *CSVWriter) write(out io.Writer, table *domain.LoanTable) error {
	buf := bufio.NewWriter(out)

	if err := w.writeRecord(buf, table.Columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range table.Rows {
		if err := w.writeRecord(buf, record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return buf.Flush()
}

// writeRecord writes one line. bufio.Writer errors are sticky, so the final write reports any failure.
func (w *CSVWriter) writeRecord(buf *bufio.Writer, record []string) error {
	for i, field := range record {
		if i > 0 {
			buf.WriteRune(w.delimiter)
		}
		if !w.needsQuotes(field) {
			buf.WriteString(field)
			continue
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		buf.WriteByte('"')
	}
	return buf.WriteByte('\n')
}

// needsQuotes reports whether field cannot be written bare. Surrounding whitespace is never quoted.
func (w *CSVWriter) needsQuotes(field string) bool {
	return strings.ContainsRune(field, w.delimiter) || strings.ContainsAny(field, "\"\r\n")
}

func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}
