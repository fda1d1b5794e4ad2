package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "sbaclean/internal/errors"
)

// lockFilePrefix marks the owner files office suites leave next to open workbooks
const lockFilePrefix = "~$"

// FileValidator checks the input directory and workbooks before they are processed
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputDirectory validates that dir exists and is a directory
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return apperrors.NewDirectoryAccessError(dir, err)
	}
	if err != nil {
		v.logger.Error("Failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewDirectoryAccessError(dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return apperrors.NewDirectoryAccessError(dir, fmt.Errorf("%s is not a directory", dir))
	}

	v.logger.Debug("Input directory validated", slog.String("directory", dir))
	return nil
}

// ValidateWorkbook checks that path is a readable spreadsheet and not an office lock file
func (v *FileValidator) ValidateWorkbook(path string) error {
	base := filepath.Base(path)
	if strings.HasPrefix(base, lockFilePrefix) {
		v.logger.Warn("Rejecting office lock file",
			slog.String("file", path))
		return apperrors.NewWorkbookReadError(path, fmt.Errorf("%s is an office lock file", base))
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".xls" {
		return apperrors.NewWorkbookReadError(path, fmt.Errorf("not an Excel file (extension: %s)", ext))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Workbook is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewWorkbookReadError(path, err)
	}
	file.Close()

	return nil
}
