package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeDirectoryAccess   ErrorType = "DIRECTORY_ACCESS"
	ErrTypeMalformedFilename ErrorType = "MALFORMED_FILENAME"
	ErrTypeSheetNotFound     ErrorType = "SHEET_NOT_FOUND"
	ErrTypeAmbiguousSheet    ErrorType = "AMBIGUOUS_SHEET"
	ErrTypeYearMismatch      ErrorType = "YEAR_MISMATCH"
	ErrTypeWorkbookRead      ErrorType = "WORKBOOK_READ"
	ErrTypeTableShape        ErrorType = "TABLE_SHAPE"
	ErrTypeWrite             ErrorType = "WRITE"
	ErrTypeConfig            ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewDirectoryAccessError creates an error for an unreadable input directory.
// It is the only error kind that aborts a whole run.
func NewDirectoryAccessError(dir string, cause error) *AppError {
	return NewAppError(ErrTypeDirectoryAccess, fmt.Sprintf("cannot access input directory %s", dir), cause).
		WithContext("directory", dir)
}

// NewMalformedFilenameError creates an error for a filename without an FY<yy> token
func NewMalformedFilenameError(fileName, reason string) *AppError {
	return NewAppError(ErrTypeMalformedFilename, fmt.Sprintf("%s: %s", fileName, reason), nil).
		WithContext("file", fileName)
}

// NewSheetNotFoundError creates an error for a loan type with no matching sheet
func NewSheetNotFoundError(loanType string, sheets []string) *AppError {
	return NewAppError(ErrTypeSheetNotFound, fmt.Sprintf("no %s sheet found", loanType), nil).
		WithContext("loan_type", loanType).
		WithContext("sheets", sheets)
}

// NewAmbiguousSheetError creates an error for a loan type matched by several sheets
func NewAmbiguousSheetError(loanType string, matches []string) *AppError {
	return NewAppError(ErrTypeAmbiguousSheet, fmt.Sprintf("%d sheets match %s: %q", len(matches), loanType, matches), nil).
		WithContext("loan_type", loanType).
		WithContext("matches", matches)
}

// NewYearMismatchError creates an error for a filename year not confirmed by the home sheet
func NewYearMismatchError(token, sheet string, candidates []string) *AppError {
	return NewAppError(ErrTypeYearMismatch,
		fmt.Sprintf("year token %q not confirmed by sheet %q (candidates %q)", token, sheet, candidates), nil).
		WithContext("token", token).
		WithContext("sheet", sheet).
		WithContext("candidates", candidates)
}

// NewWorkbookReadError creates an error for a workbook that cannot be opened or read
func NewWorkbookReadError(path string, cause error) *AppError {
	return NewAppError(ErrTypeWorkbookRead, fmt.Sprintf("failed to read workbook %s", path), cause).
		WithContext("path", path)
}

// NewTableShapeError creates an error for a sheet that has no header row
func NewTableShapeError(sheet string, rows, headerRow int) *AppError {
	return NewAppError(ErrTypeTableShape,
		fmt.Sprintf("sheet %q has %d rows, header expected at row %d", sheet, rows, headerRow), nil).
		WithContext("sheet", sheet)
}

// NewWriteError creates an error for an output file that could not be written
func NewWriteError(path string, cause error) *AppError {
	return NewAppError(ErrTypeWrite, fmt.Sprintf("failed to write %s", path), cause).
		WithContext("path", path)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "" if none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err's chain contains an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	return err != nil && TypeOf(err) == errType
}
