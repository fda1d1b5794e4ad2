// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides a capturing slog handler and builders
// for SBA workbook fixtures written with excelize.
package shared
