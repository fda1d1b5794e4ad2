// Package operations runs the extraction pipeline over an input directory.
//
// A Processor discovers the workbooks, then for each one in listing order:
// reads the fiscal year token from the file name, opens the workbook,
// classifies its home and business sheets, cross-checks the year against the
// home sheet name, normalizes both sheets and writes the two extracts.
// Each file yields a domain.FileResult; a RunManifest gathers them into a
// domain.RunSummary that can be saved as JSON.
//
// Progress is logged as an integer percentage after every file. Cancellation
// is checked between files, so the workbook in flight always finishes.
package operations
