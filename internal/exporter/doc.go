// Package exporter writes normalized loan tables as delimited text extracts.
//
// Each workbook yields two extracts next to it in the input directory:
//
//	<workbook file name>_Hclean.csv   home loans
//	<workbook file name>_Bclean.csv   business loans
//
// Files are UTF-8 without a byte order mark, use "\n" line endings and the
// configured single-rune delimiter ("|" by default). Fields are quoted only
// when encoding/csv requires it. Existing files are truncated, so re-running
// over unchanged input produces identical bytes.
package exporter
