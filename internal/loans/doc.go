// Package loans holds the SBA disaster-loan extraction rules: fiscal year
// recovery from file names, home/business sheet classification and table
// normalization with provenance columns.
//
// The rules are heuristics over the published report layout. Sheet names are
// matched by case-insensitive substring, and the header is a fixed row offset
// (row 4 by default) below a title preamble.
package loans
