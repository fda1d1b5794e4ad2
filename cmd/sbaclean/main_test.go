package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sbaclean/internal/errors"
	"sbaclean/internal/infrastructure"
	"sbaclean/internal/operations"
	"sbaclean/internal/shared/testutil"
)

func executeCommand(t *testing.T, args ...string) error {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func writeScenario(t *testing.T, dir string) {
	t.Helper()
	testutil.WriteWorkbook(t, dir, "DISASTER_FY21_REPORT.xlsx",
		testutil.LoanSheet("FY21 Home", []string{"ID", "City", "State"},
			[]any{"1", "Houston", "TX"}, []any{"2", "Miami", "FL"}, []any{"3", "Tulsa", "OK"}),
		testutil.LoanSheet("FY21 Business", []string{"ID", "Name"}, []any{"10", "Acme"}),
	)
}

func TestRootCmd_ProcessesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir)
	summaryPath := filepath.Join(t.TempDir(), "summary.json")

	err := executeCommand(t, dir, "--summary", summaryPath, "--log-level", "warn")
	require.NoError(t, err)

	home, err := os.ReadFile(filepath.Join(dir, "DISASTER_FY21_REPORT.xlsx_Hclean.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(home), "ID|City|State|year|loan_type|entry_id\n")
	assert.FileExists(t, filepath.Join(dir, "DISASTER_FY21_REPORT.xlsx_Bclean.csv"))

	summary, err := operations.LoadSummary(summaryPath)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, dir, summary.InputDir)
}

func TestRootCmd_DirectoryFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir)
	t.Setenv("SBA_INPUT_DIR", dir)
	t.Setenv("SBA_OUTPUT_DELIMITER", ";")

	require.NoError(t, executeCommand(t))

	home, err := os.ReadFile(filepath.Join(dir, "DISASTER_FY21_REPORT.xlsx_Hclean.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(home), "ID;City;State;year;loan_type;entry_id\n")
}

func TestRootCmd_FailedFiles(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "NO_YEAR.xlsx"), []byte("x"), 0644))

	err := executeCommand(t, dir)

	require.Error(t, err)
	assert.ErrorIs(t, err, errFilesFailed)
	assert.FileExists(t, filepath.Join(dir, "DISASTER_FY21_REPORT.xlsx_Hclean.csv"))
}

func TestRootCmd_FailFast(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A_FY21.xlsx"), []byte("x"), 0644))
	writeScenario(t, dir)

	err := executeCommand(t, dir, "--fail-fast")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeWorkbookRead))
	assert.NoFileExists(t, filepath.Join(dir, "DISASTER_FY21_REPORT.xlsx_Hclean.csv"))
}

func TestRootCmd_MissingDirectory(t *testing.T) {
	err := executeCommand(t, filepath.Join(t.TempDir(), "missing"))

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeDirectoryAccess))
}

func TestRootCmd_InvalidFlagValue(t *testing.T) {
	err := executeCommand(t, t.TempDir(), "--log-level", "verbose")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestRootCmd_TooManyArgs(t *testing.T) {
	assert.Error(t, executeCommand(t, "a", "b"))
}
