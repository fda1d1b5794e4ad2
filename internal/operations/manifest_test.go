package operations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sbaclean/pkg/contracts/domain"
)

func TestRunManifest(t *testing.T) {
	m := NewRunManifest("tmp-etl/sba")

	_, err := uuid.Parse(m.RunID())
	require.NoError(t, err)

	m.SetTotal(2)
	m.RecordFile(domain.FileResult{File: domain.InputFile{Name: "SBA_FY21.xlsx"}, Status: domain.FileStatusCompleted})
	m.RecordFile(domain.FileResult{File: domain.InputFile{Name: "SBA.xlsx"}, Status: domain.FileStatusFailed})

	summary := m.Finish()
	assert.Equal(t, "tmp-etl/sba", summary.InputDir)
	assert.Equal(t, 2, summary.TotalFiles)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Len(t, summary.Files, 2)
	assert.False(t, summary.EndTime.Before(summary.StartTime))
	assert.Equal(t, []string{"SBA.xlsx"}, summary.FailedFiles())
}

func TestRunManifest_SummaryIsCopy(t *testing.T) {
	m := NewRunManifest("in")
	m.RecordFile(domain.FileResult{Status: domain.FileStatusCompleted})

	s := m.Summary()
	s.Files[0].Status = domain.FileStatusFailed

	assert.Equal(t, domain.FileStatusCompleted, m.Summary().Files[0].Status)
}

func TestSaveAndLoadSummary(t *testing.T) {
	m := NewRunManifest("in")
	m.SetTotal(1)
	m.RecordFile(domain.FileResult{
		File:      domain.InputFile{Name: "SBA.xlsx", Extension: "xlsx"},
		Status:    domain.FileStatusFailed,
		ErrorType: "MALFORMED_FILENAME",
		Error:     "no FY marker",
	})
	summary := m.Finish()

	path := filepath.Join(t.TempDir(), "reports", "summary.json")
	require.NoError(t, SaveSummary(path, summary))

	loaded, err := LoadSummary(path)
	require.NoError(t, err)
	assert.Equal(t, summary.RunID, loaded.RunID)
	assert.Equal(t, 1, loaded.Failed)
	require.Len(t, loaded.Files, 1)
	assert.Equal(t, "MALFORMED_FILENAME", loaded.Files[0].ErrorType)

	_, err = LoadSummary(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSaveSummary_RejectsInvalid(t *testing.T) {
	valid := func() *domain.RunSummary {
		m := NewRunManifest("in")
		m.RecordFile(domain.FileResult{
			File:   domain.InputFile{Name: "SBA_FY21.xlsx", Extension: "xlsx"},
			Status: domain.FileStatusCompleted,
		})
		return m.Finish()
	}

	tests := []struct {
		name   string
		mutate func(*domain.RunSummary)
	}{
		{name: "run id is not a uuid", mutate: func(s *domain.RunSummary) { s.RunID = "run-1" }},
		{name: "missing run id", mutate: func(s *domain.RunSummary) { s.RunID = "" }},
		{name: "unknown status", mutate: func(s *domain.RunSummary) { s.Files[0].Status = "skipped" }},
		{name: "unknown extension", mutate: func(s *domain.RunSummary) { s.Files[0].File.Extension = "csv" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := valid()
			tt.mutate(summary)
			path := filepath.Join(t.TempDir(), "summary.json")

			err := SaveSummary(path, summary)

			require.Error(t, err)
			assert.NoFileExists(t, path)
		})
	}

	require.NoError(t, SaveSummary(filepath.Join(t.TempDir(), "summary.json"), valid()))
}

func TestLoadSummary_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"run_id":"run-1","files":[]}`), 0644))

	summary, err := LoadSummary(path)

	assert.Nil(t, summary)
	assert.Error(t, err)
}
