package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sbaclean/internal/errors"
	"sbaclean/internal/shared/testutil"
	"sbaclean/pkg/contracts/domain"
)

func scenarioTable() *domain.LoanTable {
	return &domain.LoanTable{
		Sheet:    "FY21 Home",
		Year:     2021,
		LoanType: domain.LoanTypeHome,
		Columns:  []string{"ID", "City", "State", "year", "loan_type", "entry_id"},
		Rows: [][]string{
			{"1", "Houston", "TX", "2021", "Home", "0"},
			{"2", "Miami", "FL", "2021", "Home", "1"},
			{"3", "Tulsa", "OK", "2021", "Home", "2"},
		},
	}
}

func TestNewCSVWriter(t *testing.T) {
	assert.Equal(t, '|', NewCSVWriter(0, nil).Delimiter())
	assert.Equal(t, ';', NewCSVWriter(';', nil).Delimiter())
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		role domain.LoanType
		want string
	}{
		{domain.LoanTypeHome, filepath.Join("tmp-etl", "sba", "DISASTER_FY21_REPORT.xlsx_Hclean.csv")},
		{domain.LoanTypeBusiness, filepath.Join("tmp-etl", "sba", "DISASTER_FY21_REPORT.xlsx_Bclean.csv")},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(filepath.Join("tmp-etl", "sba"), "DISASTER_FY21_REPORT.xlsx", tt.role))
		})
	}
}

func TestCSVWriter_WriteTable(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	writer := NewCSVWriter('|', logger)
	path := filepath.Join(t.TempDir(), "DISASTER_FY21_REPORT.xlsx_Hclean.csv")

	record, err := writer.WriteTable(path, scenarioTable())
	require.NoError(t, err)

	assert.Equal(t, domain.OutputRecord{LoanType: domain.LoanTypeHome, Sheet: "FY21 Home", Path: path, Rows: 3}, record)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID|City|State|year|loan_type|entry_id\n"+
		"1|Houston|TX|2021|Home|0\n"+
		"2|Miami|FL|2021|Home|1\n"+
		"3|Tulsa|OK|2021|Home|2\n", string(content))
	assert.False(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}), "no BOM")
}

func TestCSVWriter_RoundTrip(t *testing.T) {
	table := &domain.LoanTable{
		LoanType: domain.LoanTypeBusiness,
		Columns:  []string{"Name", "Note|Pipe", `Quote"d`, "year", "loan_type", "entry_id"},
		Rows: [][]string{
			{"Acme, Inc.", "a|b", `say "hi"`, "2020", "Business", "0"},
			{"", "multi\nline", "", "2020", "Business", "1"},
		},
	}
	path := filepath.Join(t.TempDir(), "out_Bclean.csv")

	_, err := NewCSVWriter('|', nil).WriteTable(path, table)
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '|'
	records, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, table.Columns, records[0])
	assert.Equal(t, table.Rows, records[1:])
}

func TestCSVWriter_MinimalQuoting(t *testing.T) {
	table := &domain.LoanTable{
		LoanType: domain.LoanTypeHome,
		Columns:  []string{" ID ", "City", "Note", "year", "loan_type", "entry_id"},
		Rows: [][]string{
			{" 7", "Houston ", "a|b", "2021", "Home", "0"},
			{"\t8", "", `5" pipe`, "2021", "Home", "1"},
		},
	}
	path := filepath.Join(t.TempDir(), "out_Hclean.csv")

	_, err := NewCSVWriter('|', nil).WriteTable(path, table)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, " ID |City|Note|year|loan_type|entry_id\n"+
		" 7|Houston |\"a|b\"|2021|Home|0\n"+
		"\t8||\"5\"\" pipe\"|2021|Home|1\n", string(content))

	header := strings.SplitN(string(content), "\n", 2)[0]
	assert.Equal(t, table.Columns, strings.Split(header, "|"), "header splits back into the original names")
}

func TestCSVWriter_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out_Hclean.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale content\n", 100)), 0644))
	writer := NewCSVWriter('|', nil)

	_, err := writer.WriteTable(path, scenarioTable())
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = writer.WriteTable(path, scenarioTable())
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.NotContains(t, string(first), "stale")
	assert.Equal(t, first, second, "rewrites are byte-identical")
}

func TestCSVWriter_CustomDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	_, err := NewCSVWriter('\t', nil).WriteTable(path, scenarioTable())
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "ID\tCity\tState\tyear\tloan_type\tentry_id\n"))
}

func TestCSVWriter_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.csv")

		_, err := NewCSVWriter('|', nil).WriteTable(path, scenarioTable())

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeWrite))
	})

	t.Run("invalid delimiter", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")

		_, err := NewCSVWriter('"', nil).WriteTable(path, scenarioTable())

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeWrite))
	})
}
