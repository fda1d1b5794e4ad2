package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoanType_SuffixAndKeyword(t *testing.T) {
	tests := []struct {
		name        string
		loanType    LoanType
		wantSuffix  string
		wantKeyword string
	}{
		{"home", LoanTypeHome, "_H", "home"},
		{"business", LoanTypeBusiness, "_B", "business"},
		{"unknown", LoanType("Farm"), "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantSuffix, tt.loanType.Suffix())
			assert.Equal(t, tt.wantKeyword, tt.loanType.Keyword())
		})
	}
}

func TestLoanTypes_Order(t *testing.T) {
	assert.Equal(t, []LoanType{LoanTypeHome, LoanTypeBusiness}, LoanTypes)
}

func TestLoanTable_Header(t *testing.T) {
	table := &LoanTable{
		Columns: []string{"ID", "City", "State", ColumnYear, ColumnLoanType, ColumnEntryID},
	}

	assert.Equal(t, []string{"ID", "City", "State"}, table.Header())
}

func TestRunSummary_FailedFiles(t *testing.T) {
	summary := &RunSummary{
		Files: []FileResult{
			{File: InputFile{Name: "SBA_FY20.xlsx"}, Status: FileStatusCompleted},
			{File: InputFile{Name: "SBA_FY21.xlsx"}, Status: FileStatusFailed},
			{File: InputFile{Name: "notes.xlsx"}, Status: FileStatusFailed},
		},
	}

	assert.Equal(t, []string{"SBA_FY21.xlsx", "notes.xlsx"}, summary.FailedFiles())
}
