package domain

import (
	"time"
)

// LoanType tags a sheet, and every row extracted from it, as home or business loans.
type LoanType string

const (
	LoanTypeHome     LoanType = "Home"
	LoanTypeBusiness LoanType = "Business"
)

// LoanTypes lists the roles in processing order.
var LoanTypes = []LoanType{LoanTypeHome, LoanTypeBusiness}

// Suffix returns the output filename marker for the loan type ("_H" or "_B").
func (t LoanType) Suffix() string {
	switch t {
	case LoanTypeHome:
		return "_H"
	case LoanTypeBusiness:
		return "_B"
	default:
		return ""
	}
}

// Keyword returns the lower-case word a sheet name must contain to match the loan type.
func (t LoanType) Keyword() string {
	switch t {
	case LoanTypeHome:
		return "home"
	case LoanTypeBusiness:
		return "business"
	default:
		return ""
	}
}

// InputFile is one workbook found in the input directory.
type InputFile struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Extension string    `json:"extension" validate:"oneof=xlsx xls"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"mod_time"`
}

// Metadata column names appended to every extracted table, in output order.
const (
	ColumnYear     = "year"
	ColumnLoanType = "loan_type"
	ColumnEntryID  = "entry_id"
)

// LoanTable is a sheet after header promotion and metadata augmentation.
// Columns ends with year, loan_type and entry_id; every row has len(Columns) cells.
type LoanTable struct {
	Sheet    string     `json:"sheet"`
	Year     int        `json:"year"`
	LoanType LoanType   `json:"loan_type"`
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"-"`
}

// Header returns the columns taken from the sheet's header row, without the metadata columns.
func (t *LoanTable) Header() []string {
	if len(t.Columns) < 3 {
		return t.Columns
	}
	return t.Columns[:len(t.Columns)-3]
}

// OutputRecord describes one extract written for a (workbook, loan type) pair.
type OutputRecord struct {
	LoanType LoanType `json:"loan_type"`
	Sheet    string   `json:"sheet"`
	Path     string   `json:"path"`
	Rows     int      `json:"rows"`
}
