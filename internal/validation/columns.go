package validation

import (
	"strings"
)

// ExpectedColumns is the historical allow-list of SBA disaster-loan report
// columns, in normalized form (lower case, spaces removed).
var ExpectedColumns = []string{
	"sbaphysicaldeclarationnumber",
	"sbaeidldeclarationnumber",
	"femadisasternumber",
	"sbadisasternumber",
	"damagedpropertycityname",
	"damagedpropertyzipcode",
	"damagedpropertycounty/parishname",
	"damagedpropertystatecode",
	"totalverifiedloss",
	"verifiedlossrealestate",
	"verifiedlosscontent",
	"totalapprovedloanamount",
	"approvedamountrealestate",
	"approvedamountcontent",
	"approvedamounteidl",
}

// NormalizeColumnName lower-cases name and strips all whitespace
func NormalizeColumnName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "")
}

// MissingColumns returns the ExpectedColumns entries absent from header, in allow-list order.
// The result is informational and never blocks an extract.
func MissingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[NormalizeColumnName(h)] = struct{}{}
	}

	var missing []string
	for _, col := range ExpectedColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}
