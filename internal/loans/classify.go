package loans

import (
	"strings"

	apperrors "sbaclean/internal/errors"
	"sbaclean/pkg/contracts/domain"
)

// fiscalMarker must appear in every candidate sheet name, in any case
const fiscalMarker = "fy"

// SheetPair holds the resolved sheet name for each loan type
type SheetPair struct {
	Home     string
	Business string
}

// Name returns the sheet resolved for role
func (p SheetPair) Name(role domain.LoanType) string {
	switch role {
	case domain.LoanTypeHome:
		return p.Home
	case domain.LoanTypeBusiness:
		return p.Business
	default:
		return ""
	}
}

// ClassifySheets picks the single home sheet and the single business sheet from names
func ClassifySheets(names []string) (SheetPair, error) {
	home, err := matchSheet(names, domain.LoanTypeHome)
	if err != nil {
		return SheetPair{}, err
	}
	business, err := matchSheet(names, domain.LoanTypeBusiness)
	if err != nil {
		return SheetPair{}, err
	}

	if home == business {
		return SheetPair{}, apperrors.NewAmbiguousSheetError(string(domain.LoanTypeHome), []string{home}).
			WithContext("also_matches", string(domain.LoanTypeBusiness))
	}
	return SheetPair{Home: home, Business: business}, nil
}

// MatchesRole reports whether a sheet name qualifies for role
func MatchesRole(name string, role domain.LoanType) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, fiscalMarker) && strings.Contains(lower, role.Keyword())
}

func matchSheet(names []string, role domain.LoanType) (string, error) {
	var matches []string
	for _, name := range names {
		if MatchesRole(name, role) {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
		return "", apperrors.NewSheetNotFoundError(string(role), names)
	case 1:
		return matches[0], nil
	default:
		return "", apperrors.NewAmbiguousSheetError(string(role), matches)
	}
}
