package loans

import (
	"sort"
	"strconv"
	"strings"

	apperrors "sbaclean/internal/errors"
	"sbaclean/pkg/contracts/domain"
)

// yearMarker precedes the two-digit fiscal year in SBA report file names
const yearMarker = "FY"

// YearToken returns the two digits that follow the first "FY" in fileName
func YearToken(fileName string) (string, error) {
	idx := strings.Index(fileName, yearMarker)
	if idx < 0 {
		return "", apperrors.NewMalformedFilenameError(fileName, "no FY marker")
	}

	rest := fileName[idx+len(yearMarker):]
	if len(rest) < 2 {
		return "", apperrors.NewMalformedFilenameError(fileName, "FY marker not followed by two characters")
	}

	token := rest[:2]
	if !isDigit(token[0]) || !isDigit(token[1]) {
		return "", apperrors.NewMalformedFilenameError(fileName, "FY marker not followed by two digits")
	}
	return token, nil
}

// FiscalYear expands a two-digit token into a four-digit year in the 2000s
func FiscalYear(token string) (int, error) {
	n, err := strconv.Atoi(token)
	if err != nil || len(token) != 2 {
		return 0, apperrors.NewMalformedFilenameError(token, "year token must be two digits")
	}
	return 2000 + n, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// YearResolver cross-checks a file's year token against its home sheet name
// using the tokens of every workbook in the run.
type YearResolver struct {
	tokens []string
}

// NewYearResolver collects the distinct year tokens of files. Malformed names are ignored.
func NewYearResolver(files []domain.InputFile) *YearResolver {
	seen := make(map[string]struct{})
	var tokens []string
	for _, f := range files {
		token, err := YearToken(f.Name)
		if err != nil {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return &YearResolver{tokens: tokens}
}

// Tokens returns the known year tokens in ascending order
func (r *YearResolver) Tokens() []string {
	return append([]string(nil), r.tokens...)
}

// Resolve returns the fiscal year for a file whose name carries token.
// Exactly one known token must appear in homeSheet and it must equal token.
func (r *YearResolver) Resolve(token, homeSheet string) (int, error) {
	var candidates []string
	for _, t := range r.tokens {
		if strings.Contains(homeSheet, t) {
			candidates = append(candidates, t)
		}
	}

	if len(candidates) != 1 || candidates[0] != token {
		return 0, apperrors.NewYearMismatchError(token, homeSheet, candidates)
	}
	return FiscalYear(token)
}
