package filter

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agrigrant-cli/internal/model"
)

// AllCategories is the land-use selector label meaning "no restriction".
const AllCategories = "All Categories"

// EnhancementCriteria selects CSP enhancements. Zero values leave the
// corresponding restriction unset.
type EnhancementCriteria struct {
	Search  string
	LandUse model.LandUse
	CSAF    *bool
}

// ProgramCriteria selects grant programs. Zero values leave the corresponding
// restriction unset.
type ProgramCriteria struct {
	Search   string
	Category string
	Agency   string
}

// Enhancements filters CSP enhancements by search text (name, code, details),
// land use and climate-smart flag.
func Enhancements(records []model.CspEnhancement, c EnhancementCriteria) []model.CspEnhancement {
	var preds []Predicate[model.CspEnhancement]
	if c.LandUse != "" {
		want := c.LandUse
		preds = append(preds, func(e model.CspEnhancement) bool { return e.LandUse == want })
	}
	if c.CSAF != nil {
		want := *c.CSAF
		preds = append(preds, func(e model.CspEnhancement) bool { return e.CSAF == want })
	}
	return Apply(records, c.Search, model.CspEnhancement.SearchFields, preds...)
}

// Programs filters grant programs by search text (name, details, eligibility),
// category and agency.
func Programs(records []model.GrantProgram, c ProgramCriteria) []model.GrantProgram {
	var preds []Predicate[model.GrantProgram]
	if c.Category != "" {
		want := c.Category
		preds = append(preds, func(p model.GrantProgram) bool { return p.Category == want })
	}
	if c.Agency != "" {
		want := c.Agency
		preds = append(preds, func(p model.GrantProgram) bool { return p.Agency == want })
	}
	return Apply(records, c.Search, model.GrantProgram.SearchFields, preds...)
}

// ParseLandUse converts selector input into a land-use restriction. Empty input
// and "All Categories" mean unrestricted. Matching against the closed set
// ignores case.
func ParseLandUse(s string) (model.LandUse, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, AllCategories) {
		return "", nil
	}
	for _, lu := range model.LandUses {
		if strings.EqualFold(s, string(lu)) {
			return lu, nil
		}
	}
	return "", eris.Errorf("filter: unknown land use %q", s)
}

// ParseTriState converts a flag selector into an optional boolean restriction:
// "" or "all" is unset; "csaf", "yes" and true-like values select true;
// "non-csaf", "no" and false-like values select false.
func ParseTriState(s string) (*bool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "all", "any":
		return nil, nil
	case "csaf", "yes", "y":
		v := true
		return &v, nil
	case "non-csaf", "noncsaf", "no", "n":
		v := false
		return &v, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, eris.Errorf("filter: invalid flag value %q", s)
	}
	return &v, nil
}
