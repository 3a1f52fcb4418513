package catalog

import (
	"fmt"
	"strings"
)

// ValidationError lists every problem found in the reference data.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog: invalid reference data (%d problems): %s",
		len(e.Problems), strings.Join(e.Problems, "; "))
}

type problems []string

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func validate(c *Catalog) error {
	var errs problems

	categories := make(map[string]bool, len(c.categories))
	for i, cat := range c.categories {
		if cat.Key == "" {
			errs.addf("category %d: empty key", i)
			continue
		}
		if categories[cat.Key] {
			errs.addf("category %q: duplicate key", cat.Key)
		}
		categories[cat.Key] = true
	}

	programs := make(map[string]bool, len(c.programs))
	for i, p := range c.programs {
		if p.ID == "" {
			errs.addf("program %d: empty id", i)
			continue
		}
		key := indexKey(p.ID)
		if programs[key] {
			errs.addf("program %q: duplicate id", p.ID)
		}
		programs[key] = true
		if p.Name == "" {
			errs.addf("program %q: empty name", p.ID)
		}
		if p.Agency == "" {
			errs.addf("program %q: empty agency", p.ID)
		}
		if !categories[p.Category] {
			errs.addf("program %q: unknown category %q", p.ID, p.Category)
		}
		if p.SuccessRate != nil && (*p.SuccessRate < 0 || *p.SuccessRate > 100) {
			errs.addf("program %q: success rate %d outside [0,100]", p.ID, *p.SuccessRate)
		}
	}

	codes := make(map[string]bool, len(c.enhancements))
	for i, e := range c.enhancements {
		if e.Code == "" {
			errs.addf("enhancement %d: empty code", i)
			continue
		}
		key := indexKey(e.Code)
		if codes[key] {
			errs.addf("enhancement %q: duplicate code", e.Code)
		}
		codes[key] = true
		if e.Name == "" {
			errs.addf("enhancement %q: empty name", e.Code)
		}
		if !e.LandUse.Valid() {
			errs.addf("enhancement %q: land use %q not in closed set", e.Code, e.LandUse)
		}
	}

	for _, term := range c.acronyms.Terms() {
		def := c.acronyms[term]
		if !isAcronymKey(term) {
			errs.addf("acronym %q: key must be uppercase ASCII letters or digits", term)
		}
		if strings.TrimSpace(def) == "" {
			errs.addf("acronym %q: empty definition", term)
		}
	}

	forms := make(map[string]bool, len(c.forms))
	for i, f := range c.forms {
		if f.ID == "" {
			errs.addf("form %d: empty id", i)
			continue
		}
		if forms[f.ID] {
			errs.addf("form %q: duplicate id", f.ID)
		}
		forms[f.ID] = true
	}

	byID := make(map[string]int, len(c.programs))
	for i, p := range c.programs {
		byID[indexKey(p.ID)] = i
	}
	for _, entry := range c.guide.SuccessChart {
		i, ok := byID[indexKey(entry.ProgramID)]
		if !ok {
			errs.addf("chart entry %q: unknown program", entry.ProgramID)
			continue
		}
		if !c.programs[i].HasSuccessRate() {
			errs.addf("chart entry %q: program has no success rate", entry.ProgramID)
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}

func isAcronymKey(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if !(b >= 'A' && b <= 'Z' || b >= '0' && b <= '9') {
			return false
		}
	}
	return true
}
