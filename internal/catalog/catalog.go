package catalog

import (
	"slices"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agrigrant-cli/internal/model"
)

// ErrNotFound is returned when an id or code is not in the catalog.
var ErrNotFound = eris.New("catalog: not found")

// Catalog is the process-wide reference snapshot. It is never mutated after
// Load returns, so it is safe for concurrent use without locking.
type Catalog struct {
	categories   []model.Category
	programs     []model.GrantProgram
	enhancements []model.CspEnhancement
	acronyms     model.AcronymTable
	forms        []model.FormInfo
	guide        model.Guide

	programIdx     map[string]int
	enhancementIdx map[string]int
	categoryIdx    map[string]int
}

// indexKey normalizes ids and codes so lookups tolerate casing differences
// (recommendation providers sometimes echo "E328e" or "CSP").
func indexKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (c *Catalog) buildIndexes() {
	c.programIdx = make(map[string]int, len(c.programs))
	for i, p := range c.programs {
		c.programIdx[indexKey(p.ID)] = i
	}
	c.enhancementIdx = make(map[string]int, len(c.enhancements))
	for i, e := range c.enhancements {
		c.enhancementIdx[indexKey(e.Code)] = i
	}
	c.categoryIdx = make(map[string]int, len(c.categories))
	for i, cat := range c.categories {
		c.categoryIdx[cat.Key] = i
	}
}

// Categories returns the program categories in display order.
func (c *Catalog) Categories() []model.Category {
	return slices.Clone(c.categories)
}

// Category returns the category with the given key.
func (c *Catalog) Category(key string) (model.Category, error) {
	i, ok := c.categoryIdx[key]
	if !ok {
		return model.Category{}, eris.Wrapf(ErrNotFound, "category %q", key)
	}
	return c.categories[i], nil
}

// Programs returns every grant program in source order.
func (c *Catalog) Programs() []model.GrantProgram {
	return slices.Clone(c.programs)
}

// ProgramsByCategory returns the programs of one category in source order.
func (c *Catalog) ProgramsByCategory(key string) []model.GrantProgram {
	var out []model.GrantProgram
	for _, p := range c.programs {
		if p.Category == key {
			out = append(out, p)
		}
	}
	return out
}

// Program looks up a grant program by id.
func (c *Catalog) Program(id string) (model.GrantProgram, error) {
	i, ok := c.programIdx[indexKey(id)]
	if !ok {
		return model.GrantProgram{}, eris.Wrapf(ErrNotFound, "program %q", id)
	}
	return c.programs[i], nil
}

// ProgramIDs returns every program id in source order.
func (c *Catalog) ProgramIDs() []string {
	ids := make([]string, len(c.programs))
	for i, p := range c.programs {
		ids[i] = p.ID
	}
	return ids
}

// Enhancements returns every CSP enhancement in source order.
func (c *Catalog) Enhancements() []model.CspEnhancement {
	return slices.Clone(c.enhancements)
}

// Enhancement looks up a CSP enhancement by code.
func (c *Catalog) Enhancement(code string) (model.CspEnhancement, error) {
	i, ok := c.enhancementIdx[indexKey(code)]
	if !ok {
		return model.CspEnhancement{}, eris.Wrapf(ErrNotFound, "enhancement %q", code)
	}
	return c.enhancements[i], nil
}

// Acronyms returns the shared acronym table. Callers must not modify it.
func (c *Catalog) Acronyms() model.AcronymTable {
	return c.acronyms
}

// Forms returns the key program forms in source order.
func (c *Catalog) Forms() []model.FormInfo {
	return slices.Clone(c.forms)
}

// Guide returns the narrative guide content.
func (c *Catalog) Guide() model.Guide {
	return c.guide
}
