package model

import (
	"sort"
	"strings"
)

// AcronymTable maps an uppercase term to its human-readable expansion.
// Keys are stored uppercase; Lookup normalizes its input.
type AcronymTable map[string]string

// Lookup returns the definition for term, matching case-insensitively.
func (t AcronymTable) Lookup(term string) (string, bool) {
	if term == "" {
		return "", false
	}
	def, ok := t[strings.ToUpper(term)]
	return def, ok
}

// Terms returns the table's keys in sorted order.
func (t AcronymTable) Terms() []string {
	terms := make([]string, 0, len(t))
	for k := range t {
		terms = append(terms, k)
	}
	sort.Strings(terms)
	return terms
}

// GlossaryEntry is a single term with its definition.
type GlossaryEntry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Entries returns the table as a sorted glossary.
func (t AcronymTable) Entries() []GlossaryEntry {
	terms := t.Terms()
	out := make([]GlossaryEntry, len(terms))
	for i, term := range terms {
		out[i] = GlossaryEntry{Term: term, Definition: t[term]}
	}
	return out
}
