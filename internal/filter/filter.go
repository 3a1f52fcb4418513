// Package filter implements the catalog filter engine: a composite predicate of
// free-text search and exact-match restrictions evaluated over reference
// records, preserving source order.
package filter

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Predicate is an exact-match restriction on a record.
type Predicate[T any] func(T) bool

// Apply returns the records, in their original relative order, whose
// searchable fields contain search (case-insensitively, OR across fields) and
// which satisfy every predicate (AND). An empty search matches every record.
// The input slice is never modified and the result never aliases it.
func Apply[T any](records []T, search string, fields func(T) []string, preds ...Predicate[T]) []T {
	m := newMatcher(search)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if !m.match(fields(r)) {
			continue
		}
		if !all(r, preds) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func all[T any](r T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if p != nil && !p(r) {
			return false
		}
	}
	return true
}

// matcher folds a search term once and compares it against record fields.
// A cases.Caser is stateful, so each matcher owns its own.
type matcher struct {
	caser cases.Caser
	term  string
}

func newMatcher(search string) *matcher {
	c := cases.Lower(language.Und)
	return &matcher{caser: c, term: c.String(search)}
}

func (m *matcher) match(fields []string) bool {
	if m.term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(m.caser.String(f), m.term) {
			return true
		}
	}
	return false
}
