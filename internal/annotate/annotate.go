// Package annotate marks recognized acronyms in prose. Text is split into
// tokens on whitespace runs and the delimiters ( ) , . and every token whose
// alphanumeric core is a known acronym becomes an annotated segment. All other
// text passes through untouched, so joining the segments always reproduces
// the input.
package annotate

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agrigrant-cli/internal/model"
)

// Kind tags a segment as plain prose or a recognized term.
type Kind int

const (
	Plain Kind = iota
	Term
)

func (k Kind) String() string {
	if k == Term {
		return "term"
	}
	return "text"
}

// MarshalText encodes the kind as "text" or "term".
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes "text" or "term".
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "term":
		*k = Term
	case "text":
		*k = Plain
	default:
		return eris.Errorf("annotate: unknown segment kind %q", b)
	}
	return nil
}

// Segment is one piece of annotated prose. Text is always the original token
// text; Term and Definition are set only for Term segments.
type Segment struct {
	Kind       Kind   `json:"kind"`
	Text       string `json:"text"`
	Term       string `json:"term,omitempty"`
	Definition string `json:"definition,omitempty"`
}

// IsTerm reports whether the segment is a recognized acronym.
func (s Segment) IsTerm() bool { return s.Kind == Term }

func isDelimiter(r rune) bool {
	switch r {
	case '(', ')', ',', '.':
		return true
	}
	return false
}

// Tokenize yields the tokens of text in order. Whitespace runs and single
// delimiter characters are tokens of their own; empty tokens are never
// yielded.
func Tokenize(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := 0
		inSpace := false
		for i, r := range text {
			switch {
			case isDelimiter(r):
				if start < i && !yield(text[start:i]) {
					return
				}
				if !yield(text[i : i+1]) {
					return
				}
				start = i + 1
				inSpace = false
			case unicode.IsSpace(r):
				if !inSpace {
					if start < i && !yield(text[start:i]) {
						return
					}
					start = i
					inSpace = true
				}
			default:
				if inSpace {
					if !yield(text[start:i]) {
						return
					}
					start = i
					inSpace = false
				}
			}
		}
		if start < len(text) {
			yield(text[start:])
		}
	}
}

// cleanWord keeps only the ASCII letters and digits of a token.
func cleanWord(token string) string {
	var b strings.Builder
	for i := 0; i < len(token); i++ {
		c := token[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func classify(token string, table model.AcronymTable) Segment {
	clean := cleanWord(token)
	if clean == "" {
		return Segment{Kind: Plain, Text: token}
	}
	term := strings.ToUpper(clean)
	if def, ok := table[term]; ok {
		return Segment{Kind: Term, Text: token, Term: term, Definition: def}
	}
	return Segment{Kind: Plain, Text: token}
}

// Segments lazily annotates text against table. A nil table recognizes
// nothing.
func Segments(text string, table model.AcronymTable) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		for tok := range Tokenize(text) {
			if !yield(classify(tok, table)) {
				return
			}
		}
	}
}

// Annotate collects Segments into a slice. Empty input yields an empty,
// non-nil slice.
func Annotate(text string, table model.AcronymTable) []Segment {
	out := make([]Segment, 0, utf8.RuneCountInString(text)/4+1)
	for s := range Segments(text, table) {
		out = append(out, s)
	}
	return out
}

// Join concatenates the text of every segment.
func Join(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Terms returns the distinct acronyms recognized in text, in order of first
// appearance.
func Terms(text string, table model.AcronymTable) []model.GlossaryEntry {
	seen := make(map[string]bool)
	var out []model.GlossaryEntry
	for s := range Segments(text, table) {
		if !s.IsTerm() || seen[s.Term] {
			continue
		}
		seen[s.Term] = true
		out = append(out, model.GlossaryEntry{Term: s.Term, Definition: s.Definition})
	}
	return out
}
