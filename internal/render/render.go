// Package render draws catalog records, annotated prose and the dashboard for
// the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sells-group/agrigrant-cli/internal/annotate"
	"github.com/sells-group/agrigrant-cli/internal/model"
)

const defaultWidth = 96

// Palette colors, taken from the guide's web styling.
var (
	Primary = lipgloss.Color("#15803d")
	Accent  = lipgloss.Color("#1d4ed8")
	Muted   = lipgloss.Color("#6b7280")
	Border  = lipgloss.Color("#d1d5db")
)

// Styles groups the lipgloss styles used by every view.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Heading  lipgloss.Style
	Label    lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Term     lipgloss.Style
	Badge    lipgloss.Style
	Panel    lipgloss.Style
	Header   lipgloss.Style
	Cell     lipgloss.Style
}

// Renderer renders views for one output. Color is enabled only when the
// output is a terminal that supports it.
type Renderer struct {
	r        *lipgloss.Renderer
	st       Styles
	acronyms model.AcronymTable
	width    int
}

// New returns a renderer writing styles appropriate for w.
func New(w io.Writer, acronyms model.AcronymTable) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{r: r, st: newStyles(r), acronyms: acronyms, width: defaultWidth}
}

// WithWidth sets the wrap width.
func (rd *Renderer) WithWidth(n int) *Renderer {
	if n > 20 {
		rd.width = n
	}
	return rd
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:    r.NewStyle().Bold(true).Foreground(Primary),
		Subtitle: r.NewStyle().Italic(true).Foreground(Muted),
		Heading:  r.NewStyle().Bold(true).Underline(true),
		Label:    r.NewStyle().Bold(true),
		Body:     r.NewStyle(),
		Muted:    r.NewStyle().Foreground(Muted),
		Term:     r.NewStyle().Underline(true).Foreground(Accent),
		Badge:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(Primary).Padding(0, 1),
		Panel:    r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(0, 1),
		Header:   r.NewStyle().Bold(true).Padding(0, 1),
		Cell:     r.NewStyle().Padding(0, 1),
	}
}

// Annotated renders prose with recognized acronyms styled and numbered. The
// numbers index into notes, which holds one entry per distinct term in order
// of first appearance; pass the same notes across calls to number a whole
// panel consistently.
func (rd *Renderer) Annotated(text string, notes *Footnotes) string {
	var b strings.Builder
	for seg := range annotate.Segments(text, rd.acronyms) {
		if !seg.IsTerm() {
			b.WriteString(seg.Text)
			continue
		}
		n := notes.add(seg.Term, seg.Definition)
		b.WriteString(rd.st.Term.Render(seg.Text))
		b.WriteString(rd.st.Muted.Render(fmt.Sprintf("[%d]", n)))
	}
	return b.String()
}

// Footnotes collects definitions referenced from annotated prose.
type Footnotes struct {
	index   map[string]int
	Entries []model.GlossaryEntry
}

func (f *Footnotes) add(term, def string) int {
	if f.index == nil {
		f.index = make(map[string]int)
	}
	if n, ok := f.index[term]; ok {
		return n
	}
	f.Entries = append(f.Entries, model.GlossaryEntry{Term: term, Definition: def})
	f.index[term] = len(f.Entries)
	return len(f.Entries)
}

func (rd *Renderer) footnotes(notes *Footnotes) string {
	if len(notes.Entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(rd.st.Muted.Render(strings.Repeat("─", 24)))
	b.WriteString("\n")
	for i, e := range notes.Entries {
		line := fmt.Sprintf("[%d] %s: %s", i+1, e.Term, e.Definition)
		b.WriteString(rd.st.Muted.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (rd *Renderer) section(b *strings.Builder, label, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	b.WriteString(rd.st.Label.Render(label))
	b.WriteString("\n")
	b.WriteString(rd.st.Body.Width(rd.width).Render(body))
	b.WriteString("\n\n")
}

func (rd *Renderer) list(items []string, ordered bool, notes *Footnotes) string {
	lines := make([]string, len(items))
	for i, it := range items {
		marker := "•"
		if ordered {
			marker = fmt.Sprintf("%d.", i+1)
		}
		text := it
		if notes != nil {
			text = rd.Annotated(it, notes)
		}
		lines[i] = fmt.Sprintf("  %s %s", marker, text)
	}
	return strings.Join(lines, "\n")
}

// Text renders free prose with footnoted acronyms.
func (rd *Renderer) Text(text string) string {
	var notes Footnotes
	body := rd.st.Body.Width(rd.width).Render(rd.Annotated(text, &notes))
	return body + "\n\n" + rd.footnotes(&notes)
}

// Glossary renders acronym definitions.
func (rd *Renderer) Glossary(entries []model.GlossaryEntry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Term, e.Definition}
	}
	return rd.table([]string{"Term", "Definition"}, rows)
}

func (rd *Renderer) table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(rd.r.NewStyle().Foreground(Border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return rd.st.Header
			}
			return rd.st.Cell
		})
	return t.String() + "\n"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
