package export

import (
	"fmt"
	"strings"

	"github.com/gingfrederik/docx"
	"github.com/rotisserie/eris"

	"github.com/sells-group/agrigrant-cli/internal/annotate"
	"github.com/sells-group/agrigrant-cli/internal/model"
)

// Document colors (hex without '#', as docx expects).
const (
	colorTitle = "15803D"
	colorTerm  = "1D4ED8"
	colorMuted = "6B7280"
)

const rule = "--------------------------------------------------"

type docWriter struct {
	f     *docx.File
	table model.AcronymTable
	notes []model.GlossaryEntry
	seen  map[string]int
}

func newDocWriter(table model.AcronymTable) *docWriter {
	return &docWriter{f: docx.NewFile(), table: table, seen: make(map[string]int)}
}

func (w *docWriter) title(text string) {
	w.f.AddParagraph().AddText(text).Size(20).Color(colorTitle)
}

func (w *docWriter) muted(text string) {
	w.f.AddParagraph().AddText(text).Size(10).Color(colorMuted)
}

func (w *docWriter) heading(text string) {
	w.f.AddParagraph().AddText(text).Size(14)
}

func (w *docWriter) spacer() {
	w.f.AddParagraph()
}

// annotated writes text as one paragraph, coloring recognized terms and
// appending their footnote number.
func (w *docWriter) annotated(prefix, text string) {
	p := w.f.AddParagraph()
	if prefix != "" {
		p.AddText(prefix)
	}
	for seg := range annotate.Segments(text, w.table) {
		if !seg.IsTerm() {
			p.AddText(seg.Text)
			continue
		}
		n, ok := w.seen[seg.Term]
		if !ok {
			w.notes = append(w.notes, model.GlossaryEntry{Term: seg.Term, Definition: seg.Definition})
			n = len(w.notes)
			w.seen[seg.Term] = n
		}
		p.AddText(seg.Text).Color(colorTerm)
		p.AddText(fmt.Sprintf("[%d]", n)).Size(8).Color(colorMuted)
	}
}

func (w *docWriter) section(label, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	w.heading(label)
	w.annotated("", text)
}

func (w *docWriter) footnotes() {
	if len(w.notes) == 0 {
		return
	}
	w.spacer()
	w.f.AddParagraph().AddText(rule)
	for i, e := range w.notes {
		w.muted(fmt.Sprintf("[%d] %s: %s", i+1, e.Term, e.Definition))
	}
}

func (w *docWriter) save(path string) error {
	if err := w.f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

// ProgramDoc writes the detail panel of p to path. Acronyms found in table
// are highlighted and defined in footnotes.
func ProgramDoc(path string, p model.GrantProgram, table model.AcronymTable) error {
	w := newDocWriter(table)
	w.title(p.Name)
	w.muted(p.Agency)
	if p.HasSuccessRate() {
		w.f.AddParagraph().AddText(fmt.Sprintf("Success Rate: %d%%", *p.SuccessRate)).Color(colorTitle)
	}
	w.spacer()

	w.section("Details", p.Details)
	w.section("Eligibility", p.Eligibility)
	w.section("Funding", p.Funding)
	if len(p.Deadlines) > 0 {
		w.heading("Deadlines")
		for _, d := range p.Deadlines {
			w.f.AddParagraph().AddText("• " + d)
		}
	}
	w.section("Forms", p.Submission.Forms)
	if len(p.Submission.Steps) > 0 {
		w.heading("Submission Steps")
		for i, s := range p.Submission.Steps {
			w.annotated(fmt.Sprintf("%d. ", i+1), s)
		}
	}
	w.section("SC-Specific", p.SCSpecific)
	w.section("Sample", p.Sample)
	w.section("Analysis", p.Analysis)

	w.footnotes()
	return w.save(path)
}

// EnhancementDoc writes the detail panel of e to path.
func EnhancementDoc(path string, e model.CspEnhancement, table model.AcronymTable) error {
	w := newDocWriter(table)
	w.title(e.Code + ": " + e.Name)
	meta := "Land Use: " + string(e.LandUse)
	if e.CSAF {
		meta += " | CSAF"
	}
	w.muted(meta)
	w.spacer()

	for _, f := range e.ProseFields() {
		w.section(f.Label, f.Text)
	}
	w.section("SC Estimate", e.SCEstimate)

	w.footnotes()
	return w.save(path)
}

// RecommendationDoc writes a recommendation report to path.
func RecommendationDoc(path string, rec *model.Recommendation, table model.AcronymTable) error {
	if rec == nil {
		return eris.New("export: nil recommendation")
	}
	w := newDocWriter(table)
	w.title("Your Personalized Grant Recommendations")
	w.muted(fmt.Sprintf("Request %s | %s (%s)", rec.RequestID, rec.Provider, rec.Model))

	pr := rec.Profile
	w.muted(fmt.Sprintf("Farm: %s acres, %s County, %s years experience", orNA(pr.SizeAcres), orNA(pr.County), orNA(pr.Experience)))
	w.spacer()

	w.heading("Top Grant Programs")
	if len(rec.Programs) == 0 {
		w.muted("No grant programs were recommended.")
	}
	for _, p := range rec.Programs {
		w.f.AddParagraph().AddText(p.Program.Name).Size(12).Color(colorTitle)
		w.annotated("", p.Reasoning)
	}

	if len(rec.Enhancements) > 0 {
		w.spacer()
		w.heading("Recommended CSP Enhancements")
		for _, e := range rec.Enhancements {
			w.f.AddParagraph().AddText(e.Enhancement.Code + ": " + e.Enhancement.Name).Size(12).Color(colorTitle)
			w.annotated("", e.Reasoning)
		}
	}

	if len(rec.NextSteps) > 0 {
		w.spacer()
		w.heading("Actionable Next Steps")
		for i, s := range rec.NextSteps {
			w.annotated(fmt.Sprintf("%d. ", i+1), s)
		}
	}

	w.footnotes()
	return w.save(path)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
