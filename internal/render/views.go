package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sells-group/agrigrant-cli/internal/dashboard"
	"github.com/sells-group/agrigrant-cli/internal/model"
)

// Programs renders a grant program listing.
func (rd *Renderer) Programs(ps []model.GrantProgram) string {
	if len(ps) == 0 {
		return rd.st.Muted.Render("No grant programs match the current filters.") + "\n"
	}
	rows := make([][]string, len(ps))
	for i, p := range ps {
		rate := "-"
		if p.HasSuccessRate() {
			rate = strconv.Itoa(*p.SuccessRate) + "%"
		}
		rows[i] = []string{p.ID, truncate(p.Name, 48), p.Agency, rate}
	}
	return rd.table([]string{"ID", "Program", "Agency", "Success"}, rows)
}

// Program renders the detail panel of one grant program, with footnoted
// acronym definitions at the end.
func (rd *Renderer) Program(p model.GrantProgram) string {
	var notes Footnotes
	var b strings.Builder

	b.WriteString(rd.st.Title.Render(p.Name))
	b.WriteString("\n")
	b.WriteString(rd.st.Subtitle.Render(p.Agency))
	if p.HasSuccessRate() {
		b.WriteString("  ")
		b.WriteString(rd.st.Badge.Render(fmt.Sprintf("Success Rate: %d%%", *p.SuccessRate)))
	}
	b.WriteString("\n\n")

	rd.section(&b, "Details", rd.Annotated(p.Details, &notes))
	rd.section(&b, "Eligibility", rd.Annotated(p.Eligibility, &notes))
	rd.section(&b, "Funding", rd.Annotated(p.Funding, &notes))
	if len(p.Deadlines) > 0 {
		rd.section(&b, "Deadlines", rd.list(p.Deadlines, false, nil))
	}
	submission := "Forms: " + rd.Annotated(p.Submission.Forms, &notes)
	if len(p.Submission.Steps) > 0 {
		submission += "\nSteps:\n" + rd.list(p.Submission.Steps, true, &notes)
	}
	rd.section(&b, "Submission", submission)
	rd.section(&b, "SC-Specific", rd.Annotated(p.SCSpecific, &notes))
	rd.section(&b, "Sample", rd.Annotated(p.Sample, &notes))
	rd.section(&b, "Analysis", rd.Annotated(p.Analysis, &notes))

	b.WriteString(rd.footnotes(&notes))
	return b.String()
}

// Categories renders the program categories with counts.
func (rd *Renderer) Categories(counts []dashboard.CategoryCount) string {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{c.Key, c.Title, strconv.Itoa(c.Count)}
	}
	return rd.table([]string{"Key", "Category", "Programs"}, rows)
}

// Enhancements renders a CSP enhancement listing.
func (rd *Renderer) Enhancements(es []model.CspEnhancement) string {
	if len(es) == 0 {
		return rd.st.Muted.Render("No enhancements match the current filters.") + "\n"
	}
	rows := make([][]string, len(es))
	for i, e := range es {
		csaf := ""
		if e.CSAF {
			csaf = "CSAF"
		}
		rows[i] = []string{e.Code, truncate(e.Name, 52), string(e.LandUse), csaf, truncate(e.SCEstimate, 24)}
	}
	return rd.table([]string{"Code", "Enhancement", "Land Use", "CSAF", "SC Estimate"}, rows)
}

// Enhancement renders the detail panel of one CSP enhancement.
func (rd *Renderer) Enhancement(e model.CspEnhancement) string {
	var notes Footnotes
	var b strings.Builder

	b.WriteString(rd.st.Title.Render(e.Code + ": " + e.Name))
	b.WriteString("\n")
	b.WriteString(rd.st.Subtitle.Render("Land Use: " + string(e.LandUse)))
	if e.CSAF {
		b.WriteString("  ")
		b.WriteString(rd.st.Badge.Render("CSAF"))
	}
	b.WriteString("\n\n")

	for _, f := range e.ProseFields() {
		rd.section(&b, f.Label, rd.Annotated(f.Text, &notes))
	}
	rd.section(&b, "SC Estimate", e.SCEstimate)

	b.WriteString(rd.footnotes(&notes))
	return b.String()
}

// Forms renders the key program forms.
func (rd *Renderer) Forms(forms []model.FormInfo) string {
	var b strings.Builder
	for _, f := range forms {
		var body strings.Builder
		body.WriteString(rd.st.Label.Render(f.Name))
		body.WriteString("\n")
		body.WriteString(rd.st.Muted.Render(f.Agency))
		body.WriteString("\n")
		body.WriteString(f.Description)
		body.WriteString("\n")
		body.WriteString(rd.st.Term.Render(f.Link))
		b.WriteString(rd.st.Panel.Width(rd.width).Render(body.String()))
		b.WriteString("\n")
	}
	return b.String()
}

// BarChart renders chart points as horizontal bars scaled to a 0-100 axis.
func (rd *Renderer) BarChart(points []dashboard.ChartPoint, width int) string {
	if width <= 0 {
		width = 40
	}
	labelW := 0
	for _, p := range points {
		labelW = max(labelW, lipgloss.Width(p.Label))
	}

	var b strings.Builder
	for _, p := range points {
		n := p.Value * width / 100
		bar := rd.r.NewStyle().Foreground(lipgloss.Color(p.Color)).Render(strings.Repeat("█", n))
		fmt.Fprintf(&b, "%s │%s %d%%\n", padRight(p.Label, labelW), bar, p.Value)
	}
	return b.String()
}

func padRight(s string, w int) string {
	if d := w - lipgloss.Width(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}

// Dashboard renders the overview.
func (rd *Renderer) Dashboard(d dashboard.Dashboard) string {
	var notes Footnotes
	var b strings.Builder

	b.WriteString(rd.st.Title.Render(d.Title))
	b.WriteString("\n")
	b.WriteString(rd.st.Subtitle.Render(d.Subtitle + " (as of " + d.AsOf + ")"))
	b.WriteString("\n\n")

	rd.section(&b, "Executive Summary", rd.Annotated(d.Summary, &notes))

	stats := []string{
		rd.st.Panel.Render(fmt.Sprintf("%d\ngrant programs", d.TotalPrograms)),
		rd.st.Panel.Render(fmt.Sprintf("%d\nCSP enhancements", d.TotalEnhancements)),
		rd.st.Panel.Render(fmt.Sprintf("%d\nclimate-smart (CSAF)", d.CSAFEnhancements)),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, stats...))
	b.WriteString("\n\n")

	b.WriteString(rd.Categories(d.Categories))
	b.WriteString("\n")

	b.WriteString(rd.st.Heading.Render("Grant Success Rates"))
	b.WriteString("\n")
	b.WriteString(rd.BarChart(d.SuccessRates, 40))
	b.WriteString("\n")

	rd.section(&b, "Key Trends", rd.Annotated(d.Trends, &notes))

	if len(d.Contacts) > 0 {
		lines := make([]string, len(d.Contacts))
		for i, c := range d.Contacts {
			reach := c.Phone
			if reach == "" {
				reach = c.Email
			}
			lines[i] = fmt.Sprintf("%s (%s): %s", c.Organization, c.Name, reach)
		}
		rd.section(&b, "Contacts", rd.list(lines, false, &notes))
	}

	for _, a := range d.Analysis {
		rd.section(&b, a.Title, rd.Annotated(a.Text, &notes))
	}

	b.WriteString(rd.footnotes(&notes))
	return b.String()
}

// Recommendation renders a resolved recommendation.
func (rd *Renderer) Recommendation(rec *model.Recommendation) string {
	var notes Footnotes
	var b strings.Builder

	b.WriteString(rd.st.Title.Render("Your Personalized Grant Recommendations"))
	b.WriteString("\n")
	b.WriteString(rd.st.Muted.Render(fmt.Sprintf("request %s via %s (%s)", rec.RequestID, rec.Provider, rec.Model)))
	b.WriteString("\n\n")

	b.WriteString(rd.st.Heading.Render("Top Grant Programs"))
	b.WriteString("\n\n")
	if len(rec.Programs) == 0 {
		b.WriteString(rd.st.Muted.Render("No grant programs were recommended."))
		b.WriteString("\n\n")
	}
	for _, p := range rec.Programs {
		rd.section(&b, p.Program.Name, rd.Annotated(p.Reasoning, &notes))
	}

	if len(rec.Enhancements) > 0 {
		b.WriteString(rd.st.Heading.Render("Recommended CSP Enhancements"))
		b.WriteString("\n\n")
		for _, e := range rec.Enhancements {
			rd.section(&b, e.Enhancement.Code+": "+e.Enhancement.Name, rd.Annotated(e.Reasoning, &notes))
		}
	}

	if len(rec.NextSteps) > 0 {
		rd.section(&b, "Actionable Next Steps", rd.list(rec.NextSteps, true, &notes))
	}
	if len(rec.Unresolved) > 0 {
		b.WriteString(rd.st.Muted.Render("Ignored unknown ids: " + strings.Join(rec.Unresolved, ", ")))
		b.WriteString("\n\n")
	}

	b.WriteString(rd.footnotes(&notes))
	return b.String()
}
