// Package dashboard aggregates the catalog into the overview shown on the
// dashboard: category counts, the success-rate chart and guide narrative.
package dashboard

import (
	"github.com/sells-group/agrigrant-cli/internal/catalog"
	"github.com/sells-group/agrigrant-cli/internal/model"
)

// CategoryCount is the number of programs in one category.
type CategoryCount struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// ChartPoint is one bar of the success-rate chart.
type ChartPoint struct {
	ProgramID string `json:"program_id"`
	Label     string `json:"label"`
	Value     int    `json:"value"`
	Color     string `json:"color"`
}

// Dashboard is the precomputed overview.
type Dashboard struct {
	Title             string                `json:"title"`
	Subtitle          string                `json:"subtitle"`
	AsOf              string                `json:"as_of"`
	Summary           string                `json:"summary"`
	Trends            string                `json:"trends"`
	TotalPrograms     int                   `json:"total_programs"`
	Categories        []CategoryCount       `json:"categories"`
	TotalEnhancements int                   `json:"total_enhancements"`
	CSAFEnhancements  int                   `json:"csaf_enhancements"`
	LandUseCounts     map[model.LandUse]int `json:"land_use_counts"`
	SuccessRates      []ChartPoint          `json:"success_rates"`
	Contacts          []model.Contact       `json:"contacts"`
	Analysis          []model.AnalysisPoint `json:"analysis"`
}

// Build computes the dashboard from cat. The chart reads each bar's value
// from the referenced program, which load-time validation guarantees exists
// and carries a success rate.
func Build(cat *catalog.Catalog) Dashboard {
	g := cat.Guide()
	d := Dashboard{
		Title:         g.Title,
		Subtitle:      g.Subtitle,
		AsOf:          g.AsOf,
		Summary:       g.Summary,
		Trends:        g.Trends,
		LandUseCounts: make(map[model.LandUse]int, len(model.LandUses)),
		Contacts:      g.Contacts,
		Analysis:      g.Analysis,
	}

	for _, c := range cat.Categories() {
		n := len(cat.ProgramsByCategory(c.Key))
		d.Categories = append(d.Categories, CategoryCount{Key: c.Key, Title: c.Title, Count: n})
		d.TotalPrograms += n
	}

	for _, e := range cat.Enhancements() {
		d.TotalEnhancements++
		if e.CSAF {
			d.CSAFEnhancements++
		}
		d.LandUseCounts[e.LandUse]++
	}

	d.SuccessRates = make([]ChartPoint, 0, len(g.SuccessChart))
	for _, entry := range g.SuccessChart {
		p, err := cat.Program(entry.ProgramID)
		if err != nil || !p.HasSuccessRate() {
			continue
		}
		d.SuccessRates = append(d.SuccessRates, ChartPoint{
			ProgramID: p.ID,
			Label:     entry.Label,
			Value:     *p.SuccessRate,
			Color:     entry.Color,
		})
	}
	return d
}
