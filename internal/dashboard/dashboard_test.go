package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/agrigrant-cli/internal/catalog"
	"github.com/sells-group/agrigrant-cli/internal/model"
)

func TestBuild(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	d := Build(cat)

	assert.Equal(t, "Agriculture Grant Guide", d.Title)
	assert.Equal(t, "August 2025", d.AsOf)
	assert.NotEmpty(t, d.Summary)
	assert.NotEmpty(t, d.Trends)

	assert.Equal(t, 20, d.TotalPrograms)
	require.Len(t, d.Categories, 5)
	assert.Equal(t, CategoryCount{Key: "nrcs", Title: cat.Categories()[0].Title, Count: 6}, d.Categories[0])

	assert.Equal(t, 64, d.TotalEnhancements)
	assert.Equal(t, 51, d.CSAFEnhancements)
	assert.Equal(t, 36, d.LandUseCounts[model.LandUseCrop])
	assert.Equal(t, 13, d.LandUseCounts[model.LandUseForest])
	assert.Equal(t, 1, d.LandUseCounts[model.LandUseAll])

	want := []ChartPoint{
		{ProgramID: "csp", Label: "CSP", Value: 53, Color: "#8884d8"},
		{ProgramID: "eqip", Label: "EQIP", Value: 44, Color: "#83a6ed"},
		{ProgramID: "crp", Label: "CRP", Value: 70, Color: "#8dd1e1"},
		{ProgramID: "sare", Label: "SARE", Value: 28, Color: "#82ca9d"},
		{ProgramID: "nfwf", Label: "NFWF", Value: 30, Color: "#a4de6c"},
		{ProgramID: "vapg", Label: "VAPG", Value: 30, Color: "#d0ed57"},
		{ProgramID: "fmpp", Label: "FMPP", Value: 35, Color: "#ffc658"},
	}
	assert.Equal(t, want, d.SuccessRates)

	require.Len(t, d.Contacts, 2)
	assert.Equal(t, "bdorton@scda.sc.gov", d.Contacts[1].Email)
	assert.Len(t, d.Analysis, 5)
}

func TestChartValuesTrackPrograms(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	for _, pt := range Build(cat).SuccessRates {
		p, err := cat.Program(pt.ProgramID)
		require.NoError(t, err)
		require.NotNil(t, p.SuccessRate)
		assert.Equal(t, *p.SuccessRate, pt.Value, pt.Label)
		assert.GreaterOrEqual(t, pt.Value, 0)
		assert.LessOrEqual(t, pt.Value, 100)
	}
}
