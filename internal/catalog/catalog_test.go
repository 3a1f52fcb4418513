package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/agrigrant-cli/internal/model"
)

const (
	validPrograms = `
categories:
  - key: nrcs
    title: USDA NRCS Programs
programs:
  - id: csp
    name: Conservation Stewardship Program (CSP)
    agency: USDA NRCS
    category: nrcs
    details: Enhances conservation on working lands.
    eligibility: Producers with land control.
    funding: $20-40/ac avg
    deadlines: [Continuous]
    submission:
      forms: NRCS-CPA-1200
      steps: [Contact SC NRCS]
    sc_specific: Submit to local NRCS office.
    sample: A 3-acre farm.
    analysis: Success 53%.
    success_rate: 53
  - id: rcpp
    name: Regional Conservation Partnership Program (RCPP)
    agency: USDA NRCS
    category: nrcs
    details: Partner-led conservation.
    eligibility: Small farms via partners.
    funding: $10M+ per project.
    deadlines: [Rolling]
    submission:
      forms: SF-424
      steps: []
    sc_specific: Contact SC NRCS.
    sample: Longleaf pine.
    analysis: High impact.
`
	validEnhancements = `
enhancements:
  - code: E328E
    name: Soil health rotation
    csaf: true
    land_use: Crop
    details: Diverse rotation for OM.
    references: NRCS SCI
    grant_success_points: SCI data
    complementary_grants: "SARE: Nov"
    sc_estimate: $5.52-$5.92/ac
    analysis: Success 30%.
    submission_specifics: Submit SCI calcs.
`
	validAcronyms = `
acronyms:
  CSP: Conservation Stewardship Program
  NRCS: Natural Resources Conservation Service
`
	validForms = `
forms:
  - id: nrcs-cpa-1200
    name: "NRCS-CPA-1200: Conservation Program Application"
    agency: USDA NRCS
    description: Main application form.
    link: https://example.org/1200
    link_text: View Form Page
`
	validGuide = `
title: Agriculture Grant Guide
success_chart:
  - program_id: csp
    label: CSP
    color: "#8884d8"
goals: [Improve soil health]
`
)

func validFS() fstest.MapFS {
	return fstest.MapFS{
		ProgramsFile:     {Data: []byte(validPrograms)},
		EnhancementsFile: {Data: []byte(validEnhancements)},
		AcronymsFile:     {Data: []byte(validAcronyms)},
		FormsFile:        {Data: []byte(validForms)},
		GuideFile:        {Data: []byte(validGuide)},
	}
}

func TestDefaultLoadsEmbeddedData(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Categories(), 5)
	assert.Len(t, c.Programs(), 20)
	assert.Len(t, c.Enhancements(), 64)
	assert.Len(t, c.Acronyms(), 40)
	assert.Len(t, c.Forms(), 6)
	assert.Len(t, c.ProgramsByCategory("nrcs"), 6)
	assert.Len(t, c.ProgramsByCategory("ams"), 5)
	assert.Len(t, c.ProgramsByCategory("scda"), 3)
	assert.Len(t, c.ProgramsByCategory("nifa"), 2)
	assert.Len(t, c.ProgramsByCategory("other"), 4)

	csp, err := c.Program("csp")
	require.NoError(t, err)
	assert.Equal(t, "Conservation Stewardship Program (CSP)", csp.Name)
	require.NotNil(t, csp.SuccessRate)
	assert.Equal(t, 53, *csp.SuccessRate)

	e, err := c.Enhancement("E327B")
	require.NoError(t, err)
	assert.Equal(t, model.LandUseAssociatedAg, e.LandUse)
	assert.True(t, e.CSAF)

	def, ok := c.Acronyms().Lookup("eqip")
	assert.True(t, ok)
	assert.Equal(t, "Environmental Quality Incentives Program", def)

	assert.Len(t, c.Guide().SuccessChart, 7)
	assert.Len(t, c.Guide().Goals, 8)
}

func TestProgramOrderPreserved(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	ids := c.ProgramIDs()
	require.GreaterOrEqual(t, len(ids), 3)
	assert.Equal(t, []string{"csp", "eqip", "crp"}, ids[:3])
}

func TestLookupsIgnoreCase(t *testing.T) {
	c, err := Load(validFS())
	require.NoError(t, err)

	p, err := c.Program(" CSP ")
	require.NoError(t, err)
	assert.Equal(t, "csp", p.ID)

	e, err := c.Enhancement("e328e")
	require.NoError(t, err)
	assert.Equal(t, "E328E", e.Code)
}

func TestLookupNotFound(t *testing.T) {
	c, err := Load(validFS())
	require.NoError(t, err)

	_, err = c.Program("nope")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = c.Enhancement("E000Z")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = c.Category("zzz")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAccessorsReturnCopies(t *testing.T) {
	c, err := Load(validFS())
	require.NoError(t, err)

	progs := c.Programs()
	progs[0].Name = "mutated"

	p, err := c.Program("csp")
	require.NoError(t, err)
	assert.Equal(t, "Conservation Stewardship Program (CSP)", p.Name)
}

func TestLoadValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{
			name: "duplicate program id",
			file: ProgramsFile,
			content: `
categories: [{key: nrcs, title: NRCS}]
programs:
  - {id: csp, name: A, agency: X, category: nrcs}
  - {id: CSP, name: B, agency: X, category: nrcs}
`,
			want: `program "CSP": duplicate id`,
		},
		{
			name: "success rate out of range",
			file: ProgramsFile,
			content: `
categories: [{key: nrcs, title: NRCS}]
programs:
  - {id: csp, name: A, agency: X, category: nrcs, success_rate: 150}
`,
			want: "success rate 150 outside [0,100]",
		},
		{
			name: "unknown category",
			file: ProgramsFile,
			content: `
categories: [{key: nrcs, title: NRCS}]
programs:
  - {id: csp, name: A, agency: X, category: fsa, success_rate: 10}
`,
			want: `unknown category "fsa"`,
		},
		{
			name: "missing name",
			file: ProgramsFile,
			content: `
categories: [{key: nrcs, title: NRCS}]
programs:
  - {id: csp, agency: X, category: nrcs, success_rate: 10}
`,
			want: `program "csp": empty name`,
		},
		{
			name: "land use outside closed set",
			file: EnhancementsFile,
			content: `
enhancements:
  - {code: E1, name: One, land_use: Orchard}
`,
			want: `land use "Orchard" not in closed set`,
		},
		{
			name: "duplicate enhancement code",
			file: EnhancementsFile,
			content: `
enhancements:
  - {code: E1, name: One, land_use: Crop}
  - {code: E1, name: Two, land_use: Forest}
`,
			want: `enhancement "E1": duplicate code`,
		},
		{
			name: "lowercase acronym key",
			file: AcronymsFile,
			content: `
acronyms:
  csp: Conservation Stewardship Program
`,
			want: `acronym "csp": key must be uppercase`,
		},
		{
			name: "chart references unknown program",
			file: GuideFile,
			content: `
success_chart:
  - {program_id: zzz, label: Z, color: "#000"}
`,
			want: `chart entry "zzz": unknown program`,
		},
		{
			name: "chart references program without success rate",
			file: GuideFile,
			content: `
success_chart:
  - {program_id: rcpp, label: RCPP, color: "#000"}
`,
			want: `chart entry "rcpp": program has no success rate`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := validFS()
			fsys[tt.file] = &fstest.MapFile{Data: []byte(tt.content)}

			_, err := Load(fsys)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidationProblemsAreOrdered(t *testing.T) {
	fsys := validFS()
	fsys[AcronymsFile] = &fstest.MapFile{Data: []byte(`
acronyms:
  zz: Lowercase
  CSP: ""
  aa: Lowercase too
  NRCS: ""
`)}

	for range 5 {
		_, err := Load(fsys)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
		assert.Equal(t, []string{
			`acronym "CSP": empty definition`,
			`acronym "NRCS": empty definition`,
			`acronym "aa": key must be uppercase ASCII letters or digits`,
			`acronym "zz": key must be uppercase ASCII letters or digits`,
		}, verr.Problems)
	}
}

func TestLoadRejectsDuplicateAcronymKeys(t *testing.T) {
	fsys := validFS()
	fsys[AcronymsFile] = &fstest.MapFile{Data: []byte(`
acronyms:
  CSP: Conservation Stewardship Program
  CSP: Something else
`)}

	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog: decode acronyms.yaml")
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	fsys := validFS()
	fsys[FormsFile] = &fstest.MapFile{Data: []byte(`
forms:
  - id: f1
    url: https://example.org
`)}

	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog: decode forms.yaml")
}

func TestLoadMissingFile(t *testing.T) {
	fsys := validFS()
	delete(fsys, GuideFile)

	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog: read guide.yaml")
}

func TestOpenDirectory(t *testing.T) {
	dir := t.TempDir()
	for name, f := range validFS() {
		writeFile(t, dir, name, f.Data)
	}

	c, err := Open(dir)
	require.NoError(t, err)
	assert.Len(t, c.Programs(), 2)
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}
