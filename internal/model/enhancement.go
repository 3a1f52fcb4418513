package model

import "slices"

// LandUse is the land-use category of a CSP enhancement.
type LandUse string

const (
	LandUseCrop         LandUse = "Crop"
	LandUsePasture      LandUse = "Pasture/Range"
	LandUseForest       LandUse = "Forest"
	LandUseAssociatedAg LandUse = "Associated Ag Land/Farmstead"
	LandUseAll          LandUse = "All"
)

// LandUses is the closed set of land-use values, in display order.
var LandUses = []LandUse{
	LandUseCrop,
	LandUsePasture,
	LandUseForest,
	LandUseAssociatedAg,
	LandUseAll,
}

// Valid reports whether l is a member of the closed land-use set.
func (l LandUse) Valid() bool {
	return slices.Contains(LandUses, l)
}

// CspEnhancement is an immutable reference record for a Conservation
// Stewardship Program enhancement.
type CspEnhancement struct {
	Code                string  `json:"code" yaml:"code"`
	Name                string  `json:"name" yaml:"name"`
	CSAF                bool    `json:"csaf" yaml:"csaf"`
	LandUse             LandUse `json:"land_use" yaml:"land_use"`
	Details             string  `json:"details" yaml:"details"`
	References          string  `json:"references" yaml:"references"`
	GrantSuccessPoints  string  `json:"grant_success_points" yaml:"grant_success_points"`
	ComplementaryGrants string  `json:"complementary_grants" yaml:"complementary_grants"`
	SCEstimate          string  `json:"sc_estimate" yaml:"sc_estimate"`
	Analysis            string  `json:"analysis" yaml:"analysis"`
	SubmissionSpecifics string  `json:"submission_specifics" yaml:"submission_specifics"`
}

// SearchFields returns the fields free-text search is matched against.
func (e CspEnhancement) SearchFields() []string {
	return []string{e.Name, e.Code, e.Details}
}

// ProseFields returns the labelled free-text fields in display order.
func (e CspEnhancement) ProseFields() []LabeledText {
	return []LabeledText{
		{Label: "Details", Text: e.Details},
		{Label: "References", Text: e.References},
		{Label: "Grant Success Points", Text: e.GrantSuccessPoints},
		{Label: "Complementary Grants", Text: e.ComplementaryGrants},
		{Label: "Analysis & Tips", Text: e.Analysis},
		{Label: "Submission Specifics", Text: e.SubmissionSpecifics},
	}
}
