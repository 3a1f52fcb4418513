package model

// Category groups grant programs the way the guide presents them
// (USDA NRCS, USDA AMS, SCDA, USDA NIFA, other partners).
type Category struct {
	Key   string `json:"key" yaml:"key"`
	Title string `json:"title" yaml:"title"`
}

// Submission describes how to apply for a grant program.
type Submission struct {
	Forms string   `json:"forms" yaml:"forms"`
	Steps []string `json:"steps" yaml:"steps"`
}

// GrantProgram is an immutable reference record for a single grant program.
type GrantProgram struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Agency      string     `json:"agency" yaml:"agency"`
	Category    string     `json:"category" yaml:"category"`
	Details     string     `json:"details" yaml:"details"`
	Eligibility string     `json:"eligibility" yaml:"eligibility"`
	Funding     string     `json:"funding" yaml:"funding"`
	Deadlines   []string   `json:"deadlines" yaml:"deadlines"`
	Submission  Submission `json:"submission" yaml:"submission"`
	SCSpecific  string     `json:"sc_specific" yaml:"sc_specific"`
	Sample      string     `json:"sample" yaml:"sample"`
	Analysis    string     `json:"analysis" yaml:"analysis"`
	SuccessRate *int       `json:"success_rate,omitempty" yaml:"success_rate,omitempty"`
}

// HasSuccessRate reports whether the program carries a published success rate.
func (p GrantProgram) HasSuccessRate() bool {
	return p.SuccessRate != nil
}

// SearchFields returns the fields free-text search is matched against.
func (p GrantProgram) SearchFields() []string {
	return []string{p.Name, p.Details, p.Eligibility}
}

// ProseFields returns the labelled free-text fields of the program in display
// order. Submission steps are returned separately by the caller.
func (p GrantProgram) ProseFields() []LabeledText {
	return []LabeledText{
		{Label: "Details", Text: p.Details},
		{Label: "Eligibility", Text: p.Eligibility},
		{Label: "Funding", Text: p.Funding},
		{Label: "Forms", Text: p.Submission.Forms},
		{Label: "SC-Specific", Text: p.SCSpecific},
		{Label: "Sample", Text: p.Sample},
		{Label: "Analysis", Text: p.Analysis},
	}
}

// LabeledText pairs a display label with a prose value.
type LabeledText struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}
