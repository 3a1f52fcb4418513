package model

import "slices"

// Experience buckets offered by the recommendation form.
const (
	Experience0to2    = "0-2"
	Experience3to9    = "3-9"
	Experience10Plus  = "10+"
	DefaultExperience = Experience0to2
)

// ExperienceLevel is an accepted experience value with its display label.
type ExperienceLevel struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ExperienceLevels lists the accepted experience values.
var ExperienceLevels = []ExperienceLevel{
	{Experience0to2, "0-2 (Beginning)"},
	{Experience3to9, "3-9 (Beginning)"},
	{Experience10Plus, "10+ (Established)"},
}

// ValidExperience reports whether v is one of the accepted experience buckets.
func ValidExperience(v string) bool {
	return slices.ContainsFunc(ExperienceLevels, func(l ExperienceLevel) bool {
		return l.Value == v
	})
}

// FarmProfile is the applicant description sent to the recommendation service.
type FarmProfile struct {
	SizeAcres   string   `json:"size_acres"`
	County      string   `json:"county"`
	Experience  string   `json:"experience"`
	Underserved bool     `json:"underserved"`
	Goals       []string `json:"goals"`
}

// ProgramRecommendation is a recommended grant program resolved against the
// catalog.
type ProgramRecommendation struct {
	Program   GrantProgram `json:"program"`
	Reasoning string       `json:"reasoning"`
}

// EnhancementRecommendation is a recommended CSP enhancement resolved against
// the catalog.
type EnhancementRecommendation struct {
	Enhancement CspEnhancement `json:"enhancement"`
	Reasoning   string         `json:"reasoning"`
}

// Usage is the token usage and estimated cost of one provider call.
type Usage struct {
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// Recommendation is the resolved outcome of a recommendation request.
type Recommendation struct {
	RequestID    string                      `json:"request_id"`
	Provider     string                      `json:"provider"`
	Model        string                      `json:"model"`
	Profile      FarmProfile                 `json:"profile"`
	Programs     []ProgramRecommendation     `json:"programs"`
	Enhancements []EnhancementRecommendation `json:"enhancements"`
	NextSteps    []string                    `json:"next_steps"`
	Usage        Usage                       `json:"usage"`
	// Unresolved lists ids or codes returned by the provider that are not in
	// the catalog.
	Unresolved []string `json:"unresolved,omitempty"`
}
