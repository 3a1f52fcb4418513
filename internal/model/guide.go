package model

// FormInfo describes a key program form and where to download it.
type FormInfo struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Agency      string `json:"agency" yaml:"agency"`
	Description string `json:"description" yaml:"description"`
	Link        string `json:"link" yaml:"link"`
	LinkText    string `json:"link_text" yaml:"link_text"`
}

// ChartEntry references a program whose success rate is charted on the
// dashboard.
type ChartEntry struct {
	ProgramID string `json:"program_id" yaml:"program_id"`
	Label     string `json:"label" yaml:"label"`
	Color     string `json:"color" yaml:"color"`
}

// Contact is a point of contact listed on the dashboard.
type Contact struct {
	Organization string `json:"organization" yaml:"organization"`
	Name         string `json:"name" yaml:"name"`
	Phone        string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email        string `json:"email,omitempty" yaml:"email,omitempty"`
}

// AnalysisPoint is a titled strategic insight.
type AnalysisPoint struct {
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}

// Guide holds the narrative content shown around the listings: dashboard
// summary, success-rate chart definition, contacts, analysis and the goal
// options offered by the recommendation form.
type Guide struct {
	Title        string          `json:"title" yaml:"title"`
	Subtitle     string          `json:"subtitle" yaml:"subtitle"`
	AsOf         string          `json:"as_of" yaml:"as_of"`
	Summary      string          `json:"summary" yaml:"summary"`
	Trends       string          `json:"trends" yaml:"trends"`
	SuccessChart []ChartEntry    `json:"success_chart" yaml:"success_chart"`
	Contacts     []Contact       `json:"contacts" yaml:"contacts"`
	Analysis     []AnalysisPoint `json:"analysis" yaml:"analysis"`
	Goals        []string        `json:"goals" yaml:"goals"`
}
