// Package cost prices generative AI usage by provider and model.
package cost

// ModelRate holds per-model token pricing in USD per million tokens.
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Rates holds per-provider pricing configuration, keyed by model name.
type Rates struct {
	Anthropic map[string]ModelRate `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini    map[string]ModelRate `yaml:"gemini" mapstructure:"gemini"`
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

func (c *Calculator) rate(provider, model string) (ModelRate, bool) {
	var table map[string]ModelRate
	switch provider {
	case "anthropic":
		table = c.rates.Anthropic
	case "gemini":
		table = c.rates.Gemini
	}
	r, ok := table[model]
	return r, ok
}

// Known reports whether the calculator has pricing for the model.
func (c *Calculator) Known(provider, model string) bool {
	_, ok := c.rate(provider, model)
	return ok
}

// Cost computes the cost of one call. Unknown models cost 0.
func (c *Calculator) Cost(provider, model string, input, output int64) float64 {
	r, ok := c.rate(provider, model)
	if !ok {
		return 0
	}
	return (float64(input)/1e6)*r.Input + (float64(output)/1e6)*r.Output
}

// DefaultRates returns list pricing for the models the recommender is
// configured with out of the box.
func DefaultRates() Rates {
	return Rates{
		Anthropic: map[string]ModelRate{
			"claude-haiku-4-5-20251001":  {Input: 1.00, Output: 5.00},
			"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
			"claude-opus-4-6":            {Input: 15.00, Output: 75.00},
		},
		Gemini: map[string]ModelRate{
			"gemini-2.5-flash":      {Input: 0.30, Output: 2.50},
			"gemini-2.5-flash-lite": {Input: 0.10, Output: 0.40},
			"gemini-2.5-pro":        {Input: 1.25, Output: 10.00},
		},
	}
}
