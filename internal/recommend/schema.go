package recommend

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"
)

// Reply is the structured answer a provider returns.
type Reply struct {
	GrantRecommendations []GrantPick `json:"grantRecommendations"`
	CSPRecommendations   []CSPPick   `json:"cspRecommendations,omitempty"`
	NextSteps            []string    `json:"nextSteps"`
}

// GrantPick is one recommended grant program by id.
type GrantPick struct {
	ID        string `json:"id"`
	Reasoning string `json:"reasoning"`
}

// CSPPick is one recommended CSP enhancement by code.
type CSPPick struct {
	Code      string `json:"code"`
	Reasoning string `json:"reasoning"`
}

// ResponseSchema describes Reply for providers that accept a structured
// output schema.
func ResponseSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"grantRecommendations": {
				Type:        genai.TypeArray,
				Description: "Top 3-5 recommended grant programs based on user profile.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":        str(`The unique ID of the grant program from the provided context data (e.g., "csp", "eqip"). MUST match an ID from the input data.`),
						"reasoning": str("A brief explanation of why this grant is a good fit for the user, referencing their profile."),
					},
					Required: []string{"id", "reasoning"},
				},
			},
			"cspRecommendations": {
				Type:        genai.TypeArray,
				Description: "Top 2-4 recommended CSP enhancements if applicable and relevant to the user's goals.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"code":      str(`The unique code of the CSP enhancement from the provided context data (e.g., "E327B", "E329D"). MUST match a code from the input data.`),
						"reasoning": str("A brief explanation of why this enhancement is a good fit for the user, referencing their goals."),
					},
					Required: []string{"code", "reasoning"},
				},
			},
			"nextSteps": {
				Type:        genai.TypeArray,
				Description: "A list of 3-5 prioritized, actionable next steps for the user.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"grantRecommendations", "nextSteps"},
	}
}

// schemaText renders ResponseSchema as JSON for providers that only take the
// schema as prompt text.
func schemaText() string {
	b, err := json.MarshalIndent(ResponseSchema(), "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}

// cleanJSON extracts a JSON object from text that may carry markdown fences
// or surrounding prose.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return strings.TrimSpace(text)
}

// ParseReply decodes a provider reply. Replies that are not JSON objects, or
// that omit a required field, fail with ErrMalformedResponse.
func ParseReply(text string) (*Reply, error) {
	body := cleanJSON(text)
	if body == "" {
		return nil, eris.Wrap(ErrMalformedResponse, "empty reply")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, eris.Wrapf(ErrMalformedResponse, "decode reply: %v", err)
	}
	for _, key := range []string{"grantRecommendations", "nextSteps"} {
		if _, ok := raw[key]; !ok {
			return nil, eris.Wrapf(ErrMalformedResponse, "reply missing %q", key)
		}
	}

	var r Reply
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, eris.Wrapf(ErrMalformedResponse, "decode reply: %v", err)
	}
	return &r, nil
}
