package recommend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agrigrant-cli/internal/catalog"
	"github.com/sells-group/agrigrant-cli/internal/model"
)

// SystemInstruction frames the provider as the grant calculator.
const SystemInstruction = "You are an expert on agricultural grants for small farms in South Carolina. " +
	"Your task is to act as a 'Grant Opportunity Calculator'. Analyze the user's farm profile against " +
	"the provided JSON data of available grant programs and CSP enhancements. Your response MUST be a " +
	"JSON object that adheres to the provided schema. For each recommendation, provide a concise " +
	"reasoning based on the user's profile and goals. The 'id' for grants and 'code' for CSP " +
	"enhancements in your response MUST exactly match one of the IDs/codes from the provided context " +
	"data. Do not add any programs or enhancements that are not in the provided data."

type grantContext struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Details     string `json:"details"`
	Eligibility string `json:"eligibility"`
}

type enhancementContext struct {
	Code    string        `json:"code"`
	Name    string        `json:"name"`
	Details string        `json:"details"`
	LandUse model.LandUse `json:"landUse"`
}

// BuildPrompt renders the user prompt: every grant program and CSP
// enhancement as compact JSON followed by the farm profile.
func BuildPrompt(cat *catalog.Catalog, p model.FarmProfile) (string, error) {
	programs := cat.Programs()
	grants := make([]grantContext, len(programs))
	for i, g := range programs {
		grants[i] = grantContext{ID: g.ID, Name: g.Name, Details: g.Details, Eligibility: g.Eligibility}
	}
	enhancements := cat.Enhancements()
	csp := make([]enhancementContext, len(enhancements))
	for i, e := range enhancements {
		csp[i] = enhancementContext{Code: e.Code, Name: e.Name, Details: e.Details, LandUse: e.LandUse}
	}

	grantJSON, err := json.Marshal(grants)
	if err != nil {
		return "", eris.Wrap(err, "recommend: encode grant context")
	}
	cspJSON, err := json.Marshal(csp)
	if err != nil {
		return "", eris.Wrap(err, "recommend: encode csp context")
	}

	var b strings.Builder
	b.WriteString("\nPlease act as a Grant Opportunity Calculator. Analyze the user's farm profile against the provided JSON data of grant programs and CSP enhancements. Your analysis should be tailored to their specific situation.\n\n")
	b.WriteString("## Available Grant Programs Data (JSON):\n")
	b.Write(grantJSON)
	b.WriteString("\n\n## Available CSP Enhancements Data (JSON):\n")
	b.Write(cspJSON)
	b.WriteString("\n")
	b.WriteString(ProfileBlock(p))
	return b.String(), nil
}

// ProfileBlock renders the farm profile section of the prompt.
func ProfileBlock(p model.FarmProfile) string {
	size := orDefault(p.SizeAcres, "Not specified")
	county := orDefault(p.County, "Not specified")
	experience := orDefault(p.Experience, model.DefaultExperience)
	underserved := "No"
	if p.Underserved {
		underserved = "Yes"
	}

	var goals strings.Builder
	n := 0
	for _, g := range p.Goals {
		if g = strings.TrimSpace(g); g == "" {
			continue
		}
		if n > 0 {
			goals.WriteString("\n")
		}
		fmt.Fprintf(&goals, "  - %s", g)
		n++
	}
	if n == 0 {
		goals.WriteString("  - General improvement")
	}

	return fmt.Sprintf(`
## Farm Profile:
- Farm Size: %s acres
- County in SC: %s
- Farming Experience: %s years
- Belongs to an underserved group (socially disadvantaged, beginning, limited resource, veteran): %s
- Primary Goals:
%s
`, size, county, experience, underserved, goals.String())
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
