package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/sells-group/agrigrant-cli/internal/catalog"
	"github.com/sells-group/agrigrant-cli/internal/config"
	"github.com/sells-group/agrigrant-cli/internal/model"
	"github.com/sells-group/agrigrant-cli/internal/resilience"
	"github.com/sells-group/agrigrant-cli/pkg/anthropic"
	anthropicmocks "github.com/sells-group/agrigrant-cli/pkg/anthropic/mocks"
	"github.com/sells-group/agrigrant-cli/pkg/gemini"
	geminimocks "github.com/sells-group/agrigrant-cli/pkg/gemini/mocks"
)

const goodReply = `{
  "grantRecommendations": [
    {"id": "eqip", "reasoning": "Beginning farmers get priority."},
    {"id": "CSP", "reasoning": "Rewards existing stewardship."},
    {"id": "made-up", "reasoning": "Hallucinated."}
  ],
  "cspRecommendations": [
    {"code": "e328e", "reasoning": "Soil health goal."},
    {"code": "E999Z", "reasoning": "Not real."}
  ],
  "nextSteps": ["Visit the local NRCS office", "  ", "Request a conservation plan"]
}`

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func testGuard() *resilience.Guard {
	return resilience.NewGuard("test",
		resilience.Backoff{Attempts: 3, Initial: time.Millisecond, Max: 2 * time.Millisecond, Multiplier: 2},
		resilience.BreakerConfig{Threshold: 10, Cooldown: time.Minute},
		5*time.Second)
}

func profile() model.FarmProfile {
	return model.FarmProfile{
		SizeAcres:   "3",
		County:      "Charleston",
		Experience:  "0-2",
		Underserved: true,
		Goals:       []string{"Improve soil health (e.g., cover crops, no-till)"},
	}
}

func TestRecommendResolvesAgainstCatalog(t *testing.T) {
	client := geminimocks.NewMockClient(t)
	client.On("Generate", mock.Anything, mock.MatchedBy(func(r gemini.GenerateRequest) bool {
		return r.Model == "gemini-2.5-flash" &&
			r.System == SystemInstruction &&
			r.Schema != nil &&
			strings.Contains(r.Prompt, "County in SC: Charleston")
	})).Return(&gemini.GenerateResponse{Text: goodReply}, nil).Once()

	svc := NewService(testCatalog(t), NewGeminiProvider(client, "gemini-2.5-flash"), testGuard())
	svc.newID = func() string { return "req-1" }

	rec, err := svc.Recommend(context.Background(), profile())
	require.NoError(t, err)

	assert.Equal(t, "req-1", rec.RequestID)
	assert.Equal(t, "gemini", rec.Provider)
	assert.Equal(t, "gemini-2.5-flash", rec.Model)

	require.Len(t, rec.Programs, 2)
	assert.Equal(t, "eqip", rec.Programs[0].Program.ID)
	assert.Equal(t, "Beginning farmers get priority.", rec.Programs[0].Reasoning)
	assert.Equal(t, "csp", rec.Programs[1].Program.ID)

	require.Len(t, rec.Enhancements, 1)
	assert.Equal(t, "E328E", rec.Enhancements[0].Enhancement.Code)

	assert.Equal(t, []string{"Visit the local NRCS office", "Request a conservation plan"}, rec.NextSteps)
	assert.Equal(t, []string{"made-up", "E999Z"}, rec.Unresolved)
}

func TestResolveDedupesUnknownIDs(t *testing.T) {
	svc := NewService(testCatalog(t), nil, testGuard())
	rec := svc.resolve(&Reply{
		GrantRecommendations: []GrantPick{{ID: "made-up"}, {ID: "eqip"}, {ID: "made-up"}, {ID: "eqip"}},
		CSPRecommendations:   []CSPPick{{Code: "E999Z"}, {Code: "E999Z"}, {Code: "E328E"}},
	})

	require.Len(t, rec.Programs, 1)
	require.Len(t, rec.Enhancements, 1)
	assert.Equal(t, []string{"made-up", "E999Z"}, rec.Unresolved)
}

func TestRecommendReportsUsage(t *testing.T) {
	client := geminimocks.NewMockClient(t)
	client.On("Generate", mock.Anything, mock.Anything).Return(&gemini.GenerateResponse{
		Text:         goodReply,
		InputTokens:  1000000,
		OutputTokens: 100000,
	}, nil).Once()

	svc := NewService(testCatalog(t), NewGeminiProvider(client, "gemini-2.5-flash"), testGuard())
	rec, err := svc.Recommend(context.Background(), profile())
	require.NoError(t, err)

	assert.Equal(t, int64(1000000), rec.Usage.InputTokens)
	assert.Equal(t, int64(100000), rec.Usage.OutputTokens)
	assert.InDelta(t, 0.30+0.25, rec.Usage.CostUSD, 0.0001)
}

func TestRecommendRetriesTransientFailures(t *testing.T) {
	client := geminimocks.NewMockClient(t)
	client.On("Generate", mock.Anything, mock.Anything).
		Return(nil, genai.APIError{Code: http.StatusServiceUnavailable, Message: "overloaded"}).Once()
	client.On("Generate", mock.Anything, mock.Anything).
		Return(&gemini.GenerateResponse{Text: goodReply}, nil).Once()

	svc := NewService(testCatalog(t), NewGeminiProvider(client, "gemini-2.5-flash"), testGuard())
	rec, err := svc.Recommend(context.Background(), profile())
	require.NoError(t, err)
	assert.Len(t, rec.Programs, 2)
	assert.NotEmpty(t, rec.RequestID)
}

func TestRecommendDoesNotRetryClientErrors(t *testing.T) {
	client := geminimocks.NewMockClient(t)
	client.On("Generate", mock.Anything, mock.Anything).
		Return(nil, eris.Wrap(genai.APIError{Code: http.StatusBadRequest, Message: "bad"}, "gemini: generate content")).Once()

	svc := NewService(testCatalog(t), NewGeminiProvider(client, "gemini-2.5-flash"), testGuard())
	_, err := svc.Recommend(context.Background(), profile())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recommend: generate")
}

func TestRecommendMalformedReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "empty", reply: ""},
		{name: "prose", reply: "Sorry, I cannot help with that."},
		{name: "missing next steps", reply: `{"grantRecommendations": []}`},
		{name: "wrong shape", reply: `{"grantRecommendations": "csp", "nextSteps": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := geminimocks.NewMockClient(t)
			client.On("Generate", mock.Anything, mock.Anything).
				Return(&gemini.GenerateResponse{Text: tt.reply}, nil).Once()

			svc := NewService(testCatalog(t), NewGeminiProvider(client, "m"), testGuard())
			_, err := svc.Recommend(context.Background(), profile())
			assert.True(t, errors.Is(err, ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestRecommendInvalidProfile(t *testing.T) {
	client := geminimocks.NewMockClient(t)
	svc := NewService(testCatalog(t), NewGeminiProvider(client, "m"), testGuard())

	p := profile()
	p.Experience = "20+"
	_, err := svc.Recommend(context.Background(), p)
	assert.True(t, errors.Is(err, ErrInvalidProfile))
	client.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestAnthropicProvider(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(r anthropic.MessageRequest) bool {
		return r.Model == "claude-sonnet-4-5-20250929" &&
			r.MaxTokens == 4096 &&
			strings.HasPrefix(r.System, SystemInstruction) &&
			strings.Contains(r.System, "grantRecommendations") &&
			len(r.Messages) == 1 && r.Messages[0].Role == "user"
	})).Return(&anthropic.MessageResponse{
		ID:      "msg_1",
		Content: []anthropic.ContentBlock{{Type: "text", Text: "```json\n" + goodReply + "\n```"}},
	}, nil).Once()

	svc := NewService(testCatalog(t), NewAnthropicProvider(client, "claude-sonnet-4-5-20250929", 0), testGuard())
	rec, err := svc.Recommend(context.Background(), profile())
	require.NoError(t, err)
	assert.Equal(t, "anthropic", rec.Provider)
	assert.Len(t, rec.Programs, 2)
}

func TestNewProviderRequiresKey(t *testing.T) {
	cfg := &config.Config{AI: config.AIConfig{Provider: config.ProviderAnthropic}}
	_, err := NewProvider(context.Background(), cfg)
	assert.True(t, errors.Is(err, ErrNoAPIKey))

	cfg.AI.Provider = config.ProviderGemini
	_, err = NewServiceFromConfig(context.Background(), testCatalog(t), cfg)
	assert.True(t, errors.Is(err, ErrNoAPIKey))
}

func TestNewProviderSelectsBackend(t *testing.T) {
	cfg := &config.Config{
		AI:        config.AIConfig{Provider: config.ProviderAnthropic, TimeoutSecs: 30},
		Anthropic: config.AnthropicConfig{Key: "sk-test", Model: "claude-sonnet-4-5-20250929", MaxTokens: 1024},
	}
	svc, err := NewServiceFromConfig(context.Background(), testCatalog(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", svc.Provider().Name())
	assert.Equal(t, "claude-sonnet-4-5-20250929", svc.Provider().Model())
	assert.Equal(t, "anthropic", svc.Guard().Name())
}

func TestBuildPrompt(t *testing.T) {
	cat := testCatalog(t)
	prompt, err := BuildPrompt(cat, profile())
	require.NoError(t, err)

	assert.Contains(t, prompt, "## Available Grant Programs Data (JSON):")
	assert.Contains(t, prompt, `"id":"csp"`)
	assert.Contains(t, prompt, `"landUse":"Associated Ag Land/Farmstead"`)
	assert.Contains(t, prompt, "- Farm Size: 3 acres")
	assert.Contains(t, prompt, "): Yes")
	assert.Contains(t, prompt, "  - Improve soil health (e.g., cover crops, no-till)")

	// grant context is valid JSON covering every program
	start := strings.Index(prompt, "[")
	end := strings.Index(prompt, "]\n")
	require.True(t, start >= 0 && end > start)
	var grants []map[string]string
	require.NoError(t, json.Unmarshal([]byte(prompt[start:end+1]), &grants))
	assert.Len(t, grants, len(cat.Programs()))
	assert.ElementsMatch(t, []string{"id", "name", "details", "eligibility"}, keys(grants[0]))
}

func TestProfileBlockFallbacks(t *testing.T) {
	block := ProfileBlock(model.FarmProfile{Goals: []string{"  "}})
	assert.Contains(t, block, "- Farm Size: Not specified acres")
	assert.Contains(t, block, "- County in SC: Not specified")
	assert.Contains(t, block, "- Farming Experience: 0-2 years")
	assert.Contains(t, block, "): No")
	assert.Contains(t, block, "  - General improvement")
}

func TestNormalizeProfile(t *testing.T) {
	p, err := NormalizeProfile(model.FarmProfile{County: " Aiken ", Goals: []string{"", " a "}})
	require.NoError(t, err)
	assert.Equal(t, "Aiken", p.County)
	assert.Equal(t, model.DefaultExperience, p.Experience)
	assert.Equal(t, []string{"a"}, p.Goals)
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `{"a":1}`, want: `{"a":1}`},
		{in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "Here you go: {\"a\":{\"b\":2}} thanks", want: `{"a":{"b":2}}`},
		{in: "  no json  ", want: "no json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanJSON(tt.in))
	}
}

func TestResponseSchemaRequiredFields(t *testing.T) {
	s := ResponseSchema()
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"grantRecommendations", "nextSteps"}, s.Required)
	assert.Equal(t, []string{"id", "reasoning"}, s.Properties["grantRecommendations"].Items.Required)
	assert.Equal(t, []string{"code", "reasoning"}, s.Properties["cspRecommendations"].Items.Required)
	assert.Contains(t, schemaText(), "nextSteps")
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
