package recommend

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agrigrant-cli/internal/config"
	"github.com/sells-group/agrigrant-cli/internal/resilience"
	"github.com/sells-group/agrigrant-cli/pkg/anthropic"
	"github.com/sells-group/agrigrant-cli/pkg/gemini"
)

// Request is one generation call.
type Request struct {
	System string
	Prompt string
}

// Output is the raw reply text of one call with its token counts.
type Output struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// Provider turns a prompt into the raw reply text.
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, req Request) (Output, error)
}

// classify marks retryable API failures so the guard retries them.
func classify(err error, status int) error {
	if status != 0 && resilience.RetryableStatus(status) {
		return resilience.Transient(err, status)
	}
	return err
}

type geminiProvider struct {
	client gemini.Client
	model  string
}

// NewGeminiProvider returns a provider backed by Gemini structured output.
func NewGeminiProvider(client gemini.Client, model string) Provider {
	return &geminiProvider{client: client, model: model}
}

func (p *geminiProvider) Name() string  { return config.ProviderGemini }
func (p *geminiProvider) Model() string { return p.model }

func (p *geminiProvider) Generate(ctx context.Context, req Request) (Output, error) {
	resp, err := p.client.Generate(ctx, gemini.GenerateRequest{
		Model:  p.model,
		System: req.System,
		Prompt: req.Prompt,
		Schema: ResponseSchema(),
	})
	if err != nil {
		return Output{}, classify(err, gemini.StatusCode(err))
	}
	return Output{
		Text:         resp.Text,
		InputTokens:  int64(resp.InputTokens),
		OutputTokens: int64(resp.OutputTokens),
	}, nil
}

type anthropicProvider struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicProvider returns a provider backed by Claude. The schema is
// given as text since the reply is free-form.
func NewAnthropicProvider(client anthropic.Client, model string, maxTokens int) Provider {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &anthropicProvider{client: client, model: model, maxTokens: int64(maxTokens)}
}

func (p *anthropicProvider) Name() string  { return config.ProviderAnthropic }
func (p *anthropicProvider) Model() string { return p.model }

func (p *anthropicProvider) Generate(ctx context.Context, req Request) (Output, error) {
	system := req.System + "\n\nRespond with only a JSON object matching this schema:\n" + schemaText()
	resp, err := p.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		System:    system,
		Messages:  []anthropic.Message{{Role: "user", Content: req.Prompt}},
	})
	if err != nil {
		return Output{}, classify(err, anthropic.StatusCode(err))
	}
	resp.Usage.LogUsage(p.model, resp.ID)
	return Output{
		Text:         resp.Text(),
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}

// NewProvider builds the provider selected by cfg.AI.Provider. A missing key
// yields ErrNoAPIKey.
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	if cfg.APIKey() == "" {
		return nil, eris.Wrapf(ErrNoAPIKey, "%s.key", cfg.AI.Provider)
	}
	switch cfg.AI.Provider {
	case config.ProviderAnthropic:
		return NewAnthropicProvider(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model, cfg.Anthropic.MaxTokens), nil
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, cfg.Gemini.Key)
		if err != nil {
			return nil, err
		}
		return NewGeminiProvider(c, cfg.Gemini.Model), nil
	}
	return nil, eris.Errorf("recommend: unknown provider %q", cfg.AI.Provider)
}
