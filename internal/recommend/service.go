// Package recommend asks a generative AI provider for grant and CSP
// enhancement recommendations and resolves the answer against the catalog.
package recommend

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agrigrant-cli/internal/catalog"
	"github.com/sells-group/agrigrant-cli/internal/config"
	"github.com/sells-group/agrigrant-cli/internal/cost"
	"github.com/sells-group/agrigrant-cli/internal/model"
	"github.com/sells-group/agrigrant-cli/internal/resilience"
)

var (
	// ErrNoAPIKey is returned when the selected provider has no API key.
	ErrNoAPIKey = eris.New("recommend: api key is not configured")
	// ErrMalformedResponse is returned when the provider reply cannot be
	// decoded into recommendations.
	ErrMalformedResponse = eris.New("recommend: malformed provider response")
	// ErrInvalidProfile is returned for a farm profile the form would reject.
	ErrInvalidProfile = eris.New("recommend: invalid farm profile")
)

// Service produces recommendations for farm profiles.
type Service struct {
	cat      *catalog.Catalog
	provider Provider
	guard    *resilience.Guard
	pricing  *cost.Calculator
	newID    func() string
}

// NewService wires a provider to the catalog behind guard.
func NewService(cat *catalog.Catalog, provider Provider, guard *resilience.Guard) *Service {
	return &Service{
		cat:      cat,
		provider: provider,
		guard:    guard,
		pricing:  cost.NewCalculator(cost.DefaultRates()),
		newID:    func() string { return uuid.NewString() },
	}
}

// NewServiceFromConfig builds the provider and guard described by cfg.
func NewServiceFromConfig(ctx context.Context, cat *catalog.Catalog, cfg *config.Config) (*Service, error) {
	p, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	r := cfg.Resilience
	g := resilience.FromSettings(p.Name(), r.MaxAttempts, r.InitialBackoffMs, r.FailureThreshold, r.ResetTimeoutSecs, cfg.AI.TimeoutSecs)
	return NewService(cat, p, g), nil
}

// Provider returns the configured provider.
func (s *Service) Provider() Provider { return s.provider }

// Guard returns the resilience guard around provider calls.
func (s *Service) Guard() *resilience.Guard { return s.guard }

// NormalizeProfile trims the profile and fills the default experience bucket.
func NormalizeProfile(p model.FarmProfile) (model.FarmProfile, error) {
	p.SizeAcres = strings.TrimSpace(p.SizeAcres)
	p.County = strings.TrimSpace(p.County)
	p.Experience = strings.TrimSpace(p.Experience)
	if p.Experience == "" {
		p.Experience = model.DefaultExperience
	}
	if !model.ValidExperience(p.Experience) {
		return p, eris.Wrapf(ErrInvalidProfile, "experience %q", p.Experience)
	}
	goals := make([]string, 0, len(p.Goals))
	for _, g := range p.Goals {
		if g = strings.TrimSpace(g); g != "" {
			goals = append(goals, g)
		}
	}
	p.Goals = goals
	return p, nil
}

// Recommend sends the profile to the provider and resolves the returned ids
// and codes against the catalog. Ids the catalog does not know are listed in
// Unresolved rather than failing the request.
func (s *Service) Recommend(ctx context.Context, profile model.FarmProfile) (*model.Recommendation, error) {
	profile, err := NormalizeProfile(profile)
	if err != nil {
		return nil, err
	}

	id := s.newID()
	log := zap.L().With(
		zap.String("request_id", id),
		zap.String("provider", s.provider.Name()),
		zap.String("model", s.provider.Model()),
	)

	prompt, err := BuildPrompt(s.cat, profile)
	if err != nil {
		return nil, err
	}

	log.Info("recommend: requesting recommendations", zap.Int("prompt_bytes", len(prompt)))
	out, err := resilience.Call(ctx, s.guard, func(ctx context.Context) (Output, error) {
		return s.provider.Generate(ctx, Request{System: SystemInstruction, Prompt: prompt})
	})
	if err != nil {
		log.Error("recommend: provider call failed", zap.Error(err))
		return nil, eris.Wrap(err, "recommend: generate")
	}

	usage := model.Usage{
		InputTokens:  out.InputTokens,
		OutputTokens: out.OutputTokens,
		CostUSD:      s.pricing.Cost(s.provider.Name(), s.provider.Model(), out.InputTokens, out.OutputTokens),
	}
	log.Info("recommend: provider usage",
		zap.Int64("input_tokens", usage.InputTokens),
		zap.Int64("output_tokens", usage.OutputTokens),
		zap.Float64("cost_usd", usage.CostUSD),
	)

	reply, err := ParseReply(out.Text)
	if err != nil {
		log.Warn("recommend: unparseable reply", zap.Error(err), zap.Int("reply_bytes", len(out.Text)))
		return nil, err
	}

	rec := s.resolve(reply)
	rec.RequestID = id
	rec.Provider = s.provider.Name()
	rec.Model = s.provider.Model()
	rec.Profile = profile
	rec.Usage = usage

	if len(rec.Unresolved) > 0 {
		log.Warn("recommend: provider returned unknown ids", zap.Strings("unresolved", rec.Unresolved))
	}
	log.Info("recommend: done",
		zap.Int("programs", len(rec.Programs)),
		zap.Int("enhancements", len(rec.Enhancements)),
	)
	return rec, nil
}

// resolve maps reply ids and codes to catalog records, dropping duplicates.
func (s *Service) resolve(r *Reply) *model.Recommendation {
	rec := &model.Recommendation{
		Programs:     []model.ProgramRecommendation{},
		Enhancements: []model.EnhancementRecommendation{},
		NextSteps:    []string{},
	}
	seen := make(map[string]bool)

	for _, g := range r.GrantRecommendations {
		p, err := s.cat.Program(g.ID)
		if err != nil {
			if !seen["unresolved:"+g.ID] {
				seen["unresolved:"+g.ID] = true
				rec.Unresolved = append(rec.Unresolved, g.ID)
			}
			continue
		}
		if seen["program:"+p.ID] {
			continue
		}
		seen["program:"+p.ID] = true
		rec.Programs = append(rec.Programs, model.ProgramRecommendation{Program: p, Reasoning: g.Reasoning})
	}

	for _, c := range r.CSPRecommendations {
		e, err := s.cat.Enhancement(c.Code)
		if err != nil {
			if !seen["unresolved:"+c.Code] {
				seen["unresolved:"+c.Code] = true
				rec.Unresolved = append(rec.Unresolved, c.Code)
			}
			continue
		}
		if seen["csp:"+e.Code] {
			continue
		}
		seen["csp:"+e.Code] = true
		rec.Enhancements = append(rec.Enhancements, model.EnhancementRecommendation{Enhancement: e, Reasoning: c.Reasoning})
	}

	for _, step := range r.NextSteps {
		if step = strings.TrimSpace(step); step != "" {
			rec.NextSteps = append(rec.NextSteps, step)
		}
	}
	return rec
}
