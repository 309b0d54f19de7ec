package advisor

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iwvelando/mine-npv/internal/config"
	"github.com/iwvelando/mine-npv/internal/lab"
	"github.com/iwvelando/mine-npv/pkg/constants"
	"github.com/iwvelando/mine-npv/pkg/dcf"
	"github.com/iwvelando/mine-npv/pkg/format"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ChartErrorNote is appended to a verdict when the profile data could not be
// produced by the generator.
const ChartErrorNote = "\n\n**Error:** Could not generate comparison chart data."

// Profile sources reported by Compare.
const (
	SourceAdvisor = "advisor"
	SourceLocal   = "local"
)

// Reply is a narrative answer in markdown with its HTML rendering.
type Reply struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// Comparison is the result of a two-project incremental analysis.
type Comparison struct {
	Verdict       Reply              `json:"verdict"`
	Profile       []lab.ProfilePoint `json:"profile"`
	ProfileSource string             `json:"profileSource"`
}

// Service runs advisor requests against a Generator. A Service with a nil
// generator answers every request with ErrUnavailable.
type Service struct {
	generator Generator
	timeout   time.Duration
	logger    *zap.Logger
}

// NewService creates a Service. A zero timeout selects the default.
func NewService(logger *zap.Logger, generator Generator, timeout time.Duration) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = constants.DefaultAdvisorTimeoutSeconds * time.Second
	}
	return &Service{generator: generator, timeout: timeout, logger: logger}
}

// NewServiceFromConfig builds the generator named by the advisor config. A
// missing API key leaves the service unavailable rather than failing.
func NewServiceFromConfig(ctx context.Context, logger *zap.Logger, conf config.AdvisorConfig) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider := strings.ToLower(strings.TrimSpace(conf.Provider))
	if provider == "" || provider == constants.AdvisorProviderNone {
		return NewService(logger, nil, conf.Timeout), nil
	}

	keyEnv := conf.APIKeyEnv
	if keyEnv == "" {
		switch provider {
		case constants.AdvisorProviderGemini:
			keyEnv = constants.DefaultGeminiAPIKeyEnv
		case constants.AdvisorProviderOpenAI:
			keyEnv = constants.DefaultOpenAIAPIKeyEnv
		}
	}
	apiKey := os.Getenv(keyEnv)
	if apiKey == "" && (provider == constants.AdvisorProviderGemini || provider == constants.AdvisorProviderOpenAI) {
		logger.Warn(fmt.Sprintf("advisor disabled because %s is not set", keyEnv),
			zap.String("op", "advisor.NewServiceFromConfig"),
			zap.String("provider", provider),
		)
		return NewService(logger, nil, conf.Timeout), nil
	}

	var generator Generator
	switch provider {
	case constants.AdvisorProviderGemini:
		g, err := NewGeminiGenerator(ctx, apiKey, conf.Model)
		if err != nil {
			return nil, err
		}
		generator = g
	case constants.AdvisorProviderOpenAI:
		g, err := NewOpenAIGenerator(apiKey, conf.Model)
		if err != nil {
			return nil, err
		}
		generator = g
	default:
		return nil, fmt.Errorf("unsupported advisor provider %q", conf.Provider)
	}

	logger.Info("advisor enabled",
		zap.String("op", "advisor.NewServiceFromConfig"),
		zap.String("provider", provider),
	)
	return NewService(logger, generator, conf.Timeout), nil
}

// Available reports whether a generator is configured.
func (s *Service) Available() bool {
	return s != nil && s.generator != nil
}

// Chat answers a question about an annuity project.
func (s *Service) Chat(ctx context.Context, in dcf.ProjectInputs, unit format.Unit, question string) (Reply, error) {
	if !s.Available() {
		return Reply{}, ErrUnavailable
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return Reply{}, fmt.Errorf("%w: question", ErrEmptyPrompt)
	}

	result, err := dcf.ComputeAnnuity(in)
	if err != nil {
		return Reply{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generator.GenerateNarrative(ctx, ChatPrompt(in, result.NPV, unit, question))
	if err != nil {
		s.logger.Error("advisor chat failed", zap.String("op", "advisor.Chat"), zap.Error(err))
		return Reply{}, fmt.Errorf("advisor chat: %w", err)
	}
	return s.reply(text), nil
}

// SynthesizeFormula explains the combined effect of a chain of factors.
func (s *Service) SynthesizeFormula(ctx context.Context, chain *lab.FormulaChain) (Reply, error) {
	if !s.Available() {
		return Reply{}, ErrUnavailable
	}
	if chain == nil || chain.Empty() {
		return Reply{}, fmt.Errorf("%w: formula chain", ErrEmptyPrompt)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generator.GenerateNarrative(ctx, FormulaPrompt(chain.String()))
	if err != nil {
		s.logger.Error("formula synthesis failed", zap.String("op", "advisor.SynthesizeFormula"), zap.Error(err))
		return Reply{}, fmt.Errorf("formula synthesis: %w", err)
	}
	return s.reply(text), nil
}

// Compare requests a verdict and NPV profile for two projects concurrently.
// A verdict failure fails the call. When the profile cannot be obtained from
// the generator the verdict carries ChartErrorNote and the profile is computed
// locally. Nil rates means lab.DefaultRates.
func (s *Service) Compare(ctx context.Context, a, b lab.Project, rates []float64) (Comparison, error) {
	if !s.Available() {
		return Comparison{}, ErrUnavailable
	}
	if rates == nil {
		rates = lab.DefaultRates()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var verdict, profileText string
	var profileErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := s.generator.GenerateNarrative(gctx, VerdictPrompt(a, b))
		if err != nil {
			return fmt.Errorf("comparison verdict: %w", err)
		}
		verdict = text
		return nil
	})
	g.Go(func() error {
		profileText, profileErr = s.generator.GenerateStructured(gctx, ProfilePrompt(a, b, rates), ProfileSchema())
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("comparison failed", zap.String("op", "advisor.Compare"), zap.Error(err))
		return Comparison{}, err
	}

	result := Comparison{ProfileSource: SourceAdvisor}
	if profileErr == nil {
		result.Profile, profileErr = ParseProfile(profileText)
	}
	if profileErr != nil {
		s.logger.Warn("falling back to local NPV profile",
			zap.String("op", "advisor.Compare"),
			zap.Error(profileErr),
		)
		verdict = CleanMarkdown(verdict) + ChartErrorNote
		local, err := lab.Profile(a, b, rates)
		if err != nil {
			return Comparison{}, err
		}
		result.Profile = local
		result.ProfileSource = SourceLocal
	}

	result.Verdict = s.reply(verdict)
	return result, nil
}

func (s *Service) reply(text string) Reply {
	markdown := CleanMarkdown(text)
	html, err := RenderHTML(markdown)
	if err != nil {
		s.logger.Warn("markdown rendering failed", zap.String("op", "advisor.reply"), zap.Error(err))
	}
	return Reply{Markdown: markdown, HTML: html}
}
