package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/mine-npv/internal/config"
	"github.com/iwvelando/mine-npv/internal/lab"
	"github.com/iwvelando/mine-npv/pkg/dcf"
	"github.com/iwvelando/mine-npv/pkg/format"
	"go.uber.org/zap"
)

var baseInputs = dcf.ProjectInputs{
	InitialInvestment: dcf.Of(50),
	LifeOfMine:        dcf.Of(10),
	AnnualCashFlow:    dcf.Of(12),
	DiscountRate:      dcf.Of(10),
}

func TestServiceUnavailable(t *testing.T) {
	services := map[string]*Service{
		"nil service":   nil,
		"nil generator": NewService(nil, nil, 0),
	}
	a, b := lab.DefaultProjects()
	chain, _ := lab.NewFormulaChain("P/F")

	for name, svc := range services {
		t.Run(name, func(t *testing.T) {
			if svc.Available() {
				t.Errorf("Available() = true, expected false")
			}
			if _, err := svc.Chat(context.Background(), baseInputs, format.Millions, "hi"); !errors.Is(err, ErrUnavailable) {
				t.Errorf("Chat() error = %v, expected ErrUnavailable", err)
			}
			if _, err := svc.SynthesizeFormula(context.Background(), chain); !errors.Is(err, ErrUnavailable) {
				t.Errorf("SynthesizeFormula() error = %v, expected ErrUnavailable", err)
			}
			if _, err := svc.Compare(context.Background(), a, b, nil); !errors.Is(err, ErrUnavailable) {
				t.Errorf("Compare() error = %v, expected ErrUnavailable", err)
			}
		})
	}
}

func TestChat(t *testing.T) {
	gen := &fakeGenerator{
		narrative: func(prompt string) (string, error) {
			return "```markdown\nThe project **creates value**.\n```", nil
		},
	}
	svc := NewService(zap.NewNop(), gen, time.Second)

	reply, err := svc.Chat(context.Background(), baseInputs, format.Millions, "  Should we build it?  ")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply.Markdown != "The project **creates value**." {
		t.Errorf("Markdown = %q", reply.Markdown)
	}
	if !strings.Contains(reply.HTML, "<strong>creates value</strong>") {
		t.Errorf("HTML = %q", reply.HTML)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], `"Should we build it?"`) {
		t.Errorf("unexpected prompts %v", gen.prompts)
	}
	if !strings.Contains(gen.prompts[0], "NPV: $23.73M") {
		t.Errorf("prompt should carry the computed NPV:\n%s", gen.prompts[0])
	}
}

func TestChatErrors(t *testing.T) {
	upstream := errors.New("quota exceeded")
	gen := &fakeGenerator{
		narrative: func(string) (string, error) { return "", upstream },
	}
	svc := NewService(nil, gen, time.Second)

	if _, err := svc.Chat(context.Background(), baseInputs, format.Millions, "   "); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("empty question error = %v, expected ErrEmptyPrompt", err)
	}

	degenerate := baseInputs
	degenerate.DiscountRate = dcf.Of(-100)
	var domainErr *dcf.DomainError
	if _, err := svc.Chat(context.Background(), degenerate, format.Millions, "why?"); !errors.As(err, &domainErr) {
		t.Errorf("degenerate rate error = %v, expected DomainError", err)
	}

	if _, err := svc.Chat(context.Background(), baseInputs, format.Millions, "why?"); !errors.Is(err, upstream) {
		t.Errorf("generator error = %v, expected wrapped upstream error", err)
	}
}

func TestSynthesizeFormula(t *testing.T) {
	gen := &fakeGenerator{}
	svc := NewService(nil, gen, time.Second)

	if _, err := svc.SynthesizeFormula(context.Background(), &lab.FormulaChain{}); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("empty chain error = %v, expected ErrEmptyPrompt", err)
	}

	chain, _ := lab.NewFormulaChain("F/P", "P/A")
	reply, err := svc.SynthesizeFormula(context.Background(), chain)
	if err != nil {
		t.Fatalf("SynthesizeFormula() error = %v", err)
	}
	if reply.Markdown != "ok" {
		t.Errorf("Markdown = %q", reply.Markdown)
	}
	if !strings.Contains(gen.prompts[len(gen.prompts)-1], "F/P into P/A") {
		t.Errorf("prompt missing chain: %v", gen.prompts)
	}
}

func TestCompareUsesAdvisorProfile(t *testing.T) {
	gen := &fakeGenerator{
		narrative: func(string) (string, error) { return "Project B is more profitable.", nil },
		structured: func(_ string, schema Schema) (string, error) {
			if schema.Type != TypeArray {
				return "", errors.New("unexpected schema")
			}
			return `[{"rate":0,"npvA":70,"npvB":136},{"rate":2,"npvA":57.79,"npvB":110.36}]`, nil
		},
	}
	svc := NewService(nil, gen, time.Second)
	a, b := lab.DefaultProjects()

	result, err := svc.Compare(context.Background(), a, b, []float64{0, 2})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if result.ProfileSource != SourceAdvisor || len(result.Profile) != 2 {
		t.Errorf("unexpected profile %+v from %s", result.Profile, result.ProfileSource)
	}
	if strings.Contains(result.Verdict.Markdown, "**Error:**") {
		t.Errorf("verdict should not carry the chart error: %q", result.Verdict.Markdown)
	}
	if len(gen.prompts) != 2 {
		t.Errorf("expected verdict and profile prompts, got %d", len(gen.prompts))
	}
}

func TestCompareFallsBackToLocalProfile(t *testing.T) {
	tests := []struct {
		name       string
		structured func(string, Schema) (string, error)
	}{
		{
			name:       "Unparseable profile",
			structured: func(string, Schema) (string, error) { return "I cannot produce a table.", nil },
		},
		{
			name:       "Profile request failed",
			structured: func(string, Schema) (string, error) { return "", errors.New("overloaded") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{
				narrative:  func(string) (string, error) { return "Verdict text.", nil },
				structured: tt.structured,
			}
			svc := NewService(nil, gen, time.Second)
			a, b := lab.DefaultProjects()

			result, err := svc.Compare(context.Background(), a, b, nil)
			if err != nil {
				t.Fatalf("Compare() error = %v", err)
			}
			if result.ProfileSource != SourceLocal {
				t.Errorf("ProfileSource = %s, expected local", result.ProfileSource)
			}
			if len(result.Profile) != 16 || result.Profile[0].NPVA != 70 {
				t.Errorf("unexpected local profile %+v", result.Profile)
			}
			if !strings.HasSuffix(result.Verdict.Markdown, "**Error:** Could not generate comparison chart data.") {
				t.Errorf("verdict missing chart error note: %q", result.Verdict.Markdown)
			}
			if !strings.HasPrefix(result.Verdict.Markdown, "Verdict text.") {
				t.Errorf("verdict lost its text: %q", result.Verdict.Markdown)
			}
		})
	}
}

func TestCompareVerdictFailure(t *testing.T) {
	gen := &fakeGenerator{
		narrative: func(string) (string, error) { return "", errors.New("down") },
	}
	svc := NewService(nil, gen, time.Second)
	a, b := lab.DefaultProjects()

	if _, err := svc.Compare(context.Background(), a, b, nil); err == nil {
		t.Fatal("expected verdict failure to fail the comparison")
	}
}

func TestNewServiceFromConfig(t *testing.T) {
	t.Setenv("MINE_NPV_TEST_EMPTY_KEY", "")
	t.Setenv("MINE_NPV_TEST_OPENAI_KEY", "sk-test")

	tests := []struct {
		name      string
		conf      config.AdvisorConfig
		wantError bool
		available bool
	}{
		{name: "Empty provider", conf: config.AdvisorConfig{}},
		{name: "None provider", conf: config.AdvisorConfig{Provider: "none"}},
		{name: "Missing key", conf: config.AdvisorConfig{Provider: "gemini", APIKeyEnv: "MINE_NPV_TEST_EMPTY_KEY"}},
		{name: "OpenAI with key", conf: config.AdvisorConfig{Provider: "OpenAI", APIKeyEnv: "MINE_NPV_TEST_OPENAI_KEY"}, available: true},
		{name: "Unknown provider", conf: config.AdvisorConfig{Provider: "oracle", APIKeyEnv: "MINE_NPV_TEST_OPENAI_KEY"}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewServiceFromConfig(context.Background(), zap.NewNop(), tt.conf)
			if tt.wantError {
				if err == nil {
					t.Errorf("NewServiceFromConfig() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewServiceFromConfig() error = %v", err)
			}
			if svc.Available() != tt.available {
				t.Errorf("Available() = %v, expected %v", svc.Available(), tt.available)
			}
		})
	}
}

func TestNewServiceDefaultTimeout(t *testing.T) {
	svc := NewService(nil, &fakeGenerator{}, 0)
	if svc.timeout != 60*time.Second {
		t.Errorf("timeout = %v, expected 60s", svc.timeout)
	}
}
