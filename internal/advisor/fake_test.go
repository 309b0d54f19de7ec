package advisor

import (
	"context"
	"sync"
)

// fakeGenerator records prompts and answers with canned functions.
type fakeGenerator struct {
	mu         sync.Mutex
	prompts    []string
	narrative  func(prompt string) (string, error)
	structured func(prompt string, schema Schema) (string, error)
}

func (f *fakeGenerator) record(prompt string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
}

func (f *fakeGenerator) GenerateNarrative(ctx context.Context, prompt string) (string, error) {
	f.record(prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.narrative == nil {
		return "ok", nil
	}
	return f.narrative(prompt)
}

func (f *fakeGenerator) GenerateStructured(ctx context.Context, prompt string, schema Schema) (string, error) {
	f.record(prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.structured == nil {
		return "[]", nil
	}
	return f.structured(prompt, schema)
}
