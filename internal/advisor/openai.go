package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/mine-npv/pkg/constants"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

const systemPrompt = "You are a senior mine finance analyst. Answer precisely and keep calculations consistent with standard discounted cash-flow conventions."

// OpenAIGenerator implements Generator with the OpenAI Responses API.
type OpenAIGenerator struct {
	client *openai.Client
	model  shared.ResponsesModel
}

var _ Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator builds a generator for the given key.
func NewOpenAIGenerator(apiKey, model string, opts ...option.RequestOption) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is empty: %w", ErrUnavailable)
	}
	if model == "" {
		model = constants.DefaultOpenAIModel
	}

	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIGenerator{client: &client, model: shared.ResponsesModel(model)}, nil
}

// GenerateNarrative implements Generator.
func (g *OpenAIGenerator) GenerateNarrative(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, systemPrompt, prompt)
}

// GenerateStructured implements Generator. The schema is appended to the
// system prompt.
func (g *OpenAIGenerator) GenerateStructured(ctx context.Context, prompt string, schema Schema) (string, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("encode schema: %w", err)
	}
	system := systemPrompt + "\nRespond with JSON only, matching this JSON schema:\n" + string(encoded)
	return g.generate(ctx, system, prompt)
}

func (g *OpenAIGenerator) generate(ctx context.Context, system, prompt string) (string, error) {
	resp, err := g.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: g.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(system, responses.EasyInputMessageRoleSystem),
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("call OpenAI: %w", err)
	}

	output := strings.TrimSpace(resp.OutputText())
	if output == "" {
		return "", errors.New("model returned an empty response")
	}
	return output, nil
}
