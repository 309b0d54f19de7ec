// Package advisor forwards valuation context to an external generative-text
// service and turns its replies into narrative answers and chart data. The
// valuation engine never depends on this package.
package advisor

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable is returned when no generator is configured.
	ErrUnavailable = errors.New("advisor is not configured")
	// ErrEmptyPrompt is returned when a request has nothing to ask.
	ErrEmptyPrompt = errors.New("advisor request is empty")
	// ErrParse is returned when structured output cannot be decoded.
	ErrParse = errors.New("could not parse advisor output")
)

// Generator produces text from a prompt. Implementations must be safe for
// concurrent use.
type Generator interface {
	// GenerateNarrative returns free-form markdown.
	GenerateNarrative(ctx context.Context, prompt string) (string, error)
	// GenerateStructured asks for JSON matching schema and returns the raw text.
	GenerateStructured(ctx context.Context, prompt string, schema Schema) (string, error)
}

// SchemaType is the JSON type of a schema node.
type SchemaType string

const (
	TypeArray  SchemaType = "array"
	TypeObject SchemaType = "object"
	TypeNumber SchemaType = "number"
	TypeString SchemaType = "string"
)

// Schema is a provider-neutral description of the expected JSON shape.
type Schema struct {
	Type       SchemaType         `json:"type"`
	Items      *Schema            `json:"items,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// ProfileSchema describes an array of {rate, npvA, npvB} objects.
func ProfileSchema() Schema {
	return Schema{
		Type: TypeArray,
		Items: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"rate": {Type: TypeNumber},
				"npvA": {Type: TypeNumber},
				"npvB": {Type: TypeNumber},
			},
			Required: []string{"rate", "npvA", "npvB"},
		},
	}
}
