package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotLoaded is returned by backends that are asked to generate before
// they report ready.
var ErrNotLoaded = errors.New("text generator not loaded")

// Sampling holds the decoding parameters passed to a backend. Backends ignore
// the fields their API has no equivalent for.
type Sampling struct {
	MaxNewTokens      int
	Temperature       float64
	TopP              float64
	TopK              int
	RepetitionPenalty float64
}

// DefaultSampling matches the settings used for single-shot recreation.
func DefaultSampling() Sampling {
	return Sampling{
		MaxNewTokens:      512,
		Temperature:       0.85,
		TopP:              0.92,
		TopK:              50,
		RepetitionPenalty: 1.15,
	}
}

// Generator is the synchronous text-generation capability the pipeline
// depends on. Implementations must not block past ctx.
type Generator interface {
	Ready() bool
	Generate(ctx context.Context, prompt string, s Sampling) (string, error)
	GenerateWithSystem(ctx context.Context, system, user string, s Sampling) (string, error)
}

// ChatPrompt frames a system and user prompt for backends that only accept a
// single raw prompt.
func ChatPrompt(system, user string) string {
	return fmt.Sprintf("### System:\n%s\n\n### User:\n%s\n\n### Assistant:\n", system, user)
}
