package llm

import (
	"context"
	"errors"
	"fmt"
)

// Generator turns a prompt into model text. Implementations are safe for
// concurrent use and are built once per process.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var ErrEmptyResponse = errors.New("empty response from model")

type Options struct {
	Provider string // "gemini", "openai" or "vertex"
	Model    string
	APIKey   string
	Project  string
	Location string
}

// New builds the generator for opts.Provider. Vertex clients hold a
// connection; callers should Close them via io.Closer.
func New(ctx context.Context, opts Options) (Generator, error) {
	switch opts.Provider {
	case "gemini":
		return NewGemini(ctx, opts.APIKey, opts.Model)
	case "openai":
		return NewOpenAI(opts.APIKey, opts.Model)
	case "vertex":
		return NewVertexAI(ctx, opts.Project, opts.Location, opts.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", opts.Provider)
	}
}
