package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangChain adapts any langchaingo model to Generator.
type LangChain struct {
	provider string
	client   llms.Model
}

func NewGemini(ctx context.Context, apiKey, model string) (*LangChain, error) {
	client, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &LangChain{provider: "gemini", client: client}, nil
}

func NewOpenAI(apiKey, model string) (*LangChain, error) {
	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return &LangChain{provider: "openai", client: client}, nil
}

// FromModel wraps an already configured langchaingo model.
func FromModel(provider string, client llms.Model) *LangChain {
	return &LangChain{provider: provider, client: client}
}

func (l *LangChain) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := llms.GenerateFromSinglePrompt(ctx, l.client, prompt, llms.WithTemperature(0.2))
	if err != nil {
		return "", fmt.Errorf("%s: %w", l.provider, err)
	}
	if strings.TrimSpace(resp) == "" {
		return "", fmt.Errorf("%s: %w", l.provider, ErrEmptyResponse)
	}
	return resp, nil
}
