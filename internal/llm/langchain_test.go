package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type stubModel struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, m := range messages {
		for _, p := range m.Parts {
			if tp, ok := p.(llms.TextContent); ok {
				s.prompts = append(s.prompts, tp.Text)
			}
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: s.reply}}}, nil
}

func (s *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, s, prompt, options...)
}

func TestLangChainGenerate(t *testing.T) {
	model := &stubModel{reply: `{"personal_information":{}}`}
	gen := FromModel("gemini", model)

	out, err := gen.Generate(context.Background(), "summarize this")
	require.NoError(t, err)
	assert.Equal(t, `{"personal_information":{}}`, out)
	assert.Equal(t, []string{"summarize this"}, model.prompts)
}

func TestLangChainGenerateErrors(t *testing.T) {
	boom := errors.New("quota exceeded")

	tests := []struct {
		name   string
		model  *stubModel
		target error
	}{
		{"provider error", &stubModel{err: boom}, boom},
		{"blank reply", &stubModel{reply: "  \n"}, ErrEmptyResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromModel("openai", tt.model).Generate(context.Background(), "p")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.Contains(t, err.Error(), "openai")
		})
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Options{Provider: "groq"})
	assert.Error(t, err)
}
