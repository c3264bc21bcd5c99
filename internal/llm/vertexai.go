package llm

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// VertexAI calls Gemini through Vertex AI with application default credentials.
type VertexAI struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewVertexAI(ctx context.Context, projectID, location, modelName string) (*VertexAI, error) {
	if projectID == "" {
		return nil, fmt.Errorf("vertex: project id is required")
	}
	if location == "" {
		location = "us-central1"
	}

	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	// Low temperature keeps extraction output stable between runs.
	model.SetTemperature(0.2)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(4096)
	model.ResponseMIMEType = "application/json"

	return &VertexAI{client: client, model: model}, nil
}

func (v *VertexAI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("vertex: failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("vertex: %w", ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("vertex: %w", ErrEmptyResponse)
	}
	return sb.String(), nil
}

func (v *VertexAI) Close() error {
	return v.client.Close()
}
