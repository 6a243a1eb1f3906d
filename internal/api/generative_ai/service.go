package generativeAI

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultTemperature = 0.7

// AIClient wraps the Gemini client behind the engine's text-generation
// boundary. Credentials and model name are injected at construction;
// nothing here reads process-wide state.
type AIClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewAIClient(ctx context.Context, apiKey, model string) (*AIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &AIClient{
		client:      client,
		model:       model,
		temperature: defaultTemperature,
	}, nil
}

// GenerateContent sends one prompt and returns the raw response text.
func (ai *AIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](ai.temperature),
	}
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return result.Text(), nil
}
