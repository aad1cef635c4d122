package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const (
	DefaultModel          = "gemini-2.0-flash"
	DefaultEmbeddingModel = "text-embedding-004"

	// EmbeddingDimension is the fixed vector length used across all
	// namespaces. Changing it invalidates every stored vector.
	EmbeddingDimension = 768
)

// Client wraps the hosted Gemini API for generation and embeddings.
type Client struct {
	client         *genai.Client
	model          string
	embeddingModel string
}

// NewClient creates a Gemini API client.
func NewClient(ctx context.Context, apiKey, model, embeddingModel string) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{
		client:         client,
		model:          model,
		embeddingModel: embeddingModel,
	}, nil
}

// Generate produces text for the given prompt with a single model call.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model returned an empty response")
	}
	return text, nil
}

// Embed turns text into a fixed-length vector.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	dim := int32(EmbeddingDimension)
	resp, err := c.client.Models.EmbedContent(ctx, c.embeddingModel, genai.Text(text), &genai.EmbedContentConfig{
		OutputDimensionality: &dim,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}

	return resp.Embeddings[0].Values, nil
}
