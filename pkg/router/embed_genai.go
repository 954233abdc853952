package router

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultEmbeddingModel = "gemini-embedding-001"

// GenaiEmbedder implements EmbeddingEngine over the Gemini embedding
// API.
type GenaiEmbedder struct {
	client *genai.Client
	model  string
}

// NewGenaiEmbedder creates a Gemini-backed embedding engine.
func NewGenaiEmbedder(ctx context.Context, apiKey, model string) (*GenaiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google API key is required for embeddings")
	}
	if model == "" {
		model = defaultEmbeddingModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}
	return &GenaiEmbedder{client: client, model: model}, nil
}

// Embed returns the embedding vector for text.
func (e *GenaiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Models.EmbedContent(ctx, e.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return nil, fmt.Errorf("embedding API error: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("embedding API returned no values")
	}
	return resp.Embeddings[0].Values, nil
}
