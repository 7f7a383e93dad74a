package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// Embedder turns text into vectors. Implementations wrap a provider SDK and
// are the only place in the package that performs network I/O.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// OpenAIEmbedder embeds text via the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder creates an OpenAI-backed embedder. An empty model falls
// back to text-embedding-3-small.
func NewOpenAIEmbedder(apiKey, model string) (*OpenAIEmbedder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("knowledge: openai api key is required")
	}
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	return &OpenAIEmbedder{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Embed returns one vector per input text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("knowledge: openai embedding failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, errors.New("knowledge: embedding response size mismatch")
	}
	out := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		out[i] = item.Embedding
	}
	return out, nil
}

// GeminiEmbedder embeds text via Google's Gemini API.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

// NewGeminiEmbedder creates a Gemini-backed embedder. An empty model falls
// back to embedding-001.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string) (*GeminiEmbedder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("knowledge: gemini api key is required")
	}
	if model == "" {
		model = "embedding-001"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("knowledge: failed to create gemini client: %w", err)
	}
	return &GeminiEmbedder{client: client, model: model}, nil
}

// Embed returns one vector per input text using a single batched call.
func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	em := e.client.EmbeddingModel(e.model)
	batch := em.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}
	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("knowledge: gemini embedding failed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, errors.New("knowledge: embedding response size mismatch")
	}
	out := make([][]float32, len(resp.Embeddings))
	for i, item := range resp.Embeddings {
		out[i] = item.Values
	}
	return out, nil
}

// Close releases the underlying API client.
func (e *GeminiEmbedder) Close() error {
	return e.client.Close()
}
