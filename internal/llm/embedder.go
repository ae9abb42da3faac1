package llm

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"google.golang.org/genai"

	"github.com/flowfind/flowfind/internal/catalog"
)

// Embedder generates fixed-dimension embeddings via Genkit's Google AI plugin.
//
// The output dimensionality is pinned to catalog.VectorDimension so stored
// vectors and query vectors always match the pgvector column declaration.
type Embedder struct {
	embedder ai.Embedder
}

// NewEmbedder creates an Embedder for the given model (e.g. "gemini-embedding-001").
func NewEmbedder(g *genkit.Genkit, model string) *Embedder {
	return &Embedder{embedder: googlegenai.GoogleAIEmbedder(g, model)}
}

// Embed returns the embedding vector for the given text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	dim := catalog.VectorDimension
	resp, err := e.embedder.Embed(ctx, &ai.EmbedRequest{
		Input:   []*ai.Document{ai.DocumentFromText(text, nil)},
		Options: &genai.EmbedContentConfig{OutputDimensionality: &dim},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding text: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return resp.Embeddings[0].Embedding, nil
}
