package cvlens

import (
	"context"

	"github.com/cvlens/cvlens/internal/domain"
)

// Embedder vectorizes text. Implement it over any embedding provider;
// the vectors only need to be mutually comparable by cosine similarity.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// embedderAdapter bridges the public Embedder to the internal contract.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	vec, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

// noopEmbedder backs clients built without WithEmbedder. Reads work,
// ranking fails fast.
type noopEmbedder struct{}

func (noopEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, ErrNoEmbedder
}
