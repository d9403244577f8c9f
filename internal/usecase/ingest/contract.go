package ingest

import (
	"context"

	"github.com/cvlens/cvlens/internal/domain"
)

// Extractor turns a document file into plain text.
type Extractor interface {
	DocumentText(ctx context.Context, path string) (string, error)
}

// ProfileBuilder derives a structured profile from extracted text.
type ProfileBuilder interface {
	Build(ctx context.Context, id, filename, text string) domain.Profile
}

// Repository persists profiles with their document embeddings.
type Repository interface {
	Upsert(ctx context.Context, p domain.Profile, vector []float32) error
	DeleteAll(ctx context.Context) (int, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
