package similarity

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/cvlens/cvlens/internal/domain"
)

// Evaluator scores semantic similarity between a target criterion and a
// candidate field via externally produced embeddings.
type Evaluator struct {
	embedder domain.Embedder
}

func NewEvaluator(embedder domain.Embedder) *Evaluator {
	return &Evaluator{embedder: embedder}
}

// Score returns the cosine similarity between target and candidate, in
// [-1,1]. An empty or whitespace-only candidate scores 0 without touching
// the embedding model.
func (e *Evaluator) Score(ctx context.Context, target, candidate string) (float64, error) {
	if strings.TrimSpace(candidate) == "" {
		return 0, nil
	}

	tr, err := e.embedder.Embed(ctx, target)
	if err != nil {
		return 0, fmt.Errorf("embed target: %w", err)
	}
	cr, err := e.embedder.Embed(ctx, candidate)
	if err != nil {
		return 0, fmt.Errorf("embed candidate: %w", err)
	}

	return Cosine(tr.Embedding, cr.Embedding), nil
}

// Matches reports whether the similarity score reaches the threshold, and
// returns the score itself for ranking.
func (e *Evaluator) Matches(ctx context.Context, target, candidate string, threshold float64) (bool, float64, error) {
	score, err := e.Score(ctx, target, candidate)
	if err != nil {
		return false, 0, err
	}
	return score >= threshold, score, nil
}

// Cosine computes cosine similarity between two vectors. Accumulation runs
// in float64 so low-magnitude float32 components do not wash out. Zero or
// mismatched vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
