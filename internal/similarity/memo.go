package similarity

import (
	"context"
	"sync"

	"github.com/cvlens/cvlens/internal/domain"
)

// Memo decorates an embedder with an in-process cache keyed by exact text.
// Target strings are re-embedded for every profile in a ranking or audit
// pass; memoizing removes those redundant calls without changing scores.
// Scope a Memo to one session so model swaps never serve stale vectors.
type Memo struct {
	inner domain.Embedder

	mu    sync.Mutex
	cache map[string]domain.EmbeddingResult
}

func NewMemo(inner domain.Embedder) *Memo {
	return &Memo{inner: inner, cache: make(map[string]domain.EmbeddingResult)}
}

// Embed returns the cached result for text, delegating to the wrapped
// embedder on first sight. Errors are not cached.
func (m *Memo) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	res, ok := m.cache[text]
	m.mu.Unlock()
	if ok {
		return res, nil
	}

	res, err := m.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}

	m.mu.Lock()
	m.cache[text] = res
	m.mu.Unlock()
	return res, nil
}
