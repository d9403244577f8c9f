// Package embedeverything provides a local, in-process embedding
// provider. No API key, no network; the model is downloaded once and
// runs via ONNX.
package embedeverything

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/soundprediction/go-embedeverything/pkg/embedder"
	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/domain"
	"github.com/cvlens/cvlens/internal/metrics"
)

const providerLabel = "local"

// Embedder wraps a local embedding model behind domain.Embedder.
// Inference is serialized; the runtime is not reentrant.
type Embedder struct {
	model  *embedder.Embedder
	name   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewEmbedder loads the named model, downloading it on first use.
func NewEmbedder(model string, logger *zap.Logger) (*Embedder, error) {
	m, err := embedder.NewEmbedder(model)
	if err != nil {
		return nil, fmt.Errorf("load embedding model %s: %w", model, err)
	}
	logger.Info("local embedding model loaded", zap.String("model", model))
	return &Embedder{model: m, name: model, logger: logger}, nil
}

// Embed implements domain.Embedder. Token usage is always zero for the
// local provider.
func (e *Embedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	vecs, err := e.model.Embed([]string{text})
	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerLabel, e.name, "error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", domain.ErrEmbeddingProviderError)
	}
	if len(vecs) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerLabel, e.name, "error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding result: %w", domain.ErrEmbeddingProviderError)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(providerLabel, e.name, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(providerLabel, e.name).Observe(duration.Seconds())

	return domain.EmbeddingResult{Embedding: vecs[0]}, nil
}

// Close releases the ONNX session.
func (e *Embedder) Close() error {
	e.model.Close()
	return nil
}
