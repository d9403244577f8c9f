// Package gliner adapts GLiNER ONNX span models to the profile
// builder's recognizer contract.
package gliner

import (
	"context"
	"fmt"
	"sync"

	"github.com/soundprediction/go-gline-rs/pkg/gline"
	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/profile"
)

// Recognizer runs zero-shot entity extraction with one GLiNER span model.
// Inference is serialized; the underlying runtime is not reentrant.
type Recognizer struct {
	model  *gline.Model
	id     string
	logger *zap.Logger
	mu     sync.Mutex
}

// New loads a span model by Hugging Face id, downloading it on first use.
func New(modelID string, logger *zap.Logger) (*Recognizer, error) {
	if err := gline.Init(); err != nil {
		return nil, fmt.Errorf("init gline runtime: %w", err)
	}
	m, err := gline.NewSpanModelFromHF(modelID)
	if err != nil {
		return nil, fmt.Errorf("load span model %s: %w", modelID, err)
	}
	logger.Info("entity recognizer loaded", zap.String("model", modelID))
	return &Recognizer{model: m, id: modelID, logger: logger}, nil
}

// Entities implements profile.Recognizer.
func (r *Recognizer) Entities(_ context.Context, text string, labels []string) ([]profile.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	results, err := r.model.Predict([]string{text}, labels)
	if err != nil {
		return nil, fmt.Errorf("predict with %s: %w", r.id, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	entities := make([]profile.Entity, 0, len(results[0]))
	for _, e := range results[0] {
		entities = append(entities, profile.Entity{
			Text:  e.Text,
			Label: e.Label,
			Score: float64(e.Probability),
		})
	}
	return entities, nil
}

// Close releases the ONNX session.
func (r *Recognizer) Close() {
	if r.model != nil {
		r.model.Close()
	}
}
