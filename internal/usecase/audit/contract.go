package audit

import (
	"context"

	"github.com/cvlens/cvlens/internal/domain"
)

// Repository reads stored profiles.
type Repository interface {
	ListIDs(ctx context.Context) ([]string, error)
	GetMulti(ctx context.Context, ids []string) ([]domain.Profile, error)
}

// SignalSource evaluates a profile against the target criteria.
type SignalSource interface {
	Signals(ctx context.Context, target domain.CriteriaTarget, p domain.Profile) (domain.MatchSignals, error)
}

// SignalSourceFactory builds an independent evaluator with no state
// carried over from earlier runs. Stability audits take one so the
// retest run re-invokes the embedding model instead of replaying
// vectors cached during the first run.
type SignalSourceFactory func() SignalSource

// GroundTruth loads human labels and generates labeling templates.
type GroundTruth interface {
	Load(sampleIDs []string) (map[string]int, error)
	WriteTemplate(profiles []domain.Profile) error
	Path() string
}
