package search

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
