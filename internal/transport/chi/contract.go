package chi

import (
	"context"

	"github.com/cvlens/cvlens/internal/decision"
	"github.com/cvlens/cvlens/internal/domain"
	searchuc "github.com/cvlens/cvlens/internal/usecase/search"
)

// ProfileReader reads stored candidate profiles.
type ProfileReader interface {
	ListIDs(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (domain.Profile, error)
}

// Ranker scores the whole corpus against a criteria target.
type Ranker interface {
	Rank(
		ctx context.Context,
		target domain.CriteriaTarget,
		strategy decision.Strategy,
		topN int,
	) (searchuc.Result, error)
}
