package search

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/decision"
	"github.com/cvlens/cvlens/internal/domain"
)

// Service ranks all stored candidates against a target requirement under
// a chosen strategy.
type Service struct {
	repo    Repository
	signals SignalSource
	logger  *zap.Logger
}

// RankedCandidate is one row of the ranking result. Score is in [0,1];
// Breakdown shows its per-signal composition.
type RankedCandidate struct {
	Profile   domain.Profile
	Score     float64
	Breakdown string
	Signals   domain.MatchSignals
}

// Result holds the top candidates plus the size of the evaluated corpus.
type Result struct {
	Top       []RankedCandidate
	Evaluated int
}

// New creates a ranking service.
func New(repo Repository, signals SignalSource, logger *zap.Logger) *Service {
	return &Service{repo: repo, signals: signals, logger: logger}
}

// Rank evaluates every stored profile against the target and returns the
// topN best under the strategy's ranking score. Profiles are evaluated in
// id order and ties keep that order (stable sort), so results are
// reproducible run to run.
func (s *Service) Rank(
	ctx context.Context, target domain.CriteriaTarget, strategy decision.Strategy, topN int,
) (Result, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list profiles: %w", err)
	}
	if len(ids) == 0 {
		return Result{}, domain.ErrCollectionEmpty
	}

	profiles, err := s.repo.GetMulti(ctx, ids)
	if err != nil {
		return Result{}, fmt.Errorf("load profiles: %w", err)
	}

	ranked := make([]RankedCandidate, 0, len(profiles))
	for _, p := range profiles {
		sig, err := s.signals.Signals(ctx, target, p)
		if err != nil {
			return Result{}, err
		}
		ranked = append(ranked, RankedCandidate{
			Profile:   p,
			Score:     strategy.Score(sig),
			Breakdown: strategy.Breakdown(sig),
			Signals:   sig,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	s.logger.Info("ranking complete",
		zap.Int("evaluated", len(profiles)),
		zap.Int("returned", len(ranked)),
		zap.String("strategy", strategy.String()))
	return Result{Top: ranked, Evaluated: len(profiles)}, nil
}
