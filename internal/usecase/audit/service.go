package audit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/domain"
)

// Config fixes the sampling parameters of an audit run. The same seed,
// sample size and corpus always select the same documents, so a human
// labeling file stays valid across runs.
type Config struct {
	Seed       int64
	SampleSize int
}

// Service runs precision and stability audits over a seeded sample of the
// stored profiles.
type Service struct {
	repo    Repository
	signals SignalSource
	gt      GroundTruth
	cfg     Config
	logger  *zap.Logger
}

// New creates an audit service.
func New(repo Repository, signals SignalSource, gt GroundTruth, cfg Config, logger *zap.Logger) *Service {
	return &Service{repo: repo, signals: signals, gt: gt, cfg: cfg, logger: logger}
}

// drawSample selects the audit sample and loads its profiles, in sample
// order.
func (s *Service) drawSample(ctx context.Context) ([]domain.Profile, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	if len(ids) == 0 {
		return nil, domain.ErrCollectionEmpty
	}

	sampled := sampleIDs(ids, s.cfg.SampleSize, s.cfg.Seed)
	if len(ids) < s.cfg.SampleSize {
		s.logger.Warn("sample size exceeds corpus, using all documents",
			zap.Int("sample_size", s.cfg.SampleSize),
			zap.Int("corpus", len(ids)))
	} else {
		s.logger.Info("audit sample selected",
			zap.Int("size", len(sampled)),
			zap.Int64("seed", s.cfg.Seed))
	}

	profiles, err := s.repo.GetMulti(ctx, sampled)
	if err != nil {
		return nil, fmt.Errorf("load sampled profiles: %w", err)
	}
	return profiles, nil
}
