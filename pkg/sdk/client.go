package cvlens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/db"
	dbredis "github.com/cvlens/cvlens/internal/db/redis"
	"github.com/cvlens/cvlens/internal/decision"
	"github.com/cvlens/cvlens/internal/domain"
	profilerepo "github.com/cvlens/cvlens/internal/repository/profile"
	"github.com/cvlens/cvlens/internal/similarity"
	healthuc "github.com/cvlens/cvlens/internal/usecase/health"
	searchuc "github.com/cvlens/cvlens/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "cvlens:"
	defaultThreshold        = 0.40
)

// Internal interfaces so tests can substitute the wired services.
type profileReader interface {
	ListIDs(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (domain.Profile, error)
}

type ranker interface {
	Rank(
		ctx context.Context,
		target domain.CriteriaTarget,
		strategy decision.Strategy,
		topN int,
	) (searchuc.Result, error)
}

type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the cvlens SDK entry point.
type Client struct {
	store    db.Store
	profiles profileReader
	ranker   ranker
	health   healthChecker
}

// New creates a cvlens Client and connects to the profile store.
// The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix: defaultKeyPrefix,
		threshold: defaultThreshold,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("cvlens: store address required (use WithRedis)")
	}

	store, err := dbredis.NewStore(dbredis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("cvlens: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("cvlens: store not ready: %w", err)
	}

	var emb domain.Embedder = noopEmbedder{}
	if cfg.embedder != nil {
		emb = similarity.NewMemo(&embedderAdapter{inner: cfg.embedder})
	}

	repo := profilerepo.New(store, cfg.keyPrefix, cfg.logger)
	signals := similarity.NewSignalEvaluator(similarity.NewEvaluator(emb), cfg.threshold)

	return &Client{
		store:    store,
		profiles: repo,
		ranker:   searchuc.New(repo, signals, cfg.logger),
		health:   healthuc.New(store, repo, nil),
	}, nil
}

// Close releases the store connection.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status   string            // "ok" or "degraded"
	Checks   map[string]string // component -> "ok"/"error"
	Profiles int               // ingested resumes, 0 when the store is down
}

// Health checks the profile store and reports the corpus size.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:   string(report.Status),
		Checks:   checks,
		Profiles: report.Profiles,
	}
}

// ListProfiles returns the ids of all stored profiles, sorted.
func (c *Client) ListProfiles(ctx context.Context) ([]string, error) {
	ids, err := c.profiles.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("cvlens: list profiles: %w", err)
	}
	return ids, nil
}

// GetProfile returns one stored profile by document id.
// Returns ErrProfileNotFound if the id is unknown.
func (c *Client) GetProfile(ctx context.Context, id string) (Profile, error) {
	p, err := c.profiles.Get(ctx, id)
	if err != nil {
		return Profile{}, fmt.Errorf("cvlens: get profile %s: %w", id, err)
	}
	return profileFromDomain(p), nil
}

// Rank scores every stored candidate against the target under the given
// strategy case (1-7) and returns the topN best. Returns
// ErrCollectionEmpty when nothing has been ingested and ErrNoEmbedder
// when the client was built without WithEmbedder.
func (c *Client) Rank(ctx context.Context, target Target, strategyCase, topN int) (Ranking, error) {
	strategy, err := decision.Parse(strategyCase)
	if err != nil {
		return Ranking{}, fmt.Errorf("cvlens: %w", err)
	}

	result, err := c.ranker.Rank(ctx, domain.CriteriaTarget{
		Title:         target.Title,
		SkillsText:    target.Skills,
		MinExperience: target.MinExperience,
	}, strategy, topN)
	if err != nil {
		return Ranking{}, fmt.Errorf("cvlens: rank: %w", err)
	}

	return rankingFromResult(result), nil
}
