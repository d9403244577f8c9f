package cli

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/config"
	"github.com/cvlens/cvlens/internal/db"
	dbredis "github.com/cvlens/cvlens/internal/db/redis"
	"github.com/cvlens/cvlens/internal/domain"
	"github.com/cvlens/cvlens/internal/metrics"
	"github.com/cvlens/cvlens/internal/profile"
	"github.com/cvlens/cvlens/internal/repository/embcache"
	profilerepo "github.com/cvlens/cvlens/internal/repository/profile"
	"github.com/cvlens/cvlens/internal/similarity"
	embedtr "github.com/cvlens/cvlens/internal/transport/embedeverything"
	openaitr "github.com/cvlens/cvlens/internal/transport/openai"
	audituc "github.com/cvlens/cvlens/internal/usecase/audit"
)

// connectStore opens the profile store and blocks until it answers a
// ping. An unreachable store is fatal for every command.
func connectStore(ctx context.Context, cfg config.Config, logger *zap.Logger) db.Store {
	store, err := dbredis.NewStore(dbredis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("creating profile store", zap.Error(err))
	}

	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		logger.Fatal("profile store not ready",
			zap.Strings("addrs", cfg.Database.Addrs),
			zap.Error(err))
	}
	logger.Info("connected to profile store", zap.Strings("addrs", cfg.Database.Addrs))
	return store
}

// embedderChain is the assembled embedding stack. Provider keeps the
// undecorated provider around so serve can health-check it directly.
type embedderChain struct {
	domain.Embedder
	Provider domain.Embedder
	Cleanup  func()
}

// buildEmbedder assembles the embedder chain: provider -> store cache ->
// in-process memo. Cleanup releases the local model, if any.
func buildEmbedder(
	cfg config.Config, store db.Store, logger *zap.Logger,
) (embedderChain, error) {
	var base domain.Embedder
	cleanup := func() {}

	switch cfg.Embedding.Provider {
	case "openai":
		base = openaitr.NewEmbedder(&openaitr.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
			Logger:  logger,
		})
	default:
		local, err := embedtr.NewEmbedder(cfg.Embedding.Model, logger)
		if err != nil {
			return embedderChain{}, err
		}
		base = local
		cleanup = func() { _ = local.Close() }
	}

	cached := embcache.New(base, store, cfg.Storage.KeyPrefix, metrics.EmbeddingCacheTotal, logger)
	return embedderChain{
		Embedder: similarity.NewMemo(cached),
		Provider: base,
		Cleanup:  cleanup,
	}, nil
}

// buildVocab returns the configured vocabulary override or the built-in
// default lists.
func buildVocab(cfg config.Config) profile.Vocabulary {
	vocab := profile.DefaultVocabulary()
	if len(cfg.Vocab.Titles) > 0 {
		vocab.Titles = cfg.Vocab.Titles
	}
	if len(cfg.Vocab.Skills) > 0 {
		vocab.Skills = cfg.Vocab.Skills
	}
	return vocab
}

func buildProfileRepo(cfg config.Config, store db.Store, logger *zap.Logger) *profilerepo.Repo {
	return profilerepo.New(store, cfg.Storage.KeyPrefix, logger)
}

// buildSignalSource builds the per-criterion evaluator at the given
// similarity threshold. Search and audit run different thresholds, so the
// caller picks.
func buildSignalSource(embedder domain.Embedder, threshold float64) *similarity.SignalEvaluator {
	return similarity.NewSignalEvaluator(similarity.NewEvaluator(embedder), threshold)
}

// buildFreshSignalFactory returns evaluators that embed through the raw
// provider with only a per-evaluator memo. Every factory call starts
// with an empty cache, so a stability retest re-invokes the model
// instead of replaying the first run's vectors.
func buildFreshSignalFactory(chain embedderChain, threshold float64) audituc.SignalSourceFactory {
	return func() audituc.SignalSource {
		return buildSignalSource(similarity.NewMemo(chain.Provider), threshold)
	}
}
