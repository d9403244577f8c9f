package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/metrics"
	chitr "github.com/cvlens/cvlens/internal/transport/chi"
	healthuc "github.com/cvlens/cvlens/internal/usecase/health"
	searchuc "github.com/cvlens/cvlens/internal/usecase/search"
	"github.com/cvlens/cvlens/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() {
	cfg, lg := bootstrap()
	defer func() { _ = lg.Sync() }()

	metrics.RegisterHTTP()

	lg.Info("starting cvlens API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.Int("http_port", cfg.HTTP.Port))

	ctx := context.Background()

	store := connectStore(ctx, cfg, lg)
	defer store.Close()

	chain, err := buildEmbedder(cfg, store, lg)
	if err != nil {
		lg.Fatal("creating embedder", zap.Error(err))
	}
	defer chain.Cleanup()

	repo := buildProfileRepo(cfg, store, lg)
	signals := buildSignalSource(chain, cfg.Search.Threshold)
	ranker := searchuc.New(repo, signals, lg)

	var embChecker healthuc.EmbeddingChecker
	if hc, ok := chain.Provider.(healthuc.EmbeddingChecker); ok {
		embChecker = hc
	}
	health := healthuc.New(store, repo, embChecker)

	server := chitr.NewServer(repo, ranker, health, lg)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(cfg.HTTP.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		lg.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	lg.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("error during shutdown", zap.Error(err))
	}

	lg.Info("server stopped gracefully")
}
