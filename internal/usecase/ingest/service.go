package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/metrics"
)

// Service runs the document-to-profile pipeline over a directory of
// resumes. Each file is extracted, profiled, embedded and upserted under
// its filename; one broken file never stops the batch.
type Service struct {
	extractor Extractor
	builder   ProfileBuilder
	repo      Repository
	embed     Embedder
	logger    *zap.Logger
}

// Summary is the outcome of one ingest run.
type Summary struct {
	Processed int
	Failed    int
}

// New creates an ingest service.
func New(extractor Extractor, builder ProfileBuilder, repo Repository, embed Embedder, logger *zap.Logger) *Service {
	return &Service{extractor: extractor, builder: builder, repo: repo, embed: embed, logger: logger}
}

// IngestDir processes every PDF in dir. With reset, all stored profiles
// are dropped first so the corpus mirrors the directory exactly.
func (s *Service) IngestDir(ctx context.Context, dir string, reset bool) (Summary, error) {
	if reset {
		n, err := s.repo.DeleteAll(ctx)
		if err != nil {
			return Summary{}, fmt.Errorf("reset stored profiles: %w", err)
		}
		s.logger.Info("cleared stored profiles", zap.Int("deleted", n))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Summary{}, fmt.Errorf("read resume directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			files = append(files, e.Name())
		}
	}
	s.logger.Info("ingesting resumes", zap.String("dir", dir), zap.Int("files", len(files)))

	var sum Summary
	for _, name := range files {
		if err := s.ingestFile(ctx, filepath.Join(dir, name), name); err != nil {
			metrics.DocumentsIngestedTotal.WithLabelValues("error").Inc()
			s.logger.Error("failed to ingest resume", zap.String("file", name), zap.Error(err))
			sum.Failed++
			continue
		}
		metrics.DocumentsIngestedTotal.WithLabelValues("ok").Inc()
		sum.Processed++
	}

	s.logger.Info("ingest finished",
		zap.Int("processed", sum.Processed),
		zap.Int("failed", sum.Failed))
	return sum, nil
}

// ingestFile runs the pipeline for one document. The filename is the
// stable profile id, so re-ingesting overwrites in place.
func (s *Service) ingestFile(ctx context.Context, path, name string) error {
	text, err := s.extractor.DocumentText(ctx, path)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	p := s.builder.Build(ctx, name, name, text)

	res, err := s.embed.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed document: %w", err)
	}

	if err := s.repo.Upsert(ctx, p, res.Embedding); err != nil {
		return fmt.Errorf("store profile: %w", err)
	}

	s.logger.Info("resume ingested",
		zap.String("file", name),
		zap.String("candidate", p.CandidateName),
		zap.Int("years_experience", p.YearsExperience),
		zap.Int("skills", countTerms(p.Skills)),
		zap.Int("titles", countTerms(p.Titles)))
	return nil
}

func countTerms(csv string) int {
	if strings.TrimSpace(csv) == "" {
		return 0
	}
	return len(strings.Split(csv, ","))
}
