package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/extract"
	"github.com/cvlens/cvlens/internal/profile"
	glinertr "github.com/cvlens/cvlens/internal/transport/gliner"
	pdftr "github.com/cvlens/cvlens/internal/transport/pdfdoc"
	tesstr "github.com/cvlens/cvlens/internal/transport/tesseract"
	ingestuc "github.com/cvlens/cvlens/internal/usecase/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Extract, profile and store every resume PDF in a directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reset, _ := cmd.Flags().GetBool("reset")
		runIngest(args[0], reset)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().Bool("reset", false, "drop all stored profiles before ingesting")
}

func runIngest(dir string, reset bool) {
	cfg, logger := bootstrap()
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	store := connectStore(ctx, cfg, logger)
	defer store.Close()

	chain, err := buildEmbedder(cfg, store, logger)
	if err != nil {
		logger.Fatal("creating embedder", zap.Error(err))
	}
	defer chain.Cleanup()

	recognizers := make([]profile.Recognizer, 0, len(cfg.NER.Models))
	for _, modelID := range cfg.NER.Models {
		rec, err := glinertr.New(modelID, logger)
		if err != nil {
			logger.Warn("skipping entity model", zap.String("model", modelID), zap.Error(err))
			continue
		}
		defer rec.Close()
		recognizers = append(recognizers, rec)
	}
	if len(recognizers) == 0 {
		logger.Fatal("no entity model could be loaded", zap.Strings("models", cfg.NER.Models))
	}

	extractor := extract.New(pdftr.NewOpener(), tesstr.NewEngine(), extract.Config{
		MinDigitalChars: cfg.Extraction.MinDigitalChars,
		OCRScale:        cfg.Extraction.OCRScale,
		OCRLanguages:    cfg.Extraction.OCRLanguages,
	}, logger)

	builder := profile.NewBuilder(recognizers, buildVocab(cfg), cfg.NER.HeadChars, logger)
	repo := buildProfileRepo(cfg, store, logger)

	svc := ingestuc.New(extractor, builder, repo, chain, logger)

	summary, err := svc.IngestDir(ctx, dir, reset)
	if err != nil {
		logger.Fatal("ingestion failed", zap.String("dir", dir), zap.Error(err))
	}

	logger.Info("ingestion finished",
		zap.Int("processed", summary.Processed),
		zap.Int("failed", summary.Failed))
}
