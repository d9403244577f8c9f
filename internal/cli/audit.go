package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/config"
	"github.com/cvlens/cvlens/internal/decision"
	"github.com/cvlens/cvlens/internal/domain"
	groundtruthrepo "github.com/cvlens/cvlens/internal/repository/groundtruth"
	audituc "github.com/cvlens/cvlens/internal/usecase/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit the automated decisions over a reproducible sample",
}

var auditPrecisionCmd = &cobra.Command{
	Use:   "precision",
	Short: "Compare machine decisions against human labels",
	Run: func(cmd *cobra.Command, _ []string) {
		runAuditPrecision(cmd)
	},
}

var auditStabilityCmd = &cobra.Command{
	Use:   "stability",
	Short: "Test-retest the decisions for determinism",
	Run: func(cmd *cobra.Command, _ []string) {
		runAuditStability(cmd)
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditPrecisionCmd)
	auditCmd.AddCommand(auditStabilityCmd)

	for _, c := range []*cobra.Command{auditPrecisionCmd, auditStabilityCmd} {
		c.Flags().Int("case", 0, "decision strategy case 1-7 (default from config)")
	}
}

// auditSetup wires the audit service. The returned factory builds
// uncached evaluators for stability retests; the cleanup closes the
// store and releases the embedding model.
func auditSetup(
	ctx context.Context, cfg config.Config, lg *zap.Logger,
) (*audituc.Service, audituc.SignalSourceFactory, func()) {
	store := connectStore(ctx, cfg, lg)

	chain, err := buildEmbedder(cfg, store, lg)
	if err != nil {
		store.Close()
		lg.Fatal("creating embedder", zap.Error(err))
	}

	signals := buildSignalSource(chain, cfg.Audit.Threshold)
	fresh := buildFreshSignalFactory(chain, cfg.Audit.Threshold)
	gt := groundtruthrepo.New(cfg.Audit.GroundTruthFile, lg)

	svc := audituc.New(buildProfileRepo(cfg, store, lg), signals, gt, audituc.Config{
		Seed:       cfg.Audit.Seed,
		SampleSize: cfg.Audit.SampleSize,
	}, lg)

	return svc, fresh, func() {
		chain.Cleanup()
		store.Close()
	}
}

func auditStrategy(cmd *cobra.Command, cfg config.Config, lg *zap.Logger) decision.Strategy {
	caseID, _ := cmd.Flags().GetInt("case")
	if caseID == 0 {
		caseID = cfg.Audit.Case
	}
	strategy, err := decision.Parse(caseID)
	if err != nil {
		lg.Fatal("invalid strategy case", zap.Error(err))
	}
	return strategy
}

func runAuditPrecision(cmd *cobra.Command) {
	cfg, lg := bootstrap()
	defer func() { _ = lg.Sync() }()

	ctx := context.Background()
	strategy := auditStrategy(cmd, cfg, lg)

	svc, _, cleanup := auditSetup(ctx, cfg, lg)
	defer cleanup()

	report, err := svc.Precision(ctx, auditTarget(cfg), strategy)
	if errors.Is(err, domain.ErrCollectionEmpty) {
		lg.Fatal("no profiles stored", zap.String("hint", "run 'cvlens ingest <dir>' first"))
	}
	if err != nil {
		lg.Fatal("precision audit failed", zap.Error(err))
	}

	printSample(report.Sampled)

	if report.TemplateGenerated {
		fmt.Printf("No ground truth file found.\n")
		fmt.Printf("A labeling template was written to %s.\n", report.TemplatePath)
		fmt.Printf("Fill the Etiqueta_Humana column (1 = approve, 0 = reject) and rerun.\n")
		return
	}
	if report.Labeled == 0 {
		fmt.Printf("The ground truth at %s labels none of the sampled ids; nothing to evaluate.\n",
			cfg.Audit.GroundTruthFile)
		fmt.Printf("Label the sampled ids above (or adjust audit.seed/audit.sample_size) and rerun.\n")
		return
	}

	fmt.Printf("Labeled: %d of %d sampled (strategy: %s)\n\n", report.Labeled, len(report.Sampled), strategy)
	printMatrix(report.Matrix)

	fmt.Printf("Accuracy:  %.2f%%\n", report.Matrix.Accuracy()*100)
	fmt.Printf("Precision: %.2f%%\n", report.Matrix.Precision()*100)
	fmt.Printf("Recall:    %.2f%%\n\n", report.Matrix.Recall()*100)

	if len(report.Disagreements) > 0 {
		fmt.Println("Disagreements:")
		for _, d := range report.Disagreements {
			fmt.Printf("  %s: human=%d machine=%d  %s\n", d.Candidate, d.Human, d.Machine, d.Kind())
		}
	}
}

func runAuditStability(cmd *cobra.Command) {
	cfg, lg := bootstrap()
	defer func() { _ = lg.Sync() }()

	ctx := context.Background()
	strategy := auditStrategy(cmd, cfg, lg)

	svc, fresh, cleanup := auditSetup(ctx, cfg, lg)
	defer cleanup()

	report, err := svc.Stability(ctx, auditTarget(cfg), strategy, fresh)
	if errors.Is(err, domain.ErrCollectionEmpty) {
		lg.Fatal("no profiles stored", zap.String("hint", "run 'cvlens ingest <dir>' first"))
	}
	if err != nil {
		lg.Fatal("stability audit failed", zap.Error(err))
	}

	printSample(report.Sampled)
	printMatrix(report.Matrix)

	fmt.Printf("Stability (test-retest agreement): %.2f%%\n", report.Stability())
	if len(report.Flips) == 0 {
		fmt.Println("All decisions reproduced identically.")
		return
	}
	fmt.Println("Decisions that changed between runs:")
	for _, f := range report.Flips {
		fmt.Printf("  %s changed to %s\n", f.Candidate, f.ChangedTo)
	}
}

// auditTarget is the fixed requisition audits are measured against.
// Keeping it in config means every audit run judges the same question.
func auditTarget(cfg config.Config) domain.CriteriaTarget {
	return domain.CriteriaTarget{
		Title:         cfg.Audit.TargetTitle,
		SkillsText:    cfg.Audit.TargetSkills,
		MinExperience: cfg.Audit.TargetExperience,
	}
}

func printSample(profiles []domain.Profile) {
	fmt.Printf("\nSample of %d candidates (seeded, reproducible):\n\n", len(profiles))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tCANDIDATE\tYEARS")
	for _, p := range profiles {
		fmt.Fprintf(w, "%s\t%s\t%d\n", p.ID, p.CandidateName, p.YearsExperience)
	}
	_ = w.Flush()
	fmt.Println()
}

func printMatrix(m domain.ConfusionMatrix) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tMACHINE 1\tMACHINE 0")
	fmt.Fprintf(w, "HUMAN 1\t%d\t%d\n", m.TP, m.FN)
	fmt.Fprintf(w, "HUMAN 0\t%d\t%d\n", m.FP, m.TN)
	_ = w.Flush()
	fmt.Println()
}
