package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/decision"
	"github.com/cvlens/cvlens/internal/domain"
	audituc "github.com/cvlens/cvlens/internal/usecase/audit"
)

var experimentCmd = &cobra.Command{
	Use:   "experiment",
	Short: "Replay all seven decision strategies over one sample",
	Long: `experiment evaluates the seeded sample once and shows, side by
side, which candidates each strategy would accept. Useful for picking a
strategy before committing to an audit.`,
	Run: func(_ *cobra.Command, _ []string) {
		runExperiment()
	},
}

func init() {
	rootCmd.AddCommand(experimentCmd)
}

func runExperiment() {
	cfg, lg := bootstrap()
	defer func() { _ = lg.Sync() }()

	ctx := context.Background()

	svc, _, cleanup := auditSetup(ctx, cfg, lg)
	defer cleanup()

	report, err := svc.Experiment(ctx, auditTarget(cfg))
	if errors.Is(err, domain.ErrCollectionEmpty) {
		lg.Fatal("no profiles stored", zap.String("hint", "run 'cvlens ingest <dir>' first"))
	}
	if err != nil {
		lg.Fatal("experiment failed", zap.Error(err))
	}

	printExperiment(report)
}

func printExperiment(report audituc.ExperimentReport) {
	fmt.Printf("\nStrategy comparison over %d sampled candidates:\n\n", len(report.Sampled))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprint(w, "CANDIDATE")
	for st := decision.TitleOnly; st <= decision.All; st++ {
		fmt.Fprintf(w, "\tC%d", int(st))
	}
	fmt.Fprintln(w)

	for i, p := range report.Sampled {
		fmt.Fprint(w, p.CandidateName)
		for st := decision.TitleOnly; st <= decision.All; st++ {
			fmt.Fprintf(w, "\t%s", mark(report.Decisions[st][i]))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprint(w, "ACCEPTED")
	for st := decision.TitleOnly; st <= decision.All; st++ {
		accepted := 0
		for _, ok := range report.Decisions[st] {
			if ok {
				accepted++
			}
		}
		fmt.Fprintf(w, "\t%d", accepted)
	}
	fmt.Fprintln(w)
	_ = w.Flush()

	fmt.Println()
	for st := decision.TitleOnly; st <= decision.All; st++ {
		fmt.Printf("  C%d = %s\n", int(st), st)
	}
	fmt.Println()
}

func mark(accepted bool) string {
	if accepted {
		return "yes"
	}
	return "-"
}
