package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/decision"
	"github.com/cvlens/cvlens/internal/domain"
	"github.com/cvlens/cvlens/internal/logger"
	searchuc "github.com/cvlens/cvlens/internal/usecase/search"
)

const promptExit = "Exit"

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Interactively rank stored candidates against hiring criteria",
	Run: func(_ *cobra.Command, _ []string) {
		runSearch()
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch() {
	cfg, lg := bootstrap()
	defer func() { _ = lg.Sync() }()

	ctx := context.Background()

	store := connectStore(ctx, cfg, lg)
	defer store.Close()

	chain, err := buildEmbedder(cfg, store, lg)
	if err != nil {
		lg.Fatal("creating embedder", zap.Error(err))
	}
	defer chain.Cleanup()

	signals := buildSignalSource(chain, cfg.Search.Threshold)
	svc := searchuc.New(buildProfileRepo(cfg, store, lg), signals, lg)

	strategyPrompt := promptui.Select{
		Label: "Decision strategy",
		Items: []string{
			promptExit,
			"1) " + decision.TitleOnly.String(),
			"2) " + decision.SkillsOnly.String(),
			"3) " + decision.ExperienceOnly.String(),
			"4) " + decision.TitleAndSkills.String(),
			"5) " + decision.TitleAndExperience.String(),
			"6) " + decision.SkillsAndExperience.String(),
			"7) " + decision.All.String(),
		},
	}

	for {
		idx, _, err := strategyPrompt.Run()
		if err != nil {
			lg.Fatal("reading strategy", zap.Error(err))
		}
		if idx == 0 {
			lg.Info("exiting", zap.String("reason", "exit requested"))
			return
		}
		strategy, err := decision.Parse(idx)
		if err != nil {
			lg.Fatal("invalid strategy", zap.Error(err))
		}

		target, err := promptTarget()
		if err != nil {
			lg.Fatal("reading criteria", zap.Error(err))
		}

		result, err := svc.Rank(ctx, target, strategy, cfg.Search.TopN)
		if errors.Is(err, domain.ErrCollectionEmpty) {
			lg.Fatal("no profiles stored", zap.String("hint", "run 'cvlens ingest <dir>' first"))
		}
		if err != nil {
			lg.Fatal("ranking failed", zap.Error(err))
		}

		printRanking(result, strategy, signals.Threshold())
	}
}

func promptTarget() (domain.CriteriaTarget, error) {
	titlePrompt := promptui.Prompt{Label: "Target title"}
	title, err := titlePrompt.Run()
	if err != nil {
		return domain.CriteriaTarget{}, err
	}

	skillsPrompt := promptui.Prompt{Label: "Required skills (comma separated)"}
	skills, err := skillsPrompt.Run()
	if err != nil {
		return domain.CriteriaTarget{}, err
	}

	expPrompt := promptui.Prompt{
		Label:   "Minimum years of experience",
		Default: "0",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return nil
			}
			if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
				return errors.New("enter a whole number")
			}
			return nil
		},
	}
	expStr, err := expPrompt.Run()
	if err != nil {
		return domain.CriteriaTarget{}, err
	}
	minExp, _ := strconv.Atoi(strings.TrimSpace(expStr))

	return domain.CriteriaTarget{
		Title:         strings.TrimSpace(title),
		SkillsText:    strings.TrimSpace(skills),
		MinExperience: minExp,
	}, nil
}

func printRanking(result searchuc.Result, strategy decision.Strategy, threshold float64) {
	fmt.Printf("\nTop %d of %d candidates (strategy: %s, threshold: %.2f)\n\n",
		len(result.Top), result.Evaluated, strategy, threshold)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tCANDIDATE\tMATCH\tBREAKDOWN\tYEARS\tSKILLS")
	for i, rc := range result.Top {
		fmt.Fprintf(w, "%d\t%s\t%.0f%%\t%s\t%d\t%s\n",
			i+1,
			rc.Profile.CandidateName,
			rc.Score*100,
			rc.Breakdown,
			rc.Profile.YearsExperience,
			logger.TruncateForLog(rc.Profile.Skills, 40),
		)
	}
	_ = w.Flush()
	fmt.Println()
}
