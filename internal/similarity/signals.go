package similarity

import (
	"context"
	"fmt"

	"github.com/cvlens/cvlens/internal/domain"
)

// SignalEvaluator derives the per-criterion match signals of a profile
// against a target. Title and skills go through embedding similarity
// under one fixed threshold; experience is a plain integer comparison.
type SignalEvaluator struct {
	eval      *Evaluator
	threshold float64
}

func NewSignalEvaluator(eval *Evaluator, threshold float64) *SignalEvaluator {
	return &SignalEvaluator{eval: eval, threshold: threshold}
}

// Threshold returns the configured similarity threshold.
func (se *SignalEvaluator) Threshold() float64 { return se.threshold }

// Signals evaluates one profile against the target.
func (se *SignalEvaluator) Signals(ctx context.Context, target domain.CriteriaTarget, p domain.Profile) (domain.MatchSignals, error) {
	titleMatch, titleScore, err := se.eval.Matches(ctx, target.Title, p.Titles, se.threshold)
	if err != nil {
		return domain.MatchSignals{}, fmt.Errorf("evaluate title for %s: %w", p.ID, err)
	}
	skillsMatch, skillsScore, err := se.eval.Matches(ctx, target.SkillsText, p.Skills, se.threshold)
	if err != nil {
		return domain.MatchSignals{}, fmt.Errorf("evaluate skills for %s: %w", p.ID, err)
	}

	return domain.MatchSignals{
		TitleMatch:      titleMatch,
		SkillsMatch:     skillsMatch,
		ExperienceMatch: p.YearsExperience >= target.MinExperience,
		TitleScore:      titleScore,
		SkillsScore:     skillsScore,
	}, nil
}
