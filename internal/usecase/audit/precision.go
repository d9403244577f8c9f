package audit

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/decision"
	"github.com/cvlens/cvlens/internal/domain"
)

// Disagreement records one human/machine mismatch in a precision audit.
type Disagreement struct {
	Candidate string
	Human     int
	Machine   int
}

// Kind names the error class: a machine yes against a human no is an
// optimistic false positive, the reverse a strict false negative.
func (d Disagreement) Kind() string {
	if d.Machine == 1 {
		return "false positive (machine optimistic)"
	}
	return "false negative (machine strict)"
}

// PrecisionReport is the outcome of one precision audit. When no ground
// truth was available, TemplateGenerated is set and the rest is empty.
type PrecisionReport struct {
	Sampled           []domain.Profile
	TemplateGenerated bool
	TemplatePath      string
	Labeled           int
	Matrix            domain.ConfusionMatrix
	Disagreements     []Disagreement
}

// Precision compares the machine decision under the given strategy
// against the human labels over the seeded sample. A missing or empty
// ground-truth file generates a zero-filled labeling template instead of
// evaluating.
func (s *Service) Precision(
	ctx context.Context, target domain.CriteriaTarget, strategy decision.Strategy,
) (PrecisionReport, error) {
	profiles, err := s.drawSample(ctx)
	if err != nil {
		return PrecisionReport{}, err
	}

	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}

	labels, err := s.gt.Load(ids)
	if errors.Is(err, domain.ErrGroundTruthMissing) {
		if werr := s.gt.WriteTemplate(profiles); werr != nil {
			return PrecisionReport{}, fmt.Errorf("generate labeling template: %w", werr)
		}
		s.logger.Info("no ground truth file, labeling template generated",
			zap.String("path", s.gt.Path()),
			zap.Int("rows", len(profiles)))
		return PrecisionReport{
			Sampled:           profiles,
			TemplateGenerated: true,
			TemplatePath:      s.gt.Path(),
		}, nil
	}
	if err != nil {
		return PrecisionReport{}, err
	}
	// An existing file that labels none of the sampled ids is a coverage
	// problem, not a missing file. It must never be overwritten.
	if len(labels) == 0 {
		s.logger.Warn("ground truth labels none of the sampled ids, nothing to evaluate",
			zap.String("path", s.gt.Path()),
			zap.Int("sample", len(profiles)))
		return PrecisionReport{Sampled: profiles}, nil
	}

	report := PrecisionReport{Sampled: profiles, Labeled: len(labels)}
	for _, p := range profiles {
		human, ok := labels[p.ID]
		if !ok {
			continue
		}

		sig, err := s.signals.Signals(ctx, target, p)
		if err != nil {
			return PrecisionReport{}, err
		}
		machine := 0
		if strategy.Decide(sig) {
			machine = 1
		}

		report.Matrix.Add(human, machine)
		if human != machine {
			report.Disagreements = append(report.Disagreements, Disagreement{
				Candidate: p.CandidateName,
				Human:     human,
				Machine:   machine,
			})
		}
	}

	s.logger.Info("precision audit complete",
		zap.String("strategy", strategy.String()),
		zap.Int("evaluated", report.Matrix.Total()),
		zap.Float64("accuracy", report.Matrix.Accuracy()),
		zap.Float64("precision", report.Matrix.Precision()),
		zap.Float64("recall", report.Matrix.Recall()))
	return report, nil
}
