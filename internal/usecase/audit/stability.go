package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/decision"
	"github.com/cvlens/cvlens/internal/domain"
)

// Flip records one candidate whose decision changed between the two runs
// of a stability audit.
type Flip struct {
	Candidate string
	ChangedTo string // "approved" or "rejected"
}

// StabilityReport is the outcome of a test-retest audit. Run 1 is the
// matrix reference, run 2 the candidate.
type StabilityReport struct {
	Sampled []domain.Profile
	Matrix  domain.ConfusionMatrix
	Flips   []Flip
}

// Stability returns the agreement percentage between the two runs.
func (r StabilityReport) Stability() float64 {
	total := r.Matrix.Total()
	if total == 0 {
		return 0
	}
	return float64(r.Matrix.TP+r.Matrix.TN) / float64(total) * 100
}

// Stability evaluates the seeded sample twice with no input change in
// between and tabulates agreement. Each run evaluates through its own
// evaluator from fresh; a shared cached evaluator would hand run 2 the
// vectors of run 1 and the audit would be perfect by construction.
// Anything under 100% means the embedding model is non-deterministic
// and every flip is reported as a defect.
func (s *Service) Stability(
	ctx context.Context, target domain.CriteriaTarget, strategy decision.Strategy, fresh SignalSourceFactory,
) (StabilityReport, error) {
	profiles, err := s.drawSample(ctx)
	if err != nil {
		return StabilityReport{}, err
	}

	run1, err := decideAll(ctx, fresh(), target, strategy, profiles)
	if err != nil {
		return StabilityReport{}, err
	}
	run2, err := decideAll(ctx, fresh(), target, strategy, profiles)
	if err != nil {
		return StabilityReport{}, err
	}

	report := StabilityReport{Sampled: profiles}
	for i, p := range profiles {
		report.Matrix.Add(run1[i], run2[i])
		switch {
		case run1[i] == 0 && run2[i] == 1:
			report.Flips = append(report.Flips, Flip{Candidate: p.CandidateName, ChangedTo: "approved"})
		case run1[i] == 1 && run2[i] == 0:
			report.Flips = append(report.Flips, Flip{Candidate: p.CandidateName, ChangedTo: "rejected"})
		}
	}

	if len(report.Flips) > 0 {
		s.logger.Error("stability audit found non-deterministic decisions",
			zap.String("strategy", strategy.String()),
			zap.Int("flips", len(report.Flips)),
			zap.Float64("stability_pct", report.Stability()))
	} else {
		s.logger.Info("stability audit complete",
			zap.String("strategy", strategy.String()),
			zap.Int("sample", len(profiles)),
			zap.Float64("stability_pct", report.Stability()))
	}
	return report, nil
}

func decideAll(
	ctx context.Context, signals SignalSource, target domain.CriteriaTarget, strategy decision.Strategy, profiles []domain.Profile,
) ([]int, error) {
	out := make([]int, len(profiles))
	for i, p := range profiles {
		sig, err := signals.Signals(ctx, target, p)
		if err != nil {
			return nil, err
		}
		if strategy.Decide(sig) {
			out[i] = 1
		}
	}
	return out, nil
}
