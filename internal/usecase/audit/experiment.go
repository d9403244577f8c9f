package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/decision"
	"github.com/cvlens/cvlens/internal/domain"
)

// ExperimentReport holds the boolean outcome of every strategy over the
// sampled profiles. Decisions[k][i] is strategy k's verdict on
// Sampled[i].
type ExperimentReport struct {
	Sampled   []domain.Profile
	Signals   []domain.MatchSignals
	Decisions map[decision.Strategy][]bool
}

// Experiment evaluates the seeded sample once and replays all seven
// strategies over the precomputed signals, showing side by side how each
// combination filters the same candidates.
func (s *Service) Experiment(ctx context.Context, target domain.CriteriaTarget) (ExperimentReport, error) {
	profiles, err := s.drawSample(ctx)
	if err != nil {
		return ExperimentReport{}, err
	}

	report := ExperimentReport{
		Sampled:   profiles,
		Signals:   make([]domain.MatchSignals, len(profiles)),
		Decisions: make(map[decision.Strategy][]bool, int(decision.All)),
	}

	for i, p := range profiles {
		sig, err := s.signals.Signals(ctx, target, p)
		if err != nil {
			return ExperimentReport{}, err
		}
		report.Signals[i] = sig
	}

	for st := decision.TitleOnly; st <= decision.All; st++ {
		verdicts := make([]bool, len(profiles))
		for i := range profiles {
			verdicts[i] = st.Decide(report.Signals[i])
		}
		report.Decisions[st] = verdicts
	}

	s.logger.Info("strategy experiment complete",
		zap.Int("sample", len(profiles)),
		zap.Int("strategies", int(decision.All)))
	return report, nil
}
