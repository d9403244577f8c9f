package decision

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvlens/cvlens/internal/domain"
)

func signals(t, s, e bool) domain.MatchSignals {
	return domain.MatchSignals{TitleMatch: t, SkillsMatch: s, ExperienceMatch: e}
}

func TestParse(t *testing.T) {
	for id := 1; id <= 7; id++ {
		st, err := Parse(id)
		require.NoError(t, err)
		assert.Equal(t, Strategy(id), st)
	}
	for _, id := range []int{0, 8, -1, 42} {
		_, err := Parse(id)
		assert.True(t, errors.Is(err, domain.ErrUnknownStrategy), "id %d", id)
	}
}

func TestDecide_SingleCriteriaMatchBooleansExactly(t *testing.T) {
	// Cases 1-3 must equal the corresponding signal regardless of the rest.
	for _, tm := range []bool{false, true} {
		for _, sm := range []bool{false, true} {
			for _, em := range []bool{false, true} {
				sig := signals(tm, sm, em)
				assert.Equal(t, tm, TitleOnly.Decide(sig))
				assert.Equal(t, sm, SkillsOnly.Decide(sig))
				assert.Equal(t, em, ExperienceOnly.Decide(sig))
			}
		}
	}
}

func TestDecide_AllIsConjunctionOfSingles(t *testing.T) {
	for _, tm := range []bool{false, true} {
		for _, sm := range []bool{false, true} {
			for _, em := range []bool{false, true} {
				sig := signals(tm, sm, em)
				want := TitleOnly.Decide(sig) && SkillsOnly.Decide(sig) && ExperienceOnly.Decide(sig)
				assert.Equal(t, want, All.Decide(sig))
			}
		}
	}
}

func TestDecide_Pairs(t *testing.T) {
	sig := signals(true, false, true)
	assert.False(t, TitleAndSkills.Decide(sig))
	assert.True(t, TitleAndExperience.Decide(sig))
	assert.False(t, SkillsAndExperience.Decide(sig))
}

func TestDecide_FullPipelineScenario(t *testing.T) {
	// Target title "Software Engineer Developer", skills "Python, SQL,
	// Leadership", min experience 3, threshold 0.30; candidate scored
	// title=0.55, skills=0.62, 5 years.
	sig := domain.MatchSignals{
		TitleMatch:      true,
		SkillsMatch:     true,
		ExperienceMatch: true,
		TitleScore:      0.55,
		SkillsScore:     0.62,
	}
	assert.True(t, All.Decide(sig))

	// Same target under case 1 with a title score below threshold rejects
	// no matter how strong the rest looks.
	weak := domain.MatchSignals{
		TitleMatch:      false,
		SkillsMatch:     true,
		ExperienceMatch: true,
		TitleScore:      0.10,
		SkillsScore:     0.90,
	}
	assert.False(t, TitleOnly.Decide(weak))
}

func TestScore_MeanOfSelectedSignals(t *testing.T) {
	sig := domain.MatchSignals{
		TitleScore:      0.6,
		SkillsScore:     0.3,
		ExperienceMatch: true,
	}

	assert.InDelta(t, 0.6, TitleOnly.Score(sig), 1e-9)
	assert.InDelta(t, 0.3, SkillsOnly.Score(sig), 1e-9)
	assert.InDelta(t, 1.0, ExperienceOnly.Score(sig), 1e-9)
	assert.InDelta(t, 0.45, TitleAndSkills.Score(sig), 1e-9)
	assert.InDelta(t, 0.8, TitleAndExperience.Score(sig), 1e-9)
	assert.InDelta(t, 0.65, SkillsAndExperience.Score(sig), 1e-9)
	assert.InDelta(t, (0.6+0.3+1.0)/3, All.Score(sig), 1e-9)

	sig.ExperienceMatch = false
	assert.InDelta(t, 0.0, ExperienceOnly.Score(sig), 1e-9)
}

func TestBreakdown(t *testing.T) {
	sig := domain.MatchSignals{
		TitleScore:      0.55,
		SkillsScore:     0.62,
		ExperienceMatch: true,
	}

	assert.Equal(t, "T(0.55)", TitleOnly.Breakdown(sig))
	assert.Equal(t, "S(0.62)", SkillsOnly.Breakdown(sig))
	assert.Equal(t, "E(1)", ExperienceOnly.Breakdown(sig))
	assert.Equal(t, "Avg(T:0.55, S:0.62)", TitleAndSkills.Breakdown(sig))
	assert.Equal(t, "Avg(T:0.55, S:0.62, E:1)", All.Breakdown(sig))
}

func TestString(t *testing.T) {
	assert.Equal(t, "title", TitleOnly.String())
	assert.Equal(t, "title+skills+experience", All.String())
}
