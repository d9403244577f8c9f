package decision

import (
	"fmt"
	"strings"

	"github.com/cvlens/cvlens/internal/domain"
)

// Strategy selects which match signals decide acceptance. The seven
// variants cover every single criterion and conjunction of title, skills
// and experience.
type Strategy int

const (
	TitleOnly Strategy = iota + 1
	SkillsOnly
	ExperienceOnly
	TitleAndSkills
	TitleAndExperience
	SkillsAndExperience
	All
)

// Parse validates an integer case id. Unknown ids are a configuration
// error, never a silent default.
func Parse(id int) (Strategy, error) {
	if id < int(TitleOnly) || id > int(All) {
		return 0, fmt.Errorf("%w: case %d", domain.ErrUnknownStrategy, id)
	}
	return Strategy(id), nil
}

func (s Strategy) String() string {
	switch s {
	case TitleOnly:
		return "title"
	case SkillsOnly:
		return "skills"
	case ExperienceOnly:
		return "experience"
	case TitleAndSkills:
		return "title+skills"
	case TitleAndExperience:
		return "title+experience"
	case SkillsAndExperience:
		return "skills+experience"
	case All:
		return "title+skills+experience"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// usesTitle reports whether the strategy consumes the title signal.
func (s Strategy) usesTitle() bool {
	return s == TitleOnly || s == TitleAndSkills || s == TitleAndExperience || s == All
}

func (s Strategy) usesSkills() bool {
	return s == SkillsOnly || s == TitleAndSkills || s == SkillsAndExperience || s == All
}

func (s Strategy) usesExperience() bool {
	return s == ExperienceOnly || s == TitleAndExperience || s == SkillsAndExperience || s == All
}

// Decide returns the accept/reject outcome: the conjunction of every
// boolean signal the strategy selects.
func (s Strategy) Decide(sig domain.MatchSignals) bool {
	if s.usesTitle() && !sig.TitleMatch {
		return false
	}
	if s.usesSkills() && !sig.SkillsMatch {
		return false
	}
	if s.usesExperience() && !sig.ExperienceMatch {
		return false
	}
	return true
}

// Score returns the ranking-mode score: the arithmetic mean of the
// selected continuous signals, with the experience boolean contributing
// 0 or 1.
func (s Strategy) Score(sig domain.MatchSignals) float64 {
	var sum float64
	var n int
	if s.usesTitle() {
		sum += sig.TitleScore
		n++
	}
	if s.usesSkills() {
		sum += sig.SkillsScore
		n++
	}
	if s.usesExperience() {
		sum += experienceScore(sig)
		n++
	}
	return sum / float64(n)
}

// Breakdown renders the per-signal composition of the ranking score, e.g.
// "T(0.55)" for a single criterion or "Avg(T:0.55, S:0.62, E:1)" for a
// conjunction.
func (s Strategy) Breakdown(sig domain.MatchSignals) string {
	var parts []string
	if s.usesTitle() {
		parts = append(parts, fmt.Sprintf("T:%.2f", sig.TitleScore))
	}
	if s.usesSkills() {
		parts = append(parts, fmt.Sprintf("S:%.2f", sig.SkillsScore))
	}
	if s.usesExperience() {
		parts = append(parts, fmt.Sprintf("E:%.0f", experienceScore(sig)))
	}
	if len(parts) == 1 {
		// "T:0.55" -> "T(0.55)"
		k, v, _ := strings.Cut(parts[0], ":")
		return fmt.Sprintf("%s(%s)", k, v)
	}
	return fmt.Sprintf("Avg(%s)", strings.Join(parts, ", "))
}

func experienceScore(sig domain.MatchSignals) float64 {
	if sig.ExperienceMatch {
		return 1
	}
	return 0
}
