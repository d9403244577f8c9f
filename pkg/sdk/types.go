package cvlens

import (
	"github.com/cvlens/cvlens/internal/domain"
	searchuc "github.com/cvlens/cvlens/internal/usecase/search"
)

// Profile is a stored candidate profile.
type Profile struct {
	ID              string
	CandidateName   string
	Titles          string
	Skills          string
	YearsExperience int
	Filename        string
}

// Target is the job requisition candidates are ranked against.
type Target struct {
	Title         string
	Skills        string
	MinExperience int
}

// RankedCandidate is one row of a ranking result. Score is in [0,1];
// Breakdown shows its per-signal composition, e.g. "Avg(T:0.55, S:0.62)".
type RankedCandidate struct {
	Profile   Profile
	Score     float64
	Breakdown string
}

// Ranking holds the top candidates plus the size of the evaluated corpus.
type Ranking struct {
	Top       []RankedCandidate
	Evaluated int
}

func profileFromDomain(p domain.Profile) Profile {
	return Profile{
		ID:              p.ID,
		CandidateName:   p.CandidateName,
		Titles:          p.Titles,
		Skills:          p.Skills,
		YearsExperience: p.YearsExperience,
		Filename:        p.Filename,
	}
}

func rankingFromResult(r searchuc.Result) Ranking {
	top := make([]RankedCandidate, len(r.Top))
	for i, rc := range r.Top {
		top[i] = RankedCandidate{
			Profile:   profileFromDomain(rc.Profile),
			Score:     rc.Score,
			Breakdown: rc.Breakdown,
		}
	}
	return Ranking{Top: top, Evaluated: r.Evaluated}
}
