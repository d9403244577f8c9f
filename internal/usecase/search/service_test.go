package search

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/decision"
	"github.com/cvlens/cvlens/internal/domain"
)

type mockRepo struct {
	ids      []string
	profiles map[string]domain.Profile
	listErr  error
}

func (m *mockRepo) ListIDs(_ context.Context) ([]string, error) {
	return m.ids, m.listErr
}

func (m *mockRepo) GetMulti(_ context.Context, ids []string) ([]domain.Profile, error) {
	out := make([]domain.Profile, len(ids))
	for i, id := range ids {
		out[i] = m.profiles[id]
	}
	return out, nil
}

// mockSignals scores titles by a fixed per-profile table.
type mockSignals struct {
	scores map[string]float64
	err    error
}

func (m *mockSignals) Signals(_ context.Context, target domain.CriteriaTarget, p domain.Profile) (domain.MatchSignals, error) {
	if m.err != nil {
		return domain.MatchSignals{}, m.err
	}
	score := m.scores[p.ID]
	return domain.MatchSignals{
		TitleMatch:      score >= 0.3,
		TitleScore:      score,
		ExperienceMatch: p.YearsExperience >= target.MinExperience,
	}, nil
}

func TestRank_EmptyCorpus(t *testing.T) {
	svc := New(&mockRepo{}, &mockSignals{}, zap.NewNop())
	_, err := svc.Rank(context.Background(), domain.CriteriaTarget{}, decision.TitleOnly, 10)
	if !errors.Is(err, domain.ErrCollectionEmpty) {
		t.Fatalf("expected ErrCollectionEmpty, got %v", err)
	}
}

func TestRank_OrdersByScoreDescending(t *testing.T) {
	repo := &mockRepo{
		ids: []string{"a.pdf", "b.pdf", "c.pdf"},
		profiles: map[string]domain.Profile{
			"a.pdf": {ID: "a.pdf"},
			"b.pdf": {ID: "b.pdf"},
			"c.pdf": {ID: "c.pdf"},
		},
	}
	sig := &mockSignals{scores: map[string]float64{"a.pdf": 0.2, "b.pdf": 0.9, "c.pdf": 0.5}}

	svc := New(repo, sig, zap.NewNop())
	res, err := svc.Rank(context.Background(), domain.CriteriaTarget{}, decision.TitleOnly, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Evaluated != 3 {
		t.Errorf("expected 3 evaluated, got %d", res.Evaluated)
	}
	got := []string{res.Top[0].Profile.ID, res.Top[1].Profile.ID, res.Top[2].Profile.ID}
	want := []string{"b.pdf", "c.pdf", "a.pdf"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: %v", got)
		}
	}
}

func TestRank_TiesKeepIDOrder(t *testing.T) {
	repo := &mockRepo{
		ids: []string{"a.pdf", "b.pdf", "c.pdf"},
		profiles: map[string]domain.Profile{
			"a.pdf": {ID: "a.pdf"},
			"b.pdf": {ID: "b.pdf"},
			"c.pdf": {ID: "c.pdf"},
		},
	}
	sig := &mockSignals{scores: map[string]float64{"a.pdf": 0.5, "b.pdf": 0.5, "c.pdf": 0.5}}

	svc := New(repo, sig, zap.NewNop())
	res, err := svc.Rank(context.Background(), domain.CriteriaTarget{}, decision.TitleOnly, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Top[0].Profile.ID != "a.pdf" || res.Top[2].Profile.ID != "c.pdf" {
		t.Errorf("stable order broken: %+v", res.Top)
	}
}

func TestRank_TruncatesToTopN(t *testing.T) {
	ids := []string{"a.pdf", "b.pdf", "c.pdf"}
	profiles := map[string]domain.Profile{}
	for _, id := range ids {
		profiles[id] = domain.Profile{ID: id}
	}
	svc := New(&mockRepo{ids: ids, profiles: profiles},
		&mockSignals{scores: map[string]float64{}}, zap.NewNop())

	res, err := svc.Rank(context.Background(), domain.CriteriaTarget{}, decision.TitleOnly, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Top) != 2 || res.Evaluated != 3 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestRank_SignalErrorAborts(t *testing.T) {
	repo := &mockRepo{ids: []string{"a.pdf"}, profiles: map[string]domain.Profile{"a.pdf": {ID: "a.pdf"}}}
	svc := New(repo, &mockSignals{err: errors.New("embedding down")}, zap.NewNop())

	_, err := svc.Rank(context.Background(), domain.CriteriaTarget{}, decision.TitleOnly, 10)
	if err == nil {
		t.Fatal("expected error")
	}
}
