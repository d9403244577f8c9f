package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/decision"
	"github.com/cvlens/cvlens/internal/domain"
	"github.com/cvlens/cvlens/internal/metrics"
	healthuc "github.com/cvlens/cvlens/internal/usecase/health"
	searchuc "github.com/cvlens/cvlens/internal/usecase/search"
)

func TestMain(m *testing.M) {
	metrics.Register()
	metrics.RegisterHTTP()
	m.Run()
}

type mockProfiles struct {
	ids      []string
	profiles map[string]domain.Profile
}

func (m *mockProfiles) ListIDs(_ context.Context) ([]string, error) {
	return m.ids, nil
}

func (m *mockProfiles) Get(_ context.Context, id string) (domain.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return p, nil
}

type mockRanker struct {
	result searchuc.Result
	err    error
	target domain.CriteriaTarget
	topN   int
	strat  decision.Strategy
	called int
}

func (m *mockRanker) Rank(
	_ context.Context, target domain.CriteriaTarget, strategy decision.Strategy, topN int,
) (searchuc.Result, error) {
	m.called++
	m.target = target
	m.strat = strategy
	m.topN = topN
	return m.result, m.err
}

type okPinger struct{}

func (okPinger) Ping(_ context.Context) error { return nil }

type failPinger struct{}

func (failPinger) Ping(_ context.Context) error { return errors.New("connection refused") }

func newTestRouter(profiles *mockProfiles, ranker *mockRanker, store healthuc.StorePinger) http.Handler {
	srv := NewServer(profiles, ranker, healthuc.New(store, nil, nil), zap.NewNop())
	return srv.Router(nil)
}

func TestHealthCheck_OK(t *testing.T) {
	router := newTestRouter(&mockProfiles{}, &mockRanker{}, okPinger{})

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestHealthCheck_ReportsCorpusSize(t *testing.T) {
	profiles := &mockProfiles{ids: []string{"a.pdf", "b.pdf"}}
	srv := NewServer(profiles, &mockRanker{}, healthuc.New(okPinger{}, profiles, nil), zap.NewNop())

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	srv.Router(nil).ServeHTTP(rr, req)

	var resp struct {
		Status   string `json:"status"`
		Profiles int    `json:"profiles"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Profiles != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHealthCheck_DegradedIs503(t *testing.T) {
	router := newTestRouter(&mockProfiles{}, &mockRanker{}, failPinger{})

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestListProfiles(t *testing.T) {
	profiles := &mockProfiles{ids: []string{"a.pdf", "b.pdf"}}
	router := newTestRouter(profiles, &mockRanker{}, okPinger{})

	req := httptest.NewRequest("GET", "/api/v1/profiles", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp struct {
		IDs   []string `json:"ids"`
		Total int      `json:"total"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 2 || len(resp.IDs) != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestGetProfile(t *testing.T) {
	profiles := &mockProfiles{profiles: map[string]domain.Profile{
		"cv.pdf": {ID: "cv.pdf", CandidateName: "Maria Gomez", YearsExperience: 5},
	}}
	router := newTestRouter(profiles, &mockRanker{}, okPinger{})

	req := httptest.NewRequest("GET", "/api/v1/profiles/cv.pdf", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp profileResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.CandidateName != "Maria Gomez" || resp.YearsExperience != 5 {
		t.Errorf("unexpected profile: %+v", resp)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	router := newTestRouter(&mockProfiles{}, &mockRanker{}, okPinger{})

	req := httptest.NewRequest("GET", "/api/v1/profiles/nope.pdf", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusNotFound)
	}

	var errResp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp["code"] != "profile_not_found" {
		t.Errorf("error code: got %s, want profile_not_found", errResp["code"])
	}
}

func TestSearch(t *testing.T) {
	ranker := &mockRanker{result: searchuc.Result{
		Top: []searchuc.RankedCandidate{
			{
				Profile:   domain.Profile{ID: "a.pdf", CandidateName: "Ana Lima"},
				Score:     0.72,
				Breakdown: "Avg(T:0.80, S:0.64)",
			},
		},
		Evaluated: 4,
	}}
	router := newTestRouter(&mockProfiles{}, ranker, okPinger{})

	body := `{"title":"ingeniero de software","skills":"python, sql","min_experience":3,"strategy":4}`
	req := httptest.NewRequest("POST", "/api/v1/search", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	if ranker.strat != decision.TitleAndSkills {
		t.Errorf("strategy: got %v, want %v", ranker.strat, decision.TitleAndSkills)
	}
	if ranker.topN != defaultTopN {
		t.Errorf("topN default: got %d, want %d", ranker.topN, defaultTopN)
	}
	if ranker.target.Title != "ingeniero de software" || ranker.target.MinExperience != 3 {
		t.Errorf("unexpected target: %+v", ranker.target)
	}
	if ranker.target.SkillsText != "python, sql" {
		t.Errorf("skills text: got %q, want %q", ranker.target.SkillsText, "python, sql")
	}

	var resp struct {
		Items     []rankedResponse `json:"items"`
		Evaluated int              `json:"evaluated"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Breakdown != "Avg(T:0.80, S:0.64)" {
		t.Errorf("unexpected items: %+v", resp.Items)
	}
	if resp.Evaluated != 4 {
		t.Errorf("evaluated: got %d, want 4", resp.Evaluated)
	}
}

func TestSearch_UnknownStrategy(t *testing.T) {
	router := newTestRouter(&mockProfiles{}, &mockRanker{}, okPinger{})

	req := httptest.NewRequest("POST", "/api/v1/search", strings.NewReader(`{"strategy":9}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSearch_EmptyCorpusIs409(t *testing.T) {
	ranker := &mockRanker{err: domain.ErrCollectionEmpty}
	router := newTestRouter(&mockProfiles{}, ranker, okPinger{})

	req := httptest.NewRequest("POST", "/api/v1/search", strings.NewReader(`{"strategy":7}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestSearch_InvalidBody(t *testing.T) {
	router := newTestRouter(&mockProfiles{}, &mockRanker{}, okPinger{})

	req := httptest.NewRequest("POST", "/api/v1/search", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
