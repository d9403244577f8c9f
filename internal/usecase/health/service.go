package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates the component checks. Profiles is the number of
// ingested resumes, 0 whenever the store check fails.
type Report struct {
	Status   Status
	Checks   map[string]CheckResult
	Profiles int
}

// Service checks the profile store and the embedding provider.
type Service struct {
	store     StorePinger
	corpus    CorpusReader
	embedding EmbeddingChecker
}

// New creates a Service. corpus and embedding can be nil; a local
// embedding provider has nothing to probe.
func New(store StorePinger, corpus CorpusReader, embedding EmbeddingChecker) *Service {
	return &Service{store: store, corpus: corpus, embedding: embedding}
}

// Check runs the component checks. The corpus count rides on a healthy
// store; a count failure degrades the store check since both hit the
// same backend.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	profiles := 0

	if err := s.store.Ping(ctx); err != nil {
		checks["profile_store"] = CheckError
	} else {
		checks["profile_store"] = CheckOK
		if s.corpus != nil {
			ids, err := s.corpus.ListIDs(ctx)
			if err != nil {
				checks["profile_store"] = CheckError
			} else {
				profiles = len(ids)
			}
		}
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding_provider"] = CheckError
		} else {
			checks["embedding_provider"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks, Profiles: profiles}
}
