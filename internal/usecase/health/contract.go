package health

import "context"

// StorePinger checks that the profile store answers.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// CorpusReader lists the ingested resume ids. Only the count is
// reported.
type CorpusReader interface {
	ListIDs(ctx context.Context) ([]string, error)
}

// EmbeddingChecker checks that the embedding provider answers.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
