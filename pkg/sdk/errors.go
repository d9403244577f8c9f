package cvlens

import (
	"errors"

	"github.com/cvlens/cvlens/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrProfileNotFound = domain.ErrProfileNotFound
	ErrCollectionEmpty = domain.ErrCollectionEmpty
	ErrUnknownStrategy = domain.ErrUnknownStrategy
)

// ErrNoEmbedder is returned by Rank when the client was built without
// WithEmbedder.
var ErrNoEmbedder = errors.New("cvlens: embedder required (use WithEmbedder)")
