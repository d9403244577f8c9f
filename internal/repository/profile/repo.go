package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/db"
	"github.com/cvlens/cvlens/internal/domain"
)

// store is the consumer interface for profiles (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo persists candidate profiles and their document embeddings. Each
// profile lives in a hash at <prefix>profile:<id>; the embedding lives as
// packed float32 bytes at <prefix>vec:<id>.
type Repo struct {
	store  store
	prefix string
	logger *zap.Logger
}

// New creates a profile repository. prefix namespaces every key.
func New(s store, prefix string, logger *zap.Logger) *Repo {
	return &Repo{store: s, prefix: prefix, logger: logger}
}

func (r *Repo) profileKey(id string) string { return r.prefix + "profile:" + id }
func (r *Repo) vectorKey(id string) string  { return r.prefix + "vec:" + id }

// Upsert stores a profile and its embedding, overwriting any previous
// version of the same id in full.
func (r *Repo) Upsert(ctx context.Context, p domain.Profile, vector []float32) error {
	if err := r.store.HSet(ctx, r.profileKey(p.ID), buildHashFields(p)); err != nil {
		return fmt.Errorf("store profile %s: %w", p.ID, err)
	}
	if err := r.store.Set(ctx, r.vectorKey(p.ID), vectorToBytes(vector)); err != nil {
		return fmt.Errorf("store vector %s: %w", p.ID, err)
	}
	return nil
}

// Get returns one profile by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Profile, error) {
	m, err := r.store.HGetAll(ctx, r.profileKey(id))
	if err != nil {
		return domain.Profile{}, fmt.Errorf("load profile %s: %w", id, err)
	}
	// HGETALL on a missing key yields an empty map, not an error.
	if len(m) == 0 {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return parseHashFields(id, m, r.logger), nil
}

// GetMulti returns the profiles for the given ids, in input order. A
// missing id is an error: callers pass ids obtained from ListIDs.
func (r *Repo) GetMulti(ctx context.Context, ids []string) ([]domain.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.profileKey(id)
	}
	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	profiles := make([]domain.Profile, len(ids))
	for i, m := range maps {
		if len(m) == 0 {
			return nil, fmt.Errorf("profile %s: %w", ids[i], domain.ErrProfileNotFound)
		}
		profiles[i] = parseHashFields(ids[i], m, r.logger)
	}
	return profiles, nil
}

// Vector returns the stored document embedding for id.
func (r *Repo) Vector(ctx context.Context, id string) ([]float32, error) {
	data, err := r.store.Get(ctx, r.vectorKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("load vector %s: %w", id, err)
	}
	return bytesToVector(data), nil
}

// ListIDs returns every stored profile id in lexicographic order. The
// store's scan order is not stable across calls, so the sort here is what
// makes seeded sampling reproducible.
func (r *Repo) ListIDs(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, r.profileKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan profiles: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, r.profileKey("")))
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteAll removes every stored profile and vector. Used by the
// ingest --reset path to rebuild the corpus from scratch.
func (r *Repo) DeleteAll(ctx context.Context) (int, error) {
	ids, err := r.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := r.store.Del(ctx, r.profileKey(id)); err != nil {
			return 0, fmt.Errorf("delete profile %s: %w", id, err)
		}
		if err := r.store.Del(ctx, r.vectorKey(id)); err != nil {
			return 0, fmt.Errorf("delete vector %s: %w", id, err)
		}
	}
	return len(ids), nil
}
