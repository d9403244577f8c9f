package similarity

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvlens/cvlens/internal/domain"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	f.calls++
	if f.err != nil {
		return domain.EmbeddingResult{}, f.err
	}
	return domain.EmbeddingResult{Embedding: f.vectors[text]}, nil
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1, 2}, []float32{1}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestScore_EmptyCandidateSkipsEmbedding(t *testing.T) {
	f := &fakeEmbedder{}
	e := NewEvaluator(f)

	for _, candidate := range []string{"", "   ", "\n\t"} {
		score, err := e.Score(context.Background(), "engineer", candidate)
		require.NoError(t, err)
		assert.Zero(t, score)
	}
	assert.Zero(t, f.calls)
}

func TestMatches_Threshold(t *testing.T) {
	f := &fakeEmbedder{vectors: map[string][]float32{
		"engineer":  {1, 0},
		"developer": {1, 1},
	}}
	e := NewEvaluator(f)

	expected := 1 / math.Sqrt2

	ok, score, err := e.Matches(context.Background(), "engineer", "developer", 0.30)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, expected, score, 1e-9)

	ok, _, err = e.Matches(context.Background(), "engineer", "developer", 0.80)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScore_EmbedderError(t *testing.T) {
	e := NewEvaluator(&fakeEmbedder{err: errors.New("provider down")})

	_, err := e.Score(context.Background(), "engineer", "developer")
	assert.Error(t, err)
}

func TestMemo_SingleCallPerText(t *testing.T) {
	f := &fakeEmbedder{vectors: map[string][]float32{"engineer": {1, 0}}}
	m := NewMemo(f)

	for i := 0; i < 5; i++ {
		res, err := m.Embed(context.Background(), "engineer")
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 0}, res.Embedding)
	}
	assert.Equal(t, 1, f.calls)
}

func TestMemo_ErrorsNotCached(t *testing.T) {
	f := &fakeEmbedder{err: errors.New("transient")}
	m := NewMemo(f)

	_, err := m.Embed(context.Background(), "engineer")
	require.Error(t, err)

	f.err = nil
	f.vectors = map[string][]float32{"engineer": {1}}
	res, err := m.Embed(context.Background(), "engineer")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, res.Embedding)
	assert.Equal(t, 2, f.calls)
}
