package chromem

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/philippgille/chromem-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/textchunker/components/memory"
)

// letterEmbedding is a deterministic stand-in for a model: one dimension per
// vowel, counting occurrences.
func letterEmbedding(calls *atomic.Int32) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		calls.Add(1)
		vec := make([]float32, 5)
		for i, v := range "aeiou" {
			vec[i] = float32(strings.Count(text, string(v))) + 1
		}
		return vec, nil
	}
}

func TestInsertAndGet(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	e := New(chromem.NewDB(), WithEmbeddingFunc(letterEmbedding(&calls)), WithConcurrency(2), WithBatchSize(2))

	records := []memory.Record{
		{ID: "a_0", Text: "alpha chunk", Meta: map[string]string{"chunk": "0"}},
		{ID: "a_1", Text: "beta chunk", Meta: map[string]string{"chunk": "1"}},
		{Text: "gamma chunk"},
		{ID: "pre", Text: "embedded", Embedding: []float32{1, 0, 0, 0, 0}},
	}
	require.NoError(t, e.Insert(ctx, "docs", records...))
	assert.EqualValues(t, 3, calls.Load())

	n, err := e.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	rec, err := e.Get(ctx, "docs", "a_1")
	require.NoError(t, err)
	assert.Equal(t, "beta chunk", rec.Text)
	assert.Equal(t, "1", rec.Meta["chunk"])
	assert.Len(t, rec.Embedding, 5)

	_, err = e.Get(ctx, "docs", memory.ContentID("gamma chunk"))
	assert.NoError(t, err)

	_, err = e.Get(ctx, "docs", "missing")
	assert.ErrorIs(t, err, memory.ErrNotFound)
	_, err = e.Get(ctx, "other", "a_0")
	assert.ErrorIs(t, err, memory.ErrNotFound)

	n, err = e.Count(ctx, "other")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInsertEmbeddingFailure(t *testing.T) {
	boom := errors.New("model offline")
	e := New(chromem.NewDB(), WithEmbeddingFunc(func(ctx context.Context, text string) ([]float32, error) {
		return nil, boom
	}))
	err := e.Insert(context.Background(), "docs", memory.Record{ID: "x", Text: "text"})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, e.Insert(context.Background(), "docs"))
}
