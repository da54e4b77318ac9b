package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/textchunker/components/memory"
)

func TestEngine(t *testing.T) {
	ctx := context.Background()
	e := New()
	assert.False(t, e.HasCollection("docs"))

	require.NoError(t, e.Insert(ctx, "docs",
		memory.Record{ID: "1", Text: "first", Meta: map[string]string{"k": "v"}},
		memory.Record{ID: "2", Text: "second"},
	))
	require.NoError(t, e.Insert(ctx, "docs", memory.Record{ID: "1", Text: "replaced"}))
	assert.True(t, e.HasCollection("docs"))

	n, err := e.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records := e.Collection(ctx, "docs").Records()
	require.Len(t, records, 2)
	assert.Equal(t, "replaced", records[0].Text)
	assert.Equal(t, "second", records[1].Text)

	rec, err := e.Get(ctx, "docs", "2")
	require.NoError(t, err)
	rec.Text = "mutated"
	again, _ := e.Get(ctx, "docs", "2")
	assert.Equal(t, "second", again.Text)

	_, err = e.Get(ctx, "docs", "3")
	assert.ErrorIs(t, err, memory.ErrNotFound)

	e.DropCollection("docs")
	assert.False(t, e.HasCollection("docs"))
}

func TestReadsDoNotCreateCollections(t *testing.T) {
	ctx := context.Background()
	e := New()
	_, err := e.Get(ctx, "docs", "1")
	assert.ErrorIs(t, err, memory.ErrNotFound)
	n, err := e.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, e.HasCollection("docs"))
}

func TestInsertCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, New().Insert(ctx, "docs", memory.Record{Text: "x"}), context.Canceled)
}
