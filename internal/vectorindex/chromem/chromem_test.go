package chromem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-assistant/internal/vectorindex"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New("", "test_collection", true)
	require.NoError(t, err)
	require.NoError(t, s.EnsureCollection(context.Background(), 3))
	return s
}

func TestSearch_EmptyCollection(t *testing.T) {
	s := newTestStore(t)
	hits, err := s.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestUpsertAndSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Upsert(ctx, []vectorindex.Point{
		{ID: "p1", Vector: []float32{1, 0, 0}, Payload: vectorindex.Payload{Text: "first", Source: "a.txt"}},
		{ID: "p2", Vector: []float32{0, 1, 0}, Payload: vectorindex.Payload{Text: "second", Source: "b.txt"}},
	})
	require.NoError(t, err)

	hits, err := s.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "first", hits[0].Payload.Text)
	assert.Equal(t, "a.txt", hits[0].Payload.Source)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestSearch_KLargerThanCollection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Upsert(ctx, []vectorindex.Point{
		{ID: "p1", Vector: []float32{1, 0, 0}, Payload: vectorindex.Payload{Text: "only", Source: "a.txt"}},
	})
	require.NoError(t, err)

	hits, err := s.Search(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestUpsert_NoPointsIsNoop(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Upsert(context.Background(), nil))
}
