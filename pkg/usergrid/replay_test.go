package usergrid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayClientReturnsStubbedPage(t *testing.T) {
	t.Parallel()

	replay := NewReplayClient()
	want := &Page{Entities: entitiesNamed("t-1"), Cursor: "c1"}
	replay.Stub("things", NewQuery().WithLimit(10), want)

	page, err := replay.GetEntities(context.Background(), "things", NewQuery().WithLimit(10))
	require.NoError(t, err)
	assert.Equal(t, want, page)
}

func TestReplayClientKeysOnFullRequestShape(t *testing.T) {
	t.Parallel()

	replay := NewReplayClient()
	replay.Stub("things", NewQuery().WithLimit(10), &Page{Entities: entitiesNamed("t-1")})

	// Same endpoint, different shape: behaves like a missing resource.
	page, err := replay.GetEntities(context.Background(), "things", NewQuery().WithLimit(20))
	require.NoError(t, err)
	assert.Empty(t, page.Entities)
	assert.Empty(t, page.Cursor)

	page, err = replay.GetEntities(context.Background(), "other", NewQuery().WithLimit(10))
	require.NoError(t, err)
	assert.Empty(t, page.Entities)
}

func TestReplayClientNilQuery(t *testing.T) {
	t.Parallel()

	replay := NewReplayClient()
	replay.Stub("things", nil, &Page{Entities: entitiesNamed("t-1")})

	page, err := replay.GetEntities(context.Background(), "things", nil)
	require.NoError(t, err)
	require.Len(t, page.Entities, 1)

	// A nil query and an empty query describe the same request.
	page, err = replay.GetEntities(context.Background(), "things", NewQuery())
	require.NoError(t, err)
	assert.Len(t, page.Entities, 1)
}

func TestReplayClientInstancesAreIsolated(t *testing.T) {
	t.Parallel()

	first := NewReplayClient()
	first.Stub("things", nil, &Page{Entities: entitiesNamed("t-1")})

	second := NewReplayClient()

	page, err := second.GetEntities(context.Background(), "things", nil)
	require.NoError(t, err)
	assert.Empty(t, page.Entities)
}
