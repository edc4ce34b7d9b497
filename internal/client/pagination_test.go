package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigmirror-io/usergrid-client/internal/constants"
	"github.com/bigmirror-io/usergrid-client/pkg/usergrid"
)

// pagedServer serves total entities in pages of the requested limit, with a
// cursor on every page that has a successor.
func pagedServer(t *testing.T, total int, gotLimits *[]string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotLimits = append(*gotLimits, r.URL.Query().Get("limit"))

		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		require.NoError(t, err)

		start := 0
		if cursor := r.URL.Query().Get("cursor"); cursor != "" {
			start, err = strconv.Atoi(cursor)
			require.NoError(t, err)
		}

		end := start + limit
		if end > total {
			end = total
		}

		body := `{"entities":[`

		for i := start; i < end; i++ {
			if i > start {
				body += ","
			}

			body += fmt.Sprintf(`{"uuid":"t-%d","seq":%d}`, i, i)
		}

		body += `]`

		if end < total {
			body += fmt.Sprintf(`,"cursor":"%d"`, end)
		}

		body += `}`

		writeJSON(t, w, http.StatusOK, body)
	}))
}

func TestCollectEntitiesWalksAllPages(t *testing.T) {
	t.Parallel()

	var gotLimits []string

	server := pagedServer(t, 7, &gotLimits)
	defer server.Close()

	client := newTestClient(t, server.URL)

	all, err := client.CollectEntities(context.Background(), "things",
		usergrid.NewQuery().WithLimit(3)).All()
	require.NoError(t, err)

	require.Len(t, all, 7)

	for i, entity := range all {
		assert.Equal(t, fmt.Sprintf("t-%d", i), entity.UUID())
	}

	// 3 + 3 + 1; the short final page terminates without another fetch.
	assert.Equal(t, []string{"3", "3", "3"}, gotLimits)
}

func TestCollectEntitiesExactMultiple(t *testing.T) {
	t.Parallel()

	var gotLimits []string

	server := pagedServer(t, 6, &gotLimits)
	defer server.Close()

	client := newTestClient(t, server.URL)

	all, err := client.CollectEntities(context.Background(), "things",
		usergrid.NewQuery().WithLimit(3)).All()
	require.NoError(t, err)
	require.Len(t, all, 6)
}

func TestCollectEntitiesDefaultsPageSize(t *testing.T) {
	t.Parallel()

	var gotLimits []string

	server := pagedServer(t, 2, &gotLimits)
	defer server.Close()

	client := newTestClient(t, server.URL)

	all, err := client.CollectEntities(context.Background(), "things", nil).All()
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, []string{strconv.Itoa(constants.DefaultPageSize)}, gotLimits)
}

func TestCollectEntitiesClampsPageSize(t *testing.T) {
	t.Parallel()

	var gotLimits []string

	server := pagedServer(t, 1, &gotLimits)
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.CollectEntities(context.Background(), "things",
		usergrid.NewQuery().WithLimit(5000)).All()
	require.NoError(t, err)

	assert.Equal(t, []string{strconv.Itoa(constants.MaxPageSize)}, gotLimits)
}

func TestCollectEntitiesMissingCollection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusNotFound, notFoundBody)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	all, err := client.CollectEntities(context.Background(), "no-such-collection", nil).All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProcessEntitiesAppliesInOrder(t *testing.T) {
	t.Parallel()

	var gotLimits []string

	server := pagedServer(t, 5, &gotLimits)
	defer server.Close()

	client := newTestClient(t, server.URL)

	var seen []string

	err := client.ProcessEntities(context.Background(), "things", func(entity usergrid.Entity) error {
		seen = append(seen, entity.UUID())

		return nil
	}, usergrid.NewQuery().WithLimit(2))
	require.NoError(t, err)

	assert.Equal(t, []string{"t-0", "t-1", "t-2", "t-3", "t-4"}, seen)
}

func TestProcessEntitiesNilFunc(t *testing.T) {
	t.Parallel()

	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++

		writeJSON(t, w, http.StatusOK, `{"entities":[]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	err := client.ProcessEntities(context.Background(), "things", nil, nil)
	require.ErrorIs(t, err, usergrid.ErrProcessFuncRequired)
	assert.Zero(t, requests)
}

func TestProcessEntitiesStopsOnCallbackError(t *testing.T) {
	t.Parallel()

	var gotLimits []string

	server := pagedServer(t, 10, &gotLimits)
	defer server.Close()

	client := newTestClient(t, server.URL)

	processed := 0

	err := client.ProcessEntities(context.Background(), "things", func(entity usergrid.Entity) error {
		processed++

		if entity.UUID() == "t-2" {
			return fmt.Errorf("bad entity %s", entity.UUID())
		}

		return nil
	}, usergrid.NewQuery().WithLimit(2))
	require.Error(t, err)
	assert.Equal(t, 3, processed)

	// Only the pages needed to reach the failing entity were fetched.
	assert.Equal(t, []string{"2", "2"}, gotLimits)
}
