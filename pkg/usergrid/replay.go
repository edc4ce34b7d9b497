package usergrid

import (
	"context"
)

// replayKey composites the full request shape so distinct filters, cursors,
// and page sizes never collide.
type replayKey struct {
	Endpoint string
	QL       string
	Cursor   string
	Limit    int
}

// ReplayClient is a record-and-replay stand-in for the page-fetch side of
// the client, for offline tests. Each instance owns its own response table;
// nothing is shared between instances, so parallel tests cannot leak pages
// into each other.
type ReplayClient struct {
	pages map[replayKey]*Page
}

// NewReplayClient creates an empty replay client.
func NewReplayClient() *ReplayClient {
	return &ReplayClient{
		pages: make(map[replayKey]*Page),
	}
}

// Stub records the page to return for the given endpoint and query shape.
func (r *ReplayClient) Stub(endpoint string, query *Query, page *Page) {
	r.pages[keyFor(endpoint, query)] = page
}

// GetEntities implements Pager. An unstubbed request behaves like a missing
// resource: an empty page with no cursor.
func (r *ReplayClient) GetEntities(_ context.Context, endpoint string, query *Query) (*Page, error) {
	page, ok := r.pages[keyFor(endpoint, query)]
	if !ok {
		return &Page{}, nil
	}

	return page, nil
}

func keyFor(endpoint string, query *Query) replayKey {
	key := replayKey{Endpoint: endpoint}

	if query != nil {
		key.QL = query.QL
		key.Cursor = query.Cursor
		key.Limit = query.Limit
	}

	return key
}
