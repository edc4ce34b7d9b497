package client

import (
	"context"

	"github.com/bigmirror-io/usergrid-client/internal/constants"
	"github.com/bigmirror-io/usergrid-client/pkg/usergrid"
)

// effectivePageSize clamps the requested page size to the service maximum
// and substitutes the default when none was requested. Traversal always
// runs with an explicit size so the iterator's short-page check can fire.
func effectivePageSize(query *usergrid.Query) int {
	if query == nil || query.Limit <= 0 {
		return constants.DefaultPageSize
	}

	if query.Limit > constants.MaxPageSize {
		return constants.MaxPageSize
	}

	return query.Limit
}

// CollectEntities returns a finite, non-restartable iterator over every
// entity reachable from endpoint. Only the QL and Limit fields of query are
// honored; the cursor always starts fresh.
func (c *Client) CollectEntities(ctx context.Context, endpoint string, query *usergrid.Query) *usergrid.EntityIterator {
	paged := usergrid.NewQuery().WithLimit(effectivePageSize(query))
	if query != nil && query.QL != "" {
		paged = paged.WithQL(query.QL)
	}

	return usergrid.NewEntityIterator(ctx, c, endpoint, paged)
}

// ProcessEntities applies fn to every entity reachable from endpoint, in
// page order then in-page order. A nil fn fails before any network
// activity. The first error, from a fetch or from fn, stops traversal.
func (c *Client) ProcessEntities(ctx context.Context, endpoint string, fn func(usergrid.Entity) error, query *usergrid.Query) error {
	if fn == nil {
		return usergrid.ErrProcessFuncRequired
	}

	return c.CollectEntities(ctx, endpoint, query).ForEach(fn)
}
