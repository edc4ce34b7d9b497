package usergrid

import (
	"context"
)

// Pager is the single-page fetch contract the iterator is built on. Both
// the real client and ReplayClient satisfy it.
type Pager interface {
	GetEntities(ctx context.Context, endpoint string, query *Query) (*Page, error)
}

// EntityIterator walks a collection one page at a time, yielding every
// entity of a page before fetching the next. It is finite and not
// restartable: each iterator issues fresh pages starting from no cursor.
//
// Iteration stops when a page comes back with no cursor, or with fewer
// entities than the requested page size — whichever happens first. The
// short-page check guards against a service that returns a stale cursor on
// a final partial page; it is skipped when no page size was requested.
type EntityIterator struct {
	ctx      context.Context
	pager    Pager
	endpoint string
	ql       string
	limit    int

	cursor string
	buffer []Entity
	index  int
	done   bool
	err    error
}

// NewEntityIterator creates an iterator over endpoint. Only the QL and
// Limit fields of query are honored; the cursor always starts fresh.
func NewEntityIterator(ctx context.Context, pager Pager, endpoint string, query *Query) *EntityIterator {
	it := &EntityIterator{
		ctx:      ctx,
		pager:    pager,
		endpoint: endpoint,
	}

	if query != nil {
		it.ql = query.QL
		it.limit = query.Limit
	}

	return it
}

// HasNext reports whether another entity is available, fetching the next
// page when the current one is exhausted. A fetch error makes HasNext
// return true so that Next can surface it.
func (it *EntityIterator) HasNext() bool {
	if it.err != nil {
		return true
	}

	if it.index < len(it.buffer) {
		return true
	}

	if it.done {
		return false
	}

	it.fetchPage()

	return it.err != nil || it.index < len(it.buffer)
}

// Next returns the next entity, or ErrNoMoreEntities past the end.
func (it *EntityIterator) Next() (Entity, error) {
	if !it.HasNext() {
		return nil, ErrNoMoreEntities
	}

	if it.err != nil {
		err := it.err
		it.err = nil

		return nil, err
	}

	entity := it.buffer[it.index]
	it.index++

	return entity, nil
}

// All drains the iterator into a slice.
func (it *EntityIterator) All() ([]Entity, error) {
	var all []Entity

	for it.HasNext() {
		entity, err := it.Next()
		if err != nil {
			return nil, err
		}

		all = append(all, entity)
	}

	return all, nil
}

// ForEach applies fn to every remaining entity in order. The first error,
// from a fetch or from fn, stops iteration.
func (it *EntityIterator) ForEach(fn func(Entity) error) error {
	for it.HasNext() {
		entity, err := it.Next()
		if err != nil {
			return err
		}

		err = fn(entity)
		if err != nil {
			return err
		}
	}

	return nil
}

func (it *EntityIterator) fetchPage() {
	query := &Query{
		QL:     it.ql,
		Limit:  it.limit,
		Cursor: it.cursor,
	}

	page, err := it.pager.GetEntities(it.ctx, it.endpoint, query)
	if err != nil {
		it.err = err
		it.done = true

		return
	}

	it.buffer = page.Entities
	it.index = 0
	it.cursor = page.Cursor

	if page.Cursor == "" {
		it.done = true
	}

	if it.limit > 0 && len(page.Entities) < it.limit {
		it.done = true
	}
}
