package usergrid

import (
	"net/url"
	"strconv"
)

// Query describes a page-fetch request: an optional query-language filter,
// page size, and continuation cursor. A nil *Query means no parameters.
type Query struct {
	// QL is a query-language filter, e.g. "select * where name = 'demo'".
	QL string

	// Limit is the requested page size. Zero means the service default.
	Limit int

	// Cursor is the opaque continuation token from a previous page.
	Cursor string
}

// NewQuery creates an empty query.
func NewQuery() *Query {
	return &Query{}
}

// WithQL sets the query-language filter.
func (q *Query) WithQL(ql string) *Query {
	q.QL = ql

	return q
}

// WithLimit sets the page size.
func (q *Query) WithLimit(limit int) *Query {
	q.Limit = limit

	return q
}

// WithCursor sets the continuation cursor.
func (q *Query) WithCursor(cursor string) *Query {
	q.Cursor = cursor

	return q
}

// ToValues converts the query to URL values. Nil-safe.
func (q *Query) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	if q.QL != "" {
		values.Set("ql", q.QL)
	}

	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.Cursor != "" {
		values.Set("cursor", q.Cursor)
	}

	return values
}
