// Package usergrid provides types, interfaces, and helpers for working with
// a Usergrid-style schemaless entity/collection API.
//
// # Overview
//
// The usergrid package defines the domain types (Entity, Page, Query, Actor)
// and the Client interface covering authentication, entity CRUD,
// relationship traversal, cursor pagination, and the archive workflow. A
// concrete implementation is provided by the ugclient package, which wires
// configuration, transport, and the session layer. Most consumers should
// import ugclient to construct a client and then work against the
// interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/bigmirror-io/usergrid-client/pkg/ugclient"
//	  "github.com/bigmirror-io/usergrid-client/pkg/usergrid"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := ugclient.NewWithClientCredentials(ctx, &usergrid.Config{
//	    Host: "api.example.com",
//	    Org:  "acme",
//	    App:  "sandbox",
//	  }, "client-id", "client-secret")
//	  if err != nil { log.Fatal(err) }
//
//	  page, err := cli.GetEntities(ctx, "users", usergrid.NewQuery().WithLimit(50))
//	  if err != nil { log.Fatal(err) }
//	  _ = page
//	}
//
// # Queries and pagination
//
// Use Query to express list options (ql filter, limit, cursor). Whole
// collections are walked through EntityIterator:
//
//	it := cli.CollectEntities(ctx, "users", nil)
//	for it.HasNext() {
//	  user, err := it.Next()
//	  if err != nil { break }
//	  _ = user
//	}
//
// The iterator fetches one page at a time and terminates when a page comes
// back without a cursor or shorter than the requested page size.
//
// # Errors
//
// Failures are represented by APIError with a machine-checkable category.
// Helpers such as IsNotFound and IsExpiredToken make it easy to branch on
// common cases, and CatchNotFound substitutes a fallback value for
// missing-resource errors only.
//
// # Offline testing
//
// ReplayClient implements the same page-fetch contract as the real client
// from a per-instance response table, so pagination-heavy code can be
// tested without a network.
package usergrid
