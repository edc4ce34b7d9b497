// Package ugclient provides constructors for clients backed by the full
// implementation: session management, request dispatch, pagination, and the
// archive workflow.
//
// Use New when authentication will happen later, NewWithToken for an
// externally managed token, or the grant-specific constructors to
// authenticate immediately:
//
//	cli, err := ugclient.NewWithPassword(ctx, config, "jdoe", "secret")
//
// All constructors return the usergrid.Client interface.
package ugclient
