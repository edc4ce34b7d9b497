package usergrid

import (
	"context"
)

// Version is reported in the default User-Agent header.
const Version = "1.0.0"

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// LoginOptions selects the authentication grant.
//
// With no username and no superuser override, the client-credentials grant
// is used with ClientID/ClientSecret (falling back to the values given at
// construction). Otherwise the password grant is used; a superuser override
// switches to the management endpoint and substitutes the superuser name
// for the username.
type LoginOptions struct {
	Username     string
	Password     string
	Superuser    string
	ClientID     string
	ClientSecret string

	// TTL is the requested token lifetime in seconds. Zero means the
	// service default. Values below one second are rejected.
	TTL int
}

// Client is the full client surface: authentication, entity CRUD,
// relationship traversal, pagination, and the archive workflow.
type Client interface {
	SessionClient
	EntityClient
	PaginationClient
	ArchiveClient
}

// SessionClient covers token lifecycle operations.
type SessionClient interface {
	// Login obtains an access token using the grant described by opts.
	// A nil opts performs a client-credentials login with the
	// construction-time credentials.
	Login(ctx context.Context, opts *LoginOptions) error

	// SetAccessToken injects an externally obtained token. The injected
	// token is terminal: credentials, auto-reconnect, the current user,
	// and the tracked expiry are all cleared.
	SetAccessToken(token string)

	// CurrentUser returns the user entity from the last password-grant
	// login, or nil.
	CurrentUser() Entity
}

// EntityClient covers single-entity and single-page operations.
type EntityClient interface {
	// GetEntities fetches one page of entities. A missing resource yields
	// an empty page rather than an error; this is the one operation with
	// built-in not-found tolerance.
	GetEntities(ctx context.Context, endpoint string, query *Query) (*Page, error)

	// GetEntity fetches the first entity matching ql, or nil if none.
	GetEntity(ctx context.Context, endpoint string, ql string) (Entity, error)

	// GetEntityByID fetches collection/id directly. Unlike GetEntities, a
	// missing resource is an error.
	GetEntityByID(ctx context.Context, collection, entityID string) (Entity, error)

	PostEntity(ctx context.Context, endpoint string, data Entity) (Entity, error)
	UpdateEntity(ctx context.Context, endpoint string, data Entity) (Entity, error)
	UpdateEntityByID(ctx context.Context, collection, entityID string, data Entity) (Entity, error)
	DeleteEntity(ctx context.Context, endpoint string) (map[string]interface{}, error)
	DeleteEntityByID(ctx context.Context, collection, entityID string) (map[string]interface{}, error)

	// PostActivity posts an activity-stream entry for actor, merging any
	// extra fields into the payload. Returns the raw decoded response.
	PostActivity(ctx context.Context, endpoint string, actor Actor, verb, content string, extra map[string]interface{}) (map[string]interface{}, error)

	PostRelationship(ctx context.Context, endpoint string) (map[string]interface{}, error)
	DeleteRelationship(ctx context.Context, endpoint string) (map[string]interface{}, error)

	// PostFile uploads the file at path as a multipart request with an
	// extended timeout.
	PostFile(ctx context.Context, endpoint, path string) (map[string]interface{}, error)

	// UpdatePassword changes a user's password. Failures carry the
	// password_update_failed category.
	UpdatePassword(ctx context.Context, username, oldPassword, newPassword string) error
}

// PaginationClient covers cursor-driven traversal of whole collections.
type PaginationClient interface {
	// CollectEntities returns a finite, non-restartable iterator over
	// every entity reachable from endpoint, fetching one page at a time.
	CollectEntities(ctx context.Context, endpoint string, query *Query) *EntityIterator

	// ProcessEntities applies fn to every entity in page order then
	// in-page order. A nil fn fails before any network activity.
	ProcessEntities(ctx context.Context, endpoint string, fn func(Entity) error, query *Query) error
}

// ArchiveClient covers the snapshot-and-delete workflow.
type ArchiveClient interface {
	// ArchiveEntity snapshots the entity together with every entity
	// reachable via its relationship edges into archived_{entityType},
	// then deletes the original. Either the whole workflow completes or
	// nothing is deleted.
	ArchiveEntity(ctx context.Context, entityType, entityID string) (Entity, error)
}
