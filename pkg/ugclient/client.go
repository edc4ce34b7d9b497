// Package ugclient provides the main entry point for creating clients.
package ugclient

import (
	"context"
	"fmt"

	"github.com/bigmirror-io/usergrid-client/internal/client"
	"github.com/bigmirror-io/usergrid-client/pkg/usergrid"
)

// New creates a client from config without authenticating. Call Login or
// SetAccessToken on the returned client before authenticated operations.
func New(config *usergrid.Config) (usergrid.Client, error) {
	cli, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return cli, nil
}

// NewWithToken creates a client carrying an externally obtained access
// token. The token is terminal: when it lapses the client fails with an
// expired-token error rather than re-authenticating.
func NewWithToken(config *usergrid.Config, token string) (usergrid.Client, error) {
	cli, err := New(config)
	if err != nil {
		return nil, err
	}

	cli.SetAccessToken(token)

	return cli, nil
}

// NewWithClientCredentials creates a client and logs in with the
// client-credentials grant.
func NewWithClientCredentials(ctx context.Context, config *usergrid.Config, clientID, clientSecret string) (usergrid.Client, error) {
	cli, err := New(config)
	if err != nil {
		return nil, err
	}

	err = cli.Login(ctx, &usergrid.LoginOptions{
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
	if err != nil {
		return nil, err
	}

	return cli, nil
}

// NewWithPassword creates a client and logs in with the password grant. The
// authenticated user is available via CurrentUser.
func NewWithPassword(ctx context.Context, config *usergrid.Config, username, password string) (usergrid.Client, error) {
	cli, err := New(config)
	if err != nil {
		return nil, err
	}

	err = cli.Login(ctx, &usergrid.LoginOptions{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	return cli, nil
}
