// Package client implements the full client surface on top of the session
// and dispatch layers.
package client

import (
	"context"

	"github.com/bigmirror-io/usergrid-client/internal/auth"
	"github.com/bigmirror-io/usergrid-client/internal/constants"
	internalhttp "github.com/bigmirror-io/usergrid-client/internal/http"
	"github.com/bigmirror-io/usergrid-client/pkg/usergrid"
)

// Client implements usergrid.Client.
type Client struct {
	config  *usergrid.Config
	session *auth.Session
	http    *internalhttp.Client
}

// New creates a client from config. No network activity happens until the
// first operation; call Login or SetAccessToken before authenticated calls.
func New(config *usergrid.Config) (*Client, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	session := auth.NewSession(config)

	timeout := config.DefaultTimeout
	if timeout <= 0 {
		timeout = usergrid.DefaultTimeout
	}

	opts := []internalhttp.Option{
		internalhttp.WithTimeout(timeout),
	}

	if config.Logger != nil {
		opts = append(opts,
			internalhttp.WithLogger(config.Logger),
			internalhttp.WithDebug(config.Debug),
		)
	}

	if config.RetryMax > 0 {
		waitMin := config.RetryWaitMin
		if waitMin <= 0 {
			waitMin = constants.DefaultRetryWaitMin
		}

		waitMax := config.RetryWaitMax
		if waitMax <= 0 {
			waitMax = constants.DefaultRetryWaitMax
		}

		opts = append(opts, internalhttp.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	}

	return &Client{
		config:  config,
		session: session,
		http:    internalhttp.NewClient(session.AppEndpoint(), session, opts...),
	}, nil
}

// Login obtains an access token using the grant described by opts.
func (c *Client) Login(ctx context.Context, opts *usergrid.LoginOptions) error {
	return c.session.Login(ctx, opts)
}

// SetAccessToken injects an externally obtained terminal token.
func (c *Client) SetAccessToken(token string) {
	c.session.SetAccessToken(token)
}

// CurrentUser returns the user entity from the last password-grant login.
func (c *Client) CurrentUser() usergrid.Entity {
	return c.session.CurrentUser()
}
