package usergrid

import (
	"fmt"
	"time"
)

// DefaultTimeout is applied to every dispatched request unless a caller
// supplies an override.
const DefaultTimeout = 20 * time.Second

// Config carries the recognized construction options for a client.
//
// Host, Org, and App are required; everything else has an explicit default.
// The base endpoint is built as scheme://host[:port]/org/app and the
// management endpoint as scheme://host[:port]/management.
type Config struct {
	// Host is the service hostname (required).
	Host string `json:"host" yaml:"host"`

	// Org is the organization namespace segment (required).
	Org string `json:"org" yaml:"org"`

	// App is the application namespace segment (required).
	App string `json:"app" yaml:"app"`

	// Port is an optional port appended to the host.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// UseTLS selects https over http. Default false.
	UseTLS bool `json:"use_tls" yaml:"use_tls"`

	// ClientID and ClientSecret are the client-credentials grant inputs.
	ClientID     string `json:"client_id,omitempty"     yaml:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`

	// AutoReconnect re-runs the last login when the token expires instead
	// of failing with an expired-token error. Default false.
	AutoReconnect bool `json:"auto_reconnect" yaml:"auto_reconnect"`

	// UseCompression advertises gzip/deflate on every request.
	UseCompression bool `json:"use_compression" yaml:"use_compression"`

	// DefaultTimeout bounds each dispatched request. Defaults to 20s.
	DefaultTimeout time.Duration `json:"default_timeout,omitempty" yaml:"default_timeout,omitempty"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`

	// Debug enables request/response logging when a Logger is provided.
	Debug bool `json:"debug" yaml:"debug"`

	// Logger is an optional structured logger used by the dispatch layer.
	Logger Logger `json:"-" yaml:"-"`

	// RetryMax enables transport-level retries for transient failures.
	// Zero (the default) means a request is issued exactly once; the only
	// built-in retry behavior is the session's single re-authentication.
	RetryMax     int           `json:"retry_max,omitempty"      yaml:"retry_max,omitempty"`
	RetryWaitMin time.Duration `json:"retry_wait_min,omitempty" yaml:"retry_wait_min,omitempty"`
	RetryWaitMax time.Duration `json:"retry_wait_max,omitempty" yaml:"retry_wait_max,omitempty"`
}

// Validate fails fast on missing required fields.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigRequired
	}

	if c.Host == "" {
		return ErrHostRequired
	}

	if c.Org == "" {
		return ErrOrgRequired
	}

	if c.App == "" {
		return ErrAppRequired
	}

	return nil
}

// BaseEndpoint builds the application endpoint from the config.
func (c *Config) BaseEndpoint() string {
	return fmt.Sprintf("%s/%s/%s", c.hostEndpoint(), c.Org, c.App)
}

// ManagementEndpoint builds the management endpoint from the config.
func (c *Config) ManagementEndpoint() string {
	return c.hostEndpoint() + "/management"
}

func (c *Config) hostEndpoint() string {
	scheme := "http"
	if c.UseTLS {
		scheme = "https"
	}

	endpoint := fmt.Sprintf("%s://%s", scheme, c.Host)
	if c.Port > 0 {
		endpoint = fmt.Sprintf("%s:%d", endpoint, c.Port)
	}

	return endpoint
}
