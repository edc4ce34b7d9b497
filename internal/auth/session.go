package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bigmirror-io/usergrid-client/internal/constants"
	"github.com/bigmirror-io/usergrid-client/pkg/usergrid"
)

// Session owns endpoint construction, credential state, the access token
// and its expiry, and the login state machine. It is not designed for
// concurrent mutation; callers sharing a session across goroutines must
// serialize access externally.
type Session struct {
	appEndpoint        string
	managementEndpoint string

	clientID       string
	clientSecret   string
	autoReconnect  bool
	useCompression bool
	userAgent      string

	store       *TokenStore
	currentUser usergrid.Entity
	lastLogin   *usergrid.LoginOptions

	httpClient *http.Client
}

// NewSession builds a session from a validated config. No token is held
// until Login or SetAccessToken.
func NewSession(config *usergrid.Config) *Session {
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "usergrid-client-go/" + usergrid.Version
	}

	return &Session{
		appEndpoint:        config.BaseEndpoint(),
		managementEndpoint: config.ManagementEndpoint(),
		clientID:           config.ClientID,
		clientSecret:       config.ClientSecret,
		autoReconnect:      config.AutoReconnect,
		useCompression:     config.UseCompression,
		userAgent:          userAgent,
		store:              NewTokenStore(),
		httpClient: &http.Client{
			Timeout: constants.LoginTimeout,
		},
	}
}

// AppEndpoint returns the application endpoint (scheme://host[:port]/org/app).
func (s *Session) AppEndpoint() string {
	return s.appEndpoint
}

// ManagementEndpoint returns the management endpoint.
func (s *Session) ManagementEndpoint() string {
	return s.managementEndpoint
}

// CurrentUser returns the user entity stored by the last password-grant
// login, or nil.
func (s *Session) CurrentUser() usergrid.Entity {
	return s.currentUser
}

// loginResponse is the token endpoint's wire shape. Error fields are only
// set on rejected grants.
type loginResponse struct {
	AccessToken      string          `json:"access_token"`
	ExpiresIn        int64           `json:"expires_in"`
	User             usergrid.Entity `json:"user"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

// Login obtains an access token using the grant described by opts.
//
// The grant shape follows the credentials given: client_credentials when no
// username or superuser override is present, password otherwise. A
// superuser override targets the management endpoint and substitutes the
// superuser name for the username. The last grant shape is recorded before
// the network call so auto-reconnect can replay it.
func (s *Session) Login(ctx context.Context, opts *usergrid.LoginOptions) error {
	if opts == nil {
		opts = &usergrid.LoginOptions{}
	}

	if opts.ClientID != "" {
		s.clientID = opts.ClientID
	}

	if opts.ClientSecret != "" {
		s.clientSecret = opts.ClientSecret
	}

	endpoint := s.appEndpoint

	s.lastLogin = &usergrid.LoginOptions{
		Superuser: opts.Superuser,
		TTL:       opts.TTL,
	}

	form := url.Values{}
	passwordGrant := opts.Username != "" || opts.Superuser != ""

	if passwordGrant {
		// The password is not retained, so an expired token could never
		// reproduce this grant.
		s.autoReconnect = false

		form.Set("grant_type", "password")
		form.Set("username", opts.Username)
		form.Set("password", opts.Password)

		if opts.Superuser != "" {
			endpoint = s.managementEndpoint

			form.Set("username", opts.Superuser)
		}
	} else {
		form.Set("grant_type", "client_credentials")
		form.Set("client_id", s.clientID)
		form.Set("client_secret", s.clientSecret)
	}

	if opts.TTL != 0 {
		if opts.TTL < 1 {
			return usergrid.ErrTTLTooShort
		}

		// The service expects milliseconds.
		form.Set("ttl", strconv.Itoa(opts.TTL*1000))
	}

	decoded, status, err := s.postTokenForm(ctx, endpoint+"/token", form)
	if err != nil {
		return err
	}

	if status == http.StatusOK && decoded.AccessToken != "" {
		s.store.Set(&Token{
			AccessToken: decoded.AccessToken,
			TokenType:   "bearer",
			ExpiresIn:   decoded.ExpiresIn,
			ExpiresAt:   time.Now().Add(time.Duration(decoded.ExpiresIn) * time.Second),
		})

		if passwordGrant {
			s.currentUser = decoded.User
		}

		return nil
	}

	if decoded.Error == "invalid_grant" {
		detail := decoded.ErrorDescription
		if detail == "" {
			detail = "invalid grant"
		}

		return &usergrid.APIError{
			Category:   usergrid.ErrorCategoryLoginFailed,
			Detail:     detail,
			StatusCode: status,
		}
	}

	return &usergrid.APIError{
		Category:   usergrid.ErrorCategoryGeneralFailure,
		Detail:     "Failed to connect to service",
		StatusCode: status,
	}
}

func (s *Session) postTokenForm(ctx context.Context, tokenURL string, form url.Values) (*loginResponse, int, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.LoginTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, &usergrid.APIError{
			Category: usergrid.ErrorCategoryGeneralFailure,
			Detail:   "Failed to connect to service",
		}
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &usergrid.APIError{
			Category: usergrid.ErrorCategoryGeneralFailure,
			Detail:   "Failed to connect to service",
		}
	}

	var decoded loginResponse

	err = json.Unmarshal(body, &decoded)
	if err != nil {
		return nil, 0, &usergrid.APIError{
			Category:   usergrid.ErrorCategoryGeneralFailure,
			Detail:     "Failed to connect to service",
			StatusCode: resp.StatusCode,
		}
	}

	return &decoded, resp.StatusCode, nil
}

// SetAccessToken injects an externally obtained token. The injected token
// is terminal: credentials, auto-reconnect, the current user, the recorded
// grant, and the tracked expiry are all cleared, so it can never trigger a
// re-login.
func (s *Session) SetAccessToken(token string) {
	s.clientID = ""
	s.clientSecret = ""
	s.autoReconnect = false
	s.currentUser = nil
	s.lastLogin = nil

	s.store.Set(&Token{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// StandardHeaders returns the base headers sent with every request: the
// user agent, the JSON accept header, the bearer token when one is held,
// and the compression advertisement when requested at construction.
func (s *Session) StandardHeaders() map[string]string {
	headers := map[string]string{
		"User-Agent": s.userAgent,
		"Accept":     "application/json",
	}

	token := s.store.Get()
	if token != nil && token.AccessToken != "" {
		headers["Authorization"] = "Bearer " + token.AccessToken
	}

	if s.useCompression {
		headers["Accept-Encoding"] = "gzip, deflate"
	}

	return headers
}

// EnsureValidToken checks the tracked expiry before a request goes out.
// With no tracked expiry it is a no-op. An expired token triggers exactly
// one synchronous re-login when auto-reconnect is enabled, and fails with
// an expired-token error otherwise.
func (s *Session) EnsureValidToken(ctx context.Context) error {
	token := s.store.Get()
	if token == nil || token.ExpiresAt.IsZero() {
		return nil
	}

	if time.Now().Before(token.ExpiresAt) {
		return nil
	}

	if s.autoReconnect {
		return s.Login(ctx, s.lastLogin)
	}

	return &usergrid.APIError{
		Category: usergrid.ErrorCategoryExpiredToken,
		Detail:   "Access token has expired",
	}
}
