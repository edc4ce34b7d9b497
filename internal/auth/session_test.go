package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigmirror-io/usergrid-client/pkg/usergrid"
)

func testConfig(t *testing.T, serverURL string) *usergrid.Config {
	t.Helper()

	parsed, err := url.Parse(serverURL)
	require.NoError(t, err)

	port, err := strconv.Atoi(parsed.Port())
	require.NoError(t, err)

	return &usergrid.Config{
		Host: parsed.Hostname(),
		Port: port,
		Org:  "test-org",
		App:  "test-app",
	}
}

func TestLoginClientCredentials(t *testing.T) {
	t.Parallel()

	var gotPath string

	var gotForm url.Values

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"app-token","expires_in":3600}`))
	}))
	defer server.Close()

	config := testConfig(t, server.URL)
	config.ClientID = "client-id"
	config.ClientSecret = "client-secret"

	session := NewSession(config)
	err := session.Login(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "/test-org/test-app/token", gotPath)
	assert.Equal(t, "client_credentials", gotForm.Get("grant_type"))
	assert.Equal(t, "client-id", gotForm.Get("client_id"))
	assert.Equal(t, "client-secret", gotForm.Get("client_secret"))
	assert.Empty(t, gotForm.Get("ttl"))

	token := session.store.Get()
	require.NotNil(t, token)
	assert.Equal(t, "app-token", token.AccessToken)
	assert.False(t, token.ExpiresAt.IsZero())
	assert.Nil(t, session.CurrentUser())
}

func TestLoginPasswordGrant(t *testing.T) {
	t.Parallel()

	var gotForm url.Values

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"user-token","expires_in":3600,` +
			`"user":{"uuid":"user-1","username":"jdoe"}}`))
	}))
	defer server.Close()

	config := testConfig(t, server.URL)
	config.AutoReconnect = true

	session := NewSession(config)
	err := session.Login(context.Background(), &usergrid.LoginOptions{
		Username: "jdoe",
		Password: "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "password", gotForm.Get("grant_type"))
	assert.Equal(t, "jdoe", gotForm.Get("username"))
	assert.Equal(t, "secret", gotForm.Get("password"))

	user := session.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "user-1", user.UUID())

	// The password is not retained, so the session must not attempt to
	// replay this grant.
	assert.False(t, session.autoReconnect)
}

func TestLoginSuperuserTargetsManagement(t *testing.T) {
	t.Parallel()

	var gotPath string

	var gotForm url.Values

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"admin-token","expires_in":3600}`))
	}))
	defer server.Close()

	session := NewSession(testConfig(t, server.URL))
	err := session.Login(context.Background(), &usergrid.LoginOptions{
		Superuser: "admin",
		Password:  "admin-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, "/management/token", gotPath)
	assert.Equal(t, "password", gotForm.Get("grant_type"))
	assert.Equal(t, "admin", gotForm.Get("username"))
	assert.Equal(t, "admin-pass", gotForm.Get("password"))
}

func TestLoginTTL(t *testing.T) {
	t.Parallel()

	var gotForm url.Values

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":60}`))
	}))
	defer server.Close()

	config := testConfig(t, server.URL)
	config.ClientID = "id"
	config.ClientSecret = "secret"

	session := NewSession(config)
	err := session.Login(context.Background(), &usergrid.LoginOptions{TTL: 60})
	require.NoError(t, err)

	// Seconds in, milliseconds on the wire.
	assert.Equal(t, "60000", gotForm.Get("ttl"))
}

func TestLoginTTLTooShort(t *testing.T) {
	t.Parallel()

	session := NewSession(&usergrid.Config{Host: "localhost", Org: "o", App: "a"})

	err := session.Login(context.Background(), &usergrid.LoginOptions{TTL: -5})
	require.ErrorIs(t, err, usergrid.ErrTTLTooShort)
}

func TestLoginInvalidGrant(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"invalid username or password"}`))
	}))
	defer server.Close()

	session := NewSession(testConfig(t, server.URL))
	err := session.Login(context.Background(), &usergrid.LoginOptions{
		Username: "jdoe",
		Password: "wrong",
	})
	require.Error(t, err)

	var apiErr *usergrid.APIError

	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, usergrid.ErrorCategoryLoginFailed, apiErr.Category)
	assert.Equal(t, "invalid username or password", apiErr.Detail)
	assert.True(t, usergrid.IsLoginFailed(err))
}

func TestLoginConnectFailure(t *testing.T) {
	t.Parallel()

	// Port 1 refuses connections.
	session := NewSession(&usergrid.Config{Host: "127.0.0.1", Port: 1, Org: "o", App: "a"})

	err := session.Login(context.Background(), nil)
	require.Error(t, err)

	var apiErr *usergrid.APIError

	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, usergrid.ErrorCategoryGeneralFailure, apiErr.Category)
	assert.Equal(t, "Failed to connect to service", apiErr.Detail)
}

func TestSetAccessTokenIsTerminal(t *testing.T) {
	t.Parallel()

	config := &usergrid.Config{
		Host:          "localhost",
		Org:           "o",
		App:           "a",
		ClientID:      "id",
		ClientSecret:  "secret",
		AutoReconnect: true,
	}

	session := NewSession(config)
	session.currentUser = usergrid.Entity{"uuid": "user-1"}
	session.lastLogin = &usergrid.LoginOptions{TTL: 60}

	session.SetAccessToken("injected")

	assert.Empty(t, session.clientID)
	assert.Empty(t, session.clientSecret)
	assert.False(t, session.autoReconnect)
	assert.Nil(t, session.CurrentUser())
	assert.Nil(t, session.lastLogin)

	token := session.store.Get()
	require.NotNil(t, token)
	assert.Equal(t, "injected", token.AccessToken)
	assert.True(t, token.ExpiresAt.IsZero())

	// An injected token never triggers a re-login check.
	require.NoError(t, session.EnsureValidToken(context.Background()))
}

func TestEnsureValidTokenExpired(t *testing.T) {
	t.Parallel()

	session := NewSession(&usergrid.Config{Host: "localhost", Org: "o", App: "a"})
	session.store.Set(&Token{
		AccessToken: "stale",
		ExpiresAt:   time.Now().Add(-time.Minute),
	})

	err := session.EnsureValidToken(context.Background())
	require.Error(t, err)

	var apiErr *usergrid.APIError

	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, usergrid.ErrorCategoryExpiredToken, apiErr.Category)
	assert.True(t, usergrid.IsExpiredToken(err))
}

func TestEnsureValidTokenAutoReconnect(t *testing.T) {
	t.Parallel()

	logins := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/test-org/test-app/token" {
			logins++

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"fresh","expires_in":3600}`))

			return
		}

		http.NotFound(w, r)
	}))
	defer server.Close()

	config := testConfig(t, server.URL)
	config.ClientID = "id"
	config.ClientSecret = "secret"
	config.AutoReconnect = true

	session := NewSession(config)
	require.NoError(t, session.Login(context.Background(), nil))
	require.Equal(t, 1, logins)

	// Force expiry and verify the next check re-authenticates once.
	session.store.Set(&Token{
		AccessToken: "stale",
		ExpiresAt:   time.Now().Add(-time.Minute),
	})

	require.NoError(t, session.EnsureValidToken(context.Background()))
	assert.Equal(t, 2, logins)

	token := session.store.Get()
	require.NotNil(t, token)
	assert.Equal(t, "fresh", token.AccessToken)

	// A valid token dispatches without another login.
	require.NoError(t, session.EnsureValidToken(context.Background()))
	assert.Equal(t, 2, logins)
}

func TestEnsureValidTokenNoToken(t *testing.T) {
	t.Parallel()

	session := NewSession(&usergrid.Config{Host: "localhost", Org: "o", App: "a"})
	require.NoError(t, session.EnsureValidToken(context.Background()))
}

func TestStandardHeaders(t *testing.T) {
	t.Parallel()

	config := &usergrid.Config{
		Host:           "localhost",
		Org:            "o",
		App:            "a",
		UseCompression: true,
	}

	session := NewSession(config)

	headers := session.StandardHeaders()
	assert.Equal(t, "usergrid-client-go/"+usergrid.Version, headers["User-Agent"])
	assert.Equal(t, "application/json", headers["Accept"])
	assert.Equal(t, "gzip, deflate", headers["Accept-Encoding"])
	assert.NotContains(t, headers, "Authorization")

	session.SetAccessToken("tok")

	headers = session.StandardHeaders()
	assert.Equal(t, "Bearer tok", headers["Authorization"])
}

func TestLoginNonJSONResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream gone"))
	}))
	defer server.Close()

	session := NewSession(testConfig(t, server.URL))
	err := session.Login(context.Background(), nil)
	require.Error(t, err)

	var apiErr *usergrid.APIError

	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, usergrid.ErrorCategoryGeneralFailure, apiErr.Category)
}
