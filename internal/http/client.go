// Package http provides the request dispatcher shared by every API
// operation: URL assembly, header injection, JSON encoding, and the
// translation of service error bodies into typed errors.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/bigmirror-io/usergrid-client/internal/constants"
	"github.com/bigmirror-io/usergrid-client/pkg/usergrid"
)

// Authorizer supplies the per-request authentication concerns: a validity
// check that may re-authenticate before the request goes out, and the
// standard header set. A nil Authorizer dispatches unauthenticated.
type Authorizer interface {
	EnsureValidToken(ctx context.Context) error
	StandardHeaders() map[string]string
}

// Request describes a single dispatch.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Body is JSON-encoded when non-nil. RawBody bypasses encoding and is
	// sent as-is with ContentType; it takes precedence over Body.
	Body        interface{}
	RawBody     []byte
	ContentType string

	// Headers override the standard headers on key collisions.
	Headers map[string]string

	// Timeout overrides the client default for this request only.
	Timeout time.Duration
}

// Client dispatches requests against a single base endpoint.
type Client struct {
	baseURL    string
	authorizer Authorizer
	httpClient *retryablehttp.Client
	logger     usergrid.Logger
	debug      bool
	userAgent  string
	timeout    time.Duration
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets a structured logger for debug output.
func WithLogger(logger usergrid.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent sent when no authorizer supplies
// one.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRetryConfig enables transport retries for transient failures. The
// default is zero retries; the only built-in retry behavior is the
// session's single re-authentication.
func WithRetryConfig(retryMax int, retryWaitMin, retryWaitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = retryWaitMin
		c.httpClient.RetryWaitMax = retryWaitMax
	}
}

// NewClient creates a dispatcher rooted at baseURL.
func NewClient(baseURL string, authorizer Authorizer, opts ...Option) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 0
	httpClient.RetryWaitMin = constants.DefaultRetryWaitMin
	httpClient.RetryWaitMax = constants.DefaultRetryWaitMax
	httpClient.Logger = nil

	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		authorizer: authorizer,
		httpClient: httpClient,
		userAgent:  "usergrid-client-go/" + usergrid.Version,
		timeout:    constants.DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do dispatches the request and decodes the JSON response body.
//
// The token validity check runs first, so an expired token is refreshed (or
// rejected) at most once per call and never mid-flight. A response body
// carrying the service's exception marker becomes a typed *usergrid.APIError
// classified by the body's error field; a body that is not valid JSON
// surfaces the decode failure unchanged.
func (c *Client) Do(ctx context.Context, req *Request) (map[string]interface{}, error) {
	if c.authorizer != nil {
		err := c.authorizer.EnsureValidToken(ctx)
		if err != nil {
			return nil, err
		}
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fullURL, err := c.buildURL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.applyHeaders(httpReq, contentType, req.Headers)

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &usergrid.APIError{
			Category: usergrid.ErrorCategoryGeneralFailure,
			Detail:   "Failed to connect to service",
		}
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
			"status": resp.StatusCode,
			"bytes":  len(respBody),
		})
	}

	decoded, err := classify(respBody, resp.StatusCode)
	if err != nil && c.logger != nil {
		c.logger.Error("HTTP request failed", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
			"status": resp.StatusCode,
			"error":  err.Error(),
		})
	}

	return decoded, err
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	fullURL := c.baseURL + "/" + strings.TrimPrefix(path, "/")

	if len(query) > 0 {
		parsed, err := url.Parse(fullURL)
		if err != nil {
			return "", fmt.Errorf("parsing URL %q: %w", fullURL, err)
		}

		parsed.RawQuery = query.Encode()
		fullURL = parsed.String()
	}

	return fullURL, nil
}

func encodeBody(req *Request) (io.Reader, string, error) {
	if req.RawBody != nil {
		return bytes.NewReader(req.RawBody), req.ContentType, nil
	}

	if req.Body == nil {
		return nil, "", nil
	}

	encoded, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encoding request body: %w", err)
	}

	return bytes.NewReader(encoded), "application/json", nil
}

func (c *Client) applyHeaders(httpReq *retryablehttp.Request, contentType string, overrides map[string]string) {
	if c.authorizer != nil {
		for key, value := range c.authorizer.StandardHeaders() {
			httpReq.Header.Set(key, value)
		}
	} else {
		httpReq.Header.Set("User-Agent", c.userAgent)
		httpReq.Header.Set("Accept", "application/json")
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for key, value := range overrides {
		httpReq.Header.Set(key, value)
	}
}

// classify turns an exception-marked body into a typed error. Every other
// body is returned decoded; an empty body decodes to an empty map.
func classify(body []byte, statusCode int) (map[string]interface{}, error) {
	if len(body) == 0 {
		return map[string]interface{}{}, nil
	}

	var decoded map[string]interface{}

	err := json.Unmarshal(body, &decoded)
	if err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}

	_, hasException := decoded["exception"]
	if !hasException && statusCode < 400 {
		return decoded, nil
	}

	category := usergrid.ErrorCategoryGeneralFailure
	if errName, ok := decoded["error"].(string); ok && errName != "" {
		category = usergrid.ErrorCategory(errName)
	}

	detail := "Unknown service error"
	if desc, ok := decoded["error_description"].(string); ok && desc != "" {
		detail = desc
	}

	return nil, &usergrid.APIError{
		Category:   category,
		Detail:     detail,
		StatusCode: statusCode,
	}
}

// Get dispatches a GET.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (map[string]interface{}, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post dispatches a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (map[string]interface{}, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put dispatches a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (map[string]interface{}, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete dispatches a DELETE.
func (c *Client) Delete(ctx context.Context, path string) (map[string]interface{}, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}
