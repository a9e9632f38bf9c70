package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/limphasa/schemectl/pkg/observability"
	"github.com/limphasa/schemectl/pkg/policy"
	"github.com/limphasa/schemectl/pkg/session"
)

// Client issues every outbound call to the scheme API. All requests
// share one timeout; none are retried automatically.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	sessions   *session.Store
	logger     *observability.Logger
}

// NewClient creates a client for the API at baseURL, reading credentials
// from the session store.
func NewClient(baseURL string, timeout time.Duration, sessions *session.Store, logger *observability.Logger) (*Client, error) {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
		sessions:   sessions,
		logger:     logger,
	}, nil
}

// Sessions returns the session store backing the client
func (c *Client) Sessions() *session.Store { return c.sessions }

// Get issues an authenticated GET and decodes the response into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out, true)
}

// GetScoped issues an authenticated GET with the current user's query
// scope merged over the caller's filter. The role-derived block/section
// always win; a block chair cannot widen their view by passing filters.
func (c *Client) GetScoped(ctx context.Context, path string, filter url.Values, out interface{}) error {
	query := url.Values{}
	for key, vals := range filter {
		for _, v := range vals {
			if v != "" {
				query.Add(key, v)
			}
		}
	}
	if scope := policy.QueryScope(c.sessions.User()); !scope.IsZero() {
		query.Set("block", strconv.FormatInt(scope.Block, 10))
		query.Set("section", strconv.FormatInt(scope.Section, 10))
	}
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out, true)
}

// Post issues an authenticated POST with a JSON body
func (c *Client) Post(ctx context.Context, path string, in, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, in, out, true)
}

// PostPublic issues an unauthenticated POST (login, register)
func (c *Client) PostPublic(ctx context.Context, path string, in, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, in, out, false)
}

// Patch issues an authenticated PATCH with a JSON body
func (c *Client) Patch(ctx context.Context, path string, in, out interface{}) error {
	return c.doJSON(ctx, http.MethodPatch, path, nil, in, out, true)
}

// Put issues an authenticated PUT with a JSON body
func (c *Client) Put(ctx context.Context, path string, in, out interface{}) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, in, out, true)
}

// Delete issues an authenticated DELETE
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

// doJSON encodes in (when present) as a JSON body and executes
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out interface{}, authed bool) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, query, body, "application/json", out, authed)
}

// do builds, sends, and classifies one request. This is the only place
// a request leaves the client.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}, authed bool) error {
	var bearer string
	if authed {
		token, err := c.sessions.Token()
		if err != nil {
			return &Error{Kind: KindUnauthenticated, Message: "not logged in", cause: err}
		}
		if tokenExpired(token) {
			// An expired credential would bounce with a 401 anyway;
			// classify it here and clear, without touching the network.
			c.clearSession()
			return &Error{Kind: KindUnauthenticated, Message: "session expired"}
		}
		bearer = token.AccessToken
	}

	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" && body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	// The request ID rides the context so every log line for this call,
	// here or in the caller, carries the same correlation fields.
	ctx = observability.WithRequestID(ctx, requestID)
	log := observability.FromContext(observability.WithLogger(ctx, c.logger)).
		WithField("method", method).
		WithField("path", path)
	log.Debug("api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Navigation away, not a failure; the caller discards it.
			return ctx.Err()
		}
		log.WithError(err).Warn("api unreachable")
		return &Error{Kind: KindUnreachable, Message: "no response from server", cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &Error{Kind: KindUnreachable, Message: "read response", cause: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	apiErr := classifyStatus(resp.StatusCode, respBody)
	if apiErr.Kind == KindUnauthenticated && authed {
		// Central 401 handling: the credential is dead, so the session
		// is cleared for every consumer at once.
		c.clearSession()
	}
	log.WithField("status", resp.StatusCode).WithError(apiErr).Debug("api request failed")
	return apiErr
}

// clearSession drops the session after an authentication failure
func (c *Client) clearSession() {
	if err := c.sessions.Logout(); err != nil {
		c.logger.WithError(err).Warn("failed to clear session after auth failure")
	}
}

// tokenExpired reports whether the access token is already past its
// expiry. The expiry comes from the token record when set, otherwise
// from the JWT exp claim (read without verifying; the server verifies).
// Tokens that declare no expiry are sent as-is.
func tokenExpired(token *oauth2.Token) bool {
	if !token.Expiry.IsZero() {
		return time.Now().After(token.Expiry)
	}
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token.AccessToken, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Now().After(claims.ExpiresAt.Time)
}

// pathID formats a detail path like /payments/{id}/
func pathID(prefix string, id int64) string {
	return fmt.Sprintf("%s%d/", prefix, id)
}
