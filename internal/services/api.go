// API service for making raw HTTP requests to the music API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/sonora/internal/shared"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "http://localhost:3001"

// APIService provides methods for making raw HTTP requests to the music API.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	retryDelay time.Duration
}

// NewAPIService creates a new API service instance.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// NewAuthorizedClient builds a client with the given timeout that asks src for a bearer credential on every
// request, so a login or logout applies to the next call. Requests go out bare while src has no valid token.
// A nil src yields a plain client.
func NewAuthorizedClient(src oauth2.TokenSource, timeout time.Duration, base http.RoundTripper) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}

	transport := base
	if src != nil {
		transport = &sessionTransport{source: src, base: base}
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

type sessionTransport struct {
	source oauth2.TokenSource
	base   http.RoundTripper
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, err := t.source.Token()
	if err != nil || !tok.Valid() {
		return t.base.RoundTrip(req)
	}
	authed := req.Clone(req.Context())
	tok.SetAuthHeader(authed)
	return t.base.RoundTrip(authed)
}

// WithRetries retries 5xx responses and timeouts up to n more times, waiting delay between attempts.
func (a *APIService) WithRetries(n int, delay time.Duration) *APIService {
	if n < 0 {
		n = 0
	}
	a.retries = n
	a.retryDelay = delay
	return a
}

// BaseURL returns the API root.
func (a *APIService) BaseURL() string { return a.baseURL }

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the body into v.
func (r *APIResponse) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= a.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(a.retryDelay):
			}
		}

		resp, err := a.send(ctx, method, path, data)
		switch {
		case err == nil && resp.StatusCode < 500:
			return resp, nil
		case err == nil:
			lastErr = fmt.Errorf("%w: %s %s returned %d", shared.ErrAPIRequest, method, path, resp.StatusCode)
			if attempt == a.retries {
				return resp, nil
			}
		case !retryable(ctx, err):
			return nil, err
		default:
			lastErr = err
		}
	}
	return nil, fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, lastErr)
}

func (a *APIService) send(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// retryable reports whether err is a timeout worth retrying. Refused connections fail fast.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
