package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/sonora/internal/shared"
	tu "github.com/desertthunder/sonora/internal/testing"
	"golang.org/x/oauth2"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com/", customClient)

			if srv.baseURL != "http://example.com" {
				t.Errorf("expected baseURL 'http://example.com', got %s", srv.baseURL)
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewAPIService("", nil)

			if srv.baseURL != defaultBaseURL {
				t.Errorf("expected default baseURL %s, got %s", defaultBaseURL, srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Successful Request With JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/genres" {
					t.Errorf("expected path '/genres', got %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode([]string{"pop"})
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).Get(context.Background(), "/genres")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.OK() || !resp.IsJSON {
				t.Errorf("expected OK JSON response, got %+v", resp)
			}
		})

		t.Run("Non-JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("plain"))
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).Get(context.Background(), "/")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON || string(resp.Body) != "plain" {
				t.Errorf("unexpected response %+v", resp)
			}
		})

		t.Run("Network Error", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			if _, err := NewAPIService("http://example.com", client).Get(context.Background(), "/"); err == nil {
				t.Error("expected error")
			}
		})

		t.Run("Read Error", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{StatusCode: 200, Body: &tu.FCloser{}, Header: http.Header{}}, nil)}
			_, err := NewAPIService("http://example.com", client).Get(context.Background(), "/")
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected read error, got %v", err)
			}
		})
	})

	t.Run("Post", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST method, got %s", r.Method)
			}
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("expected JSON content type, got %s", r.Header.Get("Content-Type"))
			}
			body, _ := io.ReadAll(r.Body)
			w.Write(body)
		}))
		defer server.Close()

		resp, err := NewAPIService(server.URL, nil).Post(context.Background(), "/echo", []byte(`{"a":1}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(resp.Body) != `{"a":1}` {
			t.Errorf("unexpected body %s", resp.Body)
		}
	})

	t.Run("Retries", func(t *testing.T) {
		t.Run("Server Errors", func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) < 3 {
					w.WriteHeader(http.StatusBadGateway)
					return
				}
				w.Write([]byte(`[]`))
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).WithRetries(3, 0).Get(context.Background(), "/")
			if err != nil || !resp.OK() {
				t.Fatalf("expected success after retries, got %v %+v", err, resp)
			}
			if calls.Load() != 3 {
				t.Errorf("expected 3 calls, got %d", calls.Load())
			}
		})

		t.Run("Exhausted Returns Last Response", func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).WithRetries(2, 0).Get(context.Background(), "/")
			if err != nil {
				t.Fatalf("expected response, got %v", err)
			}
			if resp.StatusCode != http.StatusServiceUnavailable || calls.Load() != 3 {
				t.Errorf("status %d after %d calls", resp.StatusCode, calls.Load())
			}
		})

		t.Run("Client Errors Are Not Retried", func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			_, _ = NewAPIService(server.URL, nil).WithRetries(3, 0).Get(context.Background(), "/")
			if calls.Load() != 1 {
				t.Errorf("expected 1 call, got %d", calls.Load())
			}
		})

		t.Run("Timeouts", func(t *testing.T) {
			var calls atomic.Int32
			client := &http.Client{Transport: tu.RoundTripFunc(func(*http.Request) (*http.Response, error) {
				calls.Add(1)
				return nil, timeoutErr{}
			})}

			_, err := NewAPIService("http://example.com", client).WithRetries(2, time.Millisecond).Get(context.Background(), "/")
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
			if calls.Load() != 3 {
				t.Errorf("expected 3 calls, got %d", calls.Load())
			}
		})
	})

	t.Run("NewAuthorizedClient", func(t *testing.T) {
		var auth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
		}))
		defer server.Close()

		static := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "abc", TokenType: "Bearer"})
		client := NewAuthorizedClient(static, time.Second, nil)
		if _, err := NewAPIService(server.URL, client).Get(context.Background(), "/"); err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if auth != "Bearer abc" {
			t.Errorf("expected bearer header, got %q", auth)
		}

		plain := NewAuthorizedClient(nil, time.Second, nil)
		if _, ok := plain.Transport.(*sessionTransport); ok {
			t.Error("nil source should not wrap the transport")
		}
	})

	t.Run("NewAuthorizedClient reads the token per request", func(t *testing.T) {
		var auth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
		}))
		defer server.Close()

		var current *oauth2.Token
		src := tokenFunc(func() (*oauth2.Token, error) {
			if current == nil {
				return nil, shared.ErrNotAuthenticated
			}
			return current, nil
		})
		api := NewAPIService(server.URL, NewAuthorizedClient(src, time.Second, nil))
		ctx := context.Background()

		if _, err := api.Get(ctx, "/"); err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if auth != "" {
			t.Errorf("expected no credentials while signed out, got %q", auth)
		}

		current = &oauth2.Token{AccessToken: "fresh", TokenType: "Bearer"}
		if _, err := api.Get(ctx, "/"); err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if auth != "Bearer fresh" {
			t.Errorf("expected token from the new session, got %q", auth)
		}

		current = nil
		if _, err := api.Get(ctx, "/"); err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if auth != "" {
			t.Errorf("expected credentials dropped after logout, got %q", auth)
		}
	})
}

type tokenFunc func() (*oauth2.Token, error)

func (f tokenFunc) Token() (*oauth2.Token, error) { return f() }
