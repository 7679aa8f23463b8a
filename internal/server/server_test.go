package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonora/internal/offline"
	tu "github.com/desertthunder/sonora/internal/testing"
)

var quiet = log.New(io.Discard)

func TestBasicRouter(t *testing.T) {
	t.Run("Method filtering", func(t *testing.T) {
		r := NewBasicRouter()
		r.HandleFunc(http.MethodGet, "/ping", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("pong"))
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
			t.Errorf("GET /ping = %d %q", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != "GET" {
			t.Errorf("POST /ping = %d, Allow %q", rec.Code, rec.Header().Get("Allow"))
		}
	})

	t.Run("Middleware order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mark("outer"), mark("inner"))
		r.HandleFunc(http.MethodGet, "/", func(http.ResponseWriter, *http.Request) { order = append(order, "handler") })
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if strings.Join(order, ",") != "outer,inner,handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("Patterns", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handler(NewControlHandler(offline.NewRegistration(offline.NewMemoryStorage(), nil, quiet), quiet, nil))
		if got := r.Patterns(); len(got) != 5 || got[0] != ControlPrefix+"message" {
			t.Errorf("unexpected patterns %v", got)
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("RequestID assigns and reuses", func(t *testing.T) {
		var seen string
		h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = RequestIDFrom(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
			t.Errorf("expected generated id echoed, got %q / %q", seen, rec.Header().Get(RequestIDHeader))
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc")
		h.ServeHTTP(httptest.NewRecorder(), req)
		if seen != "abc" {
			t.Errorf("expected inbound id, got %q", seen)
		}
	})

	t.Run("Logging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)
		logger.SetLevel(log.DebugLevel)

		h := RequestID()(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/items", nil))

		out := buf.String()
		for _, want := range []string{"method=PUT", "path=/items", "status=201", "request_id="} {
			if !strings.Contains(out, want) {
				t.Errorf("log line missing %q: %s", want, out)
			}
		}
	})

	t.Run("Recover", func(t *testing.T) {
		h := Recover(quiet)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}

// upstream serves the default manifest plus /api/data.
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html>app shell</html>"))
		default:
			w.Write([]byte("upstream " + r.URL.Path))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// flakyNetwork fails every request while down is set.
func flakyNetwork(down *atomic.Bool) http.RoundTripper {
	return tu.RoundTripFunc(func(r *http.Request) (*http.Response, error) {
		if down.Load() {
			return nil, errors.New("connection refused")
		}
		return http.DefaultTransport.RoundTrip(r)
	})
}

func newActiveRegistration(t *testing.T, upstream string, network http.RoundTripper) *offline.Registration {
	t.Helper()
	origin, _ := url.Parse(upstream)
	storage := offline.NewMemoryStorage()
	reg := offline.NewRegistration(storage, network, quiet)

	w, err := offline.NewWorker(offline.Options{
		Version:     "v1",
		Origin:      origin,
		SkipWaiting: true,
		InstallRate: 1000,
		Storage:     storage,
		Network:     network,
		Logger:      quiet,
	})
	if err != nil {
		t.Fatalf("NewWorker failed: %v", err)
	}
	if err := reg.Register(context.Background(), w, nil); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return reg
}

func postJSON(t *testing.T, h http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, strings.NewReader(body)))
	return rec
}

func TestControlHandler(t *testing.T) {
	t.Run("GET_VERSION without worker", func(t *testing.T) {
		h := NewControlHandler(offline.NewRegistration(offline.NewMemoryStorage(), nil, quiet), quiet, nil)
		rec := postJSON(t, h, ControlPrefix+"message", `{"type":"GET_VERSION"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	up := newUpstream(t)
	var opened string
	h := NewControlHandler(newActiveRegistration(t, up.URL, nil), quiet, func(u string) error {
		opened = u
		return nil
	})

	t.Run("GET_VERSION", func(t *testing.T) {
		rec := postJSON(t, h, ControlPrefix+"message", `{"type":"GET_VERSION"}`)
		var reply offline.Reply
		_ = json.Unmarshal(rec.Body.Bytes(), &reply)
		if rec.Code != http.StatusOK || reply.Version != "sonora-v1" {
			t.Errorf("unexpected reply %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("SKIP_WAITING with nothing waiting", func(t *testing.T) {
		rec := postJSON(t, h, ControlPrefix+"message", `{"type":"SKIP_WAITING"}`)
		if rec.Code != http.StatusOK || strings.Contains(rec.Body.String(), "promoted") {
			t.Errorf("unexpected reply %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("Bad messages", func(t *testing.T) {
		if rec := postJSON(t, h, ControlPrefix+"message", `{"type":"PING"}`); rec.Code != http.StatusBadRequest {
			t.Errorf("unknown type: expected 400, got %d", rec.Code)
		}
		if rec := postJSON(t, h, ControlPrefix+"message", `{`); rec.Code != http.StatusBadRequest {
			t.Errorf("invalid JSON: expected 400, got %d", rec.Code)
		}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ControlPrefix+"message", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET: expected 405, got %d", rec.Code)
		}
	})

	t.Run("Sync", func(t *testing.T) {
		if rec := postJSON(t, h, ControlPrefix+"sync?tag=sync-playlists", ""); rec.Code != http.StatusNotImplemented {
			t.Errorf("known tag: expected 501, got %d", rec.Code)
		}
		if rec := postJSON(t, h, ControlPrefix+"sync?tag=other", ""); rec.Code != http.StatusOK {
			t.Errorf("unknown tag: expected 200, got %d", rec.Code)
		}
		if rec := postJSON(t, h, ControlPrefix+"sync", ""); rec.Code != http.StatusBadRequest {
			t.Errorf("missing tag: expected 400, got %d", rec.Code)
		}
	})

	t.Run("Push", func(t *testing.T) {
		rec := postJSON(t, h, ControlPrefix+"push", "")
		var n offline.Notification
		_ = json.Unmarshal(rec.Body.Bytes(), &n)
		if rec.Code != http.StatusOK || n != offline.DefaultNotification() {
			t.Errorf("unexpected notification %d %s", rec.Code, rec.Body.String())
		}

		rec = postJSON(t, h, ControlPrefix+"push", `{"title":"Weekly mix"}`)
		_ = json.Unmarshal(rec.Body.Bytes(), &n)
		if n.Title != "Weekly mix" {
			t.Errorf("expected title override, got %+v", n)
		}
	})

	t.Run("Notification click", func(t *testing.T) {
		rec := postJSON(t, h, ControlPrefix+"notificationclick", `{"data":{"url":"/playlist/7"}}`)
		var reply ClickReply
		_ = json.Unmarshal(rec.Body.Bytes(), &reply)
		if !reply.Opened || reply.URL != up.URL+"/playlist/7" || opened != reply.URL {
			t.Errorf("unexpected click reply %+v, opened %q", reply, opened)
		}
	})

	t.Run("Status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ControlPrefix+"status", nil))
		var st offline.Status
		_ = json.Unmarshal(rec.Body.Bytes(), &st)
		if rec.Code != http.StatusOK || st.Active != "sonora-v1" {
			t.Errorf("unexpected status %d %s", rec.Code, rec.Body.String())
		}
	})
}

func TestProxyHandler(t *testing.T) {
	up := newUpstream(t)
	var down atomic.Bool
	reg := newActiveRegistration(t, up.URL, flakyNetwork(&down))
	upstream, _ := url.Parse(up.URL)

	r := NewBasicRouter()
	r.Use(RequestID(), Recover(quiet))
	r.Handler(NewControlHandler(reg, quiet, nil))
	r.Handler(NewProxyHandler(upstream, reg, quiet))

	fetch := func(path string, header map[string]string) (int, string) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for k, v := range header {
			req.Header.Set(k, v)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code, rec.Body.String()
	}

	if code, body := fetch("/api/data", nil); code != http.StatusOK || body != "upstream /api/data" {
		t.Fatalf("online fetch = %d %q", code, body)
	}

	down.Store(true)

	t.Run("Cached response survives outage", func(t *testing.T) {
		if code, body := fetch("/api/data", nil); code != http.StatusOK || body != "upstream /api/data" {
			t.Errorf("expected cached response, got %d %q", code, body)
		}
	})

	t.Run("Navigation gets app shell", func(t *testing.T) {
		code, body := fetch("/library", map[string]string{"Sec-Fetch-Mode": "navigate"})
		if code != http.StatusOK || body != "<html>app shell</html>" {
			t.Errorf("expected app shell, got %d %q", code, body)
		}
	})

	t.Run("Other requests get 503", func(t *testing.T) {
		code, body := fetch("/api/other", nil)
		if code != http.StatusServiceUnavailable || !strings.Contains(body, "Offline") {
			t.Errorf("expected offline 503, got %d %q", code, body)
		}
	})

	t.Run("Control routes are not proxied", func(t *testing.T) {
		rec := postJSON(t, r, ControlPrefix+"message", `{"type":"GET_VERSION"}`)
		if rec.Code != http.StatusOK {
			t.Errorf("expected control reply, got %d", rec.Code)
		}
	})
}

func TestServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	r := NewBasicRouter()
	r.HandleFunc(http.MethodGet, "/ping", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("pong")) })
	srv := NewServer(ln.Addr().String(), r, quiet)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("expected pong, got %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
