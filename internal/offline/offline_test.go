package offline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonora/internal/models"
	"github.com/desertthunder/sonora/internal/repositories"
	"github.com/desertthunder/sonora/internal/shared"
	tu "github.com/desertthunder/sonora/internal/testing"
)

var quiet = log.New(io.Discard)

const rootHTML = `<!doctype html>
<html>
<head>
  <link rel="stylesheet" href="/static/css/main.css">
  <link rel="manifest" href="manifest.json">
  <link rel="preconnect" href="https://fonts.example.com">
  <script src="/static/js/bundle.js"></script>
  <script src="https://cdn.example.com/lib.js"></script>
</head>
<body><img src="/logo.png"><img src="data:image/png;base64,AAAA"></body>
</html>`

// origin serves a small build; paths in missing answer 404.
type origin struct {
	*httptest.Server
	hits    atomic.Int32
	missing map[string]bool
}

func newOrigin(t *testing.T, missing ...string) *origin {
	t.Helper()
	o := &origin{missing: map[string]bool{}}
	for _, m := range missing {
		o.missing[m] = true
	}

	o.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		o.hits.Add(1)
		if o.missing[r.URL.Path] {
			http.NotFound(w, r)
			return
		}
		switch r.URL.Path {
		case "/":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(rootHTML))
		case "/moved":
			http.Redirect(w, r, "/", http.StatusFound)
		case "/api/echo":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"method":"` + r.Method + `"}`))
		default:
			w.Write([]byte("asset " + r.URL.Path))
		}
	}))
	t.Cleanup(o.Close)
	return o
}

func (o *origin) url(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse(o.URL)
	if err != nil {
		t.Fatalf("failed to parse origin url: %v", err)
	}
	return u
}

func newTestWorker(t *testing.T, o *origin, storage Storage, network http.RoundTripper, mutate ...func(*Options)) *Worker {
	t.Helper()
	opts := Options{
		AppName:     "sonora",
		Version:     "v1",
		Origin:      o.url(t),
		SkipWaiting: true,
		InstallRate: 1000,
		Storage:     storage,
		Network:     network,
		Logger:      quiet,
	}
	for _, m := range mutate {
		m(&opts)
	}

	w, err := NewWorker(opts)
	if err != nil {
		t.Fatalf("NewWorker failed: %v", err)
	}
	return w
}

func get(t *testing.T, rt http.RoundTripper, rawURL string, header map[string]string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp, string(body)
}

func TestWorkerLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("NewWorker validates", func(t *testing.T) {
		if _, err := NewWorker(Options{Version: "v1", Storage: NewMemoryStorage()}); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig without origin, got %v", err)
		}
		if _, err := NewWorker(Options{Origin: &url.URL{Scheme: "http", Host: "x"}, Storage: NewMemoryStorage()}); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig without version, got %v", err)
		}
	})

	t.Run("Names", func(t *testing.T) {
		w := newTestWorker(t, newOrigin(t), NewMemoryStorage(), nil)
		if w.CacheName() != "sonora-v1" || w.StaticCache() != "static-v1" || w.DynamicCache() != "dynamic-v1" {
			t.Errorf("unexpected names %s %s %s", w.CacheName(), w.StaticCache(), w.DynamicCache())
		}
		if w.State() != Installing {
			t.Errorf("expected installing, got %v", w.State())
		}
	})

	t.Run("Install stores manifest", func(t *testing.T) {
		o := newOrigin(t)
		storage := NewMemoryStorage()
		w := newTestWorker(t, o, storage, nil)

		if err := w.Install(ctx, nil); err != nil {
			t.Fatalf("Install failed: %v", err)
		}
		if w.State() != Waiting {
			t.Errorf("expected waiting, got %v", w.State())
		}

		n, _ := storage.Count(ctx, "static-v1")
		if n != len(DefaultManifest) {
			t.Errorf("expected %d precached assets, got %d", len(DefaultManifest), n)
		}
		root, ok, _ := storage.MatchIn(ctx, "static-v1", o.URL+"/")
		if !ok || !strings.Contains(string(root.Body), "bundle.js") {
			t.Error("root document should be precached")
		}
	})

	t.Run("Install fails on missing asset", func(t *testing.T) {
		o := newOrigin(t, "/manifest.json")
		storage := NewMemoryStorage()
		w := newTestWorker(t, o, storage, nil)

		err := w.Install(ctx, nil)
		if !errors.Is(err, shared.ErrInstallFailed) {
			t.Fatalf("expected ErrInstallFailed, got %v", err)
		}
		if !strings.Contains(err.Error(), "/manifest.json") {
			t.Errorf("error should name the missing asset: %v", err)
		}
		if w.State() != Redundant {
			t.Errorf("expected redundant, got %v", w.State())
		}
		if keys, _ := storage.Keys(ctx); len(keys) != 0 {
			t.Errorf("nothing should be stored, got partitions %v", keys)
		}
	})

	t.Run("Install fails when storage fails", func(t *testing.T) {
		storage := NewMemoryStorage()
		storage.FailWrites = true
		w := newTestWorker(t, newOrigin(t), storage, nil)
		if err := w.Install(ctx, nil); !errors.Is(err, shared.ErrInstallFailed) {
			t.Errorf("expected ErrInstallFailed, got %v", err)
		}
	})

	t.Run("Activate deletes only stale partitions", func(t *testing.T) {
		storage := NewMemoryStorage()
		for _, name := range []string{"music-streaming-v1", "static-v1", "dynamic-v1"} {
			if err := storage.Open(ctx, name); err != nil {
				t.Fatalf("Open failed: %v", err)
			}
		}

		w := newTestWorker(t, newOrigin(t), storage, nil)
		deleted, err := w.Activate(ctx)
		if err != nil {
			t.Fatalf("Activate failed: %v", err)
		}
		if !slices.Equal(deleted, []string{"music-streaming-v1"}) {
			t.Errorf("expected only music-streaming-v1 deleted, got %v", deleted)
		}
		if keys, _ := storage.Keys(ctx); !slices.Equal(keys, []string{"static-v1", "dynamic-v1"}) {
			t.Errorf("unexpected remaining partitions %v", keys)
		}
		if w.State() != Active {
			t.Errorf("expected active, got %v", w.State())
		}
	})
}

func TestWorkerFetch(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*origin, *MemoryStorage, *tu.CountingTransport, *Worker) {
		t.Helper()
		o := newOrigin(t)
		storage := NewMemoryStorage()
		network := &tu.CountingTransport{Next: http.DefaultTransport}
		w := newTestWorker(t, o, storage, network, func(opts *Options) { opts.MaxDynamicEntries = 2 })
		return o, storage, network, w
	}

	t.Run("Cached GET skips network", func(t *testing.T) {
		o, storage, network, w := setup(t)
		_ = storage.Put(ctx, models.CacheEntry{
			Partition: "static-v1",
			URL:       o.URL + "/static/js/bundle.js",
			Status:    http.StatusOK,
			Header:    http.Header{"Content-Type": []string{"text/javascript"}},
			Body:      []byte("cached bundle"),
		})

		resp, body := get(t, w, o.URL+"/static/js/bundle.js", nil)
		if body != "cached bundle" || resp.StatusCode != http.StatusOK {
			t.Errorf("expected cached body, got %d %q", resp.StatusCode, body)
		}
		if resp.Header.Get("Content-Type") != "text/javascript" {
			t.Errorf("expected cached headers, got %v", resp.Header)
		}
		if network.Total() != 0 {
			t.Errorf("expected no network calls, got %d", network.Total())
		}
	})

	t.Run("Miss is fetched and cached", func(t *testing.T) {
		o, storage, network, w := setup(t)

		_, body := get(t, w, o.URL+"/static/img/a.png", nil)
		if body != "asset /static/img/a.png" {
			t.Errorf("unexpected body %q", body)
		}
		entry, ok, _ := storage.MatchIn(ctx, "dynamic-v1", o.URL+"/static/img/a.png")
		if !ok || string(entry.Body) != body {
			t.Fatal("same-origin 200 should be cached in the dynamic partition")
		}

		_, again := get(t, w, o.URL+"/static/img/a.png", nil)
		if again != body || network.Total() != 1 {
			t.Errorf("second request should be served from cache, network calls %d", network.Total())
		}
	})

	t.Run("Non-200 and redirects are not cached", func(t *testing.T) {
		o, storage, _, w := setup(t)

		resp, _ := get(t, w, o.URL+"/moved", nil)
		if resp.StatusCode != http.StatusFound {
			t.Errorf("expected redirect to pass through, got %d", resp.StatusCode)
		}
		o.missing["/gone"] = true
		get(t, w, o.URL+"/gone", nil)

		if n, _ := storage.Count(ctx, "dynamic-v1"); n != 0 {
			t.Errorf("expected nothing cached, got %d", n)
		}
	})

	t.Run("Cross-origin responses are not cached", func(t *testing.T) {
		_, storage, _, w := setup(t)
		other := newOrigin(t)

		get(t, w, other.URL+"/static/js/bundle.js", nil)
		if n, _ := storage.Count(ctx, "dynamic-v1"); n != 0 {
			t.Errorf("expected nothing cached, got %d", n)
		}
	})

	t.Run("Non-GET passes through", func(t *testing.T) {
		o, storage, network, w := setup(t)

		req, _ := http.NewRequest(http.MethodPost, o.URL+"/api/echo", strings.NewReader("{}"))
		resp, err := w.RoundTrip(req)
		if err != nil {
			t.Fatalf("RoundTrip failed: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if string(body) != `{"method":"POST"}` || network.Total() != 1 {
			t.Errorf("expected POST to reach the origin, got %q", body)
		}
		if keys, _ := storage.Keys(ctx); len(keys) != 0 {
			t.Errorf("POST should not touch the cache, got %v", keys)
		}
	})

	t.Run("Dynamic partition is bounded", func(t *testing.T) {
		o, storage, _, w := setup(t)
		for _, p := range []string{"/a", "/b", "/c"} {
			get(t, w, o.URL+p, nil)
		}

		if n, _ := storage.Count(ctx, "dynamic-v1"); n != 2 {
			t.Errorf("expected 2 entries after trimming, got %d", n)
		}
		if _, ok, _ := storage.MatchIn(ctx, "dynamic-v1", o.URL+"/a"); ok {
			t.Error("oldest entry should be trimmed")
		}
	})

	t.Run("Cache write failures are swallowed", func(t *testing.T) {
		o, storage, _, w := setup(t)
		storage.FailWrites = true

		resp, body := get(t, w, o.URL+"/static/img/b.png", nil)
		if resp.StatusCode != http.StatusOK || body != "asset /static/img/b.png" {
			t.Errorf("response should be unaffected, got %d %q", resp.StatusCode, body)
		}
	})
}

func TestWorkerOffline(t *testing.T) {
	ctx := context.Background()
	down := tu.RoundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("network is unreachable")
	})

	t.Run("Navigation falls back to root document", func(t *testing.T) {
		o := newOrigin(t)
		storage := NewMemoryStorage()
		_ = storage.Put(ctx, models.CacheEntry{Partition: "static-v1", URL: o.URL + "/", Status: 200, Body: []byte("root page")})
		w := newTestWorker(t, o, storage, down)

		for _, header := range []map[string]string{
			{"Sec-Fetch-Mode": "navigate"},
			{"Sec-Fetch-Dest": "document"},
			{"Accept": "text/html,application/xhtml+xml"},
		} {
			resp, body := get(t, w, o.URL+"/playlist/42", header)
			if resp.StatusCode != http.StatusOK || body != "root page" {
				t.Errorf("%v: expected cached root, got %d %q", header, resp.StatusCode, body)
			}
		}
	})

	t.Run("Other requests get 503 JSON", func(t *testing.T) {
		o := newOrigin(t)
		w := newTestWorker(t, o, NewMemoryStorage(), down)

		resp, body := get(t, w, o.URL+"/api/songs", map[string]string{"Accept": "application/json"})
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", resp.StatusCode)
		}
		if resp.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %q", resp.Header.Get("Content-Type"))
		}

		var got OfflineBody
		if err := json.Unmarshal([]byte(body), &got); err != nil {
			t.Fatalf("invalid JSON body %q: %v", body, err)
		}
		if got.Error != "Offline" || got.Message != "This content is not available offline" {
			t.Errorf("unexpected body %+v", got)
		}
	})

	t.Run("Navigation without cached root", func(t *testing.T) {
		o := newOrigin(t)
		w := newTestWorker(t, o, NewMemoryStorage(), down)
		resp, _ := get(t, w, o.URL+"/", map[string]string{"Sec-Fetch-Mode": "navigate"})
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", resp.StatusCode)
		}
	})
}

func TestRegistration(t *testing.T) {
	ctx := context.Background()

	t.Run("First worker activates", func(t *testing.T) {
		o := newOrigin(t)
		storage := NewMemoryStorage()
		reg := NewRegistration(storage, nil, quiet)

		if _, err := reg.HandleMessage(ctx, Message{Type: MessageGetVersion}); !errors.Is(err, shared.ErrNoActiveWorker) {
			t.Errorf("expected ErrNoActiveWorker, got %v", err)
		}

		w := newTestWorker(t, o, storage, nil, func(opts *Options) { opts.SkipWaiting = false })
		if err := reg.Register(ctx, w, nil); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if reg.Active() != w || w.State() != Active {
			t.Error("first worker should activate without waiting")
		}

		reply, err := reg.HandleMessage(ctx, Message{Type: MessageGetVersion})
		if err != nil || reply.Version != "sonora-v1" {
			t.Errorf("GET_VERSION = %+v, %v", reply, err)
		}
	})

	t.Run("Skip waiting", func(t *testing.T) {
		o := newOrigin(t)
		storage := NewMemoryStorage()
		reg := NewRegistration(storage, nil, quiet)

		v1 := newTestWorker(t, o, storage, nil)
		_ = reg.Register(ctx, v1, nil)

		v2 := newTestWorker(t, o, storage, nil, func(opts *Options) {
			opts.Version = "v2"
			opts.SkipWaiting = false
		})
		if err := reg.Register(ctx, v2, nil); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if reg.Active() != v1 || reg.Waiting() != v2 || v2.State() != Waiting {
			t.Fatal("v2 should wait behind v1")
		}

		reply, err := reg.HandleMessage(ctx, Message{Type: MessageSkipWaiting})
		if err != nil || !reply.Promoted {
			t.Fatalf("SKIP_WAITING = %+v, %v", reply, err)
		}
		if reg.Active() != v2 || reg.Waiting() != nil || v1.State() != Redundant {
			t.Error("v2 should replace v1")
		}
		if keys, _ := storage.Keys(ctx); !slices.Equal(keys, []string{"static-v2"}) {
			t.Errorf("v1 partitions should be deleted, got %v", keys)
		}

		reply, _ = reg.HandleMessage(ctx, Message{Type: MessageSkipWaiting})
		if reply.Promoted {
			t.Error("nothing should be promoted the second time")
		}
	})

	t.Run("Skip waiting by default", func(t *testing.T) {
		o := newOrigin(t)
		storage := NewMemoryStorage()
		reg := NewRegistration(storage, nil, quiet)

		v1 := newTestWorker(t, o, storage, nil)
		v2 := newTestWorker(t, o, storage, nil, func(opts *Options) { opts.Version = "v2" })
		_ = reg.Register(ctx, v1, nil)
		_ = reg.Register(ctx, v2, nil)

		if reg.Active() != v2 || v1.State() != Redundant {
			t.Error("v2 should activate immediately")
		}
	})

	t.Run("Failed install keeps active worker", func(t *testing.T) {
		o := newOrigin(t)
		storage := NewMemoryStorage()
		reg := NewRegistration(storage, nil, quiet)

		v1 := newTestWorker(t, o, storage, nil)
		_ = reg.Register(ctx, v1, nil)

		v2 := newTestWorker(t, o, storage, nil, func(opts *Options) {
			opts.Version = "v2"
			opts.Manifest = []string{"/", "/missing.js"}
		})
		o.missing["/missing.js"] = true

		if err := reg.Register(ctx, v2, nil); !errors.Is(err, shared.ErrInstallFailed) {
			t.Fatalf("expected ErrInstallFailed, got %v", err)
		}
		if reg.Active() != v1 || v1.State() != Active {
			t.Error("v1 should stay active")
		}
	})

	t.Run("RoundTrip without active worker", func(t *testing.T) {
		o := newOrigin(t)
		reg := NewRegistration(NewMemoryStorage(), nil, quiet)
		_, body := get(t, reg, o.URL+"/x", nil)
		if body != "asset /x" {
			t.Errorf("expected network response, got %q", body)
		}
	})

	t.Run("Status and Clear", func(t *testing.T) {
		o := newOrigin(t)
		storage := NewMemoryStorage()
		reg := NewRegistration(storage, nil, quiet)
		_ = reg.Register(ctx, newTestWorker(t, o, storage, nil), nil)

		st, err := reg.Status(ctx)
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if st.Active != "sonora-v1" || len(st.Partitions) != 1 || st.Partitions[0].Entries != len(DefaultManifest) {
			t.Errorf("unexpected status %+v", st)
		}

		cleared, err := reg.Clear(ctx)
		if err != nil || !slices.Equal(cleared, []string{"static-v1"}) {
			t.Errorf("Clear() = %v, %v", cleared, err)
		}
	})

	t.Run("Unknown message", func(t *testing.T) {
		reg := NewRegistration(NewMemoryStorage(), nil, quiet)
		if _, err := reg.HandleMessage(ctx, Message{Type: "PING"}); !errors.Is(err, shared.ErrUnknownMessage) {
			t.Errorf("expected ErrUnknownMessage, got %v", err)
		}
	})
}

func TestEvents(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistration(NewMemoryStorage(), nil, quiet)

	t.Run("Sync", func(t *testing.T) {
		for _, tag := range []string{SyncLikedSongs, SyncPlaylists} {
			if err := reg.Sync(ctx, tag); !errors.Is(err, shared.ErrNotImplemented) {
				t.Errorf("%s: expected ErrNotImplemented, got %v", tag, err)
			}
		}
		if err := reg.Sync(ctx, "sync-other"); err != nil {
			t.Errorf("unknown tags should be ignored, got %v", err)
		}
	})

	t.Run("Push", func(t *testing.T) {
		n, err := reg.Push(nil)
		if err != nil || n != DefaultNotification() {
			t.Errorf("Push(nil) = %+v, %v", n, err)
		}

		n, err = reg.Push([]byte(`{"body":"New album out","data":{"url":"/artist/1"}}`))
		if err != nil {
			t.Fatalf("Push failed: %v", err)
		}
		if n.Body != "New album out" || n.Data.URL != "/artist/1" || n.Tag != "music-notification" {
			t.Errorf("unexpected notification %+v", n)
		}

		if _, err := reg.Push([]byte("{")); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("NotificationClick", func(t *testing.T) {
		if got := reg.NotificationClick(Notification{}); got != "/" {
			t.Errorf("expected /, got %s", got)
		}

		o := newOrigin(t)
		storage := NewMemoryStorage()
		active := NewRegistration(storage, nil, quiet)
		_ = active.Register(ctx, newTestWorker(t, o, storage, nil), nil)
		if got := active.NotificationClick(Notification{Data: NotificationData{URL: "/artist/1"}}); got != o.URL+"/artist/1" {
			t.Errorf("expected absolute url, got %s", got)
		}
	})
}

func TestDiscoverAssets(t *testing.T) {
	o := newOrigin(t)
	paths, err := DiscoverAssets(context.Background(), o.Client(), o.url(t))
	if err != nil {
		t.Fatalf("DiscoverAssets failed: %v", err)
	}

	want := []string{"/", "/static/js/bundle.js", "/static/css/main.css", "/manifest.json", "/logo.png"}
	if !slices.Equal(paths, want) {
		t.Errorf("expected %v, got %v", want, paths)
	}

	merged := MergeManifest(DefaultManifest, paths)
	if len(merged) != 5 || merged[4] != "/logo.png" {
		t.Errorf("unexpected merged manifest %v", merged)
	}

	o.missing["/"] = true
	if _, err := DiscoverAssets(context.Background(), o.Client(), o.url(t)); err == nil {
		t.Error("expected error when root document is missing")
	}
}

func TestHashVersionAndWatcher(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	tu.MustWriteFile(t, filepath.Join(dir, "index.html"), "<html>one</html>")

	v1, err := HashVersion(dir)
	if err != nil {
		t.Fatalf("HashVersion failed: %v", err)
	}
	if again, _ := HashVersion(dir); again != v1 {
		t.Error("version should be stable")
	}
	if !strings.HasPrefix(v1, "v") || len(v1) != 11 {
		t.Errorf("unexpected version format %q", v1)
	}

	o := newOrigin(t)
	storage := NewMemoryStorage()
	reg := NewRegistration(storage, nil, quiet)
	build := func(version string) (*Worker, error) {
		return NewWorker(Options{Version: version, Origin: o.url(t), Storage: storage, SkipWaiting: true, InstallRate: 1000, Logger: quiet})
	}

	w := NewWatcher(dir, v1, reg, build, quiet)
	if got := w.Check(ctx); got != "" {
		t.Errorf("unchanged directory should not register, got %q", got)
	}

	tu.MustWriteFile(t, filepath.Join(dir, "index.html"), "<html>two</html>")
	v2 := w.Check(ctx)
	if v2 == "" || v2 == v1 {
		t.Fatalf("expected a new version, got %q", v2)
	}
	if active := reg.Active(); active == nil || active.Version() != v2 {
		t.Error("new version should be active")
	}
}

func TestSQLiteStorage(t *testing.T) {
	ctx := context.Background()
	db, err := shared.OpenMigrated(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	o := newOrigin(t)
	storage := repositories.NewCacheRepository(db)
	_ = storage.Open(ctx, "music-streaming-v1")

	reg := NewRegistration(storage, nil, quiet)
	if err := reg.Register(ctx, newTestWorker(t, o, storage, nil), nil); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	keys, _ := storage.Keys(ctx)
	if !slices.Equal(keys, []string{"static-v1"}) {
		t.Errorf("expected only static-v1 after activation, got %v", keys)
	}

	hits := o.hits.Load()
	_, body := get(t, reg, o.URL+"/", nil)
	if !strings.Contains(body, "bundle.js") || o.hits.Load() != hits {
		t.Error("precached root should be served from sqlite without hitting the origin")
	}
}
