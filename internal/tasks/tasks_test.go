package tasks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func assetServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html></html>"))
		case "/static/js/bundle.js":
			w.Write([]byte("console.log('hi')"))
		case "/boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPrecacher(t *testing.T) {
	t.Run("All Assets Fetched", func(t *testing.T) {
		srv := assetServer(t)
		urls := []string{srv.URL + "/", srv.URL + "/static/js/bundle.js"}

		prog := make(chan ProgressUpdate, 10)
		res, err := NewPrecacher(srv.Client()).Run(context.Background(), prog, "static-v1", urls, PrecacheOpts{NumWorkers: 2, RateLimit: 100})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if res.Succeeded != 2 || res.Failed != 0 || res.Err() != nil {
			t.Errorf("unexpected result %+v", res)
		}

		entries := res.Entries()
		if len(entries) != 2 || entries[0].URL != urls[0] || entries[1].URL != urls[1] {
			t.Fatalf("entries not in manifest order: %+v", entries)
		}
		if entries[0].Partition != "static-v1" || string(entries[0].Body) != "<html></html>" {
			t.Errorf("unexpected entry %+v", entries[0])
		}
		if entries[0].Header.Get("Content-Type") != "text/html" {
			t.Errorf("expected headers to be kept, got %v", entries[0].Header)
		}

		close(prog)
		var phases []Phase
		for u := range prog {
			phases = append(phases, u.Phase)
		}
		if len(phases) != 3 || phases[0] != FetchAssets {
			t.Errorf("expected 3 fetch updates, got %v", phases)
		}
	})

	t.Run("Failures Are Reported Per Asset", func(t *testing.T) {
		srv := assetServer(t)
		urls := []string{srv.URL + "/", srv.URL + "/missing.css", srv.URL + "/boom"}

		res, err := NewPrecacher(srv.Client()).Run(context.Background(), nil, "static-v1", urls, PrecacheOpts{RateLimit: 100})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if res.Succeeded != 1 || res.Failed != 2 {
			t.Errorf("expected 1 success and 2 failures, got %+v", res)
		}
		if err := res.Err(); err == nil || !strings.Contains(err.Error(), "missing.css") || !strings.Contains(err.Error(), "status 500") {
			t.Errorf("unexpected joined error %v", err)
		}
		if len(res.Entries()) != 1 {
			t.Errorf("expected one entry, got %d", len(res.Entries()))
		}
	})

	t.Run("Empty Manifest", func(t *testing.T) {
		res, err := NewPrecacher(nil).Run(context.Background(), nil, "static-v1", nil, PrecacheOpts{})
		if err != nil || res.Total != 0 {
			t.Errorf("Run() = %+v, %v", res, err)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		srv := assetServer(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewPrecacher(srv.Client()).Run(ctx, nil, "static-v1", []string{srv.URL + "/"}, PrecacheOpts{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{
		DiscoverAssets: "discover_assets",
		FetchAssets:    "fetch_assets",
		StoreAssets:    "store_assets",
		Activate:       "activate",
		Phase(99):      "",
	} {
		if p.String() != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, p.String(), want)
		}
	}
}

func TestSend(t *testing.T) {
	Send(nil, ProgressUpdate{})

	ch := make(chan ProgressUpdate)
	Send(ch, ProgressUpdate{Message: "dropped"})
}
