package offline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/sonora/internal/models"
)

// OfflineBody is the JSON body of the synthesized 503.
type OfflineBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var offlineBody = OfflineBody{Error: "Offline", Message: "This content is not available offline"}

// RoundTrip serves req cache-first.
//
// Non-GET and non-HTTP(S) requests go straight to the network. A cached entry in any partition is returned
// without revalidation. On a miss the network response is returned, and a 200 from the worker's origin is copied
// into the dynamic partition first. When the network fails, navigations get the cached root document and
// everything else a 503 JSON body.
func (w *Worker) RoundTrip(req *http.Request) (*http.Response, error) {
	if !intercepts(req) {
		return w.opts.Network.RoundTrip(req)
	}

	ctx := req.Context()
	key := cacheKey(req.URL)

	cached, ok, err := w.opts.Storage.Match(ctx, key)
	if err != nil {
		w.logger.Warn("cache lookup failed", "url", key, "err", err)
	}
	if ok {
		w.logger.Debug("serving from cache", "url", key)
		return cachedResponse(req, cached), nil
	}

	resp, err := w.opts.Network.RoundTrip(req)
	if err != nil {
		w.logger.Error("fetch failed", "url", key, "err", err)
		return w.offline(req), nil
	}

	if resp.StatusCode != http.StatusOK || !w.sameOrigin(req.URL) {
		return resp, nil
	}
	return w.store(req, key, resp), nil
}

// store copies resp into the dynamic partition. Write failures are logged and never affect the response.
func (w *Worker) store(req *http.Request, key string, resp *http.Response) *http.Response {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		w.logger.Error("failed to read response for caching", "url", key, "err", err)
		resp.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), errReader{err}))
		return resp
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	ctx := req.Context()
	entry := models.CacheEntry{
		Partition: w.DynamicCache(),
		URL:       key,
		Status:    resp.StatusCode,
		Header:    resp.Header.Clone(),
		Body:      body,
	}
	if err := w.opts.Storage.Put(ctx, entry); err != nil {
		w.logger.Error("failed to cache resource", "url", key, "err", err)
		return resp
	}
	w.logger.Debug("cached new resource", "url", key)

	if w.opts.MaxDynamicEntries > 0 {
		if n, err := w.opts.Storage.Trim(ctx, w.DynamicCache(), w.opts.MaxDynamicEntries); err != nil {
			w.logger.Error("failed to trim dynamic cache", "err", err)
		} else if n > 0 {
			w.logger.Debug("trimmed dynamic cache", "removed", n)
		}
	}
	return resp
}

func (w *Worker) offline(req *http.Request) *http.Response {
	if isNavigation(req) {
		root, ok, err := w.opts.Storage.Match(req.Context(), w.resolve("/"))
		if err != nil {
			w.logger.Warn("root document lookup failed", "err", err)
		}
		if ok {
			return cachedResponse(req, root)
		}
	}

	body, _ := json.Marshal(offlineBody)
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable)),
		StatusCode:    http.StatusServiceUnavailable,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": []string{"application/json"}},
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

func cachedResponse(req *http.Request, e *models.CacheEntry) *http.Response {
	header := e.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

func intercepts(req *http.Request) bool {
	if req.Method != http.MethodGet && req.Method != "" {
		return false
	}
	return req.URL.Scheme == "http" || req.URL.Scheme == "https"
}

// isNavigation reports whether req loads a full page.
func isNavigation(req *http.Request) bool {
	if req.Header.Get("Sec-Fetch-Mode") == "navigate" || req.Header.Get("Sec-Fetch-Dest") == "document" {
		return true
	}
	return strings.Contains(req.Header.Get("Accept"), "text/html")
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
