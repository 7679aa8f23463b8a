package server

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/charmbracelet/log"
)

// ProxyHandler forwards requests to an upstream origin through a caching transport.
type ProxyHandler struct {
	proxy *httputil.ReverseProxy
}

// NewProxyHandler proxies every request to upstream using transport, usually an [offline.Registration].
func NewProxyHandler(upstream *url.URL, transport http.RoundTripper, logger *log.Logger) *ProxyHandler {
	if logger == nil {
		logger = log.Default()
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.SetXForwarded()
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("proxy request failed", "path", r.URL.Path, "err", err)
			http.Error(w, "Bad gateway", http.StatusBadGateway)
		},
	}
	return &ProxyHandler{proxy: proxy}
}

// Routes returns the catch-all pattern.
func (h *ProxyHandler) Routes() []string { return []string{"/"} }

func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.proxy.ServeHTTP(w, r)
}
