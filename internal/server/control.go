package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonora/internal/offline"
	"github.com/desertthunder/sonora/internal/shared"
)

// ControlPrefix is the path prefix of the worker control surface.
const ControlPrefix = "/__sonora/sw/"

const maxControlBody = 64 << 10

// ControlHandler serves worker messages, sync, push and notification clicks.
type ControlHandler struct {
	reg    *offline.Registration
	logger *log.Logger
	// open is called with the resolved URL of a clicked notification. Nil disables opening.
	open func(url string) error
}

// NewControlHandler creates a ControlHandler for reg. opener may be nil.
func NewControlHandler(reg *offline.Registration, logger *log.Logger, opener func(string) error) *ControlHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &ControlHandler{reg: reg, logger: logger, open: opener}
}

// Routes returns the HTTP routes this handler serves.
func (h *ControlHandler) Routes() []string {
	return []string{
		ControlPrefix + "message",
		ControlPrefix + "sync",
		ControlPrefix + "push",
		ControlPrefix + "notificationclick",
		ControlPrefix + "status",
	}
}

// SyncReply answers a sync request.
type SyncReply struct {
	Tag    string `json:"tag"`
	Status string `json:"status"`
}

// ClickReply answers a notification click.
type ClickReply struct {
	URL    string `json:"url"`
	Opened bool   `json:"opened"`
}

// ErrorReply is the body of every failed control request.
type ErrorReply struct {
	Error string `json:"error"`
}

func (h *ControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path[len(ControlPrefix):]

	want := http.MethodPost
	if path == "status" {
		want = http.MethodGet
	}
	if r.Method != want {
		w.Header().Set("Allow", want)
		writeJSON(w, http.StatusMethodNotAllowed, ErrorReply{Error: "method not allowed"})
		return
	}

	switch path {
	case "message":
		h.message(w, r)
	case "sync":
		h.sync(w, r)
	case "push":
		h.push(w, r)
	case "notificationclick":
		h.click(w, r)
	case "status":
		h.status(w, r)
	default:
		writeJSON(w, http.StatusNotFound, ErrorReply{Error: "not found"})
	}
}

func (h *ControlHandler) message(w http.ResponseWriter, r *http.Request) {
	var msg offline.Message
	if err := decodeBody(r, &msg); err != nil {
		h.fail(w, err)
		return
	}

	reply, err := h.reg.HandleMessage(r.Context(), msg)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *ControlHandler) sync(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")
	if tag == "" {
		h.fail(w, fmt.Errorf("%w: tag", shared.ErrMissingArgument))
		return
	}

	if err := h.reg.Sync(r.Context(), tag); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SyncReply{Tag: tag, Status: "ignored"})
}

func (h *ControlHandler) push(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxControlBody))
	if err != nil {
		h.fail(w, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err))
		return
	}

	n, err := h.reg.Push(payload)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *ControlHandler) click(w http.ResponseWriter, r *http.Request) {
	var n offline.Notification
	if err := decodeBody(r, &n); err != nil {
		h.fail(w, err)
		return
	}

	reply := ClickReply{URL: h.reg.NotificationClick(n)}
	if h.open != nil {
		if err := h.open(reply.URL); err != nil {
			h.logger.Warn("failed to open notification target", "url", reply.URL, "err", err)
		} else {
			reply.Opened = true
		}
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *ControlHandler) status(w http.ResponseWriter, r *http.Request) {
	st, err := h.reg.Status(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *ControlHandler) fail(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError && code != http.StatusNotImplemented {
		h.logger.Error("control request failed", "err", err)
	} else {
		h.logger.Debug("control request rejected", "err", err)
	}
	writeJSON(w, code, ErrorReply{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrUnknownMessage),
		errors.Is(err, shared.ErrMissingArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNoActiveWorker):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrNotImplemented):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON body into dst. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxControlBody))
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
