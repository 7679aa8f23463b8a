package offline

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonora/internal/shared"
	"github.com/desertthunder/sonora/internal/tasks"
)

// Registration routes traffic to the active worker and holds at most one waiting successor.
type Registration struct {
	mu      sync.RWMutex
	active  *Worker
	waiting *Worker

	storage Storage
	network http.RoundTripper
	logger  *log.Logger
}

// NewRegistration creates an empty registration. Until a worker activates, requests go straight to network.
func NewRegistration(storage Storage, network http.RoundTripper, logger *log.Logger) *Registration {
	if network == nil {
		network = http.DefaultTransport
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Registration{storage: storage, network: network, logger: logger}
}

// Register installs w. On success w becomes active when it skips waiting or nothing is active yet, and waits
// otherwise. A failed install leaves the current workers untouched.
func (r *Registration) Register(ctx context.Context, w *Worker, prog chan<- tasks.ProgressUpdate) error {
	if err := w.Install(ctx, prog); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if w.opts.SkipWaiting || r.active == nil {
		return r.activate(ctx, w, prog)
	}

	if r.waiting != nil && r.waiting != w {
		r.waiting.setState(Redundant)
	}
	r.waiting = w
	r.logger.Info("worker waiting", "version", w.CacheName())
	return nil
}

// SkipWaiting promotes the waiting worker, reporting whether there was one.
func (r *Registration) SkipWaiting(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.waiting == nil {
		return false, nil
	}
	if err := r.activate(ctx, r.waiting, nil); err != nil {
		return false, err
	}
	return true, nil
}

// activate claims traffic for w. Callers hold mu.
func (r *Registration) activate(ctx context.Context, w *Worker, prog chan<- tasks.ProgressUpdate) error {
	deleted, err := w.Activate(ctx)
	if err != nil {
		return err
	}

	if r.active != nil && r.active != w {
		r.active.setState(Redundant)
	}
	if r.waiting == w {
		r.waiting = nil
	}
	r.active = w

	tasks.Send(prog, tasks.ActivatedUpdate(w.CacheName(), deleted))
	r.logger.Info("worker activated", "version", w.CacheName(), "deleted", deleted)
	return nil
}

// Active returns the worker handling traffic, or nil.
func (r *Registration) Active() *Worker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Waiting returns the installed successor, or nil.
func (r *Registration) Waiting() *Worker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.waiting
}

// RoundTrip hands req to the active worker.
func (r *Registration) RoundTrip(req *http.Request) (*http.Response, error) {
	if w := r.Active(); w != nil {
		return w.RoundTrip(req)
	}
	return r.network.RoundTrip(req)
}

// PartitionStatus describes one cache partition.
type PartitionStatus struct {
	Name    string `json:"name"`
	Entries int    `json:"entries"`
}

// Status is a diagnostic snapshot of the registration.
type Status struct {
	Active     string            `json:"active,omitempty"`
	Waiting    string            `json:"waiting,omitempty"`
	Partitions []PartitionStatus `json:"partitions"`
}

// Status reports the workers and the size of every partition.
func (r *Registration) Status(ctx context.Context) (*Status, error) {
	st := &Status{Partitions: []PartitionStatus{}}
	if w := r.Active(); w != nil {
		st.Active = w.CacheName()
	}
	if w := r.Waiting(); w != nil {
		st.Waiting = w.CacheName()
	}

	keys, err := r.storage.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list caches: %w", err)
	}
	for _, name := range keys {
		n, err := r.storage.Count(ctx, name)
		if err != nil {
			return nil, err
		}
		st.Partitions = append(st.Partitions, PartitionStatus{Name: name, Entries: n})
	}
	return st, nil
}

// Clear deletes every partition and returns their names.
func (r *Registration) Clear(ctx context.Context) ([]string, error) {
	keys, err := r.storage.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list caches: %w", err)
	}
	for _, name := range keys {
		if _, err := r.storage.Delete(ctx, name); err != nil {
			return nil, fmt.Errorf("failed to delete cache %s: %w", name, err)
		}
	}
	return keys, nil
}

// Control message types.
const (
	MessageSkipWaiting = "SKIP_WAITING"
	MessageGetVersion  = "GET_VERSION"
)

// Message is an inbound control message.
type Message struct {
	Type string `json:"type"`
}

// Reply answers a control message.
type Reply struct {
	Version  string `json:"version,omitempty"`
	Promoted bool   `json:"promoted,omitempty"`
}

// HandleMessage answers SKIP_WAITING and GET_VERSION.
func (r *Registration) HandleMessage(ctx context.Context, msg Message) (Reply, error) {
	r.logger.Debug("received message", "type", msg.Type)

	switch msg.Type {
	case MessageSkipWaiting:
		promoted, err := r.SkipWaiting(ctx)
		return Reply{Promoted: promoted}, err
	case MessageGetVersion:
		w := r.Active()
		if w == nil {
			return Reply{}, shared.ErrNoActiveWorker
		}
		return Reply{Version: w.CacheName()}, nil
	default:
		return Reply{}, fmt.Errorf("%w: %q", shared.ErrUnknownMessage, msg.Type)
	}
}
