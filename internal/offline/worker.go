package offline

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonora/internal/shared"
	"github.com/desertthunder/sonora/internal/tasks"
)

// State is a worker's lifecycle stage.
type State int

const (
	Installing State = iota
	Waiting
	Active
	Redundant
)

func (s State) String() string {
	switch s {
	case Installing:
		return "installing"
	case Waiting:
		return "waiting"
	case Active:
		return "active"
	case Redundant:
		return "redundant"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DefaultManifest lists the build assets precached on install.
var DefaultManifest = []string{"/", "/static/js/bundle.js", "/static/css/main.css", "/manifest.json"}

// Options configures a [Worker].
type Options struct {
	AppName string // prefix of the version tag, e.g. "sonora"
	Version string // e.g. "v1"

	// Origin is the upstream the worker fronts. Only its responses are written to the dynamic partition.
	Origin   *url.URL
	Manifest []string // paths relative to Origin

	MaxDynamicEntries int  // <= 0 disables trimming
	SkipWaiting       bool // activate as soon as install succeeds

	InstallWorkers int
	InstallRate    float64

	Storage Storage
	// Network performs uncached requests. Defaults to [http.DefaultTransport].
	Network http.RoundTripper
	Logger  *log.Logger
}

// Worker is one version of the caching intermediary.
type Worker struct {
	opts   Options
	logger *log.Logger

	mu    sync.Mutex
	state State
}

// NewWorker creates a worker in the Installing state.
func NewWorker(opts Options) (*Worker, error) {
	if opts.Origin == nil || opts.Origin.Host == "" {
		return nil, fmt.Errorf("%w: offline origin is required", shared.ErrInvalidConfig)
	}
	if opts.Version == "" {
		return nil, fmt.Errorf("%w: offline version is required", shared.ErrInvalidConfig)
	}
	if opts.Storage == nil {
		return nil, fmt.Errorf("%w: offline storage is required", shared.ErrInvalidConfig)
	}
	if opts.AppName == "" {
		opts.AppName = "sonora"
	}
	if opts.Manifest == nil {
		opts.Manifest = DefaultManifest
	}
	if opts.Network == nil {
		opts.Network = http.DefaultTransport
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	origin := *opts.Origin
	origin.Path, origin.RawQuery, origin.Fragment = "", "", ""
	opts.Origin = &origin

	return &Worker{
		opts:   opts,
		logger: opts.Logger.With("worker", opts.AppName+"-"+opts.Version),
		state:  Installing,
	}, nil
}

// Version returns the bare version, e.g. "v1".
func (w *Worker) Version() string { return w.opts.Version }

// CacheName is the version tag reported to clients, e.g. "sonora-v1".
func (w *Worker) CacheName() string { return w.opts.AppName + "-" + w.opts.Version }

// StaticCache is the precache partition name.
func (w *Worker) StaticCache() string { return "static-" + w.opts.Version }

// DynamicCache is the runtime partition name.
func (w *Worker) DynamicCache() string { return "dynamic-" + w.opts.Version }

// Origin returns the upstream origin.
func (w *Worker) Origin() *url.URL {
	u := *w.opts.Origin
	return &u
}

// Manifest returns the precache paths.
func (w *Worker) Manifest() []string { return slices.Clone(w.opts.Manifest) }

// State returns the lifecycle stage.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = s
}

// Install precaches the manifest. Every asset must be fetched with a 200 or nothing is stored; a failed install
// leaves the worker redundant.
func (w *Worker) Install(ctx context.Context, prog chan<- tasks.ProgressUpdate) error {
	w.setState(Installing)
	w.logger.Info("installing", "assets", len(w.opts.Manifest))

	urls := make([]string, len(w.opts.Manifest))
	for i, p := range w.opts.Manifest {
		urls[i] = w.resolve(p)
	}

	precacher := tasks.NewPrecacher(&http.Client{Transport: w.opts.Network})
	res, err := precacher.Run(ctx, prog, w.StaticCache(), urls, tasks.PrecacheOpts{
		NumWorkers: w.opts.InstallWorkers,
		RateLimit:  w.opts.InstallRate,
	})
	if err == nil {
		err = res.Err()
	}
	if err != nil {
		w.setState(Redundant)
		w.logger.Error("failed to cache static assets", "err", err)
		return fmt.Errorf("%w: %w", shared.ErrInstallFailed, err)
	}

	entries := res.Entries()
	tasks.Send(prog, tasks.StoringUpdate(len(entries), w.StaticCache()))
	if err := w.opts.Storage.PutAll(ctx, w.StaticCache(), entries); err != nil {
		w.setState(Redundant)
		w.logger.Error("failed to store static assets", "err", err)
		return fmt.Errorf("%w: %w", shared.ErrInstallFailed, err)
	}

	w.setState(Waiting)
	w.logger.Info("installed", "assets", len(entries))
	return nil
}

// Activate deletes every partition that belongs to another version and marks the worker active.
// It returns the names of the deleted partitions.
func (w *Worker) Activate(ctx context.Context) ([]string, error) {
	keys, err := w.opts.Storage.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list caches: %w", err)
	}

	var deleted []string
	for _, name := range keys {
		if name == w.StaticCache() || name == w.DynamicCache() {
			continue
		}
		w.logger.Info("deleting old cache", "cache", name)
		if _, err := w.opts.Storage.Delete(ctx, name); err != nil {
			return deleted, fmt.Errorf("failed to delete cache %s: %w", name, err)
		}
		deleted = append(deleted, name)
	}

	w.setState(Active)
	return deleted, nil
}

// resolve turns a manifest path into the absolute cache key.
func (w *Worker) resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return w.opts.Origin.String() + path
	}
	return cacheKey(w.opts.Origin.ResolveReference(ref))
}

// sameOrigin reports whether u is served by the worker's origin.
func (w *Worker) sameOrigin(u *url.URL) bool {
	return strings.EqualFold(u.Scheme, w.opts.Origin.Scheme) && strings.EqualFold(u.Host, w.opts.Origin.Host)
}

// cacheKey normalizes u for lookups: no fragment and "/" for an empty path.
func cacheKey(u *url.URL) string {
	k := *u
	k.Fragment, k.RawFragment = "", ""
	if k.Path == "" {
		k.Path = "/"
	}
	return k.String()
}
