package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonora/internal/offline"
	"github.com/desertthunder/sonora/internal/repositories"
	"github.com/desertthunder/sonora/internal/server"
	"github.com/desertthunder/sonora/internal/shared"
	"github.com/desertthunder/sonora/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Serve runs the caching intermediary until interrupted.
//
// With no upstream but a static build directory, the directory is served on a loopback listener and used as the
// upstream; its content hash becomes the cache version and edits register a new worker.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Offline
	addr := r.config.Server.Addr()
	if v := cmd.String("addr"); v != "" {
		addr = v
	}
	if v := cmd.String("upstream"); v != "" {
		cfg.Upstream = v
	}
	if v := cmd.String("static"); v != "" {
		cfg.StaticDir = v
		if !cmd.IsSet("upstream") {
			cfg.Upstream = ""
		}
	}
	if cmd.Bool("discover") {
		cfg.Discover = true
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Upstream == "" && cfg.StaticDir != "" {
		origin, err := r.serveStatic(ctx, cfg.StaticDir)
		if err != nil {
			return err
		}
		cfg.Upstream = origin
	}
	if cfg.Upstream == "" {
		return fmt.Errorf("%w: offline upstream or static_dir is required", shared.ErrInvalidConfig)
	}
	upstream, err := url.Parse(cfg.Upstream)
	if err != nil || upstream.Host == "" {
		return fmt.Errorf("%w: upstream %q", shared.ErrInvalidConfig, cfg.Upstream)
	}

	version := cfg.Version
	if cfg.StaticDir != "" {
		if version, err = offline.HashVersion(cfg.StaticDir); err != nil {
			return err
		}
	}

	db, err := r.database()
	if err != nil {
		return err
	}
	storage := repositories.NewCacheRepository(db)
	logger := shared.WithLogger(r.logger, "component", "offline")
	network := r.httpClient.Transport
	if network == nil {
		network = http.DefaultTransport
	}

	reg := offline.NewRegistration(storage, network, logger)
	build := r.workerBuilder(ctx, cfg, upstream, storage, network, logger)

	progress := make(chan tasks.ProgressUpdate, 32)
	go logProgress(logger, progress)
	defer close(progress)

	worker, err := build(version)
	if err != nil {
		return err
	}
	if err := reg.Register(ctx, worker, progress); err != nil {
		logger.Error("initial install failed, serving from network", "version", worker.CacheName(), "err", err)
	}

	if cfg.StaticDir != "" {
		watcher := offline.NewWatcher(cfg.StaticDir, version, reg, build, logger)
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("build watcher stopped", "err", err)
			}
		}()
	}

	var opener func(string) error
	if cmd.Bool("open") {
		opener = shared.OpenBrowser
	}

	router := server.NewBasicRouter()
	router.Use(
		server.RequestID(),
		server.Logging(shared.WithLogger(r.logger, "component", "http")),
		server.Recover(r.logger),
	)
	router.Handler(server.NewControlHandler(reg, logger, opener))
	router.Handler(server.NewProxyHandler(upstream, reg, logger))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	appURL := "http://" + ln.Addr().String() + "/"
	r.writePlain("Serving %s on %s\n", upstream, appURL)

	if opener != nil {
		if err := opener(appURL); err != nil {
			r.logger.Warn("failed to open browser", "url", appURL, "err", err)
		}
	}

	return server.NewServer(addr, router, r.logger).Serve(ctx, ln)
}

// workerBuilder returns the [offline.BuildFunc] shared by the first install and the build watcher.
func (r *Runner) workerBuilder(ctx context.Context, cfg shared.OfflineConfig, upstream *url.URL, storage offline.Storage, network http.RoundTripper, logger *log.Logger) offline.BuildFunc {
	return func(version string) (*offline.Worker, error) {
		manifest := cfg.Manifest
		if cfg.Discover {
			paths, err := offline.DiscoverAssets(ctx, &http.Client{Transport: network, Timeout: r.config.API.Timeout()}, upstream)
			if err != nil {
				logger.Warn("asset discovery failed, using configured manifest", "err", err)
			} else {
				manifest = offline.MergeManifest(cfg.Manifest, paths)
			}
		}

		return offline.NewWorker(offline.Options{
			AppName:           cfg.AppName,
			Version:           version,
			Origin:            upstream,
			Manifest:          manifest,
			MaxDynamicEntries: cfg.MaxDynamicEntries,
			SkipWaiting:       cfg.SkipWaiting,
			InstallWorkers:    cfg.InstallWorkers,
			InstallRate:       cfg.InstallRate,
			Storage:           storage,
			Network:           network,
			Logger:            logger,
		})
	}
}

// serveStatic serves dir on a loopback port and returns its origin.
func (r *Runner) serveStatic(ctx context.Context, dir string) (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to listen for static files: %w", err)
	}

	logger := shared.WithLogger(r.logger, "component", "static")
	srv := server.NewServer(ln.Addr().String(), http.FileServer(http.Dir(dir)), logger)
	go func() {
		if err := srv.Serve(ctx, ln); err != nil {
			logger.Error("static server stopped", "err", err)
		}
	}()
	return "http://" + ln.Addr().String(), nil
}

func logProgress(logger *log.Logger, progress <-chan tasks.ProgressUpdate) {
	for p := range progress {
		logger.Debug(p.Message, "phase", p.Phase, "step", p.Step, "total", p.Total)
	}
}
