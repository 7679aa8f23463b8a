package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonora/internal/models"
	"github.com/desertthunder/sonora/internal/player"
	"github.com/desertthunder/sonora/internal/repositories"
	"github.com/desertthunder/sonora/internal/services"
	"github.com/desertthunder/sonora/internal/shared"
	"github.com/desertthunder/sonora/internal/stores"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database, stores and catalog are opened on first use so commands like setup work on a fresh checkout.
type Runner struct {
	config     *shared.Config
	resolve    bool
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	injected RunnerOpts

	db      *sql.DB
	kv      models.KeyValue
	catalog services.Catalog
	auth    *stores.AuthStore
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	// Config skips config file resolution when set.
	Config     *shared.Config
	KV         models.KeyValue
	Catalog    services.Catalog
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	resolve := opts.Config == nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		resolve:    resolve,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		injected:   opts,
		kv:         opts.KV,
		catalog:    opts.Catalog,
	}
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "sonora",
		Usage:   "Stream music from the terminal with an offline caching layer",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Before:   r.before,
		After:    r.after,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, offlineCommand, searchCommand, browseCommand,
		playlistCommand, authCommand, themeCommand, volumeCommand, playCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.resolve {
		path := cmd.String("config")
		if _, err := os.Stat(path); err != nil && cmd.IsSet("config") {
			return ctx, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
		config, err := shared.ResolveConfig(path, ".env")
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.resolve = false
	}
	shared.SetLogLevel(r.logger, r.config.Log.Level)
	return ctx, nil
}

// after closes the database and drops everything opened on top of it.
func (r *Runner) after(ctx context.Context, cmd *cli.Command) error {
	r.kv, r.catalog, r.auth = r.injected.KV, r.injected.Catalog, nil
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// SetLogger swaps the logger, used when the terminal UI takes over the screen.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// database opens and migrates the configured sqlite database once.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenMigrated(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	r.db = db
	return db, nil
}

func (r *Runner) store() (models.KeyValue, error) {
	if r.kv != nil {
		return r.kv, nil
	}
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	r.kv = repositories.NewKVStore(db)
	return r.kv, nil
}

func (r *Runner) authStore() (*stores.AuthStore, error) {
	if r.auth != nil {
		return r.auth, nil
	}
	kv, err := r.store()
	if err != nil {
		return nil, err
	}

	tokenURL := ""
	if base := r.config.API.BaseURL(); base != "" {
		tokenURL = base + "/auth/login"
	}
	r.auth = stores.NewAuthStore(kv, stores.AuthOptions{
		TokenURL:   tokenURL,
		HTTPClient: &http.Client{Timeout: r.config.API.Timeout(), Transport: r.httpClient.Transport},
		Logger:     shared.WithLogger(r.logger, "store", "auth"),
	})
	return r.auth, nil
}

func (r *Runner) playlistStore() (*stores.PlaylistStore, error) {
	kv, err := r.store()
	if err != nil {
		return nil, err
	}
	return stores.NewPlaylistStore(kv, shared.WithLogger(r.logger, "store", "playlists")), nil
}

func (r *Runner) themeStore() (*stores.ThemeStore, error) {
	kv, err := r.store()
	if err != nil {
		return nil, err
	}
	return stores.NewThemeStore(kv, shared.WithLogger(r.logger, "store", "theme")), nil
}

// catalogService builds the API client. Each request carries the session token saved at that moment.
func (r *Runner) catalogService() (services.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}
	auth, err := r.authStore()
	if err != nil {
		return nil, err
	}

	api := r.config.API
	client := services.NewAuthorizedClient(auth.TokenSource(), api.Timeout(), r.httpClient.Transport)
	svc := services.NewAPIService(api.BaseURL(), client).WithRetries(api.Retries, api.RetryDelay())
	r.catalog = services.NewCatalogService(svc, shared.WithLogger(r.logger, "service", "catalog"))
	return r.catalog, nil
}

// engine restores the player session from the key-value store.
func (r *Runner) engine(output player.Output) (*player.Engine, error) {
	kv, err := r.store()
	if err != nil {
		return nil, err
	}
	return player.NewEngine(player.Options{
		Output:        output,
		Store:         kv,
		Logger:        shared.WithLogger(r.logger, "component", "player"),
		DefaultVolume: r.config.Player.DefaultVolume,
	}), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
