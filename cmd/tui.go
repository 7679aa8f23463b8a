package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/sonora/internal/player"
	"github.com/desertthunder/sonora/internal/shared"
	"github.com/desertthunder/sonora/internal/ui"
	"github.com/urfave/cli/v3"
)

// Play launches the interactive player.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.config.Log.Level)
	r.SetLogger(fileLogger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	output := player.NewVirtualOutput(64)
	engine, err := r.engine(output)
	if err != nil {
		return err
	}
	catalog, err := r.catalogService()
	if err != nil {
		return err
	}
	playlists, err := r.playlistStore()
	if err != nil {
		return err
	}
	theme, err := r.themeStore()
	if err != nil {
		return err
	}
	auth, err := r.authStore()
	if err != nil {
		return err
	}

	go output.Run(ctx, r.config.Player.Tick())
	go func() {
		if err := engine.Run(ctx); err != nil && ctx.Err() == nil {
			fileLogger.Error("player stopped", "err", err)
		}
	}()

	return ui.Run(ctx, ui.Deps{
		Engine:    engine,
		Catalog:   catalog,
		Playlists: playlists,
		Theme:     theme,
		Auth:      auth,
		Logger:    shared.WithLogger(fileLogger, "component", "ui"),
	})
}
