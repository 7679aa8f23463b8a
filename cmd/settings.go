package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/sonora/internal/models"
	"github.com/desertthunder/sonora/internal/player"
	"github.com/desertthunder/sonora/internal/shared"
	"github.com/urfave/cli/v3"
)

// ThemeShow prints the current theme.
func (r *Runner) ThemeShow(ctx context.Context, cmd *cli.Command) error {
	theme, err := r.themeStore()
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", theme.Theme())
}

// ThemeToggle flips between light and dark.
func (r *Runner) ThemeToggle(ctx context.Context, cmd *cli.Command) error {
	theme, err := r.themeStore()
	if err != nil {
		return err
	}
	t, err := theme.Toggle()
	if err != nil {
		return err
	}
	return r.writePlain("✓ Theme set to %s\n", t)
}

// ThemeSet sets the theme by name.
func (r *Runner) ThemeSet(ctx context.Context, cmd *cli.Command) error {
	t := models.Theme(cmd.StringArg("theme"))
	if !t.Valid() {
		return fmt.Errorf("%w: theme must be light or dark, got %q", shared.ErrInvalidArgument, t)
	}
	theme, err := r.themeStore()
	if err != nil {
		return err
	}
	if err := theme.Set(t); err != nil {
		return err
	}
	return r.writePlain("✓ Theme set to %s\n", t)
}

// Volume prints the persisted volume, or sets it when a level is given.
func (r *Runner) Volume(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.engine(player.NewVirtualOutput(0))
	if err != nil {
		return err
	}

	level := cmd.StringArg("level")
	if level == "" {
		return r.writePlain("%.2f\n", engine.State().Volume)
	}

	v, err := parseVolume(level)
	if err != nil {
		return err
	}
	if err := engine.SetVolume(v); err != nil {
		return err
	}
	return r.writePlain("✓ Volume set to %.2f\n", engine.State().Volume)
}

// parseVolume accepts a fraction ("0.4") or a percentage ("40%").
func parseVolume(s string) (float64, error) {
	s = strings.TrimSpace(s)
	percent := strings.HasSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: volume %q", shared.ErrInvalidArgument, s)
	}
	if percent {
		v /= 100
	}
	return v, nil
}
