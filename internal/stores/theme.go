package stores

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonora/internal/models"
	"github.com/desertthunder/sonora/internal/shared"
)

type themeAction struct {
	toggle bool
	theme  models.Theme
}

func reduceTheme(current models.Theme, a themeAction) models.Theme {
	if a.toggle {
		return current.Toggled()
	}
	return a.theme
}

// ThemeStore holds the light/dark preference. Dark is the default.
type ThemeStore struct {
	mu     sync.Mutex
	theme  models.Theme
	store  models.KeyValue
	logger *log.Logger
}

// NewThemeStore restores the saved theme, ignoring unknown values.
func NewThemeStore(store models.KeyValue, logger *log.Logger) *ThemeStore {
	if logger == nil {
		logger = log.Default()
	}
	s := &ThemeStore{theme: models.ThemeDark, store: store, logger: logger}

	var saved models.Theme
	if ok, err := store.Get(KeyTheme, &saved); err != nil {
		logger.Warn("failed to load theme", "err", err)
	} else if ok && saved.Valid() {
		s.theme = saved
	}
	return s
}

// Theme returns the current theme.
func (s *ThemeStore) Theme() models.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// Toggle switches between light and dark and persists the result.
func (s *ThemeStore) Toggle() (models.Theme, error) {
	return s.apply(themeAction{toggle: true})
}

// Set replaces the theme.
func (s *ThemeStore) Set(t models.Theme) error {
	if !t.Valid() {
		return fmt.Errorf("%w: unknown theme %q", shared.ErrInvalidArgument, t)
	}
	_, err := s.apply(themeAction{theme: t})
	return err
}

func (s *ThemeStore) apply(a themeAction) (models.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := reduceTheme(s.theme, a)
	if err := s.store.Set(KeyTheme, t); err != nil {
		s.logger.Error("failed to persist theme", "err", err)
		return s.theme, fmt.Errorf("failed to persist theme: %w", err)
	}
	s.theme = t
	return t, nil
}
