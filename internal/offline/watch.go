package offline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// HashVersion derives a version tag from the names and contents of every file under dir.
func HashVersion(dir string) (string, error) {
	h := sha256.New()

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(h, "%s\x00", filepath.ToSlash(rel))

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(h, f)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", dir, err)
	}

	return "v" + hex.EncodeToString(h.Sum(nil))[:10], nil
}

// BuildFunc creates a worker for a new version.
type BuildFunc func(version string) (*Worker, error)

// Watcher registers a new worker whenever the contents of a build directory change.
type Watcher struct {
	dir      string
	reg      *Registration
	build    BuildFunc
	logger   *log.Logger
	debounce time.Duration
	current  string
}

// NewWatcher watches dir. current is the version already registered.
func NewWatcher(dir, current string, reg *Registration, build BuildFunc, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{
		dir:      dir,
		reg:      reg,
		build:    build,
		logger:   logger.With("watch", dir),
		debounce: 500 * time.Millisecond,
		current:  current,
	}
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := addTree(fw, w.dir); err != nil {
		return err
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(fw, ev.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "dir", ev.Name, "err", err)
					}
				}
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		case <-timer.C:
			w.Check(ctx)
		}
	}
}

// Check rehashes the directory and registers a worker when the version changed. It returns the new version,
// or "" when nothing was registered.
func (w *Watcher) Check(ctx context.Context) string {
	version, err := HashVersion(w.dir)
	if err != nil {
		w.logger.Error("failed to compute version", "err", err)
		return ""
	}
	if version == w.current {
		return ""
	}

	worker, err := w.build(version)
	if err != nil {
		w.logger.Error("failed to build worker", "version", version, "err", err)
		return ""
	}
	if err := w.reg.Register(ctx, worker, nil); err != nil {
		w.logger.Error("failed to register worker", "version", version, "err", err)
		return ""
	}

	w.logger.Info("build changed", "from", w.current, "to", version)
	w.current = version
	return version
}

func addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := fw.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
		}
		return nil
	})
}
