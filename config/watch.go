package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events an editor or an atomic rename
// produces into one reload.
const reloadDelay = 100 * time.Millisecond

// Watch reloads the config at path whenever it changes and passes the new
// value to onChange. A config that fails to parse is logged and ignored, so
// the previous one stays in effect. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, onChange func(*Config), logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: atomic writes replace the file, which drops a
	// watch placed on the file itself.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	logger.Debug("watching config", "path", path)

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(reloadDelay)

		case err, ok := <-w.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			logger.Warn("config watcher error", "error", err)

		case <-timer.C:
			cfg, err := ReadFile(path)
			if err != nil {
				logger.Error("reload config", "path", path, "error", err)
				continue
			}
			logger.Info("reloaded config", "path", path, "rules", len(cfg.Rules), "presets", len(cfg.Presets))
			onChange(cfg)
		}
	}
}
