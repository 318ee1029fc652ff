package settings

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay coalesces the burst of events editors produce on save.
const settleDelay = 100 * time.Millisecond

// Watch reloads the settings file at path whenever it changes and passes
// each successful load to fn. Environment overrides are applied to every
// load. Parse failures are logged and the previous settings stay in effect.
// Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, logger *slog.Logger, fn func(Settings)) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory; editors replace files rather than write them.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	base := filepath.Base(path)
	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			settle = time.After(settleDelay)

		case <-settle:
			settle = nil
			s, err := Load(path)
			if err != nil {
				logger.Warn("settings reload failed", slog.String("path", path), slog.Any("error", err))
				continue
			}
			s.LoadFromEnv()
			logger.Info("settings reloaded", slog.String("path", path))
			fn(s)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Debug("settings watcher error", slog.Any("error", err))
		}
	}
}
