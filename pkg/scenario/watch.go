package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the scenario file at path whenever it changes and hands the
// rebuilt catalog to onChange. A file that fails to parse is logged and the
// previous catalog stays in effect. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(*Catalog)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving scenarios path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files via rename, so watch the directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	logger.Debug("watching scenarios file", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			catalog, err := LoadFile(abs)
			if err != nil {
				logger.Warn("scenarios reload failed, keeping previous catalog",
					"path", abs,
					"error", err,
				)
				continue
			}

			logger.Info("scenarios reloaded", "path", abs, "count", catalog.Len())
			onChange(catalog)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("scenarios watcher error", "error", err)
		}
	}
}
