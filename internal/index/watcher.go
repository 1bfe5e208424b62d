package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/dagaz/internal/storage"
)

// ChangedCallback is called after a watcher-driven index rebuild, i.e. when
// the journal file changed on disk (our own atomic saves included).
type ChangedCallback func()

// debounceDelay coalesces the create+rename event bursts produced by atomic
// journal replacement into one sync pass.
const debounceDelay = 200 * time.Millisecond

// Watch monitors the journal file's directory with fsnotify and re-syncs
// the index whenever the journal changes, until ctx is cancelled. cb (if
// non-nil) runs after each rebuild that actually changed the index, so the
// caller can broadcast refresh events.
func Watch(ctx context.Context, db *DB, store storage.Provider, logger *slog.Logger, cb ChangedCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	journal := store.Path()
	if err := w.Add(filepath.Dir(journal)); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("journal", journal))

	var syncTimer *time.Timer
	var syncCh <-chan time.Time

	scheduleSync := func() {
		if syncTimer == nil {
			syncTimer = time.NewTimer(debounceDelay)
			syncCh = syncTimer.C
		} else {
			syncTimer.Reset(debounceDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if syncTimer != nil {
				syncTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-syncCh:
			changed, err := Sync(db, store, logger)
			if err != nil {
				logger.Warn("watcher: sync failed", slog.String("error", err.Error()))
				continue
			}
			if changed {
				logger.Debug("watcher: index rebuilt")
				if cb != nil {
					cb()
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			// Only the journal file matters; the directory also holds the
			// SQLite db, backups, and temp files from atomic writes.
			if filepath.Clean(ev.Name) != journal {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				scheduleSync()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", err.Error()))
		}
	}
}
