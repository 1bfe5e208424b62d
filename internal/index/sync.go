package index

import (
	"errors"
	"log/slog"
	"os"

	"github.com/starford/dagaz/internal/checksum"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/plaintext"
	"github.com/starford/dagaz/internal/storage"
)

// Sync brings the index in line with the journal file:
//   - every entry in the journal is (re-)upserted
//   - indexed ids no longer present in the journal are deleted
//
// The journal file's checksum is recorded so watcher-driven syncs can skip
// the rebuild when the file content has not actually changed (our own saves
// also trigger watch events). The returned bool reports whether the index
// was rebuilt.
func Sync(db *DB, store storage.Provider, logger *slog.Logger) (bool, error) {
	raw, err := os.ReadFile(store.Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	cs := checksum.Sum(raw)

	prev, err := db.journalChecksum()
	if err != nil {
		return false, err
	}
	if prev == cs {
		logger.Debug("sync: journal unchanged", slog.String("checksum", cs))
		return false, nil
	}

	entries, err := store.Load()
	if err != nil {
		return false, err
	}

	indexed, err := db.AllIDs()
	if err != nil {
		return false, err
	}

	present := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		present[e.ID] = struct{}{}
		if err := indexEntry(db, e); err != nil {
			logger.Warn("sync: index failed", slog.Int64("id", e.ID), slog.String("error", err.Error()))
		}
	}

	// Remove stale rows.
	for id := range indexed {
		if _, ok := present[id]; !ok {
			if err := db.DeleteEntry(id); err != nil {
				logger.Warn("sync: delete failed", slog.Int64("id", id), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.Int64("id", id))
			}
		}
	}

	return true, db.setJournalChecksum(cs)
}

// indexEntry projects one entry into the index.
func indexEntry(db *DB, e models.Entry) error {
	body := plaintext.Strip(e.Content)
	return db.UpsertEntry(EntryRow{
		ID:    e.ID,
		Title: e.Title,
		Mood:  e.Mood,
		Tags:  e.Tags,
		Day:   e.Date.String(),
		Time:  e.Time,
		Words: plaintext.WordCount(e.Content),
	}, body)
}
