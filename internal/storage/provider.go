// Package storage persists the journal collection as a single JSON file.
package storage

import "github.com/starford/dagaz/internal/models"

// Provider is the entry-store contract consumed by the service layer.
//
// Load must never fail on a missing or malformed journal: such states are
// treated as an empty collection so the dashboard always renders. Save
// replaces the whole collection atomically; readers never observe a
// partial write.
type Provider interface {
	Load() ([]models.Entry, error)
	Save(entries []models.Entry) error
	// Path returns the absolute location of the journal file, for the
	// watcher and backup loop.
	Path() string
}
