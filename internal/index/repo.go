package index

import (
	"encoding/json"
	"fmt"
)

// EntryRow is the indexed projection of one journal entry. body holds the
// tag-stripped plain text used for search.
type EntryRow struct {
	ID    int64
	Title string
	Mood  string
	Tags  []string
	Day   string // canonical "2006-01-02", empty when the date is unparseable
	Time  string
	Words int
}

// SearchResult represents one search hit.
type SearchResult struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Day     string `json:"day"`
	Snippet string `json:"snippet"`
}

// UpsertEntry inserts or replaces an entry row and its FTS shadow within a
// transaction.
func (db *DB) UpsertEntry(e EntryRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(e.Tags)

	_, err = tx.Exec(`
		INSERT INTO entries (id, title, mood, tags, day, time, body, words)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			mood  = excluded.mood,
			tags  = excluded.tags,
			day   = excluded.day,
			time  = excluded.time,
			body  = excluded.body,
			words = excluded.words
	`, e.ID, e.Title, e.Mood, string(tagsJSON), e.Day, e.Time, body, e.Words)
	if err != nil {
		return fmt.Errorf("index: upsert entry: %w", err)
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, e.ID, e.Title, body, e.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteEntry removes an entry and its FTS shadow.
func (db *DB) DeleteEntry(id int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, id)
	_, _ = tx.Exec(`DELETE FROM entries WHERE id = ?`, id)

	return tx.Commit()
}

// AllIDs returns every indexed entry id.
func (db *DB) AllIDs() (map[int64]struct{}, error) {
	rows, err := db.conn.Query(`SELECT id FROM entries`)
	if err != nil {
		return nil, fmt.Errorf("index: all ids: %w", err)
	}
	defer rows.Close()
	out := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

// DayIDs returns the ids of entries recorded on the given canonical day.
func (db *DB) DayIDs(day string) ([]int64, error) {
	rows, err := db.conn.Query(`SELECT id FROM entries WHERE day = ? ORDER BY time, id`, day)
	if err != nil {
		return nil, fmt.Errorf("index: day ids: %w", err)
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// MonthCounts returns entry counts keyed by day-of-month for the given
// calendar month. Days with no entries are absent from the map.
func (db *DB) MonthCounts(year int, month int) (map[int]int, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	rows, err := db.conn.Query(`
		SELECT CAST(substr(day, 9, 2) AS INTEGER), COUNT(*)
		FROM entries
		WHERE day LIKE ? || '%'
		GROUP BY day
	`, prefix)
	if err != nil {
		return nil, fmt.Errorf("index: month counts: %w", err)
	}
	defer rows.Close()
	out := make(map[int]int)
	for rows.Next() {
		var dom, n int
		if err := rows.Scan(&dom, &n); err != nil {
			return nil, err
		}
		out[dom] += n
	}
	return out, rows.Err()
}

// journalChecksum reads the stored checksum of the last synced journal file.
func (db *DB) journalChecksum() (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT value FROM meta WHERE key = 'journal_checksum'`).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// setJournalChecksum records the checksum of the journal file just synced.
func (db *DB) setJournalChecksum(cs string) error {
	_, err := db.conn.Exec(`
		INSERT INTO meta (key, value) VALUES ('journal_checksum', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, cs)
	if err != nil {
		return fmt.Errorf("index: set checksum: %w", err)
	}
	return nil
}
