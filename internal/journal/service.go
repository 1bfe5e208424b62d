// Package journal implements the service layer coordinating the journal
// store, the SQLite index, and the statistics engine.
package journal

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/index"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/plaintext"
	"github.com/starford/dagaz/internal/stats"
	"github.com/starford/dagaz/internal/storage"
)

// EntryDetail is the full representation of an entry.
type EntryDetail struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Mood        string   `json:"mood,omitempty"`
	Tags        []string `json:"tags"`
	Date        string   `json:"date"`
	DisplayDate string   `json:"display_date"`
	Time        string   `json:"time,omitempty"`
	WordCount   int      `json:"word_count"`
}

// EntryListItem is a lightweight item in a list response.
type EntryListItem struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Snippet     string   `json:"snippet"`
	Mood        string   `json:"mood,omitempty"`
	Tags        []string `json:"tags"`
	Date        string   `json:"date"`
	DisplayDate string   `json:"display_date"`
	Time        string   `json:"time,omitempty"`
}

// MonthDay is one day of a calendar month view.
type MonthDay struct {
	Day      int  `json:"day"`
	Count    int  `json:"count"`
	Level    int  `json:"level"`
	HasEntry bool `json:"has_entry"`
}

// EntryParams carries the writable fields of an entry. On update, a nil
// Date/empty Time leaves the stored stamp untouched.
type EntryParams struct {
	Title   string
	Content string
	Mood    string
	Tags    []string
	Date    models.Day
	Time    string
}

// Service coordinates storage, index, and statistics operations. All
// mutations are serialized read-modify-write passes over the whole
// collection; last write wins.
type Service struct {
	mu         sync.Mutex
	store      storage.Provider
	db         *index.DB
	weeklyGoal int
	now        func() time.Time
}

// NewService creates a new journal service.
func NewService(store storage.Provider, db *index.DB, weeklyGoal int) *Service {
	return &Service{store: store, db: db, weeklyGoal: weeklyGoal, now: time.Now}
}

// List returns entries sorted newest first, optionally capped at limit.
func (s *Service) List(_ context.Context, limit int) ([]EntryListItem, int, error) {
	entries, err := s.store.Load()
	if err != nil {
		return nil, 0, err
	}
	sortChronological(entries)
	total := len(entries)
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	items := make([]EntryListItem, len(entries))
	for i, e := range entries {
		items[i] = listItem(e)
	}
	return items, total, nil
}

// Get returns one entry by id.
func (s *Service) Get(_ context.Context, id int64) (*EntryDetail, error) {
	entries, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.ID == id {
			d := detail(e)
			return &d, nil
		}
	}
	return nil, apperr.ErrNotFound
}

// Create validates and persists a new entry. Content that is empty after
// tag stripping is rejected before anything is written.
func (s *Service) Create(_ context.Context, p EntryParams) (*EntryDetail, error) {
	if strings.TrimSpace(plaintext.Strip(p.Content)) == "" {
		return nil, apperr.ErrEmptyContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	now := s.now()
	e := models.Entry{
		ID:      nextID(entries),
		Title:   strings.TrimSpace(p.Title),
		Content: p.Content,
		Mood:    p.Mood,
		Tags:    p.Tags,
		Date:    p.Date,
		Time:    p.Time,
	}
	if e.Date.IsZero() {
		e.Date = models.DayOf(now)
	}
	if e.Time == "" {
		e.Time = now.Format("15:04")
	}

	entries = append(entries, e)
	if err := s.store.Save(entries); err != nil {
		return nil, err
	}
	s.resync()

	d := detail(e)
	return &d, nil
}

// Update overwrites the fields of an existing entry in place; identity and,
// unless explicitly supplied, the original day/time stamp are preserved.
func (s *Service) Update(_ context.Context, id int64, p EntryParams) (*EntryDetail, error) {
	if strings.TrimSpace(plaintext.Strip(p.Content)) == "" {
		return nil, apperr.ErrEmptyContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID != id {
			continue
		}
		entries[i].Title = strings.TrimSpace(p.Title)
		entries[i].Content = p.Content
		entries[i].Mood = p.Mood
		entries[i].Tags = p.Tags
		if !p.Date.IsZero() {
			entries[i].Date = p.Date
		}
		if p.Time != "" {
			entries[i].Time = p.Time
		}
		if err := s.store.Save(entries); err != nil {
			return nil, err
		}
		s.resync()
		d := detail(entries[i])
		return &d, nil
	}
	return nil, apperr.ErrNotFound
}

// Delete removes an entry from the journal and the index.
func (s *Service) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.Load()
	if err != nil {
		return err
	}
	kept := entries[:0]
	found := false
	for _, e := range entries {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return apperr.ErrNotFound
	}
	if err := s.store.Save(kept); err != nil {
		return err
	}
	s.resync()
	return nil
}

// EntriesOn returns the entries recorded on one calendar day, earliest
// first. Day membership is resolved through the index.
func (s *Service) EntriesOn(_ context.Context, day models.Day) ([]EntryListItem, error) {
	ids, err := s.db.DayIDs(day.String())
	if err != nil {
		return nil, err
	}
	entries, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	items := make([]EntryListItem, 0, len(ids))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			items = append(items, listItem(e))
		}
	}
	return items, nil
}

// MonthActivity returns the calendar view for one month: per-day entry
// counts bucketed into the 4-level heatmap scale.
func (s *Service) MonthActivity(_ context.Context, year int, month time.Month) ([]MonthDay, error) {
	counts, err := s.db.MonthCounts(year, int(month))
	if err != nil {
		return nil, err
	}
	n := models.Day{Year: year, Month: month, Date: 1}.DaysInMonth()
	out := make([]MonthDay, n)
	for i := 0; i < n; i++ {
		c := counts[i+1]
		out[i] = MonthDay{
			Day:      i + 1,
			Count:    c,
			Level:    stats.ActivityLevel(c),
			HasEntry: c > 0,
		}
	}
	return out, nil
}

// Search delegates to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Dashboard recomputes the full statistics payload from the current
// snapshot. today is derived from the service clock.
func (s *Service) Dashboard(_ context.Context) (stats.Dashboard, error) {
	entries, err := s.store.Load()
	if err != nil {
		return stats.Dashboard{}, err
	}
	return stats.Compute(entries, models.DayOf(s.now()), s.weeklyGoal), nil
}

// Resync forces an index rebuild pass; the watcher and startup both use it
// through index.Sync directly, this is for callers holding only a Service.
func (s *Service) Resync() error {
	_, err := index.Sync(s.db, s.store, slog.Default())
	return err
}

// resync refreshes the index after a mutation. Failures are logged, not
// returned: the journal file is the system of record and a stale index
// self-heals on the next sync pass.
func (s *Service) resync() {
	if _, err := index.Sync(s.db, s.store, slog.Default()); err != nil {
		slog.Error("index resync failed", slog.String("error", err.Error()))
	}
}

// nextID returns a stable id one past the largest in use.
func nextID(entries []models.Entry) int64 {
	var max int64
	for _, e := range entries {
		if e.ID > max {
			max = e.ID
		}
	}
	return max + 1
}

// sortChronological orders entries newest first: by day, then by parsed
// hour, then by id so ordering stays deterministic for same-hour entries.
func sortChronological(entries []models.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Date != b.Date {
			return b.Date.Before(a.Date)
		}
		ah, _ := stats.ParseHour(a.Time)
		bh, _ := stats.ParseHour(b.Time)
		if ah != bh {
			return ah > bh
		}
		return a.ID > b.ID
	})
}

func detail(e models.Entry) EntryDetail {
	return EntryDetail{
		ID:          e.ID,
		Title:       e.Title,
		Content:     e.Content,
		Mood:        e.Mood,
		Tags:        nonNilSlice(e.Tags),
		Date:        e.Date.String(),
		DisplayDate: e.Date.Display(),
		Time:        e.Time,
		WordCount:   plaintext.WordCount(e.Content),
	}
}

func listItem(e models.Entry) EntryListItem {
	return EntryListItem{
		ID:          e.ID,
		Title:       e.DisplayTitle(),
		Snippet:     plaintext.Snippet(e.Content, 120),
		Mood:        e.Mood,
		Tags:        nonNilSlice(e.Tags),
		Date:        e.Date.String(),
		DisplayDate: e.Date.Display(),
		Time:        e.Time,
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
