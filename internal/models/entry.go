// Package models defines the domain types for Dagaz.
package models

// Entry represents one journal record. Content is HTML-bearing rich text
// and is never empty for a persisted entry; everything else is optional.
type Entry struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title,omitempty"`
	Content string   `json:"content"`
	Mood    string   `json:"mood,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Date    Day      `json:"date"`
	Time    string   `json:"time,omitempty"`
}

// DisplayTitle returns the title or the placeholder used by list views.
func (e Entry) DisplayTitle() string {
	if e.Title == "" {
		return "Untitled Entry"
	}
	return e.Title
}
