package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/dagaz/internal/journal"
)

// EntryRequest is the request body for creating or updating an entry.
// Date and Time are optional; creation defaults them to "now" and update
// keeps the stored stamp when they are absent.
type EntryRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Mood    string   `json:"mood"`
	Tags    []string `json:"tags"`
	Date    string   `json:"date"`
	Time    string   `json:"time"`
}

// Validate checks the request. Empty content is the one hard rejection the
// authoring flow surfaces to the user before anything is persisted.
func (r EntryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Date, validation.Date("2006-01-02")),
		validation.Field(&r.Title, validation.Length(0, 200)),
		validation.Field(&r.Mood, validation.Length(0, 40)),
	)
}

// EntryDetail is the full entry response type (aliased from the domain layer).
type EntryDetail = journal.EntryDetail

// EntryListItem is a lightweight item in a list response (aliased from the domain layer).
type EntryListItem = journal.EntryListItem

// EntryListResponse wraps entry listings.
type EntryListResponse struct {
	Entries []EntryListItem `json:"entries"`
	Total   int             `json:"total"`
}

// CalendarResponse wraps a month view.
type CalendarResponse struct {
	Month string             `json:"month"`
	Days  []journal.MonthDay `json:"days"`
}
