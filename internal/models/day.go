package models

import (
	"encoding/json"
	"math"
	"time"
)

// Day is a civil calendar date with day granularity. The zero value is
// invalid and means "no parseable date"; consumers skip such entries in
// day-based aggregates instead of failing.
type Day struct {
	Year  int
	Month time.Month
	Date  int
}

// dayLayouts are the accepted wire formats, tried in order. The first is
// canonical; the rest exist so journals written by older clients (which
// stored locale-formatted display strings) still load.
var dayLayouts = []string{
	"2006-01-02",
	"Mon Jan 2 2006",
	"Mon Jan 02 2006",
	"Monday, January 2, 2006",
	"January 2, 2006",
}

// ParseDay parses s against the known layouts. The zero Day is returned
// when nothing matches.
func ParseDay(s string) Day {
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DayOf(t)
		}
	}
	return Day{}
}

// DayOf truncates t to its calendar day.
func DayOf(t time.Time) Day {
	return Day{Year: t.Year(), Month: t.Month(), Date: t.Day()}
}

// Today returns the current calendar day in the local time zone.
func Today() Day {
	return DayOf(time.Now())
}

// IsZero reports whether d carries no date.
func (d Day) IsZero() bool {
	return d == Day{}
}

// Time returns the day as a time.Time at local midnight.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Date, 0, 0, 0, 0, time.Local)
}

// AddDays returns the day shifted by n calendar days.
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

// DaysBetween returns the number of calendar days from other to d.
// Positive when d is later. Rounding absorbs DST-shortened days.
func (d Day) DaysBetween(other Day) int {
	return int(math.Round(d.Time().Sub(other.Time()).Hours() / 24))
}

// Before reports whether d is an earlier calendar day than other.
func (d Day) Before(other Day) bool {
	return d.Time().Before(other.Time())
}

// Weekday returns the ISO weekday, Monday=1 through Sunday=7.
func (d Day) Weekday() int {
	wd := int(d.Time().Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// StartOfWeek returns the most recent Monday at or before d.
func (d Day) StartOfWeek() Day {
	return d.AddDays(1 - d.Weekday())
}

// SameMonth reports whether both days fall in the same calendar month.
func (d Day) SameMonth(other Day) bool {
	return d.Year == other.Year && d.Month == other.Month
}

// DaysInMonth returns the number of days in d's calendar month.
func (d Day) DaysInMonth() int {
	return time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// String returns the canonical sortable form, e.g. "2026-08-28".
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format("2006-01-02")
}

// Display returns the long human-readable form used by list views,
// e.g. "Friday, August 28, 2026".
func (d Day) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format("Monday, January 2, 2006")
}

// MarshalJSON encodes the canonical form.
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes any accepted layout. Unknown strings decode to the
// zero Day rather than erroring, so a single bad record cannot poison a
// whole journal load.
func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = Day{}
		return nil
	}
	*d = ParseDay(s)
	return nil
}
