// Package stats is the journal statistics engine: pure functions that derive
// dashboard aggregates from a snapshot of entries and a caller-supplied
// reference day. Entries with a missing or unparseable field are excluded
// from the aggregates that need that field and still counted everywhere else.
package stats

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/plaintext"
)

// Streak holds consecutive-day run lengths. Current is zero unless the most
// recent entry day is exactly today.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Streaks deduplicates entry days, sorts them most-recent-first, and walks
// the list counting runs of exactly-consecutive calendar days.
func Streaks(entries []models.Entry, today models.Day) Streak {
	days := distinctDays(entries)
	if len(days) == 0 {
		return Streak{}
	}
	sort.Slice(days, func(i, j int) bool { return days[j].Before(days[i]) })

	longest := 1
	run := 1
	headRun := 1
	headBroken := false
	for i := 1; i < len(days); i++ {
		if days[i-1].DaysBetween(days[i]) == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
			headBroken = true
		}
		if !headBroken {
			headRun = run
		}
	}

	current := 0
	if days[0] == today {
		current = headRun
	}
	return Streak{Current: current, Longest: longest}
}

// MonthlyConsistency returns the percentage of days in today's calendar
// month that have at least one entry, rounded to the nearest integer.
func MonthlyConsistency(entries []models.Entry, today models.Day) int {
	written := make(map[models.Day]struct{})
	for _, d := range distinctDays(entries) {
		if d.SameMonth(today) {
			written[d] = struct{}{}
		}
	}
	return roundPercent(len(written), today.DaysInMonth())
}

// MonthlyActivity counts entries per day of today's month. The returned
// slice is indexed day-1 and has DaysInMonth elements; multiple entries on
// one day all count.
func MonthlyActivity(entries []models.Entry, today models.Day) []int {
	counts := make([]int, today.DaysInMonth())
	for _, e := range entries {
		if e.Date.IsZero() || !e.Date.SameMonth(today) {
			continue
		}
		counts[e.Date.Date-1]++
	}
	return counts
}

// ActivityLevel buckets a per-day entry count into the 4-step heatmap
// scale: 0 none, 1 one entry, 2 two entries, 3 three or more.
func ActivityLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count == 2:
		return 2
	default:
		return 3
	}
}

// MoodDistribution returns, for each mood label, its integer percentage of
// all mood-bearing entries. Percentages are rounded independently per label
// and therefore may not sum to exactly 100.
func MoodDistribution(entries []models.Entry) map[string]int {
	counts := MoodCounts(entries)
	total := 0
	for _, n := range counts {
		total += n
	}
	out := make(map[string]int, len(counts))
	for mood, n := range counts {
		out[mood] = roundPercent(n, total)
	}
	return out
}

// MoodCounts tallies entries per mood label, skipping entries with no mood.
func MoodCounts(entries []models.Entry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		if e.Mood == "" {
			continue
		}
		counts[e.Mood]++
	}
	return counts
}

// HourRange is a one-hour bucket reported as [Start, End) with End wrapping
// past midnight.
type HourRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (h HourRange) String() string {
	return fmt.Sprintf("%d:00 – %d:00", h.Start, h.End)
}

// BestWritingHour buckets entries by the hour their time string parses to
// and returns the fullest bucket. Ties break toward the earlier hour so the
// result does not depend on map iteration order. ok is false when no entry
// has a parseable time.
func BestWritingHour(entries []models.Entry) (HourRange, bool) {
	var buckets [24]int
	any := false
	for _, e := range entries {
		if hour, ok := ParseHour(e.Time); ok {
			buckets[hour]++
			any = true
		}
	}
	if !any {
		return HourRange{}, false
	}
	best := 0
	for h := 1; h < 24; h++ {
		if buckets[h] > buckets[best] {
			best = h
		}
	}
	return HourRange{Start: best, End: (best + 1) % 24}, true
}

// ParseHour extracts a 0-23 hour from a wall-clock string. Both 12-hour
// forms with an AM/PM suffix ("9:41:00 PM") and bare 24-hour forms
// ("21:41") are accepted.
func ParseHour(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	head := s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		head = s[:i]
	} else if i := strings.IndexByte(s, ' '); i >= 0 {
		head = s[:i]
	}
	hour, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, false
	}
	upper := strings.ToUpper(s)
	switch {
	case strings.Contains(upper, "PM"):
		hour = hour%12 + 12
	case strings.Contains(upper, "AM"):
		hour = hour % 12
	}
	if hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}

// WordStats holds total and per-entry-average word counts.
type WordStats struct {
	Total   int `json:"total"`
	Average int `json:"average"`
}

// Words strips markup from every entry's content and counts whitespace-
// separated words. The average divides by the full entry count, not just
// entries with content, and is zero when there are no entries.
func Words(entries []models.Entry) WordStats {
	total := 0
	for _, e := range entries {
		total += plaintext.WordCount(e.Content)
	}
	avg := 0
	if len(entries) > 0 {
		avg = int(math.Round(float64(total) / float64(len(entries))))
	}
	return WordStats{Total: total, Average: avg}
}

// WeeklyProgress reports distinct active days in the current ISO week
// (Monday start) against a weekly goal.
type WeeklyProgress struct {
	DaysActive int  `json:"days_active"`
	Percent    int  `json:"percent"`
	GoalMet    bool `json:"goal_met"`
}

// Weekly counts deduplicated entry days at or after the most recent Monday
// and converts them to goal percentage, clamped to [0, 100] for display.
// GoalMet carries the unclamped "raw ratio reached 100%" signal.
func Weekly(entries []models.Entry, today models.Day, goal int) WeeklyProgress {
	if goal <= 0 {
		return WeeklyProgress{}
	}
	start := today.StartOfWeek()
	active := 0
	for _, d := range distinctDays(entries) {
		if !d.Before(start) {
			active++
		}
	}
	raw := roundPercent(active, goal)
	percent := raw
	if percent > 100 {
		percent = 100
	}
	return WeeklyProgress{DaysActive: active, Percent: percent, GoalMet: raw >= 100}
}

// WeekActivity reports, Monday through Sunday of today's week, whether each
// day has at least one entry. Used for the dashboard bar graph.
func WeekActivity(entries []models.Entry, today models.Day) [7]bool {
	seen := make(map[models.Day]struct{})
	for _, d := range distinctDays(entries) {
		seen[d] = struct{}{}
	}
	start := today.StartOfWeek()
	var out [7]bool
	for i := 0; i < 7; i++ {
		_, out[i] = seen[start.AddDays(i)]
	}
	return out
}

// Achievement thresholds.
const (
	archiveEntryCount  = 30
	wordMilestone      = 10000
	streakBadgeDays    = 7
	habitInsightStreak = 5
)

// Achievements evaluates the fixed, independent badge rules and returns the
// unlocked badge ids.
func Achievements(entryCount int, streak Streak, totalWords int) []string {
	var out []string
	if entryCount >= archiveEntryCount {
		out = append(out, "archive")
	}
	if totalWords >= wordMilestone {
		out = append(out, "wordcount")
	}
	if streak.Current >= streakBadgeDays {
		out = append(out, "streak")
	}
	return out
}

// Insights evaluates the ordered insight rules and returns every matching
// message. When no rule fires a single fallback encouragement is returned.
// Evaluation order is fixed so output is deterministic.
func Insights(entries []models.Entry, streak Streak) []string {
	moods := MoodCounts(entries)

	var out []string
	if streak.Current >= habitInsightStreak {
		out = append(out, "You are building a strong writing habit")
	}
	if moods["sad"] > 0 && moods["happy"] > 0 {
		if moods["sad"] > moods["happy"] {
			out = append(out, "Writing helps you process emotions")
		} else {
			out = append(out, "Positive moods dominate your journal")
		}
	}
	if len(entries) >= archiveEntryCount {
		out = append(out, "You have built a solid writing archive")
	}
	if len(out) == 0 {
		out = append(out, "Keep writing to unlock insights")
	}
	return out
}

// distinctDays returns the set of calendar days with at least one entry.
// Entries whose date failed to parse are skipped.
func distinctDays(entries []models.Entry) []models.Day {
	seen := make(map[models.Day]struct{}, len(entries))
	var out []models.Day
	for _, e := range entries {
		if e.Date.IsZero() {
			continue
		}
		if _, ok := seen[e.Date]; ok {
			continue
		}
		seen[e.Date] = struct{}{}
		out = append(out, e.Date)
	}
	return out
}

func roundPercent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
