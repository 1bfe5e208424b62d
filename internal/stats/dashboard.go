package stats

import "github.com/starford/dagaz/internal/models"

// Dashboard bundles every aggregate the presentation layer renders. It is
// plain data; recomputing it is O(entries) and callers may do so freely.
type Dashboard struct {
	TotalEntries   int            `json:"total_entries"`
	Streak         Streak         `json:"streak"`
	Consistency    int            `json:"consistency"`
	Activity       []int          `json:"activity"`
	ActivityLevels []int          `json:"activity_levels"`
	Moods          map[string]int `json:"moods"`
	BestHour       *HourRange     `json:"best_hour,omitempty"`
	Words          WordStats      `json:"words"`
	Weekly         WeeklyProgress `json:"weekly"`
	WeekActivity   [7]bool        `json:"week_activity"`
	Achievements   []string       `json:"achievements"`
	Insights       []string       `json:"insights"`
}

// Compute derives the full dashboard from one pass over the entry snapshot.
// today is supplied by the caller so results are reproducible in tests.
func Compute(entries []models.Entry, today models.Day, weeklyGoal int) Dashboard {
	streak := Streaks(entries, today)
	words := Words(entries)
	activity := MonthlyActivity(entries, today)

	badges := Achievements(len(entries), streak, words.Total)
	if badges == nil {
		badges = []string{}
	}

	levels := make([]int, len(activity))
	for i, n := range activity {
		levels[i] = ActivityLevel(n)
	}

	d := Dashboard{
		TotalEntries:   len(entries),
		Streak:         streak,
		Consistency:    MonthlyConsistency(entries, today),
		Activity:       activity,
		ActivityLevels: levels,
		Moods:          MoodDistribution(entries),
		Words:          words,
		Weekly:         Weekly(entries, today, weeklyGoal),
		WeekActivity:   WeekActivity(entries, today),
		Achievements:   badges,
		Insights:       Insights(entries, streak),
	}
	if hr, ok := BestWritingHour(entries); ok {
		d.BestHour = &hr
	}
	return d
}
