// Package analytics holds the derived computations of the data layer. Every
// function here is pure: results are recomputed from raw rows on each read.
package analytics

import (
	"sort"
	"time"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/models"
)

// QualifyingDates returns, in descending order, the dates on which a habit
// counts as done:
//
//	BOOLEAN  a completion row exists
//	NUMERIC  the day's log values sum to at least target
//	LIMIT    at least one log exists and the sum stays strictly below target
func QualifyingDates(habitType string, target float64, completions []models.Completion, logs []models.HabitLog) []string {
	var dates []string

	switch habitType {
	case constants.HabitTypeNumeric, constants.HabitTypeLimit:
		sums := make(map[string]float64)
		for _, l := range logs {
			sums[l.Date] += l.Value
		}
		for date, sum := range sums {
			if habitType == constants.HabitTypeNumeric && sum >= target {
				dates = append(dates, date)
			}
			if habitType == constants.HabitTypeLimit && sum < target {
				dates = append(dates, date)
			}
		}
	default:
		seen := make(map[string]bool, len(completions))
		for _, c := range completions {
			if !seen[c.Date] {
				seen[c.Date] = true
				dates = append(dates, c.Date)
			}
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// Streaks computes the current and longest runs of consecutive calendar days.
//
// current counts backward from today. Dates after today are ignored; the
// count stops at the first date that is not the expected previous day.
// longest is the longest day-over-day run anywhere in the list.
func Streaks(dates []string, today string) (current, longest int) {
	days := parseUnique(dates)
	if len(days) == 0 {
		return 0, 0
	}

	end, err := time.Parse(constants.DateFormat, today)
	if err != nil {
		return 0, longestRun(days)
	}

	// days is ascending; walk it backwards for the current streak
	expected := end
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		if d.After(expected) {
			continue
		}
		if !d.Equal(expected) {
			break
		}
		current++
		expected = expected.AddDate(0, 0, -1)
	}

	return current, longestRun(days)
}

func longestRun(days []time.Time) int {
	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && days[i-1].AddDate(0, 0, 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// parseUnique parses YYYY-MM-DD strings, drops malformed values and
// duplicates, and returns the days in ascending order.
func parseUnique(dates []string) []time.Time {
	seen := make(map[string]bool, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, s := range dates {
		if seen[s] {
			continue
		}
		seen[s] = true
		d, err := time.Parse(constants.DateFormat, s)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// DaysBetween returns the number of calendar days in the inclusive range
// [from, to], or 0 when the range is empty or malformed.
func DaysBetween(from, to string) int {
	f, err := time.Parse(constants.DateFormat, from)
	if err != nil {
		return 0
	}
	t, err := time.Parse(constants.DateFormat, to)
	if err != nil || t.Before(f) {
		return 0
	}
	return int(t.Sub(f).Hours()/24) + 1
}
