// Package calendar defines period granularities, period truncation, and the
// date-UID codec keying the periodic note index.
package calendar

import (
	"time"

	"github.com/starford/jera/internal/dateformat"
)

// Granularity is the period size a periodic note represents.
type Granularity string

const (
	Day     Granularity = "day"
	Week    Granularity = "week"
	Month   Granularity = "month"
	Quarter Granularity = "quarter"
	Year    Granularity = "year"
)

// uidLayout is an ISO-8601 instant with the local UTC offset.
const uidLayout = "2006-01-02T15:04:05Z07:00"

// Calendar carries the week numbering convention in effect.
type Calendar struct {
	// WeekStart is the first day of the week.
	WeekStart time.Weekday
	// FirstWeekContains is the day of January that week 1 must contain.
	FirstWeekContains int
}

// Default returns the default convention: weeks start on Sunday and week 1
// contains January 1st.
func Default() Calendar {
	return Calendar{WeekStart: time.Sunday, FirstWeekContains: 1}
}

// FormatOptions adapts the calendar for the dateformat package.
func (c Calendar) FormatOptions() dateformat.Options {
	return dateformat.Options{WeekStart: c.WeekStart, FirstWeekContains: c.FirstWeekContains}
}

// StartOf truncates t to the start of its g period.
func (c Calendar) StartOf(t time.Time, g Granularity) time.Time {
	loc := t.Location()
	switch g {
	case Week:
		return dateformat.StartOfWeek(t, c.WeekStart)
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	case Quarter:
		q := (int(t.Month()) - 1) / 3
		return time.Date(t.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, loc)
	case Year:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, loc)
	default: // Day
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
}

// UID returns the canonical index key for the period of t at granularity g.
// Two dates in the same period always map to the same UID, and the
// granularity prefix keeps UIDs distinct across granularities.
func (c Calendar) UID(t time.Time, g Granularity) string {
	return string(g) + "-" + c.StartOf(t, g).Format(uidLayout)
}
