// Package dateformat implements the moment-style date pattern language used
// in periodic note filenames and templates: formatting, strict parsing, and
// the loosened week-only re-parse for self-contradictory week patterns.
//
// Supported tokens: YYYY YY (calendar year), MMMM MMM MM M (month),
// DD D (day of month), dddd ddd (weekday name), gggg ww w (week-year and
// week of year under the configured week start), GGGG WW W (ISO variants),
// Q (quarter), HH H hh h mm m ss s A a (time of day). Text wrapped in
// square brackets is emitted and matched verbatim.
package dateformat

import (
	"fmt"
	"strings"
	"time"
)

// Options selects the week numbering scheme and the timezone in which
// parsed dates are constructed.
type Options struct {
	// WeekStart is the first day of the week for gggg/ww tokens.
	WeekStart time.Weekday
	// FirstWeekContains is the day of January that week 1 must contain
	// (1 for US-style weeks, 4 for ISO).
	FirstWeekContains int
	// Location is the timezone for parsed dates. Nil means time.Local.
	Location *time.Location
}

// DefaultOptions matches the default locale: weeks start on Sunday and
// week 1 is the week containing January 1st.
func DefaultOptions() Options {
	return Options{WeekStart: time.Sunday, FirstWeekContains: 1}
}

func (o Options) location() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return time.Local
}

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokYear4             // YYYY
	tokYear2             // YY
	tokMonthName         // MMMM
	tokMonthAbbr         // MMM
	tokMonth2            // MM
	tokMonth             // M
	tokDay2              // DD
	tokDay               // D
	tokWeekdayName       // dddd
	tokWeekdayAbbr       // ddd
	tokWeekYear          // gggg
	tokISOWeekYear       // GGGG
	tokWeek2             // ww
	tokWeek              // w
	tokISOWeek2          // WW
	tokISOWeek           // W
	tokQuarter           // Q
	tokHour2             // HH
	tokHour              // H
	tokHour12Pad         // hh
	tokHour12            // h
	tokMinute2           // mm
	tokMinute            // m
	tokSecond2           // ss
	tokSecond            // s
	tokAMPMUpper         // A
	tokAMPMLower         // a
)

type token struct {
	kind tokenKind
	text string // literal text for tokLiteral
}

// fieldTokens are matched longest-first at each position.
var fieldTokens = []struct {
	lit  string
	kind tokenKind
}{
	{"YYYY", tokYear4},
	{"YY", tokYear2},
	{"MMMM", tokMonthName},
	{"MMM", tokMonthAbbr},
	{"MM", tokMonth2},
	{"M", tokMonth},
	{"DD", tokDay2},
	{"D", tokDay},
	{"dddd", tokWeekdayName},
	{"ddd", tokWeekdayAbbr},
	{"gggg", tokWeekYear},
	{"GGGG", tokISOWeekYear},
	{"ww", tokWeek2},
	{"w", tokWeek},
	{"WW", tokISOWeek2},
	{"W", tokISOWeek},
	{"Q", tokQuarter},
	{"HH", tokHour2},
	{"H", tokHour},
	{"hh", tokHour12Pad},
	{"h", tokHour12},
	{"mm", tokMinute2},
	{"m", tokMinute},
	{"ss", tokSecond2},
	{"s", tokSecond},
	{"A", tokAMPMUpper},
	{"a", tokAMPMLower},
}

// tokenize splits a pattern into field and literal tokens. Bracketed
// segments become single literal tokens with the brackets removed.
func tokenize(pattern string) []token {
	var toks []token
	i := 0
	for i < len(pattern) {
		if pattern[i] == '[' {
			end := strings.IndexByte(pattern[i+1:], ']')
			if end < 0 {
				toks = append(toks, token{tokLiteral, pattern[i:]})
				break
			}
			toks = append(toks, token{tokLiteral, pattern[i+1 : i+1+end]})
			i += end + 2
			continue
		}
		matched := false
		for _, ft := range fieldTokens {
			if strings.HasPrefix(pattern[i:], ft.lit) {
				toks = append(toks, token{kind: ft.kind})
				i += len(ft.lit)
				matched = true
				break
			}
		}
		if !matched {
			toks = append(toks, token{tokLiteral, pattern[i : i+1]})
			i++
		}
	}
	return toks
}

// Format renders t according to pattern.
func Format(t time.Time, pattern string, opt Options) string {
	var b strings.Builder
	for _, tok := range tokenize(pattern) {
		switch tok.kind {
		case tokLiteral:
			b.WriteString(tok.text)
		case tokYear4:
			fmt.Fprintf(&b, "%04d", t.Year())
		case tokYear2:
			fmt.Fprintf(&b, "%02d", t.Year()%100)
		case tokMonthName:
			b.WriteString(t.Month().String())
		case tokMonthAbbr:
			b.WriteString(t.Month().String()[:3])
		case tokMonth2:
			fmt.Fprintf(&b, "%02d", int(t.Month()))
		case tokMonth:
			fmt.Fprintf(&b, "%d", int(t.Month()))
		case tokDay2:
			fmt.Fprintf(&b, "%02d", t.Day())
		case tokDay:
			fmt.Fprintf(&b, "%d", t.Day())
		case tokWeekdayName:
			b.WriteString(t.Weekday().String())
		case tokWeekdayAbbr:
			b.WriteString(t.Weekday().String()[:3])
		case tokWeekYear:
			wy, _ := WeekOfYear(t, opt)
			fmt.Fprintf(&b, "%04d", wy)
		case tokISOWeekYear:
			wy, _ := t.ISOWeek()
			fmt.Fprintf(&b, "%04d", wy)
		case tokWeek2:
			_, w := WeekOfYear(t, opt)
			fmt.Fprintf(&b, "%02d", w)
		case tokWeek:
			_, w := WeekOfYear(t, opt)
			fmt.Fprintf(&b, "%d", w)
		case tokISOWeek2:
			_, w := t.ISOWeek()
			fmt.Fprintf(&b, "%02d", w)
		case tokISOWeek:
			_, w := t.ISOWeek()
			fmt.Fprintf(&b, "%d", w)
		case tokQuarter:
			fmt.Fprintf(&b, "%d", (int(t.Month())-1)/3+1)
		case tokHour2:
			fmt.Fprintf(&b, "%02d", t.Hour())
		case tokHour:
			fmt.Fprintf(&b, "%d", t.Hour())
		case tokHour12Pad:
			fmt.Fprintf(&b, "%02d", hour12(t))
		case tokHour12:
			fmt.Fprintf(&b, "%d", hour12(t))
		case tokMinute2:
			fmt.Fprintf(&b, "%02d", t.Minute())
		case tokMinute:
			fmt.Fprintf(&b, "%d", t.Minute())
		case tokSecond2:
			fmt.Fprintf(&b, "%02d", t.Second())
		case tokSecond:
			fmt.Fprintf(&b, "%d", t.Second())
		case tokAMPMUpper:
			b.WriteString(ampm(t, true))
		case tokAMPMLower:
			b.WriteString(ampm(t, false))
		}
	}
	return b.String()
}

func hour12(t time.Time) int {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	return h
}

func ampm(t time.Time, upper bool) string {
	s := "am"
	if t.Hour() >= 12 {
		s = "pm"
	}
	if upper {
		return strings.ToUpper(s)
	}
	return s
}

// midnight truncates t to the start of its day, preserving the location.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the most recent weekStart day at or before t,
// truncated to midnight.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	d := midnight(t)
	back := (int(d.Weekday()) - int(weekStart) + 7) % 7
	return d.AddDate(0, 0, -back)
}

// week1Start returns the first day of week 1 of the given week-year.
func week1Start(year int, opt Options, loc *time.Location) time.Time {
	anchor := time.Date(year, time.January, opt.FirstWeekContains, 0, 0, 0, 0, loc)
	return StartOfWeek(anchor, opt.WeekStart)
}

// daysBetween counts calendar days from a to b, ignoring clock shifts.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}

// WeekOfYear returns the week-year and week number of t under opt.
func WeekOfYear(t time.Time, opt Options) (year, week int) {
	loc := t.Location()
	y := t.Year()
	switch {
	case !midnight(t).Before(week1Start(y+1, opt, loc)):
		y++
	case midnight(t).Before(week1Start(y, opt, loc)):
		y--
	}
	return y, daysBetween(week1Start(y, opt, loc), t)/7 + 1
}

// dateOfWeek returns the first day of the given week of the week-year.
func dateOfWeek(weekYear, week int, opt Options, loc *time.Location) time.Time {
	return week1Start(weekYear, opt, loc).AddDate(0, 0, 7*(week-1))
}

var isoOptions = Options{WeekStart: time.Monday, FirstWeekContains: 4}
