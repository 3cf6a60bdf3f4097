package dateformat

import (
	"regexp"
	"strings"
	"time"
)

var (
	bracketRe  = regexp.MustCompile(`\[[^\]]*\]`)
	weekTokRe  = regexp.MustCompile(`(?i)w{1,2}`)
	monthTokRe = regexp.MustCompile(`M{1,4}`)
	dayTokRe   = regexp.MustCompile(`D{1,4}`)
)

// Ambiguous reports whether a week pattern is self-contradictory: after
// stripping bracketed literals it encodes both a week number and a
// month or day-of-month, which can disagree for the same date.
func Ambiguous(pattern string) bool {
	clean := bracketRe.ReplaceAllString(pattern, "")
	return weekTokRe.MatchString(clean) &&
		(monthTokRe.MatchString(clean) || dayTokRe.MatchString(clean))
}

// parsed accumulates fields as tokens are matched against the input.
type parsed struct {
	year, month, day           int
	weekYear, week             int
	isoWeekYear, isoWeek       int
	quarter                    int
	hour, minute, second       int
	pm                         bool
	sawYear, sawMonth, sawDay  bool
	sawWeekYear, sawWeek       bool
	sawISOWeekYear, sawISOWeek bool
	sawQuarter                 bool
	saw12Hour, sawAMPM         bool
}

// Parse strictly matches name against pattern: every token must match at
// its exact position, the whole input must be consumed, and the parsed
// fields must form a valid calendar date. The boolean result is false on
// any mismatch.
func Parse(name, pattern string, opt Options) (time.Time, bool) {
	var p parsed
	rest, ok := matchTokens(&p, name, tokenize(pattern), true)
	if !ok || rest != "" {
		return time.Time{}, false
	}
	return p.build(opt)
}

// ParseWeekLenient re-parses name against pattern with all month and
// day-of-month tokens stripped, stopping at the first mismatch instead of
// failing. It succeeds once a week number and a year for it were seen.
// This is the loosened interpretation used for ambiguous week patterns.
func ParseWeekLenient(name, pattern string, opt Options) (time.Time, bool) {
	stripped := dayTokRe.ReplaceAllString(monthTokRe.ReplaceAllString(pattern, ""), "")
	var p parsed
	matchTokens(&p, name, tokenize(stripped), false)
	if !p.sawWeek || !(p.sawWeekYear || p.sawYear) {
		return time.Time{}, false
	}
	return p.build(opt)
}

// matchTokens consumes input token by token. In strict mode any mismatch
// aborts; in lenient mode matching stops at the first mismatch and the
// fields gathered so far are kept. Returns the unconsumed input.
func matchTokens(p *parsed, input string, toks []token, strict bool) (string, bool) {
	s := input
	for _, tok := range toks {
		var ok bool
		s, ok = matchToken(p, s, tok, strict)
		if !ok {
			if strict {
				return s, false
			}
			return s, true
		}
	}
	return s, true
}

func matchToken(p *parsed, s string, tok token, strict bool) (string, bool) {
	num2 := func(dst *int, saw *bool) (string, bool) {
		min := 1
		if strict {
			min = 2
		}
		v, rest, ok := takeDigits(s, min, 2)
		if !ok {
			return s, false
		}
		*dst = v
		if saw != nil {
			*saw = true
		}
		return rest, true
	}
	num1 := func(dst *int, saw *bool) (string, bool) {
		v, rest, ok := takeDigits(s, 1, 2)
		if !ok {
			return s, false
		}
		*dst = v
		if saw != nil {
			*saw = true
		}
		return rest, true
	}

	switch tok.kind {
	case tokLiteral:
		if !strings.HasPrefix(s, tok.text) {
			return s, false
		}
		return s[len(tok.text):], true
	case tokYear4:
		v, rest, ok := takeDigits(s, 4, 4)
		if !ok {
			return s, false
		}
		p.year, p.sawYear = v, true
		return rest, true
	case tokYear2:
		v, rest, ok := takeDigits(s, 2, 2)
		if !ok {
			return s, false
		}
		p.year, p.sawYear = 2000+v, true
		return rest, true
	case tokWeekYear:
		v, rest, ok := takeDigits(s, 4, 4)
		if !ok {
			return s, false
		}
		p.weekYear, p.sawWeekYear = v, true
		return rest, true
	case tokISOWeekYear:
		v, rest, ok := takeDigits(s, 4, 4)
		if !ok {
			return s, false
		}
		p.isoWeekYear, p.sawISOWeekYear = v, true
		return rest, true
	case tokMonthName, tokMonthAbbr:
		m, rest, ok := takeMonthName(s, tok.kind == tokMonthAbbr)
		if !ok {
			return s, false
		}
		p.month, p.sawMonth = m, true
		return rest, true
	case tokMonth2:
		return num2(&p.month, &p.sawMonth)
	case tokMonth:
		return num1(&p.month, &p.sawMonth)
	case tokDay2:
		return num2(&p.day, &p.sawDay)
	case tokDay:
		return num1(&p.day, &p.sawDay)
	case tokWeekdayName, tokWeekdayAbbr:
		rest, ok := takeWeekdayName(s, tok.kind == tokWeekdayAbbr)
		if !ok {
			return s, false
		}
		return rest, true
	case tokWeek2:
		return num2(&p.week, &p.sawWeek)
	case tokWeek:
		return num1(&p.week, &p.sawWeek)
	case tokISOWeek2:
		return num2(&p.isoWeek, &p.sawISOWeek)
	case tokISOWeek:
		return num1(&p.isoWeek, &p.sawISOWeek)
	case tokQuarter:
		v, rest, ok := takeDigits(s, 1, 1)
		if !ok {
			return s, false
		}
		p.quarter, p.sawQuarter = v, true
		return rest, true
	case tokHour2:
		return num2(&p.hour, nil)
	case tokHour:
		return num1(&p.hour, nil)
	case tokHour12Pad:
		rest, ok := num2(&p.hour, nil)
		p.saw12Hour = p.saw12Hour || ok
		return rest, ok
	case tokHour12:
		rest, ok := num1(&p.hour, nil)
		p.saw12Hour = p.saw12Hour || ok
		return rest, ok
	case tokMinute2:
		return num2(&p.minute, nil)
	case tokMinute:
		return num1(&p.minute, nil)
	case tokSecond2:
		return num2(&p.second, nil)
	case tokSecond:
		return num1(&p.second, nil)
	case tokAMPMUpper, tokAMPMLower:
		low := strings.ToLower(s)
		switch {
		case strings.HasPrefix(low, "am"):
			p.sawAMPM = true
			return s[2:], true
		case strings.HasPrefix(low, "pm"):
			p.pm, p.sawAMPM = true, true
			return s[2:], true
		}
		return s, false
	}
	return s, false
}

// build assembles a date from the matched fields. Week fields win over
// calendar fields so an unambiguous week pattern reconstructs the start
// of its week.
func (p *parsed) build(opt Options) (time.Time, bool) {
	loc := opt.location()
	hour := p.hour
	if p.saw12Hour && p.sawAMPM {
		hour = hour % 12
		if p.pm {
			hour += 12
		}
	}
	clock := func(d time.Time) time.Time {
		return time.Date(d.Year(), d.Month(), d.Day(), hour, p.minute, p.second, 0, loc)
	}

	switch {
	case p.sawWeek:
		wy := p.weekYear
		if !p.sawWeekYear {
			if !p.sawYear {
				return time.Time{}, false
			}
			wy = p.year
		}
		if p.week < 1 || p.week > 53 {
			return time.Time{}, false
		}
		d := dateOfWeek(wy, p.week, opt, loc)
		if gotYear, gotWeek := WeekOfYear(d, opt); gotYear != wy || gotWeek != p.week {
			return time.Time{}, false
		}
		return clock(d), true

	case p.sawISOWeek:
		wy := p.isoWeekYear
		if !p.sawISOWeekYear {
			if !p.sawYear {
				return time.Time{}, false
			}
			wy = p.year
		}
		if p.isoWeek < 1 || p.isoWeek > 53 {
			return time.Time{}, false
		}
		d := dateOfWeek(wy, p.isoWeek, isoOptions, loc)
		if gotYear, gotWeek := d.ISOWeek(); gotYear != wy || gotWeek != p.isoWeek {
			return time.Time{}, false
		}
		return clock(d), true

	case p.sawQuarter:
		if !p.sawYear || p.quarter < 1 || p.quarter > 4 {
			return time.Time{}, false
		}
		return clock(time.Date(p.year, time.Month((p.quarter-1)*3+1), 1, 0, 0, 0, 0, loc)), true

	default:
		if !p.sawYear {
			return time.Time{}, false
		}
		month, day := p.month, p.day
		if !p.sawMonth {
			month = 1
		}
		if !p.sawDay {
			day = 1
		}
		d := time.Date(p.year, time.Month(month), day, 0, 0, 0, 0, loc)
		if d.Year() != p.year || int(d.Month()) != month || d.Day() != day {
			return time.Time{}, false
		}
		return clock(d), true
	}
}

// takeDigits consumes between min and max ASCII digits from the front of s.
func takeDigits(s string, min, max int) (int, string, bool) {
	n := 0
	for n < len(s) && n < max && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n < min {
		return 0, s, false
	}
	v := 0
	for i := 0; i < n; i++ {
		v = v*10 + int(s[i]-'0')
	}
	return v, s[n:], true
}

func takeMonthName(s string, abbr bool) (int, string, bool) {
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if abbr {
			name = name[:3]
		}
		if len(s) >= len(name) && strings.EqualFold(s[:len(name)], name) {
			return int(m), s[len(name):], true
		}
	}
	return 0, s, false
}

func takeWeekdayName(s string, abbr bool) (string, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if abbr {
			name = name[:3]
		}
		if len(s) >= len(name) && strings.EqualFold(s[:len(name)], name) {
			return s[len(name):], true
		}
	}
	return s, false
}
