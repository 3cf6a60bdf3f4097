package notes

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/starford/jera/internal/calendar"
	"github.com/starford/jera/internal/dateformat"
)

// Template placeholder grammar. Each class is substituted in a single
// left-to-right pass; placeholders are case-insensitive and tolerate
// interior whitespace.
var (
	dateRe      = regexp.MustCompile(`(?i)\{\{\s*date\s*\}\}`)
	timeRe      = regexp.MustCompile(`(?i)\{\{\s*time\s*\}\}`)
	titleRe     = regexp.MustCompile(`(?i)\{\{\s*title\s*\}\}`)
	calcRe      = regexp.MustCompile(`(?i)\{\{\s*(date|time)\s*(([+-]\d+)([yqmwdhs]))?\s*(:.+?)?\}\}`)
	yesterdayRe = regexp.MustCompile(`(?i)\{\{\s*yesterday\s*\}\}`)
	tomorrowRe  = regexp.MustCompile(`(?i)\{\{\s*tomorrow\s*\}\}`)
	weekdayRe   = regexp.MustCompile(`(?i)\{\{\s*(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\s*:(.*?)\}\}`)
)

// expandInput carries everything a template substitution can reference.
type expandInput struct {
	granularity calendar.Granularity
	filename    string    // target filename, no extension
	date        time.Time // target date
	now         time.Time // creation instant
	format      string    // resolved default filename format
	opt         dateformat.Options
}

// expandTemplate substitutes the placeholder grammar into content. Weekly
// notes support weekday placeholders instead of the relative-day ones.
func expandTemplate(content string, in expandInput) string {
	if in.granularity == calendar.Week {
		content = calcRe.ReplaceAllStringFunc(content, in.calc)
		content = titleRe.ReplaceAllString(content, in.filename)
		content = timeRe.ReplaceAllString(content, in.clock())
		return weekdayRe.ReplaceAllStringFunc(content, in.weekday)
	}
	content = dateRe.ReplaceAllString(content, in.filename)
	content = timeRe.ReplaceAllString(content, in.clock())
	content = titleRe.ReplaceAllString(content, in.filename)
	content = calcRe.ReplaceAllStringFunc(content, in.calc)
	content = yesterdayRe.ReplaceAllString(content,
		dateformat.Format(in.date.AddDate(0, 0, -1), in.format, in.opt))
	return tomorrowRe.ReplaceAllString(content,
		dateformat.Format(in.date.AddDate(0, 0, 1), in.format, in.opt))
}

func (in expandInput) clock() string {
	return dateformat.Format(in.now, "HH:mm", in.opt)
}

// calc handles {{date}} and {{time}} with an optional signed offset and an
// optional custom format: the target date combined with the current time of
// day, shifted, then formatted.
func (in expandInput) calc(match string) string {
	m := calcRe.FindStringSubmatch(match)
	current := time.Date(
		in.date.Year(), in.date.Month(), in.date.Day(),
		in.now.Hour(), in.now.Minute(), in.now.Second(), 0, in.date.Location(),
	)
	if m[2] != "" {
		delta, _ := strconv.Atoi(m[3])
		switch m[4] {
		case "y", "Y":
			current = current.AddDate(delta, 0, 0)
		case "q", "Q":
			current = current.AddDate(0, 3*delta, 0)
		case "m", "M":
			current = current.AddDate(0, delta, 0)
		case "w", "W":
			current = current.AddDate(0, 0, 7*delta)
		case "d", "D":
			current = current.AddDate(0, 0, delta)
		case "h", "H":
			current = current.Add(time.Duration(delta) * time.Hour)
		case "s", "S":
			current = current.Add(time.Duration(delta) * time.Second)
		}
	}
	if m[5] != "" {
		return dateformat.Format(current, strings.TrimSpace(m[5][1:]), in.opt)
	}
	return dateformat.Format(current, in.format, in.opt)
}

// weekday resolves a named weekday within the target date's week,
// honoring the configured week start.
func (in expandInput) weekday(match string) string {
	m := weekdayRe.FindStringSubmatch(match)
	offset := weekdayOffset(m[1], in.opt.WeekStart)
	day := dateformat.StartOfWeek(in.date, in.opt.WeekStart).AddDate(0, 0, offset)
	return dateformat.Format(day, strings.TrimSpace(m[2]), in.opt)
}

// weekdayOffset returns how many days past the week start the named
// weekday falls.
func weekdayOffset(name string, weekStart time.Weekday) int {
	var target time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			target = d
			break
		}
	}
	return (int(target) - int(weekStart) + 7) % 7
}
