package index

import (
	"path"
	"strings"
	"time"

	"github.com/starford/jera/internal/calendar"
	"github.com/starford/jera/internal/dateformat"
	"github.com/starford/jera/internal/vault"
)

// granularityPriority is the order tried when matching a file to a period.
// The order is load-bearing: a name that parses as both a day and a week
// note resolves to day.
var granularityPriority = []calendar.Granularity{calendar.Day, calendar.Week, calendar.Month}

// dateForName parses an extension-stripped basename against the currently
// configured format for g. Week formats that also encode a month or day are
// self-contradictory; those fall back to the loosened week-only parse.
func (c *Cache) dateForName(name string, g calendar.Granularity) (time.Time, bool) {
	format := c.resolver.Resolve(g).Format
	// Formats may embed folder structure; the basename parses against the
	// final segment only.
	if i := strings.LastIndexByte(format, '/'); i >= 0 {
		format = format[i+1:]
	}
	if format == "" {
		return time.Time{}, false
	}
	opt := c.cal.FormatOptions()
	t, ok := dateformat.Parse(name, format, opt)
	if !ok {
		return time.Time{}, false
	}
	if g == calendar.Week && dateformat.Ambiguous(format) {
		return dateformat.ParseWeekLenient(name, format, opt)
	}
	return t, true
}

// DateFromFile parses the date a file represents at granularity g.
func (c *Cache) DateFromFile(f vault.File, g calendar.Granularity) (time.Time, bool) {
	return c.dateForName(f.Basename, g)
}

// DateFromPath parses the date the path's basename represents at g.
func (c *Cache) DateFromPath(p string, g calendar.Granularity) (time.Time, bool) {
	base := path.Base(p)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return c.dateForName(base, g)
}

// UIDFromFile returns the UID of the first granularity, in priority order,
// whose format parses the file's basename.
func (c *Cache) UIDFromFile(f vault.File) (string, bool) {
	for _, g := range granularityPriority {
		if date, ok := c.DateFromFile(f, g); ok {
			return c.cal.UID(date, g), true
		}
	}
	return "", false
}

// UIDFromPath is UIDFromFile for a bare path.
func (c *Cache) UIDFromPath(p string) (string, bool) {
	for _, g := range granularityPriority {
		if date, ok := c.DateFromPath(p, g); ok {
			return c.cal.UID(date, g), true
		}
	}
	return "", false
}
