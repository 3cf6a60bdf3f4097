package settings

import (
	"errors"
	"testing"

	"github.com/starford/jera/internal/calendar"
)

type fakeProvider struct {
	sections map[calendar.Granularity]Section
	err      error
}

func (p *fakeProvider) Granularity(g calendar.Granularity) (Section, error) {
	if p.err != nil {
		return Section{}, p.err
	}
	return p.sections[g], nil
}

type fakeLegacy struct {
	daily, weekly   PeriodicConfig
	hasDay, hasWeek bool
}

func (l *fakeLegacy) Daily() (PeriodicConfig, bool)  { return l.daily, l.hasDay }
func (l *fakeLegacy) Weekly() (PeriodicConfig, bool) { return l.weekly, l.hasWeek }

func TestResolveDefaults(t *testing.T) {
	r := NewResolver(nil, nil, nil)

	cases := []struct {
		g          calendar.Granularity
		wantFormat string
	}{
		{calendar.Day, "YYYY-MM-DD"},
		{calendar.Week, "gggg-[W]ww"},
		{calendar.Month, "YYYY-MM"},
		{calendar.Quarter, "YYYY-[Q]Q"},
		{calendar.Year, "YYYY"},
	}
	for _, tc := range cases {
		got := r.Resolve(tc.g)
		if got.Format != tc.wantFormat {
			t.Errorf("Resolve(%s).Format = %q, want %q", tc.g, got.Format, tc.wantFormat)
		}
		if got.Folder != "" || got.Template != "" {
			t.Errorf("Resolve(%s) folder/template not empty: %+v", tc.g, got)
		}
	}
}

func TestResolvePrefersEnabledProvider(t *testing.T) {
	p := &fakeProvider{sections: map[calendar.Granularity]Section{
		calendar.Day: {Enabled: true, Format: "DD-MM-YYYY", Folder: " journal/daily ", Template: " tpl/day.md "},
	}}
	legacy := &fakeLegacy{daily: PeriodicConfig{Format: "YYYY"}, hasDay: true}
	r := NewResolver(p, legacy, nil)

	got := r.Resolve(calendar.Day)
	if got.Format != "DD-MM-YYYY" {
		t.Errorf("Format = %q", got.Format)
	}
	if got.Folder != "journal/daily" || got.Template != "tpl/day.md" {
		t.Errorf("folder/template not trimmed: %+v", got)
	}
}

func TestResolveDisabledProviderFallsBackToLegacy(t *testing.T) {
	p := &fakeProvider{sections: map[calendar.Granularity]Section{
		calendar.Day: {Enabled: false, Format: "DD-MM-YYYY"},
	}}
	legacy := &fakeLegacy{
		daily:   PeriodicConfig{Folder: "daily"},
		weekly:  PeriodicConfig{Format: "gggg-ww"},
		hasDay:  true,
		hasWeek: true,
	}
	r := NewResolver(p, legacy, nil)

	day := r.Resolve(calendar.Day)
	if day.Folder != "daily" || day.Format != "YYYY-MM-DD" {
		t.Errorf("day = %+v", day)
	}
	week := r.Resolve(calendar.Week)
	if week.Format != "gggg-ww" {
		t.Errorf("week = %+v", week)
	}
}

func TestResolveLegacyOnlyCoversDayAndWeek(t *testing.T) {
	legacy := &fakeLegacy{hasDay: true, hasWeek: true}
	r := NewResolver(nil, legacy, nil)

	if got := r.Resolve(calendar.Month); got.Format != "YYYY-MM" {
		t.Errorf("month fell through to legacy: %+v", got)
	}
}

func TestResolveProviderErrorUsesDefaults(t *testing.T) {
	p := &fakeProvider{err: errors.New("plugin unavailable")}
	r := NewResolver(p, nil, nil)

	got := r.Resolve(calendar.Day)
	if got.Format != "YYYY-MM-DD" || got.Folder != "" || got.Template != "" {
		t.Errorf("error did not downgrade to defaults: %+v", got)
	}
}

func TestResolveEmptyProviderFieldsGetDefaults(t *testing.T) {
	p := &fakeProvider{sections: map[calendar.Granularity]Section{
		calendar.Week: {Enabled: true},
	}}
	r := NewResolver(p, nil, nil)

	got := r.Resolve(calendar.Week)
	if got.Format != "gggg-[W]ww" {
		t.Errorf("Format = %q", got.Format)
	}
}

func TestPresencePredicates(t *testing.T) {
	if r := NewResolver(nil, nil, nil); r.HasDailyNotes() || r.HasWeeklyNotes() || r.HasMonthlyNotes() {
		t.Error("no providers should mean no support")
	}

	legacy := &fakeLegacy{hasDay: true}
	if r := NewResolver(nil, legacy, nil); !r.HasDailyNotes() {
		t.Error("legacy daily plugin should enable daily notes")
	}

	p := &fakeProvider{sections: map[calendar.Granularity]Section{
		calendar.Week:  {Enabled: true},
		calendar.Month: {Enabled: false},
	}}
	r := NewResolver(p, nil, nil)
	if !r.HasWeeklyNotes() {
		t.Error("enabled weekly section should enable weekly notes")
	}
	if r.HasMonthlyNotes() {
		t.Error("disabled monthly section should not enable monthly notes")
	}

	broken := &fakeProvider{err: errors.New("boom")}
	if r := NewResolver(broken, nil, nil); r.HasMonthlyNotes() {
		t.Error("provider error should not enable monthly notes")
	}
}
