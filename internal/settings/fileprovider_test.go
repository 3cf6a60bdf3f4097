package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/jera/internal/calendar"
)

const sampleConfig = `
daily:
  enabled: true
  format: YYYY-MM-DD
  folder: journal/daily
  template: templates/daily.md
weekly:
  enabled: true
  format: gggg-[W]ww
monthly:
  enabled: false
  folder: journal/monthly
`

func TestParseFile(t *testing.T) {
	p, err := ParseFile([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	day, err := p.Granularity(calendar.Day)
	if err != nil {
		t.Fatalf("Granularity(day): %v", err)
	}
	if !day.Enabled || day.Folder != "journal/daily" || day.Template != "templates/daily.md" {
		t.Errorf("day section = %+v", day)
	}

	month, _ := p.Granularity(calendar.Month)
	if month.Enabled {
		t.Error("monthly should be disabled")
	}

	year, _ := p.Granularity(calendar.Year)
	if year.Enabled || year.Format != "" {
		t.Errorf("absent yearly section should be zero: %+v", year)
	}
}

func TestParseFileRejectsEscapingPaths(t *testing.T) {
	cases := []string{
		"daily:\n  folder: /abs/path\n",
		"daily:\n  template: ../outside.md\n",
		"weekly:\n  folder: a/../../b\n",
	}
	for _, cfg := range cases {
		if _, err := ParseFile([]byte(cfg)); err == nil {
			t.Errorf("config %q unexpectedly valid", cfg)
		}
	}
}

func TestParseFileRejectsMalformedYAML(t *testing.T) {
	if _, err := ParseFile([]byte("daily: [")); err == nil {
		t.Error("malformed YAML accepted")
	}
}

func TestLoadFileExpandsEnv(t *testing.T) {
	t.Setenv("NOTES_DIR", "journal")
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "daily:\n  enabled: true\n  folder: ${NOTES_DIR}/daily\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	day, _ := p.Granularity(calendar.Day)
	if day.Folder != "journal/daily" {
		t.Errorf("folder = %q, want journal/daily", day.Folder)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read config file") {
		t.Errorf("unexpected error: %v", err)
	}
}
