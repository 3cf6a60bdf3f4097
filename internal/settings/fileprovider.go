package settings

import (
	"fmt"
	"os"
	"path"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/jera/internal/calendar"
)

// FileConfig is the on-disk shape of an external settings file.
type FileConfig struct {
	Daily     Section `yaml:"daily"`
	Weekly    Section `yaml:"weekly"`
	Monthly   Section `yaml:"monthly"`
	Quarterly Section `yaml:"quarterly"`
	Yearly    Section `yaml:"yearly"`
}

// Validate validates every section of the configuration.
func (c *FileConfig) Validate() error {
	for name, sec := range map[string]Section{
		"daily":     c.Daily,
		"weekly":    c.Weekly,
		"monthly":   c.Monthly,
		"quarterly": c.Quarterly,
		"yearly":    c.Yearly,
	} {
		if err := sec.Validate(); err != nil {
			return fmt.Errorf("settings: section %s: %w", name, err)
		}
	}
	return nil
}

// Validate rejects paths that could escape the store root.
func (s Section) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Folder, validation.By(storeRelative)),
		validation.Field(&s.Template, validation.By(storeRelative)),
	)
}

func storeRelative(value interface{}) error {
	p, _ := value.(string)
	p = strings.TrimSpace(p)
	if p == "" {
		return nil
	}
	if strings.HasPrefix(p, "/") {
		return fmt.Errorf("must be relative to the store root")
	}
	for _, seg := range strings.Split(path.Clean(p), "/") {
		if seg == ".." {
			return fmt.Errorf("must not traverse outside the store root")
		}
	}
	return nil
}

// FileProvider is a Provider backed by a YAML settings file. Environment
// variables in the file are expanded before parsing.
type FileProvider struct {
	cfg FileConfig
}

// LoadFile reads, expands, parses, and validates a YAML settings file.
func LoadFile(filename string) (*FileProvider, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("settings: read config file %s: %w", filename, err)
	}
	return ParseFile([]byte(os.ExpandEnv(string(data))))
}

// ParseFile parses and validates raw YAML settings content.
func ParseFile(data []byte) (*FileProvider, error) {
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("settings: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &FileProvider{cfg: cfg}, nil
}

// Granularity returns the configured section for g.
func (p *FileProvider) Granularity(g calendar.Granularity) (Section, error) {
	switch g {
	case calendar.Day:
		return p.cfg.Daily, nil
	case calendar.Week:
		return p.cfg.Weekly, nil
	case calendar.Month:
		return p.cfg.Monthly, nil
	case calendar.Quarter:
		return p.cfg.Quarterly, nil
	case calendar.Year:
		return p.cfg.Yearly, nil
	default:
		return Section{}, fmt.Errorf("settings: unknown granularity %q", g)
	}
}

// Verify *FileProvider satisfies Provider at compile time.
var _ Provider = (*FileProvider)(nil)
