// Package config loads fightcareers settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pable/go-fight-careers/internal/career"
	"github.com/pable/go-fight-careers/internal/dataset"
	"github.com/pable/go-fight-careers/internal/schema"
	"github.com/pable/go-fight-careers/internal/title"
)

// Config is the full on-disk configuration.
type Config struct {
	// Database is the SQLite store path.
	Database string `yaml:"database"`

	Columns schema.Convention `yaml:"columns"`
	Dataset dataset.Options   `yaml:"dataset"`
	Career  career.Options    `yaml:"career"`
	Titles  title.Fields      `yaml:"titles"`
	Analyze AnalyzeConfig     `yaml:"analyze"`
}

// AnalyzeConfig holds the LLM settings for the analyze command.
type AnalyzeConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"-"` // env only
}

// Default returns the configuration for the bout dataset export.
func Default() *Config {
	return &Config{
		Database: filepath.Join(userHome(), ".fightcareers", "bouts.db"),
		Columns:  schema.DefaultConvention(),
		Dataset:  dataset.DefaultOptions(),
		Career:   career.DefaultOptions(),
		Titles:   title.DefaultFields(),
		Analyze:  AnalyzeConfig{Model: "claude-haiku-4-5-20251001"},
	}
}

// DefaultPath is ~/.fightcareers/config.yaml.
func DefaultPath() string {
	return filepath.Join(userHome(), ".fightcareers", "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("FIGHTCAREERS_DB"); path != "" {
		c.Database = path
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.Analyze.APIKey = key
	}
}

// Validate rejects settings the resolver and builders cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Database == "" {
		errs = append(errs, errors.New("database path is empty"))
	}
	if c.Columns.Side1Marker == "" || c.Columns.Side2Marker == "" {
		errs = append(errs, errors.New("columns: both side markers are required"))
	}
	if c.Columns.Side1Marker != "" && c.Columns.Side1Marker == c.Columns.Side2Marker {
		errs = append(errs, fmt.Errorf("columns: side markers must differ, both %q", c.Columns.Side1Marker))
	}
	if c.Columns.Identity == "" {
		errs = append(errs, errors.New("columns: identity base is required"))
	}
	seen := make(map[string]bool)
	for _, d := range c.Career.Diffs {
		if d.Name == "" || d.Base == "" {
			errs = append(errs, fmt.Errorf("career: diff %+v needs name and base", d))
			continue
		}
		if seen[d.Name] {
			errs = append(errs, fmt.Errorf("career: duplicate diff %q", d.Name))
		}
		seen[d.Name] = true
	}
	if c.Titles.TitleFlag == "" || c.Titles.ChampionFlag == "" {
		errs = append(errs, errors.New("titles: title_flag and champion_flag are required"))
	}
	return errors.Join(errs...)
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
