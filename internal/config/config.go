package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the conventional config file name in a project directory.
const FileName = "cashscore.yaml"

// Config represents the top-level cashscore.yaml configuration.
type Config struct {
	Scoring      ScoringConfig `yaml:"scoring"`
	TaxonomyPath string        `yaml:"taxonomy_path,omitempty"` // empty = built-in taxonomy
	Batch        BatchConfig   `yaml:"batch"`
	Store        StoreConfig   `yaml:"store"`
	Log          LogConfig     `yaml:"log"`
}

// ScoringConfig controls signal extraction and the trained model.
type ScoringConfig struct {
	ModelPath         string `yaml:"model_path,omitempty"` // empty or missing file = rule-based fallback
	ObservationMonths int    `yaml:"observation_months"`
}

// BatchConfig sizes the scoring worker pool.
type BatchConfig struct {
	Workers int `yaml:"workers"` // 0 = GOMAXPROCS
}

// StoreConfig selects the SQL store for scored records.
type StoreConfig struct {
	Driver string `yaml:"driver"` // sqlite | postgres
	DSN    string `yaml:"dsn"`
}

// LogConfig controls logger output.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`                 // json | pretty
	File       string `yaml:"file,omitempty"`         // optional rotated JSON log
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`  // rotation size
	MaxAgeDays int    `yaml:"max_age_days,omitempty"` // retention
}

// Load reads a cashscore.yaml file from disk. Fields absent from the file
// keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Scoring: ScoringConfig{
			ModelPath:         filepath.Join("models", "model.yaml"),
			ObservationMonths: 6,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    filepath.Join("out", "scores.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "pretty",
		},
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.Scoring.ObservationMonths <= 0 {
		errs = append(errs, fmt.Errorf("scoring.observation_months must be positive, got %d", c.Scoring.ObservationMonths))
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, errors.New("log.max_size_mb and log.max_age_days must not be negative"))
	}
	if c.Batch.Workers < 0 {
		errs = append(errs, fmt.Errorf("batch.workers must not be negative, got %d", c.Batch.Workers))
	}
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("store.driver must be sqlite or postgres, got %q", c.Store.Driver))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "pretty":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or pretty, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Resolve makes relative file paths absolute against dir, usually the
// directory holding the config file. Postgres DSNs are left alone.
func (c *Config) Resolve(dir string) {
	c.Scoring.ModelPath = resolve(dir, c.Scoring.ModelPath)
	c.TaxonomyPath = resolve(dir, c.TaxonomyPath)
	c.Log.File = resolve(dir, c.Log.File)
	if c.Store.Driver == "sqlite" {
		c.Store.DSN = resolve(dir, c.Store.DSN)
	}
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
