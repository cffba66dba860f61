// Package config loads sitesync settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors the layout of the YAML config file.
type Config struct {
	Bucket           string    `yaml:"bucket"`
	Source           string    `yaml:"source"`
	Pattern          string    `yaml:"pattern"`
	Prefix           string    `yaml:"prefix"`
	Region           string    `yaml:"region"`
	StorageClass     string    `yaml:"storage_class"`
	Concurrency      int       `yaml:"concurrency"`
	DryRun           bool      `yaml:"dry_run"`
	SniffContentType bool      `yaml:"sniff_content_type"`
	Log              LogConfig `yaml:"log"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // also log to this file when set
}

// Default returns the settings used when neither a config file nor a flag
// provides a value.
func Default() *Config {
	region := os.Getenv("AWS_DEFAULT_REGION")
	if region == "" {
		region = "us-east-1"
	}
	return &Config{
		Source:       "output",
		Pattern:      "**",
		Region:       region,
		StorageClass: "STANDARD",
		Concurrency:  25,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path on top of Default. Keys absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings a sync cannot run without.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("bucket is not set")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	info, err := os.Stat(c.Source)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %q is not a directory", c.Source)
	}
	return nil
}
