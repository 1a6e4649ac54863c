package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/regorov/imagehues"
	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the configuration file schema. Values set by command
// line flags or environment variables take precedence over the file.
type FileConfig struct {
	Debug      bool   `yaml:"debug"`
	SampleSize int    `yaml:"sampleSize"`
	ColorCount int    `yaml:"colorCount"`
	Input      string `yaml:"input"`
	Output     string `yaml:"output"`
	Workers    int    `yaml:"workers"`

	HTTP struct {
		ReadTimeout     time.Duration `yaml:"readTimeout"`
		MaxConnsPerHost int           `yaml:"maxConnsPerHost"`
	} `yaml:"http"`
}

// DefaultFileConfig returns configuration used when no file is given.
func DefaultFileConfig() FileConfig {
	var fc FileConfig
	fc.SampleSize = imagehues.DefaultSampleSize
	fc.ColorCount = imagehues.DefaultColorCount
	fc.Input = "input.txt"
	fc.Output = "result.csv"
	fc.Workers = runtime.NumCPU()
	fc.HTTP.ReadTimeout = imagehues.DefaultReadTimeout
	fc.HTTP.MaxConnsPerHost = imagehues.DefaultMaxConnsPerHost
	return fc
}

// LoadConfig reads YAML file at path over the defaults. Empty path returns defaults.
func LoadConfig(path string) (FileConfig, error) {
	fc := DefaultFileConfig()
	if path == "" {
		return fc, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 - user supplied config file.
	if err != nil {
		return fc, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, fc.Validate()
}

// Validate checks values which can not be corrected silently.
// Sample size and color count are clamped by the extractor itself.
func (fc FileConfig) Validate() error {
	if fc.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", fc.Workers)
	}
	if fc.HTTP.ReadTimeout <= 0 {
		return errors.New("http.readTimeout must be positive")
	}
	if fc.HTTP.MaxConnsPerHost < 1 {
		return fmt.Errorf("http.maxConnsPerHost must be at least 1, got %d", fc.HTTP.MaxConnsPerHost)
	}
	return nil
}
