// Package config loads the server configuration from YAML.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the server.
type Config struct {
	// DataDir is scanned for file:// resources.
	DataDir string `yaml:"data_dir"`

	// RestrictedPaths are path prefixes the file tools refuse to touch.
	RestrictedPaths []string `yaml:"restricted_paths"`

	// AllowedExtensions are the file extensions the file tools accept.
	AllowedExtensions []string `yaml:"allowed_extensions"`

	// MaxResponseBytes caps fetched and downloaded payloads.
	MaxResponseBytes int64 `yaml:"max_response_bytes"`

	// MaxConcurrentRequests bounds simultaneous outbound web calls.
	MaxConcurrentRequests int64 `yaml:"max_concurrent_requests"`

	// RequestTimeout applies to each outbound web request.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// SearchEndpoint is the stand-in search API queried by search_web.
	SearchEndpoint string `yaml:"search_endpoint"`

	// AllowedDomains is advisory: off-list hosts are logged, not blocked.
	AllowedDomains []string `yaml:"allowed_domains"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DataDir:               "data",
		RestrictedPaths:       []string{"/etc", "/usr", "/bin", "/sbin", "/var", "/root", "/home"},
		AllowedExtensions:     []string{".txt", ".md", ".json", ".csv", ".log", ".py", ".js", ".html", ".css"},
		MaxResponseBytes:      1024 * 1024,
		MaxConcurrentRequests: 5,
		RequestTimeout:        30 * time.Second,
		SearchEndpoint:        "https://jsonplaceholder.typicode.com/posts",
		AllowedDomains:        []string{},
	}
}

// LoadFile loads configuration from a YAML file. A missing file is not an
// error; the defaults apply.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads YAML configuration from r on top of the defaults.
func Load(r io.Reader) (*Config, error) {
	config := Default()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading config data: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config YAML: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.MaxResponseBytes <= 0 {
		return fmt.Errorf("max_response_bytes must be positive")
	}
	if c.MaxConcurrentRequests <= 0 {
		return fmt.Errorf("max_concurrent_requests must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}

// Save writes the configuration to a YAML file, creating parent directories
// as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
