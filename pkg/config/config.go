package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Upload failure policies
const (
	PolicyBestEffort = "best-effort"
	PolicyFailFast   = "fail-fast"
)

// Config holds all configuration options for photosync
type Config struct {
	VK      VKConfig      `yaml:"vk" json:"vk"`
	Disk    DiskConfig    `yaml:"disk" json:"disk"`
	Upload  UploadConfig  `yaml:"upload" json:"upload"`
	Report  ReportConfig  `yaml:"report" json:"report"`
	HTTP    HTTPConfig    `yaml:"http" json:"http"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// VKConfig holds the photo source settings
type VKConfig struct {
	Token      string `yaml:"token" json:"token"`
	APIVersion string `yaml:"api_version" json:"api_version"`
	BaseURL    string `yaml:"base_url" json:"base_url"`
	Album      string `yaml:"album" json:"album"`
}

// DiskConfig holds the cloud storage settings
type DiskConfig struct {
	Token   string `yaml:"token" json:"token"`
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// UploadConfig controls selection and upload behaviour
type UploadConfig struct {
	Count  int    `yaml:"count" json:"count"`
	Folder string `yaml:"folder" json:"folder"`
	Policy string `yaml:"policy" json:"policy"`
}

// ReportConfig controls where the upload report goes
type ReportConfig struct {
	Path string `yaml:"path" json:"path"`
}

// HTTPConfig holds transport settings shared by both API clients
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config with the values used when nothing else is set
func DefaultConfig() *Config {
	return &Config{
		VK: VKConfig{
			APIVersion: "5.199",
			BaseURL:    "https://api.vk.com/method",
			Album:      "wall",
		},
		Disk: DiskConfig{
			BaseURL: "https://cloud-api.yandex.net/v1/disk",
		},
		Upload: UploadConfig{
			Count:  5,
			Policy: PolicyBestEffort,
		},
		Report: ReportConfig{
			Path: "photos_info.json",
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv overrides values from PHOTOSYNC_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv("PHOTOSYNC_VK_TOKEN"); v != "" {
		c.VK.Token = v
	}
	if v := os.Getenv("PHOTOSYNC_DISK_TOKEN"); v != "" {
		c.Disk.Token = v
	}
	if v := os.Getenv("PHOTOSYNC_VK_API_VERSION"); v != "" {
		c.VK.APIVersion = v
	}
	if v := os.Getenv("PHOTOSYNC_ALBUM"); v != "" {
		c.VK.Album = v
	}
	if v := os.Getenv("PHOTOSYNC_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("PHOTOSYNC_COUNT: %w", err))
		} else {
			c.Upload.Count = n
		}
	}
	if v := os.Getenv("PHOTOSYNC_FOLDER"); v != "" {
		c.Upload.Folder = v
	}
	if v := os.Getenv("PHOTOSYNC_POLICY"); v != "" {
		c.Upload.Policy = v
	}
	if v := os.Getenv("PHOTOSYNC_REPORT_PATH"); v != "" {
		c.Report.Path = v
	}
	if v := os.Getenv("PHOTOSYNC_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("PHOTOSYNC_HTTP_TIMEOUT: %w", err))
		} else {
			c.HTTP.Timeout = d
		}
	}
	if v := os.Getenv("PHOTOSYNC_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file. An empty path searches
// the default locations; finding nothing there is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".photosync.yaml",
		".photosync.yml",
		filepath.Join(home, ".config", "photosync", "config.yaml"),
		filepath.Join(home, ".config", "photosync", "config.yml"),
		filepath.Join(home, ".photosync.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// MergeFlags applies command line overrides. Keys match the flag names;
// zero values are ignored.
func (c *Config) MergeFlags(flags map[string]interface{}) {
	if v, ok := flags["vk-token"].(string); ok && v != "" {
		c.VK.Token = v
	}
	if v, ok := flags["disk-token"].(string); ok && v != "" {
		c.Disk.Token = v
	}
	if v, ok := flags["album"].(string); ok && v != "" {
		c.VK.Album = v
	}
	if v, ok := flags["count"].(int); ok && v > 0 {
		c.Upload.Count = v
	}
	if v, ok := flags["folder"].(string); ok && v != "" {
		c.Upload.Folder = v
	}
	if v, ok := flags["policy"].(string); ok && v != "" {
		c.Upload.Policy = v
	}
	if v, ok := flags["report"].(string); ok && v != "" {
		c.Report.Path = v
	}
	if v, ok := flags["timeout"].(time.Duration); ok && v > 0 {
		c.HTTP.Timeout = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Validate checks settings that do not depend on the run. Tokens and the
// folder name are checked separately by ValidateRun since the CLI may still
// prompt for them.
func (c *Config) Validate() error {
	var errs []error

	if c.VK.APIVersion == "" {
		errs = append(errs, errors.New("vk api version is required"))
	}
	if c.VK.BaseURL == "" {
		errs = append(errs, errors.New("vk base url is required"))
	}
	if c.VK.Album == "" {
		errs = append(errs, errors.New("album is required"))
	}
	if c.Disk.BaseURL == "" {
		errs = append(errs, errors.New("disk base url is required"))
	}
	if c.Upload.Count <= 0 {
		errs = append(errs, errors.New("upload count must be positive"))
	}
	switch c.Upload.Policy {
	case PolicyBestEffort, PolicyFailFast:
	default:
		errs = append(errs, fmt.Errorf("invalid upload policy %q (want %s or %s)", c.Upload.Policy, PolicyBestEffort, PolicyFailFast))
	}
	if c.Report.Path == "" {
		errs = append(errs, errors.New("report path is required"))
	}
	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("http timeout must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// ValidateRun checks the values a sync run cannot start without
func (c *Config) ValidateRun() error {
	var errs []error
	if c.VK.Token == "" {
		errs = append(errs, errors.New("vk token is required"))
	}
	if c.Disk.Token == "" {
		errs = append(errs, errors.New("disk token is required"))
	}
	if strings.TrimSpace(c.Upload.Folder) == "" {
		errs = append(errs, errors.New("destination folder is required"))
	}
	return errors.Join(errs...)
}

// FailFast reports whether the first upload failure should abort the run
func (c *Config) FailFast() bool {
	return c.Upload.Policy == PolicyFailFast
}

// Save writes the configuration as YAML with owner-only permissions
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load builds the configuration from all sources.
// Precedence: flags > environment > .env file > config file > defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".photosync.env"))

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg.MergeFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
