package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"wallfetch/pkg/digest"
	errs "wallfetch/pkg/errors"
)

// Mode selects how the next image is requested from the remote service
type Mode string

const (
	ModeRandom  Mode = "random"
	ModeKeyword Mode = "keyword"
)

// ParseMode converts user input to a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeRandom:
		return ModeRandom, nil
	case ModeKeyword:
		return ModeKeyword, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want random or keyword)", s)
	}
}

// Defaults used when nothing else supplies a value
const (
	DefaultResolution      = "1920x1080"
	DefaultMaxWallpapers   = 100
	DefaultDelaySeconds    = 300
	DefaultHistoryFileName = "download_history.txt"
	DefaultBaseURL         = "https://source.unsplash.com"
	DefaultUserAgent       = "wallfetch/1.0 (+https://github.com/jeremystevens/wallpaper-downloader)"
)

var resolutionPattern = regexp.MustCompile(`^[1-9][0-9]*x[1-9][0-9]*$`)

// ValidResolution reports whether s has the WIDTHxHEIGHT form
func ValidResolution(s string) bool {
	return resolutionPattern.MatchString(s)
}

// Config holds all configuration options for wallfetch
type Config struct {
	// Remote image service
	Source SourceConfig `yaml:"source" json:"source"`

	// What to download and how often
	Download DownloadConfig `yaml:"download" json:"download"`

	// Where images are written
	Output OutputConfig `yaml:"output" json:"output"`

	// Dedup ledger
	History HistoryConfig `yaml:"history" json:"history"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// given records download keys supplied by a file, the environment or flags
	given map[string]bool
}

// Download keys tracked by Given
const (
	KeyResolution    = "resolution"
	KeyMode          = "mode"
	KeyKeyword       = "keyword"
	KeyMaxWallpapers = "max_wallpapers"
	KeyDelay         = "delay_seconds"
)

// Given reports whether a download setting was supplied explicitly rather than
// left at its default. Prompts are only shown for settings not given.
func (c *Config) Given(key string) bool {
	return c.given[key]
}

func (c *Config) markGiven(key string) {
	if c.given == nil {
		c.given = map[string]bool{}
	}
	c.given[key] = true
}

// SourceConfig holds remote image service settings
type SourceConfig struct {
	BaseURL   string `yaml:"base_url" json:"base_url"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// DownloadConfig is the per-run download configuration. Keyword is set iff Mode is keyword.
type DownloadConfig struct {
	Resolution    string        `yaml:"resolution" json:"resolution"`
	Mode          Mode          `yaml:"mode" json:"mode"`
	Keyword       string        `yaml:"keyword" json:"keyword"`
	MaxWallpapers int           `yaml:"max_wallpapers" json:"max_wallpapers"`
	DelaySeconds  int           `yaml:"delay_seconds" json:"delay_seconds"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
	RetryAttempts int           `yaml:"retry_attempts" json:"retry_attempts"`
	// MaxAttempts bounds resolve/download attempts for the whole run; 0 means unbounded
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts"`
}

// Delay returns the pacing delay as a duration
func (d DownloadConfig) Delay() time.Duration {
	return time.Duration(d.DelaySeconds) * time.Second
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory      string `yaml:"directory" json:"directory"`
	FileNamePrefix string `yaml:"file_name_prefix" json:"file_name_prefix"`
}

// HistoryConfig holds history file configuration
type HistoryConfig struct {
	// File defaults to <output.directory>/download_history.txt when empty
	File      string `yaml:"file" json:"file"`
	Algorithm string `yaml:"algorithm" json:"algorithm"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled    bool `yaml:"enabled" json:"enabled"`
	OnComplete bool `yaml:"on_complete" json:"on_complete"`
	OnError    bool `yaml:"on_error" json:"on_error"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
	// ConsoleLevel further limits what reaches the terminal; the file still gets Level
	ConsoleLevel string `yaml:"console_level" json:"console_level"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:   DefaultBaseURL,
			UserAgent: DefaultUserAgent,
		},
		Download: DownloadConfig{
			Resolution:    DefaultResolution,
			Mode:          ModeRandom,
			MaxWallpapers: DefaultMaxWallpapers,
			DelaySeconds:  DefaultDelaySeconds,
			Timeout:       30 * time.Second,
			RetryAttempts: 3,
		},
		Output: OutputConfig{
			Directory:      defaultPicturesDir(),
			FileNamePrefix: "wallpaper",
		},
		History: HistoryConfig{
			Algorithm: string(digest.MD5),
		},
		Notifications: NotificationConfig{
			Enabled:    true,
			OnComplete: true,
			OnError:    false,
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleLevel: "error",
		},
	}
}

// defaultPicturesDir is the user's Pictures folder, or ./Pictures without a home directory
func defaultPicturesDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "Pictures"
	}
	return filepath.Join(home, "Pictures")
}

// HistoryPath returns the resolved history file path
func (c *Config) HistoryPath() string {
	if c.History.File != "" {
		return c.History.File
	}
	return filepath.Join(c.Output.Directory, DefaultHistoryFileName)
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("WALLFETCH_RESOLUTION"); v != "" {
		c.Download.Resolution = v
		c.markGiven(KeyResolution)
	}
	if v := os.Getenv("WALLFETCH_MODE"); v != "" {
		c.Download.Mode = Mode(strings.ToLower(v))
		c.markGiven(KeyMode)
	}
	if v := os.Getenv("WALLFETCH_KEYWORD"); v != "" {
		c.Download.Keyword = v
		c.markGiven(KeyKeyword)
	}
	if v := os.Getenv("WALLFETCH_MAX_WALLPAPERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WALLFETCH_MAX_WALLPAPERS: %w", err)
		}
		c.Download.MaxWallpapers = n
		c.markGiven(KeyMaxWallpapers)
	}
	if v := os.Getenv("WALLFETCH_DELAY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WALLFETCH_DELAY: %w", err)
		}
		c.Download.DelaySeconds = n
		c.markGiven(KeyDelay)
	}
	if v := os.Getenv("WALLFETCH_OUTPUT_DIR"); v != "" {
		c.Output.Directory = v
	}
	if v := os.Getenv("WALLFETCH_HISTORY_FILE"); v != "" {
		c.History.File = v
	}
	if v := os.Getenv("WALLFETCH_HASH_ALGORITHM"); v != "" {
		c.History.Algorithm = strings.ToLower(v)
	}
	if v := os.Getenv("WALLFETCH_BASE_URL"); v != "" {
		c.Source.BaseURL = v
	}
	if v := os.Getenv("WALLFETCH_USER_AGENT"); v != "" {
		c.Source.UserAgent = v
	}
	if v := os.Getenv("WALLFETCH_NOTIFICATIONS_ENABLED"); v != "" {
		c.Notifications.Enabled = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("WALLFETCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("WALLFETCH_CONSOLE_LOG_LEVEL"); v != "" {
		c.Logging.ConsoleLevel = v
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	var raw struct {
		Download map[string]interface{} `yaml:"download"`
	}
	if err := yaml.Unmarshal(data, &raw); err == nil {
		for _, key := range []string{KeyResolution, KeyMode, KeyKeyword, KeyMaxWallpapers, KeyDelay} {
			if _, ok := raw.Download[key]; ok {
				c.markGiven(key)
			}
		}
	}

	return nil
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".wallfetch.yaml",
		".wallfetch.yml",
		filepath.Join(home, ".config", "wallfetch", "config.yaml"),
		filepath.Join(home, ".config", "wallfetch", "config.yml"),
		filepath.Join(home, ".wallfetch.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// Normalize canonicalises case, drops a stray keyword in random mode and
// restores defaults for values left blank
func (c *Config) Normalize() {
	c.Download.Mode = Mode(strings.ToLower(string(c.Download.Mode)))
	c.Download.Keyword = strings.TrimSpace(c.Download.Keyword)
	if c.Download.Mode == ModeRandom {
		c.Download.Keyword = ""
	}
	c.History.Algorithm = strings.ToLower(c.History.Algorithm)

	// Blank values in a config file mean "use the default"
	if c.Output.Directory == "" {
		c.Output.Directory = defaultPicturesDir()
	}
	if c.Source.UserAgent == "" {
		c.Source.UserAgent = DefaultUserAgent
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errList []error

	d := c.Download
	if !ValidResolution(d.Resolution) {
		errList = append(errList, fmt.Errorf("resolution %q must look like 1920x1080", d.Resolution))
	}
	switch d.Mode {
	case ModeRandom:
		if d.Keyword != "" {
			errList = append(errList, errors.New("keyword must be empty in random mode"))
		}
	case ModeKeyword:
		if d.Keyword == "" {
			errList = append(errList, errors.New("keyword is required in keyword mode"))
		}
	default:
		errList = append(errList, fmt.Errorf("mode %q must be random or keyword", d.Mode))
	}
	if d.MaxWallpapers < 0 {
		errList = append(errList, errors.New("max wallpapers cannot be negative"))
	}
	if d.DelaySeconds < 0 {
		errList = append(errList, errors.New("delay cannot be negative"))
	}
	if d.Timeout <= 0 {
		errList = append(errList, errors.New("download timeout must be positive"))
	}
	if d.RetryAttempts < 1 {
		errList = append(errList, errors.New("retry attempts must be at least 1"))
	}
	if d.MaxAttempts < 0 {
		errList = append(errList, errors.New("max attempts cannot be negative"))
	}

	if u, err := url.Parse(c.Source.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errList = append(errList, fmt.Errorf("source base URL %q must be an http(s) URL", c.Source.BaseURL))
	}

	if c.Output.Directory == "" {
		errList = append(errList, errors.New("output directory is required"))
	}
	if c.Output.FileNamePrefix == "" || strings.ContainsAny(c.Output.FileNamePrefix, `/\`) {
		errList = append(errList, errors.New("file name prefix must be a non-empty name without path separators"))
	}

	if _, err := digest.ParseAlgorithm(c.History.Algorithm); err != nil {
		errList = append(errList, err)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errList = append(errList, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}
	if c.Logging.ConsoleLevel != "" && !validLogLevels[strings.ToLower(c.Logging.ConsoleLevel)] {
		errList = append(errList, fmt.Errorf("invalid console log level %q", c.Logging.ConsoleLevel))
	}

	if len(errList) > 0 {
		return errs.Config("validate", errors.Join(errList...))
	}
	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MergeCommandLineFlags merges explicitly set command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["resolution"].(string); ok && v != "" {
		c.Download.Resolution = v
		c.markGiven(KeyResolution)
	}
	if v, ok := flags["mode"].(string); ok && v != "" {
		c.Download.Mode = Mode(strings.ToLower(v))
		c.markGiven(KeyMode)
	}
	if v, ok := flags["keyword"].(string); ok && v != "" {
		c.Download.Keyword = v
		c.markGiven(KeyKeyword)
	}
	if v, ok := flags["max-wallpapers"].(int); ok {
		c.Download.MaxWallpapers = v
		c.markGiven(KeyMaxWallpapers)
	}
	if v, ok := flags["delay"].(int); ok {
		c.Download.DelaySeconds = v
		c.markGiven(KeyDelay)
	}
	if v, ok := flags["timeout"].(time.Duration); ok {
		c.Download.Timeout = v
	}
	if v, ok := flags["retry-attempts"].(int); ok {
		c.Download.RetryAttempts = v
	}
	if v, ok := flags["max-attempts"].(int); ok {
		c.Download.MaxAttempts = v
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.Directory = v
	}
	if v, ok := flags["history-file"].(string); ok && v != "" {
		c.History.File = v
	}
	if v, ok := flags["hash-algorithm"].(string); ok && v != "" {
		c.History.Algorithm = v
	}
	if v, ok := flags["base-url"].(string); ok && v != "" {
		c.Source.BaseURL = v
	}
	if v, ok := flags["notifications-enabled"].(bool); ok {
		c.Notifications.Enabled = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := flags["console-log-level"].(string); ok {
		c.Logging.ConsoleLevel = v
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	cfg, err := LoadUnvalidated(configPath, flags)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadUnvalidated layers every source but leaves validation to the caller, which
// lets interactive prompts fill the gaps first
func LoadUnvalidated(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".wallfetch.env"))

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configPath); err != nil {
		return nil, errs.Config("load file", err)
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, errs.Config("load env", err)
	}
	cfg.MergeCommandLineFlags(flags)
	cfg.Normalize()

	return cfg, nil
}
