// Package monitor orchestrates one grade-monitoring cycle: extraction with
// fallback, canonicalization, diffing against the cached snapshot, cache
// write and notification dispatch. Strictly sequential; one browser session
// lives at a time.
package monitor

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/gradewatch/extract"
	"github.com/hazyhaar/gradewatch/portal"
)

// PortalConfig tunes the navigation flow shared by both strategies.
type PortalConfig struct {
	GradesURL    string        `yaml:"grades_url"`
	Deadline     time.Duration `yaml:"deadline"`
	PollInterval time.Duration `yaml:"poll_interval"`
	QuietWait    time.Duration `yaml:"quiet_wait"`
}

// CacheConfig locates the snapshot store.
type CacheConfig struct {
	Path string `yaml:"path"`
	Key  string `yaml:"key"`
}

// NotifyConfig configures delivery. The bot token is normally injected from
// the environment by the entry point, not written into the file.
type NotifyConfig struct {
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID string `yaml:"telegram_chat_id"`
	TriggerURL     string `yaml:"trigger_url"`
}

// Config is the top-level gradewatch configuration.
type Config struct {
	Portal  PortalConfig         `yaml:"portal"`
	Browser portal.BrowserConfig `yaml:"browser"`
	API     extract.APIConfig    `yaml:"api"`
	DOM     extract.DOMConfig    `yaml:"dom"`
	Cache   CacheConfig          `yaml:"cache"`
	Notify  NotifyConfig         `yaml:"notify"`

	// ArtifactDir receives diagnostic dumps from failed attempts.
	ArtifactDir string `yaml:"artifact_dir"`
	// CatalogPath points at the optional course-name catalog JSON.
	CatalogPath string `yaml:"catalog_path"`
	// Interval between cycles in daemon mode.
	Interval time.Duration `yaml:"interval"`
	// EmptyThreshold: a previous snapshot larger than this turns an empty
	// cycle into a critical failure instead of a quiet no-data cycle.
	EmptyThreshold int `yaml:"empty_threshold"`

	// Credentials are env-sourced by the entry point; never in the file.
	Credentials portal.Credentials `yaml:"-"`
}

// LoadFile reads a YAML configuration file and applies defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("monitor: read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("monitor: parse config: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills in the zero values.
func (c *Config) ApplyDefaults() {
	if c.Portal.GradesURL == "" {
		c.Portal.GradesURL = "https://my.tau.ac.il/TAU_Student/ExamsAndTasks"
	}
	if c.Portal.Deadline <= 0 {
		c.Portal.Deadline = 60 * time.Second
	}
	if c.Portal.PollInterval <= 0 {
		c.Portal.PollInterval = 2 * time.Second
	}
	if c.Portal.QuietWait <= 0 {
		c.Portal.QuietWait = 10 * time.Second
	}
	if c.Cache.Path == "" {
		c.Cache.Path = "gradewatch.db"
	}
	if c.Cache.Key == "" {
		c.Cache.Key = "grades_cache"
	}
	if c.Interval <= 0 {
		c.Interval = 30 * time.Minute
	}
	if c.EmptyThreshold <= 0 {
		c.EmptyThreshold = 2
	}
}
