// Package config loads and validates pagewatch configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all job configuration knobs loaded via Viper.
type Config struct {
	Notion   NotionConfig   `mapstructure:"notion"`
	Crawler  CrawlerConfig  `mapstructure:"crawler"`
	Policy   PolicyConfig   `mapstructure:"policy"`
	Slack    SlackConfig    `mapstructure:"slack"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	Report   ReportConfig   `mapstructure:"report"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// NotionConfig identifies the document store and the crawl root.
type NotionConfig struct {
	Token      string `mapstructure:"token"`
	RootPageID string `mapstructure:"root_page_id"`
	PageSize   int    `mapstructure:"page_size"`
}

// CrawlerConfig governs the tree walk.
type CrawlerConfig struct {
	MaxDepth int `mapstructure:"max_depth"`
}

// PolicyConfig holds eligibility parameters.
type PolicyConfig struct {
	MinAgeDays int `mapstructure:"min_age_days"`
}

// SlackConfig identifies the destination channel.
type SlackConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// CacheConfig controls delivery-cache persistence.
type CacheConfig struct {
	Path            string `mapstructure:"path"`
	PersistEachSend bool   `mapstructure:"persist_each_send"`
}

// NotifierConfig paces outgoing notifications.
type NotifierConfig struct {
	DelaySeconds float64 `mapstructure:"delay_seconds"`
}

// ReportConfig parameterizes the stale-page report.
type ReportConfig struct {
	ThresholdDays int    `mapstructure:"threshold_days"`
	Output        string `mapstructure:"output"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// MetricsConfig optionally exposes Prometheus metrics during the run.
type MetricsConfig struct {
	Listen string `mapstructure:"listen"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PAGEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Unmarshal only sees keys Viper already knows about, so keys
	// without defaults need an explicit env binding or PAGEWATCH_*
	// variables for them would be ignored.
	for _, key := range []string{
		"notion.token",
		"notion.root_page_id",
		"slack.webhook_url",
		"metrics.listen",
	} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("notion.page_size", 100)
	v.SetDefault("crawler.max_depth", 50)
	v.SetDefault("policy.min_age_days", 7)
	v.SetDefault("cache.path", "pagewatch_data/notified.json")
	v.SetDefault("cache.persist_each_send", true)
	v.SetDefault("notifier.delay_seconds", 1)
	v.SetDefault("report.threshold_days", 365)
	v.SetDefault("report.output", "stale_pages.csv")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits. Credentials
// are checked by the commands that need them, so the report command can
// run without a webhook configured.
func (c Config) Validate() error {
	if c.Notion.PageSize <= 0 || c.Notion.PageSize > 100 {
		return fmt.Errorf("notion.page_size must be in 1..100")
	}
	if c.Crawler.MaxDepth <= 0 {
		return fmt.Errorf("crawler.max_depth must be > 0")
	}
	if c.Policy.MinAgeDays < 0 {
		return fmt.Errorf("policy.min_age_days must be >= 0")
	}
	if c.Notifier.DelaySeconds < 0 {
		return fmt.Errorf("notifier.delay_seconds must be >= 0")
	}
	if c.Report.ThresholdDays <= 0 {
		return fmt.Errorf("report.threshold_days must be > 0")
	}
	if c.Cache.Path == "" {
		return fmt.Errorf("cache.path must be set")
	}
	return nil
}

// MinAge converts the configured grace window into a duration.
func (c Config) MinAge() time.Duration {
	return time.Duration(c.Policy.MinAgeDays) * 24 * time.Hour
}

// ReportThreshold converts the stale threshold into a duration.
func (c Config) ReportThreshold() time.Duration {
	return time.Duration(c.Report.ThresholdDays) * 24 * time.Hour
}
