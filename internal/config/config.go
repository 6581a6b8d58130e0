package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Output     OutputConfig     `yaml:"output"`
	Browser    BrowserConfig    `yaml:"browser"`
	Tracker    TrackerConfig    `yaml:"tracker"`
	Checks     CheckConfig      `yaml:"checks"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// OutputConfig controls where reports and screenshots are written.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Screenshots bool   `yaml:"screenshots"`
}

// BrowserConfig holds the headless browser configuration for page loads.
type BrowserConfig struct {
	Headless          bool     `yaml:"headless"`
	ProxyURL          string   `yaml:"proxy_url,omitempty"`
	MobileUserAgent   string   `yaml:"mobile_user_agent"`
	NavigationTimeout Duration `yaml:"navigation_timeout"`
	SettleDelay       Duration `yaml:"settle_delay"`
	DesktopWidth      int      `yaml:"desktop_width"`
	DesktopHeight     int      `yaml:"desktop_height"`
	MobileWidth       int      `yaml:"mobile_width"`
	MobileHeight      int      `yaml:"mobile_height"`
}

// TrackerConfig holds credentials and behaviour for the task-tracking
// service. The token is passed to the client constructor explicitly; nothing
// in this package mutates process-wide state.
type TrackerConfig struct {
	Token       string  `yaml:"token,omitempty"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	PostResults bool    `yaml:"post_results"`
	RequestsPS  float64 `yaml:"requests_per_second"`
}

// CheckConfig carries per-run check expectations with defaults.
type CheckConfig struct {
	ExpectedFormID string `yaml:"expected_form_id"`
}

// ThresholdsConfig exposes the heuristic tuning knobs used by checks.
// They are tuning constants, not correctness constraints.
type ThresholdsConfig struct {
	PageSpeedMaxMS     int64   `yaml:"page_speed_max_ms"`
	PageSpeedWarnRatio float64 `yaml:"page_speed_warn_ratio"`
	TitleMaxChars      int     `yaml:"title_max_chars"`
	TitleMinChars      int     `yaml:"title_min_chars"`
	ImageMaxWidthPX    int     `yaml:"image_max_width_px"`
	ImageParityDelta   int     `yaml:"image_parity_delta"`
	LinkParityDelta    int     `yaml:"link_parity_delta"`
	EvidenceMaxChars   int     `yaml:"evidence_max_chars"`
	InlineScriptWarnB  int     `yaml:"inline_script_warn_bytes"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

var errTrackerTokenMissing = errors.New("config: tracker token required when post_results is enabled")

// Load loads the configuration from a YAML file, applying defaults for any
// field left unset. An empty filename returns the default configuration.
func Load(filename string) (*AppConfig, error) {
	cfg := CreateDefault()
	if filename == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that cannot produce a meaningful run.
func (c *AppConfig) Validate() error {
	if c.Tracker.PostResults && c.Tracker.Token == "" {
		return errTrackerTokenMissing
	}
	if c.Thresholds.PageSpeedWarnRatio <= 0 || c.Thresholds.PageSpeedWarnRatio > 1 {
		return fmt.Errorf("config: page_speed_warn_ratio must be in (0,1], got %v", c.Thresholds.PageSpeedWarnRatio)
	}
	if c.Browser.NavigationTimeout.Duration <= 0 {
		return errors.New("config: navigation_timeout must be positive")
	}
	return nil
}

// CreateDefault creates the default configuration. The tracker token falls
// back to the QA_TRACKER_TOKEN environment variable so it can stay out of
// config files checked into version control.
func CreateDefault() *AppConfig {
	return &AppConfig{
		Output: OutputConfig{
			Dir:         "./qa_output",
			Screenshots: true,
		},
		Browser: BrowserConfig{
			Headless:          true,
			MobileUserAgent:   DefaultMobileUserAgent,
			NavigationTimeout: DurationFrom(30 * time.Second),
			SettleDelay:       DurationFrom(2 * time.Second),
			DesktopWidth:      1440,
			DesktopHeight:     900,
			MobileWidth:       375,
			MobileHeight:      812,
		},
		Tracker: TrackerConfig{
			Token:      os.Getenv("QA_TRACKER_TOKEN"),
			BaseURL:    DefaultTrackerBaseURL,
			RequestsPS: 2,
		},
		Checks: CheckConfig{
			ExpectedFormID: "lp-pom-form-42",
		},
		Thresholds: ThresholdsConfig{
			PageSpeedMaxMS:     4000,
			PageSpeedWarnRatio: 0.75,
			TitleMaxChars:      60,
			TitleMinChars:      10,
			ImageMaxWidthPX:    2000,
			ImageParityDelta:   3,
			LinkParityDelta:    5,
			EvidenceMaxChars:   500,
			InlineScriptWarnB:  50000,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}
