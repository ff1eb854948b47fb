// Package config provides configuration management for the pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Pipeline      PipelineConfig     `mapstructure:"pipeline"`
	Cluster       ClusterConfig      `mapstructure:"cluster"`
	Signal        SignalConfig       `mapstructure:"signal"`
	Validator     ValidatorConfig    `mapstructure:"validator"`
	Shadow        ShadowConfig       `mapstructure:"shadow"`
	UI            UIConfig           `mapstructure:"ui"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Security      SecurityConfig     `mapstructure:"security"`
	Credentials   Credentials        `mapstructure:"-"` // loaded separately
}

// PipelineConfig holds orchestrator-cycle configuration.
type PipelineConfig struct {
	MaxPerCycle         int `mapstructure:"max_per_cycle"`
	AnalysisBatchSize   int `mapstructure:"analysis_batch_size"`
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds"`
	DedupWindowMinutes  int `mapstructure:"dedup_window_minutes"`
}

// ClusterConfig holds Clustering Engine configuration.
type ClusterConfig struct {
	TimeWindowMinutes int `mapstructure:"time_window_minutes"`
	MinSize           int `mapstructure:"min_size"`
	MaxAgeHours       int `mapstructure:"max_age_hours"`
}

// SignalConfig holds Signal Generator configuration.
type SignalConfig struct {
	BasePositionSize   float64 `mapstructure:"base_position_size"`
	MaxPositionSize    float64 `mapstructure:"max_position_size"`
	MinConfidence      float64 `mapstructure:"min_confidence"`
	SentimentThreshold float64 `mapstructure:"sentiment_threshold"`
	ImpactThreshold    float64 `mapstructure:"impact_threshold"`
	EnableAutoExecute  bool    `mapstructure:"enable_auto_execute"`
}

// ValidatorConfig holds Signal Validator configuration.
type ValidatorConfig struct {
	DailyTradeLimit      int     `mapstructure:"daily_trade_limit"`
	DailyLossLimitPct    float64 `mapstructure:"daily_loss_limit_pct"`
	MaxConsecutiveLosses int     `mapstructure:"max_consecutive_losses"`
	MarketHoursOnly      bool    `mapstructure:"market_hours_only"`
}

// ShadowConfig holds Shadow Tracker configuration.
type ShadowConfig struct {
	TrackingDays int `mapstructure:"tracking_days"`
	MaxAgeDays   int `mapstructure:"max_age_days"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// SecurityConfig holds security-related configuration.
type SecurityConfig struct {
	ReadOnlyMode     bool          `mapstructure:"read_only_mode"`
	SessionTimeout   time.Duration `mapstructure:"session_timeout"`
	AuditEnabled     bool          `mapstructure:"audit_enabled"`
	StrictValidation bool          `mapstructure:"strict_validation"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Level    string         `mapstructure:"level"` // all, proposals_only, errors_only
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Email    EmailConfig    `mapstructure:"email"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// TelegramConfig holds Telegram notification configuration.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// EmailConfig holds email notification configuration.
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

// Credentials holds API credentials for outbound collaborators.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/marketintel"
	}
	return filepath.Join(home, ".config", "marketintel")
}

// Load loads configuration from the specified directory. If configDir is
// empty, the default configuration directory is used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	cfgErr := loadConfigFile(configDir, "config", cfg)
	credErr := loadCredentials(configDir, &cfg.Credentials)
	if cfgErr != nil {
		return nil, fmt.Errorf("loading config.toml: %w", cfgErr)
	}
	if credErr != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", credErr)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setConfigDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateConfig(configDir, name)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.max_per_cycle", 10)
	v.SetDefault("pipeline.analysis_batch_size", 5)
	v.SetDefault("pipeline.poll_interval_seconds", 300)
	v.SetDefault("pipeline.dedup_window_minutes", 30)

	v.SetDefault("cluster.time_window_minutes", 60)
	v.SetDefault("cluster.min_size", 2)
	v.SetDefault("cluster.max_age_hours", 48)

	v.SetDefault("signal.base_position_size", 0.05)
	v.SetDefault("signal.max_position_size", 0.10)
	v.SetDefault("signal.min_confidence", 0.60)
	v.SetDefault("signal.sentiment_threshold", 0.30)
	v.SetDefault("signal.impact_threshold", 0.50)
	v.SetDefault("signal.enable_auto_execute", false)

	v.SetDefault("validator.daily_trade_limit", 20)
	v.SetDefault("validator.daily_loss_limit_pct", 5.0)
	v.SetDefault("validator.max_consecutive_losses", 5)
	v.SetDefault("validator.market_hours_only", true)

	v.SetDefault("shadow.tracking_days", 7)
	v.SetDefault("shadow.max_age_days", 30)

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("ui.time_format", "15:04:05")

	v.SetDefault("security.read_only_mode", false)
	v.SetDefault("security.session_timeout", "8h")
	v.SetDefault("security.audit_enabled", true)
	v.SetDefault("security.strict_validation", true)
}

// applyDefaults fills in zero-valued fields that ReadInConfig skipped
// because the section was entirely absent from the user's file (viper only
// applies SetDefault when asked to unmarshal against an existing section).
func applyDefaults(cfg *Config) {
	if cfg.Pipeline.MaxPerCycle == 0 {
		cfg.Pipeline.MaxPerCycle = 10
	}
	if cfg.Pipeline.AnalysisBatchSize == 0 {
		cfg.Pipeline.AnalysisBatchSize = 5
	}
	if cfg.Pipeline.PollIntervalSeconds == 0 {
		cfg.Pipeline.PollIntervalSeconds = 300
	}
	if cfg.Pipeline.DedupWindowMinutes == 0 {
		cfg.Pipeline.DedupWindowMinutes = 30
	}
	if cfg.Cluster.TimeWindowMinutes == 0 {
		cfg.Cluster.TimeWindowMinutes = 60
	}
	if cfg.Cluster.MinSize == 0 {
		cfg.Cluster.MinSize = 2
	}
	if cfg.Cluster.MaxAgeHours == 0 {
		cfg.Cluster.MaxAgeHours = 48
	}
	if cfg.Shadow.TrackingDays == 0 {
		cfg.Shadow.TrackingDays = 7
	}
	if cfg.Shadow.MaxAgeDays == 0 {
		cfg.Shadow.MaxAgeDays = 30
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.Credentials.OpenAI.Model = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Signal.MinConfidence < 0 || c.Signal.MinConfidence > 1 {
		return fmt.Errorf("signal.min_confidence must be between 0 and 1")
	}
	if c.Signal.MaxPositionSize < c.Signal.BasePositionSize {
		return fmt.Errorf("signal.max_position_size must be >= signal.base_position_size")
	}
	if c.Validator.DailyLossLimitPct < 0 {
		return fmt.Errorf("validator.daily_loss_limit_pct must be non-negative")
	}
	if c.Cluster.MinSize < 1 {
		return fmt.Errorf("cluster.min_size must be at least 1")
	}
	if c.Shadow.TrackingDays < 1 {
		return fmt.Errorf("shadow.tracking_days must be at least 1")
	}
	return nil
}
