package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Roster    RosterConfig    `yaml:"roster" mapstructure:"roster"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Outreach  OutreachConfig  `yaml:"outreach" mapstructure:"outreach"`
	Sendgrid  SendgridConfig  `yaml:"sendgrid" mapstructure:"sendgrid"`
	SMTP      SMTPConfig      `yaml:"smtp" mapstructure:"smtp"`
	Dispatch  DispatchConfig  `yaml:"dispatch" mapstructure:"dispatch"`
	Nudge     NudgeConfig     `yaml:"nudge" mapstructure:"nudge"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// RosterConfig configures roster ingestion.
type RosterConfig struct {
	AliasFile  string `yaml:"alias_file" mapstructure:"alias_file"`
	SheetIndex int    `yaml:"sheet_index" mapstructure:"sheet_index"`
	SheetName  string `yaml:"sheet_name" mapstructure:"sheet_name"`
}

// ScoringConfig holds the completion-percentage band thresholds. The 70/90
// defaults are bands, not constants: both are tunable per deployment.
type ScoringConfig struct {
	UrgentBelow int `yaml:"urgent_below" mapstructure:"urgent_below"`
	FriendlyAt  int `yaml:"friendly_at" mapstructure:"friendly_at"`
}

// AnthropicConfig holds decision/content service settings.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// OutreachConfig holds message authoring settings.
type OutreachConfig struct {
	FormURL   string `yaml:"form_url" mapstructure:"form_url"`
	FromName  string `yaml:"from_name" mapstructure:"from_name"`
	FromEmail string `yaml:"from_email" mapstructure:"from_email"`
}

// SendgridConfig holds SendGrid transport settings.
type SendgridConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// SMTPConfig holds the SMTP fallback transport settings.
type SMTPConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
}

// DispatchConfig bounds delivery concurrency and pace.
type DispatchConfig struct {
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// NudgeConfig configures the escalation policy.
type NudgeConfig struct {
	MaxLevel     int `yaml:"max_level" mapstructure:"max_level"`
	CooldownDays int `yaml:"cooldown_days" mapstructure:"cooldown_days"`
}

// StoreConfig configures the nudge-history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite | postgres
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// PipelineConfig bounds per-record concurrency inside a run.
type PipelineConfig struct {
	RecordConcurrency int `yaml:"record_concurrency" mapstructure:"record_concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("NUDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("roster.sheet_index", 0)
	v.SetDefault("scoring.urgent_below", 70)
	v.SetDefault("scoring.friendly_at", 90)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.timeout_secs", 30)
	v.SetDefault("anthropic.max_retries", 2)
	v.SetDefault("outreach.form_url", "https://forms.gle/AFNpAnnS9aWURoQj9")
	v.SetDefault("outreach.from_name", "Student Records Office")
	v.SetDefault("outreach.from_email", "noreply@example.edu")
	v.SetDefault("sendgrid.base_url", "https://api.sendgrid.com")
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("dispatch.concurrency", 5)
	v.SetDefault("dispatch.rate_per_sec", 10.0)
	v.SetDefault("nudge.max_level", 3)
	v.SetDefault("nudge.cooldown_days", 2)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "nudge_history.db")
	v.SetDefault("pipeline.record_concurrency", 8)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
