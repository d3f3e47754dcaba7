// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as the bot token, database path, logging, the subscription gate,
// rate limiting, the ops HTTP server, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// SubscriptionConfig defines the channel-membership gate in front of
// /start and /help.
type SubscriptionConfig struct {
	// Channel is the gating channel username including '@'; empty disables
	// the gate.
	Channel string
	// FailOpen allows access when the membership lookup errors. This is a
	// policy decision, not a bug: a broken gate must not lock everyone out.
	FailOpen bool
}

// OpsConfig defines the operational HTTP server (health and metrics).
type OpsConfig struct {
	Enabled bool   // OPS_ENABLED
	Port    string // OPS_PORT, just the number
	GinMode string // debug|release|test
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Telegram
	BotToken string // BOT_TOKEN, from @BotFather
	// PollTimeout is the long-polling timeout handed to getUpdates.
	PollTimeout time.Duration

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// App
	DBPath   string // SQLite path
	Currency string // symbol used in rates, reports and export headers

	// Rate limiting (commands per account)
	RateRPS   float64 // tokens per second (0 disables)
	RateBurst int     // bucket size (>= 1)

	Subscription SubscriptionConfig
	Ops          OpsConfig
	OTEL         OTELConfig
}

// ChannelLink renders the join URL of the gating channel.
func (c Config) ChannelLink() string {
	return "https://t.me/" + strings.TrimPrefix(c.Subscription.Channel, "@")
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		BotToken:    getenv("BOT_TOKEN", ""),
		PollTimeout: getdur("POLL_TIMEOUT", 30*time.Second),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		DBPath:   getenv("DB_PATH", "timebill.db"),
		Currency: getenv("CURRENCY", "$"),

		RateRPS:   getfloat("RATE_RPS", 2.0),
		RateBurst: getint("RATE_BURST", 5),

		Subscription: SubscriptionConfig{
			Channel:  getenv("SUBSCRIPTION_CHANNEL", ""),
			FailOpen: getbool("SUBSCRIPTION_FAIL_OPEN", true),
		},
		Ops: OpsConfig{
			Enabled: getbool("OPS_ENABLED", false),
			Port:    getenv("OPS_PORT", "9090"),
			GinMode: strings.ToLower(getenv("GIN_MODE", "release")),
		},
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "timebill-bot"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.Ops.GinMode {
	case "debug", "release", "test":
	default:
		cfg.Ops.GinMode = "release"
	}
	if cfg.Subscription.Channel != "" && !strings.HasPrefix(cfg.Subscription.Channel, "@") {
		cfg.Subscription.Channel = "@" + cfg.Subscription.Channel
	}

	// --- validation ---
	if strings.TrimSpace(cfg.BotToken) == "" {
		return cfg, errors.New("BOT_TOKEN must not be empty")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if cfg.PollTimeout <= 0 {
		return cfg, errors.New("POLL_TIMEOUT must be a positive duration")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.Currency) == "" {
		return cfg, errors.New("CURRENCY must not be empty")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Ops.Enabled && strings.TrimSpace(cfg.Ops.Port) == "" {
		return cfg, errors.New("OPS_PORT must not be empty")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
