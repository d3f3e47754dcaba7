package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so ambient environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BOT_TOKEN", "POLL_TIMEOUT", "LOG_LEVEL", "LOG_PRETTY",
		"DB_PATH", "CURRENCY", "RATE_RPS", "RATE_BURST",
		"SUBSCRIPTION_CHANNEL", "SUBSCRIPTION_FAIL_OPEN",
		"OPS_ENABLED", "OPS_PORT", "GIN_MODE",
		"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE",
		"OTEL_SERVICE_NAME", "OTEL_TRACES_SAMPLER_ARG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollTimeout != 30*time.Second {
		t.Errorf("PollTimeout = %v", cfg.PollTimeout)
	}
	if cfg.LogLevel != "info" || cfg.LogPretty {
		t.Errorf("logging = %q %v", cfg.LogLevel, cfg.LogPretty)
	}
	if cfg.DBPath != "timebill.db" || cfg.Currency != "$" {
		t.Errorf("app = %q %q", cfg.DBPath, cfg.Currency)
	}
	if cfg.RateRPS != 2.0 || cfg.RateBurst != 5 {
		t.Errorf("rate = %v %d", cfg.RateRPS, cfg.RateBurst)
	}
	if cfg.Subscription.Channel != "" || !cfg.Subscription.FailOpen {
		t.Errorf("subscription = %+v", cfg.Subscription)
	}
	if cfg.Ops.Enabled || cfg.Ops.Port != "9090" || cfg.Ops.GinMode != "release" {
		t.Errorf("ops = %+v", cfg.Ops)
	}
	if cfg.OTEL.Enabled || cfg.OTEL.ServiceName != "timebill-bot" || cfg.OTEL.SampleRatio != 1.0 {
		t.Errorf("otel = %+v", cfg.OTEL)
	}
}

func TestLoad_RequiresBotToken(t *testing.T) {
	clearEnv(t)

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "BOT_TOKEN") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoad_Normalization(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("GIN_MODE", "bogus")
	t.Setenv("SUBSCRIPTION_CHANNEL", "somechannel")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Ops.GinMode != "release" {
		t.Errorf("GinMode = %q", cfg.Ops.GinMode)
	}
	if cfg.Subscription.Channel != "@somechannel" {
		t.Errorf("Channel = %q", cfg.Subscription.Channel)
	}
	if cfg.ChannelLink() != "https://t.me/somechannel" {
		t.Errorf("ChannelLink = %q", cfg.ChannelLink())
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"bad log level", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"negative rps", "RATE_RPS", "-1", "RATE_RPS"},
		{"zero burst", "RATE_BURST", "0", "RATE_BURST"},
		{"bad sample ratio", "OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("BOT_TOKEN", "123:abc")
			t.Setenv(tc.key, tc.val)

			if _, err := Load(); err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %s", err, tc.want)
			}
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("POLL_TIMEOUT", "5s")
	t.Setenv("CURRENCY", "€")
	t.Setenv("RATE_RPS", "0")
	t.Setenv("SUBSCRIPTION_FAIL_OPEN", "no")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollTimeout != 5*time.Second {
		t.Errorf("PollTimeout = %v", cfg.PollTimeout)
	}
	if cfg.Currency != "€" {
		t.Errorf("Currency = %q", cfg.Currency)
	}
	if cfg.RateRPS != 0 {
		t.Errorf("RateRPS = %v", cfg.RateRPS)
	}
	if cfg.Subscription.FailOpen {
		t.Error("SUBSCRIPTION_FAIL_OPEN=no must disable fail-open")
	}
}
