// Prometheus instrumentation for command handling. Label cardinality stays
// bounded: the command set is fixed and outcome is one of ok/error/unknown.

package bot

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// commandsTotal counts handled commands by name and outcome.
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of handled bot commands.",
		},
		[]string{"command", "outcome"},
	)

	// commandDuration records command handling duration in seconds.
	// Outcome is intentionally omitted to keep histogram cardinality lower.
	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_command_duration_seconds",
			Help:    "Duration of bot command handling in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	// updatesInflight gauges the number of updates currently being handled.
	updatesInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_updates_inflight",
			Help: "Current number of in-flight Telegram updates.",
		},
	)
)

func init() {
	prometheus.MustRegister(commandsTotal, commandDuration, updatesInflight)
}

// observeCommand starts timing a command; the returned func records the
// counter and histogram with the final outcome.
func observeCommand(command string) func(outcome string) {
	start := time.Now()
	return func(outcome string) {
		commandsTotal.WithLabelValues(command, outcome).Inc()
		commandDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())
	}
}
