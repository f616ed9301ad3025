package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	offersSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blackjack",
			Subsystem: "discovery",
			Name:      "offers_sent_total",
			Help:      "Offer datagrams broadcast.",
		},
	)
	sessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blackjack",
			Subsystem: "server",
			Name:      "sessions_started_total",
			Help:      "Accepted client connections.",
		},
	)
	sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "blackjack",
			Subsystem: "server",
			Name:      "sessions_active",
			Help:      "Connections currently being served.",
		},
	)
	sessionsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blackjack",
			Subsystem: "server",
			Name:      "sessions_failed_total",
			Help:      "Sessions aborted before completing all rounds.",
		},
		[]string{"kind"},
	)
	roundsPlayed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blackjack",
			Subsystem: "server",
			Name:      "rounds_total",
			Help:      "Rounds resolved, labeled by player outcome.",
		},
		[]string{"outcome"},
	)
)

// RegisterMetrics registers the collectors exactly once; later calls
// are no-ops.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(offersSent, sessionsStarted, sessionsActive, sessionsFailed, roundsPlayed)
	})
}

func RecordOfferSent() {
	RegisterMetrics()
	offersSent.Inc()
}

func RecordSessionStarted() {
	RegisterMetrics()
	sessionsStarted.Inc()
	sessionsActive.Inc()
}

func RecordSessionEnded() {
	RegisterMetrics()
	sessionsActive.Dec()
}

// RecordSessionFailed counts an aborted session by error kind
// (protocol, connection, timeout, other).
func RecordSessionFailed(kind string) {
	RegisterMetrics()
	sessionsFailed.WithLabelValues(kind).Inc()
}

// RecordRound counts one resolved round by the player's outcome.
func RecordRound(outcome string) {
	RegisterMetrics()
	roundsPlayed.WithLabelValues(outcome).Inc()
}
