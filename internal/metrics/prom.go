package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadbridge_notifications_total",
			Help: "Notifications sent to the UI by target and outcome",
		},
		[]string{"target", "outcome"},
	)

	bridgeCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadbridge_bridge_calls_total",
			Help: "UI calls into the bridge by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	bridgeCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cadbridge_bridge_call_duration_seconds",
			Help:    "Duration of UI calls into the bridge",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	uiConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cadbridge_ui_connections",
			Help: "Embedded UI pages currently attached to the script transport",
		},
	)

	registerOnce sync.Once
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeNotReady = "not_ready"
)

// Register registers all collectors with r. It is safe to call more than once.
func Register(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(notifications, bridgeCalls, bridgeCallDuration, uiConnections)
	})
}

func RecordNotification(target, outcome string) {
	notifications.WithLabelValues(target, outcome).Inc()
}

func RecordBridgeCall(method, outcome string, seconds float64) {
	bridgeCalls.WithLabelValues(method, outcome).Inc()
	bridgeCallDuration.WithLabelValues(method).Observe(seconds)
}

func SetUIConnections(n int) {
	uiConnections.Set(float64(n))
}
