package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

const namespace = "insole"

const (
	PacketResultOK          = "ok"
	PacketResultMalformed   = "malformed"
	PacketResultRateLimited = "rate_limited"
)

// Metrics is safe to use through a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	packetsTotal     *prometheus.CounterVec
	riskScore        *prometheus.HistogramVec
	alertEventsTotal *prometheus.CounterVec
	clockAnomalies   prometheus.Counter
	sealedSummaries  prometheus.Counter
	dispatchDropped  *prometheus.CounterVec
	dispatchFailures *prometheus.CounterVec
	activeDevices    prometheus.Gauge
}

// New registers on its own registry so several instances can live in one process.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		packetsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_total",
			Help:      "Telemetry packets and readings received, by result.",
		}, []string{"result"}),
		riskScore: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "risk_score",
			Help:      "Overall risk score of each assessment, by level.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}, []string{"level"}),
		alertEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_events_total",
			Help:      "Alert lifecycle events by type, severity and event kind.",
		}, []string{"type", "severity", "event"}),
		clockAnomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregation_clock_anomalies_total",
			Help:      "Readings dated before the open daily summary.",
		}),
		sealedSummaries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_sealed_total",
			Help:      "Daily summaries closed and handed to persistence.",
		}),
		dispatchDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_dropped_total",
			Help:      "Background jobs dropped because the dispatch queue was full.",
		}, []string{"job"}),
		dispatchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_failures_total",
			Help:      "Background jobs that returned an error.",
		}, []string{"job"}),
		activeDevices: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "devices",
			Help:      "Devices with a monitoring session.",
		}),
	}

	m.registry.MustRegister(
		m.packetsTotal,
		m.riskScore,
		m.alertEventsTotal,
		m.clockAnomalies,
		m.sealedSummaries,
		m.dispatchDropped,
		m.dispatchFailures,
		m.activeDevices,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Packet(result string) {
	if m == nil {
		return
	}
	m.packetsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) Assessment(a models.RiskAssessment) {
	if m == nil {
		return
	}
	m.riskScore.WithLabelValues(string(a.Level)).Observe(float64(a.OverallScore))
}

func (m *Metrics) AlertEvent(ev models.AlertEvent) {
	if m == nil {
		return
	}
	m.alertEventsTotal.WithLabelValues(string(ev.Alert.Type), string(ev.Alert.Severity), string(ev.Kind)).Inc()
}

func (m *Metrics) ClockAnomaly() {
	if m == nil {
		return
	}
	m.clockAnomalies.Inc()
}

func (m *Metrics) SummariesSealed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sealedSummaries.Add(float64(n))
}

func (m *Metrics) DispatchDropped(job string) {
	if m == nil {
		return
	}
	m.dispatchDropped.WithLabelValues(job).Inc()
}

func (m *Metrics) DispatchFailed(job string) {
	if m == nil {
		return
	}
	m.dispatchFailures.WithLabelValues(job).Inc()
}

func (m *Metrics) SetDevices(n int) {
	if m == nil {
		return
	}
	m.activeDevices.Set(float64(n))
}
