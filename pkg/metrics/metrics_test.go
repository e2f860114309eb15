package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.Packet(PacketResultOK)
		m.Assessment(models.RiskAssessment{Level: models.RiskLevelLow})
		m.AlertEvent(models.AlertEvent{Kind: models.AlertEventCreated})
		m.ClockAnomaly()
		m.SummariesSealed(2)
		m.DispatchDropped("persist")
		m.DispatchFailed("notify")
		m.SetDevices(3)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}

func TestCounters(t *testing.T) {
	m := New()

	m.Packet(PacketResultOK)
	m.Packet(PacketResultOK)
	m.Packet(PacketResultMalformed)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.packetsTotal.WithLabelValues(PacketResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.packetsTotal.WithLabelValues(PacketResultMalformed)))

	ev := models.AlertEvent{
		Kind:  models.AlertEventCreated,
		Alert: models.Alert{Type: models.AlertTypePressure, Severity: models.SeverityCritical},
	}
	m.AlertEvent(ev)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alertEventsTotal.WithLabelValues("pressure", "critical", "created")))

	m.SummariesSealed(0)
	m.SummariesSealed(2)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sealedSummaries))

	m.DispatchDropped("persist")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatchDropped.WithLabelValues("persist")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.Assessment(models.RiskAssessment{OverallScore: 42, Level: models.RiskLevelModerate})
	m.SetDevices(5)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `insole_risk_score_count{level="moderate"} 1`)
	assert.Contains(t, string(body), "insole_devices 5")
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ClockAnomaly()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.clockAnomalies))
	assert.Zero(t, testutil.ToFloat64(b.clockAnomalies))
}
