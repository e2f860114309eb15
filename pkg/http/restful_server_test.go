package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"liyu1981.xyz/insole-monitor-service/pkg/alert"
	"liyu1981.xyz/insole-monitor-service/pkg/codec"
	"liyu1981.xyz/insole-monitor-service/pkg/common"
	"liyu1981.xyz/insole-monitor-service/pkg/config"
	"liyu1981.xyz/insole-monitor-service/pkg/db"
	"liyu1981.xyz/insole-monitor-service/pkg/iot"
	"liyu1981.xyz/insole-monitor-service/pkg/iot/mocks"
	"liyu1981.xyz/insole-monitor-service/pkg/metrics"
	"liyu1981.xyz/insole-monitor-service/pkg/models"
	"liyu1981.xyz/insole-monitor-service/pkg/monitor"
	"liyu1981.xyz/insole-monitor-service/pkg/report"
	_ "liyu1981.xyz/insole-monitor-service/pkg/testing"
)

var testStart = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func setupTestServer(t *testing.T) *RestfulServer {
	return setupTestServerWithLimiter(t, nil)
}

func setupTestServerWithLimiter(t *testing.T, limiter *iot.RateLimiterStore) *RestfulServer {
	iotObj := iot.New(iot.Options{
		Store:      db.GetInstance(db.UseMemorySqliteDialector()),
		Thresholds: config.Default(),
		Metrics:    metrics.New(),
	})
	iotObj.Start(context.Background())
	t.Cleanup(func() { _ = iotObj.Close() })

	rs := &RestfulServer{
		Server: gin.Default(),
		Iot:    iotObj,
		// default we use no limiter, if need, pass one in
		RateLimiterStore: limiter,
	}

	rs.Setup()

	return rs
}

func do(rs *RestfulServer, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	return w
}

func doJSON(rs *RestfulServer, method, path string, v any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(v)
	return do(rs, method, path, body, "application/json")
}

func readingBody(ts time.Time, battery int, pressures []float64) map[string]any {
	return map[string]any{
		"timestamp":     ts.Format(time.RFC3339),
		"temperatures":  []float64{30, 30, 30, 30},
		"pressures":     pressures,
		"spo2":          98,
		"heart_rate":    72,
		"step_count":    100,
		"activity":      "resting",
		"battery_level": battery,
	}
}

func TestHealthCheck(t *testing.T) {
	rs := setupTestServer(t)

	w := do(rs, http.MethodGet, "/healthz", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","devices":0}`, w.Body.String())
}

func TestPostPacketOctetStream(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	deviceID := uuid.NewString()

	packet := codec.Encode(models.Reading{
		Temperatures: [4]float64{30, 30, 30, 30},
		Pressures:    [4]float64{21, 21, 21, 21},
		SpO2:         98,
		HeartRate:    70,
		Activity:     models.ActivityStanding,
		BatteryLevel: 90,
	})

	w := do(rs, http.MethodPost, "/devices/"+deviceID+"/packets", packet[:], "application/octet-stream")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out monitor.Outcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, deviceID, out.DeviceID)
	assert.Equal(t, models.ActivityStanding, out.Reading.Activity)
	assert.Equal(t, models.RiskLevelLow, out.Assessment.Level)

	w = do(rs, http.MethodGet, "/devices/"+deviceID+"/assessment", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var a models.RiskAssessment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	assert.Equal(t, out.Assessment.OverallScore, a.OverallScore)
}

func TestPostPacketJSON(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	deviceID := uuid.NewString()

	packet := codec.Encode(models.Reading{
		Temperatures: [4]float64{30, 30, 30, 30},
		SpO2:         97,
		BatteryLevel: 50,
	})

	w := doJSON(rs, http.MethodPost, "/devices/"+deviceID+"/packets", map[string]any{
		"packet":    base64.StdEncoding.EncodeToString(packet[:]),
		"timestamp": testStart.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out monitor.Outcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, testStart.Equal(out.Reading.Timestamp))
}

func TestPostPacket_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	deviceID := uuid.NewString()

	{
		// short frame
		w := do(rs, http.MethodPost, "/devices/"+deviceID+"/packets", []byte{1, 2, 3}, "application/octet-stream")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		// empty payload should be rejected
		w := do(rs, http.MethodPost, "/devices/"+deviceID+"/packets", []byte("{}"), "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		w := doJSON(rs, http.MethodPost, "/devices/"+deviceID+"/packets", map[string]any{"packet": "!!not base64"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		// a device that never sent a valid reading has nothing to assess
		w := do(rs, http.MethodGet, "/devices/"+deviceID+"/assessment", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
}

func TestPostReadingAndAlerts(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	deviceID := uuid.NewString()
	base := "/devices/" + deviceID

	w := doJSON(rs, http.MethodPost, base+"/readings", readingBody(testStart, 5, []float64{60, 20, 20, 20}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(rs, http.MethodGet, base+"/alerts", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var alerts []models.Alert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
	require.Len(t, alerts, 2)

	alertTypes := map[models.AlertType]bool{}
	for _, a := range alerts {
		alertTypes[a.Type] = true
	}
	assert.True(t, alertTypes[models.AlertTypePressure])
	assert.True(t, alertTypes[models.AlertTypeSystem])

	w = do(rs, http.MethodGet, base+"/alerts?severity=critical", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertTypeSystem, alerts[0].Type)
	battery := alerts[0]

	w = do(rs, http.MethodGet, base+"/alerts/unread", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unread":2}`, w.Body.String())

	w = do(rs, http.MethodPost, base+"/alerts/"+battery.ID+"/read", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(rs, http.MethodPost, base+"/alerts/read_all", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"marked":1}`, w.Body.String())

	w = do(rs, http.MethodDelete, base+"/alerts/"+battery.ID, nil, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(rs, http.MethodDelete, base+"/alerts/"+battery.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(rs, http.MethodDelete, base+"/alerts", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cleared":1}`, w.Body.String())

	w = do(rs, http.MethodGet, base+"/alerts?active=true", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestPostReading_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	deviceID := uuid.NewString()

	{
		w := do(rs, http.MethodPost, "/devices/"+deviceID+"/readings", []byte("{}"), "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		// three zones instead of four
		w := doJSON(rs, http.MethodPost, "/devices/"+deviceID+"/readings", readingBody(testStart, 50, []float64{1, 2, 3}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		w := do(rs, http.MethodGet, "/devices/"+uuid.NewString()+"/alerts", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	{
		w := do(rs, http.MethodGet, "/devices/"+deviceID+"/alerts?severity=loud", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockIAlert := mocks.NewMockIAlert(ctrl)
		rs.Iot.Alert = mockIAlert
		mockIAlert.EXPECT().
			GetAlerts(gomock.Eq(deviceID), gomock.Eq(alert.Filter{})).
			Return(nil, fmt.Errorf("just causing error")).
			Times(1)

		w := do(rs, http.MethodGet, "/devices/"+deviceID+"/alerts", nil, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	}
}

func TestSummaries(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	deviceID := uuid.NewString()
	base := "/devices/" + deviceID

	for i := range 3 {
		ts := testStart.Add(time.Duration(i) * time.Minute)
		w := doJSON(rs, http.MethodPost, base+"/readings", readingBody(ts, 80, []float64{20, 20, 20, 20}))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := do(rs, http.MethodGet, base+"/summaries/2026-10-19", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var s models.DailySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, 3, s.ReadingCount)

	w = do(rs, http.MethodGet, base+"/summaries?from=2026-10-01&to=2026-10-31", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.DailySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	w = do(rs, http.MethodGet, base+"/summaries/2026-10-18", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(rs, http.MethodGet, base+"/summaries/yesterday", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(rs, http.MethodGet, base+"/summaries?from=10/01/2026", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(rs, http.MethodGet, base+"/export/summaries", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.ContentType, w.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(report.SheetSummaries)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-10-19", rows[1][0])
}

func TestUpdateConfig(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	deviceID := uuid.NewString()
	base := "/devices/" + deviceID

	w := do(rs, http.MethodGet, base+"/config", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var th config.Thresholds
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &th))
	assert.Equal(t, config.Default(), th)

	w = doJSON(rs, http.MethodPost, base+"/config", map[string]any{
		"pressure_warning_kpa":  40.0,
		"pressure_critical_kpa": 50.0,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Verify in DB
	stored, err := db.GetInstance(db.UseMemorySqliteDialector()).GetDeviceConfig(deviceID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, stored.PressureWarningKPa)
	assert.Equal(t, config.Default().SpO2FloorPct, stored.SpO2FloorPct)
}

func TestUpdateConfig_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	{
		rs := setupTestServer(t)
		deviceID := uuid.NewString()
		// critical below warning is rejected
		w := doJSON(rs, http.MethodPost, "/devices/"+deviceID+"/config", map[string]any{
			"pressure_critical_kpa": 10.0,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		rs := setupTestServer(t)
		deviceID := uuid.NewString()
		w := do(rs, http.MethodPost, "/devices/"+deviceID+"/config", []byte("not json"), "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		rs := setupTestServer(t)
		deviceID := uuid.NewString()
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockIConfig := mocks.NewMockIConfig(ctrl)
		rs.Iot.Config = mockIConfig
		mockIConfig.EXPECT().
			GetDeviceConfig(gomock.Eq(deviceID)).
			Return(config.Default(), nil).
			Times(1)
		mockIConfig.EXPECT().
			UpsertConfig(gomock.Eq(deviceID), gomock.Any()).
			Return(fmt.Errorf("just causing error")).
			Times(1)

		w := doJSON(rs, http.MethodPost, "/devices/"+deviceID+"/config", map[string]any{})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	}
}

func TestPostReadingWithLimiter(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServerWithLimiter(t, iot.NewRateLimiterStore(2, 2)) // 2 req/sec, burst 2

	deviceID := uuid.NewString()
	body := readingBody(testStart, 80, []float64{20, 20, 20, 20})

	// Simulate 3 requests in quick succession, only 2 should be allowed
	for i := range 3 {
		w := doJSON(rs, http.MethodPost, "/devices/"+deviceID+"/readings", body)

		if i < 2 {
			require.Equal(t, http.StatusOK, w.Code, "request %d should be allowed", i+1)
		} else {
			require.Equal(t, http.StatusTooManyRequests, w.Code, "request %d should be rate limited", i+1)
		}
	}

	w := doJSON(rs, http.MethodPost, "/devices/"+deviceID+"/limiter", LimiterRequest{Rate: 2, Burst: 2})
	require.Equal(t, http.StatusOK, w.Code, "limiter request should be allowed")

	w = doJSON(rs, http.MethodPost, "/devices/"+deviceID+"/readings", body)
	require.Equal(t, http.StatusOK, w.Code, "request after limiter reset should be allowed")

	w = do(rs, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `insole_packets_total{result="rate_limited"} 1`)
}

func TestPostLimiter_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServerWithLimiter(t, iot.NewRateLimiterStore(2, 2))

	deviceID := uuid.NewString()

	// empty payload should be rejected
	w := do(rs, http.MethodPost, "/devices/"+deviceID+"/limiter", []byte("{}"), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLimiter(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServerWithLimiter(t, iot.NewRateLimiterStore(0, 0)) // nothing passes

	deviceID := uuid.NewString()
	base := "/devices/" + deviceID

	w := doJSON(rs, http.MethodPost, base+"/config", map[string]any{})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = do(rs, http.MethodGet, base+"/alerts", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = doJSON(rs, http.MethodPost, base+"/readings", readingBody(testStart, 80, []float64{20, 20, 20, 20}))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = do(rs, http.MethodGet, base+"/summaries", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestSetLimiter_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t) // default without limiter store

	deviceID := uuid.NewString()

	// without limiter store setting a limiter is accepted but has no effect
	w := doJSON(rs, http.MethodPost, "/devices/"+deviceID+"/limiter", LimiterRequest{Rate: 5, Burst: 5})
	require.Equal(t, http.StatusOK, w.Code, "limiter request should be allowed")

	w = doJSON(rs, http.MethodPost, "/devices/"+deviceID+"/readings", readingBody(testStart, 80, []float64{20, 20, 20, 20}))
	require.Equal(t, http.StatusOK, w.Code)
}
