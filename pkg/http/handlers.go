package http

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"liyu1981.xyz/insole-monitor-service/pkg/alert"
	"liyu1981.xyz/insole-monitor-service/pkg/codec"
	"liyu1981.xyz/insole-monitor-service/pkg/models"
	"liyu1981.xyz/insole-monitor-service/pkg/report"
)

const contentTypeOctetStream = "application/octet-stream"

type PacketRequest struct {
	// Packet is the raw 16-byte frame, base64 encoded.
	Packet    string    `json:"packet"`
	Timestamp time.Time `json:"timestamp"`
}

var packetRequestSchema = z.Struct(z.Shape{
	"Packet":    z.String().Required(),
	"Timestamp": z.Time(),
})

// PostPacket accepts either a raw octet-stream body or a JSON envelope with a
// base64 packet and an optional timestamp.
func (rs *RestfulServer) PostPacket(c *gin.Context) {
	deviceID := c.Param("device_id")

	var packet []byte
	var at time.Time

	if strings.HasPrefix(c.ContentType(), contentTypeOctetStream) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, codec.PacketSize+1))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		packet = body
	} else {
		var req PacketRequest
		if err := packetRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err})
			return
		}
		decoded, err := base64.StdEncoding.DecodeString(req.Packet)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("packet is not base64: %v", err)})
			return
		}
		packet, at = decoded, req.Timestamp
	}

	out, err := rs.Iot.Telemetry.IngestPacket(deviceID, packet, at)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

type ReadingRequest struct {
	Timestamp    time.Time `json:"timestamp"`
	Temperatures []float64 `json:"temperatures"`
	Pressures    []float64 `json:"pressures"`
	SpO2         float64   `json:"spo2"`
	HeartRate    int       `json:"heart_rate" zog:"heart_rate"`
	StepCount    int       `json:"step_count" zog:"step_count"`
	Activity     string    `json:"activity"`
	BatteryLevel int       `json:"battery_level" zog:"battery_level"`
}

var activityNames = []string{
	string(models.ActivityResting),
	string(models.ActivitySitting),
	string(models.ActivityStanding),
	string(models.ActivityWalking),
	string(models.ActivityRunning),
	string(models.ActivityUnknown),
}

var readingRequestSchema = z.Struct(z.Shape{
	"Timestamp":    z.Time(),
	"Temperatures": z.Slice(z.Float64()).Len(models.ZoneCount).Required(),
	"Pressures":    z.Slice(z.Float64().GTE(0)).Len(models.ZoneCount).Required(),
	"SpO2":         z.Float64().GTE(0).LTE(100),
	"HeartRate":    z.Int().GTE(0),
	"StepCount":    z.Int().GTE(0),
	"Activity":     z.String().OneOf(activityNames).Default(string(models.ActivityUnknown)),
	"BatteryLevel": z.Int().GTE(0).LTE(100).Required(),
})

func (r ReadingRequest) toReading() models.Reading {
	reading := models.Reading{
		Timestamp:    r.Timestamp,
		SpO2:         r.SpO2,
		HeartRate:    r.HeartRate,
		StepCount:    r.StepCount,
		Activity:     models.Activity(r.Activity),
		BatteryLevel: r.BatteryLevel,
	}
	copy(reading.Temperatures[:], r.Temperatures)
	copy(reading.Pressures[:], r.Pressures)
	return reading
}

func (rs *RestfulServer) PostReading(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req ReadingRequest
	if err := readingRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	out, err := rs.Iot.Telemetry.IngestReading(deviceID, req.toReading())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (rs *RestfulServer) GetAssessment(c *gin.Context) {
	a, err := rs.Iot.Telemetry.GetAssessment(c.Param("device_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

type AlertQuery struct {
	Active   bool      `zog:"active"`
	Type     string    `zog:"type"`
	Severity string    `zog:"severity"`
	Since    time.Time `zog:"since"`
}

var alertQuerySchema = z.Struct(z.Shape{
	"Active": z.Bool(),
	"Type": z.String().OneOf([]string{
		"",
		string(models.AlertTypeTemperature),
		string(models.AlertTypePressure),
		string(models.AlertTypeCirculation),
		string(models.AlertTypeGait),
		string(models.AlertTypeSystem),
	}),
	"Severity": z.String().OneOf([]string{
		"",
		string(models.SeverityInfo),
		string(models.SeverityWarning),
		string(models.SeverityCritical),
	}),
	"Since": z.Time(),
})

func (rs *RestfulServer) GetAlerts(c *gin.Context) {
	deviceID := c.Param("device_id")

	var q AlertQuery
	if err := alertQuerySchema.Parse(zhttp.Request(c.Request), &q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	alerts, err := rs.Iot.Alert.GetAlerts(deviceID, alert.Filter{
		ActiveOnly: q.Active,
		Type:       models.AlertType(q.Type),
		Severity:   models.Severity(q.Severity),
		Since:      q.Since,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (rs *RestfulServer) GetUnreadCount(c *gin.Context) {
	n, err := rs.Iot.Alert.GetUnreadCount(c.Param("device_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

func (rs *RestfulServer) MarkAlertRead(c *gin.Context) {
	a, err := rs.Iot.Alert.MarkRead(c.Param("device_id"), c.Param("alert_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (rs *RestfulServer) MarkAllAlertsRead(c *gin.Context) {
	n, err := rs.Iot.Alert.MarkAllRead(c.Param("device_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": n})
}

func (rs *RestfulServer) RemoveAlert(c *gin.Context) {
	if err := rs.Iot.Alert.Remove(c.Param("device_id"), c.Param("alert_id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *RestfulServer) ClearAlerts(c *gin.Context) {
	n, err := rs.Iot.Alert.ClearAll(c.Param("device_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": n})
}

type SummaryRangeQuery struct {
	From string `zog:"from"`
	To   string `zog:"to"`
}

var summaryRangeQuerySchema = z.Struct(z.Shape{
	"From": z.String().Trim(),
	"To":   z.String().Trim(),
})

func validDate(v string) bool {
	if v == "" {
		return true
	}
	_, err := time.Parse(models.DateLayout, v)
	return err == nil
}

func (rs *RestfulServer) summariesInRange(c *gin.Context) ([]models.DailySummary, bool) {
	var q SummaryRangeQuery
	if err := summaryRangeQuerySchema.Parse(zhttp.Request(c.Request), &q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return nil, false
	}
	if !validDate(q.From) || !validDate(q.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to must be YYYY-MM-DD"})
		return nil, false
	}

	summaries, err := rs.Iot.Summary.GetSummaries(c.Param("device_id"), q.From, q.To)
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	return summaries, true
}

func (rs *RestfulServer) GetSummaries(c *gin.Context) {
	summaries, ok := rs.summariesInRange(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (rs *RestfulServer) GetSummary(c *gin.Context) {
	date := c.Param("date")
	if date == "" || !validDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	s, err := rs.Iot.Summary.GetSummary(c.Param("device_id"), date)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (rs *RestfulServer) ExportSummaries(c *gin.Context) {
	deviceID := c.Param("device_id")

	summaries, ok := rs.summariesInRange(c)
	if !ok {
		return
	}

	data, err := report.Summaries(deviceID, summaries)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-summaries.xlsx"`, deviceID))
	c.Data(http.StatusOK, report.ContentType, data)
}

func (rs *RestfulServer) GetConfig(c *gin.Context) {
	th, err := rs.Iot.Config.GetDeviceConfig(c.Param("device_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, th)
}

// UpdateConfig overlays the posted fields on the device's current thresholds,
// so a partial document only changes what it names.
func (rs *RestfulServer) UpdateConfig(c *gin.Context) {
	deviceID := c.Param("device_id")

	th, err := rs.Iot.Config.GetDeviceConfig(deviceID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := c.ShouldBindJSON(&th); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := rs.Iot.Config.UpsertConfig(deviceID, th); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, th)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(deviceID, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "devices": len(rs.Iot.Registry.Devices())})
}
