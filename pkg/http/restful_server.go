package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"liyu1981.xyz/insole-monitor-service/pkg/alert"
	"liyu1981.xyz/insole-monitor-service/pkg/codec"
	"liyu1981.xyz/insole-monitor-service/pkg/common"
	"liyu1981.xyz/insole-monitor-service/pkg/config"
	"liyu1981.xyz/insole-monitor-service/pkg/iot"
	"liyu1981.xyz/insole-monitor-service/pkg/metrics"
)

type RestfulServer struct {
	Server           *gin.Engine
	Iot              *iot.IOT
	RateLimiterStore *iot.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(deviceID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := rs.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(deviceID string, deviceRate float64, deviceBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(deviceID, rate.Limit(deviceRate), deviceBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/metrics", gin.WrapH(rs.Iot.Metrics.Handler()))

	devices := rs.Server.Group("/devices/:device_id")
	{
		devices.POST("/packets", rs.limited(rs.PostPacket))
		devices.POST("/readings", rs.limited(rs.PostReading))
		devices.GET("/assessment", rs.limited(rs.GetAssessment))

		devices.GET("/alerts", rs.limited(rs.GetAlerts))
		devices.DELETE("/alerts", rs.limited(rs.ClearAlerts))
		devices.GET("/alerts/unread", rs.limited(rs.GetUnreadCount))
		devices.POST("/alerts/read_all", rs.limited(rs.MarkAllAlertsRead))
		devices.POST("/alerts/:alert_id/read", rs.limited(rs.MarkAlertRead))
		devices.DELETE("/alerts/:alert_id", rs.limited(rs.RemoveAlert))

		devices.GET("/summaries", rs.limited(rs.GetSummaries))
		devices.GET("/summaries/:date", rs.limited(rs.GetSummary))
		devices.GET("/export/summaries", rs.limited(rs.ExportSummaries))

		devices.GET("/config", rs.limited(rs.GetConfig))
		devices.POST("/config", rs.limited(rs.UpdateConfig))
		devices.POST("/limiter", rs.PostLimiter)
	}
}

// limited rejects the request with 429 once the device's bucket is empty.
func (rs *RestfulServer) limited(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.Param("device_id")
		if !rs.CheckDeviceLimiter(deviceID) {
			rs.Iot.Metrics.Packet(metrics.PacketResultRateLimited)
			c.Status(http.StatusTooManyRequests)
			return
		}
		h(c)
	}
}

// abortWithError maps service errors onto status codes. Anything unrecognised
// is a 500 and gets logged.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, iot.ErrUnknownDevice),
		errors.Is(err, iot.ErrNoAssessment),
		errors.Is(err, iot.ErrSummaryNotFound),
		errors.Is(err, alert.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, codec.ErrMalformedPacket),
		errors.Is(err, config.ErrInvalidThresholds):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		common.GetLoggerWith(common.LoggerNameRestfulServer).
			Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
