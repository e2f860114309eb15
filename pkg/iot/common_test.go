package iot

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"liyu1981.xyz/insole-monitor-service/pkg/config"
	"liyu1981.xyz/insole-monitor-service/pkg/db"
	"liyu1981.xyz/insole-monitor-service/pkg/iot/mocks"
	"liyu1981.xyz/insole-monitor-service/pkg/metrics"
	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

type serviceMocks struct {
	Telemetry *mocks.MockITelemetry
	Alert     *mocks.MockIAlert
	Summary   *mocks.MockISummary
	Config    *mocks.MockIConfig
}

// GetMockIOTWithMemorySqliteDialector builds a started IOT on the shared memory
// database. Services flagged true are replaced by their mocks.
func GetMockIOTWithMemorySqliteDialector(t *testing.T, useMockTelemetry, useMockAlert, useMockSummary, useMockConfig bool) (
	*gomock.Controller,
	*IOT,
	*serviceMocks,
) {
	ctrl := gomock.NewController(t)

	m := &serviceMocks{
		Telemetry: mocks.NewMockITelemetry(ctrl),
		Alert:     mocks.NewMockIAlert(ctrl),
		Summary:   mocks.NewMockISummary(ctrl),
		Config:    mocks.NewMockIConfig(ctrl),
	}

	dialector := db.UseMemorySqliteDialector()
	dbInstance := db.GetInstance(dialector) // ensure migrations
	iotInstance := New(Options{
		Store:          dbInstance,
		Thresholds:     config.Default(),
		Metrics:        metrics.New(),
		DispatchBuffer: 256,
	})

	opts := ServiceOpts{}
	if useMockTelemetry {
		opts.Telemetry = m.Telemetry
	}
	if useMockAlert {
		opts.Alert = m.Alert
	}
	if useMockSummary {
		opts.Summary = m.Summary
	}
	if useMockConfig {
		opts.Config = m.Config
	}
	iotInstance.WithServices(opts)

	iotInstance.Start(context.Background())
	t.Cleanup(func() { _ = iotInstance.Close() })

	return ctrl, iotInstance, m
}

// GetMockCollaboratorIOT builds a started IOT whose store and notifier are mocks.
func GetMockCollaboratorIOT(t *testing.T) (*gomock.Controller, *IOT, *mocks.MockStore, *mocks.MockNotifier) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	iotInstance := New(Options{
		Store:          store,
		Notifier:       notifier,
		Thresholds:     config.Default(),
		DispatchBuffer: 64,
	})
	iotInstance.Start(context.Background())

	return ctrl, iotInstance, store, notifier
}

var testStart = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func calmReading(ts time.Time) models.Reading {
	return models.Reading{
		Timestamp:    ts,
		Temperatures: [4]float64{30, 30, 30, 30},
		Pressures:    [4]float64{20, 20, 20, 20},
		SpO2:         98,
		Activity:     models.ActivityResting,
		BatteryLevel: 80,
	}
}

func countRows(t *testing.T, model any, deviceID string) int64 {
	t.Helper()
	var n int64
	if err := db.GetInstance(db.UseMemorySqliteDialector()).Conn.
		Model(model).Where("device_id = ?", deviceID).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}

func findLog(logs []any, match func(map[string]any) bool) bool {
	for _, log := range logs {
		if lobj, ok := log.(map[string]any); ok && match(lobj) {
			return true
		}
	}
	return false
}
