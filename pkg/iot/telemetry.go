package iot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"liyu1981.xyz/insole-monitor-service/pkg/common"
	"liyu1981.xyz/insole-monitor-service/pkg/metrics"
	"liyu1981.xyz/insole-monitor-service/pkg/models"
	"liyu1981.xyz/insole-monitor-service/pkg/monitor"
)

const (
	jobPersist = "persist"
	jobNotify  = "notify"
)

func (i *IOT) ingestPacket(deviceID string, packet []byte, at time.Time) (*monitor.Outcome, error) {
	logger := common.GetCategoryLogger(common.LoggerNameIOTCore, common.LoggerCategoryIOTTelemetry)

	if at.IsZero() {
		at = i.now()
	}

	s := i.session(deviceID)
	out, err := s.ProcessPacket(packet, at)
	if err != nil {
		i.Metrics.Packet(metrics.PacketResultMalformed)
		logger.Warn("Dropped malformed packet",
			zap.String("device_id", deviceID),
			zap.Int("length", len(packet)),
			zap.Error(err),
		)
		return nil, err
	}

	i.record(&out)
	return &out, nil
}

func (i *IOT) ingestReading(deviceID string, reading models.Reading) (*monitor.Outcome, error) {
	if reading.Timestamp.IsZero() {
		reading.Timestamp = i.now()
	}

	out := i.session(deviceID).ProcessReading(reading)
	i.record(&out)
	return &out, nil
}

// record logs, counts and hands the outcome to the background collaborators.
func (i *IOT) record(out *monitor.Outcome) {
	logger := common.GetCategoryLogger(common.LoggerNameIOTCore, common.LoggerCategoryIOTTelemetry)
	alertLogger := common.GetCategoryLogger(common.LoggerNameIOTCore, common.LoggerCategoryIOTAlert)
	summaryLogger := common.GetCategoryLogger(common.LoggerNameIOTCore, common.LoggerCategoryIOTSummary)

	i.Metrics.Packet(metrics.PacketResultOK)
	i.Metrics.Assessment(out.Assessment)
	i.Metrics.SummariesSealed(len(out.Sealed))

	logger.Info("Assessed reading",
		zap.String("device_id", out.DeviceID),
		zap.Time("timestamp", out.Reading.Timestamp),
		zap.Int("score", out.Assessment.OverallScore),
		zap.String("risk_level", string(out.Assessment.Level)),
		zap.Strings("factors", out.Assessment.Factors),
	)

	for _, ev := range out.Events {
		i.Metrics.AlertEvent(ev)
		alertLogger.Info("Alert "+string(ev.Kind),
			zap.String("device_id", out.DeviceID),
			zap.Reflect("alert", ev.Alert),
		)
	}

	if out.Anomaly {
		i.Metrics.ClockAnomaly()
		summaryLogger.Warn("Reading dated before the open daily summary",
			zap.String("device_id", out.DeviceID),
			zap.Time("timestamp", out.Reading.Timestamp),
			zap.String("date", out.Summary.Date),
		)
	}
	for _, sealed := range out.Sealed {
		summaryLogger.Info("Sealed daily summary",
			zap.String("device_id", out.DeviceID),
			zap.String("date", sealed.Date),
			zap.Int("reading_count", sealed.ReadingCount),
		)
	}

	i.persistOutcome(out)
	i.notify(out.DeviceID, out.Events)
}

func (i *IOT) persistOutcome(out *monitor.Outcome) {
	if i.Store == nil {
		return
	}
	store := i.Store
	deviceID := out.DeviceID
	reading, assessment := out.Reading, out.Assessment
	events := out.Events
	summaries := append(slices.Clone(out.Sealed), out.Summary)

	i.Dispatcher.Submit(jobPersist, func(context.Context) error {
		var errs []error
		if err := store.SaveReading(deviceID, reading); err != nil {
			errs = append(errs, fmt.Errorf("save reading: %w", err))
		}
		if err := store.SaveAssessment(deviceID, assessment); err != nil {
			errs = append(errs, fmt.Errorf("save assessment: %w", err))
		}
		for _, ev := range events {
			if err := store.SaveAlert(deviceID, ev.Alert); err != nil {
				errs = append(errs, fmt.Errorf("save alert %s: %w", ev.Alert.ID, err))
			}
		}
		for _, s := range summaries {
			if err := store.SaveSummary(deviceID, s); err != nil {
				errs = append(errs, fmt.Errorf("save summary %s: %w", s.Date, err))
			}
		}
		return errors.Join(errs...)
	})
}

// notify forwards created and escalated events. Resolutions and dismissals
// only reach the store.
func (i *IOT) notify(deviceID string, events []models.AlertEvent) {
	if i.Notifier == nil {
		return
	}
	notifier := i.Notifier
	notifiable := common.Filter(events, func(ev models.AlertEvent) bool {
		return ev.Kind == models.AlertEventCreated || ev.Kind == models.AlertEventEscalated
	})
	for _, ev := range notifiable {
		i.Dispatcher.Submit(jobNotify, func(ctx context.Context) error {
			return notifier.Notify(ctx, deviceID, ev)
		})
	}
}

func (i *IOT) getAssessment(deviceID string) (models.RiskAssessment, error) {
	s, err := i.lookup(deviceID)
	if err != nil {
		return models.RiskAssessment{}, err
	}
	a, ok := s.Current()
	if !ok {
		return models.RiskAssessment{}, fmt.Errorf("%w: %s", ErrNoAssessment, deviceID)
	}
	return a, nil
}

type ITelemetryImpl struct {
	iot *IOT
}

func (it *ITelemetryImpl) IngestPacket(deviceID string, packet []byte, at time.Time) (*monitor.Outcome, error) {
	return it.iot.ingestPacket(deviceID, packet, at)
}

func (it *ITelemetryImpl) IngestReading(deviceID string, reading models.Reading) (*monitor.Outcome, error) {
	return it.iot.ingestReading(deviceID, reading)
}

func (it *ITelemetryImpl) GetAssessment(deviceID string) (models.RiskAssessment, error) {
	return it.iot.getAssessment(deviceID)
}

func (i *IOT) GetITelemetry() ITelemetry {
	return &ITelemetryImpl{iot: i}
}
