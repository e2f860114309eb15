package iot

//go:generate mockgen -source=iot.go -destination=mocks/mock_iot.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"liyu1981.xyz/insole-monitor-service/pkg/alert"
	"liyu1981.xyz/insole-monitor-service/pkg/config"
	"liyu1981.xyz/insole-monitor-service/pkg/metrics"
	"liyu1981.xyz/insole-monitor-service/pkg/models"
	"liyu1981.xyz/insole-monitor-service/pkg/monitor"
)

var (
	ErrUnknownDevice   = errors.New("unknown device")
	ErrNoAssessment    = errors.New("no assessment yet")
	ErrSummaryNotFound = errors.New("summary not found")
)

type ITelemetry interface {
	IngestPacket(deviceID string, packet []byte, at time.Time) (*monitor.Outcome, error)
	IngestReading(deviceID string, reading models.Reading) (*monitor.Outcome, error)
	GetAssessment(deviceID string) (models.RiskAssessment, error)
}

type IAlert interface {
	GetAlerts(deviceID string, filter alert.Filter) ([]models.Alert, error)
	GetUnreadCount(deviceID string) (int, error)
	MarkRead(deviceID, alertID string) (models.Alert, error)
	MarkAllRead(deviceID string) (int, error)
	Remove(deviceID, alertID string) error
	ClearAll(deviceID string) (int, error)
}

type ISummary interface {
	GetSummary(deviceID, date string) (models.DailySummary, error)
	GetSummaries(deviceID, from, to string) ([]models.DailySummary, error)
}

type IConfig interface {
	UpsertConfig(deviceID string, th config.Thresholds) error
	GetDeviceConfig(deviceID string) (config.Thresholds, error)
}

// Store is the persistence collaborator. It is only called from the dispatcher
// goroutine and from config reads.
type Store interface {
	SaveReading(deviceID string, r models.Reading) error
	SaveAssessment(deviceID string, a models.RiskAssessment) error
	SaveAlert(deviceID string, a models.Alert) error
	DeleteAlert(deviceID, alertID string) error
	SaveSummary(deviceID string, s models.DailySummary) error
	GetSummaries(deviceID, from, to string) ([]models.DailySummary, error)
	UpsertDeviceConfig(deviceID string, th config.Thresholds) error
	GetDeviceConfig(deviceID string) (config.Thresholds, error)
	ListDeviceConfigs() (map[string]config.Thresholds, error)
}

type Notifier interface {
	Notify(ctx context.Context, deviceID string, ev models.AlertEvent) error
	Close() error
}

type IOT struct {
	Store      Store
	Notifier   Notifier
	Registry   *monitor.Registry
	Dispatcher *Dispatcher
	Metrics    *metrics.Metrics

	Telemetry ITelemetry
	Alert     IAlert
	Summary   ISummary
	Config    IConfig

	now func() time.Time
}

type Options struct {
	// Store may be nil, persistence is then skipped.
	Store      Store
	Notifier   Notifier
	Thresholds config.Thresholds
	Location   *time.Location
	Metrics    *metrics.Metrics
	// DispatchBuffer bounds the background job queue.
	DispatchBuffer int
}

func New(opts Options) *IOT {
	i := &IOT{
		Store:      opts.Store,
		Notifier:   opts.Notifier,
		Registry:   monitor.NewRegistry(opts.Thresholds, opts.Location),
		Dispatcher: NewDispatcher(opts.DispatchBuffer, opts.Metrics),
		Metrics:    opts.Metrics,
		now:        time.Now,
	}
	i.Telemetry = i.GetITelemetry()
	i.Alert = i.GetIAlert()
	i.Summary = i.GetISummary()
	i.Config = i.GetIConfig()
	return i
}

type ServiceOpts struct {
	Telemetry ITelemetry
	Alert     IAlert
	Summary   ISummary
	Config    IConfig
}

func (i *IOT) WithServices(opts ServiceOpts) *IOT {
	if opts.Telemetry != nil {
		i.Telemetry = opts.Telemetry
	}
	if opts.Alert != nil {
		i.Alert = opts.Alert
	}
	if opts.Summary != nil {
		i.Summary = opts.Summary
	}
	if opts.Config != nil {
		i.Config = opts.Config
	}
	return i
}

// Start launches the dispatcher worker. The worker exits once Close has drained
// the queue; ctx only bounds each job, so jobs run after ctx is done fail fast.
func (i *IOT) Start(ctx context.Context) {
	i.Dispatcher.Start(ctx)
}

// Close drains pending background jobs, then closes the notifier.
func (i *IOT) Close() error {
	i.Dispatcher.Close()
	if i.Notifier != nil {
		return i.Notifier.Close()
	}
	return nil
}

// lookup returns the device session without creating one.
func (i *IOT) lookup(deviceID string) (*monitor.Session, error) {
	s, ok := i.Registry.Lookup(deviceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID)
	}
	return s, nil
}

// session returns the device session, creating it on first use. A new session
// picks up the device's stored thresholds, if any.
func (i *IOT) session(deviceID string) *monitor.Session {
	if s, ok := i.Registry.Lookup(deviceID); ok {
		return s
	}

	s := i.Registry.Get(deviceID)
	i.Metrics.SetDevices(len(i.Registry.Devices()))

	if i.Store != nil {
		if th, err := i.Store.GetDeviceConfig(deviceID); err == nil {
			s.Reconfigure(th)
		}
	}
	return s
}
