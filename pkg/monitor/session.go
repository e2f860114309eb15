// Package monitor runs the per-device pipeline: decode, score, alert, aggregate.
//
// A Session is the only writer of its device state. Every fold happens under the
// session's write lock, so readers holding the read lock see the state either
// before or after a whole fold, never part of one.
package monitor

import (
	"sync"
	"time"

	"liyu1981.xyz/insole-monitor-service/pkg/alert"
	"liyu1981.xyz/insole-monitor-service/pkg/codec"
	"liyu1981.xyz/insole-monitor-service/pkg/config"
	"liyu1981.xyz/insole-monitor-service/pkg/models"
	"liyu1981.xyz/insole-monitor-service/pkg/risk"
	"liyu1981.xyz/insole-monitor-service/pkg/summary"
)

// Outcome is everything one reading changed.
type Outcome struct {
	DeviceID   string                `json:"device_id"`
	Reading    models.Reading        `json:"reading"`
	Assessment models.RiskAssessment `json:"assessment"`
	Events     alert.Changes         `json:"events"`
	Summary    models.DailySummary   `json:"summary"`
	Sealed     []models.DailySummary `json:"sealed,omitempty"`
	Anomaly    bool                  `json:"anomaly,omitempty"`
}

type Session struct {
	mu sync.RWMutex

	deviceID string
	th       config.Thresholds
	scorer   *risk.Scorer
	history  *risk.History
	engine   *alert.Engine
	agg      *summary.Aggregator

	current     *models.RiskAssessment
	lastReading *models.Reading
}

func NewSession(deviceID string, th config.Thresholds, loc *time.Location) *Session {
	return &Session{
		deviceID: deviceID,
		th:       th,
		scorer:   risk.NewScorer(th),
		history:  risk.NewHistory(th.HistorySize),
		engine:   alert.NewEngine(th),
		agg:      summary.NewAggregator(loc, th.MaxSummaryDays),
	}
}

func (s *Session) DeviceID() string {
	return s.deviceID
}

// ProcessPacket decodes one packet stamped with at. A malformed packet leaves
// the session untouched.
func (s *Session) ProcessPacket(packet []byte, at time.Time) (Outcome, error) {
	r, err := codec.DecodeAt(packet, at)
	if err != nil {
		return Outcome{DeviceID: s.deviceID}, err
	}
	return s.ProcessReading(r), nil
}

func (s *Session) ProcessReading(r models.Reading) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	assessment := s.scorer.Score(r, s.history.Snapshot())
	s.history.Push(r)

	changes := s.engine.ProcessReading(r, assessment)
	fold := s.agg.Fold(r, assessment)
	if created := len(changes.Of(models.AlertEventCreated)); created > 0 {
		s.agg.RecordAlerts(r.Timestamp, created)
		if updated, ok := s.agg.SummaryFor(fold.Summary.Date); ok {
			fold.Summary = updated
		}
	}

	s.current = &assessment
	s.lastReading = &r

	return Outcome{
		DeviceID:   s.deviceID,
		Reading:    r,
		Assessment: assessment,
		Events:     changes,
		Summary:    fold.Summary,
		Sealed:     fold.Sealed,
		Anomaly:    fold.Anomaly,
	}
}

// Reconfigure swaps in a new threshold set for subsequent readings.
func (s *Session) Reconfigure(th config.Thresholds) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.th = th
	s.scorer = risk.NewScorer(th)
	s.history.Resize(th.HistorySize)
	s.engine.Reconfigure(th)
	s.agg.SetMaxDays(th.MaxSummaryDays)
}

func (s *Session) Thresholds() config.Thresholds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.th
}

func (s *Session) Current() (models.RiskAssessment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.RiskAssessment{}, false
	}
	return *s.current, true
}

func (s *Session) LastReading() (models.Reading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastReading == nil {
		return models.Reading{}, false
	}
	return *s.lastReading, true
}

func (s *Session) ActiveAlerts() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Active()
}

func (s *Session) Alerts(f alert.Filter) []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.List(f)
}

func (s *Session) RecentAlerts(d time.Duration) []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Recent(d)
}

func (s *Session) Alert(id string) (models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Get(id)
}

func (s *Session) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.UnreadCount()
}

func (s *Session) MarkRead(id string) (models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.MarkRead(id); err != nil {
		return models.Alert{}, err
	}
	return s.engine.Get(id)
}

func (s *Session) MarkAllRead() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.MarkAllRead()
}

func (s *Session) Remove(id string) (models.AlertEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Remove(id)
}

func (s *Session) ClearAll() alert.Changes {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ClearAll()
}

func (s *Session) SummaryFor(date string) (models.DailySummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agg.SummaryFor(date)
}

func (s *Session) SummariesInRange(start, end string) []models.DailySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agg.SummariesInRange(start, end)
}

func (s *Session) CurrentSummary() (models.DailySummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agg.Current()
}
