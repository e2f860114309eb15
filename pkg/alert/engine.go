// Package alert tracks threshold breaches per (type, zone) key.
//
// Each key moves normal -> breached -> active (read or unread) -> resolved. A
// repeat breach of an active key refreshes it instead of creating a second
// alert, and may escalate its severity. Severity is never lowered until the key
// resolves, which requires ResolveSamples consecutive normal samples spanning at
// least ResolveAfter of reading time.
package alert

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"liyu1981.xyz/insole-monitor-service/pkg/config"
	"liyu1981.xyz/insole-monitor-service/pkg/models"
	"liyu1981.xyz/insole-monitor-service/pkg/risk"
)

var ErrNotFound = errors.New("alert not found")

type key struct {
	typ  models.AlertType
	zone models.Zone
}

func keyOf(a *models.Alert) key {
	return key{typ: a.Type, zone: a.Zone}
}

type condition struct {
	key
	severity models.Severity
	message  string
}

type tracked struct {
	alert       *models.Alert
	normalCount int
	normalSince time.Time
}

// Changes lists the state transitions caused by one call, in the order they happened.
type Changes []models.AlertEvent

func (c Changes) Of(kind models.AlertEventKind) []models.Alert {
	var out []models.Alert
	for _, ev := range c {
		if ev.Kind == kind {
			out = append(out, ev.Alert)
		}
	}
	return out
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	ActiveOnly bool
	Type       models.AlertType
	Severity   models.Severity
	Since      time.Time
}

func (f Filter) match(a *models.Alert) bool {
	if f.ActiveOnly && !a.IsActive() {
		return false
	}
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	if f.Severity != "" && a.Severity != f.Severity {
		return false
	}
	if !f.Since.IsZero() && a.CreatedAt.Before(f.Since) {
		return false
	}
	return true
}

// Engine is not safe for concurrent use; the owning session serializes access.
type Engine struct {
	th    config.Thresholds
	newID func() string

	log        []*models.Alert
	active     map[key]*tracked
	suppressed map[key]bool

	// stream clock: the latest reading timestamp processed
	now time.Time
}

func NewEngine(th config.Thresholds) *Engine {
	return &Engine{
		th:         th,
		newID:      uuid.NewString,
		active:     map[key]*tracked{},
		suppressed: map[key]bool{},
	}
}

// Reconfigure applies new thresholds from the next reading on. Active alerts
// keep their severity and resolution progress.
func (e *Engine) Reconfigure(th config.Thresholds) {
	e.th = th
	e.trim()
}

func (e *Engine) Now() time.Time {
	return e.now
}

// ProcessReading folds one reading into the alert state. assessment is the
// risk assessment of the same reading and only annotates messages.
func (e *Engine) ProcessReading(r models.Reading, assessment models.RiskAssessment) Changes {
	ts := r.Timestamp
	if ts.After(e.now) {
		e.now = ts
	}

	changes := Changes{}
	breached := map[key]bool{}

	for _, c := range e.conditions(r) {
		breached[c.key] = true
		if e.suppressed[c.key] {
			continue
		}

		message := c.message
		if assessment.Level != "" {
			message = fmt.Sprintf("%s (risk %s)", c.message, assessment.Level)
		}

		t, ok := e.active[c.key]
		if !ok {
			a := &models.Alert{
				ID:         e.newID(),
				Type:       c.typ,
				Severity:   c.severity,
				Zone:       c.zone,
				Message:    message,
				CreatedAt:  ts,
				LastSeenAt: ts,
			}
			e.log = append(e.log, a)
			e.active[c.key] = &tracked{alert: a}
			changes = append(changes, models.AlertEvent{Kind: models.AlertEventCreated, Alert: *a})
			continue
		}

		t.normalCount = 0
		t.normalSince = time.Time{}
		if ts.After(t.alert.LastSeenAt) {
			t.alert.LastSeenAt = ts
		}
		if c.severity.Rank() > t.alert.Severity.Rank() {
			t.alert.Severity = c.severity
			t.alert.Message = message
			t.alert.IsRead = false
			changes = append(changes, models.AlertEvent{Kind: models.AlertEventEscalated, Alert: *t.alert})
		}
	}

	for _, a := range e.log {
		k := keyOf(a)
		t, ok := e.active[k]
		if !ok || t.alert != a || breached[k] {
			continue
		}
		if t.normalCount == 0 {
			t.normalSince = ts
		}
		t.normalCount++
		if t.normalCount >= e.th.ResolveSamples && ts.Sub(t.normalSince) >= e.th.ResolveAfter {
			resolvedAt := ts
			a.ResolvedAt = &resolvedAt
			delete(e.active, k)
			changes = append(changes, models.AlertEvent{Kind: models.AlertEventResolved, Alert: *a})
		}
	}

	for k := range e.suppressed {
		if !breached[k] {
			delete(e.suppressed, k)
		}
	}

	e.trim()
	return changes
}

func (e *Engine) conditions(r models.Reading) []condition {
	var out []condition
	add := func(typ models.AlertType, zone models.Zone, sev models.Severity, msg string) {
		out = append(out, condition{key: key{typ: typ, zone: zone}, severity: sev, message: msg})
	}

	for i, p := range r.Pressures {
		zone := models.Zones[i]
		switch {
		case p >= e.th.PressureCriticalKPa:
			add(models.AlertTypePressure, zone, models.SeverityCritical, fmt.Sprintf("High pressure in %s area: %.1f kPa", zone, p))
		case p >= e.th.PressureWarningKPa:
			add(models.AlertTypePressure, zone, models.SeverityWarning, fmt.Sprintf("Elevated pressure in %s area: %.1f kPa", zone, p))
		}
	}

	for i, t := range r.Temperatures {
		zone := models.Zones[i]
		switch {
		case t >= e.th.TempInflammationC:
			add(models.AlertTypeTemperature, zone, models.SeverityCritical, fmt.Sprintf("Inflammation-range temperature in %s area: %.1f°C", zone, t))
		case t <= e.th.TempFrostbiteC:
			add(models.AlertTypeTemperature, zone, models.SeverityCritical, fmt.Sprintf("Frostbite-range temperature in %s area: %.1f°C", zone, t))
		case t > e.th.TempNormalHighC:
			add(models.AlertTypeTemperature, zone, models.SeverityWarning, fmt.Sprintf("Elevated temperature in %s area: %.1f°C", zone, t))
		case t < e.th.TempNormalLowC:
			add(models.AlertTypeTemperature, zone, models.SeverityWarning, fmt.Sprintf("Low temperature in %s area: %.1f°C", zone, t))
		}
	}

	if gap := r.TemperatureGap(); gap > e.th.AsymmetryC {
		add(models.AlertTypeTemperature, models.ZoneNone, models.SeverityWarning, fmt.Sprintf("Temperature asymmetry of %.1f°C between zones", gap))
	}

	switch {
	case r.SpO2 == 0:
		// no signal, not a breach
	case r.SpO2 <= e.th.SpO2CriticalPct:
		add(models.AlertTypeCirculation, models.ZoneNone, models.SeverityCritical, fmt.Sprintf("Critically low blood oxygen: %.1f%%", r.SpO2))
	case r.SpO2 < e.th.SpO2FloorPct:
		add(models.AlertTypeCirculation, models.ZoneNone, models.SeverityWarning, fmt.Sprintf("Low blood oxygen: %.1f%%", r.SpO2))
	}

	cv := risk.EffectiveGaitCV(r)
	switch {
	case cv >= e.th.GaitCVCritical:
		add(models.AlertTypeGait, models.ZoneNone, models.SeverityCritical, fmt.Sprintf("Highly uneven pressure distribution while %s", r.Activity))
	case cv >= e.th.GaitCVWarning:
		add(models.AlertTypeGait, models.ZoneNone, models.SeverityWarning, fmt.Sprintf("Uneven pressure distribution while %s", r.Activity))
	}

	switch {
	case r.BatteryLevel < e.th.BatteryCriticalPct:
		add(models.AlertTypeSystem, models.ZoneNone, models.SeverityCritical, fmt.Sprintf("Battery critically low: %d%%", r.BatteryLevel))
	case r.BatteryLevel < e.th.BatteryWarningPct:
		add(models.AlertTypeSystem, models.ZoneNone, models.SeverityWarning, fmt.Sprintf("Battery low: %d%%", r.BatteryLevel))
	}

	return out
}

// trim keeps the log within MaxAlertHistory, evicting the oldest resolved
// alerts first and only then the oldest active ones.
func (e *Engine) trim() {
	limit := e.th.MaxAlertHistory
	if limit <= 0 {
		return
	}
	for len(e.log) > limit {
		idx := slices.IndexFunc(e.log, func(a *models.Alert) bool { return !a.IsActive() })
		if idx < 0 {
			idx = 0
			delete(e.active, keyOf(e.log[0]))
		}
		e.log = slices.Delete(e.log, idx, idx+1)
	}
}

// List returns copies ordered by severity, most severe first, then by creation.
func (e *Engine) List(f Filter) []models.Alert {
	out := []models.Alert{}
	for _, a := range e.log {
		if f.match(a) {
			out = append(out, *a)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Alert) int {
		return b.Severity.Rank() - a.Severity.Rank()
	})
	return out
}

func (e *Engine) Active() []models.Alert {
	return e.List(Filter{ActiveOnly: true})
}

func (e *Engine) History() []models.Alert {
	return e.List(Filter{})
}

func (e *Engine) ByType(t models.AlertType) []models.Alert {
	return e.List(Filter{Type: t})
}

func (e *Engine) BySeverity(s models.Severity) []models.Alert {
	return e.List(Filter{Severity: s})
}

// Recent returns alerts created within d of the latest processed reading.
func (e *Engine) Recent(d time.Duration) []models.Alert {
	if e.now.IsZero() {
		return []models.Alert{}
	}
	return e.List(Filter{Since: e.now.Add(-d)})
}

func (e *Engine) Get(id string) (models.Alert, error) {
	a := e.find(id)
	if a == nil {
		return models.Alert{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *a, nil
}

func (e *Engine) UnreadCount() int {
	n := 0
	for _, a := range e.log {
		if a.IsActive() && !a.IsRead {
			n++
		}
	}
	return n
}

func (e *Engine) MarkRead(id string) error {
	a := e.find(id)
	if a == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	a.IsRead = true
	return nil
}

// MarkAllRead returns how many alerts changed.
func (e *Engine) MarkAllRead() int {
	n := 0
	for _, a := range e.log {
		if !a.IsRead {
			a.IsRead = true
			n++
		}
	}
	return n
}

// Remove drops an alert from the log. Removing an active alert dismisses it:
// its key stays quiet until the condition has been normal for one sample.
func (e *Engine) Remove(id string) (models.AlertEvent, error) {
	idx := slices.IndexFunc(e.log, func(a *models.Alert) bool { return a.ID == id })
	if idx < 0 {
		return models.AlertEvent{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	a := e.log[idx]
	e.dismiss(a)
	e.log = slices.Delete(e.log, idx, idx+1)
	return models.AlertEvent{Kind: models.AlertEventDismissed, Alert: *a}, nil
}

// ClearAll empties the log, dismissing every active alert.
func (e *Engine) ClearAll() Changes {
	changes := Changes{}
	for _, a := range e.log {
		e.dismiss(a)
		changes = append(changes, models.AlertEvent{Kind: models.AlertEventDismissed, Alert: *a})
	}
	e.log = nil
	return changes
}

func (e *Engine) dismiss(a *models.Alert) {
	k := keyOf(a)
	if t, ok := e.active[k]; ok && t.alert == a {
		delete(e.active, k)
		e.suppressed[k] = true
	}
}

func (e *Engine) find(id string) *models.Alert {
	for _, a := range e.log {
		if a.ID == id {
			return a
		}
	}
	return nil
}
