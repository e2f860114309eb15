package models

import "time"

const ZoneCount = 4

type Zone string

const (
	ZoneNone Zone = ""
	ZoneHeel Zone = "heel"
	ZoneBall Zone = "ball"
	ZoneArch Zone = "arch"
	ZoneToe  Zone = "toe"
)

// Zones is the fixed positional order used on the wire and in every per-zone array.
var Zones = [ZoneCount]Zone{ZoneHeel, ZoneBall, ZoneArch, ZoneToe}

type Activity string

const (
	ActivityResting  Activity = "resting"
	ActivitySitting  Activity = "sitting"
	ActivityStanding Activity = "standing"
	ActivityWalking  Activity = "walking"
	ActivityRunning  Activity = "running"
	ActivityUnknown  Activity = "unknown"
)

func (a Activity) IsMoving() bool {
	return a == ActivityWalking || a == ActivityRunning
}

// ClampMask records which fields the codec had to clamp into their physical range.
type ClampMask uint8

const (
	ClampSpO2 ClampMask = 1 << iota
	ClampBattery
)

type Reading struct {
	Timestamp    time.Time          `json:"timestamp"`
	Temperatures [ZoneCount]float64 `json:"temperatures"`
	Pressures    [ZoneCount]float64 `json:"pressures"`
	SpO2         float64            `json:"spo2"`
	HeartRate    int                `json:"heart_rate"`
	StepCount    int                `json:"step_count"`
	Activity     Activity           `json:"activity"`
	BatteryLevel int                `json:"battery_level"`
	Clamped      ClampMask          `json:"clamped,omitempty"`
}

func (r Reading) MaxPressure() (Zone, float64) {
	zone, max := Zones[0], r.Pressures[0]
	for i := 1; i < ZoneCount; i++ {
		if r.Pressures[i] > max {
			zone, max = Zones[i], r.Pressures[i]
		}
	}
	return zone, max
}

// TemperatureGap is the spread between the warmest and coldest zone.
func (r Reading) TemperatureGap() float64 {
	lo, hi := r.Temperatures[0], r.Temperatures[0]
	for _, t := range r.Temperatures[1:] {
		if t < lo {
			lo = t
		}
		if t > hi {
			hi = t
		}
	}
	return hi - lo
}

type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelModerate RiskLevel = "moderate"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

var RiskLevels = []RiskLevel{RiskLevelLow, RiskLevelModerate, RiskLevelHigh, RiskLevelCritical}

func (l RiskLevel) Rank() int {
	switch l {
	case RiskLevelLow:
		return 0
	case RiskLevelModerate:
		return 1
	case RiskLevelHigh:
		return 2
	case RiskLevelCritical:
		return 3
	default:
		return -1
	}
}

type SubScores struct {
	Pressure    int `json:"pressure"`
	Temperature int `json:"temperature"`
	Circulation int `json:"circulation"`
	Gait        int `json:"gait"`
}

type RiskAssessment struct {
	Timestamp       time.Time `json:"timestamp"`
	OverallScore    int       `json:"overall_score"`
	Level           RiskLevel `json:"level"`
	SubScores       SubScores `json:"sub_scores"`
	Factors         []string  `json:"factors"`
	Recommendations []string  `json:"recommendations"`
}

type AlertType string

const (
	AlertTypeTemperature AlertType = "temperature"
	AlertTypePressure    AlertType = "pressure"
	AlertTypeCirculation AlertType = "circulation"
	AlertTypeGait        AlertType = "gait"
	AlertTypeSystem      AlertType = "system"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityWarning:
		return 1
	case SeverityCritical:
		return 2
	default:
		return -1
	}
}

type Alert struct {
	ID         string     `json:"id"`
	Type       AlertType  `json:"type"`
	Severity   Severity   `json:"severity"`
	Zone       Zone       `json:"zone,omitempty"`
	Message    string     `json:"message"`
	CreatedAt  time.Time  `json:"created_at"`
	LastSeenAt time.Time  `json:"last_seen_at"`
	IsRead     bool       `json:"is_read"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

func (a Alert) IsActive() bool {
	return a.ResolvedAt == nil
}

type AlertEventKind string

const (
	AlertEventCreated   AlertEventKind = "created"
	AlertEventEscalated AlertEventKind = "escalated"
	AlertEventResolved  AlertEventKind = "resolved"
	AlertEventDismissed AlertEventKind = "dismissed"
)

type AlertEvent struct {
	Kind  AlertEventKind `json:"kind"`
	Alert Alert          `json:"alert"`
}

// DateLayout is the calendar-day key format used for daily summaries.
const DateLayout = "2006-01-02"

type DailySummary struct {
	Date              string            `json:"date"`
	ReadingCount      int               `json:"reading_count"`
	AverageScore      float64           `json:"average_score"`
	HighestScore      int               `json:"highest_score"`
	LowestScore       int               `json:"lowest_score"`
	AlertCount        int               `json:"alert_count"`
	DominantRiskLevel RiskLevel         `json:"dominant_risk_level"`
	KeyFactors        []string          `json:"key_factors"`
	LevelCounts       map[RiskLevel]int `json:"level_counts"`
	FirstReadingAt    time.Time         `json:"first_reading_at"`
	LastReadingAt     time.Time         `json:"last_reading_at"`
	Sealed            bool              `json:"sealed"`
	Reopened          int               `json:"reopened"`
}
