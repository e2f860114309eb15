package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Persistence records. The core hands plain values to the store; these are the
// row shapes the gorm store writes.

type ReadingRecord struct {
	ID           uint   `gorm:"primaryKey"`
	DeviceID     string `gorm:"index"`
	Timestamp    time.Time
	TempHeel     float64
	TempBall     float64
	TempArch     float64
	TempToe      float64
	PressureHeel float64
	PressureBall float64
	PressureArch float64
	PressureToe  float64
	SpO2         float64
	HeartRate    int
	StepCount    int
	Activity     Activity `gorm:"type:varchar(16)"`
	BatteryLevel int
	Clamped      uint8
}

func NewReadingRecord(deviceID string, r Reading) ReadingRecord {
	return ReadingRecord{
		DeviceID:     deviceID,
		Timestamp:    r.Timestamp,
		TempHeel:     r.Temperatures[0],
		TempBall:     r.Temperatures[1],
		TempArch:     r.Temperatures[2],
		TempToe:      r.Temperatures[3],
		PressureHeel: r.Pressures[0],
		PressureBall: r.Pressures[1],
		PressureArch: r.Pressures[2],
		PressureToe:  r.Pressures[3],
		SpO2:         r.SpO2,
		HeartRate:    r.HeartRate,
		StepCount:    r.StepCount,
		Activity:     r.Activity,
		BatteryLevel: r.BatteryLevel,
		Clamped:      uint8(r.Clamped),
	}
}

type AssessmentRecord struct {
	ID               uint   `gorm:"primaryKey"`
	DeviceID         string `gorm:"index"`
	Timestamp        time.Time
	OverallScore     int
	Level            RiskLevel `gorm:"type:varchar(16);check:level IN ('low','moderate','high','critical')"`
	PressureScore    int
	TemperatureScore int
	CirculationScore int
	GaitScore        int
	Factors          datatypes.JSON
	Recommendations  datatypes.JSON
}

func NewAssessmentRecord(deviceID string, a RiskAssessment) (AssessmentRecord, error) {
	factors, err := json.Marshal(a.Factors)
	if err != nil {
		return AssessmentRecord{}, err
	}
	recommendations, err := json.Marshal(a.Recommendations)
	if err != nil {
		return AssessmentRecord{}, err
	}
	return AssessmentRecord{
		DeviceID:         deviceID,
		Timestamp:        a.Timestamp,
		OverallScore:     a.OverallScore,
		Level:            a.Level,
		PressureScore:    a.SubScores.Pressure,
		TemperatureScore: a.SubScores.Temperature,
		CirculationScore: a.SubScores.Circulation,
		GaitScore:        a.SubScores.Gait,
		Factors:          datatypes.JSON(factors),
		Recommendations:  datatypes.JSON(recommendations),
	}, nil
}

type AlertRecord struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	DeviceID   string    `gorm:"index"`
	Type       AlertType `gorm:"type:varchar(20);check:type IN ('temperature','pressure','circulation','gait','system')"`
	Severity   Severity  `gorm:"type:varchar(10);check:severity IN ('info','warning','critical')"`
	Zone       Zone      `gorm:"type:varchar(8)"`
	Message    string
	CreatedAt  time.Time
	LastSeenAt time.Time
	IsRead     bool
	ResolvedAt *time.Time
}

func NewAlertRecord(deviceID string, a Alert) AlertRecord {
	return AlertRecord{
		ID:         a.ID,
		DeviceID:   deviceID,
		Type:       a.Type,
		Severity:   a.Severity,
		Zone:       a.Zone,
		Message:    a.Message,
		CreatedAt:  a.CreatedAt,
		LastSeenAt: a.LastSeenAt,
		IsRead:     a.IsRead,
		ResolvedAt: a.ResolvedAt,
	}
}

func (r AlertRecord) ToAlert() Alert {
	return Alert{
		ID:         r.ID,
		Type:       r.Type,
		Severity:   r.Severity,
		Zone:       r.Zone,
		Message:    r.Message,
		CreatedAt:  r.CreatedAt,
		LastSeenAt: r.LastSeenAt,
		IsRead:     r.IsRead,
		ResolvedAt: r.ResolvedAt,
	}
}

type SummaryRecord struct {
	DeviceID          string `gorm:"primaryKey"`
	Date              string `gorm:"primaryKey;type:varchar(10)"`
	ReadingCount      int
	AverageScore      float64
	HighestScore      int
	LowestScore       int
	AlertCount        int
	DominantRiskLevel RiskLevel `gorm:"type:varchar(16)"`
	KeyFactors        datatypes.JSON
	LevelCounts       datatypes.JSON
	FirstReadingAt    time.Time
	LastReadingAt     time.Time
	Sealed            bool
	Reopened          int
}

func NewSummaryRecord(deviceID string, s DailySummary) (SummaryRecord, error) {
	factors, err := json.Marshal(s.KeyFactors)
	if err != nil {
		return SummaryRecord{}, err
	}
	counts, err := json.Marshal(s.LevelCounts)
	if err != nil {
		return SummaryRecord{}, err
	}
	return SummaryRecord{
		DeviceID:          deviceID,
		Date:              s.Date,
		ReadingCount:      s.ReadingCount,
		AverageScore:      s.AverageScore,
		HighestScore:      s.HighestScore,
		LowestScore:       s.LowestScore,
		AlertCount:        s.AlertCount,
		DominantRiskLevel: s.DominantRiskLevel,
		KeyFactors:        datatypes.JSON(factors),
		LevelCounts:       datatypes.JSON(counts),
		FirstReadingAt:    s.FirstReadingAt,
		LastReadingAt:     s.LastReadingAt,
		Sealed:            s.Sealed,
		Reopened:          s.Reopened,
	}, nil
}

func (r SummaryRecord) ToSummary() (DailySummary, error) {
	s := DailySummary{
		Date:              r.Date,
		ReadingCount:      r.ReadingCount,
		AverageScore:      r.AverageScore,
		HighestScore:      r.HighestScore,
		LowestScore:       r.LowestScore,
		AlertCount:        r.AlertCount,
		DominantRiskLevel: r.DominantRiskLevel,
		KeyFactors:        []string{},
		LevelCounts:       map[RiskLevel]int{},
		FirstReadingAt:    r.FirstReadingAt,
		LastReadingAt:     r.LastReadingAt,
		Sealed:            r.Sealed,
		Reopened:          r.Reopened,
	}
	if len(r.KeyFactors) > 0 {
		if err := json.Unmarshal(r.KeyFactors, &s.KeyFactors); err != nil {
			return DailySummary{}, err
		}
	}
	if len(r.LevelCounts) > 0 {
		if err := json.Unmarshal(r.LevelCounts, &s.LevelCounts); err != nil {
			return DailySummary{}, err
		}
	}
	return s, nil
}

// DeviceConfig keeps per-device threshold overrides as a JSON document.
type DeviceConfig struct {
	DeviceID   string `gorm:"primaryKey"`
	Thresholds datatypes.JSON
	UpdatedAt  time.Time
}
