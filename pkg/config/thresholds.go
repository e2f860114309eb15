package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	z "github.com/Oudwins/zog"
	"gopkg.in/yaml.v3"
)

var ErrInvalidThresholds = errors.New("invalid thresholds")

// Thresholds is the scoring and alerting policy of one deployment (or one device
// override). It is treated as immutable once handed to a scorer or alert engine;
// callers wanting different values build a new one.
type Thresholds struct {
	PressureWarningKPa  float64 `yaml:"pressure_warning_kpa" json:"pressure_warning_kpa"`
	PressureCriticalKPa float64 `yaml:"pressure_critical_kpa" json:"pressure_critical_kpa"`

	TempNormalLowC    float64 `yaml:"temp_normal_low_c" json:"temp_normal_low_c"`
	TempNormalHighC   float64 `yaml:"temp_normal_high_c" json:"temp_normal_high_c"`
	TempFrostbiteC    float64 `yaml:"temp_frostbite_c" json:"temp_frostbite_c"`
	TempInflammationC float64 `yaml:"temp_inflammation_c" json:"temp_inflammation_c"`
	AsymmetryC        float64 `yaml:"asymmetry_c" json:"asymmetry_c"`
	AsymmetryTrendC   float64 `yaml:"asymmetry_trend_c" json:"asymmetry_trend_c"`
	TrendWindow       int     `yaml:"trend_window" json:"trend_window"`

	SpO2FloorPct    float64 `yaml:"spo2_floor_pct" json:"spo2_floor_pct"`
	SpO2CriticalPct float64 `yaml:"spo2_critical_pct" json:"spo2_critical_pct"`

	GaitCVWarning  float64 `yaml:"gait_cv_warning" json:"gait_cv_warning"`
	GaitCVCritical float64 `yaml:"gait_cv_critical" json:"gait_cv_critical"`

	BatteryWarningPct  int `yaml:"battery_warning_pct" json:"battery_warning_pct"`
	BatteryCriticalPct int `yaml:"battery_critical_pct" json:"battery_critical_pct"`

	WeightPressure    float64 `yaml:"weight_pressure" json:"weight_pressure"`
	WeightTemperature float64 `yaml:"weight_temperature" json:"weight_temperature"`
	WeightCirculation float64 `yaml:"weight_circulation" json:"weight_circulation"`
	WeightGait        float64 `yaml:"weight_gait" json:"weight_gait"`

	ModerateAt int `yaml:"moderate_at" json:"moderate_at"`
	HighAt     int `yaml:"high_at" json:"high_at"`
	CriticalAt int `yaml:"critical_at" json:"critical_at"`

	HistorySize     int           `yaml:"history_size" json:"history_size"`
	ResolveSamples  int           `yaml:"resolve_samples" json:"resolve_samples"`
	ResolveAfter    time.Duration `yaml:"resolve_after" json:"resolve_after"`
	ClampRecurrence int           `yaml:"clamp_recurrence" json:"clamp_recurrence"`

	MaxAlertHistory int `yaml:"max_alert_history" json:"max_alert_history"`
	MaxSummaryDays  int `yaml:"max_summary_days" json:"max_summary_days"`
}

func Default() Thresholds {
	return Thresholds{
		PressureWarningKPa:  55,
		PressureCriticalKPa: 65,

		TempNormalLowC:    25,
		TempNormalHighC:   35,
		TempFrostbiteC:    15,
		TempInflammationC: 38,
		AsymmetryC:        2.0,
		AsymmetryTrendC:   1.0,
		TrendWindow:       5,

		SpO2FloorPct:    95,
		SpO2CriticalPct: 90,

		GaitCVWarning:  0.5,
		GaitCVCritical: 1.0,

		BatteryWarningPct:  20,
		BatteryCriticalPct: 10,

		WeightPressure:    0.35,
		WeightTemperature: 0.30,
		WeightCirculation: 0.20,
		WeightGait:        0.15,

		ModerateAt: 30,
		HighAt:     55,
		CriticalAt: 80,

		HistorySize:     30,
		ResolveSamples:  3,
		ResolveAfter:    4 * time.Second,
		ClampRecurrence: 3,

		MaxAlertHistory: 500,
		MaxSummaryDays:  90,
	}
}

var thresholdsSchema = z.Struct(z.Shape{
	"PressureWarningKPa":  z.Float64().GT(0).Required(),
	"PressureCriticalKPa": z.Float64().GT(0).Required(),
	"AsymmetryC":          z.Float64().GT(0).Required(),
	"AsymmetryTrendC":     z.Float64().GT(0).Required(),
	"TrendWindow":         z.Int().GTE(2).Required(),
	"SpO2FloorPct":        z.Float64().GT(0).LTE(100).Required(),
	"SpO2CriticalPct":     z.Float64().GT(0).LTE(100).Required(),
	"GaitCVWarning":       z.Float64().GT(0).Required(),
	"GaitCVCritical":      z.Float64().GT(0).Required(),
	"BatteryCriticalPct":  z.Int().GT(0).LTE(100).Required(),
	"BatteryWarningPct":   z.Int().GT(0).LTE(100).Required(),
	"ModerateAt":          z.Int().GT(0).LT(100).Required(),
	"HighAt":              z.Int().GT(0).LT(100).Required(),
	"CriticalAt":          z.Int().GT(0).LTE(100).Required(),
	"HistorySize":         z.Int().GTE(1).Required(),
	"ResolveSamples":      z.Int().GTE(1).Required(),
	"ClampRecurrence":     z.Int().GTE(1).Required(),
	"MaxAlertHistory":     z.Int().GTE(1).Required(),
	"MaxSummaryDays":      z.Int().GTE(1).Required(),
})

// Validate checks single-field ranges with the schema, then the orderings that
// only make sense across fields. Any failure wraps ErrInvalidThresholds.
func (t *Thresholds) Validate() error {
	if issues := thresholdsSchema.Validate(t); issues != nil {
		return fmt.Errorf("%w: %v", ErrInvalidThresholds, issues)
	}

	switch {
	case t.PressureCriticalKPa <= t.PressureWarningKPa:
		return fmt.Errorf("%w: pressure critical %.1f must exceed warning %.1f",
			ErrInvalidThresholds, t.PressureCriticalKPa, t.PressureWarningKPa)
	case !(t.TempFrostbiteC < t.TempNormalLowC &&
		t.TempNormalLowC < t.TempNormalHighC &&
		t.TempNormalHighC < t.TempInflammationC):
		return fmt.Errorf("%w: temperature bands must satisfy frostbite < normal low < normal high < inflammation",
			ErrInvalidThresholds)
	case t.SpO2CriticalPct >= t.SpO2FloorPct:
		return fmt.Errorf("%w: spo2 critical %.1f must be below floor %.1f",
			ErrInvalidThresholds, t.SpO2CriticalPct, t.SpO2FloorPct)
	case t.GaitCVCritical <= t.GaitCVWarning:
		return fmt.Errorf("%w: gait critical must exceed warning", ErrInvalidThresholds)
	case t.BatteryCriticalPct >= t.BatteryWarningPct:
		return fmt.Errorf("%w: battery critical must be below warning", ErrInvalidThresholds)
	case !(t.ModerateAt < t.HighAt && t.HighAt < t.CriticalAt):
		return fmt.Errorf("%w: level boundaries must increase: %d < %d < %d",
			ErrInvalidThresholds, t.ModerateAt, t.HighAt, t.CriticalAt)
	case t.ResolveAfter < 0:
		return fmt.Errorf("%w: resolve_after must not be negative", ErrInvalidThresholds)
	}

	weights := []float64{t.WeightPressure, t.WeightTemperature, t.WeightCirculation, t.WeightGait}
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: weights must not be negative", ErrInvalidThresholds)
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%w: weights sum to %.4f, want 1", ErrInvalidThresholds, sum)
	}

	return nil
}

// Parse overlays a YAML document on the defaults and validates the result.
func Parse(data []byte) (Thresholds, error) {
	t := Default()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Thresholds{}, fmt.Errorf("%w: %v", ErrInvalidThresholds, err)
	}
	if err := t.Validate(); err != nil {
		return Thresholds{}, err
	}
	return t, nil
}

// LoadFile reads thresholds from a YAML file; an empty path yields the defaults.
func LoadFile(path string) (Thresholds, error) {
	if path == "" {
		t := Default()
		return t, t.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, fmt.Errorf("read thresholds file: %w", err)
	}
	return Parse(data)
}
