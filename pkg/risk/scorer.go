// Package risk turns a Reading into a RiskAssessment.
//
// Four sub-scores (pressure, temperature, circulation, gait), each 0-100, are
// fused with the configured weights into the overall score:
//
//	overall = round(wP*pressure + wT*temperature + wC*circulation + wG*gait)
//
// clamped to 0-100. A sub-score at 100 lifts the overall score to at least the
// "high" boundary so that a single critical finding is never averaged away.
package risk

import (
	"fmt"
	"math"

	"liyu1981.xyz/insole-monitor-service/pkg/config"
	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

const (
	recommendOffload      = "Reduce weight-bearing and check footwear fit"
	recommendInspect      = "Inspect the foot for redness, swelling or skin damage"
	recommendWarm         = "Warm the foot gradually and keep it dry"
	recommendAsymmetry    = "Monitor the warmer zone for early signs of ulceration"
	recommendCirculation  = "Rest with the feet elevated; seek care if blood oxygen stays low"
	recommendSensor       = "Check that the insole sensors are in contact with the foot"
	recommendGait         = "Review gait and footwear with a clinician"
	recommendCharge       = "Charge the insole"
	recommendClinical     = "Seek a clinical assessment promptly"
	factorSensorClamped   = "Sensor values out of range"
	factorNoOxygenSignal  = "No blood oxygen signal"
	factorAsymmetry       = "Temperature asymmetry between zones"
	factorAsymmetryTrend  = "Temperature asymmetry worsening"
	factorLowOxygen       = "Low blood oxygen"
	factorCriticalOxygen  = "Critically low blood oxygen"
	factorLowBattery      = "Low battery"
	asymmetryBaseScore    = 20.0
	asymmetryPerDegree    = 10.0
	asymmetryMaxScore     = 40.0
	asymmetryTrendScore   = 10.0
	belowWarningMaxScore  = 30.0
	warningBandStartScore = 50.0
	outOfBandStartScore   = 40.0
)

type Scorer struct {
	th config.Thresholds
}

// NewScorer keeps its own copy of th, later changes by the caller are not seen.
func NewScorer(th config.Thresholds) *Scorer {
	return &Scorer{th: th}
}

func (s *Scorer) Thresholds() config.Thresholds {
	return s.th
}

// Score is pure: the same reading and history always give the same assessment.
// history is the trailing window, oldest first, not including r; it may be empty.
func (s *Scorer) Score(r models.Reading, history []models.Reading) models.RiskAssessment {
	n := newNotes()

	sub := models.SubScores{
		Pressure:    s.pressure(r, n),
		Temperature: s.temperature(r, history, n),
		Circulation: s.circulation(r, n),
		Gait:        s.gait(r, n),
	}
	s.system(r, history, n)

	overall := s.Overall(sub)
	level := s.Level(overall)
	if level == models.RiskLevelCritical {
		n.recommend(recommendClinical)
	}

	return models.RiskAssessment{
		Timestamp:       r.Timestamp,
		OverallScore:    overall,
		Level:           level,
		SubScores:       sub,
		Factors:         n.factors,
		Recommendations: n.recommendations,
	}
}

func (s *Scorer) Overall(sub models.SubScores) int {
	raw := s.th.WeightPressure*float64(sub.Pressure) +
		s.th.WeightTemperature*float64(sub.Temperature) +
		s.th.WeightCirculation*float64(sub.Circulation) +
		s.th.WeightGait*float64(sub.Gait)

	overall := clampScore(raw)
	if sub.Pressure == 100 || sub.Temperature == 100 || sub.Circulation == 100 || sub.Gait == 100 {
		overall = max(overall, s.th.HighAt)
	}
	return overall
}

func (s *Scorer) Level(score int) models.RiskLevel {
	switch {
	case score < s.th.ModerateAt:
		return models.RiskLevelLow
	case score < s.th.HighAt:
		return models.RiskLevelModerate
	case score < s.th.CriticalAt:
		return models.RiskLevelHigh
	default:
		return models.RiskLevelCritical
	}
}

func (s *Scorer) pressure(r models.Reading, n *notes) int {
	for i, p := range r.Pressures {
		zone := models.Zones[i]
		switch {
		case p >= s.th.PressureCriticalKPa:
			n.factor(fmt.Sprintf("High pressure in %s area", zone))
			n.recommend(recommendOffload)
		case p >= s.th.PressureWarningKPa:
			n.factor(fmt.Sprintf("Elevated pressure in %s area", zone))
			n.recommend(recommendOffload)
		}
	}

	_, maxP := r.MaxPressure()
	return clampScore(PressureSubScore(maxP, s.th))
}

// PressureSubScore is non-decreasing in p: linear up to 30 below the warning band,
// 50..100 across the warning band, 100 from the critical threshold on.
func PressureSubScore(p float64, th config.Thresholds) float64 {
	switch {
	case p <= 0:
		return 0
	case p >= th.PressureCriticalKPa:
		return 100
	case p >= th.PressureWarningKPa:
		return warningBandStartScore + (100-warningBandStartScore)*(p-th.PressureWarningKPa)/(th.PressureCriticalKPa-th.PressureWarningKPa)
	default:
		return belowWarningMaxScore * p / th.PressureWarningKPa
	}
}

func (s *Scorer) temperature(r models.Reading, history []models.Reading, n *notes) int {
	deviation := 0.0
	for i, t := range r.Temperatures {
		zone := models.Zones[i]
		var zoneScore float64
		switch {
		case t >= s.th.TempInflammationC:
			zoneScore = 100
			n.factor(fmt.Sprintf("Inflammation-range temperature in %s area", zone))
			n.recommend(recommendInspect)
		case t > s.th.TempNormalHighC:
			zoneScore = outOfBandStartScore + (100-outOfBandStartScore)*(t-s.th.TempNormalHighC)/(s.th.TempInflammationC-s.th.TempNormalHighC)
			n.factor(fmt.Sprintf("Elevated temperature in %s area", zone))
			n.recommend(recommendInspect)
		case t <= s.th.TempFrostbiteC:
			zoneScore = 100
			n.factor(fmt.Sprintf("Frostbite-range temperature in %s area", zone))
			n.recommend(recommendWarm)
		case t < s.th.TempNormalLowC:
			zoneScore = outOfBandStartScore + (100-outOfBandStartScore)*(s.th.TempNormalLowC-t)/(s.th.TempNormalLowC-s.th.TempFrostbiteC)
			n.factor(fmt.Sprintf("Low temperature in %s area", zone))
			n.recommend(recommendWarm)
		}
		deviation = math.Max(deviation, zoneScore)
	}

	asymmetry := 0.0
	gap := r.TemperatureGap()
	if gap > s.th.AsymmetryC {
		asymmetry = math.Min(asymmetryMaxScore, asymmetryBaseScore+asymmetryPerDegree*(gap-s.th.AsymmetryC))
		n.factor(factorAsymmetry)
		n.recommend(recommendAsymmetry)

		if s.asymmetryWorsening(gap, history) {
			asymmetry += asymmetryTrendScore
			n.factor(factorAsymmetryTrend)
		}
	}

	return clampScore(deviation + asymmetry)
}

// asymmetryWorsening compares the current gap with the oldest sample of the
// trend window (TrendWindow samples including the current one).
func (s *Scorer) asymmetryWorsening(gap float64, history []models.Reading) bool {
	span := s.th.TrendWindow - 1
	if span < 1 || len(history) < span {
		return false
	}
	oldest := history[len(history)-span]
	return gap-oldest.TemperatureGap() >= s.th.AsymmetryTrendC
}

func (s *Scorer) circulation(r models.Reading, n *notes) int {
	switch {
	case r.SpO2 == 0:
		n.factor(factorNoOxygenSignal)
		n.recommend(recommendSensor)
		return 0
	case r.SpO2 >= s.th.SpO2FloorPct:
		return 0
	case r.SpO2 <= s.th.SpO2CriticalPct:
		n.factor(factorCriticalOxygen)
		n.recommend(recommendCirculation)
		return 100
	default:
		n.factor(factorLowOxygen)
		n.recommend(recommendCirculation)
		return clampScore(100 * (s.th.SpO2FloorPct - r.SpO2) / (s.th.SpO2FloorPct - s.th.SpO2CriticalPct))
	}
}

func (s *Scorer) gait(r models.Reading, n *notes) int {
	effective := EffectiveGaitCV(r)
	if effective == 0 {
		return 0
	}
	if effective >= s.th.GaitCVWarning {
		n.factor(fmt.Sprintf("Uneven pressure distribution while %s", r.Activity))
		n.recommend(recommendGait)
	}
	return clampScore(100 * effective / s.th.GaitCVCritical)
}

func (s *Scorer) system(r models.Reading, history []models.Reading, n *notes) {
	if r.BatteryLevel < s.th.BatteryWarningPct {
		n.factor(factorLowBattery)
		n.recommend(recommendCharge)
	}

	if r.Clamped != 0 {
		clamped := 1
		for _, h := range history {
			if h.Clamped != 0 {
				clamped++
			}
		}
		if clamped >= s.th.ClampRecurrence {
			n.factor(factorSensorClamped)
			n.recommend(recommendSensor)
		}
	}
}

// ActivityWeight scales uneven loading by how much the foot is moving.
func ActivityWeight(a models.Activity) float64 {
	switch a {
	case models.ActivityRunning:
		return 1.25
	case models.ActivityWalking:
		return 1.0
	case models.ActivityStanding:
		return 0.5
	default:
		return 0
	}
}

// EffectiveGaitCV is the coefficient of variation of the zone pressures weighted
// by activity. Zero when the foot is at rest or unloaded.
func EffectiveGaitCV(r models.Reading) float64 {
	w := ActivityWeight(r.Activity)
	if w == 0 {
		return 0
	}
	return w * CoefficientOfVariation(r.Pressures[:])
}

func CoefficientOfVariation(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	if mean <= 0 {
		return 0
	}

	variance := 0.0
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	variance /= float64(len(xs))
	return math.Sqrt(variance) / mean
}

func clampScore(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 100 {
		return 100
	}
	return int(math.Round(v))
}

type notes struct {
	factors         []string
	recommendations []string
	seen            map[string]bool
}

func newNotes() *notes {
	return &notes{
		factors:         []string{},
		recommendations: []string{},
		seen:            map[string]bool{},
	}
}

func (n *notes) factor(s string) {
	if n.seen["f:"+s] {
		return
	}
	n.seen["f:"+s] = true
	n.factors = append(n.factors, s)
}

func (n *notes) recommend(s string) {
	if n.seen["r:"+s] {
		return
	}
	n.seen["r:"+s] = true
	n.recommendations = append(n.recommendations, s)
}
