package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/insole-monitor-service/pkg/config"
	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

func normalReading() models.Reading {
	return models.Reading{
		Timestamp:    time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
		Temperatures: [4]float64{30, 30, 30, 30},
		Pressures:    [4]float64{20, 20, 20, 20},
		SpO2:         98,
		HeartRate:    70,
		Activity:     models.ActivityResting,
		BatteryLevel: 80,
	}
}

func newDefaultScorer() *Scorer {
	return NewScorer(config.Default())
}

func TestScoreNormalReadingIsLow(t *testing.T) {
	a := newDefaultScorer().Score(normalReading(), nil)

	assert.Equal(t, models.RiskLevelLow, a.Level)
	assert.Equal(t, 11, a.SubScores.Pressure)
	assert.Zero(t, a.SubScores.Temperature)
	assert.Zero(t, a.SubScores.Circulation)
	assert.Zero(t, a.SubScores.Gait)
	assert.Equal(t, 4, a.OverallScore)
	assert.Empty(t, a.Factors)
	assert.NotNil(t, a.Factors)
	assert.Equal(t, normalReading().Timestamp, a.Timestamp)
}

func TestScoreCriticalToePressure(t *testing.T) {
	r := normalReading()
	r.Pressures[3] = 65

	a := newDefaultScorer().Score(r, nil)

	assert.Equal(t, 100, a.SubScores.Pressure)
	assert.GreaterOrEqual(t, a.Level.Rank(), models.RiskLevelHigh.Rank())
	assert.Contains(t, a.Factors, "High pressure in toe area")
	assert.Contains(t, a.Recommendations, recommendOffload)
}

func TestScoreElevatedPressureFactor(t *testing.T) {
	r := normalReading()
	r.Pressures[1] = 60

	a := newDefaultScorer().Score(r, nil)

	assert.Equal(t, 75, a.SubScores.Pressure)
	assert.Equal(t, []string{"Elevated pressure in ball area"}, a.Factors)
}

func TestScoreMonotonicInMaxPressure(t *testing.T) {
	s := newDefaultScorer()
	r := normalReading()
	r.Activity = models.ActivityWalking

	prev := -1
	for p := 20.0; p <= 100; p += 0.5 {
		r.Pressures[2] = p
		a := s.Score(r, nil)
		require.GreaterOrEqual(t, a.OverallScore, prev, "pressure %.1f", p)
		prev = a.OverallScore
	}
}

func TestScoreDeterministic(t *testing.T) {
	s := newDefaultScorer()
	r := normalReading()
	r.Temperatures = [4]float64{30, 31, 36, 33}
	r.SpO2 = 93
	history := []models.Reading{normalReading(), normalReading()}

	assert.Equal(t, s.Score(r, history), s.Score(r, history))
}

func TestScoreDedupsRecommendations(t *testing.T) {
	r := normalReading()
	r.Pressures = [4]float64{70, 70, 70, 70}

	a := newDefaultScorer().Score(r, nil)

	assert.Equal(t, []string{
		"High pressure in heel area",
		"High pressure in ball area",
		"High pressure in arch area",
		"High pressure in toe area",
	}, a.Factors)

	offload := 0
	for _, rec := range a.Recommendations {
		if rec == recommendOffload {
			offload++
		}
	}
	assert.Equal(t, 1, offload)
}

func TestScoreFactorOrder(t *testing.T) {
	r := normalReading()
	r.Pressures[3] = 66
	r.SpO2 = 92
	r.BatteryLevel = 5

	a := newDefaultScorer().Score(r, nil)

	require.Len(t, a.Factors, 3)
	assert.Equal(t, "High pressure in toe area", a.Factors[0])
	assert.Equal(t, factorLowOxygen, a.Factors[1])
	assert.Equal(t, factorLowBattery, a.Factors[2])
}

func TestScoreTemperature(t *testing.T) {
	s := newDefaultScorer()

	t.Run("asymmetry", func(t *testing.T) {
		r := normalReading()
		r.Temperatures = [4]float64{30, 30, 30, 33}
		a := s.Score(r, nil)
		assert.Equal(t, 30, a.SubScores.Temperature)
		assert.Equal(t, []string{factorAsymmetry}, a.Factors)
	})

	t.Run("inflammation", func(t *testing.T) {
		r := normalReading()
		r.Temperatures = [4]float64{34, 34, 34, 38}
		a := s.Score(r, nil)
		assert.Equal(t, 100, a.SubScores.Temperature)
		assert.Contains(t, a.Factors, "Inflammation-range temperature in toe area")
		assert.Equal(t, models.RiskLevelHigh, a.Level)
	})

	t.Run("cold", func(t *testing.T) {
		r := normalReading()
		r.Temperatures = [4]float64{24, 24, 24, 24}
		a := s.Score(r, nil)
		assert.Equal(t, 46, a.SubScores.Temperature)
		assert.Contains(t, a.Factors, "Low temperature in heel area")
		assert.Contains(t, a.Recommendations, recommendWarm)
	})
}

func TestScoreAsymmetryTrend(t *testing.T) {
	s := newDefaultScorer()

	gapReading := func(gap float64) models.Reading {
		r := normalReading()
		r.Temperatures = [4]float64{30, 30, 30, 30 + gap}
		return r
	}

	r := gapReading(3)
	history := []models.Reading{gapReading(1.5), gapReading(2), gapReading(2.5), gapReading(2.8)}

	a := s.Score(r, history)
	assert.Contains(t, a.Factors, factorAsymmetryTrend)
	assert.Equal(t, 40, a.SubScores.Temperature)

	a = s.Score(r, history[1:])
	assert.NotContains(t, a.Factors, factorAsymmetryTrend)
	assert.Equal(t, 30, a.SubScores.Temperature)

	steady := []models.Reading{gapReading(2.8), gapReading(2.9), gapReading(3), gapReading(3)}
	a = s.Score(r, steady)
	assert.NotContains(t, a.Factors, factorAsymmetryTrend)
}

func TestScoreCirculation(t *testing.T) {
	s := newDefaultScorer()

	cases := []struct {
		name   string
		spo2   float64
		score  int
		factor string
	}{
		{"healthy", 97, 0, ""},
		{"low", 92.5, 50, factorLowOxygen},
		{"critical", 89, 100, factorCriticalOxygen},
		{"no signal", 0, 0, factorNoOxygenSignal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := normalReading()
			r.SpO2 = tc.spo2
			a := s.Score(r, nil)
			assert.Equal(t, tc.score, a.SubScores.Circulation)
			if tc.factor == "" {
				assert.Empty(t, a.Factors)
			} else {
				assert.Contains(t, a.Factors, tc.factor)
			}
		})
	}
}

func TestScoreGaitDependsOnActivity(t *testing.T) {
	s := newDefaultScorer()
	r := normalReading()
	r.Pressures = [4]float64{10, 10, 10, 50}

	r.Activity = models.ActivityWalking
	a := s.Score(r, nil)
	assert.Equal(t, 87, a.SubScores.Gait)
	assert.Contains(t, a.Factors, "Uneven pressure distribution while walking")

	r.Activity = models.ActivityResting
	a = s.Score(r, nil)
	assert.Zero(t, a.SubScores.Gait)
	assert.NotContains(t, a.Factors, "Uneven pressure distribution while resting")
}

func TestScoreClampRecurrence(t *testing.T) {
	s := newDefaultScorer()
	clamped := normalReading()
	clamped.Clamped = models.ClampSpO2

	a := s.Score(clamped, []models.Reading{normalReading(), clamped})
	assert.NotContains(t, a.Factors, factorSensorClamped)

	a = s.Score(clamped, []models.Reading{clamped, normalReading(), clamped})
	assert.Contains(t, a.Factors, factorSensorClamped)
}

func TestLevelBoundaries(t *testing.T) {
	s := newDefaultScorer()
	assert.Equal(t, models.RiskLevelLow, s.Level(0))
	assert.Equal(t, models.RiskLevelLow, s.Level(29))
	assert.Equal(t, models.RiskLevelModerate, s.Level(30))
	assert.Equal(t, models.RiskLevelModerate, s.Level(54))
	assert.Equal(t, models.RiskLevelHigh, s.Level(55))
	assert.Equal(t, models.RiskLevelHigh, s.Level(79))
	assert.Equal(t, models.RiskLevelCritical, s.Level(80))
	assert.Equal(t, models.RiskLevelCritical, s.Level(100))
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Zero(t, CoefficientOfVariation(nil))
	assert.Zero(t, CoefficientOfVariation([]float64{0, 0, 0, 0}))
	assert.Zero(t, CoefficientOfVariation([]float64{5, 5, 5, 5}))
	assert.InDelta(t, 0.866, CoefficientOfVariation([]float64{10, 10, 10, 50}), 1e-3)
}
