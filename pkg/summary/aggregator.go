// Package summary folds assessments into one DailySummary per calendar day.
//
// Summaries are updated incrementally with O(1) state each; readings are never
// retained. The open summary is the one for the latest date seen; when a reading
// for a later date arrives the open summary is sealed and handed back for
// persistence. Readings dated before the open summary are never dropped: they
// land in the summary for their own date, which is re-opened or created, and
// the fold is flagged as a clock anomaly. A backdated day older than the
// retention window is kept in memory until the next fold, then evicted.
package summary

import (
	"maps"
	"slices"
	"time"

	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

type FoldResult struct {
	// Summary is the state of the day the reading was folded into.
	Summary models.DailySummary
	// Sealed holds summaries that were closed (or touched again after closing)
	// by this fold and should be persisted.
	Sealed  []models.DailySummary
	Anomaly bool
}

// Aggregator is not safe for concurrent use.
type Aggregator struct {
	loc     *time.Location
	maxDays int

	days  map[string]*models.DailySummary
	dates []string
	open  string
}

func NewAggregator(loc *time.Location, maxDays int) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{
		loc:     loc,
		maxDays: maxDays,
		days:    map[string]*models.DailySummary{},
	}
}

func (a *Aggregator) SetMaxDays(n int) {
	a.maxDays = n
	a.trim("")
}

func (a *Aggregator) DateOf(ts time.Time) string {
	return ts.In(a.loc).Format(models.DateLayout)
}

func (a *Aggregator) Fold(r models.Reading, assessment models.RiskAssessment) FoldResult {
	date := a.DateOf(r.Timestamp)
	var res FoldResult

	switch {
	case a.open == "" || date == a.open:
		a.open = date
	case date > a.open:
		if s, ok := a.days[a.open]; ok {
			s.Sealed = true
			res.Sealed = append(res.Sealed, clone(s))
		}
		a.open = date
	default:
		res.Anomaly = true
	}

	s, existed := a.days[date]
	if !existed {
		s = a.create(date)
	}
	if res.Anomaly {
		if existed {
			s.Reopened++
		}
		s.Sealed = true
	}

	fold(s, r, assessment)
	res.Summary = clone(s)
	if res.Anomaly {
		res.Sealed = append(res.Sealed, res.Summary)
	}

	a.trim(date)
	return res
}

// RecordAlerts adds n newly created alerts to the day of ts.
func (a *Aggregator) RecordAlerts(ts time.Time, n int) {
	if n <= 0 {
		return
	}
	date := a.DateOf(ts)
	s, ok := a.days[date]
	if !ok {
		s = a.create(date)
		a.trim(date)
	}
	s.AlertCount += n
}

func (a *Aggregator) SummaryFor(date string) (models.DailySummary, bool) {
	s, ok := a.days[date]
	if !ok {
		return models.DailySummary{}, false
	}
	return clone(s), true
}

// SummariesInRange returns summaries with start <= date <= end, oldest first.
// An empty bound is open.
func (a *Aggregator) SummariesInRange(start, end string) []models.DailySummary {
	out := []models.DailySummary{}
	for _, d := range a.dates {
		if start != "" && d < start {
			continue
		}
		if end != "" && d > end {
			break
		}
		out = append(out, clone(a.days[d]))
	}
	return out
}

func (a *Aggregator) Current() (models.DailySummary, bool) {
	if a.open == "" {
		return models.DailySummary{}, false
	}
	return a.SummaryFor(a.open)
}

func (a *Aggregator) create(date string) *models.DailySummary {
	s := &models.DailySummary{
		Date:        date,
		KeyFactors:  []string{},
		LevelCounts: map[models.RiskLevel]int{},
	}
	a.days[date] = s
	idx, _ := slices.BinarySearch(a.dates, date)
	a.dates = slices.Insert(a.dates, idx, date)
	return s
}

// trim evicts the oldest days beyond maxDays. It stops at keep or the open
// day, so a day older than the window stays readable until the next fold.
func (a *Aggregator) trim(keep string) {
	if a.maxDays <= 0 {
		return
	}
	for len(a.dates) > a.maxDays {
		oldest := a.dates[0]
		if oldest == keep || oldest == a.open {
			return
		}
		delete(a.days, oldest)
		a.dates = a.dates[1:]
	}
}

func fold(s *models.DailySummary, r models.Reading, assessment models.RiskAssessment) {
	score := assessment.OverallScore

	if s.ReadingCount == 0 {
		s.AverageScore = float64(score)
		s.HighestScore = score
		s.LowestScore = score
		s.FirstReadingAt = r.Timestamp
		s.LastReadingAt = r.Timestamp
	} else {
		n := float64(s.ReadingCount)
		s.AverageScore = (s.AverageScore*n + float64(score)) / (n + 1)
		s.HighestScore = max(s.HighestScore, score)
		s.LowestScore = min(s.LowestScore, score)
		// float drift must not leave the average outside its bounds
		s.AverageScore = min(max(s.AverageScore, float64(s.LowestScore)), float64(s.HighestScore))
		if r.Timestamp.Before(s.FirstReadingAt) {
			s.FirstReadingAt = r.Timestamp
		}
		if r.Timestamp.After(s.LastReadingAt) {
			s.LastReadingAt = r.Timestamp
		}
	}
	s.ReadingCount++

	s.LevelCounts[assessment.Level]++
	s.DominantRiskLevel = dominant(s.LevelCounts)

	if len(s.KeyFactors) == 0 && len(assessment.Factors) > 0 {
		s.KeyFactors = slices.Clone(assessment.Factors)
	}
}

// dominant picks the most frequent level; ties go to the more severe one.
func dominant(counts map[models.RiskLevel]int) models.RiskLevel {
	var best models.RiskLevel
	bestCount := 0
	for _, l := range models.RiskLevels {
		if c := counts[l]; c > 0 && c >= bestCount {
			best, bestCount = l, c
		}
	}
	return best
}

func clone(s *models.DailySummary) models.DailySummary {
	out := *s
	out.KeyFactors = slices.Clone(s.KeyFactors)
	out.LevelCounts = maps.Clone(s.LevelCounts)
	return out
}
