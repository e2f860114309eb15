package iot

import (
	"fmt"
	"slices"

	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

// getSummary serves from memory first and falls back to the store for days
// that were evicted or belong to an earlier run.
func (i *IOT) getSummary(deviceID, date string) (models.DailySummary, error) {
	if s, ok := i.Registry.Lookup(deviceID); ok {
		if summary, ok := s.SummaryFor(date); ok {
			return summary, nil
		}
	}

	if i.Store != nil {
		stored, err := i.Store.GetSummaries(deviceID, date, date)
		if err != nil {
			return models.DailySummary{}, err
		}
		if len(stored) > 0 {
			return stored[0], nil
		}
	}

	return models.DailySummary{}, fmt.Errorf("%w: %s %s", ErrSummaryNotFound, deviceID, date)
}

// getSummaries merges stored and in-memory summaries; memory wins for a date
// present in both. Result is ordered by date.
func (i *IOT) getSummaries(deviceID, from, to string) ([]models.DailySummary, error) {
	byDate := map[string]models.DailySummary{}
	var dates []string

	if i.Store != nil {
		stored, err := i.Store.GetSummaries(deviceID, from, to)
		if err != nil {
			return nil, err
		}
		for _, s := range stored {
			byDate[s.Date] = s
			dates = append(dates, s.Date)
		}
	}

	if s, ok := i.Registry.Lookup(deviceID); ok {
		for _, summary := range s.SummariesInRange(from, to) {
			if _, seen := byDate[summary.Date]; !seen {
				dates = append(dates, summary.Date)
			}
			byDate[summary.Date] = summary
		}
	}

	slices.Sort(dates)
	out := make([]models.DailySummary, 0, len(dates))
	for _, d := range dates {
		out = append(out, byDate[d])
	}
	return out, nil
}

type ISummaryImpl struct {
	iot *IOT
}

func (is *ISummaryImpl) GetSummary(deviceID, date string) (models.DailySummary, error) {
	return is.iot.getSummary(deviceID, date)
}

func (is *ISummaryImpl) GetSummaries(deviceID, from, to string) ([]models.DailySummary, error) {
	return is.iot.getSummaries(deviceID, from, to)
}

func (i *IOT) GetISummary() ISummary {
	return &ISummaryImpl{iot: i}
}
