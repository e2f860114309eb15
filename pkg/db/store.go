package db

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"liyu1981.xyz/insole-monitor-service/pkg/config"
	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

var ErrNotFound = errors.New("record not found")

func (d *DB) SaveReading(deviceID string, r models.Reading) error {
	record := models.NewReadingRecord(deviceID, r)
	return d.Conn.Create(&record).Error
}

func (d *DB) SaveAssessment(deviceID string, a models.RiskAssessment) error {
	record, err := models.NewAssessmentRecord(deviceID, a)
	if err != nil {
		return err
	}
	return d.Conn.Create(&record).Error
}

// SaveAlert inserts or overwrites the alert row with the same id.
func (d *DB) SaveAlert(deviceID string, a models.Alert) error {
	record := models.NewAlertRecord(deviceID, a)
	return d.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error
}

func (d *DB) DeleteAlert(deviceID, alertID string) error {
	return d.Conn.
		Where("device_id = ? AND id = ?", deviceID, alertID).
		Delete(&models.AlertRecord{}).Error
}

func (d *DB) GetAlerts(deviceID string) ([]models.Alert, error) {
	var records []models.AlertRecord
	err := d.Conn.
		Where("device_id = ?", deviceID).
		Order("created_at asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	alerts := make([]models.Alert, 0, len(records))
	for _, r := range records {
		alerts = append(alerts, r.ToAlert())
	}
	return alerts, nil
}

// SaveSummary upserts on (device_id, date).
func (d *DB) SaveSummary(deviceID string, s models.DailySummary) error {
	record, err := models.NewSummaryRecord(deviceID, s)
	if err != nil {
		return err
	}
	return d.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "date"}},
		UpdateAll: true,
	}).Create(&record).Error
}

// GetSummaries returns persisted summaries with from <= date <= to, oldest
// first. Empty bounds are open.
func (d *DB) GetSummaries(deviceID, from, to string) ([]models.DailySummary, error) {
	q := d.Conn.Where("device_id = ?", deviceID)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}

	var records []models.SummaryRecord
	if err := q.Order("date asc").Find(&records).Error; err != nil {
		return nil, err
	}

	out := make([]models.DailySummary, 0, len(records))
	for _, r := range records {
		s, err := r.ToSummary()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *DB) UpsertDeviceConfig(deviceID string, th config.Thresholds) error {
	data, err := json.Marshal(th)
	if err != nil {
		return err
	}
	record := models.DeviceConfig{DeviceID: deviceID, Thresholds: datatypes.JSON(data)}
	return d.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		UpdateAll: true,
	}).Create(&record).Error
}

func (d *DB) GetDeviceConfig(deviceID string) (config.Thresholds, error) {
	var record models.DeviceConfig
	err := d.Conn.First(&record, "device_id = ?", deviceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return config.Thresholds{}, fmt.Errorf("%w: config for device %s", ErrNotFound, deviceID)
	}
	if err != nil {
		return config.Thresholds{}, err
	}
	return decodeThresholds(record)
}

// ListDeviceConfigs loads every stored override, keyed by device id.
func (d *DB) ListDeviceConfigs() (map[string]config.Thresholds, error) {
	var records []models.DeviceConfig
	if err := d.Conn.Find(&records).Error; err != nil {
		return nil, err
	}
	out := make(map[string]config.Thresholds, len(records))
	for _, r := range records {
		th, err := decodeThresholds(r)
		if err != nil {
			return nil, err
		}
		out[r.DeviceID] = th
	}
	return out, nil
}

func decodeThresholds(record models.DeviceConfig) (config.Thresholds, error) {
	var th config.Thresholds
	if err := json.Unmarshal(record.Thresholds, &th); err != nil {
		return config.Thresholds{}, fmt.Errorf("decode thresholds for device %s: %w", record.DeviceID, err)
	}
	return th, nil
}
