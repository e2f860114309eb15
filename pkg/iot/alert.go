package iot

import (
	"context"

	"go.uber.org/zap"

	"liyu1981.xyz/insole-monitor-service/pkg/alert"
	"liyu1981.xyz/insole-monitor-service/pkg/common"
	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

func (i *IOT) getAlerts(deviceID string, filter alert.Filter) ([]models.Alert, error) {
	s, err := i.lookup(deviceID)
	if err != nil {
		return nil, err
	}
	return s.Alerts(filter), nil
}

func (i *IOT) getUnreadCount(deviceID string) (int, error) {
	s, err := i.lookup(deviceID)
	if err != nil {
		return 0, err
	}
	return s.UnreadCount(), nil
}

func (i *IOT) markRead(deviceID, alertID string) (models.Alert, error) {
	s, err := i.lookup(deviceID)
	if err != nil {
		return models.Alert{}, err
	}

	a, err := s.MarkRead(alertID)
	if err != nil {
		return models.Alert{}, err
	}

	i.persistAlerts(deviceID, []models.Alert{a})
	return a, nil
}

func (i *IOT) markAllRead(deviceID string) (int, error) {
	s, err := i.lookup(deviceID)
	if err != nil {
		return 0, err
	}

	n := s.MarkAllRead()
	if n > 0 {
		i.persistAlerts(deviceID, s.Alerts(alert.Filter{}))
	}
	return n, nil
}

func (i *IOT) remove(deviceID, alertID string) error {
	s, err := i.lookup(deviceID)
	if err != nil {
		return err
	}

	ev, err := s.Remove(alertID)
	if err != nil {
		return err
	}

	i.logDismissed(deviceID, []models.AlertEvent{ev})
	return nil
}

func (i *IOT) clearAll(deviceID string) (int, error) {
	s, err := i.lookup(deviceID)
	if err != nil {
		return 0, err
	}

	changes := s.ClearAll()
	i.logDismissed(deviceID, changes)
	return len(changes), nil
}

func (i *IOT) logDismissed(deviceID string, events []models.AlertEvent) {
	logger := common.GetCategoryLogger(common.LoggerNameIOTCore, common.LoggerCategoryIOTAlert)

	for _, ev := range events {
		i.Metrics.AlertEvent(ev)
		logger.Info("Alert dismissed",
			zap.String("device_id", deviceID),
			zap.String("alert_id", ev.Alert.ID),
		)
	}

	if i.Store == nil || len(events) == 0 {
		return
	}
	store := i.Store
	i.Dispatcher.Submit(jobPersist, func(context.Context) error {
		for _, ev := range events {
			if err := store.DeleteAlert(deviceID, ev.Alert.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (i *IOT) persistAlerts(deviceID string, alerts []models.Alert) {
	if i.Store == nil || len(alerts) == 0 {
		return
	}
	store := i.Store
	i.Dispatcher.Submit(jobPersist, func(context.Context) error {
		for _, a := range alerts {
			if err := store.SaveAlert(deviceID, a); err != nil {
				return err
			}
		}
		return nil
	})
}

type IAlertImpl struct {
	iot *IOT
}

func (ia *IAlertImpl) GetAlerts(deviceID string, filter alert.Filter) ([]models.Alert, error) {
	return ia.iot.getAlerts(deviceID, filter)
}

func (ia *IAlertImpl) GetUnreadCount(deviceID string) (int, error) {
	return ia.iot.getUnreadCount(deviceID)
}

func (ia *IAlertImpl) MarkRead(deviceID, alertID string) (models.Alert, error) {
	return ia.iot.markRead(deviceID, alertID)
}

func (ia *IAlertImpl) MarkAllRead(deviceID string) (int, error) {
	return ia.iot.markAllRead(deviceID)
}

func (ia *IAlertImpl) Remove(deviceID, alertID string) error {
	return ia.iot.remove(deviceID, alertID)
}

func (ia *IAlertImpl) ClearAll(deviceID string) (int, error) {
	return ia.iot.clearAll(deviceID)
}

func (i *IOT) GetIAlert() IAlert {
	return &IAlertImpl{iot: i}
}
