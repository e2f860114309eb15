package iot

import (
	"go.uber.org/zap"

	"liyu1981.xyz/insole-monitor-service/pkg/common"
	"liyu1981.xyz/insole-monitor-service/pkg/config"
)

// upsertConfig validates, persists and then applies per-device thresholds. An
// invalid set is rejected before anything changes.
func (i *IOT) upsertConfig(deviceID string, th config.Thresholds) error {
	logger := common.GetCategoryLogger(common.LoggerNameIOTCore, common.LoggerCategoryIOTConfig)

	logger.Info("Received config for device", zap.String("device_id", deviceID), zap.Reflect("config", th))

	if err := th.Validate(); err != nil {
		logger.Warn("Rejected config for device", zap.String("device_id", deviceID), zap.Error(err))
		return err
	}

	if i.Store != nil {
		if err := i.Store.UpsertDeviceConfig(deviceID, th); err != nil {
			return err
		}
	}

	i.session(deviceID).Reconfigure(th)

	logger.Info("Upserted config for device", zap.String("device_id", deviceID), zap.Reflect("config", th))
	return nil
}

// getDeviceConfig returns the thresholds in effect for the device: its live
// session's, then a stored override, then the deployment defaults.
func (i *IOT) getDeviceConfig(deviceID string) (config.Thresholds, error) {
	if s, ok := i.Registry.Lookup(deviceID); ok {
		return s.Thresholds(), nil
	}
	if i.Store != nil {
		if th, err := i.Store.GetDeviceConfig(deviceID); err == nil {
			return th, nil
		}
	}
	return i.Registry.Defaults(), nil
}

// LoadDeviceConfigs applies every stored override, creating those sessions up front.
func (i *IOT) LoadDeviceConfigs() (int, error) {
	if i.Store == nil {
		return 0, nil
	}

	configs, err := i.Store.ListDeviceConfigs()
	if err != nil {
		return 0, err
	}

	logger := common.GetCategoryLogger(common.LoggerNameIOTCore, common.LoggerCategoryIOTConfig)
	applied := 0
	for deviceID, th := range configs {
		if err := th.Validate(); err != nil {
			logger.Warn("Skipping invalid stored config", zap.String("device_id", deviceID), zap.Error(err))
			continue
		}
		i.Registry.Get(deviceID).Reconfigure(th)
		applied++
	}
	i.Metrics.SetDevices(len(i.Registry.Devices()))
	return applied, nil
}

type IConfigImpl struct {
	iot *IOT
}

func (ic *IConfigImpl) UpsertConfig(deviceID string, th config.Thresholds) error {
	return ic.iot.upsertConfig(deviceID, th)
}

func (ic *IConfigImpl) GetDeviceConfig(deviceID string) (config.Thresholds, error) {
	return ic.iot.getDeviceConfig(deviceID)
}

func (i *IOT) GetIConfig() IConfig {
	return &IConfigImpl{iot: i}
}
