// Package ingest feeds telemetry published over MQTT into the monitoring
// service. Devices publish raw packet bytes to insole/<device id>/telemetry; a
// message may carry any number of packets, split anywhere.
package ingest

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"liyu1981.xyz/insole-monitor-service/pkg/codec"
	"liyu1981.xyz/insole-monitor-service/pkg/common"
	"liyu1981.xyz/insole-monitor-service/pkg/iot"
	"liyu1981.xyz/insole-monitor-service/pkg/metrics"
)

const (
	DefaultTopic    = "insole/+/telemetry"
	DefaultClientID = "insole-monitor"

	topicPrefix = "insole/"
	topicSuffix = "/telemetry"

	disconnectQuiesceMs = 250
)

var ErrBadTopic = errors.New("unexpected telemetry topic")

type Options struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
	Username string
	Password string
}

type Subscriber struct {
	telemetry iot.ITelemetry
	limiter   *iot.RateLimiterStore
	metrics   *metrics.Metrics
	opts      Options

	client mqtt.Client

	mu      sync.Mutex
	framers map[string]*codec.Framer

	now func() time.Time
}

// NewSubscriber does not connect; call Connect. limiter and m may be nil.
func NewSubscriber(telemetry iot.ITelemetry, limiter *iot.RateLimiterStore, m *metrics.Metrics, opts Options) *Subscriber {
	if opts.Topic == "" {
		opts.Topic = DefaultTopic
	}
	if opts.ClientID == "" {
		opts.ClientID = DefaultClientID
	}
	return &Subscriber{
		telemetry: telemetry,
		limiter:   limiter,
		metrics:   m,
		opts:      opts,
		framers:   map[string]*codec.Framer{},
		now:       time.Now,
	}
}

// DeviceIDFromTopic extracts <id> from insole/<id>/telemetry.
func DeviceIDFromTopic(topic string) (string, error) {
	if !strings.HasPrefix(topic, topicPrefix) || !strings.HasSuffix(topic, topicSuffix) {
		return "", fmt.Errorf("%w: %s", ErrBadTopic, topic)
	}
	id := strings.TrimSuffix(strings.TrimPrefix(topic, topicPrefix), topicSuffix)
	if id == "" || strings.Contains(id, "/") {
		return "", fmt.Errorf("%w: %s", ErrBadTopic, topic)
	}
	return id, nil
}

func (s *Subscriber) clientOptions() *mqtt.ClientOptions {
	logger := common.GetLoggerWith(common.LoggerNameIngest)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.opts.Broker)
	opts.SetClientID(s.opts.ClientID)
	if s.opts.Username != "" {
		opts.SetUsername(s.opts.Username)
	}
	if s.opts.Password != "" {
		opts.SetPassword(s.opts.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetOrderMatters(true)

	// subscriptions do not survive a clean-session reconnect
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		token := c.Subscribe(s.opts.Topic, s.opts.QoS, s.onMessage)
		if token.Wait() && token.Error() != nil {
			logger.Error("Failed to subscribe", zap.String("topic", s.opts.Topic), zap.Error(token.Error()))
			return
		}
		logger.Info("Subscribed", zap.String("topic", s.opts.Topic))
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("Connection lost", zap.Error(err))
	})
	return opts
}

func (s *Subscriber) Connect() error {
	s.client = mqtt.NewClient(s.clientOptions())
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker %s: %w", s.opts.Broker, token.Error())
	}
	return nil
}

func (s *Subscriber) Close() {
	if s.client == nil {
		return
	}
	s.client.Unsubscribe(s.opts.Topic).Wait()
	s.client.Disconnect(disconnectQuiesceMs)
}

func (s *Subscriber) onMessage(_ mqtt.Client, msg mqtt.Message) {
	if _, err := s.Handle(msg.Topic(), msg.Payload()); err != nil {
		common.GetLoggerWith(common.LoggerNameIngest).
			Warn("Error handling MQTT message", zap.String("topic", msg.Topic()), zap.Error(err))
	}
}

// Handle frames the payload and ingests every whole packet, all stamped with
// the same arrival time. It returns the number of packets ingested. Per-packet
// failures are logged and do not stop the remaining packets.
func (s *Subscriber) Handle(topic string, payload []byte) (int, error) {
	logger := common.GetLoggerWith(common.LoggerNameIngest)

	deviceID, err := DeviceIDFromTopic(topic)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	framer, ok := s.framers[deviceID]
	if !ok {
		framer = codec.NewFramer()
		s.framers[deviceID] = framer
	}

	packets, err := framer.Write(payload)
	if err != nil {
		s.metrics.Packet(metrics.PacketResultMalformed)
		return 0, fmt.Errorf("device %s: %w", deviceID, err)
	}

	at := s.now()
	ingested := 0
	for _, packet := range packets {
		if s.limiter != nil && !s.limiter.Allow(deviceID) {
			s.metrics.Packet(metrics.PacketResultRateLimited)
			logger.Debug("Rate limit exceeded", zap.String("device_id", deviceID))
			continue
		}
		if _, err := s.telemetry.IngestPacket(deviceID, packet, at); err != nil {
			logger.Warn("Failed to ingest packet", zap.String("device_id", deviceID), zap.Error(err))
			continue
		}
		ingested++
	}
	return ingested, nil
}

// Pending reports buffered bytes of an incomplete packet for the device.
func (s *Subscriber) Pending(deviceID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.framers[deviceID]; ok {
		return f.Pending()
	}
	return 0
}
