package notify

import (
	"context"

	"github.com/segmentio/kafka-go"

	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

const DefaultTopic = "insole.alerts"

// KafkaWriter is the part of *kafka.Writer the notifier uses.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter keys messages by device id so each device's events stay ordered
// within one partition.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
}

type KafkaNotifier struct {
	writer KafkaWriter
}

func NewKafkaNotifier(w KafkaWriter) *KafkaNotifier {
	return &KafkaNotifier{writer: w}
}

func (n *KafkaNotifier) Notify(ctx context.Context, deviceID string, ev models.AlertEvent) error {
	data, err := encode(deviceID, ev)
	if err != nil {
		return err
	}

	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(deviceID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(ev.Kind)},
			{Key: "severity", Value: []byte(ev.Alert.Severity)},
		},
	})
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
