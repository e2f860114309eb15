// Package notify forwards alert events to downstream consumers.
//
// Notifiers are called from the dispatch goroutine only, never from the reading
// path, so a slow or unreachable broker cannot hold up scoring.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

const (
	KindNone  = "none"
	KindRedis = "redis"
	KindKafka = "kafka"
)

type Notifier interface {
	Notify(ctx context.Context, deviceID string, ev models.AlertEvent) error
	Close() error
}

// Message is the JSON body every notifier publishes.
type Message struct {
	DeviceID string                `json:"device_id"`
	Event    models.AlertEventKind `json:"event"`
	Alert    models.Alert          `json:"alert"`
	SentAt   time.Time             `json:"sent_at"`
}

func NewMessage(deviceID string, ev models.AlertEvent, now time.Time) Message {
	return Message{DeviceID: deviceID, Event: ev.Kind, Alert: ev.Alert, SentAt: now.UTC()}
}

type Options struct {
	RedisAddr    string
	RedisStream  string
	KafkaBrokers string
	KafkaTopic   string
}

// Open builds the notifier named by kind. An empty kind means none.
func Open(kind string, opts Options) (Notifier, error) {
	switch strings.ToLower(kind) {
	case "", KindNone:
		return Nop{}, nil
	case KindRedis:
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("redis notifier: address is required")
		}
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		return NewRedisStreamNotifier(client, opts.RedisStream), nil
	case KindKafka:
		brokers := splitList(opts.KafkaBrokers)
		if len(brokers) == 0 {
			return nil, fmt.Errorf("kafka notifier: at least one broker is required")
		}
		return NewKafkaNotifier(NewKafkaWriter(brokers, opts.KafkaTopic)), nil
	default:
		return nil, fmt.Errorf("unknown notifier %q", kind)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type Nop struct{}

func (Nop) Notify(context.Context, string, models.AlertEvent) error { return nil }

func (Nop) Close() error { return nil }

func encode(deviceID string, ev models.AlertEvent) ([]byte, error) {
	data, err := json.Marshal(NewMessage(deviceID, ev, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("encode alert event: %w", err)
	}
	return data, nil
}
