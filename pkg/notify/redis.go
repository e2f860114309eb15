package notify

import (
	"context"

	"github.com/go-redis/redis/v8"

	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

const (
	DefaultStream       = "insole:alerts"
	defaultStreamMaxLen = 10000
)

// RedisStreamNotifier appends one XADD entry per event. The stream is trimmed
// approximately to keep it bounded.
type RedisStreamNotifier struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewRedisStreamNotifier(client *redis.Client, stream string) *RedisStreamNotifier {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisStreamNotifier{client: client, stream: stream, maxLen: defaultStreamMaxLen}
}

func (n *RedisStreamNotifier) Notify(ctx context.Context, deviceID string, ev models.AlertEvent) error {
	data, err := encode(deviceID, ev)
	if err != nil {
		return err
	}

	return n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		MaxLen: n.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"device_id": deviceID,
			"event":     string(ev.Kind),
			"alert_id":  ev.Alert.ID,
			"severity":  string(ev.Alert.Severity),
			"data":      string(data),
		},
	}).Err()
}

func (n *RedisStreamNotifier) Close() error {
	return n.client.Close()
}
