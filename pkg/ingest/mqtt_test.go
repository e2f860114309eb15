package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"liyu1981.xyz/insole-monitor-service/pkg/codec"
	"liyu1981.xyz/insole-monitor-service/pkg/common"
	"liyu1981.xyz/insole-monitor-service/pkg/iot"
	"liyu1981.xyz/insole-monitor-service/pkg/iot/mocks"
	"liyu1981.xyz/insole-monitor-service/pkg/metrics"
	"liyu1981.xyz/insole-monitor-service/pkg/models"
	"liyu1981.xyz/insole-monitor-service/pkg/monitor"
)

var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func newTestSubscriber(t *testing.T, limiter *iot.RateLimiterStore) (*gomock.Controller, *Subscriber, *mocks.MockITelemetry) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	telemetry := mocks.NewMockITelemetry(ctrl)
	s := NewSubscriber(telemetry, limiter, metrics.New(), Options{Broker: "tcp://localhost:1883"})
	s.now = func() time.Time { return testNow }
	return ctrl, s, telemetry
}

func encoded(battery int) []byte {
	p := codec.Encode(models.Reading{BatteryLevel: battery, SpO2: 98})
	return p[:]
}

func TestDeviceIDFromTopic(t *testing.T) {
	id, err := DeviceIDFromTopic("insole/left-42/telemetry")
	require.NoError(t, err)
	assert.Equal(t, "left-42", id)

	for _, topic := range []string{
		"insole//telemetry",
		"insole/a/b/telemetry",
		"other/a/telemetry",
		"insole/a/status",
		"",
	} {
		_, err := DeviceIDFromTopic(topic)
		assert.ErrorIs(t, err, ErrBadTopic, topic)
	}
}

func TestHandleSplitsAndReassemblesPackets(t *testing.T) {
	ctrl, s, telemetry := newTestSubscriber(t, nil)
	defer ctrl.Finish()

	first, second := encoded(50), encoded(60)
	stream := append(append([]byte{}, first...), second...)

	gomock.InOrder(
		telemetry.EXPECT().IngestPacket(gomock.Eq("dev-1"), gomock.Eq(first), gomock.Eq(testNow)).
			Return(&monitor.Outcome{}, nil),
		telemetry.EXPECT().IngestPacket(gomock.Eq("dev-1"), gomock.Eq(second), gomock.Eq(testNow)).
			Return(&monitor.Outcome{}, nil),
	)

	n, err := s.Handle("insole/dev-1/telemetry", stream[:10])
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 10, s.Pending("dev-1"))

	n, err = s.Handle("insole/dev-1/telemetry", stream[10:])
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, s.Pending("dev-1"))
}

func TestHandleKeepsDeviceStreamsApart(t *testing.T) {
	ctrl, s, telemetry := newTestSubscriber(t, nil)
	defer ctrl.Finish()

	p := encoded(70)
	telemetry.EXPECT().IngestPacket(gomock.Eq("b"), gomock.Eq(p), gomock.Any()).Return(&monitor.Outcome{}, nil).Times(1)

	_, err := s.Handle("insole/a/telemetry", p[:8])
	require.NoError(t, err)
	n, err := s.Handle("insole/b/telemetry", p)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 8, s.Pending("a"))
}

func TestHandleContinuesAfterIngestError(t *testing.T) {
	ctrl, s, telemetry := newTestSubscriber(t, nil)
	defer ctrl.Finish()

	stream := append(encoded(10), encoded(20)...)
	gomock.InOrder(
		telemetry.EXPECT().IngestPacket(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("boom")),
		telemetry.EXPECT().IngestPacket(gomock.Any(), gomock.Any(), gomock.Any()).Return(&monitor.Outcome{}, nil),
	)

	n, err := s.Handle("insole/dev/telemetry", stream)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestHandleRateLimited(t *testing.T) {
	ctrl, s, telemetry := newTestSubscriber(t, iot.NewRateLimiterStore(0, 1))
	defer ctrl.Finish()

	telemetry.EXPECT().IngestPacket(gomock.Any(), gomock.Any(), gomock.Any()).Return(&monitor.Outcome{}, nil).Times(1)

	stream := append(append(encoded(10), encoded(20)...), encoded(30)...)
	n, err := s.Handle("insole/dev/telemetry", stream)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestHandleRejects(t *testing.T) {
	ctrl, s, _ := newTestSubscriber(t, nil)
	defer ctrl.Finish()

	_, err := s.Handle("insole/dev/status", encoded(10))
	assert.ErrorIs(t, err, ErrBadTopic)

	_, err = s.Handle("insole/dev/telemetry", make([]byte, codec.PacketSize*64+1))
	assert.ErrorIs(t, err, codec.ErrMalformedPacket)
	assert.Equal(t, 0, s.Pending("dev"))
}

func TestOnMessage(t *testing.T) {
	ctrl, s, telemetry := newTestSubscriber(t, nil)
	defer ctrl.Finish()

	telemetry.EXPECT().IngestPacket(gomock.Eq("dev-9"), gomock.Any(), gomock.Any()).Return(&monitor.Outcome{}, nil).Times(1)

	s.onMessage(nil, fakeMessage{topic: "insole/dev-9/telemetry", payload: encoded(40)})
	// a bad topic is only logged
	s.onMessage(nil, fakeMessage{topic: "nope", payload: encoded(40)})
}

func TestCloseWithoutConnect(t *testing.T) {
	ctrl, s, _ := newTestSubscriber(t, nil)
	defer ctrl.Finish()

	assert.NotPanics(t, s.Close)
	assert.NotNil(t, s.clientOptions())
}
