// Package codec converts between the insole's fixed 16-byte telemetry packet and
// models.Reading.
//
// Packet layout, multi-byte integers big-endian:
//
//	0-3   temperature per zone   25.0 + (b-128)/2 °C
//	4-7   pressure per zone      b * 0.3 kPa
//	8-9   spO2                   u16 / 100 %
//	10-11 heart rate             u16 bpm
//	12-13 step count             u16
//	14    activity               0 resting .. 4 running, otherwise unknown
//	15    battery                0-100 %, larger values clamp to 100
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

const PacketSize = 16

const (
	offsetTemperature = 0
	offsetPressure    = 4
	offsetSpO2        = 8
	offsetHeartRate   = 10
	offsetStepCount   = 12
	offsetActivity    = 14
	offsetBattery     = 15

	temperatureBase  = 25.0
	temperatureScale = 2.0
	pressureScale    = 0.3
	spO2Scale        = 100.0

	activityUnknownCode = 0xFF
)

var ErrMalformedPacket = errors.New("malformed packet")

var activityCodes = []models.Activity{
	models.ActivityResting,
	models.ActivitySitting,
	models.ActivityStanding,
	models.ActivityWalking,
	models.ActivityRunning,
}

// Decode never fails on field values; only a buffer of the wrong length is rejected.
// The returned Reading carries a zero timestamp, use DecodeAt to stamp arrival time.
func Decode(buf []byte) (models.Reading, error) {
	return DecodeAt(buf, time.Time{})
}

func DecodeAt(buf []byte, at time.Time) (models.Reading, error) {
	if len(buf) != PacketSize {
		return models.Reading{}, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedPacket, len(buf), PacketSize)
	}

	r := models.Reading{Timestamp: at}

	for i := range models.ZoneCount {
		r.Temperatures[i] = temperatureBase + (float64(buf[offsetTemperature+i])-128)/temperatureScale
		r.Pressures[i] = float64(buf[offsetPressure+i]) * pressureScale
	}

	r.SpO2 = float64(binary.BigEndian.Uint16(buf[offsetSpO2:])) / spO2Scale
	if r.SpO2 > 100 {
		r.SpO2 = 100
		r.Clamped |= models.ClampSpO2
	}

	r.HeartRate = int(binary.BigEndian.Uint16(buf[offsetHeartRate:]))
	r.StepCount = int(binary.BigEndian.Uint16(buf[offsetStepCount:]))
	r.Activity = ActivityFromCode(buf[offsetActivity])

	r.BatteryLevel = int(buf[offsetBattery])
	if r.BatteryLevel > 100 {
		r.BatteryLevel = 100
		r.Clamped |= models.ClampBattery
	}

	return r, nil
}

// Encode is the inverse of Decode for values on the quantization grid; anything
// else is rounded to the nearest step and clamped into the field's byte range.
func Encode(r models.Reading) [PacketSize]byte {
	var buf [PacketSize]byte

	for i := range models.ZoneCount {
		buf[offsetTemperature+i] = clampByte(math.Round((r.Temperatures[i]-temperatureBase)*temperatureScale) + 128)
		buf[offsetPressure+i] = clampByte(math.Round(r.Pressures[i] / pressureScale))
	}

	binary.BigEndian.PutUint16(buf[offsetSpO2:], clampUint16(math.Round(r.SpO2*spO2Scale)))
	binary.BigEndian.PutUint16(buf[offsetHeartRate:], clampUint16(float64(r.HeartRate)))
	binary.BigEndian.PutUint16(buf[offsetStepCount:], clampUint16(float64(r.StepCount)))
	buf[offsetActivity] = ActivityCode(r.Activity)
	buf[offsetBattery] = byte(min(max(r.BatteryLevel, 0), 100))

	return buf
}

func ActivityFromCode(code byte) models.Activity {
	if int(code) < len(activityCodes) {
		return activityCodes[code]
	}
	return models.ActivityUnknown
}

func ActivityCode(a models.Activity) byte {
	for i, known := range activityCodes {
		if known == a {
			return byte(i)
		}
	}
	return activityUnknownCode
}

func clampByte(v float64) byte {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > math.MaxUint8 {
		return math.MaxUint8
	}
	return byte(v)
}

func clampUint16(v float64) uint16 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}
