package iot

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterStore keeps one token bucket per device. A single store is shared
// by the REST, gRPC and MQTT paths.
type RateLimiterStore struct {
	limiters     map[string]*rate.Limiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

func (s *RateLimiterStore) GetLimiter(deviceID string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[deviceID]
	if !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[deviceID] = limiter
	}
	return limiter
}

// Allow takes one token from the device's bucket.
func (s *RateLimiterStore) Allow(deviceID string) bool {
	return s.GetLimiter(deviceID).Allow()
}

func (s *RateLimiterStore) SetLimiter(deviceID string, deviceRate rate.Limit, deviceBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[deviceID] = rate.NewLimiter(deviceRate, deviceBurst)
}

// ResetLimiter drops a device override; the device is back on the defaults.
func (s *RateLimiterStore) ResetLimiter(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.limiters, deviceID)
}
