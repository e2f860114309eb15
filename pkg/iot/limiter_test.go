package iot

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimiterStoreDefaults(t *testing.T) {
	store := NewRateLimiterStore(1, 2)

	limiter := store.GetLimiter("insole-1")
	require.NotNil(t, limiter)
	assert.Equal(t, rate.Limit(1), limiter.Limit())
	assert.Equal(t, 2, limiter.Burst())
	assert.Same(t, limiter, store.GetLimiter("insole-1"))
}

func TestRateLimiterStoreOverrideAndReset(t *testing.T) {
	store := NewRateLimiterStore(1, 2)

	store.SetLimiter("insole-2", 5, 10)
	limiter := store.GetLimiter("insole-2")
	assert.Equal(t, rate.Limit(5), limiter.Limit())
	assert.Equal(t, 10, limiter.Burst())

	store.ResetLimiter("insole-2")
	assert.Equal(t, rate.Limit(1), store.GetLimiter("insole-2").Limit())
}

func TestRateLimiterStoreConcurrency(t *testing.T) {
	store := NewRateLimiterStore(10, 5)
	deviceID := uuid.NewString()

	var wg sync.WaitGroup
	limiters := make(chan *rate.Limiter, 100)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiters <- store.GetLimiter(deviceID)
		}()
	}
	wg.Wait()
	close(limiters)

	first := store.GetLimiter(deviceID)
	for l := range limiters {
		assert.Same(t, first, l)
	}
}

func TestRateLimiterEnforcement(t *testing.T) {
	store := NewRateLimiterStore(2, 2) // 2 packets/sec
	deviceID := uuid.NewString()

	assert.True(t, store.Allow(deviceID))
	assert.True(t, store.Allow(deviceID))
	assert.False(t, store.Allow(deviceID), "third packet in the burst should be limited")

	time.Sleep(600 * time.Millisecond)
	assert.True(t, store.Allow(deviceID), "one token should refill")
}
