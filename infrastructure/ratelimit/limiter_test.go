package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	// Act
	limiter := New(10, time.Minute)

	// Assert
	assert.NotNil(t, limiter)
	assert.Equal(t, 10, limiter.limit)
	assert.Equal(t, time.Minute, limiter.window)
	assert.NotNil(t, limiter.buckets)
}

func TestLimiter_Allow_UnderLimit(t *testing.T) {
	// Arrange
	limiter := New(3, time.Minute)

	// Act & Assert
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1")) // Fourth request in the window
}

func TestLimiter_Allow_KeysAreIndependent(t *testing.T) {
	// Arrange
	limiter := New(1, time.Minute)

	// Act
	first := limiter.Allow("10.0.0.1")
	second := limiter.Allow("10.0.0.1")
	other := limiter.Allow("10.0.0.2")

	// Assert
	assert.True(t, first)
	assert.False(t, second)
	assert.True(t, other) // A different key has its own window
}

func TestLimiter_Allow_WindowExpiry(t *testing.T) {
	// Arrange
	limiter := New(1, 50*time.Millisecond)

	// Act & Assert
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))

	// Wait for the window to pass
	time.Sleep(60 * time.Millisecond)

	assert.True(t, limiter.Allow("10.0.0.1"))
}

func TestLimiter_Allow_ZeroLimit(t *testing.T) {
	// Arrange
	limiter := New(0, time.Minute)

	// Act & Assert
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
}

func TestLimiter_RetryAfter(t *testing.T) {
	// Arrange
	limiter := New(1, time.Minute)
	limiter.Allow("10.0.0.1")

	// Act
	wait := limiter.RetryAfter("10.0.0.1")

	// Assert
	assert.Greater(t, wait, time.Duration(0))
	assert.LessOrEqual(t, wait, time.Minute)
}

func TestLimiter_RetryAfter_UnknownKey(t *testing.T) {
	// Arrange
	limiter := New(1, time.Minute)

	// Act
	wait := limiter.RetryAfter("10.0.0.1")

	// Assert
	assert.Equal(t, time.Duration(0), wait)
}

func TestLimiter_Prune(t *testing.T) {
	// Arrange
	limiter := New(5, time.Minute)
	limiter.Allow("10.0.0.1")
	limiter.Allow("10.0.0.2")

	// Act - Sweep as if the whole window has passed
	limiter.prune(time.Now().Add(2 * time.Minute))

	// Assert
	limiter.mu.Lock()
	remaining := len(limiter.buckets)
	limiter.mu.Unlock()
	assert.Zero(t, remaining)
}

func TestLimiter_Prune_KeepsLiveWindows(t *testing.T) {
	// Arrange
	limiter := New(5, time.Minute)
	limiter.Allow("10.0.0.1")

	// Act - Sweep before the window expires
	limiter.prune(time.Now())

	// Assert
	limiter.mu.Lock()
	remaining := len(limiter.buckets)
	limiter.mu.Unlock()
	assert.Equal(t, 1, remaining)
}

func TestLimiter_StartStop(t *testing.T) {
	// Arrange
	limiter := New(5, 10*time.Millisecond)

	// Act
	limiter.Start()
	limiter.Stop()

	// Assert - A second Stop must not panic
	assert.NotPanics(t, func() {
		limiter.Stop()
	})
}

func TestLimiter_ConcurrentAllow(t *testing.T) {
	// Arrange
	limiter := New(10, time.Minute)
	var allowed atomic.Int32
	var wg sync.WaitGroup

	// Act - Hammer one key from many goroutines
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("10.0.0.1") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	// Assert - Exactly the configured limit got through
	assert.Equal(t, int32(10), allowed.Load())
}
