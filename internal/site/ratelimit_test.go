package site

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientLimiterPerClient(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewClientLimiter(2, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "other clients have their own bucket")

	now = now.Add(30 * time.Second)
	assert.True(t, l.Allow("a"), "one token refills every 30s at 2/min")
	assert.False(t, l.Allow("a"))
}

func TestClientLimiterSweepsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewClientLimiter(5, 1)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	assert.Equal(t, 2, l.Len())

	now = now.Add(clientTTL + time.Minute)
	l.Allow("c")
	assert.Equal(t, 1, l.Len())
}

func TestClientLimiterDisabled(t *testing.T) {
	l := NewClientLimiter(0, 0)
	for range 100 {
		assert.True(t, l.Allow("a"))
	}
	var nilLimiter *ClientLimiter
	assert.True(t, nilLimiter.Allow("a"))
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.7:52100"
	assert.Equal(t, "203.0.113.7", clientKey(r))

	r.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", clientKey(r))
}
