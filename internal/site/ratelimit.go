package site

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientTTL is how long an idle client's bucket is kept.
const clientTTL = 10 * time.Minute

type clientEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

// ClientLimiter rate-limits requests per client address. A zero or negative
// rate disables limiting.
type ClientLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientEntry
	lastSweep time.Time
}

// NewClientLimiter allows perMinute requests per client with the given burst.
func NewClientLimiter(perMinute, burst int) *ClientLimiter {
	l := &ClientLimiter{
		burst:   burst,
		now:     time.Now,
		clients: make(map[string]*clientEntry),
	}
	if perMinute > 0 {
		l.limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	if l.burst < 1 {
		l.burst = 1
	}
	return l
}

// Allow reports whether key may make a request now.
func (l *ClientLimiter) Allow(key string) bool {
	if l == nil || l.limit == 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)
	e, ok := l.clients[key]
	if !ok {
		e = &clientEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = e
	}
	e.seen = now
	return e.limiter.AllowN(now, 1)
}

// Len returns the number of tracked clients.
func (l *ClientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *ClientLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < clientTTL {
		return
	}
	l.lastSweep = now
	for key, e := range l.clients {
		if now.Sub(e.seen) > clientTTL {
			delete(l.clients, key)
		}
	}
}

// clientKey is the remote IP of r. RealIP has already replaced RemoteAddr
// when the request came through a proxy.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
