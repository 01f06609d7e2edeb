package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map; when exceeded, idle entries
// are evicted before new ones are added.
const maxTrackedClients = 4096

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter tracks one token bucket per client address.
type ipLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rate    rate.Limit
	burst   int
}

func newIPLimiter(perSecond float64, burst int) *ipLimiter {
	if perSecond <= 0 {
		perSecond = 25
	}
	if burst <= 0 {
		burst = 50
	}
	return &ipLimiter{
		clients: make(map[string]*clientLimiter),
		rate:    rate.Limit(perSecond),
		burst:   burst,
	}
}

// allow reports whether a request from addr may proceed.
func (l *ipLimiter) allow(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[host]
	if !ok {
		if len(l.clients) >= maxTrackedClients {
			l.evictIdle()
		}
		cl = &clientLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[host] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter.Allow()
}

// evictIdle drops clients not seen for ten minutes. Called with the
// lock held.
func (l *ipLimiter) evictIdle() {
	cutoff := time.Now().Add(-10 * time.Minute)
	for host, cl := range l.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(l.clients, host)
		}
	}
}

// rateLimit is the middleware applied to ingest endpoints.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(r.RemoteAddr) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
