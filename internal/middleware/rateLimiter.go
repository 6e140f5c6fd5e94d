package middleware

import (
	"sync"
	"time"

	"github.com/akolanti/DocChat/internal/config"
	"golang.org/x/time/rate"
)

// limitScope groups routes that share a budget per client IP.
type limitScope string

const (
	scopeAPI limitScope = "api"
	scopeMCP limitScope = "mcp"
)

type scopeLimit struct {
	rate  rate.Limit
	burst int
}

var limiterInstance = newIPRateLimiter(map[limitScope]scopeLimit{
	scopeAPI: {rate: rate.Limit(config.RATE_LIMIT_PER_SECOND), burst: config.BURST_RATE_LIMIT_PER_SECOND},
	scopeMCP: {rate: rate.Limit(config.MCP_RATE_LIMIT_PER_SECOND), burst: config.MCP_BURST_RATE_LIMIT_PER_SECOND},
}, config.RateLimiterIdleTTL)

type clientKey struct {
	scope limitScope
	ip    string
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per (scope, IP) and forgets clients idle for idleTTL.
type IPRateLimiter struct {
	mu        sync.Mutex
	clients   map[clientKey]*clientLimiter
	limits    map[limitScope]scopeLimit
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newIPRateLimiter(limits map[limitScope]scopeLimit, idleTTL time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		clients:   make(map[clientKey]*clientLimiter),
		limits:    limits,
		idleTTL:   idleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow spends one token from the client's bucket in scope. Unknown scopes use the api budget.
func (i *IPRateLimiter) Allow(scope limitScope, ip string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	i.sweep(now)

	key := clientKey{scope: scope, ip: ip}
	client, exists := i.clients[key]
	if !exists {
		limit, ok := i.limits[scope]
		if !ok {
			limit = i.limits[scopeAPI]
		}
		client = &clientLimiter{limiter: rate.NewLimiter(limit.rate, limit.burst)}
		i.clients[key] = client
	}
	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

// sweep runs at most once per idleTTL; callers hold mu.
func (i *IPRateLimiter) sweep(now time.Time) {
	if now.Sub(i.lastSweep) < i.idleTTL {
		return
	}
	for key, client := range i.clients {
		if now.Sub(client.lastSeen) >= i.idleTTL {
			delete(i.clients, key)
		}
	}
	i.lastSweep = now
}

func (i *IPRateLimiter) size() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.clients)
}
