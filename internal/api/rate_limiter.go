package api

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const clientLimiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientRateLimiter hands out one token bucket per client key. A perMinute of
// zero or less disables limiting.
type clientRateLimiter struct {
	mu        sync.Mutex
	perMinute int
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

func newClientRateLimiter(perMinute int) *clientRateLimiter {
	return &clientRateLimiter{perMinute: perMinute, clients: make(map[string]*clientLimiter)}
}

func (limiter *clientRateLimiter) allow(key string, now time.Time) bool {
	if limiter == nil || limiter.perMinute <= 0 {
		return true
	}

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	if now.Sub(limiter.lastSweep) > clientLimiterIdleTTL {
		for clientKey, client := range limiter.clients {
			if now.Sub(client.lastSeen) > clientLimiterIdleTTL {
				delete(limiter.clients, clientKey)
			}
		}
		limiter.lastSweep = now
	}

	client, ok := limiter.clients[key]
	if !ok {
		client = &clientLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(limiter.perMinute)), limiter.perMinute),
		}
		limiter.clients[key] = client
	}
	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

func (handler *Handler) AIRateLimited(c *fiber.Ctx) error {
	if !handler.aiLimiter.allow(requestLimiterKey(c), time.Now()) {
		return apiError(c, fiber.StatusTooManyRequests, "Too many AI requests. Please slow down.")
	}
	return c.Next()
}
