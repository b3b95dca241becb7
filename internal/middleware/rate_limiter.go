package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// idleTTL is how long a client's bucket is kept without attempts. A bucket idle for a
// minute is already full again, so dropping it later changes nothing.
const idleTTL = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter throttles login attempts per client IP with a token bucket: a burst
// of attempts, refilled evenly over a minute.
type LoginLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewLoginLimiter allows attempts logins per minute per IP.
func NewLoginLimiter(attempts int) *LoginLimiter {
	if attempts < 1 {
		attempts = 1
	}
	return &LoginLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(attempts)),
		burst:    attempts,
		now:      time.Now,
	}
}

func (l *LoginLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= idleTTL {
		l.sweep(now)
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep drops visitors idle for longer than idleTTL. Callers hold mu.
func (l *LoginLimiter) sweep(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleTTL {
			delete(l.visitors, ip)
		}
	}
	l.lastSweep = now
}

// Handler rejects requests over the limit with 429.
func (l *LoginLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if !l.limiter(ip).Allow() {
			log.WithField("ip", ip).Warn("Login rate limit exceeded")
			c.Set(fiber.HeaderRetryAfter, "60")
			return deny(c, fiber.StatusTooManyRequests, "Too many login attempts, please wait before trying again")
		}
		return c.Next()
	}
}
