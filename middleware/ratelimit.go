package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiter tracks a limiter per client IP, dropping entries that
// have been quiet long enough to be forgotten.
type clientLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rate    rate.Limit
	burst   int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const staleAfter = 10 * time.Minute

// RateLimit returns a middleware allowing r events per second with the
// given burst, per client IP.
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	cl := &clientLimiter{
		clients: make(map[string]*client),
		rate:    r,
		burst:   burst,
	}

	go func() {
		for range time.Tick(time.Minute) {
			cl.cleanup()
		}
	}()

	return func(ctx *gin.Context) {
		if !cl.allow(ctx.ClientIP()) {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate-limited"})
			return
		}
		ctx.Next()
	}
}

func (cl *clientLimiter) allow(ip string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	c, ok := cl.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(cl.rate, cl.burst)}
		cl.clients[ip] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

func (cl *clientLimiter) cleanup() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	for ip, c := range cl.clients {
		if time.Since(c.lastSeen) > staleAfter {
			delete(cl.clients, ip)
		}
	}
}
