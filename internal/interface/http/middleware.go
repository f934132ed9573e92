package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/birthchart/internal/infra/config"
)

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}

func errorHandlingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		httpErr := asHTTPError(c.Errors.Last().Err)
		message := httpErr.Message
		if message == "" {
			message = httpErr.Error()
		}

		if httpErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed", "code", httpErr.Code, "status", httpErr.Status, "path", c.Request.URL.Path, "error", httpErr.Err)
		} else {
			logger.Warn("request failed", "code", httpErr.Code, "status", httpErr.Status, "path", c.Request.URL.Path, "error", httpErr.Err)
		}

		c.JSON(httpErr.Status, gin.H{
			"error": gin.H{
				"code":    httpErr.Code,
				"message": message,
			},
		})
	}
}

const messageThrottled = "Too many chart submissions. Please wait a moment and try again."

// rateLimitMiddleware throttles chart submissions per client IP so one visitor
// cannot flood the calculation service. Rejected requests carry Retry-After.
func rateLimitMiddleware(cfg config.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newSubmissionLimiter(cfg)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		wait, ok := limiter.take(ip)
		if ok {
			c.Next()
			return
		}
		retryAfter := int(math.Ceil(wait.Seconds()))
		logger.Warn("chart submission throttled", "ip", ip, "path", c.Request.URL.Path, "retry_after_s", retryAfter)
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		abortWithError(c, NewHTTPError(http.StatusTooManyRequests, "rate_limit_exceeded", messageThrottled, nil))
	}
}

// submissionLimiter is a token bucket per client IP. Idle buckets are dropped
// once they would be full again.
type submissionLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*submissionBucket
	perToken time.Duration
	burst    float64
	now      func() time.Time
}

type submissionBucket struct {
	tokens  float64
	updated time.Time
}

func newSubmissionLimiter(cfg config.RateLimitConfig) *submissionLimiter {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &submissionLimiter{
		buckets:  make(map[string]*submissionBucket),
		perToken: time.Minute / time.Duration(cfg.RequestsPerMinute),
		burst:    float64(burst),
		now:      time.Now,
	}
}

// take spends one token for ip. When none is left it reports how long until
// the next one is available.
func (l *submissionLimiter) take(ip string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictLocked(now)

	b, ok := l.buckets[ip]
	if !ok {
		b = &submissionBucket{tokens: l.burst, updated: now}
		l.buckets[ip] = b
	}
	if elapsed := now.Sub(b.updated); elapsed > 0 {
		b.tokens = math.Min(l.burst, b.tokens+float64(elapsed)/float64(l.perToken))
		b.updated = now
	}
	if b.tokens < 1 {
		return time.Duration((1 - b.tokens) * float64(l.perToken)), false
	}
	b.tokens--
	return 0, true
}

func (l *submissionLimiter) evictLocked(now time.Time) {
	refill := time.Duration(l.burst * float64(l.perToken))
	for ip, b := range l.buckets {
		if now.Sub(b.updated) > refill {
			delete(l.buckets, ip)
		}
	}
}
