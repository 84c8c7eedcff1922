package httpserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"ezelectronics/internal/authz"
	"ezelectronics/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"

	// identity asserted by the authenticating gateway
	headerUser = "X-User"
	headerRole = "X-User-Role"

	ownerKey = "owner"
	roleKey  = "role"
)

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

func accessLogMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if owner := c.GetString(ownerKey); owner != "" {
			fields = append(fields, zap.String("owner", owner))
		}
		if len(c.Errors) > 0 {
			logger.Error("request", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		logger.Info("request", fields...)
	}
}

func recoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error("request_panic",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}

// identityMiddleware reads the caller from gateway headers.
func identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := strings.TrimSpace(c.GetHeader(headerUser))
		if owner == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated user"})
			return
		}
		role := strings.TrimSpace(c.GetHeader(headerRole))
		if !authz.ValidRole(role) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User is not authorized"})
			return
		}
		c.Set(ownerKey, owner)
		c.Set(roleKey, role)
		c.Next()
	}
}

func authorizeMiddleware(az authorizer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		obj := c.FullPath()
		if obj == "" {
			obj = c.Request.URL.Path
		}
		ok, err := az.Enforce(c.GetString(roleKey), obj, c.Request.Method)
		if err != nil {
			logger.Error("authz_enforce_failed", zap.String("path", obj), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User is not authorized"})
			return
		}
		c.Next()
	}
}

type rateLimitRule struct {
	Prefix      string
	Window      time.Duration
	MaxRequests int
}

func cartRateLimitRule(cfg config.RateLimitConfig) rateLimitRule {
	return rateLimitRule{
		Prefix:      "ezelectronics:cart",
		Window:      cfg.Window(),
		MaxRequests: cfg.MaxRequests,
	}
}

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// rateLimitMiddleware counts requests per owner in fixed windows. Without a
// client or with a zero rule it lets everything through. Limiter failures
// are logged and the request proceeds.
func rateLimitMiddleware(client *redis.Client, rule rateLimitRule, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		windowSeconds := int64(rule.Window / time.Second)
		if client == nil || windowSeconds <= 0 || rule.MaxRequests <= 0 {
			c.Next()
			return
		}
		key := rateLimitKey(rule.Prefix, c.GetString(ownerKey), c.ClientIP())

		values, err := rateLimitScript.Run(c.Request.Context(), client, []string{key}, windowSeconds).Int64Slice()
		if err != nil || len(values) < 2 {
			logger.Warn("rate_limit_unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		count, ttl := values[0], values[1]
		if count > int64(rule.MaxRequests) {
			wait := ttl
			if wait < 1 {
				wait = windowSeconds
			}
			c.Header("Retry-After", fmt.Sprint(wait))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": fmt.Sprintf("too many requests, retry in %d seconds", wait),
			})
			return
		}
		c.Next()
	}
}

func rateLimitKey(prefix, owner, clientIP string) string {
	id := owner
	if id == "" {
		id = clientIP
	}
	if prefix == "" {
		return id
	}
	return prefix + ":" + id
}
