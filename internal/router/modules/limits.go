package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-user-query-service/internal/interface/middleware"
)

// Limits builds per-route rate limiters. A nil Redis disables limiting.
type Limits struct {
	Redis *redis.Client
	Allow middleware.AllowFunc
}

// PerIP allows max requests per minute per client IP on one route.
func (l Limits) PerIP(max int) gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, max, time.Minute, middleware.KeyByIPAndPath(), l.Allow)
}

// PerUser allows max requests per minute per authenticated user across
// every route it guards. It must run after JWTAuth.
func (l Limits) PerUser(max int) gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, max, time.Minute, middleware.KeyByUserID(), l.Allow)
}
