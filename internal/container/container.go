// Package container holds the process-wide infrastructure built in main.
// Nothing here is global: main constructs one Container and passes it to
// the router, which wires modules from it.
package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-query-service/config"
	"github.com/oksasatya/go-user-query-service/pkg/helpers"
)

type Container struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	PG     *pgxpool.Pool
	// Redis is nil when REDIS_ADDR is empty.
	Redis *redis.Client
	JWT   *helpers.JWTManager
	// RabbitPub is nil when RabbitMQ is not configured or unreachable.
	RabbitPub *helpers.RabbitPublisher
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// RateLimitRedis returns the client rate limiters should use, or nil when
// limiting is switched off.
func (c *Container) RateLimitRedis() *redis.Client {
	if c.Cfg == nil || !c.Cfg.RateLimitEnabled {
		return nil
	}
	return c.Redis
}
