package router

import (
	"github.com/oksasatya/go-user-query-service/internal/application"
	"github.com/oksasatya/go-user-query-service/internal/container"
	pginfra "github.com/oksasatya/go-user-query-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-query-service/internal/infrastructure/queue"
	handlers "github.com/oksasatya/go-user-query-service/internal/interface/http"
	"github.com/oksasatya/go-user-query-service/internal/interface/middleware"
	"github.com/oksasatya/go-user-query-service/internal/router/modules"
	"github.com/oksasatya/go-user-query-service/pkg/helpers"
)

type UserModuleDeps struct {
	Users     *application.UserService
	Query     *application.QueryService
	Analytics *application.AnalyticsService
}

func buildUserDeps(c *container.Container) UserModuleDeps {
	timeout := c.Cfg.DBQueryTimeout
	users := pginfra.NewUserRepository(c.PG, timeout)
	reads := pginfra.NewUserQueryRepository(c.PG, timeout)

	var notifier application.Notifier
	if c.RabbitPub != nil {
		notifier = queue.NewEmailNotifier(c.RabbitPub, c.Cfg)
	}

	cache := c.Redis
	if c.Cfg.AnalyticsCacheTTL <= 0 {
		cache = nil
	}

	return UserModuleDeps{
		Users:     application.NewUserService(users, c.JWT, helpers.BcryptHasher{}, notifier, c.Cfg, c.Logger),
		Query:     application.NewQueryService(reads, c.Logger),
		Analytics: application.NewAnalyticsService(reads, cache, c.Cfg.AnalyticsCacheTTL, c.Logger),
	}
}

func limits(c *container.Container) modules.Limits {
	l := modules.Limits{Redis: c.RateLimitRedis()}
	if !c.Cfg.RateLimitPrivate {
		l.Allow = middleware.AllowPrivateIP()
	}
	return l
}

// InitModules wires every module from c and adds it to r.
// Call once during startup, before r.RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	deps := buildUserDeps(c)
	lim := limits(c)

	auth := handlers.NewAuthHandler(deps.Users, c.Logger)
	users := handlers.NewUserHandler(deps.Users, deps.Query, c.Logger)
	analytics := handlers.NewAnalyticsHandler(deps.Analytics, c.Logger)

	r.Add(modules.NewAuthModule(auth, lim))
	r.Add(modules.NewUserModule(users, analytics, c.JWT, lim))

	r.AddRoot(healthModule())
	if c.Cfg.MetricsEnabled && c.Gatherer != nil {
		r.AddRoot(modules.NewMetricsModule(c.Gatherer, lim))
	}
}
