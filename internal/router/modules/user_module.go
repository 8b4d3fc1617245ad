package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-user-query-service/internal/interface/http"
	"github.com/oksasatya/go-user-query-service/internal/interface/middleware"
)

// UserModule wires the authenticated /users routes. Listing, analytics and
// delete are admin only; read and update allow the account owner too.
type UserModule struct {
	Users     *handlers.UserHandler
	Analytics *handlers.AnalyticsHandler
	JWT       middleware.TokenParser
	Limits    Limits
}

// perUserLimit caps each authenticated caller per minute across /users.
const perUserLimit = 300

func NewUserModule(users *handlers.UserHandler, analytics *handlers.AnalyticsHandler, jwt middleware.TokenParser, limits Limits) *UserModule {
	return &UserModule{Users: users, Analytics: analytics, JWT: jwt, Limits: limits}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/users")
	g.Use(middleware.JWTAuth(m.JWT), m.Limits.PerUser(perUserLimit))

	admin := middleware.RequireAdmin()
	g.GET("", admin, m.Users.List)
	g.GET("/totals", admin, m.Analytics.Totals)
	g.GET("/search", admin, m.Analytics.Search)
	g.GET("/role/:role", admin, m.Analytics.ByRole)

	a := g.Group("/analytics", admin)
	{
		a.GET("/top-logins", m.Analytics.TopLogins)
		a.GET("/inactive", m.Analytics.Inactive)
		a.GET("/statistics", m.Analytics.Statistics)
		a.GET("/registration-stats", m.Analytics.RegistrationStats)
		a.GET("/recent", m.Analytics.Recent)
	}

	self := middleware.RequireSelfOrAdmin("id")
	g.GET("/:id", self, m.Users.Get)
	g.PUT("/:id", self, m.Users.Update)
	g.PATCH("/:id", self, m.Users.Update)
	g.DELETE("/:id", admin, m.Users.Delete)
}
