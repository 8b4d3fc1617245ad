package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-user-query-service/internal/interface/http"
)

// AuthModule serves the public account endpoints:
// POST /auth/register, /auth/login, /auth/verify and GET /users/check-email.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Limits  Limits
}

func NewAuthModule(h *handlers.AuthHandler, limits Limits) *AuthModule {
	return &AuthModule{Handler: h, Limits: limits}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", m.Limits.PerIP(10), m.Handler.Register)
	rg.POST("/auth/login", m.Limits.PerIP(10), m.Handler.Login)
	rg.POST("/auth/verify", m.Limits.PerIP(30), m.Handler.Verify)
	rg.GET("/users/check-email", m.Limits.PerIP(60), m.Handler.CheckEmail)
}
