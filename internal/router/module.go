package router

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-user-query-service/internal/interface/http"
)

// Module mounts a feature's routes on the group it is given.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// ModuleFunc adapts a plain function for routes that need no state.
type ModuleFunc func(rg *gin.RouterGroup)

func (f ModuleFunc) Register(rg *gin.RouterGroup) { f(rg) }

func healthModule() Module {
	return ModuleFunc(func(rg *gin.RouterGroup) {
		rg.GET("/health", handlers.HealthHandler{}.Health)
	})
}
