package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-query-service/internal/domain/entity"
	"github.com/oksasatya/go-user-query-service/pkg/apperror"
)

// RequireRole must run after JWTAuth.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := entity.Role(c.GetString(CtxUserRoleKey))
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		_ = c.Error(apperror.Forbidden("insufficient role"))
		c.Abort()
	}
}

func RequireAdmin() gin.HandlerFunc { return RequireRole(entity.RoleAdmin) }

// RequireSelfOrAdmin lets admins through and otherwise requires the path
// parameter param to equal the caller's own id.
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if entity.Role(c.GetString(CtxUserRoleKey)) == entity.RoleAdmin {
			c.Next()
			return
		}
		uid, ok := UserID(c)
		if !ok {
			_ = c.Error(apperror.Unauthorized("missing access token"))
			c.Abort()
			return
		}
		id, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil || id != uid {
			_ = c.Error(apperror.Forbidden("you can only access your own account"))
			c.Abort()
			return
		}
		c.Next()
	}
}
