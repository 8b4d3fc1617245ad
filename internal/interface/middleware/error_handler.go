package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-query-service/pkg/apperror"
	"github.com/oksasatya/go-user-query-service/pkg/response"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// Internal failures are logged in full; clients only see code and message.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		ae := apperror.From(c.Errors.Last().Err)
		if ae.Kind == apperror.KindInternal && logger != nil {
			logger.WithFields(logrus.Fields{
				"request_id": c.GetString(CtxRequestIDKey),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
			}).WithError(unwrapCause(ae)).Error("request failed")
		}
		response.Error(c, ae.Status(), ae.Code, ae.Message, ae.Details)
	}
}

func unwrapCause(ae *apperror.Error) error {
	if ae.Err != nil {
		return ae.Err
	}
	return errors.New(ae.Message)
}

// CustomRecovery turns a panic into a 500 envelope.
func CustomRecovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"request_id": c.GetString(CtxRequestIDKey),
				"path":       c.Request.URL.Path,
			}).Errorf("panic recovered: %v", recovered)
		}
		ae := apperror.Internal(fmt.Errorf("panic: %v", recovered))
		response.Error(c, http.StatusInternalServerError, ae.Code, ae.Message, nil)
		c.Abort()
	})
}

// NotFound is the NoRoute handler.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperror.NotFound("route not found"))
	}
}
