package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendormart/vendormart-api/internal/logger"
)

const ctxLogger = "logger"

// RequestID tags every request with a unique ID and stashes a
// request-scoped logger on the context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()

		c.Request.Header.Set("X-Request-ID", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Set("request_id", requestID)

		log := logger.Get().With(zap.String("request_id", requestID))
		c.Set(ctxLogger, log)

		c.Next()
	}
}

// Logger returns the request-scoped logger, or the global one when the
// RequestID middleware did not run (tests).
func Logger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(ctxLogger); ok {
		if log, ok := v.(*zap.Logger); ok {
			return log
		}
	}
	return logger.Get()
}
