package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"manifest-reconciliation/internal/logger"
	"manifest-reconciliation/internal/server/ginx"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates or creates a request id and stores it as the trace id
// of the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), id))
		c.Next()
	}
}

// AccessLog logs one line per request.
func AccessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infof(c.Request.Context(), "[HTTP] %s %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// Recovery turns panics into a 500 envelope.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Errorf(c.Request.Context(), "[HTTP] panic: %v", rec)
				ginx.InternalError(c, "internal error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
