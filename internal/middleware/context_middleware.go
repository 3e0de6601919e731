package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-timeclock/internal/shared/contextutil"
)

// ContextLogger attaches a request-scoped logger, pre-tagged with the
// request id and acting worker, to the standard context so services and
// repositories can log without knowing about gin.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// RequestID normally runs first; mint an id only when this
		// middleware is mounted on its own.
		rid := c.GetString("request_id")
		if rid == "" {
			rid = uuid.New().String()
			c.Set("request_id", rid)
			c.Header("X-Request-ID", rid)
		}

		workerID := c.GetString("worker_id")

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("worker_id", workerID),
		)

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithWorkerID(ctx, workerID)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
