package punch

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-timeclock/internal/middleware"
	"go-timeclock/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	punches := r.Group("/punches")
	punches.Use(middleware.AuthMiddleware())
	{
		punches.GET("", middleware.RBACAuthorize(rbacService, "punch", "read"), handler.List)
		punches.GET("/:id", middleware.RBACAuthorize(rbacService, "punch", "read"), handler.GetByID)
		// Idempotency runs after auth so the key is scoped per worker;
		// the handler releases the lock and fills the replay cache.
		punches.POST("/clock-in", middleware.RBACAuthorize(rbacService, "punch", "create"), middleware.Idempotency(rdb), handler.ClockIn)
		punches.POST("/:id/clock-out", middleware.RBACAuthorize(rbacService, "punch", "create"), middleware.Idempotency(rdb), handler.ClockOut)
		punches.POST("/:id/location", middleware.RBACAuthorize(rbacService, "punch", "create"), handler.RecordLocation)
		punches.PUT("/:id", middleware.RBACAuthorize(rbacService, "punch", "edit"), handler.Edit)
		// Decisions are gated twice: the cheap role check short-circuits
		// before the enforcer runs.
		punches.POST("/:id/approve", middleware.RoleMiddleware(rbac.RoleManager, rbac.RoleAdmin), middleware.RBACAuthorize(rbacService, "punch", "approve"), handler.Approve)
		punches.POST("/:id/reject", middleware.RoleMiddleware(rbac.RoleManager, rbac.RoleAdmin), middleware.RBACAuthorize(rbacService, "punch", "approve"), handler.Reject)
		punches.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "punch", "create"), handler.Cancel)
	}
}
