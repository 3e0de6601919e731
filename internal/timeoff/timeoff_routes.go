package timeoff

import (
	"github.com/gin-gonic/gin"

	"go-timeclock/internal/middleware"
	"go-timeclock/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	leaves := r.Group("/leave-requests")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "timeoff", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "timeoff", "read"), handler.GetById)
		leaves.POST("", middleware.RBACAuthorize(rbacService, "timeoff", "create"), handler.Create)
		leaves.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "timeoff", "approve"), handler.Approve)
		leaves.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "timeoff", "approve"), handler.Reject)
		leaves.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "timeoff", "create"), handler.Cancel)
	}
}
