package timesheet

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
	timesheets := r.Group("/timesheets")
	timesheets.Use(middleware.AuthMiddleware())
	{
		timesheets.GET("", middleware.RBACAuthorize(rbacService, "timesheet", "read"), handler.Get)
	}
}
