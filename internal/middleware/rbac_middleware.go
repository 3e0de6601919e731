package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-timeclock/internal/rbac"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/response"
)

// RBACService keeps this package decoupled from the concrete enforcer.
type RBACService interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		workerID := c.GetString("worker_id")
		companyID := c.GetString("company_id")
		if workerID == "" || companyID == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(rbac.EnforceRequest{
			WorkerID:  workerID,
			CompanyID: companyID,
			Role:      c.GetString("role"),
			Resource:  resource,
			Action:    action,
		})
		if err != nil {
			response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "authorization check failed", nil)
			c.Abort()
			return
		}
		if !allowed {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden,
				"You do not have permission to access this resource",
				resource+":"+action)
			c.Abort()
			return
		}

		c.Next()
	}
}
