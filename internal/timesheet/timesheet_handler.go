package timesheet

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("timesheet.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timesheet.handler")
	}
	return &Handler{service: service, logger: l}
}

// Get returns the aggregated timesheet for the authenticated applicant
// over a local date window.
func (h *Handler) Get(c *gin.Context) {
	companyID := c.GetString("company_id")
	workerID := c.GetString("worker_id")
	applicantID := c.GetString("applicant_id")
	if applicantID == "" {
		applicantID = workerID
	}

	q := TimesheetQuery{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Timezone:  c.Query("timezone"),
		WeekStart: c.Query("week_start"),
	}
	if q.StartDate == "" || q.EndDate == "" {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "start_date and end_date are required", nil)
		return
	}

	resp, err := h.service.Get(c.Request.Context(), companyID, workerID, applicantID, q)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("timesheet request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
			zap.String("message", httpErr.Message),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
