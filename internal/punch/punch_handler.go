package punch

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/response"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("punch.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("punch.handler")
	}
	return &Handler{service: service, logger: l}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

// releaseIdempotencyLock frees the in-flight lock set by the idempotency
// middleware. Deferred by keyed handlers so a failed request can be
// retried immediately instead of waiting out the lock TTL.
func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if lk := c.GetString("idempotency_lock_key"); lk != "" {
		h.rdb.Del(c.Request.Context(), lk)
	}
}

// cacheIdempotentResponse stores the successful payload so a replay of
// the same Idempotency-Key is answered from cache.
func (h *Handler) cacheIdempotentResponse(c *gin.Context, resp any) {
	if h.rdb == nil {
		return
	}
	ck := c.GetString("idempotency_cache_key")
	if ck == "" {
		return
	}
	if payload, err := json.Marshal(resp); err == nil {
		_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
	}
}

func getWorkerID(c *gin.Context) string {
	return c.GetString("worker_id")
}

func getApplicantID(c *gin.Context) string {
	applicantID := c.GetString("applicant_id")
	if applicantID == "" {
		applicantID = getWorkerID(c)
	}
	return applicantID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("punch request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) ClockIn(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	companyID := c.GetString("company_id")
	workerID := getWorkerID(c)

	var req ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http clock in validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, err.Error())
		return
	}

	resp, err := h.service.ClockIn(c.Request.Context(), companyID, workerID, getApplicantID(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheIdempotentResponse(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ClockOut(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	companyID := c.GetString("company_id")
	workerID := getWorkerID(c)
	id := c.Param("id")

	var req ClockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http clock out validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, err.Error())
		return
	}

	resp, err := h.service.ClockOut(c.Request.Context(), companyID, workerID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheIdempotentResponse(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RecordLocation(c *gin.Context) {
	companyID := c.GetString("company_id")
	workerID := getWorkerID(c)
	id := c.Param("id")

	var req LocationPingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http location ping validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, err.Error())
		return
	}

	resp, err := h.service.RecordLocation(c.Request.Context(), companyID, workerID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Edit(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := getWorkerID(c)
	id := c.Param("id")

	var req EditPunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http edit punch validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, err.Error())
		return
	}

	resp, err := h.service.Edit(c.Request.Context(), companyID, actorID, c.GetString("role"), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

func (h *Handler) decide(c *gin.Context, fn func(ctx context.Context, companyID, managerID, id string, req DecisionRequest) (PunchResponse, error)) {
	companyID := c.GetString("company_id")
	managerID := getWorkerID(c)
	id := c.Param("id")

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http punch decision validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, err.Error())
		return
	}

	resp, err := fn(c.Request.Context(), companyID, managerID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	companyID := c.GetString("company_id")
	workerID := getWorkerID(c)
	id := c.Param("id")

	resp, err := h.service.Cancel(c.Request.Context(), companyID, workerID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	companyID := c.GetString("company_id")
	id := c.Param("id")

	resp, err := h.service.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	companyID := c.GetString("company_id")
	applicantID := getApplicantID(c)

	start, err := time.Parse(time.RFC3339, c.DefaultQuery("start", ""))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "start must be RFC3339 UTC", nil)
		return
	}
	end, err := time.Parse(time.RFC3339, c.DefaultQuery("end", ""))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "end must be RFC3339 UTC", nil)
		return
	}

	resp, err := h.service.ListForApplicant(c.Request.Context(), companyID, applicantID, start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
