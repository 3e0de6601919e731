package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-timeclock/internal/shared/contextutil"
)

// StdoutAuditLogger writes audit entries to the process log. Deployments
// that ship audit events elsewhere swap in their own AuditLogger.
type StdoutAuditLogger struct{}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	fields := []zap.Field{
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
	}
	meta := contextutil.ExtractMetadata(ctx)
	if meta.RequestID != "" {
		fields = append(fields, zap.String("request_id", meta.RequestID))
	}
	if meta.WorkerID != "" {
		fields = append(fields, zap.String("worker_id", meta.WorkerID))
	}
	if meta.Tenant != "" {
		fields = append(fields, zap.String("tenant", meta.Tenant))
	}
	if len(entry.Meta) > 0 {
		fields = append(fields, zap.Any("meta", entry.Meta))
	}
	zap.L().Named("audit").Info("audit event", fields...)
}
