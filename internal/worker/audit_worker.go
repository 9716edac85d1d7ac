package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/student-management/internal/events"
)

// StartAuditWorker registers the audit log handler for department events.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventDepartmentSaved, auditHandler(logger))
}

func auditHandler(logger *zap.Logger) events.EventHandler {
	return func(_ context.Context, event events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("department_id", event.DepartmentID),
			zap.Time("timestamp", event.Timestamp),
		}
		if payload, ok := event.Payload.(events.DepartmentSavedPayload); ok {
			fields = append(fields, zap.String("name", payload.Name), zap.String("head", payload.Head))
		}
		logger.Info("audit", fields...)
		return nil
	}
}
