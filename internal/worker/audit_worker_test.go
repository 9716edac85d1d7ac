package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/student-management/internal/events"
)

func TestStartAuditWorker_LogsSavedDepartments(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	StartAuditWorker(dispatcher, zap.New(core))

	event := events.NewEvent(events.EventDepartmentSaved, "d-1", events.DepartmentSavedPayload{
		Name: "Computer Science",
		Head: "Dr. Smith",
	})
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	entries := logs.FilterMessage("audit").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "d-1", fields["department_id"])
	assert.Equal(t, "Computer Science", fields["name"])
	assert.Equal(t, string(events.EventDepartmentSaved), fields["event_type"])
}

func TestStartAuditWorker_NilDispatcher(t *testing.T) {
	assert.NotPanics(t, func() { StartAuditWorker(nil, zap.NewNop()) })
}
