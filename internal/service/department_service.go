package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/student-management/internal/domain"
	"github.com/spec-kit/student-management/internal/events"
	"github.com/spec-kit/student-management/internal/repository"
	apperrors "github.com/spec-kit/student-management/pkg/util/errorutil"
)

// DepartmentService exposes department persistence to outer surfaces.
type DepartmentService struct {
	departments repository.DepartmentRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// DepartmentDependencies encapsulates collaborators required by the service.
type DepartmentDependencies struct {
	DepartmentRepo repository.DepartmentRepository
	Dispatcher     events.Dispatcher
}

// DepartmentInput carries caller-supplied department fields.
type DepartmentInput struct {
	Name     string
	Location string
	Phone    string
	Head     string
}

// NewDepartmentService constructs the service.
func NewDepartmentService(deps DepartmentDependencies, logger *zap.Logger) *DepartmentService {
	return &DepartmentService{
		departments: deps.DepartmentRepo,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// Create persists a new department and announces it.
func (s *DepartmentService) Create(ctx context.Context, in DepartmentInput) (*domain.Department, error) {
	dept := &domain.Department{
		Name:     in.Name,
		Location: in.Location,
		Phone:    in.Phone,
		Head:     in.Head,
	}
	saved, err := s.departments.Save(ctx, dept)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventDepartmentSaved, saved.ID, events.DepartmentSavedPayload{
		Name:     saved.Name,
		Location: saved.Location,
		Head:     saved.Head,
	}))
	return saved, nil
}

// Get fetches a department, reporting absence as a NOT_FOUND domain error.
func (s *DepartmentService) Get(ctx context.Context, id string) (*domain.Department, error) {
	dept, found, err := s.departments.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !found {
		return nil, apperrors.NewNotFound("department", map[string]any{"id": id})
	}
	return dept, nil
}

func (s *DepartmentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	// the department is already stored; a failing listener must not undo that
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("department_id", event.DepartmentID),
			zap.Error(err),
		)
	}
}
