package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/student-management/internal/domain"
	"github.com/spec-kit/student-management/internal/repository"
)

// DepartmentRepository is an in-process department store, isolated per instance.
// It backs the test profile and unit tests.
type DepartmentRepository struct {
	mu   sync.RWMutex
	data map[string]domain.Department
}

var _ repository.DepartmentRepository = (*DepartmentRepository)(nil)

// NewDepartmentRepository constructs an empty store.
func NewDepartmentRepository() *DepartmentRepository {
	return &DepartmentRepository{
		data: make(map[string]domain.Department),
	}
}

// Save stores a copy of dept, generating an ID for new departments.
func (r *DepartmentRepository) Save(ctx context.Context, dept *domain.Department) (*domain.Department, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	saved := *dept
	if saved.IsNew() {
		saved.ID = uuid.NewString()
	} else {
		id, ok := repository.CanonicalID(saved.ID)
		if !ok {
			return nil, repository.ErrMalformedID
		}
		saved.ID = id
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[saved.ID] = saved

	return &saved, nil
}

// FindByID returns a copy of the stored department.
func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*domain.Department, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	key, ok := repository.CanonicalID(id)
	if !ok {
		return nil, false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	dept, ok := r.data[key]
	if !ok {
		return nil, false, nil
	}
	return &dept, true, nil
}

// Len returns the number of stored departments.
func (r *DepartmentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
