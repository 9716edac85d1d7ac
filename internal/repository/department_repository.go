package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/student-management/internal/domain"
)

// ErrMalformedID is returned by Save when a department carries an ID that is not a UUID.
var ErrMalformedID = errors.New("department id is not a valid uuid")

// DepartmentRepository manages department persistence.
//
// Save stores dept and returns a copy carrying the store-assigned ID. A department that
// already has an ID is written under that ID. FindByID reports absence through the
// boolean result; a non-nil error always means the store failed.
type DepartmentRepository interface {
	Save(ctx context.Context, dept *domain.Department) (*domain.Department, error)
	FindByID(ctx context.Context, id string) (*domain.Department, bool, error)
}

// CanonicalID returns the lowercase hyphenated spelling of a UUID id. Every store keys
// records by this form, so braced, urn:uuid:, uppercase and bare-hex spellings of the
// same UUID name the same department. ok is false when id is not a UUID at all.
func CanonicalID(id string) (canonical string, ok bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return u.String(), true
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the Postgres-backed repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) Save(ctx context.Context, dept *domain.Department) (*domain.Department, error) {
	saved := *dept
	if saved.IsNew() {
		const query = `
        INSERT INTO departments (name, location, phone, head)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
		if err := r.pool.QueryRow(ctx, query,
			saved.Name,
			saved.Location,
			saved.Phone,
			saved.Head,
		).Scan(&saved.ID); err != nil {
			return nil, fmt.Errorf("insert department: %w", err)
		}
		return &saved, nil
	}

	id, ok := CanonicalID(saved.ID)
	if !ok {
		return nil, ErrMalformedID
	}
	saved.ID = id
	const query = `
        INSERT INTO departments (id, name, location, phone, head)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (id) DO UPDATE
        SET name=EXCLUDED.name, location=EXCLUDED.location, phone=EXCLUDED.phone, head=EXCLUDED.head, updated_at=NOW()
        RETURNING id`
	if err := r.pool.QueryRow(ctx, query,
		saved.ID,
		saved.Name,
		saved.Location,
		saved.Phone,
		saved.Head,
	).Scan(&saved.ID); err != nil {
		return nil, fmt.Errorf("upsert department %s: %w", saved.ID, err)
	}
	return &saved, nil
}

func (r *departmentRepository) FindByID(ctx context.Context, id string) (*domain.Department, bool, error) {
	// the id column is uuid; anything else can never match
	id, ok := CanonicalID(id)
	if !ok {
		return nil, false, nil
	}
	const query = `
        SELECT id, name, location, phone, head
        FROM departments WHERE id=$1`
	var dept domain.Department
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&dept.ID,
		&dept.Name,
		&dept.Location,
		&dept.Phone,
		&dept.Head,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select department %s: %w", id, err)
	}
	return &dept, true, nil
}
