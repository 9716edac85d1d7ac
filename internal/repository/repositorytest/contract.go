// Package repositorytest holds behavior every DepartmentRepository implementation shares.
package repositorytest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/student-management/internal/domain"
	"github.com/spec-kit/student-management/internal/repository"
)

// Factory returns a fresh, empty repository for one subtest.
type Factory func(t *testing.T) repository.DepartmentRepository

// ComputerScience is the canonical fixture department.
func ComputerScience() *domain.Department {
	return &domain.Department{
		Name:     "Computer Science",
		Location: "Building A",
		Phone:    "123456789",
		Head:     "Dr. Smith",
	}
}

// RunDepartmentContract runs the save/find contract against repositories built by newRepo.
func RunDepartmentContract(t *testing.T, newRepo Factory) {
	t.Helper()

	t.Run("create and find department", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		saved, err := repo.Save(ctx, ComputerScience())
		require.NoError(t, err)

		found, ok, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Computer Science", found.Name)
	})

	t.Run("round trip keeps every field", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		inputs := []domain.Department{
			*ComputerScience(),
			{Name: "Mathématiques", Location: "Bloc B, 2e étage", Phone: "+216 71 000 000", Head: "Pr. Ben Ali"},
			{Name: "", Location: "", Phone: "", Head: ""},
			{Name: "Physics", Location: "Lab 'C'; DROP TABLE departments;--", Phone: "n/a", Head: "Dr. O'Neil"},
		}
		for i := range inputs {
			in := inputs[i]
			saved, err := repo.Save(ctx, &in)
			require.NoError(t, err)

			found, ok, err := repo.FindByID(ctx, saved.ID)
			require.NoError(t, err)
			require.True(t, ok, "department %d not found", i)
			assert.Equal(t, saved.ID, found.ID)
			assert.Equal(t, in.Name, found.Name)
			assert.Equal(t, in.Location, found.Location)
			assert.Equal(t, in.Phone, found.Phone)
			assert.Equal(t, in.Head, found.Head)
		}
	})

	t.Run("save assigns an id", func(t *testing.T) {
		repo := newRepo(t)
		in := ComputerScience()

		saved, err := repo.Save(context.Background(), in)
		require.NoError(t, err)
		canonical, ok := repository.CanonicalID(saved.ID)
		require.True(t, ok)
		assert.Equal(t, canonical, saved.ID)
		assert.Empty(t, in.ID, "input must not be mutated")
	})

	t.Run("unknown id is absent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, id := range []string{uuid.NewString(), "42", "", "not-a-uuid"} {
			found, ok, err := repo.FindByID(ctx, id)
			require.NoError(t, err, "id %q", id)
			assert.False(t, ok, "id %q", id)
			assert.Nil(t, found)
		}
	})

	t.Run("distinct saves get distinct ids", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		seen := make(map[string]struct{})
		for i := 0; i < 20; i++ {
			dept := ComputerScience()
			dept.Name = fmt.Sprintf("Department %d", i)
			saved, err := repo.Save(ctx, dept)
			require.NoError(t, err)
			_, dup := seen[saved.ID]
			require.False(t, dup, "duplicate id %s", saved.ID)
			seen[saved.ID] = struct{}{}
		}
	})

	t.Run("repeated reads are equal", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		saved, err := repo.Save(ctx, ComputerScience())
		require.NoError(t, err)

		first, ok, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, ok)

		// mutating a returned value must not leak into the store
		first.Name = "Renamed"
		saved.Head = "Nobody"

		second, ok, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, ok)
		third, ok, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, ok)

		assert.Equal(t, second, third)
		assert.Equal(t, "Computer Science", second.Name)
		assert.Equal(t, "Dr. Smith", second.Head)
	})

	t.Run("save with id overwrites", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		saved, err := repo.Save(ctx, ComputerScience())
		require.NoError(t, err)

		update := *saved
		update.Head = "Dr. Jones"
		again, err := repo.Save(ctx, &update)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, again.ID)

		found, ok, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Dr. Jones", found.Head)
	})

	t.Run("save with caller supplied id", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		dept := ComputerScience()
		dept.ID = uuid.NewString()
		saved, err := repo.Save(ctx, dept)
		require.NoError(t, err)
		assert.Equal(t, dept.ID, saved.ID)

		_, ok, err := repo.FindByID(ctx, dept.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("other uuid spellings find the same department", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		saved, err := repo.Save(ctx, ComputerScience())
		require.NoError(t, err)

		for _, id := range uuidSpellings(saved.ID) {
			found, ok, err := repo.FindByID(ctx, id)
			require.NoError(t, err, "id %q", id)
			require.True(t, ok, "id %q", id)
			assert.Equal(t, saved.ID, found.ID)
		}
	})

	t.Run("save stores the canonical id", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		want := uuid.NewString()
		for _, id := range uuidSpellings(want) {
			dept := ComputerScience()
			dept.ID = id
			dept.Head = "Head for " + id
			saved, err := repo.Save(ctx, dept)
			require.NoError(t, err, "id %q", id)
			assert.Equal(t, want, saved.ID)
		}

		// every spelling overwrote one record
		found, ok, err := repo.FindByID(ctx, want)
		require.NoError(t, err)
		require.True(t, ok)
		spellings := uuidSpellings(want)
		assert.Equal(t, "Head for "+spellings[len(spellings)-1], found.Head)
	})

	t.Run("save rejects malformed id", func(t *testing.T) {
		repo := newRepo(t)

		dept := ComputerScience()
		dept.ID = "dept-1"
		_, err := repo.Save(context.Background(), dept)
		require.ErrorIs(t, err, repository.ErrMalformedID)
	})
}

func uuidSpellings(id string) []string {
	upper := strings.ToUpper(id)
	return []string{
		upper,
		"{" + id + "}",
		"urn:uuid:" + id,
		strings.ReplaceAll(id, "-", ""),
	}
}
