package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/student-management/internal/domain"
)

func TestCanonicalID(t *testing.T) {
	const want = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	for _, spelling := range []string{
		want,
		"6BA7B810-9DAD-11D1-80B4-00C04FD430C8",
		"{6ba7b810-9dad-11d1-80b4-00c04fd430c8}",
		"urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"6ba7b8109dad11d180b400c04fd430c8",
	} {
		got, ok := CanonicalID(spelling)
		require.True(t, ok, spelling)
		assert.Equal(t, want, got, spelling)
	}

	for _, bad := range []string{"", "42", "dept-1", "urn:uuid:"} {
		_, ok := CanonicalID(bad)
		assert.False(t, ok, bad)
	}
}

// Shape checks run before the pool is touched, so a nil pool is enough here.
func TestDepartmentRepository_ShortCircuits(t *testing.T) {
	repo := NewDepartmentRepository(nil)
	ctx := context.Background()

	found, ok, err := repo.FindByID(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, found)

	_, err = repo.Save(ctx, &domain.Department{ID: "dept-1", Name: "Computer Science"})
	require.ErrorIs(t, err, ErrMalformedID)
}
