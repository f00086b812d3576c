package attendance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhub/backend/internal/domain/shared"
)

type fakeCodeRepo struct {
	CodeRepository
	codes []*Code
}

func (f *fakeCodeRepo) FindActiveByValue(_ context.Context, centerID uuid.UUID, value string, kind OwnerKind) (*Code, error) {
	for _, c := range f.codes {
		if c.CenterID == centerID && c.Value == value && c.OwnerKind == kind && c.Active {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

type fakeStaffDirectory struct {
	phones []StaffPhone
}

func (f *fakeStaffDirectory) ActiveStaffPhones(context.Context, uuid.UUID) ([]StaffPhone, error) {
	return f.phones, nil
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	centerID := uuid.New()
	studentID := uuid.New()
	teacherID := uuid.New()

	studentCode, err := NewCode(centerID, studentID, OwnerKindStudent, "1234")
	require.NoError(t, err)
	staffCode, err := NewCode(centerID, teacherID, OwnerKindStaff, "7777")
	require.NoError(t, err)

	t.Run("student code wins over everything", func(t *testing.T) {
		// a staff phone also derives 1234; the registered student code wins
		legacyStaff := uuid.New()
		resolver := NewResolver(
			&fakeCodeRepo{codes: []*Code{studentCode, staffCode}},
			&fakeStaffDirectory{phones: []StaffPhone{{TeacherID: legacyStaff, Phone: "010-1234-0000"}}},
		)

		res, err := resolver.Resolve(ctx, centerID, "1234")
		require.NoError(t, err)
		assert.Equal(t, OwnerKindStudent, res.OwnerKind)
		assert.Equal(t, studentID, res.OwnerID)
		assert.False(t, res.LegacyPhoneMatch)
	})

	t.Run("staff code resolves when no student code matches", func(t *testing.T) {
		resolver := NewResolver(
			&fakeCodeRepo{codes: []*Code{studentCode, staffCode}},
			&fakeStaffDirectory{},
		)

		res, err := resolver.Resolve(ctx, centerID, "7777")
		require.NoError(t, err)
		assert.Equal(t, OwnerKindStaff, res.OwnerKind)
		assert.Equal(t, teacherID, res.OwnerID)
		assert.False(t, res.LegacyPhoneMatch)
	})

	t.Run("falls back to phone-derived staff match", func(t *testing.T) {
		legacyStaff := uuid.New()
		resolver := NewResolver(
			&fakeCodeRepo{},
			&fakeStaffDirectory{phones: []StaffPhone{{TeacherID: legacyStaff, Phone: "010-9876-5432"}}},
		)

		res, err := resolver.Resolve(ctx, centerID, "5432")
		require.NoError(t, err)
		assert.Equal(t, OwnerKindStaff, res.OwnerKind)
		assert.Equal(t, legacyStaff, res.OwnerID)
		assert.True(t, res.LegacyPhoneMatch)

		// middle digits also resolve
		res, err = resolver.Resolve(ctx, centerID, "9876")
		require.NoError(t, err)
		assert.Equal(t, legacyStaff, res.OwnerID)
	})

	t.Run("colliding phone derivations resolve to the earliest hire", func(t *testing.T) {
		first := uuid.New()
		second := uuid.New()
		resolver := NewResolver(
			&fakeCodeRepo{},
			&fakeStaffDirectory{phones: []StaffPhone{
				{TeacherID: first, Phone: "010-1111-5432"},
				{TeacherID: second, Phone: "010-2222-5432"},
			}},
		)

		for i := 0; i < 10; i++ {
			res, err := resolver.Resolve(ctx, centerID, "5432")
			require.NoError(t, err)
			assert.Equal(t, first, res.OwnerID)
		}
	})

	t.Run("unknown code returns not found", func(t *testing.T) {
		resolver := NewResolver(&fakeCodeRepo{}, &fakeStaffDirectory{})

		_, err := resolver.Resolve(ctx, centerID, "0000")
		assert.ErrorIs(t, err, ErrCodeNotFound)
	})

	t.Run("malformed code is rejected before lookup", func(t *testing.T) {
		resolver := NewResolver(&fakeCodeRepo{}, &fakeStaffDirectory{})

		_, err := resolver.Resolve(ctx, centerID, "12ab")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrCodeNotFound)
	})
}
