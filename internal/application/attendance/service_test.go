package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/attendance"
	"github.com/tutorhub/backend/internal/domain/identity"
	"github.com/tutorhub/backend/internal/domain/roster"
	"github.com/tutorhub/backend/internal/domain/shared"
)

type recordKey struct {
	studentID uuid.UUID
	day       time.Time
	classID   uuid.UUID // uuid.Nil for center scope
}

type memRecordRepo struct {
	attendance.RecordRepository
	byKey map[recordKey]*attendance.Record
}

func newMemRecordRepo() *memRecordRepo {
	return &memRecordRepo{byKey: make(map[recordKey]*attendance.Record)}
}

func keyOf(r *attendance.Record) recordKey {
	k := recordKey{studentID: r.StudentID, day: r.CheckInDate}
	if r.ClassID != nil {
		k.classID = *r.ClassID
	}
	return k
}

func (m *memRecordRepo) FindByStudentAndDay(_ context.Context, _ uuid.UUID, studentID uuid.UUID, day time.Time, classID *uuid.UUID) (*attendance.Record, error) {
	k := recordKey{studentID: studentID, day: day}
	if classID != nil {
		k.classID = *classID
	}
	if r, ok := m.byKey[k]; ok {
		return r, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memRecordRepo) Save(_ context.Context, r *attendance.Record) error {
	k := keyOf(r)
	if existing, ok := m.byKey[k]; ok && existing.ID != r.ID {
		return shared.ErrAlreadyExists
	}
	m.byKey[k] = r
	return nil
}

type stubCenterRepo struct {
	identity.CenterRepository
	center *identity.Center
}

func (s *stubCenterRepo) FindByID(context.Context, uuid.UUID) (*identity.Center, error) {
	return s.center, nil
}

type stubClassRepo struct {
	roster.ClassRepository
	class *roster.Class
}

func (s *stubClassRepo) FindByIDForCenter(context.Context, uuid.UUID, uuid.UUID) (*roster.Class, error) {
	if s.class == nil {
		return nil, shared.ErrNotFound
	}
	return s.class, nil
}

type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func newService(t *testing.T, class *roster.Class) (*AttendanceService, *memRecordRepo, *capturingPublisher) {
	t.Helper()
	center, err := identity.NewCenter("c1", "Center One")
	require.NoError(t, err)
	center.Config.Timezone = "UTC"

	records := newMemRecordRepo()
	publisher := &capturingPublisher{}
	svc := NewAttendanceService(
		records, nil, &stubClassRepo{class: class}, &stubCenterRepo{center: center},
		nil, publisher, zap.NewNop(),
	)
	return svc, records, publisher
}

func TestAttendanceService_CheckIn(t *testing.T) {
	ctx := context.Background()
	centerID := uuid.New()
	studentID := uuid.New()

	t.Run("first check-in creates record and publishes one event", func(t *testing.T) {
		svc, records, publisher := newService(t, nil)

		dto, err := svc.CheckIn(ctx, CheckInInput{CenterID: centerID, StudentID: studentID})
		require.NoError(t, err)

		assert.NotNil(t, dto.CheckInAt)
		assert.Nil(t, dto.CheckOutAt)
		assert.Len(t, records.byKey, 1)
		require.Len(t, publisher.events, 1)
		assert.Equal(t, attendance.EventTypeStudentCheckedIn, publisher.events[0].EventType())
	})

	t.Run("second check-in same day is rejected without mutation", func(t *testing.T) {
		svc, records, publisher := newService(t, nil)

		first, err := svc.CheckIn(ctx, CheckInInput{CenterID: centerID, StudentID: studentID})
		require.NoError(t, err)

		_, err = svc.CheckIn(ctx, CheckInInput{CenterID: centerID, StudentID: studentID})
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

		assert.Len(t, records.byKey, 1)
		assert.Len(t, publisher.events, 1)
		for _, r := range records.byKey {
			assert.Equal(t, *first.CheckInAt, *r.CheckInAt)
		}
	})

	t.Run("class scope and center scope are independent records", func(t *testing.T) {
		class, err := roster.NewClass(centerID, "Algebra", "", "")
		require.NoError(t, err)
		svc, records, _ := newService(t, class)
		classID := uuid.New()

		_, err = svc.CheckIn(ctx, CheckInInput{CenterID: centerID, StudentID: studentID})
		require.NoError(t, err)
		_, err = svc.CheckIn(ctx, CheckInInput{CenterID: centerID, StudentID: studentID, ClassID: &classID})
		require.NoError(t, err)

		assert.Len(t, records.byKey, 2)
	})

	t.Run("arrival past the class threshold publishes a late event", func(t *testing.T) {
		class, err := roster.NewClass(centerID, "Algebra", "00:00", "")
		require.NoError(t, err)
		// started at midnight, so any realistic test time is late
		svc, _, publisher := newService(t, class)
		classID := uuid.New()

		dto, err := svc.CheckIn(ctx, CheckInInput{CenterID: centerID, StudentID: studentID, ClassID: &classID})
		require.NoError(t, err)

		assert.True(t, dto.WasLate)
		assert.Equal(t, string(attendance.StatusLate), dto.Status)
		require.Len(t, publisher.events, 1)
		assert.Equal(t, attendance.EventTypeStudentArrivedLate, publisher.events[0].EventType())
	})

	t.Run("late arrival onto a manual roll-call record is still marked late", func(t *testing.T) {
		class, err := roster.NewClass(centerID, "Algebra", "00:00", "")
		require.NoError(t, err)
		svc, records, publisher := newService(t, class)
		classID := uuid.New()

		_, err = svc.ManualStatusUpdate(ctx, ManualStatusInput{
			CenterID: centerID, StudentID: studentID, ClassID: &classID,
			Status: attendance.StatusAbsent,
		})
		require.NoError(t, err)

		dto, err := svc.CheckIn(ctx, CheckInInput{CenterID: centerID, StudentID: studentID, ClassID: &classID})
		require.NoError(t, err)

		assert.True(t, dto.WasLate)
		assert.Equal(t, string(attendance.StatusLate), dto.Status)
		assert.Len(t, records.byKey, 1)
		require.Len(t, publisher.events, 1)
		assert.Equal(t, attendance.EventTypeStudentArrivedLate, publisher.events[0].EventType())
	})
}

func TestAttendanceService_CheckOut(t *testing.T) {
	ctx := context.Background()
	centerID := uuid.New()
	studentID := uuid.New()

	t.Run("check-out after check-in completes the record", func(t *testing.T) {
		svc, records, publisher := newService(t, nil)

		_, err := svc.CheckIn(ctx, CheckInInput{CenterID: centerID, StudentID: studentID})
		require.NoError(t, err)
		dto, err := svc.CheckOut(ctx, CheckOutInput{CenterID: centerID, StudentID: studentID})
		require.NoError(t, err)

		require.NotNil(t, dto.CheckOutAt)
		assert.False(t, dto.CheckOutAt.Before(*dto.CheckInAt))
		assert.Len(t, records.byKey, 1)
		assert.Len(t, publisher.events, 2)
	})

	t.Run("check-out with no check-in creates the sentinel record", func(t *testing.T) {
		svc, records, _ := newService(t, nil)

		dto, err := svc.CheckOut(ctx, CheckOutInput{CenterID: centerID, StudentID: studentID})
		require.NoError(t, err)

		require.NotNil(t, dto.CheckInAt)
		require.NotNil(t, dto.CheckOutAt)
		assert.True(t, dto.CheckInAt.Equal(*dto.CheckOutAt))
		assert.Len(t, records.byKey, 1)
	})

	t.Run("double check-out is rejected", func(t *testing.T) {
		svc, _, _ := newService(t, nil)

		_, err := svc.CheckOut(ctx, CheckOutInput{CenterID: centerID, StudentID: studentID})
		require.NoError(t, err)
		_, err = svc.CheckOut(ctx, CheckOutInput{CenterID: centerID, StudentID: studentID})
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
	})
}

func TestAttendanceService_ManualStatusUpdate(t *testing.T) {
	ctx := context.Background()
	centerID := uuid.New()
	studentID := uuid.New()

	t.Run("creates record without notification events", func(t *testing.T) {
		svc, records, publisher := newService(t, nil)

		dto, err := svc.ManualStatusUpdate(ctx, ManualStatusInput{
			CenterID: centerID, StudentID: studentID, Status: attendance.StatusAbsent,
		})
		require.NoError(t, err)

		assert.Equal(t, string(attendance.StatusAbsent), dto.Status)
		assert.Nil(t, dto.CheckInAt)
		assert.Len(t, records.byKey, 1)
		assert.Empty(t, publisher.events)
	})

	t.Run("overrides the status of an existing record", func(t *testing.T) {
		svc, _, _ := newService(t, nil)

		_, err := svc.CheckIn(ctx, CheckInInput{CenterID: centerID, StudentID: studentID})
		require.NoError(t, err)
		dto, err := svc.ManualStatusUpdate(ctx, ManualStatusInput{
			CenterID: centerID, StudentID: studentID, Status: attendance.StatusLate,
		})
		require.NoError(t, err)

		assert.Equal(t, string(attendance.StatusLate), dto.Status)
		assert.NotNil(t, dto.CheckInAt)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc, _, _ := newService(t, nil)

		_, err := svc.ManualStatusUpdate(ctx, ManualStatusInput{
			CenterID: centerID, StudentID: studentID, Status: attendance.Status("vanished"),
		})
		assert.Error(t, err)
	})
}
