package maintenance

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
	"github.com/tutorhub/backend/internal/domain/notification"
	"github.com/tutorhub/backend/internal/domain/roster"
)

type fakeWorkRecordRepo struct {
	attendance.WorkRecordRepository
	open    []attendance.WorkRecord
	deleted int64
}

func (f *fakeWorkRecordRepo) FindOpenBefore(_ context.Context, _ uuid.UUID, day time.Time, _ int) ([]attendance.WorkRecord, error) {
	var out []attendance.WorkRecord
	for _, r := range f.open {
		if !r.NoCheckOut && r.CheckOutAt == nil && r.WorkDate.Before(day) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeWorkRecordRepo) Save(_ context.Context, record *attendance.WorkRecord) error {
	for i := range f.open {
		if f.open[i].ID == record.ID {
			f.open[i] = *record
		}
	}
	return nil
}

func (f *fakeWorkRecordRepo) DeleteOlderThan(context.Context, uuid.UUID, time.Time) (int64, error) {
	return f.deleted, nil
}

type fakeRecordRepo struct {
	attendance.RecordRepository
	deleted int64
}

func (f *fakeRecordRepo) DeleteOlderThan(context.Context, uuid.UUID, time.Time) (int64, error) {
	return f.deleted, nil
}

type fakeNotifLogRepo struct {
	notification.LogRepository
	deleted int64
}

func (f *fakeNotifLogRepo) DeleteOlderThan(context.Context, uuid.UUID, time.Time) (int64, error) {
	return f.deleted, nil
}

type fakeStudentRepo struct {
	roster.StudentRepository
	students []roster.Student
	saved    int
}

func (f *fakeStudentRepo) FindPromotable(_ context.Context, offset, limit int) ([]roster.Student, error) {
	if offset >= len(f.students) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.students) {
		end = len(f.students)
	}
	return f.students[offset:end], nil
}

func (f *fakeStudentRepo) Save(_ context.Context, student *roster.Student) error {
	for i := range f.students {
		if f.students[i].ID == student.ID {
			f.students[i] = *student
		}
	}
	f.saved++
	return nil
}

type fakeCenterRepo struct {
	identity.CenterRepository
	centers []identity.Center
}

func (f *fakeCenterRepo) FindActive(context.Context) ([]identity.Center, error) {
	return f.centers, nil
}

type fakeWatermark struct {
	year int
}

func (f *fakeWatermark) LastPromotionYear(context.Context) (int, error) { return f.year, nil }
func (f *fakeWatermark) SetLastPromotionYear(_ context.Context, year int) error {
	f.year = year
	return nil
}

func newTestCenter(t *testing.T) identity.Center {
	t.Helper()
	center, err := identity.NewCenter("c1", "Center One")
	require.NoError(t, err)
	return *center
}

func TestService_MarkMissingCheckouts(t *testing.T) {
	centerID := uuid.New()
	teacherID := uuid.New()
	yesterday := attendance.CalendarDay(time.Now().AddDate(0, 0, -1), time.UTC)
	today := attendance.CalendarDay(time.Now(), time.UTC)

	open := attendance.NewWorkRecord(centerID, teacherID, yesterday, yesterday.Add(9*time.Hour))
	completed := attendance.NewWorkRecord(centerID, uuid.New(), yesterday, yesterday.Add(9*time.Hour))
	require.NoError(t, completed.Punch(yesterday.Add(18*time.Hour)))
	todayOpen := attendance.NewWorkRecord(centerID, uuid.New(), today, today.Add(9*time.Hour))

	workRepo := &fakeWorkRecordRepo{open: []attendance.WorkRecord{*open, *completed, *todayOpen}}
	svc := NewService(workRepo, &fakeRecordRepo{}, &fakeNotifLogRepo{}, &fakeStudentRepo{}, &fakeCenterRepo{centers: []identity.Center{newTestCenter(t)}}, &fakeWatermark{}, zap.NewNop())

	t.Run("flags only open records from before today", func(t *testing.T) {
		flagged, err := svc.MarkMissingCheckouts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, flagged)

		assert.True(t, workRepo.open[0].NoCheckOut)
		assert.Nil(t, workRepo.open[0].CheckOutAt)
		assert.False(t, workRepo.open[1].NoCheckOut)
		assert.False(t, workRepo.open[2].NoCheckOut)
	})

	t.Run("second run changes nothing", func(t *testing.T) {
		flagged, err := svc.MarkMissingCheckouts(context.Background())
		require.NoError(t, err)
		assert.Zero(t, flagged)
	})
}

func TestService_PromoteGrades(t *testing.T) {
	newStudents := func(t *testing.T) []roster.Student {
		t.Helper()
		s1, err := roster.NewStudent(uuid.New(), "A", roster.GradeE6)
		require.NoError(t, err)
		s2, err := roster.NewStudent(uuid.New(), "B", roster.GradeGraduate)
		require.NoError(t, err)
		s3, err := roster.NewStudent(uuid.New(), "C", roster.GradeH3)
		require.NoError(t, err)
		return []roster.Student{*s1, *s2, *s3}
	}

	t.Run("advances one step and saturates at terminal grade", func(t *testing.T) {
		students := &fakeStudentRepo{students: newStudents(t)}
		watermark := &fakeWatermark{year: time.Now().Year() - 1}
		svc := NewService(&fakeWorkRecordRepo{}, &fakeRecordRepo{}, &fakeNotifLogRepo{}, students, &fakeCenterRepo{}, watermark, zap.NewNop())

		promoted, err := svc.PromoteGrades(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, promoted)
		assert.Equal(t, roster.GradeM1, students.students[0].Grade)
		assert.Equal(t, roster.GradeGraduate, students.students[1].Grade)
		assert.Equal(t, roster.GradeGraduate, students.students[2].Grade)
		assert.Equal(t, time.Now().Year(), watermark.year)
	})

	t.Run("second run in the same year is a no-op", func(t *testing.T) {
		students := &fakeStudentRepo{students: newStudents(t)}
		watermark := &fakeWatermark{year: time.Now().Year()}
		svc := NewService(&fakeWorkRecordRepo{}, &fakeRecordRepo{}, &fakeNotifLogRepo{}, students, &fakeCenterRepo{}, watermark, zap.NewNop())

		promoted, err := svc.PromoteGrades(context.Background())
		require.NoError(t, err)

		assert.Zero(t, promoted)
		assert.Equal(t, roster.GradeE6, students.students[0].Grade)
	})

	t.Run("resuming a crashed run skips already-saved students", func(t *testing.T) {
		// Watermark still on last year (the crashed run never reached it), but
		// the first student was already promoted and saved before the crash.
		batch := newStudents(t)
		require.True(t, batch[0].Promote(time.Now().Year()))
		students := &fakeStudentRepo{students: batch}
		watermark := &fakeWatermark{year: time.Now().Year() - 1}
		svc := NewService(&fakeWorkRecordRepo{}, &fakeRecordRepo{}, &fakeNotifLogRepo{}, students, &fakeCenterRepo{}, watermark, zap.NewNop())

		promoted, err := svc.PromoteGrades(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, promoted)
		assert.Equal(t, roster.GradeM1, students.students[0].Grade)
		assert.Equal(t, roster.GradeGraduate, students.students[2].Grade)
		assert.Equal(t, time.Now().Year(), watermark.year)
	})
}

func TestService_PruneExpired(t *testing.T) {
	svc := NewService(
		&fakeWorkRecordRepo{deleted: 3},
		&fakeRecordRepo{deleted: 5},
		&fakeNotifLogRepo{deleted: 2},
		&fakeStudentRepo{},
		&fakeCenterRepo{centers: []identity.Center{newTestCenter(t)}},
		&fakeWatermark{},
		zap.NewNop(),
	)

	deleted, err := svc.PruneExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), deleted)
}
