package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/attendance"
	"github.com/tutorhub/backend/internal/domain/identity"
	"github.com/tutorhub/backend/internal/domain/roster"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// Punch interpretations reported to the pad
const (
	PunchActionCheckIn  = "check_in"
	PunchActionCheckOut = "check_out"
)

// StaffAttendanceService drives staff work records. The day's first punch is
// a check-in and the second a check-out, whatever the staff member intended;
// a third punch is rejected.
type StaffAttendanceService struct {
	workRecords attendance.WorkRecordRepository
	settings    attendance.StaffSettingsRepository
	teachers    roster.TeacherRepository
	centers     identity.CenterRepository
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewStaffAttendanceService creates a new staff attendance service
func NewStaffAttendanceService(
	workRecords attendance.WorkRecordRepository,
	settings attendance.StaffSettingsRepository,
	teachers roster.TeacherRepository,
	centers identity.CenterRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *StaffAttendanceService {
	return &StaffAttendanceService{
		workRecords: workRecords,
		settings:    settings,
		teachers:    teachers,
		centers:     centers,
		publisher:   publisher,
		logger:      logger,
	}
}

// Punch applies one pad punch for a staff member
func (s *StaffAttendanceService) Punch(ctx context.Context, centerID, teacherID uuid.UUID) (*WorkRecordDTO, error) {
	center, err := s.centers.FindByID(ctx, centerID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	day := attendance.CalendarDay(now, center.Location())

	action := PunchActionCheckIn
	record, err := s.workRecords.FindByTeacherAndDay(ctx, centerID, teacherID, day)
	switch {
	case err == nil:
		if err := record.Punch(now); err != nil {
			return nil, err
		}
		action = PunchActionCheckOut
	case errors.Is(err, shared.ErrNotFound):
		record = attendance.NewWorkRecord(centerID, teacherID, day, now)
	default:
		return nil, err
	}

	if err := s.workRecords.Save(ctx, record); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.ErrAlreadyProcessed
		}
		s.logger.Error("Failed to save work record",
			zap.String("teacher_id", teacherID.String()),
			zap.Error(err))
		return nil, err
	}

	if events := record.GetDomainEvents(); s.publisher != nil && len(events) > 0 {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish staff attendance events",
				zap.String("teacher_id", teacherID.String()),
				zap.Error(err))
		}
		record.ClearDomainEvents()
	}

	dto := toWorkRecordDTO(record, action)
	return &dto, nil
}

// ListForTeacher returns a teacher's work records in a date range
func (s *StaffAttendanceService) ListForTeacher(ctx context.Context, centerID, teacherID uuid.UUID, from, to time.Time) ([]WorkRecordDTO, error) {
	records, err := s.workRecords.FindByTeacherRange(ctx, centerID, teacherID, from, to)
	if err != nil {
		return nil, err
	}
	dtos := make([]WorkRecordDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, toWorkRecordDTO(&records[i], ""))
	}
	return dtos, nil
}

// StaffSettingsInput configures a staff member's check-in behavior
type StaffSettingsInput struct {
	CenterID        uuid.UUID
	TeacherID       uuid.UUID
	Recipients      []string
	MessageTemplate string
}

// UpdateSettings sets notification recipients and template for a staff
// member's punches, creating the settings row on first use. The unique index
// on (center, teacher) backstops two admins saving the first version at once.
func (s *StaffAttendanceService) UpdateSettings(ctx context.Context, input StaffSettingsInput) error {
	settings, err := s.settings.FindByTeacher(ctx, input.CenterID, input.TeacherID)
	switch {
	case err == nil:
	case errors.Is(err, shared.ErrNotFound):
		if _, err := s.teachers.FindByIDForCenter(ctx, input.CenterID, input.TeacherID); err != nil {
			return err
		}
		settings = attendance.NewStaffSettings(input.CenterID, input.TeacherID)
	default:
		return err
	}
	settings.SetRecipients(input.Recipients)
	settings.SetTemplate(input.MessageTemplate)
	if err := s.settings.Save(ctx, settings); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return shared.ErrAlreadyProcessed
		}
		return err
	}
	return nil
}
