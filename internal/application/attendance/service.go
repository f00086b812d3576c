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

// AttendanceService drives the student check-in/check-out ledger. State
// transitions are enforced by the Record aggregate; the unique index on the
// (student, day, scope) key backstops concurrent creates. Notification
// delivery rides on the published events and never blocks or fails a call.
type AttendanceService struct {
	records   attendance.RecordRepository
	students  roster.StudentRepository
	classes   roster.ClassRepository
	centers   identity.CenterRepository
	resolver  *attendance.Resolver
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(
	records attendance.RecordRepository,
	students roster.StudentRepository,
	classes roster.ClassRepository,
	centers identity.CenterRepository,
	resolver *attendance.Resolver,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *AttendanceService {
	return &AttendanceService{
		records:   records,
		students:  students,
		classes:   classes,
		centers:   centers,
		resolver:  resolver,
		publisher: publisher,
		logger:    logger,
	}
}

// ValidateCode resolves a pad code to a student or staff member. Used by the
// front-desk pad to pick the follow-up flow.
func (s *AttendanceService) ValidateCode(ctx context.Context, centerID uuid.UUID, code string) (*ResolutionDTO, error) {
	res, err := s.resolver.Resolve(ctx, centerID, code)
	if err != nil {
		return nil, err
	}

	dto := &ResolutionDTO{Kind: string(res.OwnerKind)}
	switch res.OwnerKind {
	case attendance.OwnerKindStudent:
		dto.StudentID = &res.OwnerID
		if student, err := s.students.FindByIDForCenter(ctx, centerID, res.OwnerID); err == nil {
			dto.Name = student.Name
		}
	case attendance.OwnerKindStaff:
		dto.TeacherID = &res.OwnerID
	}
	return dto, nil
}

// CheckIn records a student's arrival for the day
func (s *AttendanceService) CheckIn(ctx context.Context, input CheckInInput) (*RecordDTO, error) {
	center, err := s.centers.FindByID(ctx, input.CenterID)
	if err != nil {
		return nil, err
	}
	loc := center.Location()
	now := time.Now()
	day := attendance.CalendarDay(now, loc)

	// Lateness is evaluated against the class schedule regardless of whether
	// a record already exists; a manual roll-call row must not mask a late
	// arrival.
	late := false
	if input.ClassID != nil {
		class, err := s.classes.FindByIDForCenter(ctx, input.CenterID, *input.ClassID)
		if err != nil {
			return nil, err
		}
		late = class.IsLateArrival(now.In(loc))
	}

	record, err := s.records.FindByStudentAndDay(ctx, input.CenterID, input.StudentID, day, input.ClassID)
	switch {
	case err == nil:
		if err := record.CheckIn(now, late); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		record = attendance.NewCheckIn(input.CenterID, input.StudentID, input.ClassID, day, now, late)
	default:
		return nil, err
	}

	if err := s.records.Save(ctx, record); err != nil {
		// Two pads double-tapped: the unique key on (student, day, scope)
		// rejects the second create.
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, attendance.ErrAlreadyCheckedIn
		}
		s.logger.Error("Failed to save attendance record",
			zap.String("student_id", input.StudentID.String()),
			zap.Error(err))
		return nil, err
	}

	s.publishEvents(ctx, record)

	dto := toRecordDTO(record)
	return &dto, nil
}

// CheckOut records a student's departure. A check-out with no observed
// check-in still creates a completed record with the sentinel timestamps.
func (s *AttendanceService) CheckOut(ctx context.Context, input CheckOutInput) (*RecordDTO, error) {
	center, err := s.centers.FindByID(ctx, input.CenterID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	day := attendance.CalendarDay(now, center.Location())

	record, err := s.records.FindByStudentAndDay(ctx, input.CenterID, input.StudentID, day, input.ClassID)
	switch {
	case err == nil:
		if err := record.CheckOut(now); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		record = attendance.NewCheckOutOnly(input.CenterID, input.StudentID, input.ClassID, day, now)
	default:
		return nil, err
	}

	if err := s.records.Save(ctx, record); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, attendance.ErrAlreadyCheckedOut
		}
		s.logger.Error("Failed to save attendance record",
			zap.String("student_id", input.StudentID.String()),
			zap.Error(err))
		return nil, err
	}

	s.publishEvents(ctx, record)

	dto := toRecordDTO(record)
	return &dto, nil
}

// ManualStatusUpdate sets a roll-call status directly. Creates the day's
// record if none exists and never triggers notification dispatch.
func (s *AttendanceService) ManualStatusUpdate(ctx context.Context, input ManualStatusInput) (*RecordDTO, error) {
	center, err := s.centers.FindByID(ctx, input.CenterID)
	if err != nil {
		return nil, err
	}
	day := attendance.CalendarDay(time.Now(), center.Location())

	record, err := s.records.FindByStudentAndDay(ctx, input.CenterID, input.StudentID, day, input.ClassID)
	switch {
	case err == nil:
		if err := record.MarkStatus(input.Status); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		record, err = attendance.NewManualRecord(input.CenterID, input.StudentID, input.ClassID, day, input.Status)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.records.Save(ctx, record); err != nil {
		return nil, err
	}

	dto := toRecordDTO(record)
	return &dto, nil
}

// ListForDate returns all records for a center on a calendar day, enriched
// with student names
func (s *AttendanceService) ListForDate(ctx context.Context, centerID uuid.UUID, date time.Time, filter shared.Filter) (*RecordListResult, error) {
	center, err := s.centers.FindByID(ctx, centerID)
	if err != nil {
		return nil, err
	}
	day := attendance.CalendarDay(date, center.Location())

	records, total, err := s.records.FindByDay(ctx, centerID, day, filter)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string)
	dtos := make([]RecordDTO, 0, len(records))
	for i := range records {
		dto := toRecordDTO(&records[i])
		name, ok := names[dto.StudentID]
		if !ok {
			if student, err := s.students.FindByIDForCenter(ctx, centerID, dto.StudentID); err == nil {
				name = student.Name
			}
			names[dto.StudentID] = name
		}
		dto.StudentName = name
		dtos = append(dtos, dto)
	}

	paginated := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &RecordListResult{
		Records:    paginated.Items,
		Total:      paginated.Total,
		Page:       paginated.Page,
		PageSize:   paginated.PageSize,
		TotalPages: paginated.TotalPages,
	}, nil
}

// ListForStudent returns a student's records in a date range, enriched with
// class names
func (s *AttendanceService) ListForStudent(ctx context.Context, centerID, studentID uuid.UUID, from, to time.Time) ([]RecordDTO, error) {
	records, err := s.records.FindByStudentRange(ctx, centerID, studentID, from, to)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string)
	dtos := make([]RecordDTO, 0, len(records))
	for i := range records {
		dto := toRecordDTO(&records[i])
		if dto.ClassID != nil {
			name, ok := names[*dto.ClassID]
			if !ok {
				if class, err := s.classes.FindByIDForCenter(ctx, centerID, *dto.ClassID); err == nil {
					name = class.Name
				}
				names[*dto.ClassID] = name
			}
			dto.ClassName = name
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// publishEvents hands the record's pending events to the publisher. Delivery
// is fire-and-forget: a publish failure is logged and never surfaced, the
// ledger mutation has already succeeded.
func (s *AttendanceService) publishEvents(ctx context.Context, record *attendance.Record) {
	events := record.GetDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish attendance events",
			zap.String("record_id", record.ID.String()),
			zap.Error(err))
	}
	record.ClearDomainEvents()
}
