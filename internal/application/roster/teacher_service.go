package roster

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/roster"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// TeacherService manages the staff roster
type TeacherService struct {
	teachers roster.TeacherRepository
	logger   *zap.Logger
}

// NewTeacherService creates a new teacher service
func NewTeacherService(teachers roster.TeacherRepository, logger *zap.Logger) *TeacherService {
	return &TeacherService{teachers: teachers, logger: logger}
}

// Create registers a teacher
func (s *TeacherService) Create(ctx context.Context, input CreateTeacherInput) (*TeacherDTO, error) {
	teacher, err := roster.NewTeacher(input.CenterID, input.Name, input.Phone)
	if err != nil {
		return nil, err
	}
	teacher.Subject = input.Subject

	if err := s.teachers.Save(ctx, teacher); err != nil {
		return nil, err
	}

	s.logger.Info("teacher registered",
		zap.String("center_id", input.CenterID.String()),
		zap.String("teacher_id", teacher.ID.String()))

	return toTeacherDTO(teacher), nil
}

// Get returns a single teacher
func (s *TeacherService) Get(ctx context.Context, centerID, teacherID uuid.UUID) (*TeacherDTO, error) {
	teacher, err := s.teachers.FindByIDForCenter(ctx, centerID, teacherID)
	if err != nil {
		return nil, err
	}
	return toTeacherDTO(teacher), nil
}

// List returns teachers for a center
func (s *TeacherService) List(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (*shared.Paginated[TeacherDTO], error) {
	if filter.Page <= 0 || filter.PageSize <= 0 {
		filter = shared.DefaultFilter()
	}

	teachers, err := s.teachers.FindAllForCenter(ctx, centerID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.teachers.CountForCenter(ctx, centerID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]TeacherDTO, 0, len(teachers))
	for i := range teachers {
		dtos = append(dtos, *toTeacherDTO(&teachers[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update updates a teacher's contact info and subject
func (s *TeacherService) Update(ctx context.Context, centerID, teacherID uuid.UUID, name, phone, subject *string) (*TeacherDTO, error) {
	teacher, err := s.teachers.FindByIDForCenter(ctx, centerID, teacherID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		teacher.Name = *name
	}
	if phone != nil {
		teacher.SetPhone(*phone)
	}
	if subject != nil {
		teacher.Subject = *subject
	}

	if err := s.teachers.Save(ctx, teacher); err != nil {
		return nil, err
	}
	return toTeacherDTO(teacher), nil
}

// Deactivate marks a teacher as no longer on staff. Their attendance codes
// are deactivated separately by the code service.
func (s *TeacherService) Deactivate(ctx context.Context, centerID, teacherID uuid.UUID) error {
	teacher, err := s.teachers.FindByIDForCenter(ctx, centerID, teacherID)
	if err != nil {
		return err
	}
	teacher.Deactivate()
	if err := s.teachers.Save(ctx, teacher); err != nil {
		return err
	}

	s.logger.Info("teacher deactivated",
		zap.String("center_id", centerID.String()),
		zap.String("teacher_id", teacherID.String()))
	return nil
}
