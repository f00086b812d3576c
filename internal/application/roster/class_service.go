package roster

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/roster"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// ClassService manages classes and enrollments
type ClassService struct {
	classes     roster.ClassRepository
	teachers    roster.TeacherRepository
	students    roster.StudentRepository
	enrollments roster.EnrollmentRepository
	logger      *zap.Logger
}

// NewClassService creates a new class service
func NewClassService(
	classes roster.ClassRepository,
	teachers roster.TeacherRepository,
	students roster.StudentRepository,
	enrollments roster.EnrollmentRepository,
	logger *zap.Logger,
) *ClassService {
	return &ClassService{
		classes:     classes,
		teachers:    teachers,
		students:    students,
		enrollments: enrollments,
		logger:      logger,
	}
}

// Create creates a class
func (s *ClassService) Create(ctx context.Context, input CreateClassInput) (*ClassDTO, error) {
	class, err := roster.NewClass(input.CenterID, input.Name, input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}
	if input.TeacherID != nil {
		if _, err := s.teachers.FindByIDForCenter(ctx, input.CenterID, *input.TeacherID); err != nil {
			return nil, err
		}
		class.AssignTeacher(*input.TeacherID)
	}
	if len(input.DaysOfWeek) > 0 {
		class.DaysOfWeek = input.DaysOfWeek
	}
	if input.LateAfterMinutes != nil {
		if *input.LateAfterMinutes < 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "Late threshold cannot be negative")
		}
		class.LateAfterMinutes = *input.LateAfterMinutes
	}

	if err := s.classes.Save(ctx, class); err != nil {
		return nil, err
	}

	s.logger.Info("class created",
		zap.String("center_id", input.CenterID.String()),
		zap.String("class_id", class.ID.String()))

	return toClassDTO(class), nil
}

// Get returns a single class
func (s *ClassService) Get(ctx context.Context, centerID, classID uuid.UUID) (*ClassDTO, error) {
	class, err := s.classes.FindByIDForCenter(ctx, centerID, classID)
	if err != nil {
		return nil, err
	}
	return toClassDTO(class), nil
}

// List returns classes for a center
func (s *ClassService) List(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (*shared.Paginated[ClassDTO], error) {
	if filter.Page <= 0 || filter.PageSize <= 0 {
		filter = shared.DefaultFilter()
	}

	classes, err := s.classes.FindAllForCenter(ctx, centerID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.classes.CountForCenter(ctx, centerID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]ClassDTO, 0, len(classes))
	for i := range classes {
		dtos = append(dtos, *toClassDTO(&classes[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update updates a class's schedule and teacher
func (s *ClassService) Update(ctx context.Context, input UpdateClassInput) (*ClassDTO, error) {
	class, err := s.classes.FindByIDForCenter(ctx, input.CenterID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		class.Name = *input.Name
	}
	if input.StartTime != nil || input.EndTime != nil {
		start, end := class.StartTime, class.EndTime
		if input.StartTime != nil {
			start = *input.StartTime
		}
		if input.EndTime != nil {
			end = *input.EndTime
		}
		// revalidate through the constructor's rules
		if _, err := roster.NewClass(input.CenterID, class.Name, start, end); err != nil {
			return nil, err
		}
		class.StartTime = start
		class.EndTime = end
	}
	if input.TeacherID != nil {
		if _, err := s.teachers.FindByIDForCenter(ctx, input.CenterID, *input.TeacherID); err != nil {
			return nil, err
		}
		class.AssignTeacher(*input.TeacherID)
	}
	if input.DaysOfWeek != nil {
		class.DaysOfWeek = input.DaysOfWeek
	}
	if input.LateAfterMinutes != nil {
		if *input.LateAfterMinutes < 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "Late threshold cannot be negative")
		}
		class.LateAfterMinutes = *input.LateAfterMinutes
	}

	if err := s.classes.Save(ctx, class); err != nil {
		return nil, err
	}
	return toClassDTO(class), nil
}

// Deactivate retires a class
func (s *ClassService) Deactivate(ctx context.Context, centerID, classID uuid.UUID) error {
	class, err := s.classes.FindByIDForCenter(ctx, centerID, classID)
	if err != nil {
		return err
	}
	class.Deactivate()
	return s.classes.Save(ctx, class)
}

// Enroll adds a student to a class
func (s *ClassService) Enroll(ctx context.Context, centerID, studentID, classID uuid.UUID) (*EnrollmentDTO, error) {
	student, err := s.students.FindByIDForCenter(ctx, centerID, studentID)
	if err != nil {
		return nil, err
	}
	if !student.IsActive() {
		return nil, shared.NewDomainError("STUDENT_INACTIVE", "Only active students can be enrolled")
	}
	if _, err := s.classes.FindByIDForCenter(ctx, centerID, classID); err != nil {
		return nil, err
	}

	if existing, err := s.enrollments.FindActive(ctx, centerID, studentID, classID); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_ENROLLED", "Student is already enrolled in this class")
	} else if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}

	enrollment := roster.NewEnrollment(centerID, studentID, classID)
	if err := s.enrollments.Save(ctx, enrollment); err != nil {
		return nil, err
	}
	return toEnrollmentDTO(enrollment), nil
}

// Unenroll drops a student from a class
func (s *ClassService) Unenroll(ctx context.Context, centerID, studentID, classID uuid.UUID) error {
	enrollment, err := s.enrollments.FindActive(ctx, centerID, studentID, classID)
	if err != nil {
		return err
	}
	enrollment.Drop()
	return s.enrollments.Save(ctx, enrollment)
}

// Roster returns the enrollments of a class
func (s *ClassService) Roster(ctx context.Context, centerID, classID uuid.UUID) ([]EnrollmentDTO, error) {
	enrollments, err := s.enrollments.FindByClass(ctx, centerID, classID)
	if err != nil {
		return nil, err
	}
	dtos := make([]EnrollmentDTO, 0, len(enrollments))
	for i := range enrollments {
		dtos = append(dtos, *toEnrollmentDTO(&enrollments[i]))
	}
	return dtos, nil
}
