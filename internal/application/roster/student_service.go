package roster

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/roster"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// StudentService manages the student roster
type StudentService struct {
	students    roster.StudentRepository
	enrollments roster.EnrollmentRepository
	logger      *zap.Logger
}

// NewStudentService creates a new student service
func NewStudentService(students roster.StudentRepository, enrollments roster.EnrollmentRepository, logger *zap.Logger) *StudentService {
	return &StudentService{students: students, enrollments: enrollments, logger: logger}
}

// Create enrolls a new student
func (s *StudentService) Create(ctx context.Context, input CreateStudentInput) (*StudentDTO, error) {
	student, err := roster.NewStudent(input.CenterID, input.Name, input.Grade)
	if err != nil {
		return nil, err
	}
	student.School = input.School
	student.SetContacts(input.Phone, input.MotherPhone, input.FatherPhone)

	if err := s.students.Save(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info("student enrolled",
		zap.String("center_id", input.CenterID.String()),
		zap.String("student_id", student.ID.String()),
		zap.String("grade", student.Grade))

	return toStudentDTO(student), nil
}

// Get returns a single student
func (s *StudentService) Get(ctx context.Context, centerID, studentID uuid.UUID) (*StudentDTO, error) {
	student, err := s.students.FindByIDForCenter(ctx, centerID, studentID)
	if err != nil {
		return nil, err
	}
	return toStudentDTO(student), nil
}

// List returns students for a center
func (s *StudentService) List(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (*shared.Paginated[StudentDTO], error) {
	if filter.Page <= 0 || filter.PageSize <= 0 {
		filter = shared.DefaultFilter()
	}

	students, err := s.students.FindAllForCenter(ctx, centerID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.students.CountForCenter(ctx, centerID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]StudentDTO, 0, len(students))
	for i := range students {
		dtos = append(dtos, *toStudentDTO(&students[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update updates a student's profile and contacts
func (s *StudentService) Update(ctx context.Context, input UpdateStudentInput) (*StudentDTO, error) {
	student, err := s.students.FindByIDForCenter(ctx, input.CenterID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		student.Name = *input.Name
	}
	if input.Grade != nil {
		student.Grade = *input.Grade
	}
	if input.School != nil {
		student.School = *input.School
	}

	phone, mother, father := student.Phone, student.MotherPhone, student.FatherPhone
	if input.Phone != nil {
		phone = *input.Phone
	}
	if input.MotherPhone != nil {
		mother = *input.MotherPhone
	}
	if input.FatherPhone != nil {
		father = *input.FatherPhone
	}
	student.SetContacts(phone, mother, father)

	if err := s.students.Save(ctx, student); err != nil {
		return nil, err
	}
	return toStudentDTO(student), nil
}

// Withdraw marks a student as withdrawn and drops active enrollments
func (s *StudentService) Withdraw(ctx context.Context, centerID, studentID uuid.UUID) error {
	student, err := s.students.FindByIDForCenter(ctx, centerID, studentID)
	if err != nil {
		return err
	}

	student.Withdraw()
	if err := s.students.Save(ctx, student); err != nil {
		return err
	}

	enrollments, err := s.enrollments.FindByStudent(ctx, centerID, studentID)
	if err != nil {
		s.logger.Warn("failed to load enrollments on withdrawal",
			zap.String("student_id", studentID.String()),
			zap.Error(err))
		return nil
	}
	for i := range enrollments {
		if enrollments[i].Status != roster.EnrollmentStatusActive {
			continue
		}
		enrollments[i].Drop()
		if err := s.enrollments.Save(ctx, &enrollments[i]); err != nil {
			s.logger.Warn("failed to drop enrollment on withdrawal",
				zap.String("enrollment_id", enrollments[i].ID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("student withdrawn",
		zap.String("center_id", centerID.String()),
		zap.String("student_id", studentID.String()))
	return nil
}

// Pause suspends a student without withdrawing
func (s *StudentService) Pause(ctx context.Context, centerID, studentID uuid.UUID) error {
	student, err := s.students.FindByIDForCenter(ctx, centerID, studentID)
	if err != nil {
		return err
	}
	student.Pause()
	return s.students.Save(ctx, student)
}

// Reactivate returns a paused or withdrawn student to active status
func (s *StudentService) Reactivate(ctx context.Context, centerID, studentID uuid.UUID) error {
	student, err := s.students.FindByIDForCenter(ctx, centerID, studentID)
	if err != nil {
		return err
	}
	student.Reactivate()
	return s.students.Save(ctx, student)
}
