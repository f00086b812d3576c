package attendance

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/attendance"
	"github.com/tutorhub/backend/internal/domain/roster"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// CodeService manages the per-center attendance code registry. The registry's
// partial unique index on (center, code) where active enforces the shared
// namespace at write time; the pre-checks here only produce friendlier errors.
type CodeService struct {
	codes    attendance.CodeRepository
	students roster.StudentRepository
	teachers roster.TeacherRepository
	logger   *zap.Logger
}

// NewCodeService creates a new code service
func NewCodeService(
	codes attendance.CodeRepository,
	students roster.StudentRepository,
	teachers roster.TeacherRepository,
	logger *zap.Logger,
) *CodeService {
	return &CodeService{
		codes:    codes,
		students: students,
		teachers: teachers,
		logger:   logger,
	}
}

// Register registers a code for a student or staff member. With no proposed
// code the value is derived from the owner's phone: last four digits first,
// then digits four through seven; if both derivations collide the caller must
// retry with a manual code.
func (s *CodeService) Register(ctx context.Context, input RegisterCodeInput) (*CodeDTO, error) {
	if input.ProposedCode != "" {
		return s.register(ctx, input.CenterID, input.OwnerID, input.OwnerKind, input.ProposedCode)
	}

	phone, err := s.ownerPhone(ctx, input.CenterID, input.OwnerID, input.OwnerKind)
	if err != nil {
		return nil, err
	}

	candidates := attendance.PhoneCodeCandidates(phone)
	if len(candidates) == 0 {
		return nil, shared.NewDomainError("NO_PHONE_DIGITS", "Owner has no phone number to derive a code from")
	}

	for _, candidate := range candidates {
		dto, err := s.register(ctx, input.CenterID, input.OwnerID, input.OwnerKind, candidate)
		if err == nil {
			return dto, nil
		}
		if !errors.Is(err, shared.ErrCodeCollision) {
			return nil, err
		}
	}
	return nil, shared.ErrCodeCollision
}

func (s *CodeService) register(ctx context.Context, centerID, ownerID uuid.UUID, kind attendance.OwnerKind, value string) (*CodeDTO, error) {
	code, err := attendance.NewCode(centerID, ownerID, kind, value)
	if err != nil {
		return nil, err
	}

	taken, err := s.codes.ExistsActiveValue(ctx, centerID, value)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.ErrCodeCollision
	}

	if err := s.codes.Save(ctx, code); err != nil {
		// Simultaneous registrations race past the pre-check; the partial
		// unique index decides.
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.ErrCodeCollision
		}
		s.logger.Error("Failed to save attendance code",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
		return nil, err
	}

	dto := toCodeDTO(code)
	return &dto, nil
}

// Deactivate retires a code without deleting it
func (s *CodeService) Deactivate(ctx context.Context, centerID, codeID uuid.UUID) error {
	code, err := s.codes.FindByIDForCenter(ctx, centerID, codeID)
	if err != nil {
		return err
	}
	code.Deactivate()
	return s.codes.Save(ctx, code)
}

// ListForOwner returns the active codes registered to an owner
func (s *CodeService) ListForOwner(ctx context.Context, centerID, ownerID uuid.UUID) ([]CodeDTO, error) {
	codes, err := s.codes.FindActiveByOwner(ctx, centerID, ownerID)
	if err != nil {
		return nil, err
	}
	dtos := make([]CodeDTO, 0, len(codes))
	for i := range codes {
		dtos = append(dtos, toCodeDTO(&codes[i]))
	}
	return dtos, nil
}

// AutoGenerateMissing backfills codes for active students who lack one.
// Students whose phone derivations all collide are skipped and reported, not
// failed.
func (s *CodeService) AutoGenerateMissing(ctx context.Context, centerID uuid.UUID) (*BackfillResult, error) {
	students, err := s.students.FindWithoutActiveCode(ctx, centerID)
	if err != nil {
		return nil, err
	}

	result := &BackfillResult{Codes: make([]CodeDTO, 0, len(students))}
	for i := range students {
		student := &students[i]
		dto, err := s.Register(ctx, RegisterCodeInput{
			CenterID:  centerID,
			OwnerID:   student.ID,
			OwnerKind: attendance.OwnerKindStudent,
		})
		if err != nil {
			s.logger.Info("Skipping student in code backfill",
				zap.String("student_id", student.ID.String()),
				zap.Error(err))
			result.Skipped++
			result.SkippedID = append(result.SkippedID, student.ID)
			continue
		}
		result.Generated++
		result.Codes = append(result.Codes, *dto)
	}
	return result, nil
}

func (s *CodeService) ownerPhone(ctx context.Context, centerID, ownerID uuid.UUID, kind attendance.OwnerKind) (string, error) {
	switch kind {
	case attendance.OwnerKindStudent:
		student, err := s.students.FindByIDForCenter(ctx, centerID, ownerID)
		if err != nil {
			return "", err
		}
		if student.Phone != "" {
			return student.Phone, nil
		}
		phone, _ := student.GuardianPhone()
		return phone, nil
	case attendance.OwnerKindStaff:
		teacher, err := s.teachers.FindByIDForCenter(ctx, centerID, ownerID)
		if err != nil {
			return "", err
		}
		return teacher.Phone, nil
	default:
		return "", shared.NewDomainError("INVALID_OWNER_KIND", "Owner kind must be student or staff")
	}
}
