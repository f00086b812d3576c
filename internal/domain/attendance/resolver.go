package attendance

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// StaffPhone pairs a staff member with the phone their legacy check-in code
// derives from.
type StaffPhone struct {
	TeacherID uuid.UUID
	Phone     string
}

// StaffDirectory lists active staff for the legacy phone-derived fallback.
// Implemented by the roster teacher repository. The slice is in hire order so
// the fallback scan stops at the same person every time when two phones
// derive the same code.
type StaffDirectory interface {
	ActiveStaffPhones(ctx context.Context, centerID uuid.UUID) ([]StaffPhone, error)
}

// Resolution is the outcome of resolving a 4-digit code to a person
type Resolution struct {
	OwnerKind OwnerKind
	OwnerID   uuid.UUID
	// LegacyPhoneMatch is true when the owner was found via the phone-derived
	// staff fallback rather than a registered code
	LegacyPhoneMatch bool
}

// Resolver maps a punched code to a student or staff member. Resolution order
// is fixed: registered student code, then registered staff code, then the
// phone-derived staff fallback. The first match wins; later candidates are
// never consulted.
type Resolver struct {
	codes CodeRepository
	staff StaffDirectory
}

// NewResolver creates a code resolver
func NewResolver(codes CodeRepository, staff StaffDirectory) *Resolver {
	return &Resolver{codes: codes, staff: staff}
}

// Resolve identifies who a code belongs to. Returns ErrCodeNotFound when no
// student code, staff code, or phone derivation matches.
func (r *Resolver) Resolve(ctx context.Context, centerID uuid.UUID, value string) (*Resolution, error) {
	if err := ValidateCodeValue(value); err != nil {
		return nil, err
	}

	code, err := r.codes.FindActiveByValue(ctx, centerID, value, OwnerKindStudent)
	if err == nil {
		return &Resolution{OwnerKind: OwnerKindStudent, OwnerID: code.OwnerID}, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	code, err = r.codes.FindActiveByValue(ctx, centerID, value, OwnerKindStaff)
	if err == nil {
		return &Resolution{OwnerKind: OwnerKindStaff, OwnerID: code.OwnerID}, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	// Legacy fallback: staff hired before code registration existed can still
	// punch with digits derived from their phone number. First match wins.
	phones, err := r.staff.ActiveStaffPhones(ctx, centerID)
	if err != nil {
		return nil, err
	}
	for _, staff := range phones {
		if PhoneMatchesCode(staff.Phone, value) {
			return &Resolution{OwnerKind: OwnerKindStaff, OwnerID: staff.TeacherID, LegacyPhoneMatch: true}, nil
		}
	}

	return nil, ErrCodeNotFound
}
