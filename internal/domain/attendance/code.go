package attendance

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// OwnerKind tags who a 4-digit code belongs to. Student PINs and staff
// check-in codes share one namespace per center.
type OwnerKind string

const (
	OwnerKindStudent OwnerKind = "student"
	OwnerKindStaff   OwnerKind = "staff"
)

// CodeLength is the fixed length of attendance codes
const CodeLength = 4

var codePattern = regexp.MustCompile(`^[0-9]{4}$`)

// Code is a 4-digit attendance code registered to a student or staff member.
// Within a center, at most one active code may hold a given value across both
// owner kinds; the registry enforces this at write time.
type Code struct {
	shared.CenterAggregateRoot
	OwnerID   uuid.UUID
	OwnerKind OwnerKind
	Value     string
	Active    bool
}

// NewCode creates a new active attendance code
func NewCode(centerID, ownerID uuid.UUID, kind OwnerKind, value string) (*Code, error) {
	if err := ValidateCodeValue(value); err != nil {
		return nil, err
	}
	if kind != OwnerKindStudent && kind != OwnerKindStaff {
		return nil, shared.NewDomainError("INVALID_OWNER_KIND", "Owner kind must be student or staff")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Owner ID is required")
	}

	code := &Code{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		OwnerID:             ownerID,
		OwnerKind:           kind,
		Value:               value,
		Active:              true,
	}
	code.AddDomainEvent(NewCodeRegisteredEvent(code))
	return code, nil
}

// Deactivate marks the code inactive. Codes are never hard-deleted so past
// attendance records keep a resolvable audit trail.
func (c *Code) Deactivate() {
	if !c.Active {
		return
	}
	c.Active = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewCodeDeactivatedEvent(c))
}

// ValidateCodeValue checks that a value is exactly four ASCII digits
func ValidateCodeValue(value string) error {
	if !codePattern.MatchString(value) {
		return shared.NewDomainError("INVALID_CODE", "Attendance code must be exactly 4 digits")
	}
	return nil
}

// PhoneCodeCandidates derives candidate codes from a phone number: the last
// four digits first, then digits 4-7 (1-indexed). Used for auto-registration
// on onboarding and for the legacy staff phone fallback.
func PhoneCodeCandidates(phone string) []string {
	digits := digitsOnly(phone)

	var candidates []string
	if len(digits) >= 4 {
		candidates = append(candidates, digits[len(digits)-4:])
	}
	if len(digits) >= 7 {
		middle := digits[3:7]
		if len(candidates) == 0 || candidates[0] != middle {
			candidates = append(candidates, middle)
		}
	}
	return candidates
}

// PhoneMatchesCode reports whether a code matches either derivation of a phone
// number. First derivation that matches wins.
func PhoneMatchesCode(phone, code string) bool {
	for _, candidate := range PhoneCodeCandidates(phone) {
		if candidate == code {
			return true
		}
	}
	return false
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
