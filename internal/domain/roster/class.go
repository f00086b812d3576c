package roster

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// Class is a recurring lesson at a center. StartTime is a center-local
// "HH:MM" wall-clock time; a check-in later than StartTime plus
// LateAfterMinutes counts as a late arrival.
type Class struct {
	shared.CenterAggregateRoot
	Name             string
	TeacherID        *uuid.UUID
	StartTime        string
	EndTime          string
	DaysOfWeek       []int `gorm:"serializer:json"`
	LateAfterMinutes int
	IsActive         bool
}

// NewClass creates a class at a center
func NewClass(centerID uuid.UUID, name, startTime, endTime string) (*Class, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Class name is required")
	}
	if startTime != "" {
		if _, err := time.Parse("15:04", startTime); err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Start time must be HH:MM")
		}
	}
	if endTime != "" {
		if _, err := time.Parse("15:04", endTime); err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "End time must be HH:MM")
		}
	}
	return &Class{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		Name:                name,
		StartTime:           startTime,
		EndTime:             endTime,
		LateAfterMinutes:    10,
		IsActive:            true,
	}, nil
}

// AssignTeacher sets the teacher responsible for the class
func (c *Class) AssignTeacher(teacherID uuid.UUID) {
	c.TeacherID = &teacherID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsLateArrival reports whether a check-in at the given center-local time
// counts as late. Classes without a start time never mark lateness.
func (c *Class) IsLateArrival(at time.Time) bool {
	if c.StartTime == "" {
		return false
	}
	start, err := time.Parse("15:04", c.StartTime)
	if err != nil {
		return false
	}
	threshold := time.Date(at.Year(), at.Month(), at.Day(),
		start.Hour(), start.Minute(), 0, 0, at.Location()).
		Add(time.Duration(c.LateAfterMinutes) * time.Minute)
	return at.After(threshold)
}

// Deactivate archives the class
func (c *Class) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// EnrollmentStatus is the state of a student's membership in a class
type EnrollmentStatus string

const (
	EnrollmentStatusActive  EnrollmentStatus = "active"
	EnrollmentStatusDropped EnrollmentStatus = "dropped"
)

// Enrollment links a student to a class
type Enrollment struct {
	shared.CenterAggregateRoot
	StudentID  uuid.UUID
	ClassID    uuid.UUID
	Status     EnrollmentStatus
	EnrolledAt time.Time
}

// NewEnrollment enrolls a student in a class
func NewEnrollment(centerID, studentID, classID uuid.UUID) *Enrollment {
	return &Enrollment{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		StudentID:           studentID,
		ClassID:             classID,
		Status:              EnrollmentStatusActive,
		EnrolledAt:          time.Now(),
	}
}

// Drop removes the student from the class roster
func (e *Enrollment) Drop() {
	e.Status = EnrollmentStatusDropped
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}
