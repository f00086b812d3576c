package roster

import (
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/roster"
)

// CreateStudentInput contains input for enrolling a student
type CreateStudentInput struct {
	CenterID    uuid.UUID
	Name        string
	Grade       string
	School      string
	Phone       string
	MotherPhone string
	FatherPhone string
}

// UpdateStudentInput contains input for updating a student
type UpdateStudentInput struct {
	CenterID    uuid.UUID
	ID          uuid.UUID
	Name        *string
	Grade       *string
	School      *string
	Phone       *string
	MotherPhone *string
	FatherPhone *string
}

// StudentDTO represents a student
type StudentDTO struct {
	ID          uuid.UUID `json:"id"`
	CenterID    uuid.UUID `json:"center_id"`
	Name        string    `json:"name"`
	Grade       string    `json:"grade"`
	School      string    `json:"school,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	MotherPhone string    `json:"mother_phone,omitempty"`
	FatherPhone string    `json:"father_phone,omitempty"`
	Status      string    `json:"status"`
	EnrolledAt  time.Time `json:"enrolled_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTeacherInput contains input for registering a teacher
type CreateTeacherInput struct {
	CenterID uuid.UUID
	Name     string
	Phone    string
	Subject  string
}

// TeacherDTO represents a teacher
type TeacherDTO struct {
	ID       uuid.UUID `json:"id"`
	CenterID uuid.UUID `json:"center_id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone,omitempty"`
	Subject  string    `json:"subject,omitempty"`
	IsActive bool      `json:"is_active"`
	HiredAt  time.Time `json:"hired_at"`
}

// CreateClassInput contains input for creating a class
type CreateClassInput struct {
	CenterID         uuid.UUID
	Name             string
	TeacherID        *uuid.UUID
	StartTime        string
	EndTime          string
	DaysOfWeek       []int
	LateAfterMinutes *int
}

// UpdateClassInput contains input for updating a class
type UpdateClassInput struct {
	CenterID         uuid.UUID
	ID               uuid.UUID
	Name             *string
	TeacherID        *uuid.UUID
	StartTime        *string
	EndTime          *string
	DaysOfWeek       []int
	LateAfterMinutes *int
}

// ClassDTO represents a class
type ClassDTO struct {
	ID               uuid.UUID  `json:"id"`
	CenterID         uuid.UUID  `json:"center_id"`
	Name             string     `json:"name"`
	TeacherID        *uuid.UUID `json:"teacher_id,omitempty"`
	StartTime        string     `json:"start_time,omitempty"`
	EndTime          string     `json:"end_time,omitempty"`
	DaysOfWeek       []int      `json:"days_of_week,omitempty"`
	LateAfterMinutes int        `json:"late_after_minutes"`
	IsActive         bool       `json:"is_active"`
}

// EnrollmentDTO represents a class enrollment
type EnrollmentDTO struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"student_id"`
	ClassID   uuid.UUID `json:"class_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toStudentDTO(s *roster.Student) *StudentDTO {
	return &StudentDTO{
		ID:          s.ID,
		CenterID:    s.CenterID,
		Name:        s.Name,
		Grade:       s.Grade,
		School:      s.School,
		Phone:       s.Phone,
		MotherPhone: s.MotherPhone,
		FatherPhone: s.FatherPhone,
		Status:      string(s.Status),
		EnrolledAt:  s.EnrolledAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toTeacherDTO(t *roster.Teacher) *TeacherDTO {
	return &TeacherDTO{
		ID:       t.ID,
		CenterID: t.CenterID,
		Name:     t.Name,
		Phone:    t.Phone,
		Subject:  t.Subject,
		IsActive: t.IsActive,
		HiredAt:  t.HiredAt,
	}
}

func toClassDTO(c *roster.Class) *ClassDTO {
	return &ClassDTO{
		ID:               c.ID,
		CenterID:         c.CenterID,
		Name:             c.Name,
		TeacherID:        c.TeacherID,
		StartTime:        c.StartTime,
		EndTime:          c.EndTime,
		DaysOfWeek:       c.DaysOfWeek,
		LateAfterMinutes: c.LateAfterMinutes,
		IsActive:         c.IsActive,
	}
}

func toEnrollmentDTO(e *roster.Enrollment) *EnrollmentDTO {
	return &EnrollmentDTO{
		ID:        e.ID,
		StudentID: e.StudentID,
		ClassID:   e.ClassID,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
	}
}
