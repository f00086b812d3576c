package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tutorhub/backend/internal/domain/roster"
)

// StudentModel is the persistence model for the Student domain entity.
type StudentModel struct {
	CenterAggregateModel
	Name         string               `gorm:"type:varchar(100);not null;index"`
	Grade        string               `gorm:"type:varchar(20);index"`
	School       string               `gorm:"type:varchar(200)"`
	Phone        string               `gorm:"type:varchar(50)"`
	MotherPhone  string               `gorm:"type:varchar(50)"`
	FatherPhone  string               `gorm:"type:varchar(50)"`
	Status       roster.StudentStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	EnrolledAt   time.Time            `gorm:"not null"`
	PromotedYear int                  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StudentModel) TableName() string {
	return "students"
}

// ToDomain converts the persistence model to a domain Student entity.
func (m *StudentModel) ToDomain() *roster.Student {
	return &roster.Student{
		CenterAggregateRoot: m.centerRoot(),
		Name:                m.Name,
		Grade:               m.Grade,
		School:              m.School,
		Phone:               m.Phone,
		MotherPhone:         m.MotherPhone,
		FatherPhone:         m.FatherPhone,
		Status:              m.Status,
		EnrolledAt:          m.EnrolledAt,
		PromotedYear:        m.PromotedYear,
	}
}

// FromDomain populates the persistence model from a domain Student entity.
func (m *StudentModel) FromDomain(s *roster.Student) {
	m.FromDomainCenterAggregateRoot(s.CenterAggregateRoot)
	m.Name = s.Name
	m.Grade = s.Grade
	m.School = s.School
	m.Phone = s.Phone
	m.MotherPhone = s.MotherPhone
	m.FatherPhone = s.FatherPhone
	m.Status = s.Status
	m.EnrolledAt = s.EnrolledAt
	m.PromotedYear = s.PromotedYear
}

// StudentModelFromDomain creates a new persistence model from a domain Student entity.
func StudentModelFromDomain(s *roster.Student) *StudentModel {
	m := &StudentModel{}
	m.FromDomain(s)
	return m
}

// TeacherModel is the persistence model for the Teacher domain entity.
type TeacherModel struct {
	CenterAggregateModel
	Name     string    `gorm:"type:varchar(100);not null;index"`
	Phone    string    `gorm:"type:varchar(50)"`
	Subject  string    `gorm:"type:varchar(100)"`
	IsActive bool      `gorm:"not null;default:true;index"`
	HiredAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TeacherModel) TableName() string {
	return "teachers"
}

// ToDomain converts the persistence model to a domain Teacher entity.
func (m *TeacherModel) ToDomain() *roster.Teacher {
	return &roster.Teacher{
		CenterAggregateRoot: m.centerRoot(),
		Name:                m.Name,
		Phone:               m.Phone,
		Subject:             m.Subject,
		IsActive:            m.IsActive,
		HiredAt:             m.HiredAt,
	}
}

// FromDomain populates the persistence model from a domain Teacher entity.
func (m *TeacherModel) FromDomain(t *roster.Teacher) {
	m.FromDomainCenterAggregateRoot(t.CenterAggregateRoot)
	m.Name = t.Name
	m.Phone = t.Phone
	m.Subject = t.Subject
	m.IsActive = t.IsActive
	m.HiredAt = t.HiredAt
}

// TeacherModelFromDomain creates a new persistence model from a domain Teacher entity.
func TeacherModelFromDomain(t *roster.Teacher) *TeacherModel {
	m := &TeacherModel{}
	m.FromDomain(t)
	return m
}

// ClassModel is the persistence model for the Class domain entity.
type ClassModel struct {
	CenterAggregateModel
	Name             string     `gorm:"type:varchar(200);not null"`
	TeacherID        *uuid.UUID `gorm:"type:uuid;index"`
	StartTime        string     `gorm:"type:varchar(5)"`
	EndTime          string     `gorm:"type:varchar(5)"`
	DaysOfWeek       []int      `gorm:"serializer:json;type:jsonb"`
	LateAfterMinutes int        `gorm:"not null;default:10"`
	IsActive         bool       `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ClassModel) TableName() string {
	return "classes"
}

// ToDomain converts the persistence model to a domain Class entity.
func (m *ClassModel) ToDomain() *roster.Class {
	return &roster.Class{
		CenterAggregateRoot: m.centerRoot(),
		Name:                m.Name,
		TeacherID:           m.TeacherID,
		StartTime:           m.StartTime,
		EndTime:             m.EndTime,
		DaysOfWeek:          m.DaysOfWeek,
		LateAfterMinutes:    m.LateAfterMinutes,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Class entity.
func (m *ClassModel) FromDomain(c *roster.Class) {
	m.FromDomainCenterAggregateRoot(c.CenterAggregateRoot)
	m.Name = c.Name
	m.TeacherID = c.TeacherID
	m.StartTime = c.StartTime
	m.EndTime = c.EndTime
	m.DaysOfWeek = c.DaysOfWeek
	m.LateAfterMinutes = c.LateAfterMinutes
	m.IsActive = c.IsActive
}

// ClassModelFromDomain creates a new persistence model from a domain Class entity.
func ClassModelFromDomain(c *roster.Class) *ClassModel {
	m := &ClassModel{}
	m.FromDomain(c)
	return m
}

// EnrollmentModel is the persistence model for the Enrollment domain entity.
type EnrollmentModel struct {
	CenterAggregateModel
	StudentID  uuid.UUID               `gorm:"type:uuid;not null;index"`
	ClassID    uuid.UUID               `gorm:"type:uuid;not null;index"`
	Status     roster.EnrollmentStatus `gorm:"type:varchar(20);not null;default:'active'"`
	EnrolledAt time.Time               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (EnrollmentModel) TableName() string {
	return "enrollments"
}

// ToDomain converts the persistence model to a domain Enrollment entity.
func (m *EnrollmentModel) ToDomain() *roster.Enrollment {
	return &roster.Enrollment{
		CenterAggregateRoot: m.centerRoot(),
		StudentID:           m.StudentID,
		ClassID:             m.ClassID,
		Status:              m.Status,
		EnrolledAt:          m.EnrolledAt,
	}
}

// FromDomain populates the persistence model from a domain Enrollment entity.
func (m *EnrollmentModel) FromDomain(e *roster.Enrollment) {
	m.FromDomainCenterAggregateRoot(e.CenterAggregateRoot)
	m.StudentID = e.StudentID
	m.ClassID = e.ClassID
	m.Status = e.Status
	m.EnrolledAt = e.EnrolledAt
}

// EnrollmentModelFromDomain creates a new persistence model from a domain Enrollment entity.
func EnrollmentModelFromDomain(e *roster.Enrollment) *EnrollmentModel {
	m := &EnrollmentModel{}
	m.FromDomain(e)
	return m
}

// PromotionWatermarkModel persists the single-row watermark of the yearly
// grade promotion job. The fixed primary key keeps it one row.
type PromotionWatermarkModel struct {
	ID                int       `gorm:"primaryKey"`
	LastPromotionYear int       `gorm:"not null;default:0"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PromotionWatermarkModel) TableName() string {
	return "promotion_watermarks"
}
