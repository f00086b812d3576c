package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tutorhub/backend/internal/domain/notification"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// NotificationLogModel is the persistence model for the delivery audit trail.
// Rows are append-only; there is no update path.
type NotificationLogModel struct {
	BaseModel
	CenterID           uuid.UUID                   `gorm:"type:uuid;not null;index:idx_notification_logs_center_sent"`
	AttendanceRecordID uuid.UUID                   `gorm:"type:uuid;not null;index"`
	RecipientPhone     string                      `gorm:"type:varchar(50);not null"`
	RecipientRole      string                      `gorm:"type:varchar(20)"`
	MessageType        string                      `gorm:"type:varchar(20);not null"`
	Channel            notification.Channel        `gorm:"type:varchar(20);not null;default:'sms'"`
	Body               string                      `gorm:"type:text"`
	Status             notification.DeliveryStatus `gorm:"type:varchar(20);not null"`
	ErrorMessage       string                      `gorm:"type:text"`
	SentAt             time.Time                   `gorm:"not null;index:idx_notification_logs_center_sent"`
}

// TableName returns the table name for GORM
func (NotificationLogModel) TableName() string {
	return "notification_logs"
}

// ToDomain converts the persistence model to a domain LogEntry.
func (m *NotificationLogModel) ToDomain() *notification.LogEntry {
	return &notification.LogEntry{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		CenterID:           m.CenterID,
		AttendanceRecordID: m.AttendanceRecordID,
		RecipientPhone:     m.RecipientPhone,
		RecipientRole:      m.RecipientRole,
		MessageType:        m.MessageType,
		Channel:            m.Channel,
		Body:               m.Body,
		Status:             m.Status,
		ErrorMessage:       m.ErrorMessage,
		SentAt:             m.SentAt,
	}
}

// FromDomain populates the persistence model from a domain LogEntry.
func (m *NotificationLogModel) FromDomain(e *notification.LogEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.CenterID = e.CenterID
	m.AttendanceRecordID = e.AttendanceRecordID
	m.RecipientPhone = e.RecipientPhone
	m.RecipientRole = e.RecipientRole
	m.MessageType = e.MessageType
	m.Channel = e.Channel
	m.Body = e.Body
	m.Status = e.Status
	m.ErrorMessage = e.ErrorMessage
	m.SentAt = e.SentAt
}

// NotificationLogModelFromDomain creates a new persistence model from a domain LogEntry.
func NotificationLogModelFromDomain(e *notification.LogEntry) *NotificationLogModel {
	m := &NotificationLogModel{}
	m.FromDomain(e)
	return m
}

// TemplateModel is the persistence model for per-center message templates.
type TemplateModel struct {
	CenterAggregateModel
	MessageType string `gorm:"type:varchar(20);not null;uniqueIndex:idx_templates_center_type,priority:2"`
	Body        string `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (TemplateModel) TableName() string {
	return "notification_templates"
}

// ToDomain converts the persistence model to a domain Template entity.
func (m *TemplateModel) ToDomain() *notification.Template {
	return &notification.Template{
		CenterAggregateRoot: m.centerRoot(),
		MessageType:         m.MessageType,
		Body:                m.Body,
	}
}

// FromDomain populates the persistence model from a domain Template entity.
func (m *TemplateModel) FromDomain(t *notification.Template) {
	m.FromDomainCenterAggregateRoot(t.CenterAggregateRoot)
	m.MessageType = t.MessageType
	m.Body = t.Body
}

// TemplateModelFromDomain creates a new persistence model from a domain Template entity.
func TemplateModelFromDomain(t *notification.Template) *TemplateModel {
	m := &TemplateModel{}
	m.FromDomain(t)
	return m
}

// GatewaySettingsModel is the persistence model for per-center SMS gateway
// credentials. EncryptedSecret stores AES-GCM ciphertext, never plaintext.
type GatewaySettingsModel struct {
	CenterAggregateModel
	APIKey          string `gorm:"type:varchar(200);not null"`
	EncryptedSecret []byte `gorm:"type:bytea;not null"`
	SenderNumber    string `gorm:"type:varchar(50)"`
	IsActive        bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (GatewaySettingsModel) TableName() string {
	return "gateway_settings"
}

// ToDomain converts the persistence model to a domain GatewaySettings entity.
func (m *GatewaySettingsModel) ToDomain() *notification.GatewaySettings {
	return &notification.GatewaySettings{
		CenterAggregateRoot: m.centerRoot(),
		APIKey:              m.APIKey,
		EncryptedSecret:     m.EncryptedSecret,
		SenderNumber:        m.SenderNumber,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain GatewaySettings entity.
func (m *GatewaySettingsModel) FromDomain(g *notification.GatewaySettings) {
	m.FromDomainCenterAggregateRoot(g.CenterAggregateRoot)
	m.APIKey = g.APIKey
	m.EncryptedSecret = g.EncryptedSecret
	m.SenderNumber = g.SenderNumber
	m.IsActive = g.IsActive
}

// GatewaySettingsModelFromDomain creates a new persistence model from a domain GatewaySettings entity.
func GatewaySettingsModelFromDomain(g *notification.GatewaySettings) *GatewaySettingsModel {
	m := &GatewaySettingsModel{}
	m.FromDomain(g)
	return m
}
