package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// DeliveryStatus is the outcome of a single gateway attempt
type DeliveryStatus string

const (
	DeliveryStatusSent   DeliveryStatus = "sent"
	DeliveryStatusFailed DeliveryStatus = "failed"
)

// Channel identifies the delivery transport
type Channel string

const (
	ChannelSMS Channel = "sms"
)

// LogEntry is the audit trail of one gateway delivery attempt. Entries are
// append-only: a retry or resend creates a new entry, nothing is ever mutated.
type LogEntry struct {
	shared.BaseEntity
	CenterID           uuid.UUID
	AttendanceRecordID uuid.UUID
	RecipientPhone     string
	RecipientRole      string
	MessageType        string
	Channel            Channel
	Body               string
	Status             DeliveryStatus
	ErrorMessage       string
	SentAt             time.Time
}

// NewSentEntry records a successful gateway delivery
func NewSentEntry(centerID, recordID uuid.UUID, phone, role, messageType, body string) *LogEntry {
	return &LogEntry{
		BaseEntity:         shared.NewBaseEntity(),
		CenterID:           centerID,
		AttendanceRecordID: recordID,
		RecipientPhone:     phone,
		RecipientRole:      role,
		MessageType:        messageType,
		Channel:            ChannelSMS,
		Body:               body,
		Status:             DeliveryStatusSent,
		SentAt:             time.Now(),
	}
}

// NewFailedEntry records a failed gateway delivery with the failure reason
func NewFailedEntry(centerID, recordID uuid.UUID, phone, role, messageType, body, errMsg string) *LogEntry {
	return &LogEntry{
		BaseEntity:         shared.NewBaseEntity(),
		CenterID:           centerID,
		AttendanceRecordID: recordID,
		RecipientPhone:     phone,
		RecipientRole:      role,
		MessageType:        messageType,
		Channel:            ChannelSMS,
		Body:               body,
		Status:             DeliveryStatusFailed,
		ErrorMessage:       errMsg,
		SentAt:             time.Now(),
	}
}
