package notification

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// Message types carried by attendance notifications
const (
	MessageTypeCheckIn  = "check_in"
	MessageTypeLate     = "late"
	MessageTypeCheckOut = "check_out"
	MessageTypeStaff    = "staff"
)

// Hardcoded defaults used when a center has no custom template
var defaultTemplates = map[string]string{
	MessageTypeCheckIn:  "[{date}] {name} checked in at {time}.",
	MessageTypeLate:     "[{date}] {name} arrived late at {time}.",
	MessageTypeCheckOut: "[{date}] {name} checked out at {time}.",
	MessageTypeStaff:    "[{date}] {name} punched at {time}.",
}

// DefaultTemplate returns the built-in template body for a message type
func DefaultTemplate(messageType string) string {
	if body, ok := defaultTemplates[messageType]; ok {
		return body
	}
	return defaultTemplates[MessageTypeCheckIn]
}

// Template is a center's custom message body for one message type.
// Supported placeholders: {name}, {time}, {date}.
type Template struct {
	shared.CenterAggregateRoot
	MessageType string
	Body        string
}

// NewTemplate creates a custom template for a center
func NewTemplate(centerID uuid.UUID, messageType, body string) (*Template, error) {
	if strings.TrimSpace(body) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Template body is required")
	}
	return &Template{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		MessageType:         messageType,
		Body:                body,
	}, nil
}

// Render substitutes the placeholders in a template body. The timestamp is
// rendered in the center's local timezone.
func Render(body, name string, at time.Time, loc *time.Location) string {
	local := at.In(loc)
	r := strings.NewReplacer(
		"{name}", name,
		"{time}", local.Format("15:04"),
		"{date}", local.Format("2006-01-02"),
	)
	return r.Replace(body)
}
