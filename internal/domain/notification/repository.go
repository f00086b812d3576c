package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// LogRepository is the append-only delivery audit trail. Save failures are
// swallowed by callers: the log is an audit trail, not a correctness
// requirement.
type LogRepository interface {
	Save(ctx context.Context, entry *LogEntry) error
	FindByRecord(ctx context.Context, centerID, recordID uuid.UUID) ([]LogEntry, error)
	FindForCenter(ctx context.Context, centerID uuid.UUID, from, to time.Time, filter shared.Filter) ([]LogEntry, int64, error)
	// DeleteOlderThan removes a center's entries sent before the cutoff
	DeleteOlderThan(ctx context.Context, centerID uuid.UUID, cutoff time.Time) (int64, error)
}

// TemplateRepository manages per-center custom message templates
type TemplateRepository interface {
	shared.CenterRepository[Template]
	// FindByType returns the center's custom template for a message type,
	// shared.ErrNotFound when the center uses the built-in default
	FindByType(ctx context.Context, centerID uuid.UUID, messageType string) (*Template, error)
}

// GatewaySettingsRepository manages per-center gateway credentials
type GatewaySettingsRepository interface {
	shared.CenterRepository[GatewaySettings]
	FindActiveForCenter(ctx context.Context, centerID uuid.UUID) (*GatewaySettings, error)
}
