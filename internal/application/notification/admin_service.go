package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/notification"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// SecretSealer encrypts gateway API secrets before they reach the store
type SecretSealer interface {
	Seal(plaintext string) ([]byte, error)
}

// CacheInvalidator drops a center's cached gateway credentials so a
// configuration change takes effect before the cache TTL expires
type CacheInvalidator interface {
	Invalidate(centerID uuid.UUID)
}

// LogEntryDTO represents one delivery attempt in the audit trail
type LogEntryDTO struct {
	ID             uuid.UUID `json:"id"`
	RecordID       uuid.UUID `json:"attendance_record_id"`
	RecipientPhone string    `json:"recipient_phone"`
	RecipientRole  string    `json:"recipient_role"`
	MessageType    string    `json:"message_type"`
	Channel        string    `json:"channel"`
	Body           string    `json:"body"`
	Status         string    `json:"status"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	SentAt         time.Time `json:"sent_at"`
}

// LogListResult represents a paginated delivery log
type LogListResult struct {
	Entries  []LogEntryDTO `json:"entries"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// TemplateDTO represents a center's custom message template
type TemplateDTO struct {
	ID          uuid.UUID `json:"id"`
	MessageType string    `json:"message_type"`
	Body        string    `json:"body"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GatewayStatusDTO reports a center's gateway configuration without secrets
type GatewayStatusDTO struct {
	Configured   bool      `json:"configured"`
	APIKey       string    `json:"api_key,omitempty"`
	SenderNumber string    `json:"sender_number,omitempty"`
	IsActive     bool      `json:"is_active"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// ConfigureGatewayInput contains a center's gateway credentials
type ConfigureGatewayInput struct {
	CenterID     uuid.UUID
	APIKey       string
	APISecret    string
	SenderNumber string
}

// AdminService manages the notification audit log, per-center templates and
// gateway settings. Delivery itself is the Dispatcher's job.
type AdminService struct {
	log       notification.LogRepository
	templates notification.TemplateRepository
	settings  notification.GatewaySettingsRepository
	sealer    SecretSealer
	cache     CacheInvalidator
	logger    *zap.Logger
}

// NewAdminService creates a new notification admin service
func NewAdminService(
	log notification.LogRepository,
	templates notification.TemplateRepository,
	settings notification.GatewaySettingsRepository,
	sealer SecretSealer,
	cache CacheInvalidator,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		log:       log,
		templates: templates,
		settings:  settings,
		sealer:    sealer,
		cache:     cache,
		logger:    logger,
	}
}

// ListLog returns a windowed page of the delivery audit trail
func (s *AdminService) ListLog(ctx context.Context, centerID uuid.UUID, from, to time.Time, filter shared.Filter) (*LogListResult, error) {
	if filter.Page <= 0 || filter.PageSize <= 0 {
		filter = shared.DefaultFilter()
	}
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -7)
	}

	entries, total, err := s.log.FindForCenter(ctx, centerID, from, to, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]LogEntryDTO, 0, len(entries))
	for i := range entries {
		dtos = append(dtos, toLogEntryDTO(&entries[i]))
	}
	return &LogListResult{
		Entries:  dtos,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// ListForRecord returns every delivery attempt made for one attendance record
func (s *AdminService) ListForRecord(ctx context.Context, centerID, recordID uuid.UUID) ([]LogEntryDTO, error) {
	entries, err := s.log.FindByRecord(ctx, centerID, recordID)
	if err != nil {
		return nil, err
	}
	dtos := make([]LogEntryDTO, 0, len(entries))
	for i := range entries {
		dtos = append(dtos, toLogEntryDTO(&entries[i]))
	}
	return dtos, nil
}

// SetTemplate creates or replaces a center's custom template for a message
// type. An empty body reverts the center to the built-in default.
func (s *AdminService) SetTemplate(ctx context.Context, centerID uuid.UUID, messageType, body string) (*TemplateDTO, error) {
	if !validMessageType(messageType) {
		return nil, shared.NewDomainError("INVALID_MESSAGE_TYPE", "Unknown message type")
	}

	existing, err := s.templates.FindByType(ctx, centerID, messageType)
	switch {
	case err == nil:
		if body == "" {
			if err := s.templates.Delete(ctx, existing.ID); err != nil {
				return nil, err
			}
			return &TemplateDTO{MessageType: messageType, Body: notification.DefaultTemplate(messageType)}, nil
		}
		existing.Body = body
		existing.UpdatedAt = time.Now()
		existing.IncrementVersion()
		if err := s.templates.Save(ctx, existing); err != nil {
			return nil, err
		}
		return toTemplateDTO(existing), nil
	case shared.IsNotFound(err):
		if body == "" {
			return &TemplateDTO{MessageType: messageType, Body: notification.DefaultTemplate(messageType)}, nil
		}
		template, err := notification.NewTemplate(centerID, messageType, body)
		if err != nil {
			return nil, err
		}
		if err := s.templates.Save(ctx, template); err != nil {
			return nil, err
		}
		return toTemplateDTO(template), nil
	default:
		return nil, err
	}
}

// ListTemplates returns each message type with its effective template body
func (s *AdminService) ListTemplates(ctx context.Context, centerID uuid.UUID) ([]TemplateDTO, error) {
	types := []string{
		notification.MessageTypeCheckIn,
		notification.MessageTypeLate,
		notification.MessageTypeCheckOut,
		notification.MessageTypeStaff,
	}

	dtos := make([]TemplateDTO, 0, len(types))
	for _, messageType := range types {
		template, err := s.templates.FindByType(ctx, centerID, messageType)
		switch {
		case err == nil:
			dtos = append(dtos, *toTemplateDTO(template))
		case shared.IsNotFound(err):
			dtos = append(dtos, TemplateDTO{
				MessageType: messageType,
				Body:        notification.DefaultTemplate(messageType),
			})
		default:
			return nil, err
		}
	}
	return dtos, nil
}

// ConfigureGateway stores a center's gateway credentials, replacing any
// previous configuration. The API secret is encrypted before it is persisted.
func (s *AdminService) ConfigureGateway(ctx context.Context, input ConfigureGatewayInput) (*GatewayStatusDTO, error) {
	sealed, err := s.sealer.Seal(input.APISecret)
	if err != nil {
		return nil, err
	}

	settings, err := notification.NewGatewaySettings(input.CenterID, input.APIKey, sealed, input.SenderNumber)
	if err != nil {
		return nil, err
	}

	// Deactivate previous settings rather than updating them in place so the
	// audit history of credential changes survives.
	if previous, err := s.settings.FindActiveForCenter(ctx, input.CenterID); err == nil {
		previous.Deactivate()
		if err := s.settings.Save(ctx, previous); err != nil {
			return nil, err
		}
	} else if !shared.IsNotFound(err) {
		return nil, err
	}

	if err := s.settings.Save(ctx, settings); err != nil {
		return nil, err
	}
	s.cache.Invalidate(input.CenterID)

	s.logger.Info("gateway credentials configured",
		zap.String("center_id", input.CenterID.String()),
		zap.String("sender_number", input.SenderNumber))

	return toGatewayStatusDTO(settings), nil
}

// DisableGateway turns off the center's own credentials, reverting deliveries
// to the environment fallback set
func (s *AdminService) DisableGateway(ctx context.Context, centerID uuid.UUID) error {
	settings, err := s.settings.FindActiveForCenter(ctx, centerID)
	if err != nil {
		return err
	}
	settings.Deactivate()
	if err := s.settings.Save(ctx, settings); err != nil {
		return err
	}
	s.cache.Invalidate(centerID)
	return nil
}

// GatewayStatus reports whether the center has its own active credentials
func (s *AdminService) GatewayStatus(ctx context.Context, centerID uuid.UUID) (*GatewayStatusDTO, error) {
	settings, err := s.settings.FindActiveForCenter(ctx, centerID)
	if shared.IsNotFound(err) {
		return &GatewayStatusDTO{Configured: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return toGatewayStatusDTO(settings), nil
}

func validMessageType(messageType string) bool {
	switch messageType {
	case notification.MessageTypeCheckIn,
		notification.MessageTypeLate,
		notification.MessageTypeCheckOut,
		notification.MessageTypeStaff:
		return true
	}
	return false
}

func toLogEntryDTO(e *notification.LogEntry) LogEntryDTO {
	return LogEntryDTO{
		ID:             e.ID,
		RecordID:       e.AttendanceRecordID,
		RecipientPhone: e.RecipientPhone,
		RecipientRole:  e.RecipientRole,
		MessageType:    e.MessageType,
		Channel:        string(e.Channel),
		Body:           e.Body,
		Status:         string(e.Status),
		ErrorMessage:   e.ErrorMessage,
		SentAt:         e.SentAt,
	}
}

func toTemplateDTO(t *notification.Template) *TemplateDTO {
	return &TemplateDTO{
		ID:          t.ID,
		MessageType: t.MessageType,
		Body:        t.Body,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toGatewayStatusDTO(g *notification.GatewaySettings) *GatewayStatusDTO {
	return &GatewayStatusDTO{
		Configured:   true,
		APIKey:       maskKey(g.APIKey),
		SenderNumber: g.SenderNumber,
		IsActive:     g.IsActive,
		UpdatedAt:    g.UpdatedAt,
	}
}

// maskKey keeps the first four characters of an API key for recognition
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
