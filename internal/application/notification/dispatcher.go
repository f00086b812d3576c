package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/attendance"
	"github.com/tutorhub/backend/internal/domain/identity"
	"github.com/tutorhub/backend/internal/domain/notification"
	"github.com/tutorhub/backend/internal/domain/roster"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// Dispatcher turns attendance events into SMS deliveries. It runs on the
// event bus behind the outbox, entirely outside the request that produced the
// event: nothing here can delay or fail a front-desk response.
//
// Delivery rules: guardian resolution is mother first, then father; with
// neither on file the dispatch is a no-op and writes nothing. Every gateway
// call, success or failure, appends exactly one log entry. Gateway and log
// write failures are logged locally and never returned, so the outbox marks
// the event delivered after one attempt.
type Dispatcher struct {
	records   attendance.RecordRepository
	settings  attendance.StaffSettingsRepository
	students  roster.StudentRepository
	teachers  roster.TeacherRepository
	centers   identity.CenterRepository
	templates notification.TemplateRepository
	log       notification.LogRepository
	gateway   notification.Gateway
	creds     notification.CredentialSource
	logger    *zap.Logger
}

// NewDispatcher creates a new notification dispatcher
func NewDispatcher(
	records attendance.RecordRepository,
	settings attendance.StaffSettingsRepository,
	students roster.StudentRepository,
	teachers roster.TeacherRepository,
	centers identity.CenterRepository,
	templates notification.TemplateRepository,
	log notification.LogRepository,
	gateway notification.Gateway,
	creds notification.CredentialSource,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		records:   records,
		settings:  settings,
		students:  students,
		teachers:  teachers,
		centers:   centers,
		templates: templates,
		log:       log,
		gateway:   gateway,
		creds:     creds,
		logger:    logger,
	}
}

// EventTypes returns the attendance events the dispatcher subscribes to
func (d *Dispatcher) EventTypes() []string {
	return []string{
		attendance.EventTypeStudentCheckedIn,
		attendance.EventTypeStudentArrivedLate,
		attendance.EventTypeStudentCheckedOut,
		attendance.EventTypeStaffCheckedIn,
		attendance.EventTypeStaffCheckedOut,
	}
}

// Handle dispatches the notification for one attendance event
func (d *Dispatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *attendance.StudentCheckedInEvent:
		return d.dispatchStudent(ctx, e.CenterID(), e.AggregateID(), e.StudentID, e.At, attendance.MessageTypeCheckIn)
	case *attendance.StudentArrivedLateEvent:
		return d.dispatchStudent(ctx, e.CenterID(), e.AggregateID(), e.StudentID, e.At, attendance.MessageTypeLate)
	case *attendance.StudentCheckedOutEvent:
		return d.dispatchStudent(ctx, e.CenterID(), e.AggregateID(), e.StudentID, e.At, attendance.MessageTypeCheckOut)
	case *attendance.StaffCheckedInEvent:
		return d.dispatchStaff(ctx, e.CenterID(), e.AggregateID(), e.TeacherID, e.At)
	case *attendance.StaffCheckedOutEvent:
		return d.dispatchStaff(ctx, e.CenterID(), e.AggregateID(), e.TeacherID, e.At)
	default:
		return nil
	}
}

func (d *Dispatcher) dispatchStudent(ctx context.Context, centerID, recordID, studentID uuid.UUID, at time.Time, messageType attendance.MessageType) error {
	center, err := d.centers.FindByID(ctx, centerID)
	if err != nil {
		return err
	}
	if !d.notifyEnabled(center, messageType) {
		return nil
	}

	record, err := d.records.FindByIDForCenter(ctx, centerID, recordID)
	if err != nil {
		return err
	}
	if alreadyNotified(record, messageType) {
		return nil
	}

	student, err := d.students.FindByIDForCenter(ctx, centerID, studentID)
	if err != nil {
		return err
	}

	phone, role := student.GuardianPhone()
	if phone == "" {
		// No guardian on file: nothing to attempt, nothing to log.
		return nil
	}

	body := notification.Render(
		d.templateBody(ctx, centerID, string(messageType)),
		student.Name, at, center.Location(),
	)

	sent := d.send(ctx, centerID, recordID, phone, role, string(messageType), body)
	if sent {
		record.MarkNotified(messageType)
		if err := d.records.Save(ctx, record); err != nil {
			d.logger.Warn("Failed to persist notification flag",
				zap.String("record_id", recordID.String()),
				zap.Error(err))
		}
	}
	return nil
}

func (d *Dispatcher) dispatchStaff(ctx context.Context, centerID, workRecordID, teacherID uuid.UUID, at time.Time) error {
	settings, err := d.settings.FindByTeacher(ctx, centerID, teacherID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return err
	}
	if !settings.IsActive || len(settings.Recipients) == 0 {
		return nil
	}

	center, err := d.centers.FindByID(ctx, centerID)
	if err != nil {
		return err
	}
	teacher, err := d.teachers.FindByIDForCenter(ctx, centerID, teacherID)
	if err != nil {
		return err
	}

	template := settings.MessageTemplate
	if template == "" {
		template = notification.DefaultTemplate(notification.MessageTypeStaff)
	}
	body := notification.Render(template, teacher.Name, at, center.Location())

	for _, phone := range settings.Recipients {
		d.send(ctx, centerID, workRecordID, phone, "admin", notification.MessageTypeStaff, body)
	}
	return nil
}

// send performs one gateway call and appends exactly one log entry for it.
// Returns whether the gateway accepted the message.
func (d *Dispatcher) send(ctx context.Context, centerID, recordID uuid.UUID, phone, role, messageType, body string) bool {
	creds, err := d.creds.Resolve(ctx, centerID)
	if err != nil {
		// No credentials, no gateway call, no attempt entry.
		d.logger.Error("Failed to resolve gateway credentials",
			zap.String("center_id", centerID.String()),
			zap.Error(err))
		return false
	}

	var entry *notification.LogEntry
	if err := d.gateway.Send(ctx, creds, phone, body); err != nil {
		entry = notification.NewFailedEntry(centerID, recordID, phone, role, messageType, body, err.Error())
		d.logger.Warn("Gateway delivery failed",
			zap.String("center_id", centerID.String()),
			zap.String("message_type", messageType),
			zap.Error(err))
	} else {
		entry = notification.NewSentEntry(centerID, recordID, phone, role, messageType, body)
	}

	if err := d.log.Save(ctx, entry); err != nil {
		// The log is an audit trail, not a correctness requirement.
		d.logger.Error("Failed to write notification log entry",
			zap.String("record_id", recordID.String()),
			zap.Error(err))
	}
	return entry.Status == notification.DeliveryStatusSent
}

func (d *Dispatcher) templateBody(ctx context.Context, centerID uuid.UUID, messageType string) string {
	template, err := d.templates.FindByType(ctx, centerID, messageType)
	if err == nil && template.Body != "" {
		return template.Body
	}
	return notification.DefaultTemplate(messageType)
}

func (d *Dispatcher) notifyEnabled(center *identity.Center, messageType attendance.MessageType) bool {
	switch messageType {
	case attendance.MessageTypeCheckIn:
		return center.Config.NotifyOnCheckIn
	case attendance.MessageTypeLate:
		return center.Config.NotifyOnLate
	case attendance.MessageTypeCheckOut:
		return center.Config.NotifyOnCheckOut
	}
	return false
}

func alreadyNotified(record *attendance.Record, messageType attendance.MessageType) bool {
	switch messageType {
	case attendance.MessageTypeCheckIn:
		return record.NotifiedCheckIn
	case attendance.MessageTypeLate:
		return record.NotifiedLate
	case attendance.MessageTypeCheckOut:
		return record.NotifiedOut
	}
	return false
}

// Ensure Dispatcher implements EventHandler
var _ shared.EventHandler = (*Dispatcher)(nil)
