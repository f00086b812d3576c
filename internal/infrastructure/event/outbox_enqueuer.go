package event

import (
	"context"

	"gorm.io/gorm"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// OutboxEnqueuer is the EventPublisher handed to application services. Publish
// writes the events to the outbox table; the outbox processor later delivers
// them to the event bus. Nothing is dispatched inline, so a slow or failing
// subscriber can never delay the request that produced the event.
type OutboxEnqueuer struct {
	db        *gorm.DB
	publisher *OutboxPublisher
}

// NewOutboxEnqueuer creates a new outbox-backed event publisher
func NewOutboxEnqueuer(db *gorm.DB, serializer *EventSerializer) *OutboxEnqueuer {
	return &OutboxEnqueuer{db: db, publisher: NewOutboxPublisher(serializer)}
}

// Publish serializes the events and appends them to the outbox
func (e *OutboxEnqueuer) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return e.publisher.PublishWithTx(ctx, e.db, events...)
}

var _ shared.EventPublisher = (*OutboxEnqueuer)(nil)
