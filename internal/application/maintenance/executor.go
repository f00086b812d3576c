package maintenance

import (
	"context"

	"github.com/tutorhub/backend/internal/infrastructure/scheduler"
)

// Executor adapts the maintenance service to the scheduler's job interface
type Executor struct {
	service *Service
}

// NewExecutor creates a new Executor
func NewExecutor(service *Service) *Executor {
	return &Executor{service: service}
}

// Execute runs the maintenance job matching the job type
func (e *Executor) Execute(ctx context.Context, job *scheduler.Job) error {
	switch job.JobType {
	case scheduler.JobTypeMissingCheckout:
		_, err := e.service.MarkMissingCheckouts(ctx)
		return err
	case scheduler.JobTypePruneExpired:
		_, err := e.service.PruneExpired(ctx)
		return err
	case scheduler.JobTypeGradePromotion:
		_, err := e.service.PromoteGrades(ctx)
		return err
	default:
		return scheduler.ErrInvalidJobType
	}
}

// Ensure Executor implements JobExecutor
var _ scheduler.JobExecutor = (*Executor)(nil)
