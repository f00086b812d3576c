package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseCronSchedule(t *testing.T) {
	tests := []struct {
		name         string
		cronExpr     string
		expectedHour int
		expectedMin  int
	}{
		{
			name:         "Default 3am",
			cronExpr:     "0 3 * * *",
			expectedHour: 3,
			expectedMin:  0,
		},
		{
			name:         "3:30am",
			cronExpr:     "30 3 * * *",
			expectedHour: 3,
			expectedMin:  30,
		},
		{
			name:         "Midnight",
			cronExpr:     "0 0 * * *",
			expectedHour: 0,
			expectedMin:  0,
		},
		{
			name:         "11pm",
			cronExpr:     "0 23 * * *",
			expectedHour: 23,
			expectedMin:  0,
		},
		{
			name:         "Empty string defaults",
			cronExpr:     "",
			expectedHour: 2,
			expectedMin:  0,
		},
		{
			name:         "Extra whitespace",
			cronExpr:     "  15   4   *   *   *  ",
			expectedHour: 4,
			expectedMin:  15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, err := ParseCronSchedule(tt.cronExpr)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedHour, hour)
			assert.Equal(t, tt.expectedMin, minute)
		})
	}
}

func TestParseCronSchedule_InvalidRanges(t *testing.T) {
	_, _, err := ParseCronSchedule("75 3 * * *")
	assert.Error(t, err)

	_, _, err = ParseCronSchedule("0 30 * * *")
	assert.Error(t, err)
}

type recordingExecutor struct {
	mu   sync.Mutex
	jobs []JobType
	done chan struct{}
	want int
}

func (e *recordingExecutor) Execute(ctx context.Context, job *Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, job.JobType)
	if len(e.jobs) == e.want {
		close(e.done)
	}
	return nil
}

func (e *recordingExecutor) executed() []JobType {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]JobType, len(e.jobs))
	copy(out, e.jobs)
	return out
}

func TestScheduler_RunsSubmittedJobs(t *testing.T) {
	executor := &recordingExecutor{done: make(chan struct{}), want: 2}
	s := NewScheduler(DefaultSchedulerConfig(), executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	require.NoError(t, s.ScheduleDailyMaintenance())

	select {
	case <-executor.done:
	case <-time.After(2 * time.Second):
		t.Fatal("jobs were not executed in time")
	}

	assert.ElementsMatch(t, DailyJobTypes(), executor.executed())
}

func TestScheduler_SubmitRequiresRunning(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), &recordingExecutor{done: make(chan struct{}), want: 1}, zap.NewNop())

	err := s.SubmitJob(NewJob(JobTypePruneExpired, 0))
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestMaintenanceCronScheduler_TriggerJobValidatesType(t *testing.T) {
	executor := &recordingExecutor{done: make(chan struct{}), want: 1}
	cron := NewMaintenanceCronScheduler(DefaultMaintenanceCronSchedulerConfig(), executor, nil, zap.NewNop())

	require.NoError(t, cron.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = cron.Stop(ctx)
	}()

	assert.ErrorIs(t, cron.TriggerJob(context.Background(), JobType("BOGUS")), ErrInvalidJobType)
	assert.NoError(t, cron.TriggerJob(context.Background(), JobTypeGradePromotion))

	select {
	case <-executor.done:
	case <-time.After(2 * time.Second):
		t.Fatal("triggered job was not executed in time")
	}
	assert.Equal(t, []JobType{JobTypeGradePromotion}, executor.executed())
}

func TestMaintenanceCronScheduler_IsPromotionDate(t *testing.T) {
	config := DefaultMaintenanceCronSchedulerConfig()
	cron := NewMaintenanceCronScheduler(config, &recordingExecutor{done: make(chan struct{}), want: 1}, nil, zap.NewNop())

	assert.True(t, cron.isPromotionDate(time.Date(2025, time.March, 1, 3, 0, 0, 0, time.UTC)))
	assert.False(t, cron.isPromotionDate(time.Date(2025, time.March, 2, 3, 0, 0, 0, time.UTC)))
	assert.False(t, cron.isPromotionDate(time.Date(2025, time.April, 1, 3, 0, 0, 0, time.UTC)))
}

func TestMaintenanceCronScheduler_Status(t *testing.T) {
	cron := NewMaintenanceCronScheduler(DefaultMaintenanceCronSchedulerConfig(), &recordingExecutor{done: make(chan struct{}), want: 1}, nil, zap.NewNop())

	status := cron.GetStatus()
	assert.Equal(t, false, status["is_running"])
	assert.Equal(t, 3, status["cron_hour"])
	assert.Equal(t, int(time.March), status["promotion_month"])

	assert.ErrorIs(t, cron.TriggerManualRun(context.Background()), ErrSchedulerNotRunning)
}
