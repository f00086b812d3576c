package maintenance

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/attendance"
	"github.com/tutorhub/backend/internal/domain/identity"
	"github.com/tutorhub/backend/internal/domain/notification"
	"github.com/tutorhub/backend/internal/domain/roster"
)

const batchSize = 200

// Service runs the recurring maintenance jobs. Every job is idempotent:
// missing-checkout marking and pruning act on relative date cutoffs, grade
// promotion checks a persisted watermark, so a crashed run can simply be
// re-run.
type Service struct {
	workRecords attendance.WorkRecordRepository
	records     attendance.RecordRepository
	notifLogs   notification.LogRepository
	students    roster.StudentRepository
	centers     identity.CenterRepository
	watermark   roster.PromotionWatermarkRepository
	logger      *zap.Logger
}

// NewService creates a new maintenance service
func NewService(
	workRecords attendance.WorkRecordRepository,
	records attendance.RecordRepository,
	notifLogs notification.LogRepository,
	students roster.StudentRepository,
	centers identity.CenterRepository,
	watermark roster.PromotionWatermarkRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		workRecords: workRecords,
		records:     records,
		notifLogs:   notifLogs,
		students:    students,
		centers:     centers,
		watermark:   watermark,
		logger:      logger,
	}
}

// MarkMissingCheckouts flags every work record from before today (center-local)
// that has a check-in but no check-out. No checkout time is fabricated.
// Re-running changes nothing: flagged records no longer match.
func (s *Service) MarkMissingCheckouts(ctx context.Context) (int, error) {
	centers, err := s.centers.FindActive(ctx)
	if err != nil {
		return 0, err
	}

	flagged := 0
	now := time.Now()
	for i := range centers {
		center := &centers[i]
		today := attendance.CalendarDay(now, center.Location())

		for {
			open, err := s.workRecords.FindOpenBefore(ctx, center.ID, today, batchSize)
			if err != nil {
				return flagged, err
			}
			if len(open) == 0 {
				break
			}
			for j := range open {
				record := &open[j]
				if !record.MarkMissingCheckout() {
					continue
				}
				if err := s.workRecords.Save(ctx, record); err != nil {
					s.logger.Error("Failed to flag missing checkout",
						zap.String("work_record_id", record.ID.String()),
						zap.Error(err))
					continue
				}
				flagged++
			}
			if len(open) < batchSize {
				break
			}
		}
	}

	if flagged > 0 {
		s.logger.Info("Flagged work records with missing checkout", zap.Int("count", flagged))
	}
	return flagged, nil
}

// PruneExpired deletes attendance records, work records and notification log
// entries older than each center's retention windows. Deletion is by cutoff
// comparison, so re-running deletes nothing further.
func (s *Service) PruneExpired(ctx context.Context) (int64, error) {
	centers, err := s.centers.FindActive(ctx)
	if err != nil {
		return 0, err
	}

	var deleted int64
	now := time.Now()
	for i := range centers {
		center := &centers[i]
		loc := center.Location()

		attendanceCutoff := attendance.CalendarDay(now.AddDate(0, 0, -center.Config.AttendanceRetainDays), loc)
		n, err := s.records.DeleteOlderThan(ctx, center.ID, attendanceCutoff)
		if err != nil {
			return deleted, err
		}
		deleted += n

		workCutoff := attendance.CalendarDay(now.AddDate(0, 0, -center.Config.WorkRecordRetainDays), loc)
		n, err = s.workRecords.DeleteOlderThan(ctx, center.ID, workCutoff)
		if err != nil {
			return deleted, err
		}
		deleted += n

		// Log entries reference attendance records, so they share the
		// attendance retention window.
		n, err = s.notifLogs.DeleteOlderThan(ctx, center.ID, attendanceCutoff)
		if err != nil {
			return deleted, err
		}
		deleted += n
	}

	if deleted > 0 {
		s.logger.Info("Pruned expired attendance data", zap.Int64("rows", deleted))
	}
	return deleted, nil
}

// PromoteGrades advances every promotable student one grade step, at most
// once per calendar year. The persisted watermark makes a second run in the
// same year a no-op; terminal-grade students never change.
func (s *Service) PromoteGrades(ctx context.Context) (int, error) {
	year := time.Now().Year()

	lastYear, err := s.watermark.LastPromotionYear(ctx)
	if err != nil {
		return 0, err
	}
	if lastYear >= year {
		s.logger.Debug("Grade promotion already applied this year", zap.Int("year", year))
		return 0, nil
	}

	promoted := 0
	offset := 0
	for {
		students, err := s.students.FindPromotable(ctx, offset, batchSize)
		if err != nil {
			return promoted, err
		}
		if len(students) == 0 {
			break
		}
		for i := range students {
			student := &students[i]
			// The per-student year guard skips students a crashed earlier run
			// already saved, so resuming never double-promotes.
			if !student.Promote(year) {
				continue
			}
			if err := s.students.Save(ctx, student); err != nil {
				s.logger.Error("Failed to promote student",
					zap.String("student_id", student.ID.String()),
					zap.Error(err))
				continue
			}
			promoted++
		}
		if len(students) < batchSize {
			break
		}
		offset += batchSize
	}

	if err := s.watermark.SetLastPromotionYear(ctx, year); err != nil {
		return promoted, err
	}

	s.logger.Info("Applied yearly grade promotion",
		zap.Int("year", year),
		zap.Int("promoted", promoted))
	return promoted, nil
}
