package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tutorhub/backend/internal/domain/attendance"
	"github.com/tutorhub/backend/internal/domain/shared"
	"github.com/tutorhub/backend/internal/infrastructure/persistence/models"
)

// GormRecordRepository implements RecordRepository using GORM
type GormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository creates a new GormRecordRepository
func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

// FindByID finds a record by its ID
func (r *GormRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*attendance.Record, error) {
	var model models.RecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCenter finds a record by ID within a center
func (r *GormRecordRepository) FindByIDForCenter(ctx context.Context, centerID, id uuid.UUID) (*attendance.Record, error) {
	var model models.RecordModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND id = ?", centerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStudentAndDay looks up the record keyed by (student, day, class scope).
// The class scope column folds nil into the zero UUID, so a center-scope
// lookup never matches a class-scoped row and vice versa.
func (r *GormRecordRepository) FindByStudentAndDay(ctx context.Context, centerID, studentID uuid.UUID, day time.Time, classID *uuid.UUID) (*attendance.Record, error) {
	var model models.RecordModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND student_id = ? AND check_in_date = ? AND class_scope = ?",
			centerID, studentID, day, models.ClassScopeKey(classID)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDay finds a center's records for one day with pagination
func (r *GormRecordRepository) FindByDay(ctx context.Context, centerID uuid.UUID, day time.Time, filter shared.Filter) ([]attendance.Record, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.RecordModel{}).
		Where("center_id = ? AND check_in_date = ?", centerID, day)

	var total int64
	if err := r.applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recordModels []models.RecordModel
	if err := r.applyFilter(base, filter).Find(&recordModels).Error; err != nil {
		return nil, 0, err
	}

	records := make([]attendance.Record, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, total, nil
}

// FindByStudentRange finds a student's records between two days inclusive
func (r *GormRecordRepository) FindByStudentRange(ctx context.Context, centerID, studentID uuid.UUID, from, to time.Time) ([]attendance.Record, error) {
	var recordModels []models.RecordModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND student_id = ? AND check_in_date BETWEEN ? AND ?", centerID, studentID, from, to).
		Order("check_in_date ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]attendance.Record, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// FindByClassAndDay finds a class's records for one day
func (r *GormRecordRepository) FindByClassAndDay(ctx context.Context, centerID, classID uuid.UUID, day time.Time) ([]attendance.Record, error) {
	var recordModels []models.RecordModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND class_id = ? AND check_in_date = ?", centerID, classID, day).
		Order("check_in_at ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]attendance.Record, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// DeleteOlderThan prunes a center's records dated strictly before cutoff
func (r *GormRecordRepository) DeleteOlderThan(ctx context.Context, centerID uuid.UUID, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("center_id = ? AND check_in_date < ?", centerID, cutoff).
		Delete(&models.RecordModel{})
	return result.RowsAffected, result.Error
}

// FindAll finds all records matching the filter
func (r *GormRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]attendance.Record, error) {
	var recordModels []models.RecordModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.RecordModel{}), filter)

	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]attendance.Record, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// FindAllForCenter finds all records for a center
func (r *GormRecordRepository) FindAllForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]attendance.Record, error) {
	var recordModels []models.RecordModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.RecordModel{}).Where("center_id = ?", centerID), filter)

	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]attendance.Record, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// Save creates or updates a record. A unique violation on the ledger key maps
// to shared.ErrAlreadyExists: two pads racing the same student lose here, not
// in the check-then-insert above it.
func (r *GormRecordRepository) Save(ctx context.Context, record *attendance.Record) error {
	model := models.RecordModelFromDomain(record)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete deletes a record
func (r *GormRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RecordModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts records matching the filter
func (r *GormRecordRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.RecordModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForCenter counts records for a center
func (r *GormRecordRepository) CountForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.RecordModel{}).Where("center_id = ?", centerID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormRecordRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, RecordSortFields, "check_in_date")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormRecordRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "student_id":
			query = query.Where("student_id = ?", value)
		case "class_id":
			query = query.Where("class_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "was_late":
			query = query.Where("was_late = ?", value)
		}
	}
	return query
}

// Ensure GormRecordRepository implements RecordRepository
var _ attendance.RecordRepository = (*GormRecordRepository)(nil)
