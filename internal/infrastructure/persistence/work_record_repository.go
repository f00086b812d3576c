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

// GormWorkRecordRepository implements WorkRecordRepository using GORM
type GormWorkRecordRepository struct {
	db *gorm.DB
}

// NewGormWorkRecordRepository creates a new GormWorkRecordRepository
func NewGormWorkRecordRepository(db *gorm.DB) *GormWorkRecordRepository {
	return &GormWorkRecordRepository{db: db}
}

// FindByID finds a work record by its ID
func (r *GormWorkRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*attendance.WorkRecord, error) {
	var model models.WorkRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCenter finds a work record by ID within a center
func (r *GormWorkRecordRepository) FindByIDForCenter(ctx context.Context, centerID, id uuid.UUID) (*attendance.WorkRecord, error) {
	var model models.WorkRecordModel
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

// FindByTeacherAndDay finds a teacher's work record for one day
func (r *GormWorkRecordRepository) FindByTeacherAndDay(ctx context.Context, centerID, teacherID uuid.UUID, day time.Time) (*attendance.WorkRecord, error) {
	var model models.WorkRecordModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND teacher_id = ? AND work_date = ?", centerID, teacherID, day).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTeacherRange finds a teacher's work records between two days inclusive
func (r *GormWorkRecordRepository) FindByTeacherRange(ctx context.Context, centerID, teacherID uuid.UUID, from, to time.Time) ([]attendance.WorkRecord, error) {
	var recordModels []models.WorkRecordModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND teacher_id = ? AND work_date BETWEEN ? AND ?", centerID, teacherID, from, to).
		Order("work_date ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]attendance.WorkRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// FindOpenBefore returns a center's records with a check-in but no check-out
// and no missing-checkout flag, dated strictly before day
func (r *GormWorkRecordRepository) FindOpenBefore(ctx context.Context, centerID uuid.UUID, day time.Time, limit int) ([]attendance.WorkRecord, error) {
	var recordModels []models.WorkRecordModel
	query := r.db.WithContext(ctx).
		Where("center_id = ? AND work_date < ? AND check_in_at IS NOT NULL AND check_out_at IS NULL AND no_check_out = ?",
			centerID, day, false).
		Order("work_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]attendance.WorkRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// DeleteOlderThan prunes a center's work records dated strictly before cutoff
func (r *GormWorkRecordRepository) DeleteOlderThan(ctx context.Context, centerID uuid.UUID, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("center_id = ? AND work_date < ?", centerID, cutoff).
		Delete(&models.WorkRecordModel{})
	return result.RowsAffected, result.Error
}

// FindAll finds all work records matching the filter
func (r *GormWorkRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]attendance.WorkRecord, error) {
	var recordModels []models.WorkRecordModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.WorkRecordModel{}), filter)

	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]attendance.WorkRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// FindAllForCenter finds all work records for a center
func (r *GormWorkRecordRepository) FindAllForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]attendance.WorkRecord, error) {
	var recordModels []models.WorkRecordModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.WorkRecordModel{}).Where("center_id = ?", centerID), filter)

	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]attendance.WorkRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// Save creates or updates a work record. A unique violation on the
// (center, teacher, day) index maps to shared.ErrAlreadyExists.
func (r *GormWorkRecordRepository) Save(ctx context.Context, record *attendance.WorkRecord) error {
	model := models.WorkRecordModelFromDomain(record)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete deletes a work record
func (r *GormWorkRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.WorkRecordModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts work records matching the filter
func (r *GormWorkRecordRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.WorkRecordModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForCenter counts work records for a center
func (r *GormWorkRecordRepository) CountForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.WorkRecordModel{}).Where("center_id = ?", centerID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormWorkRecordRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CommonSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormWorkRecordRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "teacher_id":
			query = query.Where("teacher_id = ?", value)
		case "no_check_out":
			query = query.Where("no_check_out = ?", value)
		}
	}
	return query
}

// Ensure GormWorkRecordRepository implements WorkRecordRepository
var _ attendance.WorkRecordRepository = (*GormWorkRecordRepository)(nil)

// GormStaffSettingsRepository implements StaffSettingsRepository using GORM
type GormStaffSettingsRepository struct {
	db *gorm.DB
}

// NewGormStaffSettingsRepository creates a new GormStaffSettingsRepository
func NewGormStaffSettingsRepository(db *gorm.DB) *GormStaffSettingsRepository {
	return &GormStaffSettingsRepository{db: db}
}

// FindByID finds staff settings by ID
func (r *GormStaffSettingsRepository) FindByID(ctx context.Context, id uuid.UUID) (*attendance.StaffSettings, error) {
	var model models.StaffSettingsModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCenter finds staff settings by ID within a center
func (r *GormStaffSettingsRepository) FindByIDForCenter(ctx context.Context, centerID, id uuid.UUID) (*attendance.StaffSettings, error) {
	var model models.StaffSettingsModel
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

// FindByTeacher finds a teacher's check-in settings
func (r *GormStaffSettingsRepository) FindByTeacher(ctx context.Context, centerID, teacherID uuid.UUID) (*attendance.StaffSettings, error) {
	var model models.StaffSettingsModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND teacher_id = ?", centerID, teacherID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all staff settings matching the filter
func (r *GormStaffSettingsRepository) FindAll(ctx context.Context, filter shared.Filter) ([]attendance.StaffSettings, error) {
	var settingsModels []models.StaffSettingsModel
	query := r.db.WithContext(ctx).Model(&models.StaffSettingsModel{})
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Order("created_at DESC").Find(&settingsModels).Error; err != nil {
		return nil, err
	}

	settings := make([]attendance.StaffSettings, len(settingsModels))
	for i, model := range settingsModels {
		settings[i] = *model.ToDomain()
	}
	return settings, nil
}

// FindAllForCenter finds all staff settings for a center
func (r *GormStaffSettingsRepository) FindAllForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]attendance.StaffSettings, error) {
	var settingsModels []models.StaffSettingsModel
	query := r.db.WithContext(ctx).Model(&models.StaffSettingsModel{}).Where("center_id = ?", centerID)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Order("created_at DESC").Find(&settingsModels).Error; err != nil {
		return nil, err
	}

	settings := make([]attendance.StaffSettings, len(settingsModels))
	for i, model := range settingsModels {
		settings[i] = *model.ToDomain()
	}
	return settings, nil
}

// Save creates or updates staff settings
func (r *GormStaffSettingsRepository) Save(ctx context.Context, settings *attendance.StaffSettings) error {
	model := models.StaffSettingsModelFromDomain(settings)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete deletes staff settings
func (r *GormStaffSettingsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.StaffSettingsModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts staff settings matching the filter
func (r *GormStaffSettingsRepository) Count(ctx context.Context, _ shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StaffSettingsModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForCenter counts staff settings for a center
func (r *GormStaffSettingsRepository) CountForCenter(ctx context.Context, centerID uuid.UUID, _ shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StaffSettingsModel{}).
		Where("center_id = ?", centerID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormStaffSettingsRepository implements StaffSettingsRepository
var _ attendance.StaffSettingsRepository = (*GormStaffSettingsRepository)(nil)
