package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tutorhub/backend/internal/domain/notification"
	"github.com/tutorhub/backend/internal/domain/shared"
	"github.com/tutorhub/backend/internal/infrastructure/persistence/models"
)

// GormNotificationLogRepository implements LogRepository using GORM. The log
// is append-only: Save always inserts, and there is no delete path outside
// retention pruning.
type GormNotificationLogRepository struct {
	db *gorm.DB
}

// NewGormNotificationLogRepository creates a new GormNotificationLogRepository
func NewGormNotificationLogRepository(db *gorm.DB) *GormNotificationLogRepository {
	return &GormNotificationLogRepository{db: db}
}

// Save appends a delivery log entry
func (r *GormNotificationLogRepository) Save(ctx context.Context, entry *notification.LogEntry) error {
	model := models.NotificationLogModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByRecord returns all delivery attempts for an attendance record
func (r *GormNotificationLogRepository) FindByRecord(ctx context.Context, centerID, recordID uuid.UUID) ([]notification.LogEntry, error) {
	var logModels []models.NotificationLogModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND attendance_record_id = ?", centerID, recordID).
		Order("sent_at ASC").
		Find(&logModels).Error; err != nil {
		return nil, err
	}
	return toLogEntries(logModels), nil
}

// FindForCenter returns a page of a center's delivery log within a time window
func (r *GormNotificationLogRepository) FindForCenter(ctx context.Context, centerID uuid.UUID, from, to time.Time, filter shared.Filter) ([]notification.LogEntry, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.NotificationLogModel{}).
		Where("center_id = ? AND sent_at >= ? AND sent_at < ?", centerID, from, to)

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		base = base.Where("recipient_phone ILIKE ? OR body ILIKE ?", searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			base = base.Where("status = ?", value)
		case "message_type":
			base = base.Where("message_type = ?", value)
		case "student_id":
			base = base.Where("attendance_record_id IN (SELECT id FROM attendance_records WHERE student_id = ?)", value)
		}
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Order("sent_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var logModels []models.NotificationLogModel
	if err := query.Find(&logModels).Error; err != nil {
		return nil, 0, err
	}
	return toLogEntries(logModels), total, nil
}

// DeleteOlderThan removes a center's log entries sent before the cutoff. Used
// by retention pruning.
func (r *GormNotificationLogRepository) DeleteOlderThan(ctx context.Context, centerID uuid.UUID, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("center_id = ? AND sent_at < ?", centerID, cutoff).
		Delete(&models.NotificationLogModel{})
	return result.RowsAffected, result.Error
}

func toLogEntries(logModels []models.NotificationLogModel) []notification.LogEntry {
	entries := make([]notification.LogEntry, len(logModels))
	for i, model := range logModels {
		entries[i] = *model.ToDomain()
	}
	return entries
}

// Ensure GormNotificationLogRepository implements LogRepository
var _ notification.LogRepository = (*GormNotificationLogRepository)(nil)

// GormTemplateRepository implements TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindByID finds a template by its ID
func (r *GormTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Template, error) {
	var model models.TemplateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCenter finds a template by ID within a center
func (r *GormTemplateRepository) FindByIDForCenter(ctx context.Context, centerID, id uuid.UUID) (*notification.Template, error) {
	var model models.TemplateModel
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

// FindByType returns the center's custom template for a message type.
// shared.ErrNotFound means the center uses the built-in default.
func (r *GormTemplateRepository) FindByType(ctx context.Context, centerID uuid.UUID, messageType string) (*notification.Template, error) {
	var model models.TemplateModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND message_type = ?", centerID, messageType).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all templates matching the filter
func (r *GormTemplateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]notification.Template, error) {
	var templateModels []models.TemplateModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TemplateModel{}), filter)

	if err := query.Find(&templateModels).Error; err != nil {
		return nil, err
	}
	return toTemplates(templateModels), nil
}

// FindAllForCenter finds all templates for a center
func (r *GormTemplateRepository) FindAllForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]notification.Template, error) {
	var templateModels []models.TemplateModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TemplateModel{}).Where("center_id = ?", centerID), filter)

	if err := query.Find(&templateModels).Error; err != nil {
		return nil, err
	}
	return toTemplates(templateModels), nil
}

// Save creates or updates a template
func (r *GormTemplateRepository) Save(ctx context.Context, template *notification.Template) error {
	model := models.TemplateModelFromDomain(template)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete deletes a template, reverting the center to the built-in default
func (r *GormTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TemplateModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts templates matching the filter
func (r *GormTemplateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.TemplateModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForCenter counts templates for a center
func (r *GormTemplateRepository) CountForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.TemplateModel{}).Where("center_id = ?", centerID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormTemplateRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CommonSortFields, "message_type")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTemplateRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "message_type":
			query = query.Where("message_type = ?", value)
		}
	}
	return query
}

func toTemplates(templateModels []models.TemplateModel) []notification.Template {
	templates := make([]notification.Template, len(templateModels))
	for i, model := range templateModels {
		templates[i] = *model.ToDomain()
	}
	return templates
}

// Ensure GormTemplateRepository implements TemplateRepository
var _ notification.TemplateRepository = (*GormTemplateRepository)(nil)

// GormGatewaySettingsRepository implements GatewaySettingsRepository using GORM
type GormGatewaySettingsRepository struct {
	db *gorm.DB
}

// NewGormGatewaySettingsRepository creates a new GormGatewaySettingsRepository
func NewGormGatewaySettingsRepository(db *gorm.DB) *GormGatewaySettingsRepository {
	return &GormGatewaySettingsRepository{db: db}
}

// FindByID finds gateway settings by ID
func (r *GormGatewaySettingsRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.GatewaySettings, error) {
	var model models.GatewaySettingsModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCenter finds gateway settings by ID within a center
func (r *GormGatewaySettingsRepository) FindByIDForCenter(ctx context.Context, centerID, id uuid.UUID) (*notification.GatewaySettings, error) {
	var model models.GatewaySettingsModel
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

// FindActiveForCenter returns the center's active gateway credentials.
// shared.ErrNotFound means the center has no gateway configured and
// notifications are skipped.
func (r *GormGatewaySettingsRepository) FindActiveForCenter(ctx context.Context, centerID uuid.UUID) (*notification.GatewaySettings, error) {
	var model models.GatewaySettingsModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND is_active = ?", centerID, true).
		Order("updated_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all gateway settings matching the filter
func (r *GormGatewaySettingsRepository) FindAll(ctx context.Context, filter shared.Filter) ([]notification.GatewaySettings, error) {
	var settingsModels []models.GatewaySettingsModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.GatewaySettingsModel{}), filter)

	if err := query.Find(&settingsModels).Error; err != nil {
		return nil, err
	}
	return toGatewaySettings(settingsModels), nil
}

// FindAllForCenter finds all gateway settings for a center
func (r *GormGatewaySettingsRepository) FindAllForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]notification.GatewaySettings, error) {
	var settingsModels []models.GatewaySettingsModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.GatewaySettingsModel{}).Where("center_id = ?", centerID), filter)

	if err := query.Find(&settingsModels).Error; err != nil {
		return nil, err
	}
	return toGatewaySettings(settingsModels), nil
}

// Save creates or updates gateway settings
func (r *GormGatewaySettingsRepository) Save(ctx context.Context, settings *notification.GatewaySettings) error {
	model := models.GatewaySettingsModelFromDomain(settings)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes gateway settings
func (r *GormGatewaySettingsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.GatewaySettingsModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts gateway settings matching the filter
func (r *GormGatewaySettingsRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.GatewaySettingsModel{})
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForCenter counts gateway settings for a center
func (r *GormGatewaySettingsRepository) CountForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.GatewaySettingsModel{}).Where("center_id = ?", centerID)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormGatewaySettingsRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CommonSortFields, "updated_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func toGatewaySettings(settingsModels []models.GatewaySettingsModel) []notification.GatewaySettings {
	settings := make([]notification.GatewaySettings, len(settingsModels))
	for i, model := range settingsModels {
		settings[i] = *model.ToDomain()
	}
	return settings
}

// Ensure GormGatewaySettingsRepository implements GatewaySettingsRepository
var _ notification.GatewaySettingsRepository = (*GormGatewaySettingsRepository)(nil)
