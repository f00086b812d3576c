package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tutorhub/backend/internal/domain/attendance"
	"github.com/tutorhub/backend/internal/domain/shared"
	"github.com/tutorhub/backend/internal/infrastructure/persistence/models"
)

// GormCodeRepository implements CodeRepository using GORM
type GormCodeRepository struct {
	db *gorm.DB
}

// NewGormCodeRepository creates a new GormCodeRepository
func NewGormCodeRepository(db *gorm.DB) *GormCodeRepository {
	return &GormCodeRepository{db: db}
}

// FindByID finds a code by its ID
func (r *GormCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*attendance.Code, error) {
	var model models.CodeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCenter finds a code by ID within a center
func (r *GormCodeRepository) FindByIDForCenter(ctx context.Context, centerID, id uuid.UUID) (*attendance.Code, error) {
	var model models.CodeModel
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

// FindActiveByValue looks up the active code holding a value for one owner kind
func (r *GormCodeRepository) FindActiveByValue(ctx context.Context, centerID uuid.UUID, value string, kind attendance.OwnerKind) (*attendance.Code, error) {
	var model models.CodeModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND value = ? AND owner_kind = ? AND active = ?", centerID, value, kind, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByOwner returns all active codes registered to an owner
func (r *GormCodeRepository) FindActiveByOwner(ctx context.Context, centerID, ownerID uuid.UUID) ([]attendance.Code, error) {
	var codeModels []models.CodeModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND owner_id = ? AND active = ?", centerID, ownerID, true).
		Find(&codeModels).Error; err != nil {
		return nil, err
	}

	codes := make([]attendance.Code, len(codeModels))
	for i, model := range codeModels {
		codes[i] = *model.ToDomain()
	}
	return codes, nil
}

// ExistsActiveValue reports whether any active code in the center holds the
// value, across both owner kinds
func (r *GormCodeRepository) ExistsActiveValue(ctx context.Context, centerID uuid.UUID, value string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CodeModel{}).
		Where("center_id = ? AND value = ? AND active = ?", centerID, value, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds all codes matching the filter
func (r *GormCodeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]attendance.Code, error) {
	var codeModels []models.CodeModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CodeModel{}), filter)

	if err := query.Find(&codeModels).Error; err != nil {
		return nil, err
	}

	codes := make([]attendance.Code, len(codeModels))
	for i, model := range codeModels {
		codes[i] = *model.ToDomain()
	}
	return codes, nil
}

// FindAllForCenter finds all codes for a center
func (r *GormCodeRepository) FindAllForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]attendance.Code, error) {
	var codeModels []models.CodeModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CodeModel{}).Where("center_id = ?", centerID), filter)

	if err := query.Find(&codeModels).Error; err != nil {
		return nil, err
	}

	codes := make([]attendance.Code, len(codeModels))
	for i, model := range codeModels {
		codes[i] = *model.ToDomain()
	}
	return codes, nil
}

// Save creates or updates a code. A unique violation on the active value index
// maps to shared.ErrAlreadyExists so the registry can report a collision.
func (r *GormCodeRepository) Save(ctx context.Context, code *attendance.Code) error {
	model := models.CodeModelFromDomain(code)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete deletes a code
func (r *GormCodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CodeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts codes matching the filter
func (r *GormCodeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.CodeModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForCenter counts codes for a center
func (r *GormCodeRepository) CountForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.CodeModel{}).Where("center_id = ?", centerID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormCodeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormCodeRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("value LIKE ?", "%"+strings.TrimSpace(filter.Search)+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "owner_kind":
			query = query.Where("owner_kind = ?", value)
		case "owner_id":
			query = query.Where("owner_id = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	return query
}

// Ensure GormCodeRepository implements CodeRepository
var _ attendance.CodeRepository = (*GormCodeRepository)(nil)
