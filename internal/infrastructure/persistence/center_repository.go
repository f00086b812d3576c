package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tutorhub/backend/internal/domain/identity"
	"github.com/tutorhub/backend/internal/domain/shared"
	"github.com/tutorhub/backend/internal/infrastructure/persistence/models"
)

// GormCenterRepository implements CenterRepository using GORM. Centers are
// the partition root, so none of these queries are center-scoped.
type GormCenterRepository struct {
	db *gorm.DB
}

// NewGormCenterRepository creates a new GormCenterRepository
func NewGormCenterRepository(db *gorm.DB) *GormCenterRepository {
	return &GormCenterRepository{db: db}
}

// FindByID finds a center by its ID
func (r *GormCenterRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Center, error) {
	var model models.CenterModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a center by its code. Codes are stored upper-case.
func (r *GormCenterRepository) FindByCode(ctx context.Context, code string) (*identity.Center, error) {
	var model models.CenterModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive returns all active centers. The maintenance jobs iterate this.
func (r *GormCenterRepository) FindActive(ctx context.Context) ([]identity.Center, error) {
	var centerModels []models.CenterModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", identity.CenterStatusActive).
		Order("code ASC").
		Find(&centerModels).Error; err != nil {
		return nil, err
	}
	return toCenters(centerModels), nil
}

// FindAll finds all centers matching the filter
func (r *GormCenterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Center, error) {
	var centerModels []models.CenterModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CenterModel{}), filter)

	if err := query.Find(&centerModels).Error; err != nil {
		return nil, err
	}
	return toCenters(centerModels), nil
}

// Save creates or updates a center
func (r *GormCenterRepository) Save(ctx context.Context, center *identity.Center) error {
	model := models.CenterModelFromDomain(center)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete deletes a center
func (r *GormCenterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CenterModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts centers matching the filter
func (r *GormCenterRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.CenterModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormCenterRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CenterSortFields, "code")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCenterRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ? OR contact_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

func toCenters(centerModels []models.CenterModel) []identity.Center {
	centers := make([]identity.Center, len(centerModels))
	for i, model := range centerModels {
		centers[i] = *model.ToDomain()
	}
	return centers
}

// Ensure GormCenterRepository implements CenterRepository
var _ identity.CenterRepository = (*GormCenterRepository)(nil)
