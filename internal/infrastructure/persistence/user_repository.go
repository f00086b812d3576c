package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tutorhub/backend/internal/domain/identity"
	"github.com/tutorhub/backend/internal/domain/shared"
	"github.com/tutorhub/backend/internal/infrastructure/persistence/models"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID with role links loaded
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.withRoles(ctx, &model)
}

// FindByIDForCenter finds a user by ID within a center
func (r *GormUserRepository) FindByIDForCenter(ctx context.Context, centerID, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND id = ?", centerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.withRoles(ctx, &model)
}

// FindByUsername finds a user by username within a center
func (r *GormUserRepository) FindByUsername(ctx context.Context, centerID uuid.UUID, username string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND LOWER(username) = ?", centerID, strings.ToLower(username)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.withRoles(ctx, &model)
}

// ExistsByUsername checks if a user with the given username exists in the center
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, centerID uuid.UUID, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("center_id = ? AND LOWER(username) = ?", centerID, strings.ToLower(username)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds all users matching the filter
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	var userModels []models.UserModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.UserModel{}), filter)

	if err := query.Find(&userModels).Error; err != nil {
		return nil, err
	}
	return r.toUsers(ctx, userModels)
}

// FindAllForCenter finds all users for a center
func (r *GormUserRepository) FindAllForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	var userModels []models.UserModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.UserModel{}).Where("center_id = ?", centerID), filter)

	if err := query.Find(&userModels).Error; err != nil {
		return nil, err
	}
	return r.toUsers(ctx, userModels)
}

// Save creates or updates a user without touching role links
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveWithRoles persists the user and replaces its role links in one
// transaction
func (r *GormUserRepository) SaveWithRoles(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.UserModelFromDomain(user)
		if err := tx.Save(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserRoleModel{}).Error; err != nil {
			return err
		}

		if len(user.RoleIDs) == 0 {
			return nil
		}

		links := make([]models.UserRoleModel, len(user.RoleIDs))
		for i, roleID := range user.RoleIDs {
			links[i] = models.UserRoleModel{
				UserID:    user.ID,
				RoleID:    roleID,
				CenterID:  user.CenterID,
				CreatedAt: time.Now(),
			}
		}
		return tx.Create(&links).Error
	})
}

// Delete deletes a user and its role links
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.UserRoleModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.UserModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts users matching the filter
func (r *GormUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.UserModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForCenter counts users for a center
func (r *GormUserRepository) CountForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.UserModel{}).Where("center_id = ?", centerID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// withRoles attaches the user's role IDs loaded from the link table
func (r *GormUserRepository) withRoles(ctx context.Context, model *models.UserModel) (*identity.User, error) {
	user := model.ToDomain()

	var links []models.UserRoleModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", model.ID).
		Find(&links).Error; err != nil {
		return nil, err
	}
	for _, link := range links {
		user.RoleIDs = append(user.RoleIDs, link.RoleID)
	}
	return user, nil
}

// toUsers converts models to domain users, batch-loading role links
func (r *GormUserRepository) toUsers(ctx context.Context, userModels []models.UserModel) ([]identity.User, error) {
	if len(userModels) == 0 {
		return []identity.User{}, nil
	}

	ids := make([]uuid.UUID, len(userModels))
	for i, model := range userModels {
		ids[i] = model.ID
	}

	var links []models.UserRoleModel
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", ids).
		Find(&links).Error; err != nil {
		return nil, err
	}
	rolesByUser := make(map[uuid.UUID][]uuid.UUID, len(userModels))
	for _, link := range links {
		rolesByUser[link.UserID] = append(rolesByUser[link.UserID], link.RoleID)
	}

	users := make([]identity.User, len(userModels))
	for i, model := range userModels {
		user := model.ToDomain()
		if roleIDs, ok := rolesByUser[model.ID]; ok {
			user.RoleIDs = roleIDs
		}
		users[i] = *user
	}
	return users, nil
}

// applyFilter applies filter options to the query
func (r *GormUserRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, UserSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormUserRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ? OR display_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "teacher_id":
			query = query.Where("teacher_id = ?", value)
		}
	}

	return query
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
