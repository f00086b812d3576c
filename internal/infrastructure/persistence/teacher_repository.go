package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tutorhub/backend/internal/domain/attendance"
	"github.com/tutorhub/backend/internal/domain/roster"
	"github.com/tutorhub/backend/internal/domain/shared"
	"github.com/tutorhub/backend/internal/infrastructure/persistence/models"
)

// GormTeacherRepository implements TeacherRepository using GORM
type GormTeacherRepository struct {
	db *gorm.DB
}

// NewGormTeacherRepository creates a new GormTeacherRepository
func NewGormTeacherRepository(db *gorm.DB) *GormTeacherRepository {
	return &GormTeacherRepository{db: db}
}

// FindByID finds a teacher by its ID
func (r *GormTeacherRepository) FindByID(ctx context.Context, id uuid.UUID) (*roster.Teacher, error) {
	var model models.TeacherModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCenter finds a teacher by ID within a center
func (r *GormTeacherRepository) FindByIDForCenter(ctx context.Context, centerID, id uuid.UUID) (*roster.Teacher, error) {
	var model models.TeacherModel
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

// FindActiveForCenter returns a center's active teachers
func (r *GormTeacherRepository) FindActiveForCenter(ctx context.Context, centerID uuid.UUID) ([]roster.Teacher, error) {
	var teacherModels []models.TeacherModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND is_active = ?", centerID, true).
		Order("name ASC").
		Find(&teacherModels).Error; err != nil {
		return nil, err
	}
	return toTeachers(teacherModels), nil
}

// ActiveStaffPhones returns each active teacher's phone in hire order. The
// attendance resolver derives legacy check-in codes from these; the fixed
// order makes its first-match-wins scan deterministic.
func (r *GormTeacherRepository) ActiveStaffPhones(ctx context.Context, centerID uuid.UUID) ([]attendance.StaffPhone, error) {
	var rows []struct {
		ID    uuid.UUID
		Phone string
	}
	if err := r.db.WithContext(ctx).
		Model(&models.TeacherModel{}).
		Select("id, phone").
		Where("center_id = ? AND is_active = ? AND phone <> ''", centerID, true).
		Order("hired_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	phones := make([]attendance.StaffPhone, len(rows))
	for i, row := range rows {
		phones[i] = attendance.StaffPhone{TeacherID: row.ID, Phone: row.Phone}
	}
	return phones, nil
}

// FindAll finds all teachers matching the filter
func (r *GormTeacherRepository) FindAll(ctx context.Context, filter shared.Filter) ([]roster.Teacher, error) {
	var teacherModels []models.TeacherModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TeacherModel{}), filter)

	if err := query.Find(&teacherModels).Error; err != nil {
		return nil, err
	}
	return toTeachers(teacherModels), nil
}

// FindAllForCenter finds all teachers for a center
func (r *GormTeacherRepository) FindAllForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]roster.Teacher, error) {
	var teacherModels []models.TeacherModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TeacherModel{}).Where("center_id = ?", centerID), filter)

	if err := query.Find(&teacherModels).Error; err != nil {
		return nil, err
	}
	return toTeachers(teacherModels), nil
}

// Save creates or updates a teacher
func (r *GormTeacherRepository) Save(ctx context.Context, teacher *roster.Teacher) error {
	model := models.TeacherModelFromDomain(teacher)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a teacher
func (r *GormTeacherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TeacherModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts teachers matching the filter
func (r *GormTeacherRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.TeacherModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForCenter counts teachers for a center
func (r *GormTeacherRepository) CountForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.TeacherModel{}).Where("center_id = ?", centerID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormTeacherRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, TeacherSortFields, "name")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTeacherRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ? OR subject ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "subject":
			query = query.Where("subject = ?", value)
		}
	}

	return query
}

func toTeachers(teacherModels []models.TeacherModel) []roster.Teacher {
	teachers := make([]roster.Teacher, len(teacherModels))
	for i, model := range teacherModels {
		teachers[i] = *model.ToDomain()
	}
	return teachers
}

// Ensure GormTeacherRepository implements TeacherRepository and the
// resolver's staff directory
var (
	_ roster.TeacherRepository  = (*GormTeacherRepository)(nil)
	_ attendance.StaffDirectory = (*GormTeacherRepository)(nil)
)
