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

// GormStudentRepository implements StudentRepository using GORM
type GormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository creates a new GormStudentRepository
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// FindByID finds a student by its ID
func (r *GormStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*roster.Student, error) {
	var model models.StudentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCenter finds a student by ID within a center
func (r *GormStudentRepository) FindByIDForCenter(ctx context.Context, centerID, id uuid.UUID) (*roster.Student, error) {
	var model models.StudentModel
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

// FindActiveForCenter returns a center's active students
func (r *GormStudentRepository) FindActiveForCenter(ctx context.Context, centerID uuid.UUID) ([]roster.Student, error) {
	var studentModels []models.StudentModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND status = ?", centerID, roster.StudentStatusActive).
		Order("name ASC").
		Find(&studentModels).Error; err != nil {
		return nil, err
	}
	return toStudents(studentModels), nil
}

// FindWithoutActiveCode returns active students lacking an attendance code.
// Used by the bulk code backfill when onboarding an existing roster.
func (r *GormStudentRepository) FindWithoutActiveCode(ctx context.Context, centerID uuid.UUID) ([]roster.Student, error) {
	var studentModels []models.StudentModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND status = ?", centerID, roster.StudentStatusActive).
		Where("NOT EXISTS (SELECT 1 FROM attendance_codes c WHERE c.center_id = students.center_id AND c.owner_id = students.id AND c.owner_kind = ? AND c.active = ?)",
			attendance.OwnerKindStudent, true).
		Order("name ASC").
		Find(&studentModels).Error; err != nil {
		return nil, err
	}
	return toStudents(studentModels), nil
}

// FindPromotable returns active students in stable ID order for the yearly
// promotion job. The ordering must not depend on grade so batch offsets stay
// stable while grades change mid-run.
func (r *GormStudentRepository) FindPromotable(ctx context.Context, offset, limit int) ([]roster.Student, error) {
	var studentModels []models.StudentModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", roster.StudentStatusActive).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&studentModels).Error; err != nil {
		return nil, err
	}
	return toStudents(studentModels), nil
}

// FindAll finds all students matching the filter
func (r *GormStudentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]roster.Student, error) {
	var studentModels []models.StudentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.StudentModel{}), filter)

	if err := query.Find(&studentModels).Error; err != nil {
		return nil, err
	}
	return toStudents(studentModels), nil
}

// FindAllForCenter finds all students for a center
func (r *GormStudentRepository) FindAllForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]roster.Student, error) {
	var studentModels []models.StudentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.StudentModel{}).Where("center_id = ?", centerID), filter)

	if err := query.Find(&studentModels).Error; err != nil {
		return nil, err
	}
	return toStudents(studentModels), nil
}

// Save creates or updates a student
func (r *GormStudentRepository) Save(ctx context.Context, student *roster.Student) error {
	model := models.StudentModelFromDomain(student)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a student
func (r *GormStudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.StudentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts students matching the filter
func (r *GormStudentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.StudentModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForCenter counts students for a center
func (r *GormStudentRepository) CountForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.StudentModel{}).Where("center_id = ?", centerID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormStudentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StudentSortFields, "name")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStudentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR school ILIKE ? OR phone ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "grade":
			query = query.Where("grade = ?", value)
		case "school":
			query = query.Where("school = ?", value)
		}
	}

	return query
}

func toStudents(studentModels []models.StudentModel) []roster.Student {
	students := make([]roster.Student, len(studentModels))
	for i, model := range studentModels {
		students[i] = *model.ToDomain()
	}
	return students
}

// Ensure GormStudentRepository implements StudentRepository
var _ roster.StudentRepository = (*GormStudentRepository)(nil)
