package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tutorhub/backend/internal/domain/roster"
	"github.com/tutorhub/backend/internal/domain/shared"
	"github.com/tutorhub/backend/internal/infrastructure/persistence/models"
)

// GormClassRepository implements ClassRepository using GORM
type GormClassRepository struct {
	db *gorm.DB
}

// NewGormClassRepository creates a new GormClassRepository
func NewGormClassRepository(db *gorm.DB) *GormClassRepository {
	return &GormClassRepository{db: db}
}

// FindByID finds a class by its ID
func (r *GormClassRepository) FindByID(ctx context.Context, id uuid.UUID) (*roster.Class, error) {
	var model models.ClassModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCenter finds a class by ID within a center
func (r *GormClassRepository) FindByIDForCenter(ctx context.Context, centerID, id uuid.UUID) (*roster.Class, error) {
	var model models.ClassModel
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

// FindActiveForCenter returns a center's active classes
func (r *GormClassRepository) FindActiveForCenter(ctx context.Context, centerID uuid.UUID) ([]roster.Class, error) {
	var classModels []models.ClassModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND is_active = ?", centerID, true).
		Order("name ASC").
		Find(&classModels).Error; err != nil {
		return nil, err
	}
	return toClasses(classModels), nil
}

// FindAll finds all classes matching the filter
func (r *GormClassRepository) FindAll(ctx context.Context, filter shared.Filter) ([]roster.Class, error) {
	var classModels []models.ClassModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClassModel{}), filter)

	if err := query.Find(&classModels).Error; err != nil {
		return nil, err
	}
	return toClasses(classModels), nil
}

// FindAllForCenter finds all classes for a center
func (r *GormClassRepository) FindAllForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]roster.Class, error) {
	var classModels []models.ClassModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClassModel{}).Where("center_id = ?", centerID), filter)

	if err := query.Find(&classModels).Error; err != nil {
		return nil, err
	}
	return toClasses(classModels), nil
}

// Save creates or updates a class
func (r *GormClassRepository) Save(ctx context.Context, class *roster.Class) error {
	model := models.ClassModelFromDomain(class)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a class
func (r *GormClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ClassModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts classes matching the filter
func (r *GormClassRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ClassModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForCenter counts classes for a center
func (r *GormClassRepository) CountForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.ClassModel{}).Where("center_id = ?", centerID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormClassRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ClassSortFields, "name")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormClassRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "teacher_id":
			query = query.Where("teacher_id = ?", value)
		}
	}

	return query
}

func toClasses(classModels []models.ClassModel) []roster.Class {
	classes := make([]roster.Class, len(classModels))
	for i, model := range classModels {
		classes[i] = *model.ToDomain()
	}
	return classes
}

// Ensure GormClassRepository implements ClassRepository
var _ roster.ClassRepository = (*GormClassRepository)(nil)

// GormEnrollmentRepository implements EnrollmentRepository using GORM
type GormEnrollmentRepository struct {
	db *gorm.DB
}

// NewGormEnrollmentRepository creates a new GormEnrollmentRepository
func NewGormEnrollmentRepository(db *gorm.DB) *GormEnrollmentRepository {
	return &GormEnrollmentRepository{db: db}
}

// FindByID finds an enrollment by its ID
func (r *GormEnrollmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*roster.Enrollment, error) {
	var model models.EnrollmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCenter finds an enrollment by ID within a center
func (r *GormEnrollmentRepository) FindByIDForCenter(ctx context.Context, centerID, id uuid.UUID) (*roster.Enrollment, error) {
	var model models.EnrollmentModel
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

// FindByClass returns a class's enrollments
func (r *GormEnrollmentRepository) FindByClass(ctx context.Context, centerID, classID uuid.UUID) ([]roster.Enrollment, error) {
	var enrollmentModels []models.EnrollmentModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND class_id = ?", centerID, classID).
		Order("enrolled_at ASC").
		Find(&enrollmentModels).Error; err != nil {
		return nil, err
	}
	return toEnrollments(enrollmentModels), nil
}

// FindByStudent returns a student's enrollments
func (r *GormEnrollmentRepository) FindByStudent(ctx context.Context, centerID, studentID uuid.UUID) ([]roster.Enrollment, error) {
	var enrollmentModels []models.EnrollmentModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND student_id = ?", centerID, studentID).
		Order("enrolled_at ASC").
		Find(&enrollmentModels).Error; err != nil {
		return nil, err
	}
	return toEnrollments(enrollmentModels), nil
}

// FindActive finds the active enrollment linking a student to a class
func (r *GormEnrollmentRepository) FindActive(ctx context.Context, centerID, studentID, classID uuid.UUID) (*roster.Enrollment, error) {
	var model models.EnrollmentModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND student_id = ? AND class_id = ? AND status = ?",
			centerID, studentID, classID, roster.EnrollmentStatusActive).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all enrollments matching the filter
func (r *GormEnrollmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]roster.Enrollment, error) {
	var enrollmentModels []models.EnrollmentModel
	query := r.db.WithContext(ctx).Model(&models.EnrollmentModel{})
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Order("enrolled_at DESC").Find(&enrollmentModels).Error; err != nil {
		return nil, err
	}
	return toEnrollments(enrollmentModels), nil
}

// FindAllForCenter finds all enrollments for a center
func (r *GormEnrollmentRepository) FindAllForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]roster.Enrollment, error) {
	var enrollmentModels []models.EnrollmentModel
	query := r.db.WithContext(ctx).Model(&models.EnrollmentModel{}).Where("center_id = ?", centerID)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Order("enrolled_at DESC").Find(&enrollmentModels).Error; err != nil {
		return nil, err
	}
	return toEnrollments(enrollmentModels), nil
}

// Save creates or updates an enrollment
func (r *GormEnrollmentRepository) Save(ctx context.Context, enrollment *roster.Enrollment) error {
	model := models.EnrollmentModelFromDomain(enrollment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an enrollment
func (r *GormEnrollmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EnrollmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts enrollments matching the filter
func (r *GormEnrollmentRepository) Count(ctx context.Context, _ shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.EnrollmentModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForCenter counts enrollments for a center
func (r *GormEnrollmentRepository) CountForCenter(ctx context.Context, centerID uuid.UUID, _ shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.EnrollmentModel{}).
		Where("center_id = ?", centerID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toEnrollments(enrollmentModels []models.EnrollmentModel) []roster.Enrollment {
	enrollments := make([]roster.Enrollment, len(enrollmentModels))
	for i, model := range enrollmentModels {
		enrollments[i] = *model.ToDomain()
	}
	return enrollments
}

// Ensure GormEnrollmentRepository implements EnrollmentRepository
var _ roster.EnrollmentRepository = (*GormEnrollmentRepository)(nil)

// promotionWatermarkRowID is the fixed primary key of the single watermark row
const promotionWatermarkRowID = 1

// GormPromotionWatermarkRepository persists the yearly promotion watermark
type GormPromotionWatermarkRepository struct {
	db *gorm.DB
}

// NewGormPromotionWatermarkRepository creates a new GormPromotionWatermarkRepository
func NewGormPromotionWatermarkRepository(db *gorm.DB) *GormPromotionWatermarkRepository {
	return &GormPromotionWatermarkRepository{db: db}
}

// LastPromotionYear returns the last school year the promotion job completed,
// zero when the job has never run
func (r *GormPromotionWatermarkRepository) LastPromotionYear(ctx context.Context) (int, error) {
	var model models.PromotionWatermarkModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", promotionWatermarkRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return model.LastPromotionYear, nil
}

// SetLastPromotionYear records the school year the promotion job completed
func (r *GormPromotionWatermarkRepository) SetLastPromotionYear(ctx context.Context, year int) error {
	return r.db.WithContext(ctx).Save(&models.PromotionWatermarkModel{
		ID:                promotionWatermarkRowID,
		LastPromotionYear: year,
		UpdatedAt:         time.Now(),
	}).Error
}

// Ensure GormPromotionWatermarkRepository implements PromotionWatermarkRepository
var _ roster.PromotionWatermarkRepository = (*GormPromotionWatermarkRepository)(nil)
