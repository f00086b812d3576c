package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tutorhub/backend/internal/domain/assessment"
	"github.com/tutorhub/backend/internal/domain/shared"
	"github.com/tutorhub/backend/internal/infrastructure/persistence/models"
)

// GormAssessmentRepository implements AssessmentRepository using GORM
type GormAssessmentRepository struct {
	db *gorm.DB
}

// NewGormAssessmentRepository creates a new GormAssessmentRepository
func NewGormAssessmentRepository(db *gorm.DB) *GormAssessmentRepository {
	return &GormAssessmentRepository{db: db}
}

// FindByID finds an assessment by its ID
func (r *GormAssessmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*assessment.Assessment, error) {
	var model models.AssessmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCenter finds an assessment by ID within a center
func (r *GormAssessmentRepository) FindByIDForCenter(ctx context.Context, centerID, id uuid.UUID) (*assessment.Assessment, error) {
	var model models.AssessmentModel
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

// FindByClass returns a class's assessments, most recent first
func (r *GormAssessmentRepository) FindByClass(ctx context.Context, centerID, classID uuid.UUID) ([]assessment.Assessment, error) {
	var assessmentModels []models.AssessmentModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND class_id = ?", centerID, classID).
		Order("given_on DESC").
		Find(&assessmentModels).Error; err != nil {
		return nil, err
	}
	return toAssessments(assessmentModels), nil
}

// FindAll finds all assessments matching the filter
func (r *GormAssessmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]assessment.Assessment, error) {
	var assessmentModels []models.AssessmentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AssessmentModel{}), filter)

	if err := query.Find(&assessmentModels).Error; err != nil {
		return nil, err
	}
	return toAssessments(assessmentModels), nil
}

// FindAllForCenter finds all assessments for a center
func (r *GormAssessmentRepository) FindAllForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]assessment.Assessment, error) {
	var assessmentModels []models.AssessmentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AssessmentModel{}).Where("center_id = ?", centerID), filter)

	if err := query.Find(&assessmentModels).Error; err != nil {
		return nil, err
	}
	return toAssessments(assessmentModels), nil
}

// Save creates or updates an assessment
func (r *GormAssessmentRepository) Save(ctx context.Context, a *assessment.Assessment) error {
	model := models.AssessmentModelFromDomain(a)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an assessment and its results
func (r *GormAssessmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assessment_id = ?", id).Delete(&models.ResultModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.AssessmentModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts assessments matching the filter
func (r *GormAssessmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.AssessmentModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForCenter counts assessments for a center
func (r *GormAssessmentRepository) CountForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.AssessmentModel{}).Where("center_id = ?", centerID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormAssessmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormAssessmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR subject ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "class_id":
			query = query.Where("class_id = ?", value)
		case "subject":
			query = query.Where("subject = ?", value)
		}
	}

	return query
}

func toAssessments(assessmentModels []models.AssessmentModel) []assessment.Assessment {
	assessments := make([]assessment.Assessment, len(assessmentModels))
	for i, model := range assessmentModels {
		assessments[i] = *model.ToDomain()
	}
	return assessments
}

// Ensure GormAssessmentRepository implements AssessmentRepository
var _ assessment.AssessmentRepository = (*GormAssessmentRepository)(nil)

// GormResultRepository implements ResultRepository using GORM
type GormResultRepository struct {
	db *gorm.DB
}

// NewGormResultRepository creates a new GormResultRepository
func NewGormResultRepository(db *gorm.DB) *GormResultRepository {
	return &GormResultRepository{db: db}
}

// FindByID finds a result by its ID
func (r *GormResultRepository) FindByID(ctx context.Context, id uuid.UUID) (*assessment.Result, error) {
	var model models.ResultModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCenter finds a result by ID within a center
func (r *GormResultRepository) FindByIDForCenter(ctx context.Context, centerID, id uuid.UUID) (*assessment.Result, error) {
	var model models.ResultModel
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

// FindByAssessment returns all results for an assessment
func (r *GormResultRepository) FindByAssessment(ctx context.Context, centerID, assessmentID uuid.UUID) ([]assessment.Result, error) {
	var resultModels []models.ResultModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND assessment_id = ?", centerID, assessmentID).
		Order("score DESC").
		Find(&resultModels).Error; err != nil {
		return nil, err
	}
	return toResults(resultModels), nil
}

// FindByStudent returns a student's results, newest first
func (r *GormResultRepository) FindByStudent(ctx context.Context, centerID, studentID uuid.UUID) ([]assessment.Result, error) {
	var resultModels []models.ResultModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND student_id = ?", centerID, studentID).
		Order("created_at DESC").
		Find(&resultModels).Error; err != nil {
		return nil, err
	}
	return toResults(resultModels), nil
}

// FindAll finds all results matching the filter
func (r *GormResultRepository) FindAll(ctx context.Context, filter shared.Filter) ([]assessment.Result, error) {
	var resultModels []models.ResultModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ResultModel{}), filter)

	if err := query.Find(&resultModels).Error; err != nil {
		return nil, err
	}
	return toResults(resultModels), nil
}

// FindAllForCenter finds all results for a center
func (r *GormResultRepository) FindAllForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]assessment.Result, error) {
	var resultModels []models.ResultModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ResultModel{}).Where("center_id = ?", centerID), filter)

	if err := query.Find(&resultModels).Error; err != nil {
		return nil, err
	}
	return toResults(resultModels), nil
}

// Save creates or updates a result. One row per (assessment, student); the
// unique index turns a duplicate insert into shared.ErrAlreadyExists.
func (r *GormResultRepository) Save(ctx context.Context, result *assessment.Result) error {
	model := models.ResultModelFromDomain(result)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete deletes a result
func (r *GormResultRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ResultModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts results matching the filter
func (r *GormResultRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ResultModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForCenter counts results for a center
func (r *GormResultRepository) CountForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.ResultModel{}).Where("center_id = ?", centerID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormResultRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormResultRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "assessment_id":
			query = query.Where("assessment_id = ?", value)
		case "student_id":
			query = query.Where("student_id = ?", value)
		}
	}
	return query
}

func toResults(resultModels []models.ResultModel) []assessment.Result {
	results := make([]assessment.Result, len(resultModels))
	for i, model := range resultModels {
		results[i] = *model.ToDomain()
	}
	return results
}

// Ensure GormResultRepository implements ResultRepository
var _ assessment.ResultRepository = (*GormResultRepository)(nil)
