package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tutorhub/backend/internal/domain/homework"
	"github.com/tutorhub/backend/internal/domain/shared"
	"github.com/tutorhub/backend/internal/infrastructure/persistence/models"
)

// GormAssignmentRepository implements AssignmentRepository using GORM
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository creates a new GormAssignmentRepository
func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// FindByID finds an assignment by its ID
func (r *GormAssignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*homework.Assignment, error) {
	var model models.AssignmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCenter finds an assignment by ID within a center
func (r *GormAssignmentRepository) FindByIDForCenter(ctx context.Context, centerID, id uuid.UUID) (*homework.Assignment, error) {
	var model models.AssignmentModel
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

// FindByClass returns a class's assignments, newest first
func (r *GormAssignmentRepository) FindByClass(ctx context.Context, centerID, classID uuid.UUID) ([]homework.Assignment, error) {
	var assignmentModels []models.AssignmentModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND class_id = ?", centerID, classID).
		Order("created_at DESC").
		Find(&assignmentModels).Error; err != nil {
		return nil, err
	}
	return toAssignments(assignmentModels), nil
}

// FindAll finds all assignments matching the filter
func (r *GormAssignmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]homework.Assignment, error) {
	var assignmentModels []models.AssignmentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AssignmentModel{}), filter)

	if err := query.Find(&assignmentModels).Error; err != nil {
		return nil, err
	}
	return toAssignments(assignmentModels), nil
}

// FindAllForCenter finds all assignments for a center
func (r *GormAssignmentRepository) FindAllForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]homework.Assignment, error) {
	var assignmentModels []models.AssignmentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AssignmentModel{}).Where("center_id = ?", centerID), filter)

	if err := query.Find(&assignmentModels).Error; err != nil {
		return nil, err
	}
	return toAssignments(assignmentModels), nil
}

// Save creates or updates an assignment
func (r *GormAssignmentRepository) Save(ctx context.Context, assignment *homework.Assignment) error {
	model := models.AssignmentModelFromDomain(assignment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an assignment and its submissions
func (r *GormAssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&models.SubmissionModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.AssignmentModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts assignments matching the filter
func (r *GormAssignmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.AssignmentModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForCenter counts assignments for a center
func (r *GormAssignmentRepository) CountForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.AssignmentModel{}).Where("center_id = ?", centerID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormAssignmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormAssignmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "class_id":
			query = query.Where("class_id = ?", value)
		}
	}

	return query
}

func toAssignments(assignmentModels []models.AssignmentModel) []homework.Assignment {
	assignments := make([]homework.Assignment, len(assignmentModels))
	for i, model := range assignmentModels {
		assignments[i] = *model.ToDomain()
	}
	return assignments
}

// Ensure GormAssignmentRepository implements AssignmentRepository
var _ homework.AssignmentRepository = (*GormAssignmentRepository)(nil)

// GormSubmissionRepository implements SubmissionRepository using GORM
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewGormSubmissionRepository creates a new GormSubmissionRepository
func NewGormSubmissionRepository(db *gorm.DB) *GormSubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// FindByID finds a submission by its ID
func (r *GormSubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*homework.Submission, error) {
	var model models.SubmissionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCenter finds a submission by ID within a center
func (r *GormSubmissionRepository) FindByIDForCenter(ctx context.Context, centerID, id uuid.UUID) (*homework.Submission, error) {
	var model models.SubmissionModel
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

// FindByAssignment returns all submissions for an assignment
func (r *GormSubmissionRepository) FindByAssignment(ctx context.Context, centerID, assignmentID uuid.UUID) ([]homework.Submission, error) {
	var submissionModels []models.SubmissionModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND assignment_id = ?", centerID, assignmentID).
		Order("submitted_at ASC").
		Find(&submissionModels).Error; err != nil {
		return nil, err
	}
	return toSubmissions(submissionModels), nil
}

// FindByStudent returns a student's submissions, newest first
func (r *GormSubmissionRepository) FindByStudent(ctx context.Context, centerID, studentID uuid.UUID) ([]homework.Submission, error) {
	var submissionModels []models.SubmissionModel
	if err := r.db.WithContext(ctx).
		Where("center_id = ? AND student_id = ?", centerID, studentID).
		Order("submitted_at DESC").
		Find(&submissionModels).Error; err != nil {
		return nil, err
	}
	return toSubmissions(submissionModels), nil
}

// FindAll finds all submissions matching the filter
func (r *GormSubmissionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]homework.Submission, error) {
	var submissionModels []models.SubmissionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SubmissionModel{}), filter)

	if err := query.Find(&submissionModels).Error; err != nil {
		return nil, err
	}
	return toSubmissions(submissionModels), nil
}

// FindAllForCenter finds all submissions for a center
func (r *GormSubmissionRepository) FindAllForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]homework.Submission, error) {
	var submissionModels []models.SubmissionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SubmissionModel{}).Where("center_id = ?", centerID), filter)

	if err := query.Find(&submissionModels).Error; err != nil {
		return nil, err
	}
	return toSubmissions(submissionModels), nil
}

// Save creates or updates a submission
func (r *GormSubmissionRepository) Save(ctx context.Context, submission *homework.Submission) error {
	model := models.SubmissionModelFromDomain(submission)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a submission
func (r *GormSubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SubmissionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts submissions matching the filter
func (r *GormSubmissionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.SubmissionModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForCenter counts submissions for a center
func (r *GormSubmissionRepository) CountForCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.SubmissionModel{}).Where("center_id = ?", centerID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormSubmissionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormSubmissionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "assignment_id":
			query = query.Where("assignment_id = ?", value)
		case "student_id":
			query = query.Where("student_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

func toSubmissions(submissionModels []models.SubmissionModel) []homework.Submission {
	submissions := make([]homework.Submission, len(submissionModels))
	for i, model := range submissionModels {
		submissions[i] = *model.ToDomain()
	}
	return submissions
}

// Ensure GormSubmissionRepository implements SubmissionRepository
var _ homework.SubmissionRepository = (*GormSubmissionRepository)(nil)
