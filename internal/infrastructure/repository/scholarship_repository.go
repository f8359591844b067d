package repository

import (
	"context"
	"errors"
	"time"

	"github.com/escolarapp/escolar-api/internal/domain/entity"
	domainRepo "github.com/escolarapp/escolar-api/internal/domain/repository"
	"github.com/escolarapp/escolar-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type scholarshipRepository struct {
	db *gorm.DB
}

// NewScholarshipRepository creates a new scholarship repository
func NewScholarshipRepository(db *gorm.DB) domainRepo.ScholarshipRepository {
	return &scholarshipRepository{db: db}
}

func (r *scholarshipRepository) Create(ctx context.Context, scholarship *entity.Scholarship) error {
	return r.db.WithContext(ctx).Create(scholarship).Error
}

func (r *scholarshipRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Scholarship, error) {
	var scholarship entity.Scholarship
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&scholarship, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &scholarship, err
}

func (r *scholarshipRepository) Update(ctx context.Context, scholarship *entity.Scholarship) error {
	return r.db.WithContext(ctx).Save(scholarship).Error
}

func (r *scholarshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Scholarship{}, "id = ?", id).Error
}

func (r *scholarshipRepository) List(ctx context.Context, params *pagination.PaginationParams, search string, activeOnly bool) ([]entity.Scholarship, int64, error) {
	var scholarships []entity.Scholarship
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Scholarship{}).Scopes(TenantScope(ctx))

	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if activeOnly {
		query = query.Where("active = true")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&scholarships).Error

	return scholarships, total, err
}

func (r *scholarshipRepository) CreateAward(ctx context.Context, award *entity.ScholarshipAward) error {
	return r.db.WithContext(ctx).Create(award).Error
}

func (r *scholarshipRepository) DeleteAward(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.ScholarshipAward{}, "id = ?", id).Error
}

// GetActiveAwardForStudent returns the award whose validity window covers
// the given date. An open-ended award has ends_on NULL.
func (r *scholarshipRepository) GetActiveAwardForStudent(ctx context.Context, studentID uuid.UUID, on time.Time) (*entity.ScholarshipAward, error) {
	var award entity.ScholarshipAward
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Scholarship").
		Where("student_id = ?", studentID).
		Where("starts_on <= ?", on).
		Where("ends_on IS NULL OR ends_on >= ?", on).
		Order("starts_on DESC").
		First(&award).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &award, err
}

func (r *scholarshipRepository) ListAwardsByStudent(ctx context.Context, studentID uuid.UUID) ([]entity.ScholarshipAward, error) {
	var awards []entity.ScholarshipAward
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Scholarship").
		Where("student_id = ?", studentID).
		Order("starts_on DESC").
		Find(&awards).Error
	return awards, err
}

func (r *scholarshipRepository) CreateGrant(ctx context.Context, grant *entity.ScholarshipGrant) error {
	return r.db.WithContext(ctx).Create(grant).Error
}

func (r *scholarshipRepository) ListGrantsByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.ScholarshipGrant, error) {
	var grants []entity.ScholarshipGrant
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Where("receipt_id = ?", receiptID).
		Order("created_at ASC").
		Find(&grants).Error
	return grants, err
}
