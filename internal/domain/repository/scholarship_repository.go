package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/escolarapp/escolar-api/internal/domain/entity"
	"github.com/escolarapp/escolar-api/pkg/pagination"
)

// ScholarshipRepository defines the interface for beca/convenio data operations
type ScholarshipRepository interface {
	Create(ctx context.Context, scholarship *entity.Scholarship) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Scholarship, error)
	Update(ctx context.Context, scholarship *entity.Scholarship) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string, activeOnly bool) ([]entity.Scholarship, int64, error)

	// Awards
	CreateAward(ctx context.Context, award *entity.ScholarshipAward) error
	DeleteAward(ctx context.Context, id uuid.UUID) error
	// GetActiveAwardForStudent returns the student's award in effect on
	// the given date, or nil when none applies.
	GetActiveAwardForStudent(ctx context.Context, studentID uuid.UUID, on time.Time) (*entity.ScholarshipAward, error)
	ListAwardsByStudent(ctx context.Context, studentID uuid.UUID) ([]entity.ScholarshipAward, error)

	// Grants
	CreateGrant(ctx context.Context, grant *entity.ScholarshipGrant) error
	ListGrantsByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.ScholarshipGrant, error)
}
