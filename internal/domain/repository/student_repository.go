package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/escolarapp/escolar-api/internal/domain/entity"
	"github.com/escolarapp/escolar-api/pkg/pagination"
)

// StudentRepository defines the interface for student data operations
type StudentRepository interface {
	Create(ctx context.Context, student *entity.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Student, error)
	GetByMatricula(ctx context.Context, matricula string) (*entity.Student, error)
	Update(ctx context.Context, student *entity.Student) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *StudentFilterParams) ([]entity.Student, int64, error)
}

// StudentFilterParams contains filtering parameters for student queries
type StudentFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Group      string
	Grade      string
	ActiveOnly bool
	SortBy     string
	SortOrder  string
}
