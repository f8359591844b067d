package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/escolarapp/escolar-api/internal/domain/entity"
	"github.com/escolarapp/escolar-api/internal/domain/repository"
	infraRepo "github.com/escolarapp/escolar-api/internal/infrastructure/repository"
	"github.com/escolarapp/escolar-api/pkg/apperror"
	"github.com/escolarapp/escolar-api/pkg/pagination"
)

// StudentService handles the student registry
type StudentService struct {
	studentRepo repository.StudentRepository
	receiptRepo repository.ReceiptRepository
}

// NewStudentService creates a new student service
func NewStudentService(
	studentRepo repository.StudentRepository,
	receiptRepo repository.ReceiptRepository,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		receiptRepo: receiptRepo,
	}
}

// CreateStudentInput represents the create student input
type CreateStudentInput struct {
	Matricula     string
	FirstName     string
	LastName      string
	GroupName     string
	GradeLevel    string
	GuardianName  *string
	GuardianEmail *string
	GuardianPhone *string
	EnrolledAt    time.Time
}

// CreateStudent enrolls a new student
func (s *StudentService) CreateStudent(ctx context.Context, input *CreateStudentInput) (*entity.Student, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	existing, err := s.studentRepo.GetByMatricula(ctx, input.Matricula)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Matricula already registered")
	}

	enrolledAt := input.EnrolledAt
	if enrolledAt.IsZero() {
		enrolledAt = time.Now()
	}

	student := &entity.Student{
		ID:            uuid.New(),
		TenantID:      tenantID,
		Matricula:     input.Matricula,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		GroupName:     input.GroupName,
		GradeLevel:    input.GradeLevel,
		GuardianName:  input.GuardianName,
		GuardianEmail: input.GuardianEmail,
		GuardianPhone: input.GuardianPhone,
		Active:        true,
		EnrolledAt:    enrolledAt,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// GetStudent retrieves a student by ID
func (s *StudentService) GetStudent(ctx context.Context, id uuid.UUID) (*entity.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperror.NewNotFoundError("Student")
	}
	return student, nil
}

// GetStudentByMatricula retrieves a student by matricula
func (s *StudentService) GetStudentByMatricula(ctx context.Context, matricula string) (*entity.Student, error) {
	student, err := s.studentRepo.GetByMatricula(ctx, matricula)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperror.NewNotFoundError("Student")
	}
	return student, nil
}

// UpdateStudentInput represents the update student input
type UpdateStudentInput struct {
	FirstName     *string
	LastName      *string
	GroupName     *string
	GradeLevel    *string
	GuardianName  *string
	GuardianEmail *string
	GuardianPhone *string
	Active        *bool
}

// UpdateStudent updates a student's registry data
func (s *StudentService) UpdateStudent(ctx context.Context, id uuid.UUID, input *UpdateStudentInput) (*entity.Student, error) {
	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		student.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		student.LastName = *input.LastName
	}
	if input.GroupName != nil {
		student.GroupName = *input.GroupName
	}
	if input.GradeLevel != nil {
		student.GradeLevel = *input.GradeLevel
	}
	if input.GuardianName != nil {
		student.GuardianName = input.GuardianName
	}
	if input.GuardianEmail != nil {
		student.GuardianEmail = input.GuardianEmail
	}
	if input.GuardianPhone != nil {
		student.GuardianPhone = input.GuardianPhone
	}
	if input.Active != nil {
		student.Active = *input.Active
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// DeleteStudent soft-deletes a student
func (s *StudentService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetStudent(ctx, id); err != nil {
		return err
	}
	return s.studentRepo.Delete(ctx, id)
}

// ListStudents lists students with filtering
func (s *StudentService) ListStudents(ctx context.Context, params *repository.StudentFilterParams) (*pagination.PaginatedResult[entity.Student], error) {
	students, total, err := s.studentRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(students, pag), nil
}

// StudentStatement is a student's account snapshot: outstanding receipts
// and the totals behind them.
type StudentStatement struct {
	Student      *entity.Student
	Receipts     []entity.Receipt
	TotalBalance decimal.Decimal
	TotalOverdue decimal.Decimal
}

// GetStatement builds a student's account statement
func (s *StudentService) GetStatement(ctx context.Context, studentID uuid.UUID) (*StudentStatement, error) {
	student, err := s.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	receipts, err := s.receiptRepo.ListOutstanding(ctx, studentID)
	if err != nil {
		return nil, err
	}

	statement := &StudentStatement{
		Student:      student,
		Receipts:     receipts,
		TotalBalance: decimal.Zero,
		TotalOverdue: decimal.Zero,
	}

	now := time.Now().UTC()
	for _, r := range receipts {
		statement.TotalBalance = statement.TotalBalance.Add(r.Balance)
		if now.After(r.DueDate) {
			statement.TotalOverdue = statement.TotalOverdue.Add(r.Balance)
		}
	}
	return statement, nil
}
