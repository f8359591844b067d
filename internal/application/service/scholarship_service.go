package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/escolarapp/escolar-api/internal/domain/billing"
	"github.com/escolarapp/escolar-api/internal/domain/entity"
	"github.com/escolarapp/escolar-api/internal/domain/enum"
	"github.com/escolarapp/escolar-api/internal/domain/repository"
	infraRepo "github.com/escolarapp/escolar-api/internal/infrastructure/repository"
	"github.com/escolarapp/escolar-api/pkg/apperror"
	"github.com/escolarapp/escolar-api/pkg/pagination"
)

// ScholarshipService handles becas/convenios: the agreements themselves,
// awarding them to students, and applying them to receipts.
type ScholarshipService struct {
	scholarshipRepo repository.ScholarshipRepository
	receiptRepo     repository.ReceiptRepository
	studentRepo     repository.StudentRepository
}

// NewScholarshipService creates a new scholarship service
func NewScholarshipService(
	scholarshipRepo repository.ScholarshipRepository,
	receiptRepo repository.ReceiptRepository,
	studentRepo repository.StudentRepository,
) *ScholarshipService {
	return &ScholarshipService{
		scholarshipRepo: scholarshipRepo,
		receiptRepo:     receiptRepo,
		studentRepo:     studentRepo,
	}
}

// CreateScholarshipInput represents the create scholarship input
type CreateScholarshipInput struct {
	Name        string
	Type        enum.ScholarshipType
	Percentage  *decimal.Decimal
	FixedAmount *decimal.Decimal
	MonthlyCap  *decimal.Decimal
	Notes       *string
}

// CreateScholarship creates a new scholarship agreement
func (s *ScholarshipService) CreateScholarship(ctx context.Context, input *CreateScholarshipInput) (*entity.Scholarship, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	core := billing.Scholarship{
		Percentage:  input.Percentage,
		FixedAmount: input.FixedAmount,
		MonthlyCap:  input.MonthlyCap,
	}
	if err := core.Validate(); err != nil {
		return nil, mapBillingError(err)
	}

	scholarship := &entity.Scholarship{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        input.Name,
		Type:        input.Type,
		Percentage:  input.Percentage,
		FixedAmount: input.FixedAmount,
		MonthlyCap:  input.MonthlyCap,
		Active:      true,
		Notes:       input.Notes,
	}

	if err := s.scholarshipRepo.Create(ctx, scholarship); err != nil {
		return nil, err
	}
	return scholarship, nil
}

// GetScholarship retrieves a scholarship by ID
func (s *ScholarshipService) GetScholarship(ctx context.Context, id uuid.UUID) (*entity.Scholarship, error) {
	scholarship, err := s.scholarshipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if scholarship == nil {
		return nil, apperror.NewNotFoundError("Scholarship")
	}
	return scholarship, nil
}

// UpdateScholarshipInput represents the update scholarship input
type UpdateScholarshipInput struct {
	Name        *string
	Percentage  *decimal.Decimal
	FixedAmount *decimal.Decimal
	MonthlyCap  *decimal.Decimal
	Active      *bool
	Notes       *string
}

// UpdateScholarship updates a scholarship agreement. Adjustment changes
// are re-validated as a whole.
func (s *ScholarshipService) UpdateScholarship(ctx context.Context, id uuid.UUID, input *UpdateScholarshipInput) (*entity.Scholarship, error) {
	scholarship, err := s.GetScholarship(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		scholarship.Name = *input.Name
	}
	if input.Percentage != nil {
		scholarship.Percentage = input.Percentage
		scholarship.FixedAmount = nil
		scholarship.Type = enum.ScholarshipTypePercentage
	}
	if input.FixedAmount != nil {
		scholarship.FixedAmount = input.FixedAmount
		scholarship.Percentage = nil
		scholarship.Type = enum.ScholarshipTypeFixed
	}
	if input.MonthlyCap != nil {
		scholarship.MonthlyCap = input.MonthlyCap
	}
	if input.Active != nil {
		scholarship.Active = *input.Active
	}
	if input.Notes != nil {
		scholarship.Notes = input.Notes
	}

	if err := scholarship.ToBilling().Validate(); err != nil {
		return nil, mapBillingError(err)
	}

	if err := s.scholarshipRepo.Update(ctx, scholarship); err != nil {
		return nil, err
	}
	return scholarship, nil
}

// DeleteScholarship soft-deletes a scholarship
func (s *ScholarshipService) DeleteScholarship(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetScholarship(ctx, id); err != nil {
		return err
	}
	return s.scholarshipRepo.Delete(ctx, id)
}

// ListScholarships lists scholarships with filtering
func (s *ScholarshipService) ListScholarships(ctx context.Context, params *pagination.PaginationParams, search string, activeOnly bool) (*pagination.PaginatedResult[entity.Scholarship], error) {
	scholarships, total, err := s.scholarshipRepo.List(ctx, params, search, activeOnly)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(scholarships, pag), nil
}

// AwardScholarshipInput represents the award input
type AwardScholarshipInput struct {
	ScholarshipID uuid.UUID
	StudentID     uuid.UUID
	StartsOn      time.Time
	EndsOn        *time.Time
	AuthorizedBy  string
}

// AwardScholarship assigns a scholarship to a student
func (s *ScholarshipService) AwardScholarship(ctx context.Context, input *AwardScholarshipInput) (*entity.ScholarshipAward, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	if input.AuthorizedBy == "" {
		return nil, apperror.NewBadRequestError("Authorizer is required")
	}

	scholarship, err := s.GetScholarship(ctx, input.ScholarshipID)
	if err != nil {
		return nil, err
	}
	if !scholarship.Active {
		return nil, apperror.NewConflictError("Scholarship is inactive")
	}

	student, err := s.studentRepo.GetByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperror.NewNotFoundError("Student")
	}

	existing, err := s.scholarshipRepo.GetActiveAwardForStudent(ctx, input.StudentID, input.StartsOn)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Student already has an active scholarship in that period")
	}

	award := &entity.ScholarshipAward{
		ID:            uuid.New(),
		TenantID:      tenantID,
		ScholarshipID: input.ScholarshipID,
		StudentID:     input.StudentID,
		StartsOn:      input.StartsOn,
		EndsOn:        input.EndsOn,
		AuthorizedBy:  input.AuthorizedBy,
	}

	if err := s.scholarshipRepo.CreateAward(ctx, award); err != nil {
		return nil, err
	}
	return award, nil
}

// RevokeAward removes a scholarship award
func (s *ScholarshipService) RevokeAward(ctx context.Context, awardID uuid.UUID) error {
	return s.scholarshipRepo.DeleteAward(ctx, awardID)
}

// ListAwards lists a student's scholarship awards
func (s *ScholarshipService) ListAwards(ctx context.Context, studentID uuid.UUID) ([]entity.ScholarshipAward, error) {
	return s.scholarshipRepo.ListAwardsByStudent(ctx, studentID)
}

// ApplyToReceiptResult carries the grant outcome, including whether the
// monthly cap truncated it.
type ApplyToReceiptResult struct {
	Receipt         *entity.Receipt
	DiscountGranted decimal.Decimal
	Truncated       bool
}

// ApplyToReceipt applies the student's active scholarship to a receipt.
// The cumulative discount already granted in the receipt's billing month
// feeds the tope mensual; a fully consumed cap grants zero without error.
func (s *ScholarshipService) ApplyToReceipt(ctx context.Context, receiptID uuid.UUID) (*ApplyToReceiptResult, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}

	award, err := s.scholarshipRepo.GetActiveAwardForStudent(ctx, receipt.StudentID, receipt.DueDate)
	if err != nil {
		return nil, err
	}
	if award == nil || award.Scholarship == nil {
		return nil, apperror.NewNotFoundError("Active scholarship for student")
	}

	granted, err := s.receiptRepo.SumScholarshipGrants(ctx, receipt.StudentID, receipt.DueDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result, err := billing.ApplyScholarship(receipt.ToBilling(), award.Scholarship.ToBilling(), granted, now)
	if err != nil {
		return nil, mapBillingError(err)
	}

	receipt.ApplyBilling(result.Receipt)
	if err := s.receiptRepo.Update(ctx, receipt); err != nil {
		return nil, err
	}

	// A zero grant (cap consumed) is recorded too; the audit trail shows
	// the application happened and was truncated.
	monthStart := time.Date(receipt.DueDate.Year(), receipt.DueDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	grant := &entity.ScholarshipGrant{
		TenantID:      tenantID,
		ScholarshipID: award.ScholarshipID,
		StudentID:     receipt.StudentID,
		ReceiptID:     receipt.ID,
		Amount:        result.DiscountGranted,
		Truncated:     result.Truncated,
		BillingMonth:  monthStart,
	}
	if err := s.scholarshipRepo.CreateGrant(ctx, grant); err != nil {
		return nil, err
	}

	return &ApplyToReceiptResult{
		Receipt:         receipt,
		DiscountGranted: result.DiscountGranted,
		Truncated:       result.Truncated,
	}, nil
}
