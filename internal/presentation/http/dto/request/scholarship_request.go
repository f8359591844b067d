package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateScholarshipRequest represents a scholarship creation request.
// Exactly one of percentage or fixed_amount must be set.
type CreateScholarshipRequest struct {
	Name        string           `json:"name" binding:"required,min=2,max=255"`
	Percentage  *decimal.Decimal `json:"percentage"`
	FixedAmount *decimal.Decimal `json:"fixed_amount"`
	MonthlyCap  *decimal.Decimal `json:"monthly_cap"`
	Notes       *string          `json:"notes"`
}

// UpdateScholarshipRequest represents a scholarship update request
type UpdateScholarshipRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=2,max=255"`
	Percentage  *decimal.Decimal `json:"percentage"`
	FixedAmount *decimal.Decimal `json:"fixed_amount"`
	MonthlyCap  *decimal.Decimal `json:"monthly_cap"`
	Active      *bool            `json:"active"`
	Notes       *string          `json:"notes"`
}

// AwardScholarshipRequest represents a scholarship award request
type AwardScholarshipRequest struct {
	StudentID string     `json:"student_id" binding:"required,uuid"`
	StartsOn  time.Time  `json:"starts_on" binding:"required"`
	EndsOn    *time.Time `json:"ends_on"`
}

// ScholarshipFilterRequest represents scholarship filter parameters
type ScholarshipFilterRequest struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
