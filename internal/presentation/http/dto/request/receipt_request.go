package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReceiptRequest represents a receipt issue request
type CreateReceiptRequest struct {
	StudentID string          `json:"student_id" binding:"required,uuid"`
	Concept   string          `json:"concept" binding:"required,min=2,max=255"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	DueDate   time.Time       `json:"due_date" binding:"required"`
	Currency  string          `json:"currency" binding:"omitempty,len=3"`
}

// ApplyDiscountRequest represents a manual discount request
type ApplyDiscountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason" binding:"required,min=3,max=255"`
}

// CancelReceiptRequest represents a receipt cancellation request
type CancelReceiptRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=255"`
}

// ReceiptFilterRequest represents receipt filter parameters
type ReceiptFilterRequest struct {
	StudentID string `form:"student_id"`
	Status    string `form:"status"`
	Search    string `form:"search"`
	DueFrom   string `form:"due_from"`
	DueTo     string `form:"due_to"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
