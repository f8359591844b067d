package request

import "github.com/shopspring/decimal"

// PaymentTargetRequest pins part of a payment to a specific receipt.
type PaymentTargetRequest struct {
	ReceiptID string          `json:"receipt_id" binding:"required,uuid"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// RegisterPaymentRequest represents a payment registration request.
// Either targets pin the money to specific receipts, or student_id lets
// the desk apply it oldest-due-first.
type RegisterPaymentRequest struct {
	StudentID *string                `json:"student_id" binding:"omitempty,uuid"`
	Amount    decimal.Decimal        `json:"amount" binding:"required"`
	Method    string                 `json:"method" binding:"required"`
	Reference *string                `json:"reference" binding:"omitempty,max=100"`
	Notes     *string                `json:"notes"`
	Targets   []PaymentTargetRequest `json:"targets" binding:"omitempty,dive"`
}

// VoidPaymentRequest represents a payment void request
type VoidPaymentRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=255"`
}

// PaymentFilterRequest represents payment filter parameters
type PaymentFilterRequest struct {
	StudentID string `form:"student_id"`
	CashierID string `form:"cashier_id"`
	Method    string `form:"method"`
	Status    string `form:"status"`
	From      string `form:"from"`
	To        string `form:"to"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
