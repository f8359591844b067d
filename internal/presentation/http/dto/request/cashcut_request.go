package request

import "github.com/shopspring/decimal"

// OpenCashCutRequest represents a register session open request
type OpenCashCutRequest struct {
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	RegisterID    string          `json:"register_id" binding:"omitempty,max=50"`
}

// CashCutFilterRequest represents cash cut filter parameters
type CashCutFilterRequest struct {
	CashierID string `form:"cashier_id"`
	OpenOnly  bool   `form:"open_only"`
	From      string `form:"from"`
	To        string `form:"to"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
