package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/escolarapp/escolar-api/internal/application/service"
	"github.com/escolarapp/escolar-api/internal/domain/enum"
	"github.com/escolarapp/escolar-api/internal/domain/repository"
	"github.com/escolarapp/escolar-api/internal/presentation/http/dto/request"
	"github.com/escolarapp/escolar-api/internal/presentation/http/dto/response"
	"github.com/escolarapp/escolar-api/pkg/pagination"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Register handles registering a payment at the desk
// @Summary Register Payment
// @Description Register a payment and apply it across the student's receipts
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.RegisterPaymentRequest true "Payment data"
// @Success 201 {object} response.APIResponse
// @Router /payments [post]
func (h *PaymentHandler) Register(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	method, ok := enum.ParsePaymentMethod(req.Method)
	if !ok {
		response.BadRequest(c, "Invalid payment method")
		return
	}

	input := &service.RegisterPaymentInput{
		CashierID: *userID,
		Amount:    req.Amount,
		Method:    method,
		Reference: req.Reference,
		Notes:     req.Notes,
	}

	if req.StudentID != nil {
		studentID, err := uuid.Parse(*req.StudentID)
		if err != nil {
			response.BadRequest(c, "Invalid student ID")
			return
		}
		input.StudentID = &studentID
	}

	for _, t := range req.Targets {
		receiptID, err := uuid.Parse(t.ReceiptID)
		if err != nil {
			response.BadRequest(c, "Invalid receipt ID in targets")
			return
		}
		input.Targets = append(input.Targets, service.PaymentTargetInput{
			ReceiptID: receiptID,
			Amount:    t.Amount,
		})
	}

	result, err := h.paymentService.RegisterPayment(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment registered successfully", gin.H{
		"payment":     result.Payment,
		"allocations": result.Allocations,
		"receipts":    result.Receipts,
	})
}

// Get handles fetching a payment with its allocations
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", gin.H{"payment": payment})
}

// List handles listing payments with filters
func (h *PaymentHandler) List(c *gin.Context) {
	var filter request.PaymentFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.PaymentFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	if filter.StudentID != "" {
		if studentID, err := uuid.Parse(filter.StudentID); err == nil {
			params.StudentID = &studentID
		}
	}
	if filter.CashierID != "" {
		if cashierID, err := uuid.Parse(filter.CashierID); err == nil {
			params.CashierID = &cashierID
		}
	}
	if filter.Method != "" {
		if method, ok := enum.ParsePaymentMethod(filter.Method); ok {
			params.Method = &method
		}
	}
	if filter.Status != "" {
		if status, ok := enum.ParsePaymentStatus(filter.Status); ok {
			params.Status = &status
		}
	}
	if filter.From != "" {
		if from, err := time.Parse("2006-01-02", filter.From); err == nil {
			params.From = &from
		}
	}
	if filter.To != "" {
		if to, err := time.Parse("2006-01-02", filter.To); err == nil {
			params.To = &to
		}
	}

	result, err := h.paymentService.ListPayments(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Payments retrieved successfully", result)
}

// Void handles voiding a payment and restoring the receipts it covered
// @Summary Void Payment
// @Description Void a payment, reversing its allocations
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.VoidPaymentRequest true "Void reason"
// @Success 200 {object} response.APIResponse
// @Router /payments/{id}/void [post]
func (h *PaymentHandler) Void(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	var req request.VoidPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.paymentService.VoidPayment(c.Request.Context(), id, *userID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment voided successfully", gin.H{"payment": payment})
}
