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

// ReceiptHandler handles receipt-related HTTP requests
type ReceiptHandler struct {
	receiptService     *service.ReceiptService
	scholarshipService *service.ScholarshipService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService, scholarshipService *service.ScholarshipService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService:     receiptService,
		scholarshipService: scholarshipService,
	}
}

// Create handles issuing a new receipt
// @Summary Issue Receipt
// @Description Issue a new receipt for a student
// @Tags receipts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateReceiptRequest true "Receipt data"
// @Success 201 {object} response.APIResponse
// @Router /receipts [post]
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req request.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	receipt, err := h.receiptService.IssueReceipt(c.Request.Context(), &service.IssueReceiptInput{
		StudentID: studentID,
		Concept:   req.Concept,
		Amount:    req.Amount,
		DueDate:   req.DueDate,
		Currency:  req.Currency,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt issued successfully", gin.H{"receipt": receipt})
}

// List handles listing receipts with filters
// @Summary List Receipts
// @Tags receipts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /receipts [get]
func (h *ReceiptHandler) List(c *gin.Context) {
	var filter request.ReceiptFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ReceiptFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	if filter.StudentID != "" {
		if studentID, err := uuid.Parse(filter.StudentID); err == nil {
			params.StudentID = &studentID
		}
	}
	if filter.Status != "" {
		if status, ok := enum.ParseReceiptStatus(filter.Status); ok {
			params.Status = &status
		}
	}
	if filter.DueFrom != "" {
		if from, err := time.Parse("2006-01-02", filter.DueFrom); err == nil {
			params.DueFrom = &from
		}
	}
	if filter.DueTo != "" {
		if to, err := time.Parse("2006-01-02", filter.DueTo); err == nil {
			params.DueTo = &to
		}
	}

	result, err := h.receiptService.ListReceipts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Receipts retrieved successfully", result)
}

// Get handles fetching a single receipt by ID
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", gin.H{"receipt": receipt})
}

// GetByFolio handles fetching a receipt by its folio
func (h *ReceiptHandler) GetByFolio(c *gin.Context) {
	receipt, err := h.receiptService.GetReceiptByFolio(c.Request.Context(), c.Param("folio"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", gin.H{"receipt": receipt})
}

// ApplyDiscount handles applying a manual discount to a receipt
// @Summary Apply Discount
// @Description Apply an authorized desk discount to a receipt
// @Tags receipts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.ApplyDiscountRequest true "Discount data"
// @Success 200 {object} response.APIResponse
// @Router /receipts/{id}/discount [post]
func (h *ReceiptHandler) ApplyDiscount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req request.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.receiptService.ApplyDiscount(c.Request.Context(), id, &service.ApplyDiscountInput{
		Amount:       req.Amount,
		AuthorizedBy: GetUserEmail(c),
		Reason:       req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount applied successfully", gin.H{"receipt": receipt})
}

// ApplyScholarship handles applying the student's active scholarship to a receipt
func (h *ReceiptHandler) ApplyScholarship(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	result, err := h.scholarshipService.ApplyToReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Scholarship applied successfully", gin.H{
		"receipt":          result.Receipt,
		"discount_granted": result.DiscountGranted,
		"truncated":        result.Truncated,
	})
}

// Cancel handles cancelling a receipt
func (h *ReceiptHandler) Cancel(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req request.CancelReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.receiptService.CancelReceipt(c.Request.Context(), id, *userID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt cancelled successfully", gin.H{"receipt": receipt})
}

// Waive handles waiving a receipt's balance
func (h *ReceiptHandler) Waive(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req request.CancelReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.receiptService.WaiveReceipt(c.Request.Context(), id, *userID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt waived successfully", gin.H{"receipt": receipt})
}

// RefreshOverdue handles the overdue sweep: marks past-due receipts and
// accrues surcharges per the tenant's policy.
// @Summary Refresh Overdue
// @Description Sweep open receipts, marking overdue ones and accruing surcharges
// @Tags receipts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /receipts/refresh-overdue [post]
func (h *ReceiptHandler) RefreshOverdue(c *gin.Context) {
	asOf := time.Now()
	if v := c.Query("as_of"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(c, "Invalid as_of date, expected YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	result, err := h.receiptService.RefreshOverdue(c.Request.Context(), asOf)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Overdue sweep completed", gin.H{
		"scanned":         result.Scanned,
		"marked_overdue":  result.MarkedOverdue,
		"surcharge_added": result.SurchargeAdded,
	})
}
