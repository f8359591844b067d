package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/escolarapp/escolar-api/internal/application/service"
	"github.com/escolarapp/escolar-api/internal/domain/repository"
	"github.com/escolarapp/escolar-api/internal/presentation/http/dto/request"
	"github.com/escolarapp/escolar-api/internal/presentation/http/dto/response"
	"github.com/escolarapp/escolar-api/pkg/pagination"
)

// CashCutHandler handles register session (corte de caja) HTTP requests
type CashCutHandler struct {
	cashCutService *service.CashCutService
}

// NewCashCutHandler creates a new cash-cut handler
func NewCashCutHandler(cashCutService *service.CashCutService) *CashCutHandler {
	return &CashCutHandler{cashCutService: cashCutService}
}

// Open handles opening a register session for the authenticated cashier
// @Summary Open Cash Cut
// @Description Open a register session with an opening drawer amount
// @Tags cash-cuts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.OpenCashCutRequest true "Opening data"
// @Success 201 {object} response.APIResponse
// @Router /cash-cuts [post]
func (h *CashCutHandler) Open(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.OpenCashCutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cut, err := h.cashCutService.OpenCashCut(c.Request.Context(), &service.OpenCashCutInput{
		CashierID:     *userID,
		OpeningAmount: req.OpeningAmount,
		RegisterID:    req.RegisterID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cash cut opened successfully", gin.H{"cash_cut": cut})
}

// GetOpen handles fetching the authenticated cashier's open session
func (h *CashCutHandler) GetOpen(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	cut, err := h.cashCutService.GetOpenCashCut(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Open cash cut retrieved successfully", gin.H{"cash_cut": cut})
}

// Get handles fetching a cash cut by ID
func (h *CashCutHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid cash cut ID")
		return
	}

	cut, err := h.cashCutService.GetCashCut(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash cut retrieved successfully", gin.H{"cash_cut": cut})
}

// List handles listing cash cuts with filters
func (h *CashCutHandler) List(c *gin.Context) {
	var filter request.CashCutFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.CashCutFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
	}

	if filter.CashierID != "" {
		if cashierID, err := uuid.Parse(filter.CashierID); err == nil {
			params.CashierID = &cashierID
		}
	}
	if filter.OpenOnly {
		closed := false
		params.Closed = &closed
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

	result, err := h.cashCutService.ListCashCuts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Cash cuts retrieved successfully", result)
}

// Summary handles fetching the report of a cash cut
func (h *CashCutHandler) Summary(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid cash cut ID")
		return
	}

	summary, err := h.cashCutService.Summarize(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash cut summary retrieved successfully", cashCutSummaryPayload(summary))
}

// Close handles closing a register session
// @Summary Close Cash Cut
// @Description Close a register session, freezing its totals
// @Tags cash-cuts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /cash-cuts/{id}/close [post]
func (h *CashCutHandler) Close(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid cash cut ID")
		return
	}

	summary, err := h.cashCutService.CloseCashCut(c.Request.Context(), id, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash cut closed successfully", cashCutSummaryPayload(summary))
}

func cashCutSummaryPayload(summary *service.CashCutSummary) gin.H {
	return gin.H{
		"cash_cut":        summary.Cut,
		"payments":        summary.Payments,
		"expected_drawer": summary.ExpectedDrawer,
		"consistent":      summary.Consistent,
	}
}
