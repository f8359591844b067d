package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/escolarapp/escolar-api/internal/application/service"
	"github.com/escolarapp/escolar-api/internal/domain/enum"
	"github.com/escolarapp/escolar-api/internal/presentation/http/dto/request"
	"github.com/escolarapp/escolar-api/internal/presentation/http/dto/response"
	"github.com/escolarapp/escolar-api/pkg/pagination"
)

// ScholarshipHandler handles scholarship (beca) HTTP requests
type ScholarshipHandler struct {
	scholarshipService *service.ScholarshipService
}

// NewScholarshipHandler creates a new scholarship handler
func NewScholarshipHandler(scholarshipService *service.ScholarshipService) *ScholarshipHandler {
	return &ScholarshipHandler{scholarshipService: scholarshipService}
}

// Create handles creating a scholarship agreement
// @Summary Create Scholarship
// @Tags scholarships
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateScholarshipRequest true "Scholarship data"
// @Success 201 {object} response.APIResponse
// @Router /scholarships [post]
func (h *ScholarshipHandler) Create(c *gin.Context) {
	var req request.CreateScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	scholarshipType := enum.ScholarshipTypePercentage
	if req.FixedAmount != nil {
		scholarshipType = enum.ScholarshipTypeFixed
	}

	scholarship, err := h.scholarshipService.CreateScholarship(c.Request.Context(), &service.CreateScholarshipInput{
		Name:        req.Name,
		Type:        scholarshipType,
		Percentage:  req.Percentage,
		FixedAmount: req.FixedAmount,
		MonthlyCap:  req.MonthlyCap,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Scholarship created successfully", gin.H{"scholarship": scholarship})
}

// List handles listing scholarships
func (h *ScholarshipHandler) List(c *gin.Context) {
	var filter request.ScholarshipFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &pagination.PaginationParams{
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}

	result, err := h.scholarshipService.ListScholarships(c.Request.Context(), params, filter.Search, filter.ActiveOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Scholarships retrieved successfully", result)
}

// Get handles fetching a scholarship by ID
func (h *ScholarshipHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid scholarship ID")
		return
	}

	scholarship, err := h.scholarshipService.GetScholarship(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Scholarship retrieved successfully", gin.H{"scholarship": scholarship})
}

// Update handles updating a scholarship agreement
func (h *ScholarshipHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid scholarship ID")
		return
	}

	var req request.UpdateScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	scholarship, err := h.scholarshipService.UpdateScholarship(c.Request.Context(), id, &service.UpdateScholarshipInput{
		Name:        req.Name,
		Percentage:  req.Percentage,
		FixedAmount: req.FixedAmount,
		MonthlyCap:  req.MonthlyCap,
		Active:      req.Active,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Scholarship updated successfully", gin.H{"scholarship": scholarship})
}

// Delete handles soft-deleting a scholarship
func (h *ScholarshipHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid scholarship ID")
		return
	}

	if err := h.scholarshipService.DeleteScholarship(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Scholarship deleted successfully", nil)
}

// Award handles awarding a scholarship to a student
// @Summary Award Scholarship
// @Tags scholarships
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.AwardScholarshipRequest true "Award data"
// @Success 201 {object} response.APIResponse
// @Router /scholarships/{id}/awards [post]
func (h *ScholarshipHandler) Award(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid scholarship ID")
		return
	}

	var req request.AwardScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	award, err := h.scholarshipService.AwardScholarship(c.Request.Context(), &service.AwardScholarshipInput{
		ScholarshipID: id,
		StudentID:     studentID,
		StartsOn:      req.StartsOn,
		EndsOn:        req.EndsOn,
		AuthorizedBy:  GetUserEmail(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Scholarship awarded successfully", gin.H{"award": award})
}

// RevokeAward handles revoking a scholarship award
func (h *ScholarshipHandler) RevokeAward(c *gin.Context) {
	awardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid award ID")
		return
	}

	if err := h.scholarshipService.RevokeAward(c.Request.Context(), awardID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Scholarship award revoked successfully", nil)
}
