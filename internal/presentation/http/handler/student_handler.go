package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/escolarapp/escolar-api/internal/application/service"
	"github.com/escolarapp/escolar-api/internal/domain/repository"
	"github.com/escolarapp/escolar-api/internal/presentation/http/dto/request"
	"github.com/escolarapp/escolar-api/internal/presentation/http/dto/response"
	"github.com/escolarapp/escolar-api/pkg/pagination"
)

// StudentHandler handles student registry HTTP requests
type StudentHandler struct {
	studentService     *service.StudentService
	receiptService     *service.ReceiptService
	scholarshipService *service.ScholarshipService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(
	studentService *service.StudentService,
	receiptService *service.ReceiptService,
	scholarshipService *service.ScholarshipService,
) *StudentHandler {
	return &StudentHandler{
		studentService:     studentService,
		receiptService:     receiptService,
		scholarshipService: scholarshipService,
	}
}

// Create handles enrolling a new student
// @Summary Enroll Student
// @Tags students
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateStudentRequest true "Student data"
// @Success 201 {object} response.APIResponse
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req request.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateStudentInput{
		Matricula:     req.Matricula,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		GroupName:     req.GroupName,
		GradeLevel:    req.GradeLevel,
		GuardianName:  req.GuardianName,
		GuardianEmail: req.GuardianEmail,
		GuardianPhone: req.GuardianPhone,
	}
	if req.EnrolledAt != nil {
		input.EnrolledAt = *req.EnrolledAt
	}

	student, err := h.studentService.CreateStudent(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Student enrolled successfully", gin.H{"student": student})
}

// List handles listing students with filters
func (h *StudentHandler) List(c *gin.Context) {
	var filter request.StudentFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.StudentFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:     filter.Search,
		Group:      filter.Group,
		Grade:      filter.Grade,
		ActiveOnly: filter.ActiveOnly,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	}

	result, err := h.studentService.ListStudents(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Students retrieved successfully", result)
}

// Get handles fetching a student by ID
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	student, err := h.studentService.GetStudent(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Student retrieved successfully", gin.H{"student": student})
}

// GetByMatricula handles fetching a student by matricula
func (h *StudentHandler) GetByMatricula(c *gin.Context) {
	student, err := h.studentService.GetStudentByMatricula(c.Request.Context(), c.Param("matricula"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Student retrieved successfully", gin.H{"student": student})
}

// Update handles updating a student's registry data
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	var req request.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	student, err := h.studentService.UpdateStudent(c.Request.Context(), id, &service.UpdateStudentInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		GroupName:     req.GroupName,
		GradeLevel:    req.GradeLevel,
		GuardianName:  req.GuardianName,
		GuardianEmail: req.GuardianEmail,
		GuardianPhone: req.GuardianPhone,
		Active:        req.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Student updated successfully", gin.H{"student": student})
}

// Delete handles soft-deleting a student
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	if err := h.studentService.DeleteStudent(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Student deleted successfully", nil)
}

// GetStatement handles fetching a student's account statement
// @Summary Student Statement
// @Description Outstanding receipts and totals for a student
// @Tags students
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /students/{id}/statement [get]
func (h *StudentHandler) GetStatement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	statement, err := h.studentService.GetStatement(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Statement retrieved successfully", gin.H{
		"student":       statement.Student,
		"receipts":      statement.Receipts,
		"total_balance": statement.TotalBalance,
		"total_overdue": statement.TotalOverdue,
	})
}

// ListScholarships handles listing a student's scholarship awards
func (h *StudentHandler) ListScholarships(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	awards, err := h.scholarshipService.ListAwards(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Scholarship awards retrieved successfully", gin.H{"awards": awards})
}
