package request

import "time"

// CreateStudentRequest represents a student enrollment request
type CreateStudentRequest struct {
	Matricula     string     `json:"matricula" binding:"required,min=3,max=50"`
	FirstName     string     `json:"first_name" binding:"required,min=2,max=255"`
	LastName      string     `json:"last_name" binding:"required,min=2,max=255"`
	GroupName     string     `json:"group_name" binding:"omitempty,max=50"`
	GradeLevel    string     `json:"grade_level" binding:"omitempty,max=50"`
	GuardianName  *string    `json:"guardian_name"`
	GuardianEmail *string    `json:"guardian_email" binding:"omitempty,email"`
	GuardianPhone *string    `json:"guardian_phone"`
	EnrolledAt    *time.Time `json:"enrolled_at"`
}

// UpdateStudentRequest represents a student update request
type UpdateStudentRequest struct {
	FirstName     *string `json:"first_name" binding:"omitempty,min=2,max=255"`
	LastName      *string `json:"last_name" binding:"omitempty,min=2,max=255"`
	GroupName     *string `json:"group_name" binding:"omitempty,max=50"`
	GradeLevel    *string `json:"grade_level" binding:"omitempty,max=50"`
	GuardianName  *string `json:"guardian_name"`
	GuardianEmail *string `json:"guardian_email" binding:"omitempty,email"`
	GuardianPhone *string `json:"guardian_phone"`
	Active        *bool   `json:"active"`
}

// StudentFilterRequest represents student filter parameters
type StudentFilterRequest struct {
	Search     string `form:"search"`
	Group      string `form:"group"`
	Grade      string `form:"grade"`
	ActiveOnly bool   `form:"active_only"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
