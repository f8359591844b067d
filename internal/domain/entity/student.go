package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student represents an enrolled student. Billing hangs receipts and
// scholarship awards off this registry; academic records live elsewhere.
type Student struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Matricula     string         `gorm:"size:50;uniqueIndex;not null" json:"matricula"`
	FirstName     string         `gorm:"size:255;not null" json:"first_name"`
	LastName      string         `gorm:"size:255;not null" json:"last_name"`
	GroupName     string         `gorm:"size:100" json:"group_name,omitempty"`
	GradeLevel    string         `gorm:"size:100" json:"grade_level,omitempty"`
	GuardianName  *string        `gorm:"size:255" json:"guardian_name,omitempty"`
	GuardianEmail *string        `gorm:"size:255" json:"guardian_email,omitempty"`
	GuardianPhone *string        `gorm:"size:50" json:"guardian_phone,omitempty"`
	Active        bool           `gorm:"default:true;index" json:"active"`
	EnrolledAt    time.Time      `gorm:"type:date" json:"enrolled_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Receipts []Receipt          `gorm:"foreignKey:StudentID" json:"-"`
	Awards   []ScholarshipAward `gorm:"foreignKey:StudentID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new student
func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Student model
func (Student) TableName() string {
	return "students"
}

// FullName returns the student's display name
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
