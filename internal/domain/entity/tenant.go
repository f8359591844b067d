package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/escolarapp/escolar-api/internal/domain/billing"
)

// Tenant represents a school (campus) in the multitenant system. Each
// school gets its own subdomain slug and its own billing policy.
type Tenant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Settings  TenantSettings `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Owner   User               `gorm:"foreignKey:OwnerID" json:"-"`
	Members []TenantMembership `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new tenant
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// MemberUser represents a subset of user fields for membership responses
type MemberUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// TenantMembership represents a staff member's membership in a school
type TenantMembership struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"tenant_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role      string    `gorm:"size:50;default:'member'" json:"role"` // owner, admin, member
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	// Computed field for JSON response
	MemberUser *MemberUser `gorm:"-" json:"user,omitempty"`
}

// PopulateUserDetails populates the MemberUser field from the User relationship
func (tm *TenantMembership) PopulateUserDetails() {
	if tm.User.ID != uuid.Nil {
		tm.MemberUser = &MemberUser{
			ID:        tm.User.ID,
			FirstName: tm.User.FirstName,
			LastName:  tm.User.LastName,
			Email:     tm.User.Email,
		}
	}
}

// TableName returns the table name for the TenantMembership model
func (TenantMembership) TableName() string {
	return "tenant_memberships"
}

// TenantSettings holds all customizable school configurations
type TenantSettings struct {
	// Branding & Appearance
	LogoURL        string `json:"logo_url,omitempty"`
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`

	// Localization
	Currency   string `json:"currency,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
	Locale     string `json:"locale,omitempty"`
	DateFormat string `json:"date_format,omitempty"`

	// Billing Configuration
	ReceiptPrefix string `json:"receipt_prefix,omitempty"`
	CashCutPrefix string `json:"cash_cut_prefix,omitempty"`
	Surcharge     SurchargeSettings `json:"surcharge,omitempty"`

	// Notification Settings
	EmailNotifications bool   `json:"email_notifications,omitempty"`
	WebhookURL         string `json:"webhook_url,omitempty"`

	// Feature Flags
	Features TenantFeatures `json:"features,omitempty"`
}

// SurchargeSettings is the per-school late-payment policy. Nullable cap
// fields mean "no cap"; zero is never used as a sentinel.
type SurchargeSettings struct {
	DailyRate      decimal.Decimal  `json:"daily_rate"`
	GraceDays      int              `json:"grace_days"`
	MaxOverdueDays *int             `json:"max_overdue_days,omitempty"`
	Minimum        *decimal.Decimal `json:"minimum,omitempty"`
	Maximum        *decimal.Decimal `json:"maximum,omitempty"`
}

// IsZero reports whether the school has no surcharge policy of its own;
// callers fall back to the installation defaults.
func (s SurchargeSettings) IsZero() bool {
	return s.DailyRate.IsZero() && s.GraceDays == 0 &&
		s.MaxOverdueDays == nil && s.Minimum == nil && s.Maximum == nil
}

// ToPolicy converts the settings to the billing core's policy type.
func (s SurchargeSettings) ToPolicy() billing.SurchargePolicy {
	return billing.SurchargePolicy{
		DailyRate:      s.DailyRate,
		GraceEndDay:    s.GraceDays,
		MaxOverdueDays: s.MaxOverdueDays,
		Min:            s.Minimum,
		Max:            s.Maximum,
	}
}

// Scan implements the sql.Scanner interface for TenantSettings
func (ts *TenantSettings) Scan(value interface{}) error {
	if value == nil {
		*ts = TenantSettings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan TenantSettings: unsupported type")
	}

	return json.Unmarshal(bytes, ts)
}

// Value implements the driver.Valuer interface for TenantSettings
func (ts TenantSettings) Value() (driver.Value, error) {
	return json.Marshal(ts)
}

// TenantFeatures holds feature flags for a school
type TenantFeatures struct {
	EnableScholarships   bool `json:"scholarships"`
	EnableSurcharges     bool `json:"surcharges"`
	EnableTicketPrinting bool `json:"ticket_printing"`
	EnableMultiUser      bool `json:"multi_user"`
	EnableAPIAccess      bool `json:"api_access"`
}

// DefaultTenantSettings returns default settings for new schools
func DefaultTenantSettings() TenantSettings {
	return TenantSettings{
		Currency:      "MXN",
		Timezone:      "America/Mexico_City",
		Locale:        "es-MX",
		DateFormat:    "DD/MM/YYYY",
		ReceiptPrefix: "REC-",
		CashCutPrefix: "CORTE-",
		Surcharge: SurchargeSettings{
			DailyRate: decimal.RequireFromString("0.01"),
			GraceDays: 3,
		},
		EmailNotifications: true,
		Features: TenantFeatures{
			EnableScholarships:   true,
			EnableSurcharges:     true,
			EnableTicketPrinting: true,
			EnableMultiUser:      true,
			EnableAPIAccess:      false,
		},
	}
}
