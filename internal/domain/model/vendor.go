package model

import (
	"time"

	"github.com/google/uuid"
)

// Vendor represents a business selling through the marketplace.
type Vendor struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessName    string    `gorm:"not null;size:200" json:"business_name"`
	ContactEmail    string    `gorm:"not null;size:255" json:"contact_email"`
	Suburb          string    `gorm:"size:100" json:"suburb"`
	StripeAccountID *string   `gorm:"size:100;index" json:"stripe_account_id,omitempty"`
	PaymentsEnabled bool      `gorm:"default:false" json:"payments_enabled"`
	ChargesEnabled  bool      `gorm:"default:false" json:"charges_enabled"`
	CreatedAt       time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt       time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}
