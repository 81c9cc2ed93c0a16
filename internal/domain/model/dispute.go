package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dispute mirrors a Stripe charge dispute against a marketplace order.
// Exactly one row exists per stripe_dispute_id; the status string follows
// Stripe's dispute lifecycle (warning_needs_response, under_review, won,
// lost, ...). The summary fields are best-effort AI enrichment and may be
// absent.
type Dispute struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	StripeDisputeID string          `gorm:"unique;not null;size:100" json:"stripe_dispute_id"`
	PaymentIntentID string          `gorm:"not null;size:100;index" json:"payment_intent_id"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	VendorID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"vendor_id"`
	BuyerID         string          `gorm:"not null;size:128" json:"buyer_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency        string          `gorm:"size:3;default:'aud'" json:"currency"`
	Reason          string          `gorm:"size:100" json:"reason"`
	Status          string          `gorm:"not null;size:50" json:"status"`
	EvidenceDueBy   *time.Time      `json:"evidence_due_by,omitempty"`

	// AI-enriched summary, nil when summarization was unavailable.
	Summary           *string `json:"summary,omitempty"`
	RiskLevel         *string `gorm:"size:20" json:"risk_level,omitempty"`
	RecommendedAction *string `json:"recommended_action,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Dispute) TableName() string {
	return "disputes"
}
