package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// RefundRequestState is the lifecycle state of a buyer refund request.
type RefundRequestState string

const (
	RefundRequestStateOpen     RefundRequestState = "OPEN"
	RefundRequestStateResolved RefundRequestState = "RESOLVED"
	RefundRequestStateRejected RefundRequestState = "REJECTED"
)

// Scan implements sql.Scanner interface
func (s *RefundRequestState) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = RefundRequestState(v)
	case []byte:
		*s = RefundRequestState(v)
	default:
		*s = RefundRequestStateOpen
	}
	return nil
}

// Value implements driver.Valuer interface
func (s RefundRequestState) Value() (driver.Value, error) {
	return string(s), nil
}

// RefundRequest is a platform-level refund request raised by a buyer
// against an order, subject to vendor approval. At most one OPEN request
// may exist per order (enforced by a partial unique index).
type RefundRequest struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"vendor_id"`
	OrderID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"order_id"`
	BuyerID        string             `gorm:"not null;size:128" json:"buyer_id"`
	Reason         string             `gorm:"not null" json:"reason"`
	State          RefundRequestState `gorm:"type:refund_request_state;not null;default:'OPEN'" json:"state"`
	StripeRefundID *string            `gorm:"size:100" json:"stripe_refund_id,omitempty"`
	Decision       *string            `json:"decision,omitempty"`
	DecisionBy     *string            `gorm:"size:128" json:"decision_by,omitempty"`
	DecisionAt     *time.Time         `json:"decision_at,omitempty"`
	CreatedAt      time.Time          `gorm:"default:now()" json:"created_at"`
	UpdatedAt      time.Time          `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (RefundRequest) TableName() string {
	return "refund_requests"
}
