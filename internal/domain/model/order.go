package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order. Transitions are driven
// exclusively by Stripe webhook events and are always absolute assignments.
type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "Pending"
	OrderStatusCompleted     OrderStatus = "Completed"
	OrderStatusFailedPayment OrderStatus = "FAILED_PAYMENT"
	OrderStatusDisputed      OrderStatus = "DISPUTED"
	OrderStatusRefunded      OrderStatus = "Refunded"
)

// Scan implements sql.Scanner interface
func (s *OrderStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = OrderStatus(v)
	case []byte:
		*s = OrderStatus(v)
	default:
		*s = OrderStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Order represents a purchase of a vendor listing. Orders are scoped to
// their vendor; the payment intent id is the only external correlation key.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID        uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uniq_orders_vendor_payment_intent" json:"vendor_id"`
	BuyerID         string          `gorm:"not null;size:128;index" json:"buyer_id"`
	ListingName     string          `gorm:"not null;size:200" json:"listing_name"`
	CustomerName    string          `gorm:"size:200" json:"customer_name"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency        string          `gorm:"size:3;default:'aud'" json:"currency"`
	Status          OrderStatus     `gorm:"type:order_status;not null;default:'Pending'" json:"status"`
	PaymentIntentID string          `gorm:"not null;size:100;index;uniqueIndex:uniq_orders_vendor_payment_intent" json:"payment_intent_id"`
	CreatedAt       time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"default:now()" json:"updated_at"`

	// Relations
	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}

// TableName specifies the table name for GORM
func (Order) TableName() string {
	return "orders"
}
