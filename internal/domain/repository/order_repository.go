package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/suburbmates/payment-service/internal/domain/model"
)

// OrderRepository provides access to vendor-scoped orders.
type OrderRepository interface {
	// Create inserts a new order. The insert is idempotent per
	// (vendor_id, payment_intent_id): replays of the same checkout event
	// do not create a second row.
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// GetByPaymentIntent resolves an order from the external payment
	// correlation key. Returns (nil, nil) when no order matches.
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*model.Order, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*model.Order, error)
	// UpdateStatus applies an absolute status assignment.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error
}
