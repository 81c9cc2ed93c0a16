package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/suburbmates/payment-service/internal/domain/model"
)

// RefundRequestRepository provides access to buyer refund requests.
type RefundRequestRepository interface {
	Create(ctx context.Context, request *model.RefundRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.RefundRequest, error)
	// GetOpenByOrderID returns the single OPEN request for an order, or
	// (nil, nil) when none exists. The partial unique index guarantees at
	// most one.
	GetOpenByOrderID(ctx context.Context, orderID uuid.UUID) (*model.RefundRequest, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*model.RefundRequest, error)
	// Resolve marks a request RESOLVED, attaching the Stripe refund id.
	Resolve(ctx context.Context, id uuid.UUID, stripeRefundID string) error
	// Decide applies a vendor decision (RESOLVED or REJECTED) with an
	// optional note.
	Decide(ctx context.Context, id uuid.UUID, state model.RefundRequestState, decision, decidedBy string) error
}
