package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/suburbmates/payment-service/internal/domain/model"
)

// DisputeRepository provides access to dispute records.
type DisputeRepository interface {
	// Create inserts a dispute. Duplicate stripe_dispute_ids are ignored so
	// replayed dispute.created events stay idempotent.
	Create(ctx context.Context, dispute *model.Dispute) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Dispute, error)
	GetByStripeDisputeID(ctx context.Context, stripeDisputeID string) (*model.Dispute, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*model.Dispute, error)
	UpdateStatus(ctx context.Context, stripeDisputeID, status string) error
}
