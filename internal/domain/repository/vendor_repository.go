package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/suburbmates/payment-service/internal/domain/model"
)

// VendorRepository provides access to vendor records.
type VendorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error)
	GetByStripeAccountID(ctx context.Context, accountID string) (*model.Vendor, error)
	// UpdateStripeAccount links a Stripe Connect account to the vendor and
	// records whether charges are currently enabled on it.
	UpdateStripeAccount(ctx context.Context, id uuid.UUID, accountID string, chargesEnabled bool) error
}
