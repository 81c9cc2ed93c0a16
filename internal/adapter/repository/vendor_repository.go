package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/suburbmates/payment-service/internal/domain/model"
	"github.com/suburbmates/payment-service/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type vendorRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewVendorRepository creates a new vendor repository
func NewVendorRepository(db *gorm.DB, logger *zap.Logger) repository.VendorRepository {
	return &vendorRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a vendor by its id
func (r *vendorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	var vendor model.Vendor

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&vendor).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get vendor",
			zap.String("vendor_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}

	return &vendor, nil
}

// GetByStripeAccountID retrieves a vendor by its linked Stripe account
func (r *vendorRepository) GetByStripeAccountID(ctx context.Context, accountID string) (*model.Vendor, error) {
	var vendor model.Vendor

	err := r.db.WithContext(ctx).
		Where("stripe_account_id = ?", accountID).
		First(&vendor).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get vendor by stripe account",
			zap.String("stripe_account_id", accountID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get vendor by stripe account: %w", err)
	}

	return &vendor, nil
}

// UpdateStripeAccount stores the Stripe account linkage and charge capability
func (r *vendorRepository) UpdateStripeAccount(ctx context.Context, id uuid.UUID, accountID string, chargesEnabled bool) error {
	result := r.db.WithContext(ctx).
		Model(&model.Vendor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stripe_account_id": accountID,
			"charges_enabled":   chargesEnabled,
			"payments_enabled":  chargesEnabled,
			"updated_at":        gorm.Expr("now()"),
		})

	if result.Error != nil {
		r.logger.Error("Failed to update vendor stripe account",
			zap.String("vendor_id", id.String()),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update vendor stripe account: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("vendor not found: %s", id)
	}

	return nil
}
