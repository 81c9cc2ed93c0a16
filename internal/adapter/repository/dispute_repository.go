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
	"gorm.io/gorm/clause"
)

type disputeRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewDisputeRepository creates a new dispute repository
func NewDisputeRepository(db *gorm.DB, logger *zap.Logger) repository.DisputeRepository {
	return &disputeRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a dispute, ignoring a duplicate stripe_dispute_id
func (r *disputeRepository) Create(ctx context.Context, dispute *model.Dispute) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_dispute_id"}},
			DoNothing: true,
		}).
		Create(dispute).Error

	if err != nil {
		r.logger.Error("Failed to create dispute",
			zap.String("stripe_dispute_id", dispute.StripeDisputeID),
			zap.Error(err))
		return fmt.Errorf("failed to create dispute: %w", err)
	}

	return nil
}

// GetByID retrieves a dispute by its id
func (r *disputeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Dispute, error) {
	var dispute model.Dispute

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&dispute).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get dispute",
			zap.String("dispute_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get dispute: %w", err)
	}

	return &dispute, nil
}

// GetByStripeDisputeID retrieves a dispute by the Stripe dispute id
func (r *disputeRepository) GetByStripeDisputeID(ctx context.Context, stripeDisputeID string) (*model.Dispute, error) {
	var dispute model.Dispute

	err := r.db.WithContext(ctx).
		Where("stripe_dispute_id = ?", stripeDisputeID).
		First(&dispute).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get dispute",
			zap.String("stripe_dispute_id", stripeDisputeID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get dispute: %w", err)
	}

	return &dispute, nil
}

// ListByVendor lists a vendor's disputes, newest first
func (r *disputeRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*model.Dispute, error) {
	var disputes []*model.Dispute

	query := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Offset(offset)

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&disputes).Error; err != nil {
		r.logger.Error("Failed to list disputes",
			zap.String("vendor_id", vendorID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list disputes: %w", err)
	}

	return disputes, nil
}

// UpdateStatus applies the provider's dispute status
func (r *disputeRepository) UpdateStatus(ctx context.Context, stripeDisputeID, status string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Dispute{}).
		Where("stripe_dispute_id = ?", stripeDisputeID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("now()"),
		})

	if result.Error != nil {
		r.logger.Error("Failed to update dispute status",
			zap.String("stripe_dispute_id", stripeDisputeID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update dispute status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("dispute not found: %s", stripeDisputeID)
	}

	return nil
}
