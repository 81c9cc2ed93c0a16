package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/suburbmates/payment-service/internal/domain/model"
	"github.com/suburbmates/payment-service/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type refundRequestRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRefundRequestRepository creates a new refund request repository
func NewRefundRequestRepository(db *gorm.DB, logger *zap.Logger) repository.RefundRequestRepository {
	return &refundRequestRepository{
		db:     db,
		logger: logger,
	}
}

func (r *refundRequestRepository) Create(ctx context.Context, request *model.RefundRequest) error {
	err := r.db.WithContext(ctx).Create(request).Error
	if err != nil {
		r.logger.Error("Failed to create refund request",
			zap.String("order_id", request.OrderID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create refund request: %w", err)
	}

	return nil
}

func (r *refundRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RefundRequest, error) {
	var request model.RefundRequest

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get refund request",
			zap.String("refund_request_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get refund request: %w", err)
	}

	return &request, nil
}

// GetOpenByOrderID returns the OPEN request for an order, if any. The
// partial unique index on (order_id) WHERE state = 'OPEN' guarantees at
// most one row.
func (r *refundRequestRepository) GetOpenByOrderID(ctx context.Context, orderID uuid.UUID) (*model.RefundRequest, error) {
	var request model.RefundRequest

	err := r.db.WithContext(ctx).
		Where("order_id = ? AND state = ?", orderID, model.RefundRequestStateOpen).
		First(&request).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get open refund request",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get open refund request: %w", err)
	}

	return &request, nil
}

func (r *refundRequestRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*model.RefundRequest, error) {
	var requests []*model.RefundRequest

	query := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Offset(offset)

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&requests).Error; err != nil {
		r.logger.Error("Failed to list refund requests",
			zap.String("vendor_id", vendorID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list refund requests: %w", err)
	}

	return requests, nil
}

// Resolve marks a request RESOLVED and attaches the Stripe refund id
func (r *refundRequestRepository) Resolve(ctx context.Context, id uuid.UUID, stripeRefundID string) error {
	now := time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.RefundRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":            model.RefundRequestStateResolved,
			"stripe_refund_id": stripeRefundID,
			"decision_at":      &now,
			"updated_at":       now,
		})

	if result.Error != nil {
		r.logger.Error("Failed to resolve refund request",
			zap.String("refund_request_id", id.String()),
			zap.Error(result.Error))
		return fmt.Errorf("failed to resolve refund request: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("refund request not found: %s", id)
	}

	return nil
}

// Decide applies a vendor decision to a request
func (r *refundRequestRepository) Decide(ctx context.Context, id uuid.UUID, state model.RefundRequestState, decision, decidedBy string) error {
	now := time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.RefundRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":       state,
			"decision":    decision,
			"decision_by": decidedBy,
			"decision_at": &now,
			"updated_at":  now,
		})

	if result.Error != nil {
		r.logger.Error("Failed to decide refund request",
			zap.String("refund_request_id", id.String()),
			zap.String("state", string(state)),
			zap.Error(result.Error))
		return fmt.Errorf("failed to decide refund request: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("refund request not found: %s", id)
	}

	return nil
}
