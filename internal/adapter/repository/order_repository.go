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

type orderRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB, logger *zap.Logger) repository.OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new order. Conflicts on (vendor_id, payment_intent_id)
// are ignored so a replayed checkout event never creates a second order.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "vendor_id"}, {Name: "payment_intent_id"}},
			DoNothing: true,
		}).
		Create(order).Error

	if err != nil {
		r.logger.Error("Failed to create order",
			zap.String("vendor_id", order.VendorID.String()),
			zap.String("payment_intent_id", order.PaymentIntentID),
			zap.Error(err))
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its id
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get order",
			zap.String("order_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

// GetByPaymentIntent resolves an order from a Stripe payment intent id.
// The payment_intent_id column is indexed, so this is a direct lookup
// rather than a scan over every vendor's orders.
func (r *orderRepository) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*model.Order, error) {
	var order model.Order

	err := r.db.WithContext(ctx).
		Where("payment_intent_id = ?", paymentIntentID).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get order by payment intent",
			zap.String("payment_intent_id", paymentIntentID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get order by payment intent: %w", err)
	}

	return &order, nil
}

// ListByVendor lists a vendor's orders, newest first
func (r *orderRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*model.Order, error) {
	var orders []*model.Order

	query := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Offset(offset)

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&orders).Error; err != nil {
		r.logger.Error("Failed to list orders",
			zap.String("vendor_id", vendorID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus applies an absolute status assignment to an order
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("now()"),
		})

	if result.Error != nil {
		r.logger.Error("Failed to update order status",
			zap.String("order_id", id.String()),
			zap.String("status", string(status)),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("order not found: %s", id)
	}

	return nil
}
