package usecase

import (
	"context"

	"github.com/suburbmates/payment-service/internal/domain/model"
	"github.com/suburbmates/payment-service/internal/domain/repository"
	apperrors "github.com/suburbmates/payment-service/pkg/errors"
	"go.uber.org/zap"
)

// OrderResolution is the order/vendor/customer triple resolved from a
// payment intent id. Customer is nil when buyer resolution failed; callers
// must tolerate that.
type OrderResolution struct {
	Order    *model.Order
	Vendor   *model.Vendor
	Customer *model.Customer
}

// OrderLocator resolves orders from the external payment correlation key.
// Webhook events only carry the Stripe payment intent id, so this is the
// sole path from an event back to marketplace entities.
type OrderLocator struct {
	orders    repository.OrderRepository
	vendors   repository.VendorRepository
	customers repository.CustomerRepository
	logger    *zap.Logger
}

// NewOrderLocator creates a new order locator
func NewOrderLocator(
	orders repository.OrderRepository,
	vendors repository.VendorRepository,
	customers repository.CustomerRepository,
	logger *zap.Logger,
) *OrderLocator {
	return &OrderLocator{
		orders:    orders,
		vendors:   vendors,
		customers: customers,
		logger:    logger,
	}
}

// FindByPaymentIntent resolves the order, its vendor and (best-effort) the
// buying customer for a payment intent id. A missing order or vendor yields
// a NOT_FOUND coded error that callers treat as a soft failure.
func (l *OrderLocator) FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*OrderResolution, error) {
	order, err := l.orders.GetByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound,
			"no order found for payment intent "+paymentIntentID, nil)
	}

	vendor, err := l.vendors.GetByID(ctx, order.VendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound,
			"no vendor found for order "+order.ID.String(), nil)
	}

	customer, err := l.customers.GetByID(ctx, order.BuyerID)
	if err != nil {
		l.logger.Warn("Failed to resolve customer for order",
			zap.String("order_id", order.ID.String()),
			zap.String("buyer_id", order.BuyerID),
			zap.Error(err))
		customer = nil
	}

	return &OrderResolution{
		Order:    order,
		Vendor:   vendor,
		Customer: customer,
	}, nil
}

// UpdateStatusByPaymentIntent resolves the order for a payment intent id
// and applies an absolute status assignment. Returns (nil, nil) when no
// order matches; callers treat that as nothing to update.
func (l *OrderLocator) UpdateStatusByPaymentIntent(ctx context.Context, paymentIntentID string, status model.OrderStatus) (*model.Order, error) {
	resolution, err := l.FindByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			l.logger.Warn("No order to update for payment intent",
				zap.String("payment_intent_id", paymentIntentID),
				zap.String("status", string(status)))
			return nil, nil
		}
		return nil, err
	}

	if err := l.orders.UpdateStatus(ctx, resolution.Order.ID, status); err != nil {
		return nil, err
	}

	resolution.Order.Status = status
	return resolution.Order, nil
}
