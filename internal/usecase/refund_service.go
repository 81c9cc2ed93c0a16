package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/suburbmates/payment-service/internal/domain/model"
	"github.com/suburbmates/payment-service/internal/domain/repository"
	"github.com/suburbmates/payment-service/internal/infrastructure/notification"
	apperrors "github.com/suburbmates/payment-service/pkg/errors"
	"go.uber.org/zap"
)

// RefundService handles the buyer-initiated side of refunds: raising a
// request against an order and letting the vendor decide it. The Stripe
// side (the actual refund and the charge.refunded event) is driven by the
// webhook pipeline.
type RefundService struct {
	refunds   repository.RefundRequestRepository
	orders    repository.OrderRepository
	vendors   repository.VendorRepository
	customers repository.CustomerRepository
	notifier  notification.Notifier
	logger    *zap.Logger
}

// NewRefundService creates a new refund service
func NewRefundService(
	refunds repository.RefundRequestRepository,
	orders repository.OrderRepository,
	vendors repository.VendorRepository,
	customers repository.CustomerRepository,
	notifier notification.Notifier,
	logger *zap.Logger,
) *RefundService {
	return &RefundService{
		refunds:   refunds,
		orders:    orders,
		vendors:   vendors,
		customers: customers,
		notifier:  notifier,
		logger:    logger,
	}
}

// CreateRequest raises a refund request for an order on behalf of its
// buyer. Only the order's buyer may raise one, and only one OPEN request
// may exist per order.
func (s *RefundService) CreateRequest(ctx context.Context, orderID uuid.UUID, buyerID, reason string) (*model.RefundRequest, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound,
			"order not found", nil)
	}

	if order.BuyerID != buyerID {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized,
			"order does not belong to this buyer", nil)
	}

	existing, err := s.refunds.GetOpenByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConflict,
			"an open refund request already exists for this order", nil)
	}

	request := &model.RefundRequest{
		ID:       uuid.New(),
		VendorID: order.VendorID,
		OrderID:  order.ID,
		BuyerID:  buyerID,
		Reason:   reason,
		State:    model.RefundRequestStateOpen,
	}

	if err := s.refunds.Create(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("Refund request created",
		zap.String("refund_request_id", request.ID.String()),
		zap.String("order_id", order.ID.String()))

	vendor, err := s.vendors.GetByID(ctx, order.VendorID)
	if err != nil || vendor == nil {
		s.logger.Warn("Failed to load vendor for refund request notification",
			zap.String("vendor_id", order.VendorID.String()),
			zap.Error(err))
	} else if err := s.notifier.SendNewRefundRequest(ctx, request, order, vendor); err != nil {
		s.logger.Warn("Failed to send refund request notification",
			zap.String("refund_request_id", request.ID.String()),
			zap.Error(err))
	}

	return request, nil
}

// Decide applies a vendor's decision to an open refund request. Approving
// marks the request RESOLVED; the order itself only moves to Refunded when
// the charge.refunded event arrives from Stripe.
func (s *RefundService) Decide(ctx context.Context, requestID, vendorID uuid.UUID, approve bool, note, decidedBy string) (*model.RefundRequest, error) {
	request, err := s.refunds.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound,
			"refund request not found", nil)
	}

	if request.VendorID != vendorID {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized,
			"refund request does not belong to this vendor", nil)
	}

	if request.State != model.RefundRequestStateOpen {
		return nil, apperrors.NewAppError(apperrors.ErrConflict,
			"refund request is already decided", nil)
	}

	state := model.RefundRequestStateRejected
	if approve {
		state = model.RefundRequestStateResolved
	}

	if err := s.refunds.Decide(ctx, requestID, state, note, decidedBy); err != nil {
		return nil, err
	}

	request.State = state
	request.Decision = &note
	request.DecisionBy = &decidedBy

	s.logger.Info("Refund request decided",
		zap.String("refund_request_id", requestID.String()),
		zap.String("state", string(state)))

	order, err := s.orders.GetByID(ctx, request.OrderID)
	if err != nil || order == nil {
		s.logger.Warn("Failed to load order for refund status notification",
			zap.String("order_id", request.OrderID.String()),
			zap.Error(err))
		return request, nil
	}

	customer, err := s.customers.GetByID(ctx, request.BuyerID)
	if err != nil {
		s.logger.Warn("Failed to load customer for refund status notification",
			zap.String("buyer_id", request.BuyerID),
			zap.Error(err))
		customer = nil
	}
	if err := s.notifier.SendRefundStatusUpdate(ctx, request, order, customer); err != nil {
		s.logger.Warn("Failed to send refund status notification",
			zap.String("refund_request_id", requestID.String()),
			zap.Error(err))
	}

	return request, nil
}
