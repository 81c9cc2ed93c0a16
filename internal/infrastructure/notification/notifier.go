package notification

import (
	"context"

	"github.com/suburbmates/payment-service/internal/domain/model"
)

// Notifier delivers transactional notifications triggered by payment state
// transitions. Every call is best-effort: the webhook pipeline logs a send
// failure and continues, it never aborts entity persistence.
//
// The customer argument is nil when buyer resolution failed; implementations
// must skip the send in that case rather than error.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, order *model.Order, customer *model.Customer) error
	SendNewOrderNotification(ctx context.Context, order *model.Order, vendor *model.Vendor) error
	SendStripeActionRequired(ctx context.Context, vendor *model.Vendor) error
	SendDisputeCreatedVendor(ctx context.Context, dispute *model.Dispute, order *model.Order, vendor *model.Vendor) error
	SendDisputeCreatedBuyer(ctx context.Context, dispute *model.Dispute, order *model.Order, customer *model.Customer) error
	SendDisputeClosed(ctx context.Context, dispute *model.Dispute, order *model.Order, vendor *model.Vendor) error
	SendRefundStatusUpdate(ctx context.Context, request *model.RefundRequest, order *model.Order, customer *model.Customer) error
	SendNewRefundRequest(ctx context.Context, request *model.RefundRequest, order *model.Order, vendor *model.Vendor) error
}
