package notification

import (
	"context"
	"fmt"

	"github.com/suburbmates/payment-service/internal/domain/model"
	"github.com/suburbmates/payment-service/pkg/messaging"
	"go.uber.org/zap"
)

// Event is the message published to the notification channel. The
// notification worker owns templating and delivery; this service only
// describes what happened and who to tell.
type Event struct {
	Type      string                 `json:"type"`
	Recipient string                 `json:"recipient"`
	Data      map[string]interface{} `json:"data"`
}

// RedisNotifier publishes notification events to a Redis channel instead of
// sending mail inline, keeping slow delivery off the webhook path.
type RedisNotifier struct {
	client  messaging.RedisClient
	channel string
	logger  *zap.Logger
}

// NewRedisNotifier creates a Redis-backed notifier
func NewRedisNotifier(client messaging.RedisClient, channel string, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (n *RedisNotifier) publish(ctx context.Context, event Event) error {
	if event.Recipient == "" {
		n.logger.Warn("Skipping notification without recipient",
			zap.String("type", event.Type))
		return nil
	}

	if err := n.client.Publish(ctx, n.channel, event); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

func (n *RedisNotifier) SendOrderConfirmation(ctx context.Context, order *model.Order, customer *model.Customer) error {
	if customer == nil {
		n.logger.Warn("Skipping order confirmation, no customer record",
			zap.String("order_id", order.ID.String()))
		return nil
	}

	return n.publish(ctx, Event{
		Type:      "order.confirmation",
		Recipient: customer.Email,
		Data: map[string]interface{}{
			"order_id":     order.ID.String(),
			"listing_name": order.ListingName,
			"amount":       order.Amount.StringFixed(2),
			"currency":     order.Currency,
		},
	})
}

func (n *RedisNotifier) SendNewOrderNotification(ctx context.Context, order *model.Order, vendor *model.Vendor) error {
	return n.publish(ctx, Event{
		Type:      "order.new",
		Recipient: vendor.ContactEmail,
		Data: map[string]interface{}{
			"order_id":      order.ID.String(),
			"listing_name":  order.ListingName,
			"customer_name": order.CustomerName,
			"amount":        order.Amount.StringFixed(2),
		},
	})
}

func (n *RedisNotifier) SendStripeActionRequired(ctx context.Context, vendor *model.Vendor) error {
	return n.publish(ctx, Event{
		Type:      "vendor.stripe_action_required",
		Recipient: vendor.ContactEmail,
		Data: map[string]interface{}{
			"vendor_id": vendor.ID.String(),
		},
	})
}

func (n *RedisNotifier) SendDisputeCreatedVendor(ctx context.Context, dispute *model.Dispute, order *model.Order, vendor *model.Vendor) error {
	data := map[string]interface{}{
		"dispute_id":   dispute.ID.String(),
		"order_id":     order.ID.String(),
		"listing_name": order.ListingName,
		"reason":       dispute.Reason,
		"amount":       dispute.Amount.StringFixed(2),
	}
	if dispute.EvidenceDueBy != nil {
		data["evidence_due_by"] = dispute.EvidenceDueBy
	}

	return n.publish(ctx, Event{
		Type:      "dispute.created.vendor",
		Recipient: vendor.ContactEmail,
		Data:      data,
	})
}

func (n *RedisNotifier) SendDisputeCreatedBuyer(ctx context.Context, dispute *model.Dispute, order *model.Order, customer *model.Customer) error {
	if customer == nil {
		n.logger.Warn("Skipping buyer dispute notification, no customer record",
			zap.String("dispute_id", dispute.ID.String()))
		return nil
	}

	return n.publish(ctx, Event{
		Type:      "dispute.created.buyer",
		Recipient: customer.Email,
		Data: map[string]interface{}{
			"dispute_id":   dispute.ID.String(),
			"listing_name": order.ListingName,
		},
	})
}

func (n *RedisNotifier) SendDisputeClosed(ctx context.Context, dispute *model.Dispute, order *model.Order, vendor *model.Vendor) error {
	return n.publish(ctx, Event{
		Type:      "dispute.closed",
		Recipient: vendor.ContactEmail,
		Data: map[string]interface{}{
			"dispute_id":   dispute.ID.String(),
			"listing_name": order.ListingName,
			"outcome":      dispute.Status,
		},
	})
}

func (n *RedisNotifier) SendRefundStatusUpdate(ctx context.Context, request *model.RefundRequest, order *model.Order, customer *model.Customer) error {
	if customer == nil {
		n.logger.Warn("Skipping refund status update, no customer record",
			zap.String("refund_request_id", request.ID.String()))
		return nil
	}

	data := map[string]interface{}{
		"refund_request_id": request.ID.String(),
		"listing_name":      order.ListingName,
		"state":             request.State,
	}
	if request.Decision != nil {
		data["decision"] = *request.Decision
	}

	return n.publish(ctx, Event{
		Type:      "refund_request.status",
		Recipient: customer.Email,
		Data:      data,
	})
}

func (n *RedisNotifier) SendNewRefundRequest(ctx context.Context, request *model.RefundRequest, order *model.Order, vendor *model.Vendor) error {
	return n.publish(ctx, Event{
		Type:      "refund_request.new",
		Recipient: vendor.ContactEmail,
		Data: map[string]interface{}{
			"refund_request_id": request.ID.String(),
			"listing_name":      order.ListingName,
			"reason":            request.Reason,
		},
	})
}
