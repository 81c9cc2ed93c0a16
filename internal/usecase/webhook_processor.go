package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/suburbmates/payment-service/internal/domain/model"
	"github.com/suburbmates/payment-service/internal/domain/repository"
	"github.com/suburbmates/payment-service/internal/infrastructure/insights"
	"github.com/suburbmates/payment-service/internal/infrastructure/notification"
	apperrors "github.com/suburbmates/payment-service/pkg/errors"
	"go.uber.org/zap"
)

const summarizeTimeout = 10 * time.Second

// WebhookProcessor dispatches verified Stripe events to per-type handlers
// and drives the resulting order, dispute and refund-request transitions.
//
// Idempotency is layered: an in-process set short-circuits duplicate
// deliveries within this process, the durable audit log short-circuits
// events a previous process already completed, and every handler applies
// absolute state assignments so a replay that slips past both guards still
// converges on the same end state.
type WebhookProcessor struct {
	events    repository.WebhookEventRepository
	orders    repository.OrderRepository
	vendors   repository.VendorRepository
	disputes  repository.DisputeRepository
	refunds   repository.RefundRequestRepository
	customers repository.CustomerRepository

	locator    *OrderLocator
	notifier   notification.Notifier
	summarizer insights.DisputeSummarizer
	logger     *zap.Logger

	// handled is an optimization only, not the correctness mechanism:
	// it is lost on restart.
	mu      sync.Mutex
	handled map[string]struct{}
}

// NewWebhookProcessor creates a new webhook processor
func NewWebhookProcessor(
	events repository.WebhookEventRepository,
	orders repository.OrderRepository,
	vendors repository.VendorRepository,
	disputes repository.DisputeRepository,
	refunds repository.RefundRequestRepository,
	customers repository.CustomerRepository,
	locator *OrderLocator,
	notifier notification.Notifier,
	summarizer insights.DisputeSummarizer,
	logger *zap.Logger,
) *WebhookProcessor {
	return &WebhookProcessor{
		events:     events,
		orders:     orders,
		vendors:    vendors,
		disputes:   disputes,
		refunds:    refunds,
		customers:  customers,
		locator:    locator,
		notifier:   notifier,
		summarizer: summarizer,
		logger:     logger,
		handled:    make(map[string]struct{}),
	}
}

func (p *WebhookProcessor) alreadyHandled(eventID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.handled[eventID]
	return ok
}

func (p *WebhookProcessor) markHandled(eventID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handled[eventID] = struct{}{}
}

// Process runs the pipeline for one verified event: audit the receipt,
// short-circuit duplicates, dispatch to the type handler and record the
// outcome. A returned error means the handler failed and the caller should
// answer 500 so Stripe redelivers.
func (p *WebhookProcessor) Process(ctx context.Context, event stripe.Event) error {
	if p.alreadyHandled(event.ID) {
		p.logger.Info("Skipping already handled event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)))
		return nil
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return apperrors.Wrap(err, "failed to serialize event for audit")
	}

	if err := p.events.Record(ctx, event.ID, string(event.Type), raw, model.WebhookStatusReceived); err != nil {
		return err
	}

	// A redelivery into a fresh process: the in-memory set is empty but the
	// audit log already knows the event completed.
	existing, err := p.events.GetEvent(ctx, event.ID)
	if err != nil {
		return err
	}
	if existing != nil && existing.Status == model.WebhookStatusProcessed {
		p.logger.Info("Event already processed in a previous delivery",
			zap.String("event_id", event.ID))
		p.markHandled(event.ID)
		return nil
	}

	if err := p.dispatch(ctx, event); err != nil {
		apperrors.LogError(p.logger, err, "Webhook handler failed",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)))
		if markErr := p.events.MarkFailed(ctx, event.ID, err); markErr != nil {
			p.logger.Error("Failed to record webhook failure",
				zap.String("event_id", event.ID),
				zap.Error(markErr))
		}
		return err
	}

	if err := p.events.MarkProcessed(ctx, event.ID); err != nil {
		return err
	}
	p.markHandled(event.ID)

	return nil
}

// RecordRejected writes a forensic audit record for an event whose
// signature did not verify, when the raw body still parses as an envelope.
func (p *WebhookProcessor) RecordRejected(ctx context.Context, payload []byte) {
	var envelope struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil || envelope.ID == "" {
		return
	}

	if err := p.events.Record(ctx, envelope.ID, envelope.Type, payload, model.WebhookStatusFailed); err != nil {
		p.logger.Warn("Failed to record rejected event",
			zap.String("event_id", envelope.ID),
			zap.Error(err))
	}
}

func (p *WebhookProcessor) dispatch(ctx context.Context, event stripe.Event) error {
	p.logger.Info("Webhook event received",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.Time("created", time.Unix(event.Created, 0)))

	switch event.Type {
	case stripe.EventTypeAccountUpdated:
		return p.handleAccountUpdated(ctx, event)
	case stripe.EventTypeCheckoutSessionCompleted:
		return p.handleCheckoutCompleted(ctx, event)
	case stripe.EventTypePaymentIntentCanceled:
		return p.handlePaymentIntentCanceled(ctx, event)
	case stripe.EventTypeChargeRefunded:
		return p.handleChargeRefunded(ctx, event)
	case stripe.EventTypeChargeDisputeCreated:
		return p.handleDisputeCreated(ctx, event)
	case stripe.EventTypeChargeDisputeClosed:
		return p.handleDisputeClosed(ctx, event)
	case stripe.EventTypePayoutFailed:
		// TODO: surface payout failures on the vendor dashboard.
		p.logger.Warn("Payout failed for a connected account",
			zap.String("event_id", event.ID))
		return nil
	default:
		p.logger.Info("Unhandled event type",
			zap.String("type", string(event.Type)))
		return nil
	}
}

// handleAccountUpdated syncs the Stripe Connect account linkage onto the
// vendor and warns the vendor when charges get disabled.
func (p *WebhookProcessor) handleAccountUpdated(ctx context.Context, event stripe.Event) error {
	var account stripe.Account
	if err := json.Unmarshal(event.Data.Raw, &account); err != nil {
		return apperrors.Wrap(err, "failed to parse account payload")
	}

	var vendor *model.Vendor
	if raw := account.Metadata["vendorId"]; raw != "" {
		vendorID, err := uuid.Parse(raw)
		if err != nil {
			p.logger.Warn("Invalid vendorId metadata on account",
				zap.String("account_id", account.ID),
				zap.String("vendor_id", raw))
		} else {
			vendor, err = p.vendors.GetByID(ctx, vendorID)
			if err != nil {
				return err
			}
		}
	}

	if vendor == nil {
		var err error
		vendor, err = p.vendors.GetByStripeAccountID(ctx, account.ID)
		if err != nil {
			return err
		}
	}

	if vendor == nil {
		p.logger.Warn("No vendor linked to Stripe account",
			zap.String("account_id", account.ID))
		return nil
	}

	if err := p.vendors.UpdateStripeAccount(ctx, vendor.ID, account.ID, account.ChargesEnabled); err != nil {
		return err
	}

	p.logger.Info("Vendor Stripe account updated",
		zap.String("vendor_id", vendor.ID.String()),
		zap.String("account_id", account.ID),
		zap.Bool("charges_enabled", account.ChargesEnabled))

	if !account.ChargesEnabled {
		if err := p.notifier.SendStripeActionRequired(ctx, vendor); err != nil {
			p.logger.Warn("Failed to send action required notification",
				zap.String("vendor_id", vendor.ID.String()),
				zap.Error(err))
		}
	}

	return nil
}

// handleCheckoutCompleted creates the order for a paid checkout session.
func (p *WebhookProcessor) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return apperrors.Wrap(err, "failed to parse checkout session payload")
	}

	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		p.logger.Info("Ignoring unpaid checkout session",
			zap.String("session_id", session.ID),
			zap.String("payment_status", string(session.PaymentStatus)))
		return nil
	}

	vendorRaw := session.Metadata["vendorId"]
	buyerID := session.Metadata["buyerId"]
	if vendorRaw == "" || buyerID == "" || session.PaymentIntent == nil {
		p.logger.Warn("Checkout session missing marketplace metadata",
			zap.String("session_id", session.ID))
		return nil
	}

	vendorID, err := uuid.Parse(vendorRaw)
	if err != nil {
		p.logger.Warn("Invalid vendorId metadata on checkout session",
			zap.String("session_id", session.ID),
			zap.String("vendor_id", vendorRaw))
		return nil
	}

	listingName := session.Metadata["listingName"]
	if listingName == "" {
		listingName = "Marketplace order"
	}

	customerName := ""
	if session.CustomerDetails != nil {
		customerName = session.CustomerDetails.Name
	}

	order := &model.Order{
		ID:              uuid.New(),
		VendorID:        vendorID,
		BuyerID:         buyerID,
		ListingName:     listingName,
		CustomerName:    customerName,
		Amount:          amountFromCents(session.AmountTotal),
		Currency:        string(session.Currency),
		Status:          model.OrderStatusCompleted,
		PaymentIntentID: session.PaymentIntent.ID,
	}

	if err := p.orders.Create(ctx, order); err != nil {
		return err
	}

	p.logger.Info("Order created from checkout session",
		zap.String("order_id", order.ID.String()),
		zap.String("vendor_id", vendorID.String()),
		zap.String("payment_intent_id", order.PaymentIntentID))

	vendor, err := p.vendors.GetByID(ctx, vendorID)
	if err != nil {
		p.logger.Warn("Failed to load vendor for order notifications",
			zap.String("vendor_id", vendorID.String()),
			zap.Error(err))
	} else if vendor != nil {
		if err := p.notifier.SendNewOrderNotification(ctx, order, vendor); err != nil {
			p.logger.Warn("Failed to send new order notification",
				zap.String("order_id", order.ID.String()),
				zap.Error(err))
		}
	}

	customer, err := p.customers.GetByID(ctx, buyerID)
	if err != nil {
		p.logger.Warn("Failed to load customer for order confirmation",
			zap.String("buyer_id", buyerID),
			zap.Error(err))
		customer = nil
	}
	if err := p.notifier.SendOrderConfirmation(ctx, order, customer); err != nil {
		p.logger.Warn("Failed to send order confirmation",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}

	return nil
}

func (p *WebhookProcessor) handlePaymentIntentCanceled(ctx context.Context, event stripe.Event) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return apperrors.Wrap(err, "failed to parse payment intent payload")
	}

	order, err := p.locator.UpdateStatusByPaymentIntent(ctx, intent.ID, model.OrderStatusFailedPayment)
	if err != nil {
		return err
	}
	if order != nil {
		p.logger.Info("Order marked as failed payment",
			zap.String("order_id", order.ID.String()),
			zap.String("payment_intent_id", intent.ID))
	}

	return nil
}

// handleChargeRefunded marks the order refunded and resolves the matching
// open refund request, attaching the Stripe refund id.
func (p *WebhookProcessor) handleChargeRefunded(ctx context.Context, event stripe.Event) error {
	var charge stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return apperrors.Wrap(err, "failed to parse charge payload")
	}

	if charge.PaymentIntent == nil {
		p.logger.Warn("Refunded charge carries no payment intent",
			zap.String("charge_id", charge.ID))
		return nil
	}

	order, err := p.locator.UpdateStatusByPaymentIntent(ctx, charge.PaymentIntent.ID, model.OrderStatusRefunded)
	if err != nil {
		return err
	}
	if order == nil {
		return nil
	}

	refundID := ""
	if charge.Refunds != nil && len(charge.Refunds.Data) > 0 {
		refundID = charge.Refunds.Data[0].ID
	}

	request, err := p.refunds.GetOpenByOrderID(ctx, order.ID)
	if err != nil {
		return err
	}
	if request == nil {
		p.logger.Info("No open refund request for refunded order",
			zap.String("order_id", order.ID.String()))
		return nil
	}

	if err := p.refunds.Resolve(ctx, request.ID, refundID); err != nil {
		return err
	}

	p.logger.Info("Refund request resolved by charge refund",
		zap.String("refund_request_id", request.ID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("stripe_refund_id", refundID))

	return nil
}

// handleDisputeCreated records the dispute, enriches it with a best-effort
// AI summary and flags the order as disputed.
func (p *WebhookProcessor) handleDisputeCreated(ctx context.Context, event stripe.Event) error {
	var stripeDispute stripe.Dispute
	if err := json.Unmarshal(event.Data.Raw, &stripeDispute); err != nil {
		return apperrors.Wrap(err, "failed to parse dispute payload")
	}

	if stripeDispute.PaymentIntent == nil {
		p.logger.Warn("Dispute carries no payment intent",
			zap.String("stripe_dispute_id", stripeDispute.ID))
		return nil
	}

	resolution, err := p.locator.FindByPaymentIntent(ctx, stripeDispute.PaymentIntent.ID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			p.logger.Warn("No order resolvable for dispute",
				zap.String("stripe_dispute_id", stripeDispute.ID),
				zap.String("payment_intent_id", stripeDispute.PaymentIntent.ID))
			return nil
		}
		return err
	}

	dispute := &model.Dispute{
		ID:              uuid.New(),
		StripeDisputeID: stripeDispute.ID,
		PaymentIntentID: stripeDispute.PaymentIntent.ID,
		OrderID:         resolution.Order.ID,
		VendorID:        resolution.Vendor.ID,
		BuyerID:         resolution.Order.BuyerID,
		Amount:          amountFromCents(stripeDispute.Amount),
		Currency:        string(stripeDispute.Currency),
		Reason:          string(stripeDispute.Reason),
		Status:          string(stripeDispute.Status),
	}
	if stripeDispute.EvidenceDetails != nil && stripeDispute.EvidenceDetails.DueBy > 0 {
		dueBy := time.Unix(stripeDispute.EvidenceDetails.DueBy, 0)
		dispute.EvidenceDueBy = &dueBy
	}

	p.summarizeDispute(ctx, dispute, resolution.Order)

	if err := p.disputes.Create(ctx, dispute); err != nil {
		return err
	}

	if err := p.orders.UpdateStatus(ctx, resolution.Order.ID, model.OrderStatusDisputed); err != nil {
		return err
	}

	p.logger.Info("Dispute recorded",
		zap.String("stripe_dispute_id", dispute.StripeDisputeID),
		zap.String("order_id", resolution.Order.ID.String()),
		zap.String("reason", dispute.Reason))

	if err := p.notifier.SendDisputeCreatedVendor(ctx, dispute, resolution.Order, resolution.Vendor); err != nil {
		p.logger.Warn("Failed to send vendor dispute notification",
			zap.String("stripe_dispute_id", dispute.StripeDisputeID),
			zap.Error(err))
	}
	if err := p.notifier.SendDisputeCreatedBuyer(ctx, dispute, resolution.Order, resolution.Customer); err != nil {
		p.logger.Warn("Failed to send buyer dispute notification",
			zap.String("stripe_dispute_id", dispute.StripeDisputeID),
			zap.Error(err))
	}

	return nil
}

// summarizeDispute attaches an AI summary when the insights service is
// available. Failures only log; the dispute is stored without a summary.
func (p *WebhookProcessor) summarizeDispute(ctx context.Context, dispute *model.Dispute, order *model.Order) {
	if p.summarizer == nil {
		return
	}

	summarizeCtx, cancel := context.WithTimeout(ctx, summarizeTimeout)
	defer cancel()

	summary, err := p.summarizer.SummarizeDispute(summarizeCtx, insights.SummarizeDisputeInput{
		DisputeReason: dispute.Reason,
		ProductName:   order.ListingName,
		Amount:        dispute.Amount.StringFixed(2),
	})
	if err != nil {
		p.logger.Warn("Dispute summarization unavailable",
			zap.String("stripe_dispute_id", dispute.StripeDisputeID),
			zap.Error(err))
		return
	}

	dispute.Summary = &summary.Summary
	dispute.RiskLevel = &summary.RiskLevel
	dispute.RecommendedAction = &summary.RecommendedAction
}

// handleDisputeClosed applies the final dispute outcome to the dispute
// record and the linked order: lost means the buyer keeps the money.
func (p *WebhookProcessor) handleDisputeClosed(ctx context.Context, event stripe.Event) error {
	var stripeDispute stripe.Dispute
	if err := json.Unmarshal(event.Data.Raw, &stripeDispute); err != nil {
		return apperrors.Wrap(err, "failed to parse dispute payload")
	}

	existing, err := p.disputes.GetByStripeDisputeID(ctx, stripeDispute.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		p.logger.Warn("Closed dispute was never recorded",
			zap.String("stripe_dispute_id", stripeDispute.ID))
		return nil
	}

	if err := p.disputes.UpdateStatus(ctx, stripeDispute.ID, string(stripeDispute.Status)); err != nil {
		return err
	}
	existing.Status = string(stripeDispute.Status)

	orderStatus := model.OrderStatusCompleted
	if stripeDispute.Status == stripe.DisputeStatusLost {
		orderStatus = model.OrderStatusRefunded
	}

	resolution, err := p.locator.FindByPaymentIntent(ctx, existing.PaymentIntentID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			p.logger.Warn("No order resolvable for closed dispute",
				zap.String("stripe_dispute_id", stripeDispute.ID))
			return nil
		}
		return err
	}

	if err := p.orders.UpdateStatus(ctx, resolution.Order.ID, orderStatus); err != nil {
		return err
	}

	p.logger.Info("Dispute closed",
		zap.String("stripe_dispute_id", stripeDispute.ID),
		zap.String("outcome", existing.Status),
		zap.String("order_status", string(orderStatus)))

	if err := p.notifier.SendDisputeClosed(ctx, existing, resolution.Order, resolution.Vendor); err != nil {
		p.logger.Warn("Failed to send dispute closed notification",
			zap.String("stripe_dispute_id", stripeDispute.ID),
			zap.Error(err))
	}

	return nil
}

// amountFromCents converts a Stripe minor-unit amount to currency units.
func amountFromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}
