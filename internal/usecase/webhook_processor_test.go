package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"github.com/suburbmates/payment-service/internal/domain/model"
	"github.com/suburbmates/payment-service/internal/infrastructure/insights"
	"github.com/suburbmates/payment-service/internal/usecase"
)

type processorFixture struct {
	events     *MockWebhookEventRepository
	orders     *MockOrderRepository
	vendors    *MockVendorRepository
	disputes   *MockDisputeRepository
	refunds    *MockRefundRequestRepository
	customers  *MockCustomerRepository
	notifier   *MockNotifier
	summarizer *MockDisputeSummarizer
	processor  *usecase.WebhookProcessor
}

func newProcessorFixture() *processorFixture {
	f := &processorFixture{
		events:     new(MockWebhookEventRepository),
		orders:     new(MockOrderRepository),
		vendors:    new(MockVendorRepository),
		disputes:   new(MockDisputeRepository),
		refunds:    new(MockRefundRequestRepository),
		customers:  new(MockCustomerRepository),
		notifier:   new(MockNotifier),
		summarizer: new(MockDisputeSummarizer),
	}

	logger := zap.NewNop()
	locator := usecase.NewOrderLocator(f.orders, f.vendors, f.customers, logger)
	f.processor = usecase.NewWebhookProcessor(
		f.events, f.orders, f.vendors, f.disputes, f.refunds, f.customers,
		locator, f.notifier, f.summarizer, logger,
	)

	return f
}

// expectAudit wires the standard receive-then-process audit calls for a
// fresh event.
func (f *processorFixture) expectAudit(ctx context.Context, eventID, eventType string) {
	f.events.On("Record", ctx, eventID, eventType, mock.Anything, model.WebhookStatusReceived).Return(nil)
	f.events.On("GetEvent", ctx, eventID).Return(&model.WebhookEvent{
		StripeEventID: eventID,
		EventType:     eventType,
		Status:        model.WebhookStatusReceived,
	}, nil)
	f.events.On("MarkProcessed", ctx, eventID).Return(nil)
}

func makeEvent(id string, eventType stripe.EventType, payload string) stripe.Event {
	return stripe.Event{
		ID:      id,
		Type:    eventType,
		Created: 1700000000,
		Data: &stripe.EventData{
			Raw: json.RawMessage(payload),
		},
	}
}

func TestWebhookProcessor_Idempotency(t *testing.T) {
	ctx := context.Background()

	t.Run("second delivery in the same process is skipped", func(t *testing.T) {
		f := newProcessorFixture()
		event := makeEvent("evt_dup", "some.unknown.event", `{}`)
		f.expectAudit(ctx, "evt_dup", "some.unknown.event")

		assert.NoError(t, f.processor.Process(ctx, event))
		assert.NoError(t, f.processor.Process(ctx, event))

		f.events.AssertNumberOfCalls(t, "Record", 1)
		f.events.AssertNumberOfCalls(t, "MarkProcessed", 1)
	})

	t.Run("event already processed in a previous run is skipped", func(t *testing.T) {
		f := newProcessorFixture()
		event := makeEvent("evt_old", stripe.EventTypePaymentIntentCanceled, `{"id":"pi_1"}`)

		f.events.On("Record", ctx, "evt_old", mock.Anything, mock.Anything, model.WebhookStatusReceived).Return(nil)
		f.events.On("GetEvent", ctx, "evt_old").Return(&model.WebhookEvent{
			StripeEventID: "evt_old",
			Status:        model.WebhookStatusProcessed,
		}, nil)

		assert.NoError(t, f.processor.Process(ctx, event))

		f.orders.AssertNotCalled(t, "GetByPaymentIntent", mock.Anything, mock.Anything)
		f.events.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything)
	})

	t.Run("unhandled event type still completes", func(t *testing.T) {
		f := newProcessorFixture()
		event := makeEvent("evt_unknown", "price.created", `{}`)
		f.expectAudit(ctx, "evt_unknown", "price.created")

		assert.NoError(t, f.processor.Process(ctx, event))
		f.events.AssertExpectations(t)
	})

	t.Run("handler failure marks the event failed", func(t *testing.T) {
		f := newProcessorFixture()
		event := makeEvent("evt_bad", stripe.EventTypePaymentIntentCanceled, `{"id":"pi_err"}`)

		f.events.On("Record", ctx, "evt_bad", mock.Anything, mock.Anything, model.WebhookStatusReceived).Return(nil)
		f.events.On("GetEvent", ctx, "evt_bad").Return(&model.WebhookEvent{
			StripeEventID: "evt_bad",
			Status:        model.WebhookStatusReceived,
		}, nil)
		f.orders.On("GetByPaymentIntent", ctx, "pi_err").Return(nil, errors.New("db down"))
		f.events.On("MarkFailed", ctx, "evt_bad", mock.Anything).Return(nil)

		err := f.processor.Process(ctx, event)
		assert.Error(t, err)

		f.events.AssertCalled(t, "MarkFailed", ctx, "evt_bad", mock.Anything)
		f.events.AssertNotCalled(t, "MarkProcessed", ctx, "evt_bad")

		// A failed event is retried on the next delivery, not skipped
		f.orders.On("GetByPaymentIntent", ctx, "pi_err").Return(nil, errors.New("db down"))
		assert.Error(t, f.processor.Process(ctx, event))
		f.events.AssertNumberOfCalls(t, "Record", 2)
	})
}

func TestWebhookProcessor_CheckoutCompleted(t *testing.T) {
	ctx := context.Background()
	vendorID := uuid.New()

	t.Run("paid session creates a completed order", func(t *testing.T) {
		f := newProcessorFixture()
		payload := `{
			"id": "cs_1",
			"payment_status": "paid",
			"amount_total": 5000,
			"currency": "aud",
			"payment_intent": "pi_abc",
			"customer_details": {"name": "Jane Citizen"},
			"metadata": {"vendorId": "` + vendorID.String() + `", "buyerId": "buyer_1", "listingName": "Lawn mowing"}
		}`
		event := makeEvent("evt_checkout", stripe.EventTypeCheckoutSessionCompleted, payload)
		f.expectAudit(ctx, "evt_checkout", string(stripe.EventTypeCheckoutSessionCompleted))

		vendor := &model.Vendor{ID: vendorID, BusinessName: "Green Thumb", ContactEmail: "vendor@example.com"}
		customer := &model.Customer{ID: "buyer_1", Email: "buyer@example.com"}

		f.orders.On("Create", ctx, mock.MatchedBy(func(o *model.Order) bool {
			return o.VendorID == vendorID &&
				o.BuyerID == "buyer_1" &&
				o.ListingName == "Lawn mowing" &&
				o.CustomerName == "Jane Citizen" &&
				o.PaymentIntentID == "pi_abc" &&
				o.Status == model.OrderStatusCompleted &&
				o.Amount.Equal(decimal.NewFromInt(50)) &&
				o.Currency == "aud"
		})).Return(nil)
		f.vendors.On("GetByID", ctx, vendorID).Return(vendor, nil)
		f.customers.On("GetByID", ctx, "buyer_1").Return(customer, nil)
		f.notifier.On("SendNewOrderNotification", ctx, mock.Anything, vendor).Return(nil)
		f.notifier.On("SendOrderConfirmation", ctx, mock.Anything, customer).Return(nil)

		assert.NoError(t, f.processor.Process(ctx, event))
		f.orders.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
	})

	t.Run("unpaid session is ignored", func(t *testing.T) {
		f := newProcessorFixture()
		payload := `{"id": "cs_2", "payment_status": "unpaid", "payment_intent": "pi_x"}`
		event := makeEvent("evt_unpaid", stripe.EventTypeCheckoutSessionCompleted, payload)
		f.expectAudit(ctx, "evt_unpaid", string(stripe.EventTypeCheckoutSessionCompleted))

		assert.NoError(t, f.processor.Process(ctx, event))
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("notification failure does not fail the event", func(t *testing.T) {
		f := newProcessorFixture()
		payload := `{
			"id": "cs_3",
			"payment_status": "paid",
			"amount_total": 2500,
			"currency": "aud",
			"payment_intent": "pi_y",
			"metadata": {"vendorId": "` + vendorID.String() + `", "buyerId": "buyer_2"}
		}`
		event := makeEvent("evt_notify_fail", stripe.EventTypeCheckoutSessionCompleted, payload)
		f.expectAudit(ctx, "evt_notify_fail", string(stripe.EventTypeCheckoutSessionCompleted))

		vendor := &model.Vendor{ID: vendorID}
		f.orders.On("Create", ctx, mock.Anything).Return(nil)
		f.vendors.On("GetByID", ctx, vendorID).Return(vendor, nil)
		f.customers.On("GetByID", ctx, "buyer_2").Return(nil, nil)
		f.notifier.On("SendNewOrderNotification", ctx, mock.Anything, vendor).Return(errors.New("smtp down"))
		f.notifier.On("SendOrderConfirmation", ctx, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		assert.NoError(t, f.processor.Process(ctx, event))
		f.events.AssertCalled(t, "MarkProcessed", ctx, "evt_notify_fail")
	})
}

func TestWebhookProcessor_PaymentIntentCanceled(t *testing.T) {
	ctx := context.Background()

	t.Run("order moves to failed payment", func(t *testing.T) {
		f := newProcessorFixture()
		event := makeEvent("evt_cancel", stripe.EventTypePaymentIntentCanceled, `{"id":"pi_cancel"}`)
		f.expectAudit(ctx, "evt_cancel", string(stripe.EventTypePaymentIntentCanceled))

		order := &model.Order{ID: uuid.New(), VendorID: uuid.New(), BuyerID: "buyer_1", PaymentIntentID: "pi_cancel"}
		f.orders.On("GetByPaymentIntent", ctx, "pi_cancel").Return(order, nil)
		f.vendors.On("GetByID", ctx, order.VendorID).Return(&model.Vendor{ID: order.VendorID}, nil)
		f.customers.On("GetByID", ctx, "buyer_1").Return(&model.Customer{ID: "buyer_1"}, nil)
		f.orders.On("UpdateStatus", ctx, order.ID, model.OrderStatusFailedPayment).Return(nil)

		assert.NoError(t, f.processor.Process(ctx, event))
		f.orders.AssertExpectations(t)
	})

	t.Run("unknown payment intent is a no-op", func(t *testing.T) {
		f := newProcessorFixture()
		event := makeEvent("evt_cancel2", stripe.EventTypePaymentIntentCanceled, `{"id":"pi_missing"}`)
		f.expectAudit(ctx, "evt_cancel2", string(stripe.EventTypePaymentIntentCanceled))

		f.orders.On("GetByPaymentIntent", ctx, "pi_missing").Return(nil, nil)

		assert.NoError(t, f.processor.Process(ctx, event))
		f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWebhookProcessor_ChargeRefunded(t *testing.T) {
	ctx := context.Background()

	t.Run("refund resolves the open refund request", func(t *testing.T) {
		f := newProcessorFixture()
		payload := `{
			"id": "ch_1",
			"payment_intent": "pi_abc",
			"refunded": true,
			"refunds": {"data": [{"id": "re_1"}]}
		}`
		event := makeEvent("evt_1", stripe.EventTypeChargeRefunded, payload)
		f.expectAudit(ctx, "evt_1", string(stripe.EventTypeChargeRefunded))

		order := &model.Order{ID: uuid.New(), VendorID: uuid.New(), BuyerID: "buyer_1", PaymentIntentID: "pi_abc"}
		request := &model.RefundRequest{ID: uuid.New(), OrderID: order.ID, State: model.RefundRequestStateOpen}

		f.orders.On("GetByPaymentIntent", ctx, "pi_abc").Return(order, nil)
		f.vendors.On("GetByID", ctx, order.VendorID).Return(&model.Vendor{ID: order.VendorID}, nil)
		f.customers.On("GetByID", ctx, "buyer_1").Return(&model.Customer{ID: "buyer_1"}, nil)
		f.orders.On("UpdateStatus", ctx, order.ID, model.OrderStatusRefunded).Return(nil)
		f.refunds.On("GetOpenByOrderID", ctx, order.ID).Return(request, nil)
		f.refunds.On("Resolve", ctx, request.ID, "re_1").Return(nil)

		assert.NoError(t, f.processor.Process(ctx, event))
		f.refunds.AssertExpectations(t)
		f.orders.AssertExpectations(t)
	})

	t.Run("refund with no open request only updates the order", func(t *testing.T) {
		f := newProcessorFixture()
		payload := `{"id": "ch_2", "payment_intent": "pi_noreq", "refunded": true}`
		event := makeEvent("evt_ref2", stripe.EventTypeChargeRefunded, payload)
		f.expectAudit(ctx, "evt_ref2", string(stripe.EventTypeChargeRefunded))

		order := &model.Order{ID: uuid.New(), VendorID: uuid.New(), BuyerID: "buyer_2", PaymentIntentID: "pi_noreq"}
		f.orders.On("GetByPaymentIntent", ctx, "pi_noreq").Return(order, nil)
		f.vendors.On("GetByID", ctx, order.VendorID).Return(&model.Vendor{ID: order.VendorID}, nil)
		f.customers.On("GetByID", ctx, "buyer_2").Return(&model.Customer{ID: "buyer_2"}, nil)
		f.orders.On("UpdateStatus", ctx, order.ID, model.OrderStatusRefunded).Return(nil)
		f.refunds.On("GetOpenByOrderID", ctx, order.ID).Return(nil, nil)

		assert.NoError(t, f.processor.Process(ctx, event))
		f.refunds.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWebhookProcessor_DisputeCreated(t *testing.T) {
	ctx := context.Background()

	disputePayload := `{
		"id": "dp_1",
		"payment_intent": "pi_abc",
		"amount": 5000,
		"currency": "aud",
		"reason": "fraudulent",
		"status": "needs_response",
		"evidence_details": {"due_by": 1700600000}
	}`

	t.Run("dispute is recorded with AI enrichment", func(t *testing.T) {
		f := newProcessorFixture()
		event := makeEvent("evt_disp", stripe.EventTypeChargeDisputeCreated, disputePayload)
		f.expectAudit(ctx, "evt_disp", string(stripe.EventTypeChargeDisputeCreated))

		order := &model.Order{ID: uuid.New(), VendorID: uuid.New(), BuyerID: "buyer_1", ListingName: "Lawn mowing", PaymentIntentID: "pi_abc"}
		vendor := &model.Vendor{ID: order.VendorID}
		customer := &model.Customer{ID: "buyer_1"}

		f.orders.On("GetByPaymentIntent", ctx, "pi_abc").Return(order, nil)
		f.vendors.On("GetByID", ctx, order.VendorID).Return(vendor, nil)
		f.customers.On("GetByID", ctx, "buyer_1").Return(customer, nil)
		f.summarizer.On("SummarizeDispute", mock.Anything, insights.SummarizeDisputeInput{
			DisputeReason: "fraudulent",
			ProductName:   "Lawn mowing",
			Amount:        "50.00",
		}).Return(&insights.DisputeSummary{
			Summary:           "Buyer claims the charge was unauthorized.",
			RiskLevel:         "high",
			RecommendedAction: "Submit proof of service delivery.",
		}, nil)
		f.disputes.On("Create", ctx, mock.MatchedBy(func(d *model.Dispute) bool {
			return d.StripeDisputeID == "dp_1" &&
				d.OrderID == order.ID &&
				d.VendorID == vendor.ID &&
				d.Reason == "fraudulent" &&
				d.Status == "needs_response" &&
				d.Amount.Equal(decimal.NewFromInt(50)) &&
				d.EvidenceDueBy != nil &&
				d.Summary != nil && *d.RiskLevel == "high"
		})).Return(nil)
		f.orders.On("UpdateStatus", ctx, order.ID, model.OrderStatusDisputed).Return(nil)
		f.notifier.On("SendDisputeCreatedVendor", ctx, mock.Anything, order, vendor).Return(nil)
		f.notifier.On("SendDisputeCreatedBuyer", ctx, mock.Anything, order, customer).Return(nil)

		assert.NoError(t, f.processor.Process(ctx, event))
		f.disputes.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
	})

	t.Run("summarizer failure stores the dispute unenriched", func(t *testing.T) {
		f := newProcessorFixture()
		event := makeEvent("evt_disp2", stripe.EventTypeChargeDisputeCreated, disputePayload)
		f.expectAudit(ctx, "evt_disp2", string(stripe.EventTypeChargeDisputeCreated))

		order := &model.Order{ID: uuid.New(), VendorID: uuid.New(), BuyerID: "buyer_1", PaymentIntentID: "pi_abc"}
		f.orders.On("GetByPaymentIntent", ctx, "pi_abc").Return(order, nil)
		f.vendors.On("GetByID", ctx, order.VendorID).Return(&model.Vendor{ID: order.VendorID}, nil)
		f.customers.On("GetByID", ctx, "buyer_1").Return(&model.Customer{ID: "buyer_1"}, nil)
		f.summarizer.On("SummarizeDispute", mock.Anything, mock.Anything).Return(nil, errors.New("insights unavailable"))
		f.disputes.On("Create", ctx, mock.MatchedBy(func(d *model.Dispute) bool {
			return d.Summary == nil && d.RiskLevel == nil && d.RecommendedAction == nil
		})).Return(nil)
		f.orders.On("UpdateStatus", ctx, order.ID, model.OrderStatusDisputed).Return(nil)
		f.notifier.On("SendDisputeCreatedVendor", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.notifier.On("SendDisputeCreatedBuyer", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		assert.NoError(t, f.processor.Process(ctx, event))
		f.disputes.AssertExpectations(t)
	})

	t.Run("dispute with no matching order is skipped", func(t *testing.T) {
		f := newProcessorFixture()
		event := makeEvent("evt_disp3", stripe.EventTypeChargeDisputeCreated, disputePayload)
		f.expectAudit(ctx, "evt_disp3", string(stripe.EventTypeChargeDisputeCreated))

		f.orders.On("GetByPaymentIntent", ctx, "pi_abc").Return(nil, nil)

		assert.NoError(t, f.processor.Process(ctx, event))
		f.disputes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestWebhookProcessor_DisputeClosed(t *testing.T) {
	ctx := context.Background()

	closedPayload := func(status string) string {
		return `{"id": "dp_1", "payment_intent": "pi_abc", "status": "` + status + `"}`
	}

	t.Run("lost dispute refunds the order", func(t *testing.T) {
		f := newProcessorFixture()
		event := makeEvent("evt_closed", stripe.EventTypeChargeDisputeClosed, closedPayload("lost"))
		f.expectAudit(ctx, "evt_closed", string(stripe.EventTypeChargeDisputeClosed))

		existing := &model.Dispute{ID: uuid.New(), StripeDisputeID: "dp_1", PaymentIntentID: "pi_abc", Status: "needs_response"}
		order := &model.Order{ID: uuid.New(), VendorID: uuid.New(), BuyerID: "buyer_1", PaymentIntentID: "pi_abc"}
		vendor := &model.Vendor{ID: order.VendorID}

		f.disputes.On("GetByStripeDisputeID", ctx, "dp_1").Return(existing, nil)
		f.disputes.On("UpdateStatus", ctx, "dp_1", "lost").Return(nil)
		f.orders.On("GetByPaymentIntent", ctx, "pi_abc").Return(order, nil)
		f.vendors.On("GetByID", ctx, order.VendorID).Return(vendor, nil)
		f.customers.On("GetByID", ctx, "buyer_1").Return(&model.Customer{ID: "buyer_1"}, nil)
		f.orders.On("UpdateStatus", ctx, order.ID, model.OrderStatusRefunded).Return(nil)
		f.notifier.On("SendDisputeClosed", ctx, existing, order, vendor).Return(nil)

		assert.NoError(t, f.processor.Process(ctx, event))
		f.orders.AssertExpectations(t)
	})

	t.Run("won dispute restores the order to completed", func(t *testing.T) {
		f := newProcessorFixture()
		event := makeEvent("evt_won", stripe.EventTypeChargeDisputeClosed, closedPayload("won"))
		f.expectAudit(ctx, "evt_won", string(stripe.EventTypeChargeDisputeClosed))

		existing := &model.Dispute{ID: uuid.New(), StripeDisputeID: "dp_1", PaymentIntentID: "pi_abc"}
		order := &model.Order{ID: uuid.New(), VendorID: uuid.New(), BuyerID: "buyer_1", PaymentIntentID: "pi_abc"}

		f.disputes.On("GetByStripeDisputeID", ctx, "dp_1").Return(existing, nil)
		f.disputes.On("UpdateStatus", ctx, "dp_1", "won").Return(nil)
		f.orders.On("GetByPaymentIntent", ctx, "pi_abc").Return(order, nil)
		f.vendors.On("GetByID", ctx, order.VendorID).Return(&model.Vendor{ID: order.VendorID}, nil)
		f.customers.On("GetByID", ctx, "buyer_1").Return(&model.Customer{ID: "buyer_1"}, nil)
		f.orders.On("UpdateStatus", ctx, order.ID, model.OrderStatusCompleted).Return(nil)
		f.notifier.On("SendDisputeClosed", ctx, existing, order, mock.Anything).Return(nil)

		assert.NoError(t, f.processor.Process(ctx, event))
		f.orders.AssertExpectations(t)
	})

	t.Run("unrecorded dispute is skipped", func(t *testing.T) {
		f := newProcessorFixture()
		event := makeEvent("evt_ghost", stripe.EventTypeChargeDisputeClosed, closedPayload("won"))
		f.expectAudit(ctx, "evt_ghost", string(stripe.EventTypeChargeDisputeClosed))

		f.disputes.On("GetByStripeDisputeID", ctx, "dp_1").Return(nil, nil)

		assert.NoError(t, f.processor.Process(ctx, event))
		f.disputes.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWebhookProcessor_AccountUpdated(t *testing.T) {
	ctx := context.Background()
	vendorID := uuid.New()

	t.Run("vendor resolved from metadata", func(t *testing.T) {
		f := newProcessorFixture()
		payload := `{
			"id": "acct_1",
			"charges_enabled": true,
			"metadata": {"vendorId": "` + vendorID.String() + `"}
		}`
		event := makeEvent("evt_acct", stripe.EventTypeAccountUpdated, payload)
		f.expectAudit(ctx, "evt_acct", string(stripe.EventTypeAccountUpdated))

		vendor := &model.Vendor{ID: vendorID}
		f.vendors.On("GetByID", ctx, vendorID).Return(vendor, nil)
		f.vendors.On("UpdateStripeAccount", ctx, vendorID, "acct_1", true).Return(nil)

		assert.NoError(t, f.processor.Process(ctx, event))
		f.vendors.AssertExpectations(t)
		f.notifier.AssertNotCalled(t, "SendStripeActionRequired", mock.Anything, mock.Anything)
	})

	t.Run("charges disabled triggers vendor warning", func(t *testing.T) {
		f := newProcessorFixture()
		payload := `{"id": "acct_2", "charges_enabled": false}`
		event := makeEvent("evt_acct2", stripe.EventTypeAccountUpdated, payload)
		f.expectAudit(ctx, "evt_acct2", string(stripe.EventTypeAccountUpdated))

		vendor := &model.Vendor{ID: vendorID}
		f.vendors.On("GetByStripeAccountID", ctx, "acct_2").Return(vendor, nil)
		f.vendors.On("UpdateStripeAccount", ctx, vendorID, "acct_2", false).Return(nil)
		f.notifier.On("SendStripeActionRequired", ctx, vendor).Return(nil)

		assert.NoError(t, f.processor.Process(ctx, event))
		f.notifier.AssertExpectations(t)
	})

	t.Run("unlinked account is skipped", func(t *testing.T) {
		f := newProcessorFixture()
		payload := `{"id": "acct_3", "charges_enabled": true}`
		event := makeEvent("evt_acct3", stripe.EventTypeAccountUpdated, payload)
		f.expectAudit(ctx, "evt_acct3", string(stripe.EventTypeAccountUpdated))

		f.vendors.On("GetByStripeAccountID", ctx, "acct_3").Return(nil, nil)

		assert.NoError(t, f.processor.Process(ctx, event))
		f.vendors.AssertNotCalled(t, "UpdateStripeAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWebhookProcessor_RecordRejected(t *testing.T) {
	ctx := context.Background()

	t.Run("parseable envelope is recorded as failed", func(t *testing.T) {
		f := newProcessorFixture()
		payload := []byte(`{"id": "evt_forged", "type": "charge.refunded"}`)

		f.events.On("Record", ctx, "evt_forged", "charge.refunded", mock.Anything, model.WebhookStatusFailed).Return(nil)

		f.processor.RecordRejected(ctx, payload)
		f.events.AssertExpectations(t)
	})

	t.Run("garbage payload is dropped", func(t *testing.T) {
		f := newProcessorFixture()

		f.processor.RecordRejected(ctx, []byte(`not json`))
		f.processor.RecordRejected(ctx, []byte(`{"type": "no.id.here"}`))

		f.events.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
