package usecase_test

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/suburbmates/payment-service/internal/domain/model"
	"github.com/suburbmates/payment-service/internal/infrastructure/insights"
)

// MockWebhookEventRepository is a mock implementation of WebhookEventRepository
type MockWebhookEventRepository struct {
	mock.Mock
}

func (m *MockWebhookEventRepository) Record(ctx context.Context, eventID, eventType string, payload json.RawMessage, status model.WebhookStatus) error {
	args := m.Called(ctx, eventID, eventType, payload, status)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) GetEvent(ctx context.Context, eventID string) (*model.WebhookEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WebhookEvent), args.Error(1)
}

func (m *MockWebhookEventRepository) MarkProcessed(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) MarkFailed(ctx context.Context, eventID string, cause error) error {
	args := m.Called(ctx, eventID, cause)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.WebhookEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.WebhookEvent), args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*model.Order, error) {
	args := m.Called(ctx, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*model.Order, error) {
	args := m.Called(ctx, vendorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockVendorRepository is a mock implementation of VendorRepository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vendor), args.Error(1)
}

func (m *MockVendorRepository) GetByStripeAccountID(ctx context.Context, accountID string) (*model.Vendor, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vendor), args.Error(1)
}

func (m *MockVendorRepository) UpdateStripeAccount(ctx context.Context, id uuid.UUID, accountID string, chargesEnabled bool) error {
	args := m.Called(ctx, id, accountID, chargesEnabled)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

// MockDisputeRepository is a mock implementation of DisputeRepository
type MockDisputeRepository struct {
	mock.Mock
}

func (m *MockDisputeRepository) Create(ctx context.Context, dispute *model.Dispute) error {
	args := m.Called(ctx, dispute)
	return args.Error(0)
}

func (m *MockDisputeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Dispute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dispute), args.Error(1)
}

func (m *MockDisputeRepository) GetByStripeDisputeID(ctx context.Context, stripeDisputeID string) (*model.Dispute, error) {
	args := m.Called(ctx, stripeDisputeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dispute), args.Error(1)
}

func (m *MockDisputeRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*model.Dispute, error) {
	args := m.Called(ctx, vendorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Dispute), args.Error(1)
}

func (m *MockDisputeRepository) UpdateStatus(ctx context.Context, stripeDisputeID, status string) error {
	args := m.Called(ctx, stripeDisputeID, status)
	return args.Error(0)
}

// MockRefundRequestRepository is a mock implementation of RefundRequestRepository
type MockRefundRequestRepository struct {
	mock.Mock
}

func (m *MockRefundRequestRepository) Create(ctx context.Context, request *model.RefundRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRefundRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RefundRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefundRequest), args.Error(1)
}

func (m *MockRefundRequestRepository) GetOpenByOrderID(ctx context.Context, orderID uuid.UUID) (*model.RefundRequest, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefundRequest), args.Error(1)
}

func (m *MockRefundRequestRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*model.RefundRequest, error) {
	args := m.Called(ctx, vendorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RefundRequest), args.Error(1)
}

func (m *MockRefundRequestRepository) Resolve(ctx context.Context, id uuid.UUID, stripeRefundID string) error {
	args := m.Called(ctx, id, stripeRefundID)
	return args.Error(0)
}

func (m *MockRefundRequestRepository) Decide(ctx context.Context, id uuid.UUID, state model.RefundRequestState, decision, decidedBy string) error {
	args := m.Called(ctx, id, state, decision, decidedBy)
	return args.Error(0)
}

// MockNotifier is a mock implementation of notification.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendOrderConfirmation(ctx context.Context, order *model.Order, customer *model.Customer) error {
	args := m.Called(ctx, order, customer)
	return args.Error(0)
}

func (m *MockNotifier) SendNewOrderNotification(ctx context.Context, order *model.Order, vendor *model.Vendor) error {
	args := m.Called(ctx, order, vendor)
	return args.Error(0)
}

func (m *MockNotifier) SendStripeActionRequired(ctx context.Context, vendor *model.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func (m *MockNotifier) SendDisputeCreatedVendor(ctx context.Context, dispute *model.Dispute, order *model.Order, vendor *model.Vendor) error {
	args := m.Called(ctx, dispute, order, vendor)
	return args.Error(0)
}

func (m *MockNotifier) SendDisputeCreatedBuyer(ctx context.Context, dispute *model.Dispute, order *model.Order, customer *model.Customer) error {
	args := m.Called(ctx, dispute, order, customer)
	return args.Error(0)
}

func (m *MockNotifier) SendDisputeClosed(ctx context.Context, dispute *model.Dispute, order *model.Order, vendor *model.Vendor) error {
	args := m.Called(ctx, dispute, order, vendor)
	return args.Error(0)
}

func (m *MockNotifier) SendRefundStatusUpdate(ctx context.Context, request *model.RefundRequest, order *model.Order, customer *model.Customer) error {
	args := m.Called(ctx, request, order, customer)
	return args.Error(0)
}

func (m *MockNotifier) SendNewRefundRequest(ctx context.Context, request *model.RefundRequest, order *model.Order, vendor *model.Vendor) error {
	args := m.Called(ctx, request, order, vendor)
	return args.Error(0)
}

// MockDisputeSummarizer is a mock implementation of insights.DisputeSummarizer
type MockDisputeSummarizer struct {
	mock.Mock
}

func (m *MockDisputeSummarizer) SummarizeDispute(ctx context.Context, input insights.SummarizeDisputeInput) (*insights.DisputeSummary, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*insights.DisputeSummary), args.Error(1)
}
