package database

import (
	"github.com/suburbmates/payment-service/internal/adapter/repository"
	domainRepo "github.com/suburbmates/payment-service/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Vendor        domainRepo.VendorRepository
	Customer      domainRepo.CustomerRepository
	Order         domainRepo.OrderRepository
	Dispute       domainRepo.DisputeRepository
	RefundRequest domainRepo.RefundRequestRepository
	WebhookEvent  domainRepo.WebhookEventRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Vendor:        repository.NewVendorRepository(db, logger),
		Customer:      repository.NewCustomerRepository(db),
		Order:         repository.NewOrderRepository(db, logger),
		Dispute:       repository.NewDisputeRepository(db, logger),
		RefundRequest: repository.NewRefundRequestRepository(db, logger),
		WebhookEvent:  repository.NewWebhookEventRepository(db, logger),
	}
}
