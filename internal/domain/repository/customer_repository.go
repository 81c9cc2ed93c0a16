package repository

import (
	"context"

	"github.com/suburbmates/payment-service/internal/domain/model"
)

// CustomerRepository provides access to buyer accounts.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*model.Customer, error)
}
