package repository

import (
	"context"
	"encoding/json"

	"github.com/suburbmates/payment-service/internal/domain/model"
)

// WebhookEventRepository is the durable audit log for inbound Stripe events.
type WebhookEventRepository interface {
	// Record writes an audit row for the event. The write is idempotent per
	// event id: an existing row (whatever its status) is left untouched.
	Record(ctx context.Context, eventID, eventType string, payload json.RawMessage, status model.WebhookStatus) error
	GetEvent(ctx context.Context, eventID string) (*model.WebhookEvent, error)
	MarkProcessed(ctx context.Context, eventID string) error
	MarkFailed(ctx context.Context, eventID string, cause error) error
	// GetPendingEvents lists received or failed events eligible for
	// reprocessing.
	GetPendingEvents(ctx context.Context, limit int) ([]*model.WebhookEvent, error)
}
