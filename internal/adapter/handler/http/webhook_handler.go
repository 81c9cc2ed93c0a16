package http

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"
)

// EventProcessor is the pipeline behind the webhook endpoint. RecordRejected
// keeps a forensic trace of payloads whose signature did not verify.
type EventProcessor interface {
	Process(ctx context.Context, event stripe.Event) error
	RecordRejected(ctx context.Context, payload []byte)
}

type WebhookHandler struct {
	logger        *zap.Logger
	webhookSecret string
	processor     EventProcessor
}

func NewWebhookHandler(logger *zap.Logger, webhookSecret string, processor EventProcessor) *WebhookHandler {
	return &WebhookHandler{
		logger:        logger,
		webhookSecret: webhookSecret,
		processor:     processor,
	}
}

// HandleWebhook verifies the Stripe signature and hands the event to the
// processing pipeline. A 400 tells Stripe the delivery is unacceptable; a
// 500 makes Stripe redeliver later.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	if h.webhookSecret == "" {
		h.logger.Error("Webhook secret not configured")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Webhook secret not configured",
		})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Error reading request body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error reading request body"})
	}

	sig := c.Request().Header.Get("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(
		body,
		sig,
		h.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)

	if err != nil {
		h.logger.Error("Webhook signature verification failed",
			zap.Error(err),
			zap.String("signature", sig),
		)
		h.processor.RecordRejected(c.Request().Context(), body)
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Webhook signature verification failed: " + err.Error(),
		})
	}

	if err := h.processor.Process(c.Request().Context(), event); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to process event",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}
