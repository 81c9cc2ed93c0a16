package notification

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/suburbmates/payment-service/internal/domain/model"
	"go.uber.org/zap"
)

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier sends notifications directly over SMTP.
type SMTPNotifier struct {
	config SMTPConfig
	logger *zap.Logger
}

// NewSMTPNotifier creates an SMTP-backed notifier
func NewSMTPNotifier(cfg SMTPConfig, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		config: cfg,
		logger: logger,
	}
}

func (n *SMTPNotifier) sendMail(to, subject, body string) error {
	auth := smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)
	addr := fmt.Sprintf("%s:%d", n.config.Host, n.config.Port)

	headers := map[string]string{
		"From":         n.config.From,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"utf-8\"",
	}

	var message string
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body

	if err := smtp.SendMail(addr, auth, n.config.From, []string{to}, []byte(message)); err != nil {
		n.logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject))

	return nil
}

func (n *SMTPNotifier) SendOrderConfirmation(ctx context.Context, order *model.Order, customer *model.Customer) error {
	if customer == nil {
		n.logger.Warn("Skipping order confirmation, no customer record",
			zap.String("order_id", order.ID.String()))
		return nil
	}

	body := fmt.Sprintf("<p>Thanks for your order of <strong>%s</strong>.</p><p>Amount: %s %s</p>",
		order.ListingName, order.Amount.StringFixed(2), order.Currency)
	return n.sendMail(customer.Email, "Your Suburbmates order is confirmed", body)
}

func (n *SMTPNotifier) SendNewOrderNotification(ctx context.Context, order *model.Order, vendor *model.Vendor) error {
	body := fmt.Sprintf("<p>You have a new order for <strong>%s</strong> from %s.</p><p>Amount: %s %s</p>",
		order.ListingName, order.CustomerName, order.Amount.StringFixed(2), order.Currency)
	return n.sendMail(vendor.ContactEmail, "New order received", body)
}

func (n *SMTPNotifier) SendStripeActionRequired(ctx context.Context, vendor *model.Vendor) error {
	body := "<p>Stripe has disabled charges on your connected account. " +
		"Please complete the outstanding requirements in your Stripe dashboard to keep accepting payments.</p>"
	return n.sendMail(vendor.ContactEmail, "Action required on your payments account", body)
}

func (n *SMTPNotifier) SendDisputeCreatedVendor(ctx context.Context, dispute *model.Dispute, order *model.Order, vendor *model.Vendor) error {
	body := fmt.Sprintf("<p>A dispute was opened against your order for <strong>%s</strong>.</p>"+
		"<p>Reason: %s. Amount: %s %s.</p>",
		order.ListingName, dispute.Reason, dispute.Amount.StringFixed(2), dispute.Currency)
	if dispute.EvidenceDueBy != nil {
		body += fmt.Sprintf("<p>Evidence is due by %s.</p>", dispute.EvidenceDueBy.Format("2 January 2006"))
	}
	return n.sendMail(vendor.ContactEmail, "A dispute was opened against an order", body)
}

func (n *SMTPNotifier) SendDisputeCreatedBuyer(ctx context.Context, dispute *model.Dispute, order *model.Order, customer *model.Customer) error {
	if customer == nil {
		n.logger.Warn("Skipping buyer dispute notification, no customer record",
			zap.String("dispute_id", dispute.ID.String()))
		return nil
	}

	body := fmt.Sprintf("<p>Your bank has opened a dispute for your order of <strong>%s</strong>. "+
		"We'll keep you updated on the outcome.</p>", order.ListingName)
	return n.sendMail(customer.Email, "Your payment dispute has been received", body)
}

func (n *SMTPNotifier) SendDisputeClosed(ctx context.Context, dispute *model.Dispute, order *model.Order, vendor *model.Vendor) error {
	body := fmt.Sprintf("<p>The dispute on your order for <strong>%s</strong> has been closed.</p><p>Outcome: %s.</p>",
		order.ListingName, dispute.Status)
	return n.sendMail(vendor.ContactEmail, "Dispute closed", body)
}

func (n *SMTPNotifier) SendRefundStatusUpdate(ctx context.Context, request *model.RefundRequest, order *model.Order, customer *model.Customer) error {
	if customer == nil {
		n.logger.Warn("Skipping refund status update, no customer record",
			zap.String("refund_request_id", request.ID.String()))
		return nil
	}

	body := fmt.Sprintf("<p>Your refund request for <strong>%s</strong> is now %s.</p>",
		order.ListingName, request.State)
	if request.Decision != nil {
		body += fmt.Sprintf("<p>Vendor note: %s</p>", *request.Decision)
	}
	return n.sendMail(customer.Email, "Update on your refund request", body)
}

func (n *SMTPNotifier) SendNewRefundRequest(ctx context.Context, request *model.RefundRequest, order *model.Order, vendor *model.Vendor) error {
	body := fmt.Sprintf("<p>A buyer has requested a refund for <strong>%s</strong>.</p><p>Reason: %s</p>",
		order.ListingName, request.Reason)
	return n.sendMail(vendor.ContactEmail, "New refund request", body)
}
