// Package mail delivers transactional email. Delivery is best-effort
// and fire-and-forget: callers hand a message off and never block on,
// or fail because of, the outcome.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"

	"go-bookstore/internal/config"
)

// OrderLine is one confirmed line of an order, priced as it was at
// order time.
type OrderLine struct {
	BookName string
	Quantity int
	Price    decimal.Decimal
}

// OrderConfirmation is the payload handed off after an order commits.
// EventID makes the hand-off at-most-reported-once identifiable in
// logs.
type OrderConfirmation struct {
	EventID   uuid.UUID
	Email     string
	OrderID   uint
	TotalCost decimal.Decimal
	Items     []OrderLine
}

// Notifier is the single operation the order engine consumes.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error
}

// VerificationSender delivers account verification links.
type VerificationSender interface {
	SendVerification(ctx context.Context, email, link string) error
}

var orderTmpl = template.Must(template.New("order").Parse(`<h1>Thank you for your order!</h1>
<p>Order #{{.OrderID}} was placed successfully.</p>
<table>
{{range .Items}}<tr><td>{{.BookName}}</td><td>{{.Quantity}}</td><td>{{.Price}}</td></tr>
{{end}}</table>
<p>Total: {{.TotalCost}}</p>`))

// SMTPMailer sends over SMTP with STARTTLS, matching the store's mail
// provider configuration.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	name   string
	log    *slog.Logger
}

func NewSMTPMailer(cfg config.MailConfig, log *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		name:   cfg.FromName,
		log:    log,
	}
}

func (m *SMTPMailer) SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error {
	var body bytes.Buffer
	if err := orderTmpl.Execute(&body, msg); err != nil {
		return fmt.Errorf("render order confirmation: %w", err)
	}
	subject := fmt.Sprintf("Order #%d confirmation", msg.OrderID)
	if err := m.send(msg.Email, subject, body.String()); err != nil {
		return fmt.Errorf("send order confirmation: %w", err)
	}
	m.log.Info("order confirmation sent",
		"event_id", msg.EventID.String(), "order_id", msg.OrderID, "email", msg.Email)
	return nil
}

func (m *SMTPMailer) SendVerification(ctx context.Context, email, link string) error {
	body := fmt.Sprintf(`<p>Welcome to the bookstore!</p><p>Verify your account: <a href=%q>%s</a></p>`, link, link)
	if err := m.send(email, "Verify your account", body); err != nil {
		return fmt.Errorf("send verification: %w", err)
	}
	return nil
}

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.name)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

// LogMailer stands in when no SMTP server is configured; messages are
// logged instead of delivered.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error {
	m.log.Info("order confirmation (mail disabled)",
		"event_id", msg.EventID.String(), "order_id", msg.OrderID,
		"email", msg.Email, "total_cost", msg.TotalCost.String(), "lines", len(msg.Items))
	return nil
}

func (m *LogMailer) SendVerification(ctx context.Context, email, link string) error {
	m.log.Info("verification link (mail disabled)", "email", email, "link", link)
	return nil
}
