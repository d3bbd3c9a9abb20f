// Package dispatch delivers generated outreach emails in bounded,
// rate-limited batches and records nudge history for successful sends.
package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/campus-ops/nudge-cli/pkg/sendgrid"
)

// Email is one outbound message handed to a transport.
type Email struct {
	FromName    string
	FromAddress string
	ToName      string
	ToAddress   string
	Subject     string
	BodyHTML    string
}

// Transport delivers a single email.
type Transport interface {
	Send(ctx context.Context, e Email) error
}

// SendGridTransport delivers through the SendGrid v3 API.
type SendGridTransport struct {
	client sendgrid.Client
}

// NewSendGrid wraps a SendGrid client as a Transport.
func NewSendGrid(client sendgrid.Client) *SendGridTransport {
	return &SendGridTransport{client: client}
}

func (t *SendGridTransport) Send(ctx context.Context, e Email) error {
	return t.client.Send(ctx, sendgrid.SendRequest{
		Personalizations: []sendgrid.Personalization{
			{To: []sendgrid.Address{{Email: e.ToAddress, Name: e.ToName}}},
		},
		From:    sendgrid.Address{Email: e.FromAddress, Name: e.FromName},
		Subject: e.Subject,
		Content: []sendgrid.Content{{Type: "text/html", Value: e.BodyHTML}},
	})
}

// DryRunTransport logs instead of sending; every message counts as sent.
type DryRunTransport struct{}

func (DryRunTransport) Send(_ context.Context, e Email) error {
	zap.L().Info("dispatch: dry run",
		zap.String("to", e.ToAddress),
		zap.String("subject", e.Subject),
	)
	return nil
}
