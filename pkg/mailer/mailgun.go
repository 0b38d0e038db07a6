package mailer

import (
	"context"
	"fmt"

	mg "github.com/mailgun/mailgun-go/v4"

	"github.com/oksasatya/go-job-catalog/pkg/apperr"
)

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string
	// APIBase overrides the Mailgun endpoint (EU region, tests).
	APIBase string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
}

func (m *Mailgun) client() *mg.MailgunImpl {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	if m.APIBase != "" {
		client.SetAPIBase(m.APIBase)
	}
	return client
}

// Send sends an email via Mailgun. An empty From uses the configured sender.
func (m *Mailgun) Send(ctx context.Context, req EmailRequest) (*EmailResponse, error) {
	client := m.client()
	msg := client.NewMessage(req.WithSender(m.Sender).From, req.Subject, req.Text, req.To...)
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	status, id, err := client.Send(c, msg)
	if err != nil {
		return nil, err
	}
	return &EmailResponse{ID: id, Status: status}, nil
}

// SendBatch sends each request in order. Mailgun has no endpoint that takes
// several distinct messages in one call.
func (m *Mailgun) SendBatch(ctx context.Context, reqs []EmailRequest) ([]EmailResponse, error) {
	out := make([]EmailResponse, 0, len(reqs))
	for i, req := range reqs {
		res, err := m.Send(ctx, req)
		if err != nil {
			return out, fmt.Errorf("batch entry %d: %w", i, err)
		}
		out = append(out, *res)
	}
	return out, nil
}

func (m *Mailgun) Get(_ context.Context, _ string) (*EmailDetails, error) {
	return nil, apperr.ErrUnsupported
}
