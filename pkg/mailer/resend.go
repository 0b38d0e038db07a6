package mailer

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"
)

// Resend sends through the Resend HTTP API.
type Resend struct {
	client *resend.Client
}

// NewResend builds a Resend provider. baseURL is optional and overrides the
// public API endpoint.
func NewResend(apiKey, baseURL string) (*Resend, error) {
	client := resend.NewClient(apiKey)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("resend base url: %w", err)
		}
		client.BaseURL = u
	}
	return &Resend{client: client}, nil
}

func toResend(req EmailRequest) *resend.SendEmailRequest {
	return &resend.SendEmailRequest{
		From:    req.From,
		To:      []string(req.To),
		Subject: req.Subject,
		Text:    req.Text,
	}
}

func (r *Resend) Send(ctx context.Context, req EmailRequest) (*EmailResponse, error) {
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	sent, err := r.client.Emails.SendWithContext(c, toResend(req))
	if err != nil {
		return nil, err
	}
	return &EmailResponse{ID: sent.Id, Status: StatusAccepted}, nil
}

// SendBatch issues a single batch call carrying every request.
func (r *Resend) SendBatch(ctx context.Context, reqs []EmailRequest) ([]EmailResponse, error) {
	params := make([]*resend.SendEmailRequest, 0, len(reqs))
	for _, req := range reqs {
		params = append(params, toResend(req))
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	sent, err := r.client.Batch.SendWithContext(c, params)
	if err != nil {
		return nil, err
	}
	out := make([]EmailResponse, 0, len(sent.Data))
	for _, s := range sent.Data {
		out = append(out, EmailResponse{ID: s.Id, Status: StatusAccepted})
	}
	return out, nil
}

func (r *Resend) Get(ctx context.Context, id string) (*EmailDetails, error) {
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	e, err := r.client.Emails.GetWithContext(c, id)
	if err != nil {
		return nil, err
	}
	return &EmailDetails{
		ID:        e.Id,
		To:        Recipients(e.To),
		From:      e.From,
		Subject:   e.Subject,
		Text:      e.Text,
		LastEvent: e.LastEvent,
		CreatedAt: e.CreatedAt,
	}, nil
}
