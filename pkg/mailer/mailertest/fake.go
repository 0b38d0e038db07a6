// Package mailertest provides an in-memory mailer.Provider for tests.
package mailertest

import (
	"context"
	"fmt"
	"sync"

	"github.com/oksasatya/go-job-catalog/pkg/mailer"
)

// Provider records every call. Set Err to make all calls fail.
type Provider struct {
	mu      sync.Mutex
	Err     error
	Sent    []mailer.EmailRequest
	Batches [][]mailer.EmailRequest
	Lookups []string
	nextID  int
}

func (p *Provider) id() string {
	p.nextID++
	return fmt.Sprintf("email-%d", p.nextID)
}

func (p *Provider) Send(_ context.Context, req mailer.EmailRequest) (*mailer.EmailResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	p.Sent = append(p.Sent, req)
	return &mailer.EmailResponse{ID: p.id(), Status: mailer.StatusAccepted}, nil
}

func (p *Provider) SendBatch(_ context.Context, reqs []mailer.EmailRequest) ([]mailer.EmailResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	p.Batches = append(p.Batches, reqs)
	out := make([]mailer.EmailResponse, 0, len(reqs))
	for range reqs {
		out = append(out, mailer.EmailResponse{ID: p.id(), Status: mailer.StatusAccepted})
	}
	return out, nil
}

func (p *Provider) Get(_ context.Context, id string) (*mailer.EmailDetails, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	p.Lookups = append(p.Lookups, id)
	return &mailer.EmailDetails{ID: id, LastEvent: "delivered"}, nil
}

// Calls is the number of provider calls made so far.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Sent) + len(p.Batches) + len(p.Lookups)
}
