package catalog

import "github.com/oksasatya/go-job-catalog/pkg/mailer"

const (
	DefaultRecipient = "eric@trigger.dev"
	DefaultSubject   = "This is a test email"
	DefaultText      = "This is a test email"
)

// EmailPayload is the invoke payload; every field has a default.
type EmailPayload struct {
	To      mailer.Recipients `json:"to" validate:"required,min=1"`
	Subject string            `json:"subject"`
	Text    string            `json:"text"`
}

func (p *EmailPayload) Defaults() {
	p.To = mailer.Recipients{DefaultRecipient}
	p.Subject = DefaultSubject
	p.Text = DefaultText
}

func (p EmailPayload) request() mailer.EmailRequest {
	return mailer.EmailRequest{To: p.To, Subject: p.Subject, Text: p.Text}.WithSender(Sender)
}

// BlankEmailPayload is the "send.email" event payload. Nothing is defaulted
// and From is optional.
type BlankEmailPayload struct {
	To      mailer.Recipients `json:"to" validate:"required,min=1"`
	Subject *string           `json:"subject" validate:"required"`
	Text    *string           `json:"text" validate:"required"`
	From    *string           `json:"from,omitempty"`
}
