package catalog

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/oksasatya/go-job-catalog/internal/application"
	"github.com/oksasatya/go-job-catalog/internal/domain/entity"
	"github.com/oksasatya/go-job-catalog/pkg/mailer"
)

const (
	SendEmailID           = "send-resend-email"
	BatchSendEmailID      = "batch-send-resend-email"
	SendEmailDeprecatedID = "send-resend-email-deprecated"
	SendEmailFromBlankID  = "send-resend-email-from-blank"

	// SendEmailEvent starts the send-resend-email-from-blank job.
	SendEmailEvent = "send.email"

	// Sender is the fixed From of the invoke jobs.
	Sender = "Trigger.dev <hello@email.trigger.dev>"

	// IntegrationKey is the name the email integration is bound under.
	IntegrationKey = "resend"

	jobVersion = "0.1.0"
	emailTask  = "📧"
)

// Jobs builds the four email job records around one shared integration.
func Jobs(resend *entity.IntegrationHandle) ([]*entity.JobRecord, error) {
	integrations := map[string]*entity.IntegrationHandle{IntegrationKey: resend}

	var (
		records []*entity.JobRecord
		errs    *multierror.Error
	)
	add := func(rec *entity.JobRecord, err error) {
		if err != nil {
			errs = multierror.Append(errs, err)
			return
		}
		records = append(records, rec)
	}

	add(application.Define(application.Definition[EmailPayload]{
		ID:           SendEmailID,
		Name:         "Send Resend Email",
		Version:      jobVersion,
		Trigger:      application.InvokeTrigger(),
		Integrations: integrations,
		Run:          sendEmail,
	}))
	add(application.Define(application.Definition[EmailPayload]{
		ID:           BatchSendEmailID,
		Name:         "Batch Send Resend Email",
		Version:      jobVersion,
		Trigger:      application.InvokeTrigger(),
		Integrations: integrations,
		Run:          batchSendEmail,
	}))
	add(application.Define(application.Definition[EmailPayload]{
		ID:           SendEmailDeprecatedID,
		Name:         "Send Resend Email Deprecated",
		Version:      jobVersion,
		Trigger:      application.InvokeTrigger(),
		Integrations: integrations,
		Run:          sendEmailDeprecated,
	}))
	add(application.Define(application.Definition[BlankEmailPayload]{
		ID:           SendEmailFromBlankID,
		Name:         "Send Resend Email From Blank",
		Version:      jobVersion,
		Trigger:      application.EventTrigger(SendEmailEvent),
		Integrations: integrations,
		Run:          sendEmailFromBlank,
	}))

	return records, errs.ErrorOrNil()
}

// Register defines every catalog job on client. Any failure, including a
// job id that is already registered, aborts registration.
func Register(client *application.Client, resend *entity.IntegrationHandle) error {
	records, err := Jobs(resend)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := client.DefineJob(rec); err != nil {
			return err
		}
	}
	return nil
}

func sendEmail(ctx context.Context, p EmailPayload, io entity.IO, _ entity.RunContext) error {
	resend := io.Emails(IntegrationKey)
	response, err := resend.Send(ctx, emailTask, p.request())
	if err != nil {
		return err
	}
	io.Logger().Info(ctx, "Sent email", map[string]any{"response": response})

	if _, err := resend.Get(ctx, "get-email", response.ID); err != nil {
		return err
	}
	return nil
}

func batchSendEmail(ctx context.Context, p EmailPayload, io entity.IO, _ entity.RunContext) error {
	req := p.request()
	response, err := io.Emails(IntegrationKey).SendBatch(ctx, emailTask, []mailer.EmailRequest{req, req})
	if err != nil {
		return err
	}
	io.Logger().Info(ctx, "Sent batched email", map[string]any{"response": response})
	return nil
}

func sendEmailDeprecated(ctx context.Context, p EmailPayload, io entity.IO, _ entity.RunContext) error {
	response, err := io.Emails(IntegrationKey).SendEmail(ctx, emailTask, p.request())
	if err != nil {
		return err
	}
	io.Logger().Info(ctx, "Sent email", map[string]any{"response": response})
	return nil
}

func sendEmailFromBlank(ctx context.Context, p BlankEmailPayload, io entity.IO, _ entity.RunContext) error {
	response, err := io.Emails(IntegrationKey).SendEmail(ctx, emailTask, mailer.EmailRequest{
		To:      p.To,
		Subject: *p.Subject,
		Text:    *p.Text,
		// The schema leaves from optional but this run requires it: an event
		// without from fails here.
		From: *p.From,
	})
	if err != nil {
		return err
	}
	io.Logger().Info(ctx, "Sent email", map[string]any{"response": response})
	return nil
}
