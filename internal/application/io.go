package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-job-catalog/internal/domain/entity"
	"github.com/oksasatya/go-job-catalog/pkg/apperr"
	"github.com/oksasatya/go-job-catalog/pkg/mailer"
)

// runIO is the IO handed to a single run. A run executes on one goroutine,
// so the log slice needs no locking.
type runIO struct {
	run          *entity.Run
	log          *logrus.Entry
	cfg          entity.ClientConfig
	integrations map[string]*entity.IntegrationHandle
}

func newRunIO(run *entity.Run, log *logrus.Entry, cfg entity.ClientConfig, integrations map[string]*entity.IntegrationHandle) *runIO {
	return &runIO{run: run, log: log, cfg: cfg, integrations: integrations}
}

func (io *runIO) Logger() entity.RunLogger { return runLogger{io: io} }

func (io *runIO) Emails(key string) entity.EmailIO {
	return &emailIO{io: io, key: key, handle: io.integrations[key]}
}

func (io *runIO) emit(level logrus.Level, msg string, fields map[string]any) {
	io.run.Logs = append(io.run.Logs, entity.LogEntry{
		Level:   level.String(),
		Message: msg,
		Fields:  fields,
		Time:    time.Now().UTC(),
	})
	if io.cfg.IOLogLocal {
		io.log.WithFields(logrus.Fields(fields)).Log(level, msg)
	}
}

type runLogger struct{ io *runIO }

func (l runLogger) Debug(_ context.Context, msg string, fields map[string]any) {
	l.io.emit(logrus.DebugLevel, msg, fields)
}

func (l runLogger) Info(_ context.Context, msg string, fields map[string]any) {
	l.io.emit(logrus.InfoLevel, msg, fields)
}

func (l runLogger) Warn(_ context.Context, msg string, fields map[string]any) {
	l.io.emit(logrus.WarnLevel, msg, fields)
}

func (l runLogger) Error(_ context.Context, msg string, fields map[string]any) {
	l.io.emit(logrus.ErrorLevel, msg, fields)
}

type emailIO struct {
	io     *runIO
	key    string
	handle *entity.IntegrationHandle
}

func (e *emailIO) provider(task, op string) (mailer.Provider, error) {
	if e.handle == nil || e.handle.Client == nil {
		return nil, apperr.Config("integration "+e.key, apperr.ErrMissing)
	}
	if e.io.cfg.Verbose {
		e.io.log.WithFields(logrus.Fields{"integration": e.handle.ID, "task": task, "op": op}).Debug("integration task")
	}
	return e.handle.Client, nil
}

func (e *emailIO) fail(task, op string, err error) error {
	return &apperr.IntegrationError{Integration: e.handle.ID, Task: task, Op: op, Err: err}
}

func (e *emailIO) Send(ctx context.Context, task string, req mailer.EmailRequest) (*mailer.EmailResponse, error) {
	p, err := e.provider(task, "emails.send")
	if err != nil {
		return nil, err
	}
	res, err := p.Send(ctx, req)
	if err != nil {
		return nil, e.fail(task, "emails.send", err)
	}
	return res, nil
}

func (e *emailIO) SendBatch(ctx context.Context, task string, reqs []mailer.EmailRequest) ([]mailer.EmailResponse, error) {
	p, err := e.provider(task, "batch.send")
	if err != nil {
		return nil, err
	}
	res, err := p.SendBatch(ctx, reqs)
	if err != nil {
		return nil, e.fail(task, "batch.send", err)
	}
	return res, nil
}

// SendEmail is the legacy single-send operation.
//
// Deprecated: use Send.
func (e *emailIO) SendEmail(ctx context.Context, task string, req mailer.EmailRequest) (*mailer.EmailResponse, error) {
	p, err := e.provider(task, "sendEmail")
	if err != nil {
		return nil, err
	}
	e.io.log.WithField("integration", e.handle.ID).Warn("sendEmail is deprecated, use emails.send")
	res, err := p.Send(ctx, req)
	if err != nil {
		return nil, e.fail(task, "sendEmail", err)
	}
	return res, nil
}

func (e *emailIO) Get(ctx context.Context, task string, id string) (*mailer.EmailDetails, error) {
	p, err := e.provider(task, "emails.get")
	if err != nil {
		return nil, err
	}
	res, err := p.Get(ctx, id)
	if err != nil {
		return nil, e.fail(task, "emails.get", err)
	}
	return res, nil
}
