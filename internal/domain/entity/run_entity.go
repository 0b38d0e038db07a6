package entity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oksasatya/go-job-catalog/pkg/mailer"
)

type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

type LogEntry struct {
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
	Time    time.Time      `json:"time"`
}

// Run is one invocation of a job. It is returned to the caller and never stored.
type Run struct {
	ID          string      `json:"id"`
	JobID       string      `json:"job_id"`
	JobVersion  string      `json:"job_version"`
	Trigger     TriggerKind `json:"trigger"`
	EventName   string      `json:"event_name,omitempty"`
	EventID     string      `json:"event_id,omitempty"`
	Status      RunStatus   `json:"status"`
	Error       string      `json:"error,omitempty"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Logs        []LogEntry  `json:"logs,omitempty"`
}

// RunContext is the invocation metadata handed to a run behaviour.
type RunContext struct {
	RunID      string
	ClientID   string
	JobID      string
	JobVersion string
	Trigger    TriggerKind
	EventName  string
	EventID    string
	StartedAt  time.Time
}

// Event is a named occurrence emitted into the system.
type Event struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// IO is the capability set passed to a run behaviour.
type IO interface {
	Logger() RunLogger
	Emails(key string) EmailIO
}

type RunLogger interface {
	Debug(ctx context.Context, msg string, fields map[string]any)
	Info(ctx context.Context, msg string, fields map[string]any)
	Warn(ctx context.Context, msg string, fields map[string]any)
	Error(ctx context.Context, msg string, fields map[string]any)
}

// EmailIO exposes an email integration to a run. taskKey labels the call in
// run logs.
type EmailIO interface {
	Send(ctx context.Context, taskKey string, req mailer.EmailRequest) (*mailer.EmailResponse, error)
	SendBatch(ctx context.Context, taskKey string, reqs []mailer.EmailRequest) ([]mailer.EmailResponse, error)
	// Deprecated: use Send.
	SendEmail(ctx context.Context, taskKey string, req mailer.EmailRequest) (*mailer.EmailResponse, error)
	Get(ctx context.Context, taskKey string, id string) (*mailer.EmailDetails, error)
}
