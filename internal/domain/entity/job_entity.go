package entity

import (
	"context"

	"github.com/oksasatya/go-job-catalog/pkg/validation"
)

// TriggerKind says what starts a job.
type TriggerKind string

const (
	// TriggerInvoke fires only on an explicit manual call.
	TriggerInvoke TriggerKind = "invoke"
	// TriggerEvent fires when an event with a matching name is emitted.
	TriggerEvent TriggerKind = "event"
)

type TriggerSpec struct {
	Kind      TriggerKind            `json:"kind"`
	EventName string                 `json:"event_name,omitempty"`
	Schema    []validation.FieldSpec `json:"schema"`
}

// PayloadParser validates raw trigger input and returns the typed payload.
type PayloadParser func(raw []byte) (any, error)

// RunFunc is a job's run behaviour, called with an already validated payload.
type RunFunc func(ctx context.Context, payload any, io IO, rc RunContext) error

// JobRecord is one registered job.
type JobRecord struct {
	ID           string                        `json:"id"`
	Name         string                        `json:"name"`
	Version      string                        `json:"version"`
	Trigger      TriggerSpec                   `json:"trigger"`
	Integrations map[string]*IntegrationHandle `json:"integrations"`
	Parse        PayloadParser                 `json:"-"`
	Run          RunFunc                       `json:"-"`
}
