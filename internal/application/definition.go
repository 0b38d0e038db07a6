package application

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/go-multierror"

	"github.com/oksasatya/go-job-catalog/internal/domain/entity"
	"github.com/oksasatya/go-job-catalog/pkg/apperr"
	"github.com/oksasatya/go-job-catalog/pkg/validation"
)

// InvokeTrigger fires only when the job is invoked explicitly.
func InvokeTrigger() entity.TriggerSpec {
	return entity.TriggerSpec{Kind: entity.TriggerInvoke}
}

// EventTrigger fires when an event called name is emitted.
func EventTrigger(name string) entity.TriggerSpec {
	return entity.TriggerSpec{Kind: entity.TriggerEvent, EventName: name}
}

// Definition is a typed job declaration. T is the payload type; its json and
// validate tags form the payload schema and an optional Defaults method
// supplies default values.
type Definition[T any] struct {
	ID           string
	Name         string
	Version      string
	Trigger      entity.TriggerSpec
	Integrations map[string]*entity.IntegrationHandle
	Run          func(ctx context.Context, payload T, io entity.IO, rc entity.RunContext) error
}

// Define checks a typed definition and turns it into a JobRecord. Every
// problem found is reported, each as a ConfigurationError.
func Define[T any](def Definition[T]) (*entity.JobRecord, error) {
	var errs *multierror.Error
	field := "job " + def.ID

	if def.ID == "" {
		errs = multierror.Append(errs, apperr.Config("job id", apperr.ErrMissing))
	}
	if def.Name == "" {
		errs = multierror.Append(errs, apperr.Config(field+" name", apperr.ErrMissing))
	}
	if _, err := semver.StrictNewVersion(def.Version); err != nil {
		errs = multierror.Append(errs, apperr.Config(field+" version", fmt.Errorf("%w: %q: %v", apperr.ErrInvalid, def.Version, err)))
	}
	switch def.Trigger.Kind {
	case entity.TriggerInvoke:
	case entity.TriggerEvent:
		if def.Trigger.EventName == "" {
			errs = multierror.Append(errs, apperr.Config(field+" event name", apperr.ErrMissing))
		}
	default:
		errs = multierror.Append(errs, apperr.Config(field+" trigger", fmt.Errorf("%w: %q", apperr.ErrInvalid, def.Trigger.Kind)))
	}
	if def.Run == nil {
		errs = multierror.Append(errs, apperr.Config(field+" run", apperr.ErrMissing))
	}
	integrations := make(map[string]*entity.IntegrationHandle, len(def.Integrations))
	for key, h := range def.Integrations {
		if h == nil || h.Client == nil {
			errs = multierror.Append(errs, apperr.Config(field+" integration "+key, apperr.ErrMissing))
			continue
		}
		integrations[key] = h
	}
	schema, err := validation.Describe[T]()
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	trigger := def.Trigger
	trigger.Schema = schema
	run := def.Run
	return &entity.JobRecord{
		ID:           def.ID,
		Name:         def.Name,
		Version:      def.Version,
		Trigger:      trigger,
		Integrations: integrations,
		Parse: func(raw []byte) (any, error) {
			p, err := validation.Decode[T](raw)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
		Run: func(ctx context.Context, payload any, io entity.IO, rc entity.RunContext) error {
			p, ok := payload.(T)
			if !ok {
				return fmt.Errorf("job %q: unexpected payload type %T", rc.JobID, payload)
			}
			return run(ctx, p, io, rc)
		},
	}, nil
}
