package application

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-job-catalog/internal/domain/entity"
	repo "github.com/oksasatya/go-job-catalog/internal/domain/repository"
	"github.com/oksasatya/go-job-catalog/pkg/apperr"
)

// Client registers jobs and runs them when their trigger fires. It holds no
// mutable state besides the registry, so concurrent runs need no locking.
type Client struct {
	Config   entity.ClientConfig
	Registry repo.JobRegistry
	Logger   *logrus.Logger

	now func() time.Time
}

// NewClient validates cfg and returns a client bound to registry.
func NewClient(cfg entity.ClientConfig, registry repo.JobRegistry, logger *logrus.Logger) (*Client, error) {
	var errs *multierror.Error
	if cfg.ID == "" {
		errs = multierror.Append(errs, apperr.Config("client id", apperr.ErrMissing))
	}
	if cfg.APIKey == "" {
		errs = multierror.Append(errs, apperr.Config("client api key", apperr.ErrMissing))
	}
	switch {
	case cfg.APIURL == nil:
		errs = multierror.Append(errs, apperr.Config("client api url", apperr.ErrMissing))
	case !cfg.APIURL.IsAbs() || cfg.APIURL.Host == "":
		errs = multierror.Append(errs, apperr.Config("client api url", fmt.Errorf("%w: %q is not an absolute url", apperr.ErrInvalid, cfg.APIURL)))
	}
	if registry == nil {
		errs = multierror.Append(errs, apperr.Config("client registry", apperr.ErrMissing))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Client{Config: cfg, Registry: registry, Logger: logger, now: time.Now}, nil
}

// DefineJob adds a job to the registry. A duplicate id is a ConfigurationError.
func (c *Client) DefineJob(job *entity.JobRecord) error {
	if job == nil {
		return apperr.Config("job", apperr.ErrMissing)
	}
	if err := c.Registry.Register(job); err != nil {
		return err
	}
	if c.Config.Verbose {
		c.Logger.WithFields(logrus.Fields{"job_id": job.ID, "version": job.Version, "trigger": job.Trigger.Kind}).Debug("job defined")
	}
	return nil
}

// Jobs lists registered jobs in registration order.
func (c *Client) Jobs() []*entity.JobRecord {
	return c.Registry.List()
}

// Invoke runs an invoke-triggered job. An empty version matches any version.
// The returned error is the run's error; the run itself is returned whenever
// the job was found.
func (c *Client) Invoke(ctx context.Context, id, version string, payload []byte) (*entity.Run, error) {
	job, ok := c.Registry.Get(id)
	if !ok || (version != "" && job.Version != version) {
		return nil, fmt.Errorf("%w: %s@%s", apperr.ErrJobNotFound, id, version)
	}
	if job.Trigger.Kind != entity.TriggerInvoke {
		return nil, fmt.Errorf("%w: %s listens for event %q", apperr.ErrTriggerMismatch, id, job.Trigger.EventName)
	}
	return c.execute(ctx, job, entity.RunContext{Trigger: entity.TriggerInvoke}, payload)
}

// Emit runs every job listening for evt.Name, each on its own goroutine, and
// waits for all of them. No listener is not an error.
func (c *Client) Emit(ctx context.Context, evt entity.Event) ([]*entity.Run, error) {
	if evt.Name == "" {
		return nil, &apperr.ValidationError{Details: map[string]string{"name": "is required"}, Err: apperr.ErrMissing}
	}
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	jobs := c.Registry.ByEvent(evt.Name)
	if len(jobs) == 0 && c.Config.Verbose {
		c.Logger.WithFields(logrus.Fields{"event": evt.Name, "event_id": evt.ID}).Debug("no job listens for event")
	}

	runs := make([]*entity.Run, len(jobs))
	var g multierror.Group
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			rc := entity.RunContext{Trigger: entity.TriggerEvent, EventName: evt.Name, EventID: evt.ID}
			run, err := c.execute(ctx, job, rc, evt.Payload)
			runs[i] = run
			return err
		})
	}
	return runs, g.Wait().ErrorOrNil()
}

func (c *Client) execute(ctx context.Context, job *entity.JobRecord, rc entity.RunContext, raw []byte) (*entity.Run, error) {
	rc.RunID = uuid.NewString()
	rc.ClientID = c.Config.ID
	rc.JobID = job.ID
	rc.JobVersion = job.Version

	run := &entity.Run{
		ID:         rc.RunID,
		JobID:      job.ID,
		JobVersion: job.Version,
		Trigger:    rc.Trigger,
		EventName:  rc.EventName,
		EventID:    rc.EventID,
		Status:     entity.RunPending,
	}
	log := c.Logger.WithFields(logrus.Fields{
		"run_id":      run.ID,
		"job_id":      job.ID,
		"job_version": job.Version,
		"trigger":     rc.Trigger,
	})

	payload, err := job.Parse(raw)
	if err != nil {
		var verr *apperr.ValidationError
		if errors.As(err, &verr) {
			verr.Job = job.ID
		}
		c.finish(run, log, err)
		return run, err
	}

	started := c.now()
	rc.StartedAt = started
	run.StartedAt = &started
	run.Status = entity.RunRunning
	if c.Config.Verbose {
		log.Debug("run started")
	}

	err = c.run(ctx, job, payload, newRunIO(run, log, c.Config, job.Integrations), rc, log)
	c.finish(run, log, err)
	return run, err
}

func (c *Client) run(ctx context.Context, job *entity.JobRecord, payload any, io entity.IO, rc entity.RunContext, log *logrus.Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(logrus.Fields{"panic": fmt.Sprint(r), "stack": string(debug.Stack())}).Error("run panicked")
			err = &apperr.LatentContractError{Job: job.ID, Value: r}
		}
	}()
	return job.Run(ctx, payload, io, rc)
}

func (c *Client) finish(run *entity.Run, log *logrus.Entry, err error) {
	done := c.now()
	run.CompletedAt = &done
	if err != nil {
		run.Status = entity.RunFailed
		run.Error = err.Error()
		log.WithError(err).Warn("run failed")
	} else {
		run.Status = entity.RunSucceeded
		if c.Config.Verbose {
			log.Debug("run succeeded")
		}
	}
	runCounters.Add(string(run.Status), 1)
}
