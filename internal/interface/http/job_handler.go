package handlers

import (
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-job-catalog/internal/application"
	"github.com/oksasatya/go-job-catalog/internal/domain/entity"
	"github.com/oksasatya/go-job-catalog/pkg/apperr"
	"github.com/oksasatya/go-job-catalog/pkg/response"
)

const maxPayloadBytes = 1 << 20

type JobHandler struct {
	Client *application.Client
	Logger *logrus.Logger
}

func NewJobHandler(client *application.Client, logger *logrus.Logger) *JobHandler {
	return &JobHandler{Client: client, Logger: logger}
}

type integrationView struct {
	Key string `json:"key"`
	ID  string `json:"id"`
}

type jobView struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Version      string             `json:"version"`
	Trigger      entity.TriggerSpec `json:"trigger"`
	Integrations []integrationView  `json:"integrations"`
}

func toJobView(j *entity.JobRecord) jobView {
	v := jobView{ID: j.ID, Name: j.Name, Version: j.Version, Trigger: j.Trigger}
	for key, h := range j.Integrations {
		v.Integrations = append(v.Integrations, integrationView{Key: key, ID: h.ID})
	}
	sort.Slice(v.Integrations, func(a, b int) bool { return v.Integrations[a].Key < v.Integrations[b].Key })
	return v
}

// Ping reports which client this endpoint serves.
func (h *JobHandler) Ping(c *gin.Context) {
	cfg := h.Client.Config
	apiURL := ""
	if cfg.APIURL != nil {
		apiURL = cfg.APIURL.String()
	}
	response.Success[any](c, http.StatusOK, gin.H{
		"client_id": cfg.ID,
		"api_url":   apiURL,
		"jobs":      len(h.Client.Jobs()),
	}, "pong", nil)
}

// Index lists every registered job with its trigger and payload schema.
func (h *JobHandler) Index(c *gin.Context) {
	jobs := h.Client.Jobs()
	out := make([]jobView, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobView(j))
	}
	response.Success(c, http.StatusOK, out, "jobs", map[string]any{"count": len(out)})
}

// Invoke runs an invoke-triggered job with the request body as payload.
// An empty body uses the payload defaults.
func (h *JobHandler) Invoke(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxPayloadBytes))
	if err != nil {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "payload too large", nil)
		return
	}
	run, err := h.Client.Invoke(c.Request.Context(), c.Param("id"), c.Query("version"), body)
	if err != nil {
		status, msg, detail := classify(err)
		if status >= http.StatusInternalServerError && h.Logger != nil {
			h.Logger.WithError(err).WithField("job_id", c.Param("id")).Warn("invocation failed")
		}
		response.Error(c, status, msg, detail, run)
		return
	}
	response.Success(c, http.StatusOK, run, "run succeeded", nil)
}

// classify maps a run error onto an HTTP status, message and error detail.
func classify(err error) (int, string, any) {
	var (
		verr *apperr.ValidationError
		ierr *apperr.IntegrationError
		lerr *apperr.LatentContractError
	)
	switch {
	case errors.Is(err, apperr.ErrJobNotFound):
		return http.StatusNotFound, "job not found", err.Error()
	case errors.Is(err, apperr.ErrTriggerMismatch):
		return http.StatusConflict, "job is not started by this trigger", err.Error()
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, "invalid payload", verr.Details
	case errors.As(err, &ierr):
		return http.StatusBadGateway, "integration call failed", err.Error()
	case errors.As(err, &lerr):
		return http.StatusInternalServerError, "run failed", err.Error()
	default:
		return http.StatusInternalServerError, "run failed", err.Error()
	}
}
