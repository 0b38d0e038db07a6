package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-job-catalog/internal/application"
	"github.com/oksasatya/go-job-catalog/internal/domain/entity"
	"github.com/oksasatya/go-job-catalog/pkg/response"
	"github.com/oksasatya/go-job-catalog/pkg/validation"
)

// EventPublisher hands events to the broker consumed by the event worker.
type EventPublisher interface {
	PublishJSON(ctx context.Context, id string, body any) error
}

type EventHandler struct {
	Client *application.Client
	Pub    EventPublisher
	Logger *logrus.Logger
}

// NewEventHandler builds the handler. A nil publisher runs listeners in-process.
func NewEventHandler(client *application.Client, pub EventPublisher, logger *logrus.Logger) *EventHandler {
	return &EventHandler{Client: client, Pub: pub, Logger: logger}
}

type emitEventRequest struct {
	ID      string          `json:"id"`
	Name    string          `json:"name" binding:"required"`
	Payload json.RawMessage `json:"payload"`
}

// Emit accepts a named event and either enqueues it or runs every job that
// listens for it.
func (h *EventHandler) Emit(c *gin.Context) {
	var req emitEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	evt := entity.Event{ID: req.ID, Name: req.Name, Payload: req.Payload, Timestamp: time.Now().UTC()}
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}

	if h.Pub != nil {
		if err := h.Pub.PublishJSON(c.Request.Context(), evt.ID, evt); err != nil {
			if h.Logger != nil {
				h.Logger.WithError(err).WithField("event", evt.Name).Warn("failed to publish event")
			}
			response.Error[any](c, http.StatusInternalServerError, "failed to enqueue", nil)
			return
		}
		response.Success[any](c, http.StatusAccepted, gin.H{"event": evt, "enqueued": true}, "event enqueued", nil)
		return
	}

	runs, err := h.Client.Emit(c.Request.Context(), evt)
	if err != nil {
		status, msg, detail := classify(err)
		response.Error[any](c, status, msg, detail, gin.H{"event": evt, "runs": runs})
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"event": evt, "runs": runs}, "event processed", nil)
}
