package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/go-job-catalog/internal/interface/http"
	"github.com/oksasatya/go-job-catalog/internal/interface/middleware"
)

// JobModule exposes the job catalog to the orchestration runtime.
// GET /ping, GET /jobs, POST /jobs/:id/invoke, POST /events
type JobModule struct {
	Jobs      *handlers.JobHandler
	Events    *handlers.EventHandler
	Redis     *redis.Client
	PerMinute int
	Logger    *logrus.Logger
}

func NewJobModule(jobs *handlers.JobHandler, events *handlers.EventHandler, rdb *redis.Client, perMinute int, logger *logrus.Logger) *JobModule {
	return &JobModule{Jobs: jobs, Events: events, Redis: rdb, PerMinute: perMinute, Logger: logger}
}

func (m *JobModule) Register(rg *gin.RouterGroup) {
	rg.GET("/ping", m.Jobs.Ping)

	limited := rg.Group("/")
	limited.Use(middleware.RateLimit(m.Redis, m.PerMinute, time.Minute, middleware.KeyByIPAndJob(), middleware.AllowPrivateIP(), m.Logger))
	{
		limited.GET("/jobs", m.Jobs.Index)
		limited.POST("/jobs/:id/invoke", m.Jobs.Invoke)
		limited.POST("/events", m.Events.Emit)
	}
}
