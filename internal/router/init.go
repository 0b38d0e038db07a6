package router

import (
	"github.com/oksasatya/go-job-catalog/internal/container"
	handlers "github.com/oksasatya/go-job-catalog/internal/interface/http"
	"github.com/oksasatya/go-job-catalog/internal/router/modules"
)

// InitModules builds every module from the container singletons and adds it
// to the registry. Call once at startup, after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	client := container.GetClient()
	logger := container.GetLogger()

	var pub handlers.EventPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}

	r.Add(modules.NewJobModule(
		handlers.NewJobHandler(client, logger),
		handlers.NewEventHandler(client, pub, logger),
		container.GetRedis(),
		cfg.RateLimitPerMinute,
		logger,
	))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetRedis(), logger))
	}
}
