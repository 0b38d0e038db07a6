package catalog

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-job-catalog/config"
	"github.com/oksasatya/go-job-catalog/internal/application"
	"github.com/oksasatya/go-job-catalog/internal/domain/entity"
	"github.com/oksasatya/go-job-catalog/internal/infrastructure/memory"
	"github.com/oksasatya/go-job-catalog/pkg/mailer"
)

// NewProvider builds the email provider selected by MAIL_PROVIDER.
func NewProvider(cfg *config.Config) (mailer.Provider, string, error) {
	if cfg.MailProvider == config.ProviderMailgun {
		return mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender), cfg.MailgunAPIKey, nil
	}
	rs, err := mailer.NewResend(cfg.ResendAPIKey, cfg.ResendBaseURL)
	if err != nil {
		return nil, "", err
	}
	return rs, cfg.ResendAPIKey, nil
}

// Bootstrap constructs the client and the shared email integration, then
// registers every catalog job. Used by the server and the event worker.
func Bootstrap(cfg *config.Config, logger *logrus.Logger) (*application.Client, *entity.IntegrationHandle, error) {
	cc, err := cfg.ClientConfig()
	if err != nil {
		return nil, nil, err
	}
	provider, apiKey, err := NewProvider(cfg)
	if err != nil {
		return nil, nil, err
	}
	integration := &entity.IntegrationHandle{ID: cfg.ResendClientID, APIKey: entity.Secret(apiKey), Client: provider}

	client, err := application.NewClient(cc, memory.NewJobRegistry(), logger)
	if err != nil {
		return nil, nil, err
	}
	if err := Register(client, integration); err != nil {
		return nil, nil, err
	}
	logger.WithFields(logrus.Fields{
		"client_id":   cc.ID,
		"provider":    cfg.MailProvider,
		"integration": integration.ID,
		"jobs":        len(client.Jobs()),
	}).Info("job catalog registered")
	return client, integration, nil
}
