package catalog

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-job-catalog/config"
	"github.com/oksasatya/go-job-catalog/pkg/mailer"
)

func TestBootstrap(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.Config{
		ClientID:       "job-catalog",
		TriggerAPIKey:  "tr_dev_test",
		TriggerAPIURL:  "https://api.trigger.dev",
		MailProvider:   config.ProviderResend,
		ResendClientID: "resend-client",
		ResendAPIKey:   "re_test",
	}

	client, integration, err := Bootstrap(cfg, logger)
	require.NoError(t, err)
	assert.Len(t, client.Jobs(), 4)
	assert.Equal(t, "resend-client", integration.ID)
	assert.IsType(t, &mailer.Resend{}, integration.Client)
	assert.Equal(t, "re_test", integration.APIKey.Reveal())
	for _, j := range client.Jobs() {
		assert.Same(t, integration, j.Integrations[IntegrationKey])
	}
}

func TestBootstrapMailgun(t *testing.T) {
	cfg := &config.Config{MailProvider: config.ProviderMailgun, MailgunDomain: "mg.example.com", MailgunAPIKey: "key"}
	p, key, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &mailer.Mailgun{}, p)
	assert.Equal(t, "key", key)
}

func TestBootstrapRejectsRelativeURL(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	_, _, err := Bootstrap(&config.Config{TriggerAPIKey: "k", TriggerAPIURL: "/relative", ResendAPIKey: "re"}, logger)
	require.Error(t, err)
}
