package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/oksasatya/go-job-catalog/internal/domain/entity"
	"github.com/oksasatya/go-job-catalog/pkg/apperr"
)

const (
	ProviderResend  = "resend"
	ProviderMailgun = "mailgun"
)

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// Orchestration client
	ClientID      string
	TriggerAPIKey string
	TriggerAPIURL string
	Verbose       bool
	IOLogLocal    bool

	// Email provider
	MailProvider   string // resend, mailgun
	ResendClientID string
	ResendAPIKey   string
	ResendBaseURL  string // optional; overrides the public API endpoint

	// Mailgun
	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	// Redis (rate limiting); empty addr disables it
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RateLimitPerMinute int

	// RabbitMQ; empty url dispatches events in-process
	RabbitMQURL        string
	RabbitMQEventQueue string

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Debug metrics (/api/debug/vars)
	DebugMetricsEnabled bool

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "job-catalog"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "release"),

		ClientID:      getenv("TRIGGER_CLIENT_ID", "job-catalog"),
		TriggerAPIKey: getenv("TRIGGER_API_KEY", ""),
		TriggerAPIURL: getenv("TRIGGER_API_URL", ""),
		Verbose:       getbool("TRIGGER_VERBOSE", false),
		IOLogLocal:    getbool("TRIGGER_IO_LOG_LOCAL", true),

		MailProvider:   strings.ToLower(getenv("MAIL_PROVIDER", ProviderResend)),
		ResendClientID: getenv("RESEND_CLIENT_ID", "resend-client"),
		ResendAPIKey:   getenv("RESEND_API_KEY", ""),
		ResendBaseURL:  getenv("RESEND_BASE_URL", ""),

		MailgunDomain: getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getenv("MAILGUN_API_KEY", ""),
		MailgunSender: getenv("MAILGUN_SENDER", ""),

		RedisAddr:          getenv("REDIS_ADDR", ""),
		RedisPassword:      getenv("REDIS_PASSWORD", ""),
		RedisDB:            getint("REDIS_DB", 0),
		RateLimitPerMinute: getint("RATE_LIMIT_PER_MINUTE", 120),

		RabbitMQURL:        getenv("RABBITMQ_URL", ""),
		RabbitMQEventQueue: getenv("RABBITMQ_EVENT_QUEUE", "trigger-events"),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		// Debug metrics toggle (default true to preserve existing behavior)
		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", true),

		// HTTP access log toggle (default false; enable when needed)
		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),
	}
}

// Validate reports every missing or malformed credential at once.
func (c *Config) Validate() error {
	var errs *multierror.Error
	missing := func(key, val string) {
		if strings.TrimSpace(val) == "" {
			errs = multierror.Append(errs, apperr.Config(key, apperr.ErrMissing))
		}
	}

	missing("TRIGGER_API_KEY", c.TriggerAPIKey)
	missing("TRIGGER_API_URL", c.TriggerAPIURL)
	if c.TriggerAPIURL != "" {
		if _, err := c.APIURL(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	switch c.MailProvider {
	case ProviderResend:
		missing("RESEND_API_KEY", c.ResendAPIKey)
	case ProviderMailgun:
		missing("MAILGUN_DOMAIN", c.MailgunDomain)
		missing("MAILGUN_API_KEY", c.MailgunAPIKey)
	default:
		errs = multierror.Append(errs, apperr.Config("MAIL_PROVIDER", fmt.Errorf("%w: %q", apperr.ErrInvalid, c.MailProvider)))
	}
	return errs.ErrorOrNil()
}

// APIURL parses TRIGGER_API_URL; it must be absolute.
func (c *Config) APIURL() (*url.URL, error) {
	u, err := url.Parse(c.TriggerAPIURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, apperr.Config("TRIGGER_API_URL", fmt.Errorf("%w: %q is not an absolute url", apperr.ErrInvalid, c.TriggerAPIURL))
	}
	return u, nil
}

// ClientConfig returns the orchestration client settings.
func (c *Config) ClientConfig() (entity.ClientConfig, error) {
	u, err := c.APIURL()
	if err != nil {
		return entity.ClientConfig{}, err
	}
	return entity.ClientConfig{
		ID:         c.ClientID,
		APIKey:     entity.Secret(c.TriggerAPIKey),
		APIURL:     u,
		Verbose:    c.Verbose,
		IOLogLocal: c.IOLogLocal,
	}, nil
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
