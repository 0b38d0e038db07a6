package entity

import (
	"encoding/json"
	"net/url"

	"github.com/oksasatya/go-job-catalog/pkg/mailer"
)

// Secret never renders its value.
type Secret string

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[redacted]"
}

func (s Secret) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// Reveal returns the raw value for handing to an SDK.
func (s Secret) Reveal() string { return string(s) }

// IntegrationHandle is a configured email provider shared by every job that
// binds it.
type IntegrationHandle struct {
	ID     string          `json:"id"`
	APIKey Secret          `json:"-"`
	Client mailer.Provider `json:"-"`
}

// ClientConfig identifies this catalog to the orchestration runtime.
type ClientConfig struct {
	ID         string   `json:"id"`
	APIKey     Secret   `json:"-"`
	APIURL     *url.URL `json:"-"`
	Verbose    bool     `json:"verbose"`
	IOLogLocal bool     `json:"io_log_local"`
}
