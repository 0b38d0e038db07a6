package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"time"
)

const StatusAccepted = "accepted"

// Recipients decodes from either a single address or a list of addresses.
type Recipients []string

func (r *Recipients) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*r = Recipients{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return &json.UnmarshalTypeError{Value: string(b), Type: reflect.TypeOf(Recipients{})}
	}
	*r = many
	return nil
}

func (r Recipients) MarshalJSON() ([]byte, error) {
	if len(r) == 1 {
		return json.Marshal(r[0])
	}
	return json.Marshal([]string(r))
}

// SchemaType names the accepted JSON shapes in job indexes.
func (Recipients) SchemaType() string { return "string|string[]" }

// EmailRequest is one outbound message.
type EmailRequest struct {
	From    string     `json:"from,omitempty"`
	To      Recipients `json:"to"`
	Subject string     `json:"subject"`
	Text    string     `json:"text"`
}

// WithSender fills From when the caller left it empty.
func (r EmailRequest) WithSender(sender string) EmailRequest {
	if r.From == "" {
		r.From = sender
	}
	return r
}

type EmailResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type EmailDetails struct {
	ID        string     `json:"id"`
	To        Recipients `json:"to"`
	From      string     `json:"from"`
	Subject   string     `json:"subject"`
	Text      string     `json:"text,omitempty"`
	LastEvent string     `json:"last_event,omitempty"`
	CreatedAt string     `json:"created_at,omitempty"`
}

// Provider is an email API. SendBatch returns one response per request, in order.
type Provider interface {
	Send(ctx context.Context, req EmailRequest) (*EmailResponse, error)
	SendBatch(ctx context.Context, reqs []EmailRequest) ([]EmailResponse, error)
	Get(ctx context.Context, id string) (*EmailDetails, error)
}

const sendTimeout = 10 * time.Second
