package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Method string
	Path   string
	Body   []byte
}

func newResendServer(t *testing.T) (*httptest.Server, *[]recordedCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		calls = append(calls, recordedCall{Method: r.Method, Path: r.URL.Path, Body: body})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/emails":
			_, _ = w.Write([]byte(`{"id":"email-1"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/emails/batch":
			_, _ = w.Write([]byte(`{"data":[{"id":"email-1"},{"id":"email-2"}]}`))
		case r.Method == http.MethodGet && r.URL.Path == "/emails/email-1":
			_, _ = w.Write([]byte(`{"object":"email","id":"email-1","to":["a@x.com"],"from":"s@x.com","subject":"S","text":"T","last_event":"delivered"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"statusCode":404,"name":"not_found","message":"not found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestResendSend(t *testing.T) {
	srv, calls := newResendServer(t)
	p, err := NewResend("re_test", srv.URL)
	require.NoError(t, err)

	res, err := p.Send(context.Background(), EmailRequest{
		From:    "s@x.com",
		To:      Recipients{"a@x.com"},
		Subject: "S",
		Text:    "T",
	})
	require.NoError(t, err)
	assert.Equal(t, "email-1", res.ID)
	assert.Equal(t, StatusAccepted, res.Status)

	require.Len(t, *calls, 1)
	var sent map[string]any
	require.NoError(t, json.Unmarshal((*calls)[0].Body, &sent))
	assert.Equal(t, "s@x.com", sent["from"])
	assert.Equal(t, "S", sent["subject"])
}

func TestResendSendBatchIsOneCall(t *testing.T) {
	srv, calls := newResendServer(t)
	p, err := NewResend("re_test", srv.URL)
	require.NoError(t, err)

	req := EmailRequest{From: "s@x.com", To: Recipients{"a@x.com"}, Subject: "S", Text: "T"}
	res, err := p.SendBatch(context.Background(), []EmailRequest{req, req})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "email-2", res[1].ID)

	require.Len(t, *calls, 1)
	assert.Equal(t, "/emails/batch", (*calls)[0].Path)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal((*calls)[0].Body, &entries))
	assert.Len(t, entries, 2)
}

func TestResendGet(t *testing.T) {
	srv, _ := newResendServer(t)
	p, err := NewResend("re_test", srv.URL)
	require.NoError(t, err)

	d, err := p.Get(context.Background(), "email-1")
	require.NoError(t, err)
	assert.Equal(t, "email-1", d.ID)
	assert.Equal(t, Recipients{"a@x.com"}, d.To)
	assert.Equal(t, "delivered", d.LastEvent)
}

func TestResendProviderError(t *testing.T) {
	srv, _ := newResendServer(t)
	p, err := NewResend("re_test", srv.URL)
	require.NoError(t, err)

	_, err = p.Get(context.Background(), "missing")
	assert.Error(t, err)
}
