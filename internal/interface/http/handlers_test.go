package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-job-catalog/internal/application"
	"github.com/oksasatya/go-job-catalog/internal/catalog"
	"github.com/oksasatya/go-job-catalog/internal/domain/entity"
	"github.com/oksasatya/go-job-catalog/internal/infrastructure/memory"
	"github.com/oksasatya/go-job-catalog/pkg/mailer/mailertest"
)

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type fakePublisher struct {
	err       error
	ids       []string
	published []any
}

func (f *fakePublisher) PublishJSON(_ context.Context, id string, body any) error {
	if f.err != nil {
		return f.err
	}
	f.ids = append(f.ids, id)
	f.published = append(f.published, body)
	return nil
}

func newServer(t *testing.T, pub EventPublisher) (*gin.Engine, *mailertest.Provider) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	u, _ := url.Parse("https://api.trigger.dev")
	client, err := application.NewClient(entity.ClientConfig{
		ID:     "job-catalog",
		APIKey: "tr_dev_test",
		APIURL: u,
	}, memory.NewJobRegistry(), logger)
	require.NoError(t, err)

	p := &mailertest.Provider{}
	require.NoError(t, catalog.Register(client, &entity.IntegrationHandle{ID: "resend-client", APIKey: "re_test", Client: p}))

	jobs := NewJobHandler(client, logger)
	events := NewEventHandler(client, pub, logger)
	r := gin.New()
	api := r.Group("/api")
	api.GET("/ping", jobs.Ping)
	api.GET("/jobs", jobs.Index)
	api.POST("/jobs/:id/invoke", jobs.Invoke)
	api.POST("/events", events.Emit)
	return r, p
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestPing(t *testing.T) {
	r, _ := newServer(t, nil)
	code, env := do(t, r, http.MethodGet, "/api/ping", "")
	require.Equal(t, http.StatusOK, code)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "job-catalog", data["client_id"])
	assert.Equal(t, "https://api.trigger.dev", data["api_url"])
	assert.EqualValues(t, 4, data["jobs"])
}

func TestIndexListsJobs(t *testing.T) {
	r, _ := newServer(t, nil)
	code, env := do(t, r, http.MethodGet, "/api/jobs", "")
	require.Equal(t, http.StatusOK, code)

	var jobs []jobView
	require.NoError(t, json.Unmarshal(env.Data, &jobs))
	require.Len(t, jobs, 4)
	assert.Equal(t, catalog.SendEmailID, jobs[0].ID)
	assert.Equal(t, entity.TriggerEvent, jobs[3].Trigger.Kind)
	assert.Equal(t, catalog.SendEmailEvent, jobs[3].Trigger.EventName)
	assert.Equal(t, []integrationView{{Key: "resend", ID: "resend-client"}}, jobs[0].Integrations)
	assert.NotContains(t, string(env.Data), "re_test")
}

func TestInvokeWithDefaults(t *testing.T) {
	r, p := newServer(t, nil)
	code, env := do(t, r, http.MethodPost, "/api/jobs/send-resend-email/invoke", "")
	require.Equal(t, http.StatusOK, code)

	var run entity.Run
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.Equal(t, entity.RunSucceeded, run.Status)
	require.Len(t, p.Sent, 1)
	assert.Equal(t, catalog.Sender, p.Sent[0].From)
	assert.Equal(t, []string{"eric@trigger.dev"}, []string(p.Sent[0].To))
}

func TestInvokeStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown job", "/api/jobs/nope/invoke", "", http.StatusNotFound},
		{"unknown version", "/api/jobs/send-resend-email/invoke?version=9.9.9", "", http.StatusNotFound},
		{"event job", "/api/jobs/send-resend-email-from-blank/invoke", `{"to":"a@b.c","subject":"s","text":"t"}`, http.StatusConflict},
		{"bad type", "/api/jobs/send-resend-email/invoke", `{"subject":42}`, http.StatusUnprocessableEntity},
		{"bad json", "/api/jobs/send-resend-email/invoke", `{`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, p := newServer(t, nil)
			code, env := do(t, r, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.want, code)
			assert.False(t, env.Success)
			assert.Zero(t, p.Calls())
		})
	}
}

func TestInvokeValidationDetails(t *testing.T) {
	r, _ := newServer(t, nil)
	code, env := do(t, r, http.MethodPost, "/api/jobs/send-resend-email/invoke", `{"subject":42}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)

	var details map[string]string
	require.NoError(t, json.Unmarshal(env.Error, &details))
	assert.Contains(t, details, "subject")
}

func TestInvokeProviderFailure(t *testing.T) {
	r, p := newServer(t, nil)
	p.Err = errors.New("provider down")
	code, env := do(t, r, http.MethodPost, "/api/jobs/batch-send-resend-email/invoke", "")
	require.Equal(t, http.StatusBadGateway, code)

	var run entity.Run
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.Equal(t, entity.RunFailed, run.Status)
	assert.Contains(t, run.Error, "provider down")
}

func TestEmitInProcess(t *testing.T) {
	r, p := newServer(t, nil)
	code, env := do(t, r, http.MethodPost, "/api/events",
		`{"name":"send.email","payload":{"to":["a@b.c"],"subject":"hi","text":"body","from":"me@b.c"}}`)
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Event entity.Event  `json:"event"`
		Runs  []*entity.Run `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Event.ID)
	require.Len(t, data.Runs, 1)
	assert.Equal(t, catalog.SendEmailFromBlankID, data.Runs[0].JobID)
	require.Len(t, p.Sent, 1)
	assert.Equal(t, "me@b.c", p.Sent[0].From)
}

func TestEmitWithoutListeners(t *testing.T) {
	r, p := newServer(t, nil)
	code, _ := do(t, r, http.MethodPost, "/api/events", `{"name":"nobody.listens"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Zero(t, p.Calls())
}

func TestEmitWithoutSenderFails(t *testing.T) {
	r, p := newServer(t, nil)
	code, env := do(t, r, http.MethodPost, "/api/events",
		`{"name":"send.email","payload":{"to":"a@b.c","subject":"hi","text":"body"}}`)
	require.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, env.Success)
	assert.Zero(t, p.Calls())
}

func TestEmitRequiresName(t *testing.T) {
	r, _ := newServer(t, nil)
	code, _ := do(t, r, http.MethodPost, "/api/events", `{"payload":{}}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestEmitPublishes(t *testing.T) {
	pub := &fakePublisher{}
	r, p := newServer(t, pub)
	code, _ := do(t, r, http.MethodPost, "/api/events", `{"id":"evt-1","name":"send.email","payload":{"to":"a@b.c"}}`)
	require.Equal(t, http.StatusAccepted, code)
	require.Len(t, pub.published, 1)

	evt, ok := pub.published[0].(entity.Event)
	require.True(t, ok)
	assert.Equal(t, "evt-1", evt.ID)
	assert.Equal(t, []string{"evt-1"}, pub.ids)
	assert.Equal(t, "send.email", evt.Name)
	assert.Zero(t, p.Calls())
}

func TestEmitPublishFailure(t *testing.T) {
	r, _ := newServer(t, &fakePublisher{err: errors.New("broker gone")})
	code, _ := do(t, r, http.MethodPost, "/api/events", `{"name":"send.email"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
}
