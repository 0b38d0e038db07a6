package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-job-catalog/internal/domain/entity"
	"github.com/oksasatya/go-job-catalog/pkg/apperr"
)

func TestRegisterAndGet(t *testing.T) {
	r := NewJobRegistry()
	job := &entity.JobRecord{ID: "a", Trigger: entity.TriggerSpec{Kind: entity.TriggerInvoke}}
	require.NoError(t, r.Register(job))

	got, ok := r.Get("a")
	require.True(t, ok)
	assert.Same(t, job, got)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewJobRegistry()
	require.NoError(t, r.Register(&entity.JobRecord{ID: "a"}))

	err := r.Register(&entity.JobRecord{ID: "a"})
	var cerr *apperr.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, apperr.ErrDuplicateJob)
	assert.Len(t, r.List(), 1)
}

func TestListOrderAndByEvent(t *testing.T) {
	r := NewJobRegistry()
	require.NoError(t, r.Register(&entity.JobRecord{ID: "c", Trigger: entity.TriggerSpec{Kind: entity.TriggerEvent, EventName: "send.email"}}))
	require.NoError(t, r.Register(&entity.JobRecord{ID: "a", Trigger: entity.TriggerSpec{Kind: entity.TriggerInvoke}}))
	require.NoError(t, r.Register(&entity.JobRecord{ID: "b", Trigger: entity.TriggerSpec{Kind: entity.TriggerEvent, EventName: "other"}}))

	var ids []string
	for _, j := range r.List() {
		ids = append(ids, j.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	matched := r.ByEvent("send.email")
	require.Len(t, matched, 1)
	assert.Equal(t, "c", matched[0].ID)
	assert.Empty(t, r.ByEvent("nobody.listens"))
}
