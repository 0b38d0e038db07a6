package memory

import (
	"sync"

	"github.com/oksasatya/go-job-catalog/internal/domain/entity"
	"github.com/oksasatya/go-job-catalog/internal/domain/repository"
	"github.com/oksasatya/go-job-catalog/pkg/apperr"
)

type jobRegistry struct {
	mu    sync.RWMutex
	jobs  map[string]*entity.JobRecord
	order []string
}

// NewJobRegistry creates an empty registry. It is safe for concurrent use.
func NewJobRegistry() repository.JobRegistry {
	return &jobRegistry{jobs: make(map[string]*entity.JobRecord)}
}

func (r *jobRegistry) Register(job *entity.JobRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ID]; exists {
		return apperr.Config("job "+job.ID, apperr.ErrDuplicateJob)
	}
	r.jobs[job.ID] = job
	r.order = append(r.order, job.ID)
	return nil
}

func (r *jobRegistry) Get(id string) (*entity.JobRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	return j, ok
}

// List returns jobs in registration order.
func (r *jobRegistry) List() []*entity.JobRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.JobRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.jobs[id])
	}
	return out
}

func (r *jobRegistry) ByEvent(name string) []*entity.JobRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.JobRecord
	for _, id := range r.order {
		j := r.jobs[id]
		if j.Trigger.Kind == entity.TriggerEvent && j.Trigger.EventName == name {
			out = append(out, j)
		}
	}
	return out
}
