package repository

import "github.com/oksasatya/go-job-catalog/internal/domain/entity"

// JobRegistry holds the job records of one client. Register fails on a
// duplicate id; lookups never mutate.
type JobRegistry interface {
	Register(job *entity.JobRecord) error
	Get(id string) (*entity.JobRecord, bool)
	List() []*entity.JobRecord
	ByEvent(name string) []*entity.JobRecord
}
