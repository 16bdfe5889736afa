package inmem

import (
	"sort"
	"time"

	"github.com/Rafsilva0/demo-automation/config"
	"github.com/Rafsilva0/demo-automation/model"
	"github.com/Rafsilva0/demo-automation/persistence"
	"github.com/patrickmn/go-cache"
)

var _ persistence.JobStore = new(inmemJobStore)

// inmemJobStore keeps job state in process with a retention window, the
// default for single node deployments. Values are stored and returned by
// copy so callers never share a job with a running workflow goroutine.
type inmemJobStore struct {
	jobs *cache.Cache
}

func NewJobStore(conf config.InmemStorageConfig) *inmemJobStore {
	retention := time.Duration(conf.RetentionMinutes) * time.Minute
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &inmemJobStore{
		jobs: cache.New(retention, 10*time.Minute),
	}
}

func (s *inmemJobStore) Save(job *model.JobStatus) error {
	s.jobs.Set(job.JobId, *job, cache.DefaultExpiration)
	return nil
}

func (s *inmemJobStore) Get(jobId string) (*model.JobStatus, error) {
	value, found := s.jobs.Get(jobId)
	if !found {
		return nil, persistence.JobNotFoundError{JobId: jobId}
	}
	job := value.(model.JobStatus)
	return &job, nil
}

func (s *inmemJobStore) List(limit int) ([]*model.JobStatus, error) {
	if limit <= 0 {
		limit = 100
	}
	items := s.jobs.Items()
	jobs := make([]*model.JobStatus, 0, len(items))
	for _, item := range items {
		job := item.Object.(model.JobStatus)
		jobs = append(jobs, &job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	if len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

func (s *inmemJobStore) Delete(jobId string) error {
	if _, found := s.jobs.Get(jobId); !found {
		return persistence.JobNotFoundError{JobId: jobId}
	}
	s.jobs.Delete(jobId)
	return nil
}
