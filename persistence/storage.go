package persistence

import (
	"fmt"

	"github.com/Rafsilva0/demo-automation/model"
)

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

type JobNotFoundError struct {
	JobId string
}

func (e JobNotFoundError) Error() string {
	return fmt.Sprintf("job %s not found", e.JobId)
}

// JobStore persists provisioning job state. Implementations must return
// copies so a job running in the background never races with readers.
type JobStore interface {
	Save(job *model.JobStatus) error
	Get(jobId string) (*model.JobStatus, error)
	List(limit int) ([]*model.JobStatus, error)
	Delete(jobId string) error
}
