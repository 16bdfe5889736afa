package model

import (
	"time"
)

type JobState string

const JOB_STATE_PENDING JobState = "pending"
const JOB_STATE_RUNNING JobState = "running"
const JOB_STATE_COMPLETED JobState = "completed"
const JOB_STATE_FAILED JobState = "failed"

const TotalPhases = 8

// JobStatus tracks the progress of one provisioning run. The completed
// phase list is always the contiguous range 1..CurrentPhase-1 and
// CurrentPhase never moves backwards within a run.
type JobStatus struct {
	JobId           string           `json:"job_id"`
	CompanyName     string           `json:"company_name"`
	State           JobState         `json:"status"`
	Progress        string           `json:"progress,omitempty"`
	CurrentPhase    int              `json:"current_phase"`
	CompletedPhases []int            `json:"completed_phases"`
	Result          *ProvisionResult `json:"result,omitempty"`
	Error           string           `json:"error,omitempty"`
	Source          string           `json:"source,omitempty"`
	OpportunityId   string           `json:"opportunity_id,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func NewJobStatus(jobId string, companyName string) *JobStatus {
	now := time.Now()
	return &JobStatus{
		JobId:           jobId,
		CompanyName:     companyName,
		State:           JOB_STATE_PENDING,
		CompletedPhases: []int{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Advance records a progress update. A phase lower than the current one
// only refreshes the message.
func (s *JobStatus) Advance(phase int, message string) {
	if phase > s.CurrentPhase {
		s.CurrentPhase = phase
	}
	completed := make([]int, 0, s.CurrentPhase)
	for p := 1; p < s.CurrentPhase; p++ {
		completed = append(completed, p)
	}
	s.CompletedPhases = completed
	s.Progress = message
	s.State = JOB_STATE_RUNNING
	s.UpdatedAt = time.Now()
}

func (s *JobStatus) Complete(result *ProvisionResult) {
	s.CurrentPhase = TotalPhases
	completed := make([]int, 0, TotalPhases)
	for p := 1; p <= TotalPhases; p++ {
		completed = append(completed, p)
	}
	s.CompletedPhases = completed
	s.State = JOB_STATE_COMPLETED
	s.Progress = "provisioning completed"
	s.Result = result
	s.UpdatedAt = time.Now()
}

func (s *JobStatus) Fail(result *ProvisionResult, sanitizedError string) {
	s.State = JOB_STATE_FAILED
	s.Result = result
	s.Error = sanitizedError
	s.UpdatedAt = time.Now()
}
