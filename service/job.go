package service

import (
	"context"
	"errors"

	"github.com/Rafsilva0/demo-automation/logger"
	"github.com/Rafsilva0/demo-automation/model"
	"github.com/Rafsilva0/demo-automation/persistence"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type provisioner interface {
	Execute(ctx context.Context, req model.ProvisionRequest, progress ProgressFunc) *model.ProvisionResult
}

// JobService tracks provisioning runs as jobs. Each accepted request
// runs in its own goroutine and reports progress through the store.
type JobService struct {
	store       persistence.JobStore
	provisioner provisioner
}

func NewJobService(store persistence.JobStore, provisioner provisioner) *JobService {
	return &JobService{store: store, provisioner: provisioner}
}

func validateRequest(req model.ProvisionRequest) error {
	if req.CompanyName == "" {
		return errors.New("company_name is required")
	}
	if req.DryRun {
		return nil
	}
	if req.ApiKey == "" && !req.AutoRetrieveKey {
		return errors.New("either api_key or auto_retrieve_key must be set")
	}
	return nil
}

// StartJob validates the request, registers a pending job and kicks off
// the workflow in the background.
func (s *JobService) StartJob(req model.ProvisionRequest, source string, opportunityId string) (string, error) {
	if err := validateRequest(req); err != nil {
		return "", err
	}
	jobId := uuid.NewString()
	job := model.NewJobStatus(jobId, req.CompanyName)
	job.Source = source
	job.OpportunityId = opportunityId
	if err := s.store.Save(job); err != nil {
		return "", err
	}
	logger.Info("job accepted",
		zap.String("jobId", jobId),
		zap.String("company", req.CompanyName),
		zap.String("source", source))
	go s.run(jobId, req)
	return jobId, nil
}

func (s *JobService) run(jobId string, req model.ProvisionRequest) {
	ctx := context.Background()
	progress := func(phase int, message string) {
		job, err := s.store.Get(jobId)
		if err != nil {
			logger.Warn("progress update for unknown job", zap.String("jobId", jobId))
			return
		}
		job.Advance(phase, message)
		if err := s.store.Save(job); err != nil {
			logger.Warn("progress save failed", zap.String("jobId", jobId), zap.Error(err))
		}
	}
	result := s.provisioner.Execute(ctx, req, progress)
	job, err := s.store.Get(jobId)
	if err != nil {
		logger.Error("job vanished before completion", zap.String("jobId", jobId))
		return
	}
	if result.Success {
		job.Complete(result)
	} else {
		job.Fail(result, result.Error)
	}
	if err := s.store.Save(job); err != nil {
		logger.Error("final job save failed", zap.String("jobId", jobId), zap.Error(err))
	}
}

func (s *JobService) GetJob(jobId string) (*model.JobStatus, error) {
	return s.store.Get(jobId)
}

func (s *JobService) ListJobs(limit int) ([]*model.JobStatus, error) {
	return s.store.List(limit)
}

func (s *JobService) DeleteJob(jobId string) error {
	return s.store.Delete(jobId)
}
