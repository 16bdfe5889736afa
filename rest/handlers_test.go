package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rafsilva0/demo-automation/config"
	"github.com/Rafsilva0/demo-automation/model"
	"github.com/Rafsilva0/demo-automation/persistence"
	"github.com/Rafsilva0/demo-automation/persistence/inmem"
	"github.com/Rafsilva0/demo-automation/service"
	"github.com/stretchr/testify/require"
)

type fakeProvisioner struct {
	result *model.ProvisionResult
}

func (f *fakeProvisioner) Execute(ctx context.Context, req model.ProvisionRequest, progress service.ProgressFunc) *model.ProvisionResult {
	if progress != nil {
		progress(1, "deriving bot handle")
	}
	result := f.result
	if result == nil {
		result = &model.ProvisionResult{Success: true, CompanyName: req.CompanyName}
	}
	return result
}

// brokenJobStore fails every write the way the redis store does when the
// backend is unreachable.
type brokenJobStore struct{}

func (brokenJobStore) Save(job *model.JobStatus) error {
	return persistence.StorageLayerError{Message: "connection refused"}
}

func (brokenJobStore) Get(jobId string) (*model.JobStatus, error) {
	return nil, persistence.JobNotFoundError{JobId: jobId}
}

func (brokenJobStore) List(limit int) ([]*model.JobStatus, error) {
	return nil, persistence.StorageLayerError{Message: "connection refused"}
}

func (brokenJobStore) Delete(jobId string) error {
	return persistence.StorageLayerError{Message: "connection refused"}
}

type testServer struct {
	server      *Server
	provisioner *fakeProvisioner
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := inmem.NewJobStore(config.InmemStorageConfig{RetentionMinutes: 60})
	provisioner := &fakeProvisioner{}
	server, err := NewServer(0, service.NewJobService(store, provisioner))
	require.NoError(t, err)
	return &testServer{server: server, provisioner: provisioner}
}

func (ts *testServer) do(method string, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	recorder := httptest.NewRecorder()
	ts.server.Handler.ServeHTTP(recorder, req)
	return recorder
}

// waitForJob blocks until the background run has written its terminal
// state, not just until Execute returned.
func (ts *testServer) waitForJob(t *testing.T, id string) model.JobStatus {
	t.Helper()
	var job model.JobStatus
	require.Eventually(t, func() bool {
		recorder := ts.do(http.MethodGet, "/api/jobs/"+id, nil)
		if recorder.Code != http.StatusOK {
			return false
		}
		if err := json.Unmarshal(recorder.Body.Bytes(), &job); err != nil {
			return false
		}
		return job.State == model.JOB_STATE_COMPLETED || job.State == model.JOB_STATE_FAILED
	}, 5*time.Second, 10*time.Millisecond, "job never reached a terminal state")
	return job
}

func jobId(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var accepted map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &accepted))
	require.NotEmpty(t, accepted["jobId"])
	return accepted["jobId"]
}

func TestHandlers(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"provision accepts and completes a job": func(t *testing.T) {
			ts := newTestServer(t)
			recorder := ts.do(http.MethodPost, "/api/provision", model.ProvisionRequest{
				CompanyName: "Acme",
				ApiKey:      "key",
			})
			require.Equal(t, http.StatusAccepted, recorder.Code)
			job := ts.waitForJob(t, jobId(t, recorder))
			require.Equal(t, model.JOB_STATE_COMPLETED, job.State)
			require.Equal(t, model.TotalPhases, job.CurrentPhase)
			require.NotNil(t, job.Result)
		},
		"provision answers 500 when the store is down": func(t *testing.T) {
			server, err := NewServer(0, service.NewJobService(brokenJobStore{}, &fakeProvisioner{}))
			require.NoError(t, err)
			ts := &testServer{server: server}
			recorder := ts.do(http.MethodPost, "/api/provision", model.ProvisionRequest{
				CompanyName: "Acme",
				ApiKey:      "key",
			})
			require.Equal(t, http.StatusInternalServerError, recorder.Code)
			require.Contains(t, recorder.Body.String(), "storage layer error")
		},
		"provision rejects missing company name": func(t *testing.T) {
			ts := newTestServer(t)
			recorder := ts.do(http.MethodPost, "/api/provision", model.ProvisionRequest{ApiKey: "key"})
			require.Equal(t, http.StatusBadRequest, recorder.Code)
			require.Contains(t, recorder.Body.String(), "company_name")
		},
		"provision rejects missing credential configuration": func(t *testing.T) {
			ts := newTestServer(t)
			recorder := ts.do(http.MethodPost, "/api/provision", model.ProvisionRequest{CompanyName: "Acme"})
			require.Equal(t, http.StatusBadRequest, recorder.Code)
			require.Contains(t, recorder.Body.String(), "auto_retrieve_key")
		},
		"provision rejects malformed body": func(t *testing.T) {
			ts := newTestServer(t)
			req := httptest.NewRequest(http.MethodPost, "/api/provision", bytes.NewBufferString("{"))
			recorder := httptest.NewRecorder()
			ts.server.Handler.ServeHTTP(recorder, req)
			require.Equal(t, http.StatusBadRequest, recorder.Code)
		},
		"failed run is recorded on the job": func(t *testing.T) {
			ts := newTestServer(t)
			ts.provisioner.result = &model.ProvisionResult{Success: false, Error: "clone rejected: status code 403"}
			recorder := ts.do(http.MethodPost, "/api/provision", model.ProvisionRequest{
				CompanyName: "Acme",
				ApiKey:      "key",
			})
			job := ts.waitForJob(t, jobId(t, recorder))
			require.Equal(t, model.JOB_STATE_FAILED, job.State)
			require.Contains(t, job.Error, "status code 403")
		},
		"get unknown job returns 404": func(t *testing.T) {
			ts := newTestServer(t)
			recorder := ts.do(http.MethodGet, "/api/jobs/nope", nil)
			require.Equal(t, http.StatusNotFound, recorder.Code)
		},
		"list jobs": func(t *testing.T) {
			ts := newTestServer(t)
			recorder := ts.do(http.MethodPost, "/api/provision", model.ProvisionRequest{
				CompanyName: "Acme",
				ApiKey:      "key",
			})
			require.Equal(t, http.StatusAccepted, recorder.Code)
			ts.waitForJob(t, jobId(t, recorder))

			recorder = ts.do(http.MethodGet, "/api/jobs?limit=10", nil)
			require.Equal(t, http.StatusOK, recorder.Code)
			var jobs []model.JobStatus
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &jobs))
			require.Len(t, jobs, 1)
		},
		"delete job": func(t *testing.T) {
			ts := newTestServer(t)
			recorder := ts.do(http.MethodPost, "/api/provision", model.ProvisionRequest{
				CompanyName: "Acme",
				ApiKey:      "key",
			})
			id := jobId(t, recorder)
			ts.waitForJob(t, id)

			require.Equal(t, http.StatusOK, ts.do(http.MethodDelete, "/api/jobs/"+id, nil).Code)
			require.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/api/jobs/"+id, nil).Code)
		},
		"crm webhook at trigger stage starts a job": func(t *testing.T) {
			ts := newTestServer(t)
			recorder := ts.do(http.MethodPost, "/api/webhook/crm", model.CrmWebhook{
				OpportunityId: "opp-1",
				AccountName:   "Acme",
				Stage:         "Stage 0",
			})
			require.Equal(t, http.StatusAccepted, recorder.Code)
			job := ts.waitForJob(t, jobId(t, recorder))
			require.Equal(t, "crm", job.Source)
			require.Equal(t, "opp-1", job.OpportunityId)
		},
		"crm webhook at other stages is ignored": func(t *testing.T) {
			ts := newTestServer(t)
			recorder := ts.do(http.MethodPost, "/api/webhook/crm", model.CrmWebhook{
				OpportunityId: "opp-1",
				AccountName:   "Acme",
				Stage:         "Closed Won",
			})
			require.Equal(t, http.StatusOK, recorder.Code)
			require.Contains(t, recorder.Body.String(), "ignored")
		},
		"health": func(t *testing.T) {
			ts := newTestServer(t)
			require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/health", nil).Code)
		},
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t)
		})
	}
}
