package inmem

import (
	"fmt"
	"testing"
	"time"

	"github.com/Rafsilva0/demo-automation/config"
	"github.com/Rafsilva0/demo-automation/model"
	"github.com/Rafsilva0/demo-automation/persistence"
	"github.com/stretchr/testify/require"
)

func newStore() *inmemJobStore {
	return NewJobStore(config.InmemStorageConfig{RetentionMinutes: 60})
}

func TestJobStore(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"save then get": func(t *testing.T) {
			store := newStore()
			job := model.NewJobStatus("job-1", "Acme")
			require.NoError(t, store.Save(job))
			got, err := store.Get("job-1")
			require.NoError(t, err)
			require.Equal(t, "Acme", got.CompanyName)
			require.Equal(t, model.JOB_STATE_PENDING, got.State)
		},
		"get returns a copy": func(t *testing.T) {
			store := newStore()
			job := model.NewJobStatus("job-1", "Acme")
			require.NoError(t, store.Save(job))
			first, err := store.Get("job-1")
			require.NoError(t, err)
			first.CompanyName = "mutated"
			second, err := store.Get("job-1")
			require.NoError(t, err)
			require.Equal(t, "Acme", second.CompanyName)
		},
		"missing job": func(t *testing.T) {
			store := newStore()
			_, err := store.Get("nope")
			require.ErrorIs(t, err, persistence.JobNotFoundError{JobId: "nope"})
		},
		"save updates existing job": func(t *testing.T) {
			store := newStore()
			job := model.NewJobStatus("job-1", "Acme")
			require.NoError(t, store.Save(job))
			job.Advance(3, "obtaining api credential")
			require.NoError(t, store.Save(job))
			got, err := store.Get("job-1")
			require.NoError(t, err)
			require.Equal(t, model.JOB_STATE_RUNNING, got.State)
			require.Equal(t, 3, got.CurrentPhase)
			require.Equal(t, []int{1, 2}, got.CompletedPhases)
		},
		"list is newest first with limit": func(t *testing.T) {
			store := newStore()
			for i := 0; i < 5; i++ {
				job := model.NewJobStatus(fmt.Sprintf("job-%d", i), "Acme")
				job.CreatedAt = time.Now().Add(time.Duration(i) * time.Minute)
				require.NoError(t, store.Save(job))
			}
			jobs, err := store.List(3)
			require.NoError(t, err)
			require.Len(t, jobs, 3)
			require.Equal(t, "job-4", jobs[0].JobId)
			require.Equal(t, "job-2", jobs[2].JobId)
		},
		"delete removes the job": func(t *testing.T) {
			store := newStore()
			require.NoError(t, store.Save(model.NewJobStatus("job-1", "Acme")))
			require.NoError(t, store.Delete("job-1"))
			_, err := store.Get("job-1")
			require.ErrorIs(t, err, persistence.JobNotFoundError{JobId: "job-1"})
		},
		"delete missing job": func(t *testing.T) {
			store := newStore()
			err := store.Delete("job-1")
			require.ErrorIs(t, err, persistence.JobNotFoundError{JobId: "job-1"})
		},
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t)
		})
	}
}
