package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJobStatusAdvance(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, status *JobStatus){
		"completed phases are contiguous prefix": testAdvancePrefix,
		"phase never decreases":                  testAdvanceMonotonic,
		"terminal complete covers all phases":    testComplete,
	} {
		t.Run(scenario, func(t *testing.T) {
			status := NewJobStatus("job-1", "Acme Corp")
			fn(t, status)
		})
	}
}

func testAdvancePrefix(t *testing.T, status *JobStatus) {
	status.Advance(1, "generating handle")
	require.Equal(t, 1, status.CurrentPhase)
	require.Empty(t, status.CompletedPhases)

	status.Advance(4, "building knowledge base")
	require.Equal(t, 4, status.CurrentPhase)
	require.Equal(t, []int{1, 2, 3}, status.CompletedPhases)
	require.Equal(t, JOB_STATE_RUNNING, status.State)
}

func testAdvanceMonotonic(t *testing.T, status *JobStatus) {
	status.Advance(5, "generating questions")
	status.Advance(3, "stale update")
	require.Equal(t, 5, status.CurrentPhase)
	require.Equal(t, []int{1, 2, 3, 4}, status.CompletedPhases)
	require.Equal(t, "stale update", status.Progress)
}

func testComplete(t *testing.T, status *JobStatus) {
	status.Advance(8, "finalizing")
	status.Complete(&ProvisionResult{Success: true})
	require.Equal(t, JOB_STATE_COMPLETED, status.State)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, status.CompletedPhases)
	require.True(t, status.Result.Success)
}
