package tasks

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestTaskStatusClassification(t *testing.T) {
	cases := []struct {
		status    TaskStatus
		complete  bool
		submitted bool
	}{
		{TaskStatusProcessing, false, true},
		{TaskStatusSubmitted, false, true},
		{TaskStatusStarted, false, true},
		{TaskStatusFailed, false, false},
		{TaskStatusCompletedSuccess, true, false},
		{TaskStatusCompletedFailure, true, false},
		{TaskStatusCanceled, true, false},
		{TaskStatus(""), false, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.complete, tc.status.Complete(), "Complete() for %q", tc.status)
		require.Equal(t, tc.submitted, tc.status.Submitted(), "Submitted() for %q", tc.status)
	}
}
