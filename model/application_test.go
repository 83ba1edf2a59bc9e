package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		name    string
		from    ApplicationStatus
		to      ApplicationStatus
		allowed bool
	}{
		{"pending to accepted", ApplicationStatusPending, ApplicationStatusAccepted, true},
		{"pending to rejected", ApplicationStatusPending, ApplicationStatusRejected, true},
		{"pending to completed skips review", ApplicationStatusPending, ApplicationStatusCompleted, false},
		{"accepted to completed", ApplicationStatusAccepted, ApplicationStatusCompleted, true},
		{"accepted back to pending", ApplicationStatusAccepted, ApplicationStatusPending, false},
		{"accepted to rejected", ApplicationStatusAccepted, ApplicationStatusRejected, false},
		{"rejected is terminal", ApplicationStatusRejected, ApplicationStatusAccepted, false},
		{"completed is terminal", ApplicationStatusCompleted, ApplicationStatusAccepted, false},
		{"same status is idempotent", ApplicationStatusAccepted, ApplicationStatusAccepted, true},
		{"terminal same status is idempotent", ApplicationStatusRejected, ApplicationStatusRejected, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, ApplicationStatusPending.IsTerminal())
	assert.False(t, ApplicationStatusAccepted.IsTerminal())
	assert.True(t, ApplicationStatusRejected.IsTerminal())
	assert.True(t, ApplicationStatusCompleted.IsTerminal())
}

func TestCountsTowardCapacity(t *testing.T) {
	assert.True(t, ApplicationStatusPending.CountsTowardCapacity())
	assert.True(t, ApplicationStatusAccepted.CountsTowardCapacity())
	assert.False(t, ApplicationStatusRejected.CountsTowardCapacity())
	assert.False(t, ApplicationStatusCompleted.CountsTowardCapacity())
}

func TestValidApplicationStatus(t *testing.T) {
	for _, s := range []ApplicationStatus{
		ApplicationStatusPending, ApplicationStatusAccepted,
		ApplicationStatusRejected, ApplicationStatusCompleted,
	} {
		assert.True(t, ValidApplicationStatus(s))
	}
	assert.False(t, ValidApplicationStatus("archived"))
	assert.False(t, ValidApplicationStatus(""))
}
