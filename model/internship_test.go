package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcceptingApplications(t *testing.T) {
	m := MicroInternship{Status: InternshipStatusOpen}
	assert.True(t, m.AcceptingApplications())

	for _, status := range []InternshipStatus{
		InternshipStatusInProgress,
		InternshipStatusCompleted,
		InternshipStatusCancelled,
	} {
		m.Status = status
		assert.False(t, m.AcceptingApplications(), "status %s should not accept applications", status)
	}
}

func TestValidInternshipStatus(t *testing.T) {
	assert.True(t, ValidInternshipStatus(InternshipStatusOpen))
	assert.True(t, ValidInternshipStatus(InternshipStatusCancelled))
	assert.False(t, ValidInternshipStatus("paused"))
}

func TestValidBadgeType(t *testing.T) {
	assert.True(t, ValidBadgeType(BadgeTypeCompletion))
	assert.True(t, ValidBadgeType(BadgeTypeExcellence))
	assert.False(t, ValidBadgeType("Participation"))
}
