package services

import (
	"testing"

	"github.com/mentorlink/mentorlink-api/model"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func statusPtr(s model.ApplicationStatus) *model.ApplicationStatus { return &s }

func TestApplicationPatchFieldPartition(t *testing.T) {
	t.Run("submitted work is a student field", func(t *testing.T) {
		p := ApplicationPatch{SubmittedWork: strPtr("https://github.com/example/work")}
		assert.True(t, p.HasStudentFields())
		assert.False(t, p.HasMentorFields())
	})

	t.Run("status is a mentor field", func(t *testing.T) {
		p := ApplicationPatch{Status: statusPtr(model.ApplicationStatusAccepted)}
		assert.False(t, p.HasStudentFields())
		assert.True(t, p.HasMentorFields())
	})

	t.Run("feedback rating progress badge are mentor fields", func(t *testing.T) {
		patches := []ApplicationPatch{
			{Feedback: strPtr("solid work")},
			{MentorRating: intPtr(5)},
			{Progress: intPtr(50)},
			{BadgeAwarded: boolPtr(true)},
		}
		for _, p := range patches {
			assert.True(t, p.HasMentorFields())
			assert.False(t, p.HasStudentFields())
		}
	})

	t.Run("mixed patch touches both sides", func(t *testing.T) {
		p := ApplicationPatch{
			SubmittedWork: strPtr("work"),
			Status:        statusPtr(model.ApplicationStatusCompleted),
		}
		assert.True(t, p.HasStudentFields())
		assert.True(t, p.HasMentorFields())
	})

	t.Run("empty patch", func(t *testing.T) {
		var p ApplicationPatch
		assert.True(t, p.IsEmpty())
		assert.False(t, ApplicationPatch{Progress: intPtr(0)}.IsEmpty())
	})
}
