package model

import (
	"time"
)

// ApplicationStatus represents the state of a student's application.
//
// Transitions: pending -> accepted | rejected, accepted -> completed.
// rejected and completed are terminal. Records are never deleted.
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusCompleted ApplicationStatus = "completed"
)

// InternshipApplication is one student's bid for one micro-internship.
// The (internship_id, student_id) pair is unique at the storage layer so
// concurrent duplicate applies resolve to exactly one record.
type InternshipApplication struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	InternshipID  uint              `gorm:"not null;uniqueIndex:idx_internship_student" json:"internship_id"`
	StudentID     uint              `gorm:"not null;uniqueIndex:idx_internship_student" json:"student_id"`
	Status        ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	SubmittedWork string            `gorm:"type:text" json:"submitted_work"`
	SubmittedAt   *time.Time        `json:"submitted_at,omitempty"`
	Feedback      string            `gorm:"type:text" json:"feedback"`
	MentorRating  *int              `json:"mentor_rating,omitempty"` // 1-5
	Progress      int               `gorm:"not null;default:0" json:"progress"` // 0-100, monotonic
	BadgeAwarded  bool              `gorm:"not null;default:false" json:"badge_awarded"`
	AppliedAt     time.Time         `gorm:"autoCreateTime" json:"applied_at"`

	// Relationships
	Internship MicroInternship `gorm:"foreignKey:InternshipID" json:"internship,omitempty"`
	Student    User            `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

// ValidApplicationStatus reports whether s is a known application state
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted,
		ApplicationStatusRejected, ApplicationStatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no further status transitions are allowed
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusRejected || s == ApplicationStatusCompleted
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Setting the same status again is treated as allowed (idempotent write).
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case ApplicationStatusPending:
		return next == ApplicationStatusAccepted || next == ApplicationStatusRejected
	case ApplicationStatusAccepted:
		return next == ApplicationStatusCompleted
	}
	return false
}

// CountsTowardCapacity reports whether an application in this state occupies
// one of the internship's participant slots
func (s ApplicationStatus) CountsTowardCapacity() bool {
	return s == ApplicationStatusPending || s == ApplicationStatusAccepted
}

// ActiveApplicationStatuses are the states counted against max_participants
var ActiveApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusAccepted,
}
