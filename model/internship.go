package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// InternshipStatus represents the lifecycle state of a micro-internship posting.
// It is set by the owning mentor and gates new applications; the authoritative
// per-student lifecycle lives on InternshipApplication.
type InternshipStatus string

const (
	InternshipStatusOpen       InternshipStatus = "open"
	InternshipStatusInProgress InternshipStatus = "in_progress"
	InternshipStatusCompleted  InternshipStatus = "completed"
	InternshipStatusCancelled  InternshipStatus = "cancelled"
)

// InternshipDifficulty represents the advertised difficulty of a posting
type InternshipDifficulty string

const (
	DifficultyBeginner     InternshipDifficulty = "Beginner"
	DifficultyIntermediate InternshipDifficulty = "Intermediate"
	DifficultyAdvanced     InternshipDifficulty = "Advanced"
)

// MicroInternship represents a short mentor-posted project students apply to
type MicroInternship struct {
	ID              uint                 `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	DeletedAt       gorm.DeletedAt       `gorm:"index" json:"-"`
	MentorID        uint                 `gorm:"not null;index" json:"mentor_id"` // immutable owner
	Title           string               `gorm:"not null" json:"title"`
	Description     string               `gorm:"type:text;not null" json:"description"`
	Duration        int                  `gorm:"not null" json:"duration"` // days, 1-5
	Difficulty      InternshipDifficulty `gorm:"type:varchar(20);default:'Beginner'" json:"difficulty"`
	SkillsRequired  pq.StringArray       `gorm:"type:text[]" json:"skills_required"`
	MaxParticipants int                  `gorm:"not null;default:10" json:"max_participants"`
	Status          InternshipStatus     `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	Deadline        *time.Time           `json:"deadline,omitempty"`

	// Relationships
	Mentor       User                    `gorm:"foreignKey:MentorID" json:"mentor,omitempty"`
	Applications []InternshipApplication `gorm:"foreignKey:InternshipID" json:"-"`
}

// ValidInternshipStatus reports whether s is one of the known posting states
func ValidInternshipStatus(s InternshipStatus) bool {
	switch s {
	case InternshipStatusOpen, InternshipStatusInProgress,
		InternshipStatusCompleted, InternshipStatusCancelled:
		return true
	}
	return false
}

// AcceptingApplications reports whether new applications are allowed
func (m *MicroInternship) AcceptingApplications() bool {
	return m.Status == InternshipStatusOpen
}
