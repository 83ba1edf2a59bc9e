package model

import (
	"time"
)

// BadgeType categorizes an achievement
type BadgeType string

const (
	BadgeTypeCompletion   BadgeType = "Completion"
	BadgeTypeExcellence   BadgeType = "Excellence"
	BadgeTypeQuickLearner BadgeType = "Quick Learner"
	BadgeTypeTeamPlayer   BadgeType = "Team Player"
)

// Badge is an immutable achievement record. At most one badge exists per
// (student, internship, badge_type); the composite unique index makes
// duplicate issuance fail at the storage layer rather than by read-then-write.
type Badge struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	StudentID    uint      `gorm:"not null;uniqueIndex:idx_student_internship_type" json:"student_id"`
	InternshipID uint      `gorm:"not null;uniqueIndex:idx_student_internship_type" json:"internship_id"`
	BadgeType    BadgeType `gorm:"type:varchar(30);not null;uniqueIndex:idx_student_internship_type" json:"badge_type"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	EarnedAt     time.Time `gorm:"autoCreateTime" json:"earned_at"`

	// Relationships
	Student    User            `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Internship MicroInternship `gorm:"foreignKey:InternshipID" json:"internship,omitempty"`
}

// ValidBadgeType reports whether t is a known badge type
func ValidBadgeType(t BadgeType) bool {
	switch t {
	case BadgeTypeCompletion, BadgeTypeExcellence, BadgeTypeQuickLearner, BadgeTypeTeamPlayer:
		return true
	}
	return false
}
