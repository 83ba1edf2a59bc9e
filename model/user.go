package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent = "student"
	RoleMentor  = "mentor"
)

// User represents a registered user in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Name         string         `gorm:"not null" json:"name"`
	Role         string         `gorm:"type:varchar(20);not null;default:'student'" json:"role"` // student, mentor
	Avatar       string         `gorm:"type:varchar(512)" json:"avatar"`
	Bio          string         `gorm:"type:text" json:"bio"`
	Experience   string         `gorm:"type:text" json:"experience"`
	Skills       pq.StringArray `gorm:"type:text[]" json:"skills"`
	Interests    pq.StringArray `gorm:"type:text[]" json:"interests"`
	TokenVersion int            `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// A student is linked to at most one mentor. The mentor's mentee list is
	// the inverse of this column, queried, never stored.
	LinkedMentorID *uint `gorm:"index" json:"linked_mentor_id,omitempty"`
	LinkedMentor   *User `gorm:"foreignKey:LinkedMentorID" json:"linked_mentor,omitempty"`

	// Relationships
	Internships   []MicroInternship       `gorm:"foreignKey:MentorID" json:"-"`
	Applications  []InternshipApplication `gorm:"foreignKey:StudentID" json:"-"`
	Badges        []Badge                 `gorm:"foreignKey:StudentID" json:"-"`
	Notifications []UserNotification      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsMentor reports whether the user holds the mentor role
func (u *User) IsMentor() bool {
	return u.Role == RoleMentor
}

// IsStudent reports whether the user holds the student role
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// PublicProfile is the user shape exposed to other users (mentor directory,
// application listings)
type PublicProfile struct {
	ID     uint           `json:"id"`
	Name   string         `json:"name"`
	Email  string         `json:"email"`
	Role   string         `json:"role"`
	Avatar string         `json:"avatar"`
	Bio    string         `json:"bio"`
	Skills pq.StringArray `json:"skills"`
}

// ToPublicProfile strips private fields from a user record
func (u *User) ToPublicProfile() PublicProfile {
	return PublicProfile{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Avatar: u.Avatar,
		Bio:    u.Bio,
		Skills: u.Skills,
	}
}
