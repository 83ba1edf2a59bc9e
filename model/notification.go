package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType represents the type/severity of notification
type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
)

// NotificationCategory represents the category of notification
type NotificationCategory string

const (
	NotificationCategoryApplication NotificationCategory = "application"
	NotificationCategoryBadge       NotificationCategory = "badge"
	NotificationCategoryInternship  NotificationCategory = "internship"
	NotificationCategoryGeneral     NotificationCategory = "general"
)

// UserNotification represents a notification for a user. Delivery is
// best-effort: writing one never fails the operation that triggered it.
type UserNotification struct {
	ID            uint                 `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	DeletedAt     gorm.DeletedAt       `gorm:"index" json:"-"`
	UserID        uint                 `gorm:"index;not null" json:"user_id"`
	Type          NotificationType     `gorm:"type:varchar(20);not null" json:"type"`
	Category      NotificationCategory `gorm:"type:varchar(30);not null" json:"category"`
	Title         string               `gorm:"type:varchar(255);not null" json:"title"`
	Message       string               `gorm:"type:text" json:"message"`
	Read          bool                 `gorm:"default:false" json:"read"`
	ApplicationID *uint                `gorm:"index" json:"application_id,omitempty"`
	Metadata      datatypes.JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`

	// Relationships
	User        User                   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Application *InternshipApplication `gorm:"foreignKey:ApplicationID;constraint:OnDelete:SET NULL" json:"-"`
}

// NotificationMetadata carries structured context for a notification
type NotificationMetadata struct {
	InternshipID    uint   `json:"internship_id,omitempty"`
	InternshipTitle string `json:"internship_title,omitempty"`
	BadgeID         uint   `json:"badge_id,omitempty"`
	BadgeType       string `json:"badge_type,omitempty"`
	Status          string `json:"status,omitempty"`
	PendingCount    int    `json:"pending_count,omitempty"`
}
