package model

import (
	"time"
)

// CronJobStatus represents the outcome of a scheduled job run
type CronJobStatus string

const (
	CronJobStatusRunning   CronJobStatus = "running"
	CronJobStatusCompleted CronJobStatus = "completed"
	CronJobStatusFailed    CronJobStatus = "failed"
)

// CronJobLog records one execution of a scheduled job
type CronJobLog struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	JobName       string        `gorm:"type:varchar(100);not null;index" json:"job_name"`
	Status        CronJobStatus `gorm:"type:varchar(20);not null" json:"status"`
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    *time.Time    `json:"finished_at,omitempty"`
	ItemsAffected int           `gorm:"default:0" json:"items_affected"`
	Error         string        `gorm:"type:text" json:"error,omitempty"`
}
