package cron

import (
	"log"
	"time"

	"github.com/mentorlink/mentorlink-api/model"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron *cron.Cron
	db   *gorm.DB
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron: c,
		db:   db,
	}
}

// Start registers and starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// 1. Daily at 09:00: remind mentors of stale pending applications
	_, err := m.cron.AddFunc("0 0 9 * * *", func() {
		m.runJob("remind_pending_applications", m.RemindPendingApplications)
	})
	if err != nil {
		return err
	}

	// 2. Hourly: delete read notifications older than the retention window
	_, err = m.cron.AddFunc("0 0 * * * *", func() {
		m.runJob("cleanup_notifications", m.CleanupNotifications)
	})
	if err != nil {
		return err
	}

	return nil
}

// runJob executes a job and records the run in cron_job_logs
func (m *CronManager) runJob(name string, job func() (int, error)) {
	entry := model.CronJobLog{
		JobName:   name,
		Status:    model.CronJobStatusRunning,
		StartedAt: time.Now(),
	}
	if err := m.db.Create(&entry).Error; err != nil {
		log.Printf("cron: failed to log start of %s: %v", name, err)
	}

	affected, err := job()

	now := time.Now()
	entry.FinishedAt = &now
	entry.ItemsAffected = affected
	if err != nil {
		entry.Status = model.CronJobStatusFailed
		entry.Error = err.Error()
		log.Printf("cron: job %s failed: %v", name, err)
	} else {
		entry.Status = model.CronJobStatusCompleted
		log.Printf("cron: job %s completed, %d items affected", name, affected)
	}

	if entry.ID != 0 {
		if err := m.db.Save(&entry).Error; err != nil {
			log.Printf("cron: failed to log completion of %s: %v", name, err)
		}
	}
}
