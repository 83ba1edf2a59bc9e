package cron

import (
	"fmt"
	"time"

	"github.com/mentorlink/mentorlink-api/model"
)

const (
	// notificationRetention is how long read notifications are kept
	notificationRetention = 30 * 24 * time.Hour

	// pendingReminderAge is how long an application may sit pending before
	// its mentor gets a reminder
	pendingReminderAge = 3 * 24 * time.Hour
)

// RemindPendingApplications notifies mentors who have applications that have
// been sitting in pending for several days. Scheduling never mutates
// internship or application state; it only writes notifications.
func (m *CronManager) RemindPendingApplications() (int, error) {
	cutoff := time.Now().Add(-pendingReminderAge)

	type pendingRow struct {
		MentorID        uint
		InternshipID    uint
		InternshipTitle string
		PendingCount    int
	}

	var rows []pendingRow
	err := m.db.Model(&model.InternshipApplication{}).
		Select("micro_internships.mentor_id as mentor_id, micro_internships.id as internship_id, micro_internships.title as internship_title, COUNT(*) as pending_count").
		Joins("JOIN micro_internships ON micro_internships.id = internship_applications.internship_id").
		Where("internship_applications.status = ? AND internship_applications.applied_at < ?", model.ApplicationStatusPending, cutoff).
		Group("micro_internships.mentor_id, micro_internships.id, micro_internships.title").
		Scan(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("failed to find stale pending applications: %w", err)
	}

	notified := 0
	for _, row := range rows {
		notification := model.UserNotification{
			UserID:   row.MentorID,
			Type:     model.NotificationTypeWarning,
			Category: model.NotificationCategoryInternship,
			Title:    "Pending applications waiting",
			Message:  fmt.Sprintf("%q has %d pending application(s) awaiting review", row.InternshipTitle, row.PendingCount),
		}
		if err := m.db.Create(&notification).Error; err != nil {
			return notified, fmt.Errorf("failed to create reminder: %w", err)
		}
		notified++
	}
	return notified, nil
}

// CleanupNotifications hard-deletes read notifications older than the
// retention window
func (m *CronManager) CleanupNotifications() (int, error) {
	cutoff := time.Now().Add(-notificationRetention)

	result := m.db.Unscoped().
		Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&model.UserNotification{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old notifications: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}
