package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mentorlink/mentorlink-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService handles user notifications. All Notify* helpers are
// best-effort: failures are logged and never propagated to the operation
// that triggered them.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// CreateNotificationRequest represents a request to create a notification
type CreateNotificationRequest struct {
	UserID        uint
	Type          model.NotificationType
	Category      model.NotificationCategory
	Title         string
	Message       string
	ApplicationID *uint
	Metadata      *model.NotificationMetadata
}

// Create stores a new notification for a user
func (s *NotificationService) Create(ctx context.Context, req CreateNotificationRequest) (*model.UserNotification, error) {
	notification := &model.UserNotification{
		UserID:        req.UserID,
		Type:          req.Type,
		Category:      req.Category,
		Title:         req.Title,
		Message:       req.Message,
		ApplicationID: req.ApplicationID,
	}

	if req.Metadata != nil {
		metadataJSON, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		notification.Metadata = datatypes.JSON(metadataJSON)
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

// NotifyNewApplication tells the internship's mentor a student applied
func (s *NotificationService) NotifyNewApplication(ctx context.Context, internship *model.MicroInternship, app *model.InternshipApplication) {
	_, err := s.Create(ctx, CreateNotificationRequest{
		UserID:        internship.MentorID,
		Type:          model.NotificationTypeInfo,
		Category:      model.NotificationCategoryApplication,
		Title:         "New application",
		Message:       fmt.Sprintf("A student applied to %q", internship.Title),
		ApplicationID: &app.ID,
		Metadata: &model.NotificationMetadata{
			InternshipID:    internship.ID,
			InternshipTitle: internship.Title,
			Status:          string(app.Status),
		},
	})
	if err != nil {
		log.Printf("notify new application: %v", err)
	}
}

// NotifyApplicationDecision tells the student their application changed state
func (s *NotificationService) NotifyApplicationDecision(ctx context.Context, internship *model.MicroInternship, app *model.InternshipApplication) {
	notificationType := model.NotificationTypeInfo
	if app.Status == model.ApplicationStatusAccepted || app.Status == model.ApplicationStatusCompleted {
		notificationType = model.NotificationTypeSuccess
	}

	_, err := s.Create(ctx, CreateNotificationRequest{
		UserID:        app.StudentID,
		Type:          notificationType,
		Category:      model.NotificationCategoryApplication,
		Title:         "Application update",
		Message:       fmt.Sprintf("Your application to %q is now %s", internship.Title, app.Status),
		ApplicationID: &app.ID,
		Metadata: &model.NotificationMetadata{
			InternshipID:    internship.ID,
			InternshipTitle: internship.Title,
			Status:          string(app.Status),
		},
	})
	if err != nil {
		log.Printf("notify application decision: %v", err)
	}
}

// NotifyWorkSubmitted tells the mentor a student attached work
func (s *NotificationService) NotifyWorkSubmitted(ctx context.Context, internship *model.MicroInternship, app *model.InternshipApplication) {
	_, err := s.Create(ctx, CreateNotificationRequest{
		UserID:        internship.MentorID,
		Type:          model.NotificationTypeInfo,
		Category:      model.NotificationCategoryApplication,
		Title:         "Work submitted",
		Message:       fmt.Sprintf("Work was submitted for %q", internship.Title),
		ApplicationID: &app.ID,
		Metadata: &model.NotificationMetadata{
			InternshipID:    internship.ID,
			InternshipTitle: internship.Title,
			Status:          string(app.Status),
		},
	})
	if err != nil {
		log.Printf("notify work submitted: %v", err)
	}
}

// NotifyBadgeIssued tells the student they earned a badge
func (s *NotificationService) NotifyBadgeIssued(ctx context.Context, internship *model.MicroInternship, badge *model.Badge) {
	_, err := s.Create(ctx, CreateNotificationRequest{
		UserID:   badge.StudentID,
		Type:     model.NotificationTypeSuccess,
		Category: model.NotificationCategoryBadge,
		Title:    "Badge earned",
		Message:  fmt.Sprintf("You earned the %q badge for %q", badge.BadgeType, internship.Title),
		Metadata: &model.NotificationMetadata{
			InternshipID:    internship.ID,
			InternshipTitle: internship.Title,
			BadgeID:         badge.ID,
			BadgeType:       string(badge.BadgeType),
		},
	})
	if err != nil {
		log.Printf("notify badge issued: %v", err)
	}
}

// ListByUser retrieves a user's notifications, newest first
func (s *NotificationService) ListByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]model.UserNotification, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.UserNotification{}).
		Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var notifications []model.UserNotification
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	result := s.db.WithContext(ctx).Model(&model.UserNotification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
