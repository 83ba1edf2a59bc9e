package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mentorlink/mentorlink-api/model"
	"gorm.io/gorm"
)

// BadgeService issues and lists achievement badges. Badges are append-only;
// idempotency is enforced by the unique (student, internship, badge_type)
// index, never by read-then-write.
type BadgeService struct {
	db *gorm.DB
}

// NewBadgeService creates a new badge service
func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{db: db}
}

// IssueBadgeRequest describes a badge to issue
type IssueBadgeRequest struct {
	StudentID    uint
	InternshipID uint
	BadgeType    model.BadgeType
	Title        string
	Description  string
}

// Issue creates a badge on behalf of the internship's owning mentor.
// Issuing twice for the same (student, internship, type) fails with
// ErrBadgeAlreadyIssued instead of creating a duplicate.
func (s *BadgeService) Issue(ctx context.Context, actor Actor, req IssueBadgeRequest) (*model.Badge, error) {
	if !model.ValidBadgeType(req.BadgeType) {
		return nil, fmt.Errorf("%w: unknown badge type %q", ErrValidation, req.BadgeType)
	}
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	var internship model.MicroInternship
	if err := s.db.WithContext(ctx).First(&internship, req.InternshipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load internship: %w", err)
	}
	if actor.Role != model.RoleMentor || actor.ID != internship.MentorID {
		return nil, ErrForbidden
	}

	var student model.User
	if err := s.db.WithContext(ctx).
		Where("id = ? AND role = ?", req.StudentID, model.RoleStudent).
		First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	return s.issueTx(s.db.WithContext(ctx), model.Badge{
		StudentID:    req.StudentID,
		InternshipID: req.InternshipID,
		BadgeType:    req.BadgeType,
		Title:        req.Title,
		Description:  req.Description,
	})
}

// issueTx inserts a badge using the given transaction handle. The composite
// unique index turns duplicate issuance into ErrBadgeAlreadyIssued.
func (s *BadgeService) issueTx(tx *gorm.DB, badge model.Badge) (*model.Badge, error) {
	if err := tx.Create(&badge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrBadgeAlreadyIssued
		}
		return nil, fmt.Errorf("failed to create badge: %w", err)
	}
	return &badge, nil
}

// BadgeView is the read-side badge shape, joined with its internship
type BadgeView struct {
	ID           uint            `json:"id"`
	BadgeType    model.BadgeType `json:"badge_type"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	EarnedAt     time.Time       `json:"earned_at"`
	InternshipID uint            `json:"internship_id"`
	Internship   string          `json:"internship_title"`
}

// ListByStudent returns a student's badges, newest first
func (s *BadgeService) ListByStudent(ctx context.Context, studentID uint) ([]BadgeView, error) {
	var badges []model.Badge
	if err := s.db.WithContext(ctx).
		Preload("Internship").
		Where("student_id = ?", studentID).
		Order("earned_at DESC").
		Find(&badges).Error; err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}

	views := make([]BadgeView, 0, len(badges))
	for _, b := range badges {
		views = append(views, BadgeView{
			ID:           b.ID,
			BadgeType:    b.BadgeType,
			Title:        b.Title,
			Description:  b.Description,
			EarnedAt:     b.EarnedAt,
			InternshipID: b.InternshipID,
			Internship:   b.Internship.Title,
		})
	}
	return views, nil
}
