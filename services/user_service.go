package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mentorlink/mentorlink-api/model"
	"gorm.io/gorm"
)

// UserService handles mentor/mentee relationship management. A student has
// at most one linked mentor; the mentor's mentee list is the inverse query,
// so the two sides can never drift apart.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// LinkMentee links a student to the acting mentor. The link is a single
// conditional update: it only lands if the student exists, holds the student
// role and has no mentor yet, which closes the read-then-write race window.
func (s *UserService) LinkMentee(ctx context.Context, mentor Actor, studentID uint) error {
	if mentor.Role != model.RoleMentor {
		return ErrForbidden
	}
	return s.link(ctx, studentID, mentor.ID)
}

// LinkMentor links the acting student to a mentor
func (s *UserService) LinkMentor(ctx context.Context, student Actor, mentorID uint) error {
	if student.Role != model.RoleStudent {
		return ErrForbidden
	}

	var mentor model.User
	if err := s.db.WithContext(ctx).
		Where("id = ? AND role = ?", mentorID, model.RoleMentor).
		First(&mentor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load mentor: %w", err)
	}
	return s.link(ctx, student.ID, mentorID)
}

func (s *UserService) link(ctx context.Context, studentID, mentorID uint) error {
	result := s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND role = ? AND linked_mentor_id IS NULL", studentID, model.RoleStudent).
		Update("linked_mentor_id", mentorID)
	if result.Error != nil {
		return fmt.Errorf("failed to link mentor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing student from one that is already linked.
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.User{}).
			Where("id = ? AND role = ?", studentID, model.RoleStudent).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check student: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrAlreadyLinked
	}
	return nil
}

// ListMentees returns the students linked to a mentor
func (s *UserService) ListMentees(ctx context.Context, mentorID uint) ([]model.PublicProfile, error) {
	var students []model.User
	if err := s.db.WithContext(ctx).
		Where("linked_mentor_id = ? AND role = ?", mentorID, model.RoleStudent).
		Order("name").
		Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list mentees: %w", err)
	}

	profiles := make([]model.PublicProfile, 0, len(students))
	for _, u := range students {
		profiles = append(profiles, u.ToPublicProfile())
	}
	return profiles, nil
}

// ListMentors returns all mentors for the directory listing
func (s *UserService) ListMentors(ctx context.Context) ([]model.PublicProfile, error) {
	var mentors []model.User
	if err := s.db.WithContext(ctx).
		Where("role = ?", model.RoleMentor).
		Order("name").
		Find(&mentors).Error; err != nil {
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}

	profiles := make([]model.PublicProfile, 0, len(mentors))
	for _, u := range mentors {
		profiles = append(profiles, u.ToPublicProfile())
	}
	return profiles, nil
}
