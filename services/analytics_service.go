package services

import (
	"context"
	"fmt"
	"math"

	"github.com/mentorlink/mentorlink-api/model"
	"gorm.io/gorm"
)

// AnalyticsService computes read-only rollups from the application ledger
// and the catalog. Everything is recomputed on each request; nothing here
// mutates state.
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// MicroStats is the per-user micro-internship block on the dashboard
type MicroStats struct {
	Applied    int64 `json:"applied"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Badges     int64 `json:"badges"`
}

// MentorAnalytics summarizes a mentor's internship activity
type MentorAnalytics struct {
	TotalMentees      int64   `json:"total_mentees"`
	TotalApplications int64   `json:"total_applications"`
	CompletionRate    int     `json:"completion_rate"` // integer percent
	AverageRating     float64 `json:"average_rating"`  // one decimal place
}

// StudentSummary summarizes a student's application history
type StudentSummary struct {
	TotalApplied  int64   `json:"total_applied"`
	Completed     int64   `json:"completed"`
	Badges        int64   `json:"badges"`
	AverageRating float64 `json:"average_rating"` // one decimal place
}

// Dashboard is the composite payload for GET /dashboard
type Dashboard struct {
	MicroInternship MicroStats       `json:"micro_internship"`
	MentorAnalytics *MentorAnalytics `json:"mentor_analytics,omitempty"`
	StudentSummary  *StudentSummary  `json:"student_summary,omitempty"`
}

// GetDashboard assembles the role-appropriate dashboard for a user
func (s *AnalyticsService) GetDashboard(ctx context.Context, user *model.User) (*Dashboard, error) {
	dashboard := &Dashboard{}

	stats, err := s.microStats(s.applicationScope(ctx, user))
	if err != nil {
		return nil, err
	}
	dashboard.MicroInternship = *stats

	if user.IsMentor() {
		analytics, err := s.mentorAnalytics(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		dashboard.MentorAnalytics = analytics
	} else {
		summary, err := s.studentSummary(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		dashboard.StudentSummary = summary
	}

	return dashboard, nil
}

// applicationScope returns a query builder limited to the applications the
// user can see: their own for students, those of their internships for mentors.
func (s *AnalyticsService) applicationScope(ctx context.Context, user *model.User) func() *gorm.DB {
	return func() *gorm.DB {
		base := s.db.WithContext(ctx).Model(&model.InternshipApplication{})
		if user.IsMentor() {
			return base.Joins("JOIN micro_internships ON micro_internships.id = internship_applications.internship_id").
				Where("micro_internships.mentor_id = ?", user.ID)
		}
		return base.Where("internship_applications.student_id = ?", user.ID)
	}
}

func (s *AnalyticsService) microStats(scoped func() *gorm.DB) (*MicroStats, error) {
	stats := &MicroStats{}

	if err := scoped().Count(&stats.Applied).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	if err := scoped().
		Where("internship_applications.status = ? AND internship_applications.progress < 100", model.ApplicationStatusAccepted).
		Count(&stats.InProgress).Error; err != nil {
		return nil, fmt.Errorf("failed to count in-progress applications: %w", err)
	}
	if err := scoped().
		Where("internship_applications.status = ? OR internship_applications.progress = 100", model.ApplicationStatusCompleted).
		Count(&stats.Completed).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed applications: %w", err)
	}
	if err := scoped().
		Where("internship_applications.badge_awarded = ?", true).
		Count(&stats.Badges).Error; err != nil {
		return nil, fmt.Errorf("failed to count badges: %w", err)
	}

	return stats, nil
}

// mentorAnalytics computes the mentor view: distinct mentees, application
// volume, completion rate and mean rating across the mentor's internships.
func (s *AnalyticsService) mentorAnalytics(ctx context.Context, mentorID uint) (*MentorAnalytics, error) {
	analytics := &MentorAnalytics{}

	scoped := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&model.InternshipApplication{}).
			Joins("JOIN micro_internships ON micro_internships.id = internship_applications.internship_id").
			Where("micro_internships.mentor_id = ?", mentorID)
	}

	if err := scoped().Count(&analytics.TotalApplications).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	if err := scoped().Distinct("internship_applications.student_id").
		Count(&analytics.TotalMentees).Error; err != nil {
		return nil, fmt.Errorf("failed to count mentees: %w", err)
	}

	var completed int64
	if err := scoped().Where("internship_applications.status = ?", model.ApplicationStatusCompleted).
		Count(&completed).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed applications: %w", err)
	}
	analytics.CompletionRate = CompletionPercent(completed, analytics.TotalApplications)

	var ratingResult struct {
		Avg float64
	}
	if err := scoped().Where("internship_applications.mentor_rating IS NOT NULL").
		Select("COALESCE(AVG(internship_applications.mentor_rating), 0) as avg").
		Scan(&ratingResult).Error; err != nil {
		return nil, fmt.Errorf("failed to calculate average rating: %w", err)
	}
	analytics.AverageRating = RoundRating(ratingResult.Avg)

	return analytics, nil
}

// studentSummary computes the student view of the ledger
func (s *AnalyticsService) studentSummary(ctx context.Context, studentID uint) (*StudentSummary, error) {
	summary := &StudentSummary{}

	scoped := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&model.InternshipApplication{}).
			Where("student_id = ?", studentID)
	}

	if err := scoped().Count(&summary.TotalApplied).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	if err := scoped().Where("status = ? OR progress = 100", model.ApplicationStatusCompleted).
		Count(&summary.Completed).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed applications: %w", err)
	}
	if err := scoped().Where("badge_awarded = ?", true).
		Count(&summary.Badges).Error; err != nil {
		return nil, fmt.Errorf("failed to count badges: %w", err)
	}

	var ratingResult struct {
		Avg float64
	}
	if err := scoped().Where("mentor_rating IS NOT NULL").
		Select("COALESCE(AVG(mentor_rating), 0) as avg").
		Scan(&ratingResult).Error; err != nil {
		return nil, fmt.Errorf("failed to calculate average rating: %w", err)
	}
	summary.AverageRating = RoundRating(ratingResult.Avg)

	return summary, nil
}

// RoundRating rounds a mean rating to one decimal place
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// CompletionPercent returns completed/total as an integer percent, 0 when
// total is zero
func CompletionPercent(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
