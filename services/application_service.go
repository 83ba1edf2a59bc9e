package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mentorlink/mentorlink-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplicationService owns the application lifecycle state machine:
// apply -> pending -> accepted/rejected -> completed. All writes go through
// transactions so a patch either fully applies (including badge issuance)
// or leaves every entity unchanged.
type ApplicationService struct {
	db            *gorm.DB
	badges        *BadgeService
	notifications *NotificationService
}

// NewApplicationService creates a new application service
func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{
		db:            db,
		badges:        NewBadgeService(db),
		notifications: NewNotificationService(db),
	}
}

// Actor identifies the authenticated user performing an operation
type Actor struct {
	ID   uint
	Role string
}

// ApplicationPatch is the set of fields a PATCH may touch. Which fields are
// allowed depends on who the actor is: the student owner may only set
// SubmittedWork, the internship's mentor may set everything else.
type ApplicationPatch struct {
	SubmittedWork *string                  `json:"submitted_work"`
	Status        *model.ApplicationStatus `json:"status"`
	Feedback      *string                  `json:"feedback"`
	MentorRating  *int                     `json:"mentor_rating"`
	Progress      *int                     `json:"progress"`
	BadgeAwarded  *bool                    `json:"badge_awarded"`
}

// HasStudentFields reports whether the patch touches student-owned fields
func (p ApplicationPatch) HasStudentFields() bool {
	return p.SubmittedWork != nil
}

// HasMentorFields reports whether the patch touches mentor-owned fields
func (p ApplicationPatch) HasMentorFields() bool {
	return p.Status != nil || p.Feedback != nil || p.MentorRating != nil ||
		p.Progress != nil || p.BadgeAwarded != nil
}

// IsEmpty reports whether the patch sets nothing
func (p ApplicationPatch) IsEmpty() bool {
	return !p.HasStudentFields() && !p.HasMentorFields()
}

// Apply creates a pending application for studentID against internshipID.
//
// The guard (internship open, not already applied, capacity free) and the
// insert run in one transaction holding a row lock on the internship, so two
// students racing for the last slot serialize and at most max_participants
// active applications ever exist. The unique (internship, student) index is
// the backstop against double-apply races from the same student.
func (s *ApplicationService) Apply(ctx context.Context, studentID, internshipID uint) (*model.InternshipApplication, error) {
	var app model.InternshipApplication
	var internship model.MicroInternship

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the internship row: the capacity count below must not race
		// with another apply for the same internship.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&internship, internshipID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load internship: %w", err)
		}

		if !internship.AcceptingApplications() {
			return ErrApplicationsClosed
		}

		var existing int64
		if err := tx.Model(&model.InternshipApplication{}).
			Where("internship_id = ? AND student_id = ?", internshipID, studentID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check existing application: %w", err)
		}
		if existing > 0 {
			return ErrAlreadyApplied
		}

		var active int64
		if err := tx.Model(&model.InternshipApplication{}).
			Where("internship_id = ? AND status IN ?", internshipID, model.ActiveApplicationStatuses).
			Count(&active).Error; err != nil {
			return fmt.Errorf("failed to count active applications: %w", err)
		}
		if active >= int64(internship.MaxParticipants) {
			return ErrCapacityReached
		}

		app = model.InternshipApplication{
			InternshipID: internshipID,
			StudentID:    studentID,
			Status:       model.ApplicationStatusPending,
		}
		if err := tx.Create(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyApplied
			}
			return fmt.Errorf("failed to create application: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Best-effort: tell the mentor a new application arrived.
	s.notifications.NotifyNewApplication(ctx, &internship, &app)

	return &app, nil
}

// UpdateApplication applies a role-partitioned patch to an application.
//
// Student owner: SubmittedWork only, and only while the application is
// accepted; submitting stamps submitted_at and sets progress to 100.
// Owning mentor: status (transition-table-guarded), feedback, rating,
// progress (monotonic) and badge_awarded; flipping badge_awarded from false
// to true issues the completion badge inside the same transaction.
func (s *ApplicationService) UpdateApplication(ctx context.Context, actor Actor, appID uint, patch ApplicationPatch) (*model.InternshipApplication, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	var app model.InternshipApplication
	var internship model.MicroInternship
	var issuedBadge *model.Badge
	var statusChanged bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the application row so a student's submit and the mentor's
		// review serialize instead of clobbering each other.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&app, appID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load application: %w", err)
		}
		if err := tx.First(&internship, app.InternshipID).Error; err != nil {
			return fmt.Errorf("failed to load internship: %w", err)
		}

		isStudent := actor.Role == model.RoleStudent && actor.ID == app.StudentID
		isMentor := actor.Role == model.RoleMentor && actor.ID == internship.MentorID

		switch {
		case isStudent:
			if patch.HasMentorFields() {
				return ErrForbidden
			}
			return s.applyStudentPatch(tx, &app, patch)
		case isMentor:
			if patch.HasStudentFields() {
				return ErrForbidden
			}
			badge, changed, err := s.applyMentorPatch(tx, &app, &internship, patch)
			if err != nil {
				return err
			}
			issuedBadge = badge
			statusChanged = changed
			return nil
		default:
			return ErrForbidden
		}
	})
	if err != nil {
		return nil, err
	}

	if statusChanged {
		s.notifications.NotifyApplicationDecision(ctx, &internship, &app)
	}
	if issuedBadge != nil {
		s.notifications.NotifyBadgeIssued(ctx, &internship, issuedBadge)
	}
	if patch.SubmittedWork != nil {
		s.notifications.NotifyWorkSubmitted(ctx, &internship, &app)
	}

	return &app, nil
}

// applyStudentPatch handles the student side of the field partition:
// work can only be attached to an accepted application.
func (s *ApplicationService) applyStudentPatch(tx *gorm.DB, app *model.InternshipApplication, patch ApplicationPatch) error {
	if app.Status != model.ApplicationStatusAccepted {
		return ErrNotAccepted
	}

	now := time.Now()
	app.SubmittedWork = *patch.SubmittedWork
	app.SubmittedAt = &now
	app.Progress = 100

	if err := tx.Save(app).Error; err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

// applyMentorPatch handles the mentor side of the field partition. Returns
// the badge issued by a badge_awarded false->true flip, if any, and whether
// the status changed.
func (s *ApplicationService) applyMentorPatch(tx *gorm.DB, app *model.InternshipApplication, internship *model.MicroInternship, patch ApplicationPatch) (*model.Badge, bool, error) {
	var issued *model.Badge
	statusChanged := false

	if patch.Status != nil {
		next := *patch.Status
		if !model.ValidApplicationStatus(next) {
			return nil, false, fmt.Errorf("%w: unknown status %q", ErrValidation, next)
		}
		if !app.Status.CanTransitionTo(next) {
			return nil, false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, app.Status, next)
		}
		statusChanged = next != app.Status
		app.Status = next
	}

	if patch.Feedback != nil {
		app.Feedback = *patch.Feedback
	}

	if patch.MentorRating != nil {
		rating := *patch.MentorRating
		if rating < 1 || rating > 5 {
			return nil, false, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
		}
		app.MentorRating = &rating
	}

	if patch.Progress != nil {
		progress := *patch.Progress
		if progress < 0 || progress > 100 {
			return nil, false, fmt.Errorf("%w: progress must be between 0 and 100", ErrValidation)
		}
		if progress < app.Progress {
			return nil, false, ErrProgressDecreased
		}
		app.Progress = progress
	}

	if patch.BadgeAwarded != nil {
		switch {
		case !*patch.BadgeAwarded && app.BadgeAwarded:
			// one-shot flag, cannot be unset
			return nil, false, fmt.Errorf("%w: badge_awarded cannot be revoked", ErrValidation)
		case *patch.BadgeAwarded && !app.BadgeAwarded:
			badge, err := s.badges.issueTx(tx, model.Badge{
				StudentID:    app.StudentID,
				InternshipID: app.InternshipID,
				BadgeType:    model.BadgeTypeCompletion,
				Title:        fmt.Sprintf("%s Completion", internship.Title),
				Description:  fmt.Sprintf("Successfully completed the %s micro-internship", internship.Title),
			})
			if err != nil {
				return nil, false, err
			}
			issued = badge
			app.BadgeAwarded = true
		}
	}

	if err := tx.Save(app).Error; err != nil {
		return nil, false, fmt.Errorf("failed to save application: %w", err)
	}
	return issued, statusChanged, nil
}

// InternshipSummary is the read-side internship shape embedded in
// application views
type InternshipSummary struct {
	ID       uint                   `json:"id"`
	Title    string                 `json:"title"`
	Duration int                    `json:"duration"`
	Status   model.InternshipStatus `json:"status"`
	Deadline *time.Time             `json:"deadline,omitempty"`
	Mentor   model.PublicProfile    `json:"mentor"`
}

// ApplicationView is the composed read-side DTO for listing applications,
// joining the internship and student the write-side entities only reference
type ApplicationView struct {
	ID            uint                    `json:"id"`
	Status        model.ApplicationStatus `json:"status"`
	SubmittedWork string                  `json:"submitted_work"`
	SubmittedAt   *time.Time              `json:"submitted_at,omitempty"`
	Feedback      string                  `json:"feedback"`
	MentorRating  *int                    `json:"mentor_rating,omitempty"`
	Progress      int                     `json:"progress"`
	BadgeAwarded  bool                    `json:"badge_awarded"`
	AppliedAt     time.Time               `json:"applied_at"`
	Internship    InternshipSummary       `json:"internship"`
	Student       model.PublicProfile     `json:"student"`
}

func toApplicationView(app model.InternshipApplication) ApplicationView {
	return ApplicationView{
		ID:            app.ID,
		Status:        app.Status,
		SubmittedWork: app.SubmittedWork,
		SubmittedAt:   app.SubmittedAt,
		Feedback:      app.Feedback,
		MentorRating:  app.MentorRating,
		Progress:      app.Progress,
		BadgeAwarded:  app.BadgeAwarded,
		AppliedAt:     app.AppliedAt,
		Internship: InternshipSummary{
			ID:       app.Internship.ID,
			Title:    app.Internship.Title,
			Duration: app.Internship.Duration,
			Status:   app.Internship.Status,
			Deadline: app.Internship.Deadline,
			Mentor:   app.Internship.Mentor.ToPublicProfile(),
		},
		Student: app.Student.ToPublicProfile(),
	}
}

// GetApplication loads a single application as a composed view. Only the
// student owner or the internship's mentor may read it.
func (s *ApplicationService) GetApplication(ctx context.Context, actor Actor, appID uint) (*ApplicationView, error) {
	var app model.InternshipApplication
	if err := s.db.WithContext(ctx).
		Preload("Internship.Mentor").
		Preload("Student").
		First(&app, appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	if actor.ID != app.StudentID && actor.ID != app.Internship.MentorID {
		return nil, ErrForbidden
	}

	view := toApplicationView(app)
	return &view, nil
}

// ListStudentApplications returns the student's own applications, newest first
func (s *ApplicationService) ListStudentApplications(ctx context.Context, studentID uint) ([]ApplicationView, error) {
	var apps []model.InternshipApplication
	if err := s.db.WithContext(ctx).
		Preload("Internship.Mentor").
		Preload("Student").
		Where("student_id = ?", studentID).
		Order("applied_at DESC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	views := make([]ApplicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, toApplicationView(app))
	}
	return views, nil
}

// ListMentorApplications returns every application across the mentor's
// internships, newest first
func (s *ApplicationService) ListMentorApplications(ctx context.Context, mentorID uint) ([]ApplicationView, error) {
	var apps []model.InternshipApplication
	if err := s.db.WithContext(ctx).
		Preload("Internship.Mentor").
		Preload("Student").
		Joins("JOIN micro_internships ON micro_internships.id = internship_applications.internship_id").
		Where("micro_internships.mentor_id = ?", mentorID).
		Order("internship_applications.applied_at DESC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list mentor applications: %w", err)
	}

	views := make([]ApplicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, toApplicationView(app))
	}
	return views, nil
}
