package services

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/mentorlink/mentorlink-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB connects to the test database and resets the schema.
// These tests require a running PostgreSQL instance:
// set RUN_INTEGRATION_TESTS=true and optionally TEST_DATABASE_DSN.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=mentorlink_test port=5432 sslmode=disable TimeZone=UTC"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.MicroInternship{},
		&model.InternshipApplication{},
		&model.Badge{},
		&model.UserNotification{},
		&model.CronJobLog{},
	))

	// Wipe data between tests, keep the schema
	require.NoError(t, db.Exec(
		"TRUNCATE users, micro_internships, internship_applications, badges, user_notifications, cron_job_logs RESTART IDENTITY CASCADE",
	).Error)

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        fmt.Sprintf("%s-%d@test.local", role, userSeq()),
		PasswordHash: "not-a-real-hash",
		Name:         fmt.Sprintf("Test %s", role),
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

var seqMu sync.Mutex
var seq int

func userSeq() int {
	seqMu.Lock()
	defer seqMu.Unlock()
	seq++
	return seq
}

func createTestInternship(t *testing.T, db *gorm.DB, mentorID uint, maxParticipants int) *model.MicroInternship {
	t.Helper()
	internship := &model.MicroInternship{
		MentorID:        mentorID,
		Title:           "Test Internship",
		Description:     "A short test project",
		Duration:        3,
		MaxParticipants: maxParticipants,
		Status:          model.InternshipStatusOpen,
	}
	require.NoError(t, db.Create(internship).Error)
	return internship
}

func TestApplicationLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	mentor := createTestUser(t, db, model.RoleMentor)
	student := createTestUser(t, db, model.RoleStudent)
	internship := createTestInternship(t, db, mentor.ID, 10)

	mentorActor := Actor{ID: mentor.ID, Role: model.RoleMentor}
	studentActor := Actor{ID: student.ID, Role: model.RoleStudent}

	// Student applies: application starts pending
	app, err := svc.Apply(ctx, student.ID, internship.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusPending, app.Status)

	// Mentor accepts
	accepted := model.ApplicationStatusAccepted
	app, err = svc.UpdateApplication(ctx, mentorActor, app.ID, ApplicationPatch{Status: &accepted})
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusAccepted, app.Status)

	// Student submits work: progress jumps to 100, submission timestamped
	work := "https://github.com/student/result"
	app, err = svc.UpdateApplication(ctx, studentActor, app.ID, ApplicationPatch{SubmittedWork: &work})
	require.NoError(t, err)
	assert.Equal(t, work, app.SubmittedWork)
	assert.NotNil(t, app.SubmittedAt)
	assert.Equal(t, 100, app.Progress)

	// Mentor completes the review with rating, feedback and badge in one patch
	completed := model.ApplicationStatusCompleted
	rating := 5
	feedback := "Excellent work"
	awarded := true
	app, err = svc.UpdateApplication(ctx, mentorActor, app.ID, ApplicationPatch{
		Status:       &completed,
		MentorRating: &rating,
		Feedback:     &feedback,
		BadgeAwarded: &awarded,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusCompleted, app.Status)
	assert.True(t, app.BadgeAwarded)

	var badgeCount int64
	require.NoError(t, db.Model(&model.Badge{}).
		Where("student_id = ? AND internship_id = ?", student.ID, internship.ID).
		Count(&badgeCount).Error)
	assert.Equal(t, int64(1), badgeCount)

	// Re-sending badge_awarded=true is a no-op, not a duplicate badge
	_, err = svc.UpdateApplication(ctx, mentorActor, app.ID, ApplicationPatch{BadgeAwarded: &awarded})
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.Badge{}).
		Where("student_id = ? AND internship_id = ?", student.ID, internship.ID).
		Count(&badgeCount).Error)
	assert.Equal(t, int64(1), badgeCount)

	// The mentor got an application notification, the student a decision one
	var notifCount int64
	require.NoError(t, db.Model(&model.UserNotification{}).
		Where("user_id = ?", mentor.ID).Count(&notifCount).Error)
	assert.Greater(t, notifCount, int64(0))
}

func TestApplyGuards(t *testing.T) {
	db := setupTestDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	mentor := createTestUser(t, db, model.RoleMentor)
	student := createTestUser(t, db, model.RoleStudent)

	t.Run("double apply", func(t *testing.T) {
		internship := createTestInternship(t, db, mentor.ID, 10)

		_, err := svc.Apply(ctx, student.ID, internship.ID)
		require.NoError(t, err)

		_, err = svc.Apply(ctx, student.ID, internship.ID)
		assert.ErrorIs(t, err, ErrAlreadyApplied)
	})

	t.Run("closed internship", func(t *testing.T) {
		internship := createTestInternship(t, db, mentor.ID, 10)
		require.NoError(t, db.Model(internship).
			Update("status", model.InternshipStatusCancelled).Error)

		_, err := svc.Apply(ctx, student.ID, internship.ID)
		assert.ErrorIs(t, err, ErrApplicationsClosed)
	})

	t.Run("capacity reached", func(t *testing.T) {
		internship := createTestInternship(t, db, mentor.ID, 1)
		other := createTestUser(t, db, model.RoleStudent)

		_, err := svc.Apply(ctx, other.ID, internship.ID)
		require.NoError(t, err)

		_, err = svc.Apply(ctx, student.ID, internship.ID)
		assert.ErrorIs(t, err, ErrCapacityReached)
	})

	t.Run("unknown internship", func(t *testing.T) {
		_, err := svc.Apply(ctx, student.ID, 999999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// TestConcurrentApplyCapacity races several students for a single slot.
// Exactly one application may land.
func TestConcurrentApplyCapacity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	mentor := createTestUser(t, db, model.RoleMentor)
	internship := createTestInternship(t, db, mentor.ID, 1)

	const racers = 5
	students := make([]*model.User, racers)
	for i := range students {
		students[i] = createTestUser(t, db, model.RoleStudent)
	}

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Apply(ctx, students[i].ID, internship.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrCapacityReached)
		}
	}
	assert.Equal(t, 1, succeeded)

	var active int64
	require.NoError(t, db.Model(&model.InternshipApplication{}).
		Where("internship_id = ?", internship.ID).
		Count(&active).Error)
	assert.Equal(t, int64(1), active)
}

func TestRolePartition(t *testing.T) {
	db := setupTestDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	mentor := createTestUser(t, db, model.RoleMentor)
	student := createTestUser(t, db, model.RoleStudent)
	stranger := createTestUser(t, db, model.RoleStudent)
	otherMentor := createTestUser(t, db, model.RoleMentor)
	internship := createTestInternship(t, db, mentor.ID, 10)

	app, err := svc.Apply(ctx, student.ID, internship.ID)
	require.NoError(t, err)

	accepted := model.ApplicationStatusAccepted
	work := "early work"

	// Student cannot drive the state machine
	_, err = svc.UpdateApplication(ctx, Actor{ID: student.ID, Role: model.RoleStudent}, app.ID,
		ApplicationPatch{Status: &accepted})
	assert.ErrorIs(t, err, ErrForbidden)

	// Mentor cannot write the student's submission
	_, err = svc.UpdateApplication(ctx, Actor{ID: mentor.ID, Role: model.RoleMentor}, app.ID,
		ApplicationPatch{SubmittedWork: &work})
	assert.ErrorIs(t, err, ErrForbidden)

	// Third parties cannot touch the application at all
	_, err = svc.UpdateApplication(ctx, Actor{ID: stranger.ID, Role: model.RoleStudent}, app.ID,
		ApplicationPatch{SubmittedWork: &work})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateApplication(ctx, Actor{ID: otherMentor.ID, Role: model.RoleMentor}, app.ID,
		ApplicationPatch{Status: &accepted})
	assert.ErrorIs(t, err, ErrForbidden)

	// Submitting before acceptance is rejected even for the owner
	_, err = svc.UpdateApplication(ctx, Actor{ID: student.ID, Role: model.RoleStudent}, app.ID,
		ApplicationPatch{SubmittedWork: &work})
	assert.ErrorIs(t, err, ErrNotAccepted)
}

func TestMentorPatchValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	mentor := createTestUser(t, db, model.RoleMentor)
	student := createTestUser(t, db, model.RoleStudent)
	internship := createTestInternship(t, db, mentor.ID, 10)
	mentorActor := Actor{ID: mentor.ID, Role: model.RoleMentor}

	app, err := svc.Apply(ctx, student.ID, internship.ID)
	require.NoError(t, err)

	t.Run("invalid transition", func(t *testing.T) {
		completed := model.ApplicationStatusCompleted
		_, err := svc.UpdateApplication(ctx, mentorActor, app.ID, ApplicationPatch{Status: &completed})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("rating bounds", func(t *testing.T) {
		bad := 6
		_, err := svc.UpdateApplication(ctx, mentorActor, app.ID, ApplicationPatch{MentorRating: &bad})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("progress is monotonic", func(t *testing.T) {
		fifty := 50
		_, err := svc.UpdateApplication(ctx, mentorActor, app.ID, ApplicationPatch{Progress: &fifty})
		require.NoError(t, err)

		thirty := 30
		_, err = svc.UpdateApplication(ctx, mentorActor, app.ID, ApplicationPatch{Progress: &thirty})
		assert.ErrorIs(t, err, ErrProgressDecreased)
	})

	t.Run("empty patch", func(t *testing.T) {
		_, err := svc.UpdateApplication(ctx, mentorActor, app.ID, ApplicationPatch{})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestDashboardRollups(t *testing.T) {
	db := setupTestDB(t)
	apps := NewApplicationService(db)
	analytics := NewAnalyticsService(db)
	ctx := context.Background()

	mentor := createTestUser(t, db, model.RoleMentor)
	internship := createTestInternship(t, db, mentor.ID, 10)
	mentorActor := Actor{ID: mentor.ID, Role: model.RoleMentor}

	accepted := model.ApplicationStatusAccepted
	completed := model.ApplicationStatusCompleted

	// Three applications: two reviewed to completion with ratings 4 and 5,
	// one left pending.
	ratings := []int{4, 5}
	for i := 0; i < 3; i++ {
		student := createTestUser(t, db, model.RoleStudent)
		app, err := apps.Apply(ctx, student.ID, internship.ID)
		require.NoError(t, err)

		if i < 2 {
			_, err = apps.UpdateApplication(ctx, mentorActor, app.ID, ApplicationPatch{Status: &accepted})
			require.NoError(t, err)
			_, err = apps.UpdateApplication(ctx, mentorActor, app.ID, ApplicationPatch{
				Status:       &completed,
				MentorRating: &ratings[i],
			})
			require.NoError(t, err)
		}
	}

	dashboard, err := analytics.GetDashboard(ctx, mentor)
	require.NoError(t, err)

	assert.Equal(t, int64(3), dashboard.MicroInternship.Applied)
	assert.Equal(t, int64(2), dashboard.MicroInternship.Completed)

	require.NotNil(t, dashboard.MentorAnalytics)
	assert.Equal(t, int64(3), dashboard.MentorAnalytics.TotalApplications)
	assert.Equal(t, int64(3), dashboard.MentorAnalytics.TotalMentees)
	assert.Equal(t, 67, dashboard.MentorAnalytics.CompletionRate)
	assert.InDelta(t, 4.5, dashboard.MentorAnalytics.AverageRating, 1e-9)
	assert.Nil(t, dashboard.StudentSummary)
}

func TestMentorLinking(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	ctx := context.Background()

	mentor := createTestUser(t, db, model.RoleMentor)
	otherMentor := createTestUser(t, db, model.RoleMentor)
	student := createTestUser(t, db, model.RoleStudent)

	mentorActor := Actor{ID: mentor.ID, Role: model.RoleMentor}

	require.NoError(t, users.LinkMentee(ctx, mentorActor, student.ID))

	// A linked student cannot be claimed again, by anyone
	err := users.LinkMentee(ctx, Actor{ID: otherMentor.ID, Role: model.RoleMentor}, student.ID)
	assert.ErrorIs(t, err, ErrAlreadyLinked)
	err = users.LinkMentor(ctx, Actor{ID: student.ID, Role: model.RoleStudent}, otherMentor.ID)
	assert.ErrorIs(t, err, ErrAlreadyLinked)

	// Mentors cannot be linked as mentees
	err = users.LinkMentee(ctx, mentorActor, otherMentor.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	mentees, err := users.ListMentees(ctx, mentor.ID)
	require.NoError(t, err)
	require.Len(t, mentees, 1)
	assert.Equal(t, student.ID, mentees[0].ID)
}

func TestBadgeIssueIdempotency(t *testing.T) {
	db := setupTestDB(t)
	badges := NewBadgeService(db)
	ctx := context.Background()

	mentor := createTestUser(t, db, model.RoleMentor)
	student := createTestUser(t, db, model.RoleStudent)
	internship := createTestInternship(t, db, mentor.ID, 10)
	mentorActor := Actor{ID: mentor.ID, Role: model.RoleMentor}

	req := IssueBadgeRequest{
		StudentID:    student.ID,
		InternshipID: internship.ID,
		BadgeType:    model.BadgeTypeExcellence,
		Title:        "Outstanding Delivery",
	}

	_, err := badges.Issue(ctx, mentorActor, req)
	require.NoError(t, err)

	_, err = badges.Issue(ctx, mentorActor, req)
	assert.ErrorIs(t, err, ErrBadgeAlreadyIssued)

	// A different badge type for the same pair is a separate achievement
	req.BadgeType = model.BadgeTypeQuickLearner
	req.Title = "Fast Ramp-Up"
	_, err = badges.Issue(ctx, mentorActor, req)
	require.NoError(t, err)

	// Only the owning mentor can issue
	req.BadgeType = model.BadgeTypeTeamPlayer
	_, err = badges.Issue(ctx, Actor{ID: student.ID, Role: model.RoleStudent}, req)
	assert.ErrorIs(t, err, ErrForbidden)
}
