package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/lib/pq"
	"github.com/mentorlink/mentorlink-api/model"
	"github.com/mentorlink/mentorlink-api/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// RunSeeds seeds the database with demo data
func RunSeeds(db *gorm.DB) error {
	return NewSeeder(db).SeedAll()
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedDemoUsers(); err != nil {
		return fmt.Errorf("failed to seed demo users: %w", err)
	}

	if err := s.SeedInternships(); err != nil {
		return fmt.Errorf("failed to seed internships: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedDemoUsers creates one demo mentor and one demo student. The shared
// password comes from SEED_PASSWORD; without it, user seeding is skipped.
func (s *Seeder) SeedDemoUsers() error {
	var count int64
	if err := s.db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Users already exist, skipping...")
		return nil
	}

	seedPassword := os.Getenv("SEED_PASSWORD")
	if seedPassword == "" {
		log.Println("⚠️  SEED_PASSWORD environment variable not set, skipping demo user creation")
		return nil
	}

	passwordHash, err := auth.HashPassword(seedPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users := []model.User{
		{
			Email:        "mentor@mentorlink.dev",
			PasswordHash: passwordHash,
			Name:         "Dana Mentor",
			Role:         model.RoleMentor,
			Bio:          "Backend engineer mentoring students on distributed systems.",
			Experience:   "10 years building data platforms",
			Skills:       pq.StringArray{"Go", "PostgreSQL", "Distributed Systems"},
			TokenVersion: 0,
		},
		{
			Email:        "student@mentorlink.dev",
			PasswordHash: passwordHash,
			Name:         "Sam Student",
			Role:         model.RoleStudent,
			Bio:          "CS undergrad looking for hands-on project experience.",
			Skills:       pq.StringArray{"Python", "SQL"},
			Interests:    pq.StringArray{"Backend", "Databases"},
			TokenVersion: 0,
		},
	}

	for i := range users {
		if err := s.db.Create(&users[i]).Error; err != nil {
			return err
		}
		log.Printf("✅ Created %s user: %s\n", users[i].Role, users[i].Email)
	}
	return nil
}

// SeedInternships creates sample micro-internship postings owned by the
// seeded mentor
func (s *Seeder) SeedInternships() error {
	var count int64
	if err := s.db.Model(&model.MicroInternship{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Internships already exist, skipping...")
		return nil
	}

	var mentor model.User
	if err := s.db.Where("role = ?", model.RoleMentor).First(&mentor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Println("⚠️  No mentor user found, skipping internship seeding")
			return nil
		}
		return err
	}

	deadline := time.Now().AddDate(0, 0, 14)
	internships := []model.MicroInternship{
		{
			MentorID:        mentor.ID,
			Title:           "Build a REST API health dashboard",
			Description:     "Design and ship a small status page that polls service health endpoints and renders uptime history.",
			Duration:        3,
			Difficulty:      model.DifficultyBeginner,
			SkillsRequired:  pq.StringArray{"Go", "HTTP"},
			MaxParticipants: 10,
			Status:          model.InternshipStatusOpen,
			Deadline:        &deadline,
		},
		{
			MentorID:        mentor.ID,
			Title:           "Query optimization deep dive",
			Description:     "Profile a slow reporting query, add the right indexes and document the before/after explain plans.",
			Duration:        5,
			Difficulty:      model.DifficultyAdvanced,
			SkillsRequired:  pq.StringArray{"PostgreSQL", "SQL"},
			MaxParticipants: 3,
			Status:          model.InternshipStatusOpen,
		},
	}

	for i := range internships {
		if err := s.db.Create(&internships[i]).Error; err != nil {
			return err
		}
		log.Printf("✅ Created internship: %s\n", internships[i].Title)
	}
	return nil
}
