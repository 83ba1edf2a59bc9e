package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mentorlink/mentorlink-api/database"
	"github.com/mentorlink/mentorlink-api/handlers"
	application_handlers "github.com/mentorlink/mentorlink-api/handlers/application"
	auth_handlers "github.com/mentorlink/mentorlink-api/handlers/auth"
	badge_handlers "github.com/mentorlink/mentorlink-api/handlers/badge"
	dashboard_handlers "github.com/mentorlink/mentorlink-api/handlers/dashboard"
	internship_handlers "github.com/mentorlink/mentorlink-api/handlers/internship"
	notification_handlers "github.com/mentorlink/mentorlink-api/handlers/notification"
	user_handlers "github.com/mentorlink/mentorlink-api/handlers/user"
	"github.com/mentorlink/mentorlink-api/utils/auth"
	"github.com/mentorlink/mentorlink-api/utils/cache"
	"github.com/mentorlink/mentorlink-api/utils/middleware"
)

func SetupRoutes(app *fiber.App, store *database.GORMStore) {
	// Get JWT secret from environment
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "mentorlink-api"
	}

	// Initialize JWT manager with config
	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	db := store.GetDB()

	// Initialize Redis cache for brute force protection
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	// Initialize brute force protection
	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Initialize auth middleware with DB for token version checks
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Initialize handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	internshipHandler := internship_handlers.NewInternshipHandler(db)
	applicationHandler := application_handlers.NewApplicationHandler(db)
	badgeHandler := badge_handlers.NewBadgeHandler(db)
	dashboardHandler := dashboard_handlers.NewDashboardHandler(db)
	notificationHandler := notification_handlers.NewNotificationHandler(db)
	userHandler := user_handlers.NewUserHandler(db)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", func(c *fiber.Ctx) error {
		return handlers.HandleCheckHealth(c, store)
	})

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)

	// Protected auth routes
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Internship catalog (protected)
	internships := api.Group("/internships", authMiddleware.Required())
	internships.Get("/", internshipHandler.List)
	internships.Post("/", authMiddleware.RequireRole("mentor"), internshipHandler.Create)
	internships.Get("/:id", internshipHandler.Get)
	internships.Put("/:id", authMiddleware.RequireRole("mentor"), internshipHandler.Update)
	internships.Post("/:id/apply", authMiddleware.RequireRole("student"), applicationHandler.Apply)
	internships.Get("/my/applications", applicationHandler.ListMine)
	internships.Get("/mentor/applications", authMiddleware.RequireRole("mentor"), applicationHandler.ListForMentor)

	// Application lifecycle (protected)
	applications := api.Group("/applications", authMiddleware.Required())
	applications.Get("/:id", applicationHandler.Get)
	applications.Patch("/:id", applicationHandler.Update)

	// Badges (protected)
	badges := api.Group("/badges", authMiddleware.Required())
	badges.Post("/", authMiddleware.RequireRole("mentor"), badgeHandler.Issue)
	badges.Get("/:userId", badgeHandler.ListByUser)

	// Dashboard (protected)
	api.Get("/dashboard", authMiddleware.Required(), dashboardHandler.Get)

	// Notifications (protected)
	notifications := api.Group("/notifications", authMiddleware.Required())
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/:id/read", notificationHandler.MarkRead)

	// Mentor directory and mentor/mentee linking (protected)
	users := api.Group("/users", authMiddleware.Required())
	users.Get("/mentors", userHandler.ListMentors)
	users.Get("/mentees", authMiddleware.RequireRole("mentor"), userHandler.ListMentees)
	users.Post("/link-mentee", authMiddleware.RequireRole("mentor"), userHandler.LinkMentee)
	users.Post("/link-mentor", authMiddleware.RequireRole("student"), userHandler.LinkMentor)
}
