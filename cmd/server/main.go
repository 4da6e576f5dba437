package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linguatrail/internal/cache"
	"linguatrail/internal/config"
	"linguatrail/internal/database"
	"linguatrail/internal/handlers"
	"linguatrail/internal/repository"
	"linguatrail/internal/security"
	"linguatrail/internal/service"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

func main() {
	// Load .env if present, real environment wins
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	// Leaderboard cache, no-op when REDIS_ADDR is unset
	leaderboardCache := cache.NewLeaderboardCache(cfg)
	defer leaderboardCache.Close()

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug)
	if err != nil {
		log.Printf("Warning: email service disabled: %v", err)
	}

	// Initialize services
	lives := service.NewLifePolicy()
	authService := service.NewAuthService(userRepo, cfg.SessionDuration)
	userService := service.NewUserService(userRepo, lives)
	contentService := service.NewContentService(contentRepo, userRepo)
	progressionService := service.NewProgressionService(contentRepo, progressRepo, userRepo, lives)
	trailService := service.NewTrailService(contentRepo, progressRepo, userRepo)
	leaderboardService := service.NewLeaderboardService(userRepo, progressRepo, leaderboardCache)
	shopService := service.NewShopService(userRepo, transactionRepo, lives)

	// Seed admin account and starter trails on an empty database
	if err := contentService.SeedInitialContent(cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to seed initial content: %v", err)
	}

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"facebook": {
			Name:  "facebook",
			Label: "Facebook",
			Config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				Endpoint:     facebook.Endpoint,
				Scopes:       []string{"email", "public_profile"},
			},
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
		},
		"apple": {
			Name:  "apple",
			Label: "Apple",
			Config: &oauth2.Config{
				ClientID:     cfg.AppleClientID,
				ClientSecret: cfg.AppleClientSecret,
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://appleid.apple.com/auth/authorize",
					TokenURL: "https://appleid.apple.com/auth/token",
				},
				Scopes: []string{"email"},
			},
			AuthParams: map[string]string{"response_mode": "query"},
		},
	}

	// Initialize handlers
	rateLimiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, rateLimiter)
	authHandler := handlers.NewAuthHandler(authService, emailService, oauthProviders, cfg.AppBaseURL)
	userHandler := handlers.NewUserHandler(userService, trailService)
	trailHandler := handlers.NewTrailHandler(trailService)
	exerciseHandler := handlers.NewExerciseHandler(progressionService, leaderboardService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	shopHandler := handlers.NewShopHandler(shopService)
	adminHandler := handlers.NewAdminHandler(contentService, contentRepo, userRepo, transactionRepo)

	// Setup routes
	mux := http.NewServeMux()

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /api/auth/forgot-password", middleware.RateLimit(authHandler.ForgotPassword))
	mux.HandleFunc("POST /api/auth/reset-password", middleware.RateLimit(authHandler.ResetPassword))
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// Learner routes
	mux.HandleFunc("GET /api/users/me", middleware.RequireAuth(userHandler.Me))
	mux.HandleFunc("GET /api/users/me/stats", middleware.RequireAuth(userHandler.Stats))
	mux.HandleFunc("PUT /api/users/me/profile", middleware.RequireAuth(userHandler.UpdateProfile))
	mux.HandleFunc("PUT /api/users/me/password", middleware.RequireAuth(userHandler.ChangePassword))
	mux.HandleFunc("GET /api/trails", middleware.RequireAuth(trailHandler.GetTrails))
	mux.HandleFunc("GET /api/levels/{levelId}/exercise", middleware.RequireAuth(exerciseHandler.StartLevel))
	mux.HandleFunc("POST /api/levels/{levelId}/exercises/{exerciseId}/answer", middleware.RequireAuth(exerciseHandler.SubmitAnswer))
	mux.HandleFunc("GET /api/leaderboard", middleware.RequireAuth(leaderboardHandler.GetLeaderboard))

	// Shop routes
	mux.HandleFunc("POST /api/shop/buy-lives", middleware.RequireAuth(shopHandler.BuyLives))
	mux.HandleFunc("POST /api/shop/purchase", middleware.RequireAuth(shopHandler.ProcessPurchase))
	mux.HandleFunc("GET /api/shop/transactions", middleware.RequireAuth(shopHandler.Transactions))

	// Admin routes
	mux.HandleFunc("GET /api/admin/stats", middleware.RequireAdmin(adminHandler.Stats))
	mux.HandleFunc("GET /api/admin/trails", middleware.RequireAdmin(adminHandler.ListTrails))
	mux.HandleFunc("POST /api/admin/trails", middleware.RequireAdmin(adminHandler.CreateTrail))
	mux.HandleFunc("PUT /api/admin/trails/{id}", middleware.RequireAdmin(adminHandler.UpdateTrail))
	mux.HandleFunc("DELETE /api/admin/trails/{id}", middleware.RequireAdmin(adminHandler.DeleteTrail))
	mux.HandleFunc("GET /api/admin/trails/{id}/levels", middleware.RequireAdmin(adminHandler.ListLevels))
	mux.HandleFunc("POST /api/admin/levels", middleware.RequireAdmin(adminHandler.CreateLevel))
	mux.HandleFunc("PUT /api/admin/levels/{id}", middleware.RequireAdmin(adminHandler.UpdateLevel))
	mux.HandleFunc("DELETE /api/admin/levels/{id}", middleware.RequireAdmin(adminHandler.DeleteLevel))
	mux.HandleFunc("GET /api/admin/levels/{id}/exercises", middleware.RequireAdmin(adminHandler.ListExercises))
	mux.HandleFunc("POST /api/admin/exercises", middleware.RequireAdmin(adminHandler.CreateExercise))
	mux.HandleFunc("PUT /api/admin/exercises/{id}", middleware.RequireAdmin(adminHandler.UpdateExercise))
	mux.HandleFunc("DELETE /api/admin/exercises/{id}", middleware.RequireAdmin(adminHandler.DeleteExercise))
	mux.HandleFunc("GET /api/admin/users", middleware.RequireAdmin(adminHandler.ListUsers))
	mux.HandleFunc("PUT /api/admin/users/{id}/role", middleware.RequireAdmin(adminHandler.SetUserRole))
	mux.HandleFunc("DELETE /api/admin/users/{id}", middleware.RequireAdmin(adminHandler.DeleteUser))
	mux.HandleFunc("GET /api/admin/transactions", middleware.RequireAdmin(adminHandler.ListTransactions))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

// cleanupExpiredSessions periodically removes expired sessions and
// password reset tokens
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Session cleanup failed: %v", err)
		}
	}
}
