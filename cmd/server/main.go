package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"savora-backend/internal/blobs"
	"savora-backend/internal/cooldown"
	"savora-backend/internal/database"
	"savora-backend/internal/handlers"
	customMiddleware "savora-backend/internal/middleware"
	"savora-backend/internal/notify"
	"savora-backend/internal/redemption"
	"savora-backend/internal/repository"
	"savora-backend/internal/tables"
	"savora-backend/internal/wizard"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	// Required env vars
	mongoURI := getEnv("MONGODB_URI", "")
	dbName := getEnv("DB_NAME", "savora")
	jwtSecret := getEnv("JWT_SECRET", "")
	port := getEnv("PORT", "8080")
	blobBaseURL := getEnv("BLOB_BASE_URL", "https://blobs.local")

	if mongoURI == "" {
		log.Fatal("❌ MONGODB_URI is required")
	}
	if jwtSecret == "" {
		log.Fatal("❌ JWT_SECRET is required")
	}

	cooldownWindow := cooldown.DefaultWindow
	if raw := getEnv("COOLDOWN_WINDOW", ""); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("❌ Invalid COOLDOWN_WINDOW %q: %v", raw, err)
		}
		cooldownWindow = parsed
	}

	// Connect to MongoDB
	if err := database.Connect(mongoURI, dbName); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	// Initialize repositories
	staffRepo := repository.NewStaffRepo()
	tokenRepo := repository.NewAuthTokenRepo()
	tableRepo := repository.NewTableRepo()
	feedbackRepo := repository.NewFeedbackRepo()
	tierRepo := repository.NewOfferTierRepo()
	redemptionRepo := repository.NewRedemptionRepo()

	// Ensure indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := staffRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create staff indexes: %v", err)
	}
	if err := tokenRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create token indexes: %v", err)
	}
	if err := tableRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create table indexes: %v", err)
	}
	if err := feedbackRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create feedback indexes: %v", err)
	}
	if err := tierRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create offer tier indexes: %v", err)
	}
	if err := redemptionRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create redemption indexes: %v", err)
	}

	// Core components
	validator := tables.NewValidator(tableRepo)
	guard := cooldown.New(cooldown.NewMemoryStore(), cooldownWindow)
	submitter := &wizard.Submitter{
		Cooldown:      guard,
		Compressor:    blobs.PassthroughCompressor{},
		Blobs:         blobs.NewMockStore(blobBaseURL),
		Feedbacks:     feedbackRepo,
		Tiers:         tierRepo,
		MaxImageBytes: 5 << 20,
	}
	redemptionGuard := redemption.NewGuard(redemptionRepo, feedbackRepo, tierRepo)

	// Initialize staff notifier (mock)
	notifier := notify.NewMockNotifier()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(tokenRepo, staffRepo, jwtSecret)
	entryHandler := handlers.NewEntryHandler(validator)
	feedbackHandler := handlers.NewFeedbackHandler(validator, submitter, notifier)
	redemptionHandler := handlers.NewRedemptionHandler(redemptionGuard, feedbackRepo, tierRepo, redemptionRepo)
	tableHandler := handlers.NewTableHandler(tableRepo)
	tierHandler := handlers.NewOfferTierHandler(tierRepo)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"savora-backend"}`))
	})

	// Public customer routes (no auth — the table token is the gate)
	r.Get("/t", entryHandler.Enter)
	r.Post("/feedback", feedbackHandler.SubmitFeedback)

	// Public staff auth routes
	r.Post("/auth/request", authHandler.RequestLogin)
	r.Get("/auth/verify", authHandler.VerifyToken)

	// Protected staff routes (JWT required)
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.JWTAuth(jwtSecret))

		r.Get("/verify", redemptionHandler.Verify)
		r.Get("/redemptions/check", redemptionHandler.CheckClaim)
		r.Post("/redemptions", redemptionHandler.CreateClaim)

		r.Get("/tables", tableHandler.ListTables)
		r.Post("/tables", tableHandler.CreateTable)
		r.Patch("/tables/{id}", tableHandler.UpdateTable)

		r.Get("/offer-tiers", tierHandler.ListTiers)
		r.Post("/offer-tiers", tierHandler.CreateTier)
		r.Patch("/offer-tiers/{id}", tierHandler.UpdateTier)
	})

	// Start server
	log.Printf("🚀 Savora backend starting on port %s (cooldown window %s)", port, guard.Window())
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
