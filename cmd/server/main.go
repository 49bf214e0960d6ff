package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/timecapsule-app/timecapsule-backend/internal/config"
	"github.com/timecapsule-app/timecapsule-backend/internal/database"
	"github.com/timecapsule-app/timecapsule-backend/internal/handlers"
	"github.com/timecapsule-app/timecapsule-backend/internal/middleware"
	"github.com/timecapsule-app/timecapsule-backend/internal/routes"
	"github.com/timecapsule-app/timecapsule-backend/internal/services"
	"github.com/timecapsule-app/timecapsule-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to MongoDB
	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	// Ensure indexes (unique email, scoped journal/entry lookups, 2dsphere)
	if err := store.EnsureIndexes(context.Background(), database.DB); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
	} else {
		log.Println("✅ MongoDB indexes ensured")
	}

	// Connect to Redis (rate limiting)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Verification email dispatch
	var mailer services.Mailer
	if cfg.HasSMTP() {
		mailer = services.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, cfg.MailFromName, cfg.VerifyBaseURL)
		log.Println("✅ SMTP mailer configured")
	} else {
		mailer = services.LogMailer{}
		log.Println("Warning: SMTP not configured. Verification links will be logged instead of emailed")
	}

	// Cloudinary image uploads
	var cloudinaryService *services.CloudinaryService
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		svc, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Image uploads will not be available")
		} else {
			cloudinaryService = svc
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Image uploads will not be available")
	}

	// Services
	authService := services.NewAuthService(store.NewMongoUsers(database.DB), mailer, cfg.JWTSecret, cfg.HashCost, cfg.IsProduction())
	journalService := services.NewJournalService(store.NewMongoJournals(database.DB))
	entryService := services.NewEntryService(store.NewMongoEntries(database.DB))

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService),
		Journal: handlers.NewJournalHandler(journalService),
		Entry:   handlers.NewEntryHandler(entryService),
		Upload:  handlers.NewUploadHandler(cloudinaryService),
		Gate:    middleware.NewGate(authService),
	})

	log.Printf("🚀 Time Capsule backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
