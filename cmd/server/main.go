package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/jobtrackr/jobtrack-backend/internal/applications"
	"github.com/jobtrackr/jobtrack-backend/internal/auth"
	"github.com/jobtrackr/jobtrack-backend/internal/company"
	"github.com/jobtrackr/jobtrack-backend/internal/config"
	"github.com/jobtrackr/jobtrack-backend/internal/middleware"
	"github.com/jobtrackr/jobtrack-backend/internal/questions"
	"github.com/jobtrackr/jobtrack-backend/internal/store"
	"github.com/jobtrackr/jobtrack-backend/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.MongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	ctx := context.Background()

	// ── MongoDB ──────────────────────────────────────────────
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	mongoClient, err := store.Connect(connectCtx, cfg.MongoURI)
	cancel()
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)

	db := mongoClient.Database(cfg.MongoDB)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}
	log.Println("MongoDB connected successfully")

	userStore := store.NewUserStore(db)
	questionStore := store.NewQuestionStore(db)
	applicationStore := store.NewApplicationStore(db)

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(userStore, cfg.JWTSecret)
	questionHandler := questions.NewHandler(questionStore)
	applicationHandler := applications.NewHandler(applicationStore)
	companyHandler := company.NewHandler(questionStore)

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.SecureHeaders)
	// 100 requests per 15-minute window per IP
	r.Use(middleware.RateLimit(100.0/(15*60), 100))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Route("/me", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", authHandler.Me)
			r.Put("/", authHandler.UpdateProfile)
			r.Put("/password", authHandler.UpdatePassword)
		})
	})

	// Question routes (reads are public, mutations require auth)
	r.Route("/api/questions", func(r chi.Router) {
		r.Get("/", questionHandler.List)
		r.Get("/{id}", questionHandler.Get)
		r.With(requireAuth).Post("/", questionHandler.Create)
		r.With(requireAuth).Put("/{id}", questionHandler.Update)
		r.With(requireAuth).Delete("/{id}", questionHandler.Delete)
	})

	// Application routes (all protected)
	r.Route("/api/applications", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", applicationHandler.Create)
		r.Get("/", applicationHandler.List)
		r.Get("/{id}", applicationHandler.Get)
		r.Put("/{id}", applicationHandler.Update)
		r.Delete("/{id}", applicationHandler.Delete)
	})

	r.Get("/api/companies", companyHandler.List)

	// Everything else serves the client bundle
	r.NotFound(web.SPAHandler(cfg.StaticDir))

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
