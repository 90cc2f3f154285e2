package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/cinebook/cinebook-gateway/internal/config"
	"github.com/cinebook/cinebook-gateway/internal/domain/admin"
	"github.com/cinebook/cinebook-gateway/internal/domain/audit"
	"github.com/cinebook/cinebook-gateway/internal/domain/booking"
	"github.com/cinebook/cinebook-gateway/internal/domain/navigation"
	"github.com/cinebook/cinebook-gateway/internal/domain/seatfeed"
	"github.com/cinebook/cinebook-gateway/internal/domain/showtime"
	"github.com/cinebook/cinebook-gateway/internal/middleware"
	"github.com/cinebook/cinebook-gateway/internal/pkg/backend"
	"github.com/cinebook/cinebook-gateway/internal/pkg/database"
	"github.com/cinebook/cinebook-gateway/internal/pkg/imaging"
	"github.com/cinebook/cinebook-gateway/internal/pkg/logger"
	pkgresponse "github.com/cinebook/cinebook-gateway/internal/pkg/response"
	"github.com/cinebook/cinebook-gateway/internal/pkg/scheduler"
	"github.com/cinebook/cinebook-gateway/internal/pkg/session"
	"github.com/cinebook/cinebook-gateway/internal/pkg/storage"
)

const version = "1.0.0"

// handlers groups everything the router mounts.
type handlers struct {
	navigation *navigation.Handler
	showtime   *showtime.Handler
	booking    *booking.Handler
	admin      *admin.Handler
	audit      *audit.Handler
	seatfeed   *seatfeed.Handler
}

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("upstream", cfg.UpstreamBaseURL).
		Msg("Starting CineBook gateway")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	// ---------- Sessions ----------
	store := newSessionStore(redisClient, cfg)

	// ---------- Upstream ----------
	api := backend.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout(), "cinebook-gateway/"+version)

	// ---------- Preview cache ----------
	previews, err := storage.New(context.Background(), storage.Config{
		Driver:      cfg.PreviewStorage,
		LocalDir:    cfg.PreviewDir,
		BaseURL:     cfg.PreviewBaseURL,
		S3Endpoint:  cfg.S3Endpoint,
		S3Region:    cfg.S3Region,
		S3Bucket:    cfg.S3Bucket,
		S3AccessKey: cfg.S3AccessKey,
		S3SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.PreviewStorage).Msg("Failed to create preview storage")
	}

	// ---------- Seat feed ----------
	hub := seatfeed.NewHub(redisClient)
	go hub.Run()
	defer hub.Shutdown()

	// ---------- Audit ----------
	var auditRepo audit.Repository
	if db != nil {
		auditRepo = audit.NewRepository(db)
		if err := auditRepo.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare audit schema")
		}
	}
	auditService := audit.NewService(auditRepo)

	// ---------- Services ----------
	bookingService := booking.NewService(api, store, store, hub)
	adminService := admin.NewService(api, store, auditService, hub)
	catalogService := admin.NewCatalogService(adminService, api)
	proofService := admin.NewProofService(adminService, previews, imaging.NewProcessor(imaging.DefaultConfig()))

	h := handlers{
		navigation: navigation.NewHandler(navigation.NewService(store)),
		showtime:   showtime.NewHandler(api),
		booking:    booking.NewHandler(bookingService),
		admin:      admin.NewHandler(adminService, catalogService, proofService),
		audit:      audit.NewHandler(auditService),
		seatfeed:   seatfeed.NewHandler(hub, cfg.AllowedOrigins),
	}

	// ---------- Jobs ----------
	jobs, err := scheduler.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	if err := jobs.Every("preview-cleanup", time.Hour, scheduler.PreviewCleanup(previews, cfg.PreviewTTL)); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule preview cleanup")
	}
	jobs.Start()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, store, h),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := jobs.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Scheduler shutdown failed")
	}
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// sessionStore is what both session backends provide.
type sessionStore interface {
	session.Store
	session.Guard
}

func newSessionStore(client *redis.Client, cfg *config.Config) sessionStore {
	if client == nil {
		return session.NewMemoryStore(cfg.SessionTTL, cfg.SubmitGuardTTL)
	}
	return session.NewRedisStore(client, cfg.SessionTTL, cfg.SubmitGuardTTL)
}

func newRouter(cfg *config.Config, store session.Store, h handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoints (no timeout, no session)
	r.Mount("/ws", h.seatfeed.Routes())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.UpstreamTimeout() + 5*time.Second))
		r.Use(middleware.Session(store, middleware.SessionOptions{
			TTL:    cfg.SessionTTL,
			Secure: cfg.SessionCookieSecure,
		}))

		r.Get("/navigation", h.navigation.Resolve)
		r.Mount("/showtimes", h.showtime.Routes(h.booking.ShowtimeRoutes))
		r.Mount("/booking", h.booking.Routes())

		r.Route("/admin", func(r chi.Router) {
			h.admin.PublicRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(admin.RequireAdmin(store))
				h.admin.ProtectedRoutes(r)
				r.Get("/audit", h.audit.List)
			})
		})
	})

	return r
}
