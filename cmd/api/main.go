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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medplus/academy-api/internal/config"
	"github.com/medplus/academy-api/internal/domain/admin"
	"github.com/medplus/academy-api/internal/domain/auth"
	"github.com/medplus/academy-api/internal/domain/chapter"
	"github.com/medplus/academy-api/internal/domain/comment"
	"github.com/medplus/academy-api/internal/domain/course"
	"github.com/medplus/academy-api/internal/domain/enrollment"
	"github.com/medplus/academy-api/internal/domain/instructor"
	"github.com/medplus/academy-api/internal/domain/specialty"
	"github.com/medplus/academy-api/internal/domain/user"
	"github.com/medplus/academy-api/internal/domain/video"
	"github.com/medplus/academy-api/internal/domain/wallet"
	"github.com/medplus/academy-api/internal/domain/workshop"
	"github.com/medplus/academy-api/internal/middleware"
	"github.com/medplus/academy-api/internal/pkg/database"
	"github.com/medplus/academy-api/internal/pkg/email"
	"github.com/medplus/academy-api/internal/pkg/imaging"
	"github.com/medplus/academy-api/internal/pkg/jwt"
	pkgresponse "github.com/medplus/academy-api/internal/pkg/response"
	"github.com/medplus/academy-api/internal/pkg/storage"
	"github.com/medplus/academy-api/internal/pkg/transcode"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Academy API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	emailService := email.NewService(email.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
	})
	defer emailService.Close()

	store, err := storage.NewS3Storage(storage.Config{
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create S3 storage")
	}

	posters := imaging.NewProcessor(imaging.DefaultConfig())

	pipeline := transcode.NewPipeline(transcode.Config{
		FFmpegPath:     cfg.FFmpegPath,
		FFprobePath:    cfg.FFprobePath,
		SegmentSeconds: cfg.SegmentSeconds,
		KeyURLBase:     cfg.PublicBaseURL + "/api/v1/videos/key",
		SegmentURLBase: cfg.PublicBaseURL + "/api/v1/videos/segments",
	}, store)

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	specialtyRepo := specialty.NewRepository(db)
	instructorRepo := instructor.NewRepository(db)
	courseRepo := course.NewRepository(db)
	chapterRepo := chapter.NewRepository(db)
	videoRepo := video.NewRepository(db)
	commentRepo := comment.NewRepository(db)
	walletRepo := wallet.NewRepository(db)
	workshopRepo := workshop.NewRepository(db)
	adminRepo := admin.NewRepository(db)

	// ---------- Services ----------
	enrollmentStore := enrollment.NewStore(db)
	receipts := enrollment.NewReceipts(enrollmentStore, userRepo, emailService)
	enrollmentService := enrollment.NewService(enrollmentStore, receipts)

	verification := auth.NewVerificationService(redis, emailService, cfg.PublicBaseURL)
	authService := auth.NewService(userRepo, jwtService, redis, verification, specialtyRepo, cfg.MaxDevicesPerUser)

	courseService := course.NewService(courseRepo, specialtyRepo, instructorRepo, enrollmentService, posters, store)
	videoService := video.NewService(videoRepo, chapterRepo, enrollmentService, pipeline, store)
	commentService := comment.NewService(commentRepo)
	walletService := wallet.NewService(walletRepo, enrollmentService)
	workshopService := workshop.NewService(workshopRepo, enrollmentService, posters, store)
	adminService := admin.NewService(adminRepo, userRepo, store)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	specialtyHandler := specialty.NewHandler(specialtyRepo)
	instructorHandler := instructor.NewHandler(instructorRepo)
	courseHandler := course.NewHandler(courseService)
	chapterHandler := chapter.NewHandler(chapterRepo)
	videoHandler := video.NewHandler(videoService)
	commentHandler := comment.NewHandler(commentService)
	walletHandler := wallet.NewHandler(walletService)
	workshopHandler := workshop.NewHandler(workshopService)
	adminHandler := admin.NewHandler(adminService)

	authMiddleware := middleware.Auth(jwtService)
	optionalAuth := middleware.OptionalAuth(jwtService)
	adminOnly := middleware.RequireAdmin()
	superAdminOnly := middleware.RequireSuperAdmin()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/specialties", specialtyHandler.Routes(authMiddleware, adminOnly))
		r.Mount("/instructors", instructorHandler.Routes(authMiddleware, adminOnly))
		r.Mount("/courses", courseHandler.Routes(authMiddleware, optionalAuth, adminOnly))
		r.Mount("/chapters", chapterHandler.Routes(authMiddleware, adminOnly))
		r.Mount("/videos", videoHandler.Routes(authMiddleware, adminOnly))
		r.Mount("/comments", commentHandler.Routes(authMiddleware, adminOnly))
		r.Mount("/wallet", walletHandler.Routes(authMiddleware, adminOnly))
		r.Mount("/workshops", workshopHandler.Routes(authMiddleware, optionalAuth, adminOnly))
		r.Mount("/admin", adminHandler.Routes(authMiddleware, adminOnly, superAdminOnly))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
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

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
