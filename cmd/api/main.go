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
	"github.com/rs/zerolog/log"

	"github.com/quizhub/quizhub-api/internal/config"
	"github.com/quizhub/quizhub-api/internal/domain/access"
	"github.com/quizhub/quizhub-api/internal/domain/auth"
	"github.com/quizhub/quizhub-api/internal/domain/course"
	"github.com/quizhub/quizhub-api/internal/domain/credit"
	"github.com/quizhub/quizhub-api/internal/domain/packages"
	"github.com/quizhub/quizhub-api/internal/domain/payment"
	"github.com/quizhub/quizhub-api/internal/domain/quiz"
	"github.com/quizhub/quizhub-api/internal/domain/user"
	"github.com/quizhub/quizhub-api/internal/domain/waitlist"
	"github.com/quizhub/quizhub-api/internal/middleware"
	"github.com/quizhub/quizhub-api/internal/pkg/ai"
	"github.com/quizhub/quizhub-api/internal/pkg/database"
	"github.com/quizhub/quizhub-api/internal/pkg/email"
	"github.com/quizhub/quizhub-api/internal/pkg/jwt"
	"github.com/quizhub/quizhub-api/internal/pkg/logger"
	pkgresponse "github.com/quizhub/quizhub-api/internal/pkg/response"
	"github.com/quizhub/quizhub-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting QuizHub API")

	if cfg.IsDevelopment() {
		log.Warn().Msg("Running in development mode")
	}

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

	r2Storage, err := storage.NewR2Storage(storage.R2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		AccessKeySecret: cfg.R2AccessKeySecret,
		BucketName:      cfg.R2BucketName,
		PublicURL:       cfg.R2PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create R2 storage")
	}

	emailService := email.NewService(email.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
	})
	defer emailService.Close()

	generator := ai.NewOpenAIClient(ai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	})

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	packageRepo := packages.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	quizRepo := quiz.NewRepository(db)
	courseRepo := course.NewRepository(db)
	waitlistRepo := waitlist.NewRepository(db)

	// ---------- Services ----------
	creditService := credit.NewService(db)
	accessService := access.NewService(userRepo, paymentRepo, packageRepo, quizRepo, quizRepo, creditService)
	authService := auth.NewService(userRepo, jwtService, redis, emailService, cfg.AppURL)
	userService := user.NewService(userRepo)
	packageService := packages.NewService(packageRepo)
	paymentService := payment.NewService(paymentRepo, userRepo, packageRepo, creditService, emailService, cfg.PaymentWebhookSecret)
	quizService := quiz.NewService(quizRepo, accessService, generator)
	courseService := course.NewService(courseRepo, r2Storage)
	waitlistService := waitlist.NewService(waitlistRepo, emailService, cfg.AppURL)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	accessHandler := access.NewHandler(accessService)
	creditHandler := credit.NewHandler(creditService)
	packageHandler := packages.NewHandler(packageService)
	paymentHandler := payment.NewHandler(paymentService)
	quizHandler := quiz.NewHandler(quizService)
	courseHandler := course.NewHandler(courseService)
	waitlistHandler := waitlist.NewHandler(waitlistService)

	authMiddleware := middleware.Auth(jwtService)
	moderatorMiddleware := middleware.RequireModerator()
	adminMiddleware := middleware.RequireAdmin()

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
		r.Mount("/users", userHandler.Routes(authMiddleware))
		r.Mount("/access", accessHandler.Routes(authMiddleware))
		r.Mount("/credits", creditHandler.Routes(authMiddleware))
		r.Mount("/packages", packageHandler.Routes(authMiddleware))
		r.Mount("/payments", paymentHandler.Routes(authMiddleware))
		r.Mount("/quizzes", quizHandler.Routes(authMiddleware, moderatorMiddleware))
		r.Mount("/courses", courseHandler.Routes(authMiddleware))
		r.Mount("/waitlist", waitlistHandler.Routes())

		r.Route("/admin", func(r chi.Router) {
			r.Mount("/users", userHandler.AdminRoutes(authMiddleware, adminMiddleware))
			r.Mount("/access", accessHandler.AdminRoutes(authMiddleware, adminMiddleware))
			r.Mount("/credits", creditHandler.AdminRoutes(authMiddleware, adminMiddleware))
			r.Mount("/packages", packageHandler.AdminRoutes(authMiddleware, adminMiddleware))
			r.Mount("/quizzes", quizHandler.AdminRoutes(authMiddleware, adminMiddleware))
			r.Mount("/courses", courseHandler.AdminRoutes(authMiddleware, adminMiddleware))
			r.Mount("/waitlist", waitlistHandler.AdminRoutes(authMiddleware, adminMiddleware))
		})
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
