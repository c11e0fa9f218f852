package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/medibook/booking-api/internal/app"
	"github.com/medibook/booking-api/internal/config"
	"github.com/medibook/booking-api/internal/email"
	"github.com/medibook/booking-api/internal/handler"
	appointmentHandler "github.com/medibook/booking-api/internal/handler/appointment"
	authHandler "github.com/medibook/booking-api/internal/handler/auth"
	doctorHandler "github.com/medibook/booking-api/internal/handler/doctor"
	recommendationHandler "github.com/medibook/booking-api/internal/handler/recommendation"
	"github.com/medibook/booking-api/internal/middleware"
	"github.com/medibook/booking-api/internal/repository/memory"
	"github.com/medibook/booking-api/internal/router"
	appointmentService "github.com/medibook/booking-api/internal/service/appointment"
	authService "github.com/medibook/booking-api/internal/service/auth"
	recommendationService "github.com/medibook/booking-api/internal/service/recommendation"
	pkgauth "github.com/medibook/booking-api/pkg/auth"
	"github.com/medibook/booking-api/pkg/genai"
	"github.com/medibook/booking-api/pkg/logger"
	"github.com/medibook/booking-api/pkg/metrics"
	"github.com/medibook/booking-api/pkg/security"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zerolog.SetGlobalLevel(logger.ParseLevel(cfg.Logging.Level))
	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Logging.Level),
		TimeFormat: time.RFC3339,
	})
	appLogger.Info("configuration loaded")

	// Initialize repositories
	userRepo := memory.NewUserRepository()
	doctorRepo := memory.NewDoctorRepository()
	slotRepo := memory.NewSlotRepository()
	appointmentRepo := memory.NewAppointmentRepository()

	// Initialize email delivery
	emailCfg := email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}
	var emailSvc email.Service
	if emailCfg.Enabled() {
		emailSvc = email.NewSMTPService(emailCfg)
	} else {
		log.Info().Msg("SMTP not configured, booking notices disabled")
		emailSvc = email.NewNoopService()
	}

	// Initialize services
	m := metrics.New("medibook")
	jwtSvc := pkgauth.NewJWTService(pkgauth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})
	hasher := security.NewBcryptHasher(0)

	appointmentSvc := appointmentService.NewService(doctorRepo, slotRepo, appointmentRepo, emailSvc, m)
	authSvc := authService.NewService(userRepo, hasher, jwtSvc, appointmentSvc)

	// AI triage is optional: without a model credential the endpoints
	// answer 503 and everything else keeps working.
	var recommendationSvc *recommendationService.Service
	aiClient, err := genai.NewClient(genai.Config{
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("AI recommendations disabled")
	} else {
		recommendationSvc = recommendationService.NewService(aiClient, appointmentSvc, m, cfg.AI.Timeout())
	}

	ctrl := app.NewController(authSvc, appointmentSvc, recommendationSvc)

	// Seed the demo doctor and roster
	if err := ctrl.Seed(context.Background(), app.SeedConfig{
		DemoPassword:   cfg.Seed.DemoPassword,
		ExtendedRoster: cfg.Seed.ExtendedRoster,
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to seed demo data")
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	// Initialize handlers
	h := handler.NewHandler()
	authH := authHandler.NewHandler(authSvc)
	doctorH := doctorHandler.NewHandler(appointmentSvc)
	appointmentH := appointmentHandler.NewHandler(ctrl)
	recommendationH := recommendationHandler.NewHandler(recommendationSvc, authSvc)

	// Setup router
	r := router.NewRouter(
		authMiddleware,
		authH,
		doctorH,
		appointmentH,
		recommendationH,
		h,
		router.RouterConfig{
			RateLimit:     rate.Limit(cfg.Server.RateLimit),
			RateBurst:     cfg.Server.RateBurst,
			Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "medibook_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
