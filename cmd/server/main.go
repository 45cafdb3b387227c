package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/airsightlab/airsight-backend/internal/adapter/auth"
	"github.com/airsightlab/airsight-backend/internal/adapter/geo"
	"github.com/airsightlab/airsight-backend/internal/adapter/mail"
	"github.com/airsightlab/airsight-backend/internal/adapter/store"
	"github.com/airsightlab/airsight-backend/internal/handler"
	"github.com/airsightlab/airsight-backend/internal/middleware"
	"github.com/airsightlab/airsight-backend/internal/port"
	"github.com/airsightlab/airsight-backend/internal/service"
	"github.com/airsightlab/airsight-backend/pkg/config"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting AirSight",
		"port", cfg.Port,
		"facebook_enabled", cfg.FacebookEnabled(),
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	if err := pgStore.EnsureSchema(context.Background()); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	// ── Adapters ─────────────────────────────────────────────────────────
	providers := port.OAuthProviderRegistry{
		"google": auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL),
	}
	if cfg.FacebookEnabled() {
		providers["facebook"] = auth.NewFacebookProvider(cfg.FacebookClientID, cfg.FacebookClientSecret, cfg.FacebookRedirectURL)
	}

	openWeather := geo.NewOpenWeatherClient(cfg.OpenWeatherURL, cfg.OpenWeatherAPIKey)
	gibs := geo.NewNasaGIBSClient(cfg.NasaGIBSURL)
	mailer := mail.NewSMTPMailer(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass, cfg.EmailFrom)

	// ── Services ─────────────────────────────────────────────────────────
	jwtCfg := middleware.JWTConfig{
		Secret:    cfg.JWTSecret,
		ExpiresIn: time.Duration(cfg.JWTExpirationHours) * time.Hour,
	}

	authService := service.NewAuthService(pgStore, providers, mailer, jwtCfg, cfg.FrontendURL)
	questionnaireService := service.NewQuestionnaireService(pgStore)
	geoService := service.NewGeoService(openWeather, openWeather, gibs, pgStore, pgStore)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	// Audit middleware (logs all requests)
	app.Use(middleware.Audit(pgStore))

	// Health check
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"app":    cfg.AppName,
		})
	})

	// ── Public routes ────────────────────────────────────────────────────
	authHandler := handler.NewAuthHandler(authService, providers)
	authHandler.Register(app)

	// ── Protected questionnaire routes ───────────────────────────────────
	protected := app.Group("/auth", middleware.RequireAuth(jwtCfg, pgStore))
	questionnaireHandler := handler.NewQuestionnaireHandler(questionnaireService)
	questionnaireHandler.Register(protected)

	// ── Geo proxy routes (optional auth) ─────────────────────────────────
	api := app.Group("/api", middleware.OptionalAuth(jwtCfg, pgStore))
	geoHandler := handler.NewGeoHandler(geoService)
	geoHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
