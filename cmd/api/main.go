// Package main is the entrypoint for the Neuronova API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/neuronova/neuronova/internal/ai"
	"github.com/neuronova/neuronova/internal/cache"
	"github.com/neuronova/neuronova/internal/config"
	"github.com/neuronova/neuronova/internal/handler"
	"github.com/neuronova/neuronova/internal/metrics"
	"github.com/neuronova/neuronova/internal/middleware"
	"github.com/neuronova/neuronova/internal/repository"
	"github.com/neuronova/neuronova/internal/server"
	"github.com/neuronova/neuronova/internal/service"
)

func main() {
	ctx := context.Background()

	// Load .env in development; ignore if absent
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	aiClient := ai.NewClient(ai.ClientConfig{
		APIKey:    cfg.AnthropicAPIKey,
		BaseURL:   cfg.AnthropicBaseURL,
		Model:     cfg.AIModel,
		MaxTokens: cfg.AIMaxTokens,
		Timeout:   cfg.AITimeout,
	})
	if cfg.AnthropicAPIKey == "" {
		logger.Warn("AI completion key not set, chat will serve fallback replies")
	}

	metricsRecorder := metrics.NewInMemory()

	chatService := service.NewChatService(repo, aiClient, logger, metricsRecorder)
	checkinService := service.NewCheckinService(repo, cacheClient, logger, metricsRecorder)
	journalService := service.NewJournalService(repo)
	accountService := service.NewAccountService(repo, cacheClient, cfg.SessionTTL, logger, metricsRecorder)

	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)
	authHandler := handler.NewAuthHandler(accountService, logger)
	chatHandler := handler.NewChatHandler(chatService, logger)
	checkinHandler := handler.NewCheckinHandler(checkinService, logger)
	journalHandler := handler.NewJournalHandler(journalService, logger)
	accountHandler := handler.NewAccountHandler(accountService, logger)

	r := setupRouter(routerDeps{
		base:    h,
		health:  healthHandler,
		metrics: metricsHandler,
		auth:    authHandler,
		chat:    chatHandler,
		checkin: checkinHandler,
		journal: journalHandler,
		account: accountHandler,
		cache:   cacheClient,
		cfg:     cfg,
		logger:  logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	base    *handler.Handler
	health  *handler.HealthHandler
	metrics *handler.MetricsHandler
	auth    *handler.AuthHandler
	chat    *handler.ChatHandler
	checkin *handler.CheckinHandler
	journal *handler.JournalHandler
	account *handler.AccountHandler
	cache   *cache.Cache
	cfg     *config.Config
	logger  *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      deps.cfg.IsDevelopment(),
		MaxRequestBodySize: deps.cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = deps.cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	// Root info endpoint
	r.Get("/", deps.base.Hello)

	sessionCfg := middleware.SessionConfig{
		Logger: deps.logger,
		Cache:  deps.cache,
	}
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:      deps.logger,
		Cache:       deps.cache,
		UserEnabled: deps.cfg.RateLimitAPIEnabled,
		UserRPM:     deps.cfg.RateLimitUserRPM,
		UserBurst:   deps.cfg.RateLimitUserBurst,
		AuthRPM:     deps.cfg.RateLimitAuthRPM,
		AuthBurst:   deps.cfg.RateLimitAuthBurst,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Credential endpoints, rate limited per IP
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimitAuth(rateLimitCfg)).Post("/signup", deps.auth.SignUp)
			r.With(middleware.RateLimitAuth(rateLimitCfg)).Post("/signin", deps.auth.SignIn)
			r.Post("/signout", deps.auth.SignOut)
		})

		// Everything below requires a session
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(sessionCfg))
			r.Use(middleware.RateLimitUser(rateLimitCfg))

			r.Route("/chat", func(r chi.Router) {
				r.Get("/conversation", deps.chat.ActiveConversation)
				r.Post("/messages", deps.chat.SendMessage)
			})

			r.Route("/checkins", func(r chi.Router) {
				r.Post("/", deps.checkin.Create)
				r.Get("/", deps.checkin.List)
				r.Get("/streak", deps.checkin.Streak)
				r.Get("/summary", deps.checkin.Summary)
			})

			r.Route("/journal", func(r chi.Router) {
				r.Post("/", deps.journal.Create)
				r.Get("/", deps.journal.List)
				r.Get("/{id}", deps.journal.Get)
				r.Delete("/{id}", deps.journal.Delete)
			})

			r.Route("/account", func(r chi.Router) {
				r.Get("/profile", deps.account.Profile)
				r.Post("/onboarding", deps.account.CompleteOnboarding)
				r.Put("/subscription", deps.account.ChangeSubscription)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		msg = strings.ReplaceAll(msg, secret, "[redacted]")
	}

	return passwordPattern.ReplaceAllString(msg, "password=[redacted]")
}
