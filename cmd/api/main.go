package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"prism-api/internal/config"
	"prism-api/internal/db"
	"prism-api/internal/email"
	apihttp "prism-api/internal/http"
	"prism-api/internal/llm"
	"prism-api/internal/repository"
	"prism-api/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	itemRepo := repository.NewPgItemRepository(pool)
	responseRepo := repository.NewPgResponseRepository(pool)
	resultRepo := repository.NewPgResultRepository(pool)
	roleRepo := repository.NewPgRoleProfileRepository(pool)
	userRepo := repository.NewPgUserRepository(pool)

	var llmClient llm.LLMClient
	if cfg.LLMAPIKey != "" {
		llmClient = llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	} else {
		logger.Warn("llm api key not configured, role analysis disabled")
	}

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		tokenStore     service.RefreshTokenStore
		selectionCache service.SelectionCache
		limiter        service.RateLimiter
		redisClient    *redis.Client
	)
	limiter = service.NewMemoryRateLimiter(
		time.Duration(cfg.RateLimitWindowSeconds)*time.Second,
		cfg.RateLimitMax,
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
			selectionCache = service.NewRedisSelectionCache(redisClient, time.Duration(cfg.SelectionCacheTTLMinutes)*time.Minute)
			limiter = service.NewRedisRateLimiter(redisClient, "ratelimit:", time.Duration(cfg.RateLimitWindowSeconds)*time.Second, cfg.RateLimitMax)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)

	userSvc := service.NewUserService(userRepo)
	assessSvc := service.NewAssessmentService(
		itemRepo,
		responseRepo,
		resultRepo,
		userRepo,
		service.QuestionSelector{},
		service.ScoringEngine{},
		selectionCache,
		emailSender,
		logger,
	)
	roleSvc := service.NewRoleProfileService(roleRepo, llmClient, logger)

	router := apihttp.NewRouter(
		logger,
		apihttp.NewUserHandler(logger, userSvc, jwtSvc),
		apihttp.NewAssessmentHandler(logger, assessSvc),
		apihttp.NewFitHandler(logger, assessSvc, roleSvc, service.FitCalculator{}),
		apihttp.NewRoleHandler(logger, roleSvc),
		jwtSvc,
		limiter,
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
