package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Derakings/Goalsaver/internal/config"
	"github.com/Derakings/Goalsaver/internal/db"
	"github.com/Derakings/Goalsaver/internal/email"
	apihttp "github.com/Derakings/Goalsaver/internal/http"
	"github.com/Derakings/Goalsaver/internal/maintenance"
	"github.com/Derakings/Goalsaver/internal/repository"
	"github.com/Derakings/Goalsaver/internal/service"

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

	if err := db.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	otpRepo := repository.NewPgOTPRepository(pool)
	notificationRepo := repository.NewPgNotificationRepository(pool)

	// The mail transport is built once here and injected; auth flows never
	// construct their own.
	var sender email.Sender = email.NewLogSender(logger)
	if cfg.SMTPHost != "" {
		gomailSender, err := email.NewGomailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			sender = gomailSender
		}
	}

	var limiter service.RateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisRateLimiter(redisClient, 5*time.Minute, 3)
		}
		cancel()
	}

	otpSvc := service.NewOTPService(logger, otpRepo, userRepo, sender, limiter)
	authSvc := service.NewAuthService(logger, userRepo, notificationRepo, otpSvc, sender)
	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)

	sweeper := maintenance.NewSweeper(otpSvc, logger, maintenance.WithSchedule(cfg.OTPSweepSchedule))
	if err := sweeper.Start(); err != nil {
		logger.Fatal("sweeper start", zap.Error(err))
	}
	defer sweeper.Stop()

	authHandler := apihttp.NewAuthHandler(logger, authSvc, jwtSvc)
	router := apihttp.NewRouter(logger, authHandler, apihttp.JWTAuthMiddleware(jwtSvc))

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
