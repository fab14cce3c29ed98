package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"taskhub/internal/auth"
	"taskhub/internal/config"
	"taskhub/internal/httpapi"
	"taskhub/internal/repository"
	"taskhub/internal/service"
	"taskhub/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	authSvc := service.NewAuthService(userRepo, sessionRepo, tokens, cfg.LoginTokenTTL)
	taskSvc := service.NewTaskService(taskRepo)
	sessionSvc := service.NewSessionService(sessionRepo)

	var csrfStore store.TokenStore = store.NewMemoryStore()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis: %v", err)
		}
		csrfStore = store.NewRedisStore(client, "csrf:")
		defer client.Close()
		log.Println("Using Redis token store at", cfg.RedisAddr)
	}

	api := httpapi.New(httpapi.Options{
		Tokens:       tokens,
		Users:        userRepo,
		Sessions:     sessionRepo,
		Auth:         authSvc,
		Tasks:        taskSvc,
		CSRFStore:    csrfStore,
		CookieName:   cfg.CookieName,
		CookieSecure: cfg.CookieSecure,
		CORSOrigins:  cfg.CORSOrigins,
	})

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.SessionSweepInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.SessionSweepInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			n, err := sessionSvc.CleanupExpired(jobCtx)
			if err != nil {
				log.Printf("session sweep: %v", err)
				return
			}
			if n > 0 {
				log.Printf("session sweep: expired %d sessions", n)
			}
		}); err != nil {
			log.Fatalf("schedule session sweep: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Println("API listening on", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
