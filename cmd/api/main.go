package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartpersona/internal/audit"
	"smartpersona/internal/auth"
	"smartpersona/internal/authentication"
	"smartpersona/internal/config"
	"smartpersona/internal/httpapi"
	"smartpersona/internal/password"
	"smartpersona/internal/users"
	"smartpersona/pkg/logger"
	"smartpersona/pkg/utils"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load the .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			slog.Error("failed to load .env", "err", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	hasher := password.NewHasher(password.DefaultParams)
	auditor := audit.NewService(audit.NewPostgresRepo(db))
	userSvc := users.NewService(users.NewPostgresRepo(db), hasher)
	authSvc := authentication.NewService(
		userSvc,
		hasher,
		tokens,
		authentication.NewRedisLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.AttemptWindow),
		auditor,
	)

	h := httpapi.Handlers{
		Auth:    authSvc,
		Users:   userSvc,
		Audit:   auditor,
		Session: auth.SessionTransport{Production: cfg.IsProduction(), MaxAge: cfg.Auth.CookieMaxAge},
		Ping: func(ctx context.Context) error {
			return utils.HealthCheck(ctx, db, 2*time.Second)
		},
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.New(requestid.WithGenerator(uuid.NewString)))
	r.Use(logger.Middleware(log))
	r.Use(corsMiddleware(cfg.Server.CORSAllowedOrigin))
	r.Use(bodyLimit(cfg.Server.BodyLimitMB))
	r.Use(requestTimeout(cfg.Server.Timeout))

	h.Mount(r, tokens)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
