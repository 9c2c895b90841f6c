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

	"github.com/lmdrew96/ChickenScratch-sub001/internal/access"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/audit"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/auth"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/config"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/gdoc"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/notify"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/ratelimit"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/roles"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/storage"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/submission"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/viewcache"
	"github.com/lmdrew96/ChickenScratch-sub001/pkg/logger"
	"github.com/lmdrew96/ChickenScratch-sub001/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local convenience; the env wins over the file.
	_ = godotenv.Load()

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

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
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

	limiter, err := ratelimit.NewRedisLimiter(rdb, "ratelimit:submit:", cfg.Limits.SubmitPerHour, time.Hour)
	if err != nil {
		log.Error("rate limiter init failed", "err", err)
		os.Exit(1)
	}

	files, err := storage.NewDiskStore(cfg.Uploads.Dir)
	if err != nil {
		log.Error("upload store init failed", "err", err)
		os.Exit(1)
	}

	var docs gdoc.Fetcher
	if cfg.GDoc.ExportBaseURL != "" {
		docs, err = gdoc.NewHTTPFetcher(cfg.GDoc.ExportBaseURL, cfg.GDoc.FetchTimeout)
		if err != nil {
			log.Error("doc fetcher init failed", "err", err)
			os.Exit(1)
		}
	}

	var sender notify.Sender = notify.DropSender{}
	if cfg.SMTP.Host != "" {
		sender = notify.NewSMTPSender(cfg.SMTP)
	} else {
		log.Warn("smtp not configured, status emails disabled")
	}

	roleSvc := roles.NewService(roles.NewPostgresRepo(db))
	guard := access.Guard{Roles: roleSvc}

	subSvc := submission.NewService(submission.Deps{
		Repo:    submission.NewPostgresRepo(db),
		Audit:   audit.NewService(audit.NewPostgresRepo(db), log),
		Notify:  notify.NewDispatcher(sender, log),
		Cache:   viewcache.NewRedisInvalidator(rdb, log),
		Files:   files,
		Docs:    docs,
		Limiter: limiter,
		Log:     log,
	})

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, routeDeps{
		db:          db,
		authMW:      auth.RequireAccessToken(authManager),
		guard:       guard,
		submissions: submission.HTTPHandler{Svc: subSvc},
		roles:       roles.HTTPHandler{Svc: roleSvc},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
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
