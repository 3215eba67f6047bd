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

	"smarttext/internal/audit"
	"smarttext/internal/auth"
	"smarttext/internal/completion"
	"smarttext/internal/config"
	"smarttext/internal/directory"
	"smarttext/internal/events"
	"smarttext/internal/httpapi"
	"smarttext/internal/messaging"
	"smarttext/internal/policy"
	"smarttext/internal/ratelimit"
	"smarttext/internal/reply"
	"smarttext/internal/reporting"
	"smarttext/internal/webhook"
	"smarttext/pkg/logger"
	"smarttext/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	// Domain wiring
	directoryRepo := directory.NewPostgresRepo(db)
	eventStore := events.NewPostgresStore(db)
	eventService := events.NewService(eventStore)

	engine := policy.NewEngine(ratelimit.NewRedisLimiter(rdb), cfg.Reply.RateLimitTTL)

	sources := []reply.Source{reply.FAQSource{}, reply.OrderingSource{}}
	if cfg.OpenAI.APIKey != "" {
		sources = append(sources, reply.AISource{
			Client:      completion.NewOpenAIClient(cfg.OpenAI),
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Temperature: cfg.OpenAI.Temperature,
		})
	} else {
		log.Warn("no completion api key configured, replies degrade to templates")
	}
	sources = append(sources, reply.GenericSource{})

	pipeline := &webhook.Pipeline{
		Resolver: directory.NewResolver(directoryRepo),
		Events:   eventService,
		Policy:   engine,
		Selector: reply.NewSelector(log, sources...),
		Provider: messaging.NewTwilioProvider(cfg.Twilio, ""),
	}

	handlers := httpapi.New(authManager, directoryRepo, eventService,
		reporting.NewService(eventStore), audit.NewService(audit.NewPostgresRepo(db)), db)

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, registerDeps{
		cfg:      cfg,
		db:       db,
		rdb:      rdb,
		auth:     authManager,
		handlers: handlers,
		webhooks: &webhook.Handler{
			Pipeline: pipeline,
			Verifier: webhook.Verifier{
				AuthToken: cfg.Twilio.AuthToken,
				BaseURL:   cfg.Twilio.WebhookBaseURL,
				Skip:      cfg.Twilio.SkipSignatureCheck,
			},
		},
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
