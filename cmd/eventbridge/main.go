package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"eventbridge/internal/config"
	cronrunner "eventbridge/internal/cron"
	"eventbridge/internal/discord"
	"eventbridge/internal/dispatch"
	"eventbridge/internal/handler"
	"eventbridge/internal/logger"
	"eventbridge/internal/notification"

	_ "eventbridge/docs"
)

func main() {
	cfgPath := os.Getenv("EB_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("EB_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	} else if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		envOnly = true
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	bot, err := discord.New(cfg.Discord.Token, cfg.Discord.ClientID, logger)
	if err != nil {
		logger.Fatal("discord session init failed", zap.Error(err))
	}
	bot.GuildWait = cfg.Discord.GuildWait

	dispatcher := &dispatch.Dispatcher{
		Gate:     bot.Gate,
		Platform: bot,
		Logger:   logger,
		Timeout:  cfg.Discord.RequestTimeout,
	}
	if cfg.Discord.Commands {
		bot.Commands = &discord.Commands{
			Responder:  bot.Session,
			Dispatcher: dispatcher,
			Logger:     logger,
		}
	}

	fanout := &notification.Fanout{Logger: logger, Timeout: cfg.Notify.Timeout}
	if cfg.Notify.ChannelID != "" {
		fanout.Notifiers = append(fanout.Notifiers, &discord.ChannelNotifier{Sender: bot.Session, ChannelID: cfg.Notify.ChannelID})
	}
	if cfg.Notify.WebhookURL != "" {
		fanout.Notifiers = append(fanout.Notifiers, notification.WebhookSender{
			URL:  cfg.Notify.WebhookURL,
			HTTP: &http.Client{Timeout: cfg.Notify.Timeout},
		})
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(handler.RequestID())
	engine.Use(handler.AccessLog(logger))

	healthHandler := &handler.HealthHandler{Gate: bot.Gate}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)
	webhookHandler := &handler.WebhookHandler{
		Dispatcher:   dispatcher,
		Notifier:     fanout,
		Logger:       logger,
		Secret:       cfg.Webhook.Secret,
		MaxBodyBytes: cfg.Webhook.MaxBodyBytes,
	}
	webhookHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bot.Open(); err != nil {
		logger.Fatal("discord login failed", zap.Error(err))
	}
	defer func() {
		if err := bot.Close(); err != nil {
			logger.Warn("discord session close failed", zap.Error(err))
		}
	}()

	cronRunner := cronrunner.New(logger, ctx)
	if spec := strings.TrimSpace(cfg.Status.ReportEvery); spec != "" {
		if _, err := cronRunner.Add(spec, cronrunner.StatusReport(bot, logger)); err != nil {
			logger.Warn("cron register status report failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting",
			zap.String("addr", cfg.Server.HTTPAddr),
			zap.String("env", cfg.App.Env),
			zap.Int("notifiers", len(fanout.Notifiers)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
