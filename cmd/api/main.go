package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/melvis/internal/app"
	"github.com/suPer8Hu/melvis/internal/chat"
	"github.com/suPer8Hu/melvis/internal/config"
	"github.com/suPer8Hu/melvis/internal/httpapi"
	"github.com/suPer8Hu/melvis/internal/httpapi/handlers"
	"github.com/suPer8Hu/melvis/internal/logger"
	"github.com/suPer8Hu/melvis/internal/store/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var extra []chat.Option
	pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		log.Warn("rabbitmq unavailable, async chat disabled", "err", err)
	} else {
		defer pub.Close()
		extra = append(extra, chat.WithPublisher(pub))
	}

	a, err := app.New(ctx, cfg, log, extra...)
	if err != nil {
		log.Fatal("init app", "err", err)
	}
	defer a.Close()

	h := &handlers.Handler{
		DB:          a.DB,
		JWTSecret:   cfg.JWTSecret,
		ChatSvc:     a.Chat,
		AssessSvc:   a.Assessments,
		VideoSvc:    a.Videos,
		Selector:    a.Selector,
		Log:         log,
		AsyncChatOn: pub != nil,
	}
	router := httpapi.NewRouter(h, httpapi.Options{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
		Metrics:     a.Metrics,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "err", err)
	}
}
