package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/suPer8Hu/melvis/internal/ai"
	"github.com/suPer8Hu/melvis/internal/assessment"
	"github.com/suPer8Hu/melvis/internal/chat"
	"github.com/suPer8Hu/melvis/internal/config"
	"github.com/suPer8Hu/melvis/internal/db"
	"github.com/suPer8Hu/melvis/internal/intent"
	"github.com/suPer8Hu/melvis/internal/logger"
	"github.com/suPer8Hu/melvis/internal/metrics"
	"github.com/suPer8Hu/melvis/internal/models"
	"github.com/suPer8Hu/melvis/internal/store/redisstore"
	"github.com/suPer8Hu/melvis/internal/video"
)

// App holds the services shared by cmd/api and cmd/worker.
type App struct {
	Cfg      config.Config
	Log      *logger.Logger
	DB       *gorm.DB
	Metrics  *metrics.Metrics
	Selector *intent.Selector

	Chat        *chat.Service
	Assessments *assessment.Service
	Videos      *video.Service

	redis *redisstore.Store
}

// New connects storage and wires every service. extra chat options are
// appended after the ones derived from cfg.
func New(ctx context.Context, cfg config.Config, log *logger.Logger, extra ...chat.Option) (*App, error) {
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(gdb,
		&models.User{},
		&chat.Turn{},
		&chat.Session{},
		&chat.Job{},
		&assessment.Assessment{},
		&video.Recommendation{},
	); err != nil {
		return nil, err
	}

	m := metrics.New("melvis")

	catalog := intent.DefaultCatalog()
	classifier, err := intent.NewClassifier(catalog)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}
	selector := intent.NewSelector(catalog)

	a := &App{Cfg: cfg, Log: log, DB: gdb, Metrics: m, Selector: selector}

	searcher := a.videoSearcher(ctx)
	a.Videos = video.NewService(video.NewRepo(gdb), searcher, log)
	a.Assessments = assessment.NewService(assessment.NewRepo(gdb), m)

	opts := []chat.Option{chat.WithMetrics(m)}
	if cfg.AIFallbackEnabled {
		responder, err := a.supportResponder(ctx)
		if err != nil {
			log.Warn("ai fallback disabled", "provider", cfg.AIProvider, "err", err)
		} else {
			opts = append(opts, chat.WithFallback(responder, cfg.AIFallbackThreshold))
			log.Info("ai fallback enabled", "provider", cfg.AIProvider, "threshold", cfg.AIFallbackThreshold)
		}
	}
	opts = append(opts, extra...)
	a.Chat = chat.NewService(chat.NewRepo(gdb), classifier, selector, a.Videos, log, opts...)

	return a, nil
}

// videoSearcher layers offline fallback over an optional Redis cache over
// YouTube. Missing credentials or an unreachable Redis only remove a layer.
func (a *App) videoSearcher(ctx context.Context) video.Searcher {
	var primary video.Searcher
	yt, err := video.NewYouTubeSearcher(ctx, a.Cfg.YouTubeAPIKey)
	if err != nil {
		a.Log.Warn("youtube search unavailable, serving offline results", "err", err)
	} else {
		primary = yt

		rs := redisstore.New(a.Cfg.RedisAddr, a.Cfg.RedisPassword, a.Cfg.RedisDB)
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rs.Ping(pctx); err != nil {
			a.Log.Warn("redis unavailable, video search cache disabled", "addr", a.Cfg.RedisAddr, "err", err)
			_ = rs.Close()
		} else {
			a.redis = rs
			primary = video.NewCachedSearcher(yt, rs, a.Cfg.VideoCacheTTL, a.Log, a.Metrics)
		}
	}
	return video.NewFallbackSearcher(primary, a.Cfg.VideoSearchTimeout, a.Log, a.Metrics)
}

func (a *App) providerRegistry() *ai.Registry {
	cfg := a.Cfg
	reg := ai.NewRegistry()
	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, m), nil
	})
	reg.Register("openrouter", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		if strings.TrimSpace(cfg.OpenRouterAPIKey) == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY is not set")
		}
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OpenRouterModel
		}
		return ai.NewOpenRouterProvider(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, m, cfg.OpenRouterSiteURL, cfg.OpenRouterAppName), nil
	})
	return reg
}

func (a *App) supportResponder(ctx context.Context) (*ai.SupportResponder, error) {
	p, err := a.providerRegistry().Get(ctx, a.Cfg.AIProvider, "")
	if err != nil {
		return nil, err
	}
	return ai.NewSupportResponder(p, 0), nil
}

func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
