package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fxsignal_backend/internal/app/router"
	candleadapters "fxsignal_backend/internal/feature/candles/adapters"
	candleshandler "fxsignal_backend/internal/feature/candles/transport/handler"
	candleusecase "fxsignal_backend/internal/feature/candles/usecase"
	"fxsignal_backend/internal/feature/commentary/adapters/gemini"
	commentaryhandler "fxsignal_backend/internal/feature/commentary/transport/handler"
	commentaryusecase "fxsignal_backend/internal/feature/commentary/usecase"
	insadapters "fxsignal_backend/internal/feature/instruments/adapters"
	"fxsignal_backend/internal/feature/instruments/adapters/catalog"
	insentity "fxsignal_backend/internal/feature/instruments/domain/entity"
	instrumentshandler "fxsignal_backend/internal/feature/instruments/transport/handler"
	insusecase "fxsignal_backend/internal/feature/instruments/usecase"
	signalsadapters "fxsignal_backend/internal/feature/signals/adapters"
	signalshandler "fxsignal_backend/internal/feature/signals/transport/handler"
	signalsusecase "fxsignal_backend/internal/feature/signals/usecase"
	"fxsignal_backend/internal/platform/cache"
	"fxsignal_backend/internal/platform/config"
	"fxsignal_backend/internal/platform/db"
	"fxsignal_backend/internal/platform/http/handler"
	"fxsignal_backend/internal/platform/metrics"
	"fxsignal_backend/internal/shared/ratelimiter"
)

// candleCacheTTL はDBから読んだ履歴をキャッシュする時間です。ingestで書き込むと無効化されます。
const candleCacheTTL = 5 * time.Minute

// Models はAutoMigrateの対象テーブルです。
func Models() []any {
	return []any{&candleadapters.CandleModel{}, &insentity.Instrument{}, &signalsadapters.SignalModel{}}
}

// OpenDatabase はDBへ接続します。SQLiteは単体起動用なので常にマイグレーションします。
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	migrate := cfg.RunMigrations || cfg.DB.Driver == db.DriverSQLite
	return db.OpenDB(cfg.DB, migrate, Models()...)
}

// LoadCatalog は銘柄カタログを読み込み、DBの銘柄テーブルへ同期します。
func LoadCatalog(ctx context.Context, cfg *config.Config, gdb *gorm.DB) (*catalog.Catalog, *insusecase.InstrumentUsecase, error) {
	cat, err := catalog.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, nil, err
	}
	uc := insusecase.NewInstrumentUsecase(insadapters.NewInstrumentRepository(gdb))
	if err := uc.SyncCatalog(ctx, cat.Instruments); err != nil {
		return nil, nil, err
	}
	return cat, uc, nil
}

// Server はHTTPサービスを構成する全コンポーネントを保持します。
type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

// NewServer はcfgに従ってHTTPサービスを組み立てます。
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	gdb, err := OpenDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	cat, insUC, err := LoadCatalog(ctx, cfg, gdb)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	rdb := NewRedis(ctx, cfg)
	store := NewStore(rdb)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	market, err := NewMarket(cfg)
	if err != nil {
		return nil, err
	}
	limiter := ratelimiter.NewRateLimiter(market.Info.Name, cfg.ProviderRatePerMin, time.Minute)
	live := NewInstrumentedMarket(market.Repo, market.Info.Name, limiter, m)
	cached := cache.NewCachingMarketRepository(store, cache.SystemClock{}, cfg.CacheTTL, live, "market")

	// Repository
	candleRepo := cache.NewCachingCandleRepository(store, candleCacheTTL, candleadapters.NewCandleRepository(gdb), "candles")
	journal := observedJournal{JournalRepository: signalsadapters.NewJournalRepository(gdb), metrics: m}

	// Usecase
	candlesUC := candleusecase.NewCandlesUsecase(candleRepo)
	analyzeUC := signalsusecase.NewAnalyzeUsecase(cached, insUC, cat, cat.Rules, journal, m)
	historyUC := signalsusecase.NewHistoryUsecase(insUC, journal)
	// 診断はキャッシュを通さず実際のプロバイダへ問い合わせる
	diagUC := signalsusecase.NewDiagUsecase(live, insUC, market.Info)

	var commentaryH *commentaryhandler.CommentaryHandler
	if cfg.GeminiEnabled {
		var analyzer commentaryusecase.Analyzer
		if g, err := gemini.NewGeminiAnalyzer(ctx, cfg.GeminiModel); err != nil {
			slog.Warn("Gemini unavailable, commentary disabled", "error", err)
		} else {
			analyzer = g
		}
		commentaryH = commentaryhandler.NewCommentaryHandler(
			commentaryusecase.NewCommentaryUsecase(analyzeUC, analyzer, store, commentaryusecase.DefaultCacheTTL))
	}

	// Handler
	checks := map[string]handler.Check{
		"db": func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	engine := router.NewRouter(router.Handlers{
		Candles:     candleshandler.NewCandlesHandler(candlesUC),
		Instruments: instrumentshandler.NewInstrumentHandler(insUC),
		Signals:     signalshandler.NewSignalsHandler(analyzeUC, historyUC, diagUC),
		Commentary:  commentaryH,
		Ready:       handler.Ready(checks),
		Metrics:     metrics.Handler(reg),
	}, router.Options{
		RequireAuth: cfg.RequireAuth,
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
	})

	slog.Info("server assembled",
		"provider", market.Info.Name, "env", market.Info.Env,
		"instruments", len(cat.Instruments), "redis", rdb != nil, "commentary", commentaryH != nil)
	return &Server{Engine: engine, DB: gdb, Redis: rdb}, nil
}

// Close はDBとRedisの接続を閉じます。
func (s *Server) Close() error {
	var errs []error
	if s.Redis != nil {
		errs = append(errs, s.Redis.Close())
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}
