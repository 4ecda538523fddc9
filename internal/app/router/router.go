// Package router はHTTPルーティングを組み立てます。
package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	candleshandler "fxsignal_backend/internal/feature/candles/transport/handler"
	commentaryhandler "fxsignal_backend/internal/feature/commentary/transport/handler"
	instrumentshandler "fxsignal_backend/internal/feature/instruments/transport/handler"
	signalshandler "fxsignal_backend/internal/feature/signals/transport/handler"
	"fxsignal_backend/internal/platform/http/handler"
	"fxsignal_backend/internal/platform/http/middleware"
	jwtmw "fxsignal_backend/internal/platform/jwt"
)

// Handlers はルーターに登録するハンドラー群です。Commentary、Ready、Metricsはnil可です。
type Handlers struct {
	Candles     *candleshandler.CandlesHandler
	Instruments *instrumentshandler.InstrumentHandler
	Signals     *signalshandler.SignalsHandler
	Commentary  *commentaryhandler.CommentaryHandler
	Ready       gin.HandlerFunc
	Metrics     http.Handler
}

// Options はルーター全体の振る舞いを決めます。
type Options struct {
	RequireAuth bool
	JWTSecret   string
	CORSOrigins []string
}

func NewRouter(h Handlers, opt Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), gin.Logger(), gin.Recovery())
	if len(opt.CORSOrigins) > 0 {
		r.Use(cors.New(corsConfig(opt.CORSOrigins)))
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	if h.Ready != nil {
		r.GET("/readyz", h.Ready)
	}
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := r.Group("/api")
	// REQUIRE_AUTH=true の時だけJWTを要求する（ダッシュボードは社内公開が前提）
	if opt.RequireAuth {
		api.Use(jwtmw.AuthRequired(opt.JWTSecret))
	}
	{
		api.GET("/instruments", h.Instruments.List)
		api.GET("/candles/:code", h.Candles.GetCandlesHandler)

		api.GET("/assets/:code", h.Signals.GetAsset)
		api.GET("/menu_status", h.Signals.MenuStatus)
		api.GET("/signals/:code/history", h.Signals.History)
		api.GET("/diag", h.Signals.Diag)

		if h.Commentary != nil {
			api.GET("/assets/:code/commentary", h.Commentary.Explain)
		}
	}

	return r
}

// corsConfig は "*" を全許可として扱います。
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
