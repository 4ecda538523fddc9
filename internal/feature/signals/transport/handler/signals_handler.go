// Package handler はsignalsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
	insusecase "fxsignal_backend/internal/feature/instruments/usecase"
	"fxsignal_backend/internal/feature/signals/domain/entity"
	"fxsignal_backend/internal/feature/signals/transport/http/dto"
	"fxsignal_backend/internal/feature/signals/usecase"
)

// AnalyzeUsecase は分析ユースケースのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AnalyzeUsecase interface {
	Analyze(ctx context.Context, key string) (*entity.Analysis, error)
	MenuStatus(ctx context.Context) ([]entity.MenuItem, error)
}

type HistoryUsecase interface {
	ListRecent(ctx context.Context, key string, limit int) ([]entity.JournalEntry, error)
}

type DiagUsecase interface {
	Diagnose(ctx context.Context) usecase.DiagReport
}

// SignalsHandler は分析結果・履歴・診断のHTTPリクエストを処理します。
type SignalsHandler struct {
	analyze AnalyzeUsecase
	history HistoryUsecase
	diag    DiagUsecase
}

func NewSignalsHandler(analyze AnalyzeUsecase, history HistoryUsecase, diag DiagUsecase) *SignalsHandler {
	return &SignalsHandler{analyze: analyze, history: history, diag: diag}
}

// statusFor はusecaseのエラーをHTTPステータスに対応付けます。
func statusFor(err error) int {
	switch {
	case errors.Is(err, insusecase.ErrInstrumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, candle.ErrProviderFailure), errors.Is(err, candle.ErrMalformedSeries):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// GetAsset は1銘柄の分析結果を返します。codeは銘柄コードまたは表示名です。
// rangeを指定するとチャート系列を1D/1W/1Mに絞ります。
//
// エンドポイント例:
// GET /api/assets/XAU_USD?range=1D
func (h *SignalsHandler) GetAsset(c *gin.Context) {
	code := c.Param("code")
	rng, err := entity.ParseChartRange(c.Query("range"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.analyze.Analyze(c.Request.Context(), code)
	if err != nil {
		status := statusFor(err)
		if status != http.StatusNotFound {
			slog.ErrorContext(c.Request.Context(), "failed to analyze instrument", "instrument", code, "error", err)
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromAnalysis(a).WithRange(a, rng))
}

// MenuStatus は全銘柄の取引可否を返します。
//
// エンドポイント例:
// GET /api/menu_status
func (h *SignalsHandler) MenuStatus(c *gin.Context) {
	items, err := h.analyze.MenuStatus(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to build menu status", "error", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromMenuItems(items))
}

// History は記録済みのトレード候補を新しい順に返します。
//
// エンドポイント例:
// GET /api/signals/XAU_USD/history?limit=50
func (h *SignalsHandler) History(c *gin.Context) {
	code := c.Param("code")
	// 不正な値は0になり、usecase側でデフォルト値に置き換えられる
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(usecase.DefaultHistoryLimit)))

	entries, err := h.history.ListRecent(c.Request.Context(), code, limit)
	if err != nil {
		status := statusFor(err)
		if status != http.StatusNotFound {
			slog.ErrorContext(c.Request.Context(), "failed to list signal history", "instrument", code, "error", err)
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	instrument := code
	if len(entries) > 0 {
		instrument = entries[0].Instrument
	}
	c.JSON(http.StatusOK, dto.FromJournal(instrument, entries))
}

// Diag はプロバイダ設定と疎通結果を返します。疎通に失敗しても200を返します。
//
// エンドポイント例:
// GET /api/diag
func (h *SignalsHandler) Diag(c *gin.Context) {
	c.JSON(http.StatusOK, dto.FromDiag(h.diag.Diagnose(c.Request.Context())))
}
