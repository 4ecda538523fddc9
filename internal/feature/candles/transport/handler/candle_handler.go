// Package handler はcandlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/candles/transport/http/dto"
	"fxsignal_backend/internal/feature/candles/usecase"
)

// CandlesUsecase はローソク足データ操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CandlesUsecase interface {
	GetCandles(ctx context.Context, instrument string, granularity entity.Granularity, count int) ([]entity.Candle, error)
}

// CandlesHandler はローソク足データのHTTPリクエストを処理します。
type CandlesHandler struct {
	uc CandlesUsecase
}

// NewCandlesHandler は指定されたusecaseでCandlesHandlerの新しいインスタンスを生成します。
func NewCandlesHandler(uc CandlesUsecase) *CandlesHandler {
	return &CandlesHandler{uc: uc}
}

// GetCandlesHandler は銘柄コードと時間足を受け取り、保存済みのローソク足をJSONで返します。
//
// エンドポイント例:
// GET /api/candles/:code?granularity=M15&count=200
func (h *CandlesHandler) GetCandlesHandler(c *gin.Context) {
	code := c.Param("code")

	var g entity.Granularity
	if raw := c.Query("granularity"); raw != "" {
		parsed, err := entity.ParseGranularity(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		g = parsed
	}
	// 不正な値は0になり、usecase側でデフォルト値に置き換えられる
	count, _ := strconv.Atoi(c.DefaultQuery("count", strconv.Itoa(usecase.DefaultCount)))

	candles, err := h.uc.GetCandles(c.Request.Context(), code, g, count)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidGranularity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("failed to get candles", "instrument", code, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if g == "" {
		g = usecase.DefaultGranularity
	}
	c.JSON(http.StatusOK, dto.FromCandles(code, g, candles))
}
