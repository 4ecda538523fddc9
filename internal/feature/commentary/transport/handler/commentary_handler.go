// Package handler はcommentaryフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/commentary/domain/entity"
	"fxsignal_backend/internal/feature/commentary/transport/http/dto"
	"fxsignal_backend/internal/feature/commentary/usecase"
	insusecase "fxsignal_backend/internal/feature/instruments/usecase"
)

// CommentaryUsecase はAI解説のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CommentaryUsecase interface {
	Explain(ctx context.Context, key string) (*entity.Commentary, error)
}

// CommentaryHandler はAI解説のHTTPリクエストを処理します。
type CommentaryHandler struct {
	uc CommentaryUsecase
}

// NewCommentaryHandler はCommentaryHandlerの新しいインスタンスを生成します。
func NewCommentaryHandler(uc CommentaryUsecase) *CommentaryHandler {
	return &CommentaryHandler{uc: uc}
}

// Explain は銘柄の分析結果の解説を返します。
//
// エンドポイント: GET /api/assets/:code/commentary
func (h *CommentaryHandler) Explain(c *gin.Context) {
	code := c.Param("code")

	out, err := h.uc.Explain(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCommentaryUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		case errors.Is(err, insusecase.ErrInstrumentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, candle.ErrProviderFailure), errors.Is(err, candle.ErrMalformedSeries):
			slog.Error("解説の元データ取得に失敗", "instrument", code, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			slog.Error("解説の生成に失敗", "instrument", code, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "解説の生成に失敗しました"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.FromCommentary(out))
}
