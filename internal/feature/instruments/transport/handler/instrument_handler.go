package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"fxsignal_backend/internal/feature/instruments/domain/entity"
	"fxsignal_backend/internal/feature/instruments/transport/http/dto"
)

// InstrumentUsecase は銘柄カタログに関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type InstrumentUsecase interface {
	ListActiveInstruments(ctx context.Context) ([]entity.Instrument, error)
}

// InstrumentHandler は銘柄カタログに関するHTTPリクエストを処理します。
type InstrumentHandler struct {
	uc InstrumentUsecase
}

// NewInstrumentHandler は新しい InstrumentHandler を作成します。
func NewInstrumentHandler(uc InstrumentUsecase) *InstrumentHandler {
	return &InstrumentHandler{uc: uc}
}

// List は有効な銘柄の一覧を返します。
// Usecaseでエラーが発生した場合は500 Internal Server Errorを返します。
func (h *InstrumentHandler) List(c *gin.Context) {
	instruments, err := h.uc.ListActiveInstruments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromInstruments(instruments))
}
