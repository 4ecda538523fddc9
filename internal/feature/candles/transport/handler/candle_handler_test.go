package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/candles/transport/handler"
	"fxsignal_backend/internal/feature/candles/usecase"
)

// mockCandlesUsecase はCandlesUsecaseインターフェースのモック実装です。
type mockCandlesUsecase struct {
	GetCandlesFunc func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error)
}

func (m *mockCandlesUsecase) GetCandles(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
	return m.GetCandlesFunc(ctx, instrument, g, count)
}

// TestCandlesHandler_GetCandlesHandler はGetCandlesHandlerのHTTPリクエスト/レスポンス処理をテストします。
func TestCandlesHandler_GetCandlesHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testTime := time.Date(2025, 1, 2, 9, 15, 0, 0, time.UTC)

	tests := []struct {
		name           string
		url            string
		mockGetCandles func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: all parameters specified",
			url:  "/api/candles/XAU_USD?granularity=H1&count=10",
			mockGetCandles: func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
				assert.Equal(t, "XAU_USD", instrument)
				assert.Equal(t, entity.H1, g)
				assert.Equal(t, 10, count)
				return []entity.Candle{
					{Time: testTime, Open: 100, High: 110, Low: 90, Close: 105, Volume: 1000, Complete: true},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"instrument":"XAU_USD","granularity":"H1","candles":[{"time":"2025-01-02T09:15:00Z","open":100,"high":110,"low":90,"close":105,"volume":1000,"complete":true}]}`,
		},
		{
			name: "success: alias granularity and default count",
			url:  "/api/candles/EUR_USD?granularity=5m",
			mockGetCandles: func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
				assert.Equal(t, entity.M5, g)
				assert.Equal(t, 200, count)
				return []entity.Candle{}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"instrument":"EUR_USD","granularity":"M5","candles":[]}`,
		},
		{
			name: "success: granularity omitted uses the usecase default",
			url:  "/api/candles/EUR_USD",
			mockGetCandles: func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
				assert.Equal(t, entity.Granularity(""), g)
				return nil, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"instrument":"EUR_USD","granularity":"M15","candles":[]}`,
		},
		{
			name:           "error: unknown granularity",
			url:            "/api/candles/EUR_USD?granularity=W1",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"unknown granularity \"W1\""}`,
		},
		{
			name: "error: usecase rejects granularity",
			url:  "/api/candles/EUR_USD",
			mockGetCandles: func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
				return nil, usecase.ErrInvalidGranularity
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid granularity"}`,
		},
		{
			name: "error: usecase returns error",
			url:  "/api/candles/EUR_USD",
			mockGetCandles: func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
				return nil, errors.New("database error")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"database error"}`,
		},
		{
			name: "edge case: invalid count string is passed as zero",
			url:  "/api/candles/EUR_USD?count=invalid",
			mockGetCandles: func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
				assert.Equal(t, 0, count)
				return []entity.Candle{}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"instrument":"EUR_USD","granularity":"M15","candles":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockCandlesUsecase{GetCandlesFunc: tt.mockGetCandles}
			if mockUC.GetCandlesFunc == nil {
				mockUC.GetCandlesFunc = func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
					t.Error("usecase should not be called")
					return nil, nil
				}
			}
			h := handler.NewCandlesHandler(mockUC)

			router := gin.New()
			router.GET("/api/candles/:code", h.GetCandlesHandler)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
