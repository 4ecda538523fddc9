package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"fxsignal_backend/internal/feature/instruments/domain/entity"
)

// mockInstrumentUsecase はInstrumentUsecaseインターフェースのモック実装です。
type mockInstrumentUsecase struct {
	ListActiveInstrumentsFunc func(ctx context.Context) ([]entity.Instrument, error)
}

func (m *mockInstrumentUsecase) ListActiveInstruments(ctx context.Context) ([]entity.Instrument, error) {
	if m.ListActiveInstrumentsFunc != nil {
		return m.ListActiveInstrumentsFunc(ctx)
	}
	return nil, nil
}

func TestNewInstrumentHandler(t *testing.T) {
	t.Parallel()

	h := NewInstrumentHandler(&mockInstrumentUsecase{})

	assert.NotNil(t, h, "handler should not be nil")
	assert.NotNil(t, h.uc, "usecase should not be nil")
}

// TestInstrumentHandler_List はListハンドラーの各種シナリオをテーブル駆動テストで検証します。
func TestInstrumentHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		listFunc       func(ctx context.Context) ([]entity.Instrument, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: returns instruments",
			listFunc: func(ctx context.Context) ([]entity.Instrument, error) {
				return []entity.Instrument{
					{ID: 1, Code: "XAU_USD", Name: "Gold (XAU/USD)", Class: "metal", MinDistance: 10, Profile: "default", IsActive: true},
					{ID: 2, Code: "EUR_USD", Name: "EUR/USD", Class: "fx", MinDistance: 0.002, Profile: "fast", IsActive: true},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `[{"code":"XAU_USD","name":"Gold (XAU/USD)","class":"metal","min_distance":10,"profile":"default"},` +
				`{"code":"EUR_USD","name":"EUR/USD","class":"fx","min_distance":0.002,"profile":"fast"}]`,
		},
		{
			name: "success: nil from usecase renders empty list",
			listFunc: func(ctx context.Context) ([]entity.Instrument, error) {
				return nil, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "failure: usecase returns error",
			listFunc: func(ctx context.Context) ([]entity.Instrument, error) {
				return nil, errors.New("database connection failed")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"database connection failed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewInstrumentHandler(&mockInstrumentUsecase{ListActiveInstrumentsFunc: tt.listFunc})
			router := gin.New()
			router.GET("/api/instruments", h.List)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/instruments", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
