// Package middleware はHTTPサーバー共通のginミドルウェアを提供します。
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fxsignal_backend/internal/platform/logger"
)

const (
	// RequestIDHeader はリクエストIDを伝搬するHTTPヘッダーです。
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey はgin.Contextに保存するキーです。
	RequestIDKey = "request_id"
)

// RequestID は受信したX-Request-IDを引き継ぎ、なければUUIDを採番します。
// IDはレスポンスヘッダー、gin.Context、request contextの全てに設定されます。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
