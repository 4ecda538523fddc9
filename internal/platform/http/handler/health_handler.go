// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// readyTimeout は依存先1件あたりの確認時間の上限です。
const readyTimeout = 2 * time.Second

// Check は依存先（DB、Redisなど）の疎通を確認します。
type Check func(ctx context.Context) error

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// プロセスが応答できれば常に成功します。キャッシュは防止します。
func Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Ready は /readyz 用のハンドラーを返します。すべてのcheckが成功した場合のみ200、
// 1つでも失敗すれば503と失敗した依存先の一覧を返します。
func Ready(checks map[string]Check) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		failed := gin.H{}
		for _, name := range names {
			ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
			err := checks[name](ctx)
			cancel()
			if err != nil {
				failed[name] = err.Error()
			}
		}

		if len(failed) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "failed": failed})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
