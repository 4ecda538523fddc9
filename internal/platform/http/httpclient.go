// Package http は外部APIクライアント向けの共通HTTP設定を提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient はマーケットデータAPI呼び出し用のHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト（デフォルトより短い）
//   - MaxIdleConnsPerHost: 同一プロバイダへの並列取得（4時間足を同時取得）で接続を使い回すため8
//   - ResponseHeaderTimeout: ヘッダーが返らないプロバイダを早めに打ち切る
//   - Client.Timeout: リクエスト全体のタイムアウト（呼び出し元から渡される）
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にカスタムクライアントを使用すること
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: responseHeaderTimeout(timeout),
	}
	return &http.Client{Timeout: timeout, Transport: t}
}

// responseHeaderTimeout は全体タイムアウト以内に収まるヘッダー待ち時間です。0は無制限を意味します。
func responseHeaderTimeout(total time.Duration) time.Duration {
	if total <= 0 {
		return 0
	}
	return min(total, 10*time.Second)
}
