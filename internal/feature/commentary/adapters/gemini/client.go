// Package gemini はGoogle Gemini APIを使用した解説生成クライアントを提供します。
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"fxsignal_backend/internal/feature/commentary/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// GeminiAnalyzer はGoogle Gemini APIを使用して分析結果の解説を生成します。
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// GeminiAnalyzerがAnalyzerを実装していることをコンパイル時に検証します。
var _ usecase.Analyzer = (*GeminiAnalyzer)(nil)

// NewGeminiAnalyzer はGeminiAnalyzerの新しいインスタンスを生成します。
// 認証は環境変数から解決されます（GEMINI_API_KEY、またはGOOGLE_GENAI_USE_VERTEXAIとADC）。
// modelが空の場合はDefaultModelを使います。
func NewGeminiAnalyzer(ctx context.Context, model string) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiAnalyzer{client: client, model: model}, nil
}

// Analyze はプロンプトから解説文を生成します。
func (g *GeminiAnalyzer) Analyze(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return resp.Text(), nil
}
