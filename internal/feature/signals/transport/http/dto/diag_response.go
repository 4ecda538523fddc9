package dto

import "fxsignal_backend/internal/feature/signals/usecase"

// DiagResponse はプロバイダ診断の結果です。APIキーそのものは含めません。
type DiagResponse struct {
	Provider    string   `json:"provider"`
	Env         string   `json:"env"`
	BaseURL     string   `json:"base_url"`
	HasAPIKey   bool     `json:"has_api_key"`
	Instruments []string `json:"instruments"`
	TestOK      bool     `json:"test_ok"`
	TestBars    int      `json:"test_bars"`
	TestError   string   `json:"test_err,omitempty"`
}

func FromDiag(r usecase.DiagReport) DiagResponse {
	return DiagResponse{
		Provider:    r.Provider.Name,
		Env:         r.Provider.Env,
		BaseURL:     r.Provider.BaseURL,
		HasAPIKey:   r.Provider.HasAPIKey,
		Instruments: r.Instruments,
		TestOK:      r.TestOK,
		TestBars:    r.TestBars,
		TestError:   r.TestError,
	}
}
