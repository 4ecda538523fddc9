package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveProvider("oanda", time.Now(), nil)
	m.ObserveProvider("oanda", time.Now(), errors.New("503"))
	m.ObserveAnalysis("XAU_USD", time.Now(), nil)
	m.ObserveRule("XAU_USD", "full", "ok")
	m.ObserveJournal(nil)
	m.ObserveJournal(errors.New("locked"))

	body := scrape(t, reg)
	assert.Contains(t, body, `fxsignal_provider_requests_total{provider="oanda",result="ok"} 1`)
	assert.Contains(t, body, `fxsignal_provider_requests_total{provider="oanda",result="error"} 1`)
	assert.Contains(t, body, `fxsignal_analyses_total{instrument="XAU_USD",result="ok"} 1`)
	assert.Contains(t, body, `fxsignal_rule_outcomes_total{instrument="XAU_USD",reason="ok",rule="full"} 1`)
	assert.Contains(t, body, `fxsignal_journal_writes_total{result="ok"} 1`)
	assert.Contains(t, body, `fxsignal_journal_writes_total{result="error"} 1`)

	// 同じレジストリへの二重登録はpanicする
	assert.Panics(t, func() { New(reg) })
}

func TestHandler(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveIngested("M15", 3)

	assert.Contains(t, scrape(t, reg), `fxsignal_ingested_candles_total{granularity="M15"} 3`)
}

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}
