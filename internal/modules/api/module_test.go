package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"alert_bot/internal/modules/config"
	"alert_bot/internal/modules/health/service"
	mdservice "alert_bot/internal/modules/marketdata/service"
	"alert_bot/pkg/logger"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.InfoLogger = zap.NewNop()
	logger.FatalLogger = zap.NewNop()
	os.Exit(m.Run())
}

type fakeRunner struct {
	calls int
	err   error
}

func (f *fakeRunner) Run(context.Context) error {
	f.calls++
	return f.err
}

func testMux(runner Runner, secret string) *http.ServeMux {
	cfg := &config.Config{EngineSecret: secret}
	return NewMux(service.NewState(), runner, mdservice.NewClient("test-key", 0), cfg)
}

func TestRunTriggerAuth(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		bearer   string
		wantCode int
		wantRuns int
	}{
		{"valid secret", "s3cret", "Bearer s3cret", http.StatusOK, 1},
		{"wrong secret", "s3cret", "Bearer nope", http.StatusUnauthorized, 0},
		{"missing header", "s3cret", "", http.StatusUnauthorized, 0},
		// пустой секрет запрещает триггер целиком
		{"empty configured secret", "", "Bearer ", http.StatusUnauthorized, 0},
		{"empty secret empty header", "", "", http.StatusUnauthorized, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			mux := testMux(runner, tt.secret)

			req := httptest.NewRequest(http.MethodPost, "/run", nil)
			if tt.bearer != "" {
				req.Header.Set("Authorization", tt.bearer)
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if runner.calls != tt.wantRuns {
				t.Errorf("engine invoked %d times, want %d", runner.calls, tt.wantRuns)
			}
		})
	}
}

func TestRunTriggerPreflight(t *testing.T) {
	runner := &fakeRunner{}
	mux := testMux(runner, "s3cret")

	// preflight отвечаем без авторизации и без прогона
	req := httptest.NewRequest(http.MethodOptions, "/run", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if runner.calls != 0 {
		t.Errorf("engine invoked %d times on preflight, want 0", runner.calls)
	}
}

func TestRunTriggerEngineFailure(t *testing.T) {
	runner := &fakeRunner{err: context.DeadlineExceeded}
	mux := testMux(runner, "s3cret")

	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	mux := testMux(&fakeRunner{}, "s3cret")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/livez = %d, want 200", rec.Code)
	}

	// readiness поднимается только после старта HTTP-сервера
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("/readyz = %d, want 503 until ready", rec.Code)
	}
}
