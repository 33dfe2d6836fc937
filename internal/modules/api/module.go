package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/fx"

	"alert_bot/internal/engine"
	"alert_bot/internal/modules/config"
	"alert_bot/internal/modules/health/service"
	mdservice "alert_bot/internal/modules/marketdata/service"
	"alert_bot/pkg/logger"
)

// Runner — то, что /run дёргает у движка.
type Runner interface {
	Run(ctx context.Context) error
}

func NewMux(state *service.State, orch Runner, client *mdservice.Client, cfg *config.Config) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		// liveness: процесс жив
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !state.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"ready":        state.Ready(),
			"wsConnected":  state.WSConnected(),
			"uptimeSec":    int64(state.Uptime().Seconds()),
			"runsTotal":    state.RunsTotal(),
			"alertsTotal":  state.AlertsTotal(),
			"lastRunUnix":  unixOrZero(state.LastRun()),
			"lastTickUnix": unixOrZero(state.LastTick()),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	// внешний триггер прогона движка; метод любой, кроме preflight
	mux.HandleFunc("/run", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		if !authorized(r, cfg.EngineSecret) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := orch.Run(r.Context()); err != nil {
			logger.Error("api: engine run failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Strategies processed successfully."})
	})

	mux.HandleFunc("/market", func(w http.ResponseWriter, r *http.Request) {
		status, ok := client.MarketState(r.Context(), cfg.MarketExchange)
		if !ok {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to fetch market state"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": status})
	})

	return mux
}

// authorized сравнивает bearer-токен с шаред-секретом. Пустой секрет
// запрещает триггер целиком — движок без секрета снаружи не дёргается.
func authorized(r *http.Request, secret string) bool {
	if secret == "" {
		return false
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, mux *http.ServeMux, state *service.State) {
	addr := fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.PublicPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			state.SetReady(true)
			go func() { _ = srv.Serve(ln) }()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("api",
		fx.Provide(
			func(orch *engine.Orchestrator) Runner { return orch },
			NewMux,
		),
		fx.Invoke(RunHTTP),
	)
}
