package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"alert_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

const wsURL = "wss://ws.twelvedata.com/v1/quotes/price"

// ConnState — кусочек health-state, который трогает стрим.
type ConnState interface {
	SetWSConnected(v bool)
	TouchTick(t time.Time)
}

// Stream держит websocket к провайдеру и последнюю цену по подписанным
// символам. Движок на него не завязан (движок ходит через кэш),
// это быстрый путь для ассистента и /healthz.
type Stream struct {
	apiKey  string
	symbols []string
	dialer  *websocket.Dialer
	state   ConnState

	mu     sync.RWMutex
	prices map[string]float64
}

func NewStream(apiKey string, symbols []string, state ConnState) *Stream {
	return &Stream{
		apiKey:  apiKey,
		symbols: symbols,
		dialer:  &websocket.Dialer{},
		state:   state,
		prices:  make(map[string]float64),
	}
}

func (s *Stream) Get(symbol string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prices[symbol]
	return p, ok
}

func (s *Stream) set(symbol string, price float64) {
	s.mu.Lock()
	s.prices[symbol] = price
	s.mu.Unlock()
	if s.state != nil {
		s.state.TouchTick(time.Now())
	}
}

// Run — цикл подключения с бэкоффом и heartbeat. Завершается по ctx.
func (s *Stream) Run(ctx context.Context) {
	if len(s.symbols) == 0 {
		return
	}
	retry := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, _, err := s.dialer.Dial(wsURL+"?apikey="+s.apiKey, nil)
		if err != nil {
			retry++
			logger.Warn("marketdata: ws dial failed (try %d): %v", retry, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(300*min(retry, 10)) * time.Millisecond):
			}
			continue
		}
		retry = 0
		if s.state != nil {
			s.state.SetWSConnected(true)
		}

		_ = conn.WriteJSON(map[string]any{
			"action": "subscribe",
			"params": map[string]string{"symbols": strings.Join(s.symbols, ",")},
		})

		stopPing := make(chan struct{})
		go func() {
			t := time.NewTicker(10 * time.Second)
			defer t.Stop()
			for {
				select {
				case <-stopPing:
					return
				case <-ctx.Done():
					return
				case <-t.C:
					_ = conn.WriteJSON(map[string]string{"action": "heartbeat"})
				}
			}
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				close(stopPing)
				_ = conn.Close()
				if s.state != nil {
					s.state.SetWSConnected(false)
				}
				break
			}
			var frame struct {
				Event  string  `json:"event"`
				Symbol string  `json:"symbol"`
				Price  float64 `json:"price"`
			}
			if err := sonic.Unmarshal(msg, &frame); err == nil && frame.Event == "price" {
				if frame.Price != 0 {
					s.set(frame.Symbol, frame.Price)
				}
			}
		}

		select {
		case <-ctx.Done():
			return
		default:
			time.Sleep(1 * time.Second)
		}
	}
}
