package service

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"alert_bot/internal/indicator"
	"alert_bot/pkg/logger"
)

const defaultBaseURL = "https://api.twelvedata.com"

// Client — HTTP-клиент Twelve Data. Любой сбой (транспорт, не-2xx, ошибка в теле
// ответа) даёт nil: за этой границей ошибки не летят, ретраев нет. Отсутствие
// данных — повод пропустить символ/индикатор, а не валить прогон.
type Client struct {
	http    *http.Client
	apiKey  string
	baseURL string
}

func NewClient(apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
}

// Fetch выполняет один вызов провайдера и возвращает сырой JSON или nil.
func (c *Client) Fetch(ctx context.Context, req indicator.Request) []byte {
	q := url.Values{}
	for _, p := range req.Params {
		q.Set(p.Key, p.Value)
	}
	q.Set("apikey", c.apiKey)
	q.Set("format", "JSON")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+req.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		logger.Error("marketdata: build request %s: %v", req.Endpoint, err)
		return nil
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		logger.Error("marketdata: %s failed: %v", req.Key(), err)
		return nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		logger.Error("marketdata: %s http %d: %s", req.Key(), resp.StatusCode, string(body))
		return nil
	}

	// провайдер отвечает 200 и кладёт ошибку в тело
	payload, err := ParsePayload(body)
	if err != nil {
		logger.Error("marketdata: %s malformed response: %v", req.Key(), err)
		return nil
	}
	if payload.Failed() {
		logger.Error("marketdata: %s provider error: code=%d msg=%s", req.Key(), payload.Code, payload.Message)
		return nil
	}

	return body
}
