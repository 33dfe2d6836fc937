package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alert_bot/internal/indicator"
	"alert_bot/internal/models"
	mdservice "alert_bot/internal/modules/marketdata/service"
	"alert_bot/pkg/logger"
)

// Лимит запросов рыночных данных через ассистента в сутки на пользователя.
const maxMarketDataRequests = 15

// StrategyRepo — срез репозитория стратегий, нужный ассистенту.
type StrategyRepo interface {
	Create(ctx context.Context, st *models.Strategy) error
	ListByUser(ctx context.Context, userID int64) ([]models.Strategy, error)
	SearchByName(ctx context.Context, userID int64, name string) ([]models.Strategy, error)
	Delete(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status models.StrategyStatus) error
}

// UsageRepo — дневной счётчик запросов рыночных данных.
type UsageRepo interface {
	Requests(ctx context.Context, userID int64, day time.Time) (int, error)
	Increment(ctx context.Context, userID int64, day time.Time) error
}

// PriceSource — последняя цена из websocket-стрима.
type PriceSource interface {
	Get(symbol string) (float64, bool)
}

// Service — rule-based ассистент: интент по регуляркам, без LLM.
// Рыночные данные ходят через тот же кэш, что и движок.
type Service struct {
	strategies StrategyRepo
	usage      UsageRepo
	fetch      mdservice.Fetcher
	stream     PriceSource
}

func New(strategies StrategyRepo, usage UsageRepo, fetch mdservice.Fetcher, stream PriceSource) *Service {
	return &Service{
		strategies: strategies,
		usage:      usage,
		fetch:      fetch,
		stream:     stream,
	}
}

// Handle возвращает ответ пользователю; никогда не возвращает ошибку —
// любые проблемы превращаются в человекочитаемый текст.
func (s *Service) Handle(ctx context.Context, userID int64, message string) string {
	switch DetectIntent(message) {
	case IntentGreeting:
		return "Hello! How can I help you with your trading strategies today?"

	case IntentCreateStrategy:
		return s.createStrategy(ctx, userID, message)

	case IntentListStrategies:
		return s.listStrategies(ctx, userID)

	case IntentDeleteStrategy:
		return s.deleteStrategy(ctx, userID, message)

	case IntentStartStrategy:
		return s.toggleStrategy(ctx, userID, message, models.StatusRunning)

	case IntentStopStrategy:
		return s.toggleStrategy(ctx, userID, message, models.StatusStopped)

	case IntentGetMarketData:
		return s.marketData(ctx, userID, message)

	case IntentTradingConcept:
		lower := strings.ToLower(message)
		for key, answer := range knowledgeBase {
			if strings.Contains(lower, key) {
				return answer
			}
		}
		return "I can answer questions about basic terms like `RSI`, `SMA`, and `timeframe`. What would you like to know?"

	case IntentHowToExport:
		return "You can export your trade history directly from the Trade Journal page.\n\n" +
			"1. Go to the Trade Journal page from the sidebar.\n" +
			"2. Click the Export button near the top right.\n" +
			"3. A CSV file of your trades will be downloaded."

	case IntentTroubleshoot:
		return "If you're not receiving alerts, here are a few things to check:\n\n" +
			"1. Is the strategy running? Make sure it has the 'running' status.\n" +
			"2. Are the conditions being met? Market conditions might not be triggering your strategy right now.\n" +
			"3. Are Telegram settings correct? Double-check your Bot Token and Chat ID, and ensure alerts are enabled.\n" +
			"4. Did you invoke the engine? It runs periodically, but you can trigger a manual run to test it."

	case IntentConversation:
		return "I am an assistant designed to help you with trading strategies. I can't hold a general conversation, " +
			"but I'm great at creating, listing, and deleting strategies, and defining trading terms."

	case IntentHelp:
		return "I'm a command-based assistant. Here's what I can do:\n\n" +
			"1. Create strategies: `Create a strategy for AAPL when RSI < 30.`\n" +
			"2. List your strategies: `Show me my strategies.`\n" +
			"3. Delete a strategy: `Delete my RSI Scalper strategy.`\n" +
			"4. Start or stop a strategy: `Start my RSI Scalper strategy.`\n" +
			"5. Get market data (15/day): `What is the price of TSLA?`\n" +
			"6. Define trading terms: `What is a Simple Moving Average?`"
	}

	return "Sorry, I didn't understand that. I'm best at creating and listing strategies, or defining trading terms.\n\n" +
		"For example, you could say:\n" +
		"- `Create a strategy for GOOG when price > SMA50`\n" +
		"- `Show my strategies`\n" +
		"- `What is RSI?`\n\n" +
		"Type `help` for a full list of commands."
}

func (s *Service) createStrategy(ctx context.Context, userID int64, message string) string {
	st, errReply := ParseStrategyCommand(message)
	if errReply != "" {
		return errReply
	}
	st.UserID = userID
	if err := s.strategies.Create(ctx, st); err != nil {
		logger.Error("assistant: create strategy: %v", err)
		return "Sorry, I couldn't save that strategy. Please try again."
	}
	return fmt.Sprintf("Successfully created the %q strategy. You can view and activate it on the Strategies page.", st.Name)
}

func (s *Service) listStrategies(ctx context.Context, userID int64) string {
	list, err := s.strategies.ListByUser(ctx, userID)
	if err != nil {
		logger.Error("assistant: list strategies: %v", err)
		return "Sorry, I couldn't load your strategies. Please try again."
	}
	if len(list) == 0 {
		return "You don't have any strategies yet. Try creating one!"
	}
	var b strings.Builder
	b.WriteString("Here are your current strategies:\n\n")
	for _, st := range list {
		fmt.Fprintf(&b, "- %s (Status: %s)\n", st.Name, st.Status)
	}
	return b.String()
}

func (s *Service) deleteStrategy(ctx context.Context, userID int64, message string) string {
	name, errReply := ParseDeleteCommand(message)
	if errReply != "" {
		return errReply
	}
	found, err := s.strategies.SearchByName(ctx, userID, name)
	if err != nil {
		logger.Error("assistant: search strategy: %v", err)
		return "Sorry, something went wrong. Please try again."
	}
	if len(found) == 0 {
		return fmt.Sprintf("I couldn't find a strategy with a name similar to %q. Please check the name and try again.", name)
	}
	if len(found) > 1 {
		return fmt.Sprintf("I found multiple strategies with names similar to %q. Please be more specific.", name)
	}
	if err := s.strategies.Delete(ctx, found[0].ID); err != nil {
		logger.Error("assistant: delete strategy: %v", err)
		return "Sorry, I couldn't delete that strategy. Please try again."
	}
	return fmt.Sprintf("Successfully deleted the %q strategy.", found[0].Name)
}

func (s *Service) toggleStrategy(ctx context.Context, userID int64, message string, status models.StrategyStatus) string {
	name, errReply := ParseToggleCommand(message)
	if errReply != "" {
		return errReply
	}
	found, err := s.strategies.SearchByName(ctx, userID, name)
	if err != nil {
		logger.Error("assistant: search strategy: %v", err)
		return "Sorry, something went wrong. Please try again."
	}
	if len(found) == 0 {
		return fmt.Sprintf("I couldn't find a strategy with a name similar to %q. Please check the name and try again.", name)
	}
	if len(found) > 1 {
		return fmt.Sprintf("I found multiple strategies with names similar to %q. Please be more specific.", name)
	}
	if err := s.strategies.SetStatus(ctx, found[0].ID, status); err != nil {
		logger.Error("assistant: set strategy status: %v", err)
		return "Sorry, I couldn't update that strategy. Please try again."
	}
	if status == models.StatusRunning {
		return fmt.Sprintf("The %q strategy is now running. The engine will evaluate it on its next pass.", found[0].Name)
	}
	return fmt.Sprintf("The %q strategy has been stopped.", found[0].Name)
}

func (s *Service) marketData(ctx context.Context, userID int64, message string) string {
	used, err := s.usage.Requests(ctx, userID, time.Now())
	if err != nil {
		logger.Warn("assistant: usage lookup: %v", err)
	}
	if used >= maxMarketDataRequests {
		return fmt.Sprintf("You have reached your daily limit of %d market data requests. Please try again tomorrow.", maxMarketDataRequests)
	}

	symbol, ind, errReply := ParseMarketDataCommand(message)
	if errReply != "" {
		return errReply
	}

	if ind == "price" {
		// быстрый путь: цена из websocket-стрима, если символ подписан.
		// Лимит считается одинаково для обоих путей.
		if s.stream != nil {
			if price, ok := s.stream.Get(symbol); ok {
				_ = s.usage.Increment(ctx, userID, time.Now())
				return fmt.Sprintf("The current price of %s is $%.2f.", symbol, price)
			}
		}
		var payload *mdservice.Payload
		if raw := s.fetch.GetOrFetch(ctx, indicator.PriceRequest(symbol)); raw != nil {
			payload, _ = mdservice.ParsePayload(raw)
		}
		price, ok := payload.PriceValue()
		if !ok {
			return fmt.Sprintf("Sorry, I couldn't fetch data for %s. Please check the symbol and try again.", symbol)
		}
		_ = s.usage.Increment(ctx, userID, time.Now())
		return fmt.Sprintf("The current price of %s is $%.2f.", symbol, price)
	}

	name, _ := indicator.Known(ind)
	req, _ := indicator.RequestFor(name, symbol, models.TF15m)
	raw := s.fetch.GetOrFetch(ctx, req)
	if raw == nil {
		return fmt.Sprintf("Sorry, I couldn't fetch data for %s. Please check the symbol and try again.", symbol)
	}
	payload, err := mdservice.ParsePayload(raw)
	if err != nil {
		return fmt.Sprintf("Sorry, I couldn't fetch data for %s. Please check the symbol and try again.", symbol)
	}
	value, _ := payload.Latest(indicator.SeriesKey(name))
	if value == nil {
		return fmt.Sprintf("Sorry, I couldn't fetch data for %s. Please check the symbol and try again.", symbol)
	}
	_ = s.usage.Increment(ctx, userID, time.Now())
	return fmt.Sprintf("The current 15-minute %s for %s is %.2f.", ind, symbol, *value)
}
