package assistant

// knowledgeBase — ответы на базовые вопросы по терминам. Ключи проверяются
// как подстроки сообщения в нижнем регистре, порядок обхода не важен.
var knowledgeBase = map[string]string{
	"rsi": "The Relative Strength Index (RSI) is a momentum indicator that measures the speed and change of price movements. " +
		"It is typically used on a 14-period timeframe and is considered overbought when above 70 and oversold when below 30.",
	"sma": "A Simple Moving Average (SMA) is a technical indicator that calculates the average of a selected range of prices, " +
		"usually closing prices, by the number of periods in that range. For example, `SMA50` is the average price over the last 50 periods.",
	"moving average": "A moving average is a stock indicator that is commonly used in technical analysis. " +
		"The reason for calculating the moving average of a stock is to help smooth out the price data by creating a constantly updated average price.",
	"timeframe": "In trading, a timeframe refers to the period of time that a trader chooses to observe the market. " +
		"Common timeframes include 1-minute (`1m`), 15-minute (`15m`), 1-hour (`1h`), 4-hour (`4h`), and 1-day (`1d`). " +
		"Shorter timeframes are typically used for scalping, while longer timeframes are used for swing or position trading.",
}
