package alpha_vantage

import (
	"encoding/json"
	"strings"
	"testing"

	ex "github.com/Ehomey/smartrisk-lite/extensions"
)

const dailyAdjustedFixture = `{
	"Meta Data": {
		"1. Information": "Daily Time Series with Splits and Dividend Events",
		"2. Symbol": "AAPL",
		"3. Last Refreshed": "2026-08-25",
		"4. Output Size": "Full size",
		"5. Time Zone": "US/Eastern"
	},
	"Time Series (Daily)": {
		"2026-08-25": {
			"1. open": "231.0000",
			"2. high": "233.5000",
			"3. low": "230.1000",
			"4. close": "232.5000",
			"5. adjusted close": "232.5000",
			"6. volume": "41250300",
			"7. dividend amount": "0.0000",
			"8. split coefficient": "1.0"
		},
		"2026-08-24": {
			"1. open": "229.0000",
			"2. high": "231.2000",
			"3. low": "228.4000",
			"4. close": "230.0000",
			"5. adjusted close": "229.7500",
			"6. volume": "38900100",
			"7. dividend amount": "0.2500",
			"8. split coefficient": "1.0"
		}
	}
}`

const symbolSearchFixture = `{
	"bestMatches": [
		{
			"1. symbol": "MSFT",
			"2. name": "Microsoft Corporation",
			"3. type": "Equity",
			"4. region": "United States",
			"8. currency": "USD",
			"9. matchScore": "1.0000"
		},
		{
			"1. symbol": "VOO",
			"2. name": "Vanguard S&P 500 ETF",
			"3. type": "ETF",
			"4. region": "United States",
			"8. currency": "USD",
			"9. matchScore": "0.5000"
		},
		{
			"1. symbol": "btc-usd",
			"2. name": "Bitcoin USD",
			"3. type": "Cryptocurrency",
			"4. region": "United States",
			"8. currency": "USD",
			"9. matchScore": "0.4000"
		}
	]
}`

func rawFixture(t *testing.T, fixture string) map[string]json.RawMessage {
	t.Helper()
	raw, err := parseRawJson(strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("error parsing fixture: %v", err)
	}
	return raw
}

func TestParseDailyAdjustedResult(t *testing.T) {
	res, err := ParseDailyAdjustedResult(rawFixture(t, dailyAdjustedFixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ex.AssertAreEqual(t, "symbol", "AAPL", res.Metadata.Symbol)
	ex.AssertAreEqual(t, "point count", 2, len(res.PricePoints))

	// points are sorted oldest first regardless of map iteration order
	first, second := res.PricePoints[0], res.PricePoints[1]
	if !first.Timestamp.Before(second.Timestamp) {
		t.Fatalf("expected ascending timestamps, got %v then %v", first.Timestamp, second.Timestamp)
	}

	ex.AssertAreEqual(t, "first close", 230.0, first.Close)
	ex.AssertAreEqual(t, "first adjusted close", 229.75, first.AdjustedClose)
	ex.AssertAreEqual(t, "first volume set", true, first.Volume.Valid)
	ex.AssertAreEqual(t, "first volume", 38900100.0, first.Volume.Float64)
	ex.AssertAreEqual(t, "first dividend", 0.25, first.DividendAmount.Float64)

	ex.AssertAreEqual(t, "second close", 232.5, second.Close)
	ex.AssertAreEqual(t, "tz", "America/New_York", first.Timestamp.Location().String())

	ex.AssertAreEqual(t, "last refreshed", "2026-08-25", ex.FmtShort(res.Metadata.LastRefreshed))
}

func TestParseDailyAdjustedResultMissingSeries(t *testing.T) {
	fixture := `{
		"Meta Data": {
			"2. Symbol": "AAPL",
			"3. Last Refreshed": "2026-08-25",
			"5. Time Zone": "US/Eastern"
		},
		"Time Series (Daily)": {}
	}`

	if _, err := ParseDailyAdjustedResult(rawFixture(t, fixture)); err == nil {
		t.Fatal("expected an error for an empty time series")
	}
}

func TestParseSymbolSearchResult(t *testing.T) {
	res, err := ParseSymbolSearchResult(rawFixture(t, symbolSearchFixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ex.AssertAreEqual(t, "match count", 3, len(res))

	ex.AssertAreEqual(t, "equity ticker", "MSFT", res[0].Ticker)
	ex.AssertAreEqual(t, "equity name", "Microsoft Corporation", res[0].Name)
	ex.AssertAreEqual(t, "equity class", "Stock", res[0].AssetClass)
	ex.AssertAreEqual(t, "equity region", "United States", res[0].Region)
	ex.AssertAreEqual(t, "source", "alpha_vantage", res[0].Source)

	ex.AssertAreEqual(t, "etf class", "ETF", res[1].AssetClass)

	// symbols come back upper cased and -USD implies crypto
	ex.AssertAreEqual(t, "crypto ticker", "BTC-USD", res[2].Ticker)
	ex.AssertAreEqual(t, "crypto class", "Crypto", res[2].AssetClass)
}

func TestClassifyAsset(t *testing.T) {
	ex.AssertAreEqual(t, "crypto suffix", "Crypto", classifyAsset("ETH-USD", "Equity"))
	ex.AssertAreEqual(t, "crypto type", "Crypto", classifyAsset("XBT", "Cryptocurrency"))
	ex.AssertAreEqual(t, "etf", "ETF", classifyAsset("SPY", "etf"))
	ex.AssertAreEqual(t, "default", "Stock", classifyAsset("AAPL", "Equity"))
}

func TestBuildRequestPath(t *testing.T) {
	client := GetClient("demo-key")

	endpoint := client.buildRequestPath(map[string]string{
		function: "SYMBOL_SEARCH",
		keywords: "apple",
	})

	ex.AssertAreEqual(t, "path", "query", endpoint.Path)

	params := endpoint.Query()
	ex.AssertAreEqual(t, "apikey", "demo-key", params.Get("apikey"))
	ex.AssertAreEqual(t, "function", "SYMBOL_SEARCH", params.Get("function"))
	ex.AssertAreEqual(t, "keywords", "apple", params.Get("keywords"))
	ex.AssertAreEqual(t, "outputsize", "full", params.Get("outputsize"))
}
