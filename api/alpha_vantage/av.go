package alpha_vantage

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	c "github.com/Ehomey/smartrisk-lite/api"
	e "github.com/Ehomey/smartrisk-lite/extensions"
	m "github.com/Ehomey/smartrisk-lite/models"
)

// public
const (
	HostDefault = "www.alphavantage.co"
)

// private
const (
	// default query parameters
	defaultOutputSize = "full"
	defaultDataType   = "JSON"
	defaultTimeout    = time.Second * 30

	// api request elements
	query    = "query"
	symbol   = "symbol"
	function = "function"
	keywords = "keywords"

	dailySeriesKey = "Time Series (Daily)"
)

var timeSeriesDateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
}

type AlphaVantageClient struct {
	*c.Client
}

func GetClient(apiKey string) AlphaVantageClient {
	return AlphaVantageClient{
		c.ClientFactory(HostDefault, apiKey, defaultTimeout),
	}
}

// GetStockDailyAdjustedMetrics pulls the full daily adjusted history for a
// ticker. https://www.alphavantage.co/documentation/#dailyadj
func (avc *AlphaVantageClient) GetStockDailyAdjustedMetrics(ticker string) (*m.PriceHistoryResult, error) {
	if avc == nil || avc.Client == nil {
		panic("alpha vantage client has not been set.")
	}

	endpoint := avc.buildRequestPath(map[string]string{
		function: "TIME_SERIES_DAILY_ADJUSTED",
		symbol:   ticker,
	})

	response, err := avc.Client.Connection.Request(endpoint)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	raw, err := parseRawJson(response.Body)
	if err != nil {
		return nil, err
	}

	return ParseDailyAdjustedResult(raw)
}

// SearchSymbol resolves free-text input to matching tickers.
// https://www.alphavantage.co/documentation/#symbolsearch
func (avc *AlphaVantageClient) SearchSymbol(input string) ([]*m.AssetSearchResult, error) {
	endpoint := avc.buildRequestPath(map[string]string{
		function: "SYMBOL_SEARCH",
		keywords: input,
	})

	response, err := avc.Client.Connection.Request(endpoint)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	raw, err := parseRawJson(response.Body)
	if err != nil {
		return nil, err
	}

	return ParseSymbolSearchResult(raw)
}

func (avc *AlphaVantageClient) buildRequestPath(params map[string]string) *url.URL {
	endpoint := &url.URL{}
	endpoint.Path = query

	// base parameters
	query := endpoint.Query()
	query.Set("apikey", avc.Client.ApiKey)
	query.Set("datatype", defaultDataType)
	query.Set("outputsize", defaultOutputSize)

	// additional parameters
	for key, value := range params {
		query.Set(key, value)
	}

	endpoint.RawQuery = query.Encode()

	return endpoint
}

func parseRawJson(reader io.Reader) (raw map[string]json.RawMessage, err error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}

	return
}

// ParseDailyAdjustedResult converts a raw daily-adjusted payload into price
// store rows, oldest first. Exported so fixture tests can drive it without
// a live connection.
func ParseDailyAdjustedResult(raw map[string]json.RawMessage) (*m.PriceHistoryResult, error) {
	metadata, timeZone, err := parseMetaData(raw)
	if err != nil {
		return nil, err
	}

	var timeSeriesElements map[string]map[string]string
	if err := json.Unmarshal(raw[dailySeriesKey], &timeSeriesElements); err != nil {
		return nil, fmt.Errorf("error unmarshaling time series: %w", err)
	}

	if len(timeSeriesElements) == 0 {
		return nil, fmt.Errorf("daily time series missing from response")
	}

	var firstValue map[string]string
	for _, v := range timeSeriesElements {
		firstValue = v
		break
	}

	valueKeys := slices.Collect(maps.Keys(firstValue))
	closeKey, err := findValueKey(valueKeys, ". close")
	if err != nil {
		return nil, err
	}
	adjustedCloseKey, err := findValueKey(valueKeys, ". adjusted close")
	if err != nil {
		return nil, err
	}

	// volume and dividends are absent for some asset classes, keep nullable
	volumeKey, _ := findValueKey(valueKeys, ". volume")
	dividendKey, _ := findValueKey(valueKeys, ". dividend amount")

	pricePoints := make([]*m.PricePoint, 0, len(timeSeriesElements))
	for dateKey, values := range timeSeriesElements {
		timestamp, err := parseDate(dateKey, timeZone)
		if err != nil {
			return nil, fmt.Errorf("error converting timestamp from string to time.Time: %w", err)
		}

		pricePoints = append(pricePoints, &m.PricePoint{
			Timestamp:      timestamp,
			Close:          parseFloat(values[closeKey]),
			AdjustedClose:  parseFloat(values[adjustedCloseKey]),
			Volume:         parseNullFloat(values[volumeKey]),
			DividendAmount: parseNullFloat(values[dividendKey]),
		})
	}

	slices.SortFunc(pricePoints, func(a, b *m.PricePoint) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	return &m.PriceHistoryResult{
		Metadata:    metadata,
		PricePoints: pricePoints,
	}, nil
}

// ParseSymbolSearchResult converts a raw SYMBOL_SEARCH payload into search
// results, best match first (the API already orders by match score).
func ParseSymbolSearchResult(raw map[string]json.RawMessage) ([]*m.AssetSearchResult, error) {
	var matches []map[string]string
	if err := json.Unmarshal(raw["bestMatches"], &matches); err != nil {
		return nil, fmt.Errorf("error unmarshaling best matches: %w", err)
	}

	res := make([]*m.AssetSearchResult, 0, len(matches))
	for _, match := range matches {
		matchKeys := slices.Collect(maps.Keys(match))

		symbolKey, err := findValueKey(matchKeys, ". symbol")
		if err != nil {
			return nil, fmt.Errorf("error extracting symbol from search match")
		}
		nameKey, _ := findValueKey(matchKeys, ". name")
		typeKey, _ := findValueKey(matchKeys, ". type")
		regionKey, _ := findValueKey(matchKeys, ". region")

		ticker := strings.ToUpper(match[symbolKey])
		res = append(res, &m.AssetSearchResult{
			Ticker:     ticker,
			Name:       match[nameKey],
			Region:     match[regionKey],
			AssetClass: classifyAsset(ticker, match[typeKey]),
			Source:     "alpha_vantage",
		})
	}

	return res, nil
}

func classifyAsset(ticker, quoteType string) string {
	switch {
	case strings.HasSuffix(ticker, "-USD"), e.AreEqual(quoteType, "cryptocurrency"), e.AreEqual(quoteType, "crypto"):
		return "Crypto"
	case e.AreEqual(quoteType, "etf"):
		return "ETF"
	default:
		return "Stock"
	}
}

func parseMetaData(raw map[string]json.RawMessage) (*m.PriceMetadata, *time.Location, error) {
	var metadataElements map[string]string
	if err := json.Unmarshal(raw["Meta Data"], &metadataElements); err != nil {
		return nil, nil, fmt.Errorf("error unmarshaling meta data: %w", err)
	}

	metaDataKeys := slices.Collect(maps.Keys(metadataElements))

	symbolKey, err := findValueKey(metaDataKeys, ". Symbol")
	if err != nil {
		return nil, nil, fmt.Errorf("error extracting symbol for meta data")
	}

	timeZoneKey, err := findValueKey(metaDataKeys, ". Time Zone")
	if err != nil {
		return nil, nil, fmt.Errorf("error extracting time zone for meta data")
	}

	timeZone, err := getTimeZone(metadataElements[timeZoneKey])
	if err != nil {
		return nil, nil, fmt.Errorf("error converting time zone key %s, to time.Location: %w", metadataElements[timeZoneKey], err)
	}

	lastRefreshedKey, err := findValueKey(metaDataKeys, ". Last Refreshed")
	if err != nil {
		return nil, nil, fmt.Errorf("error extracting last refreshed date")
	}

	lastRefreshed, err := parseDate(metadataElements[lastRefreshedKey], timeZone)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing last refreshed date")
	}

	res := m.PriceMetadata{
		Symbol:        metadataElements[symbolKey],
		LastRefreshed: lastRefreshed,
	}

	return &res, timeZone, nil
}

// findValueKey locates the one response key with the given suffix; Alpha
// Vantage prefixes every field with an ordinal ("5. adjusted close") that
// shifts between endpoints.
func findValueKey(keys []string, suffix string) (string, error) {
	f := func(s string) bool {
		return strings.HasSuffix(strings.ToLower(s), strings.ToLower(suffix))
	}
	return e.FilterSingle(keys, f)
}

func getTimeZone(location string) (*time.Location, error) {
	var loc string
	switch strings.ToUpper(location) {
	case "US/EASTERN":
		loc = "America/New_York"
	default:
		log.Printf("default time zone hit, %s is not recognized", location)
		return time.UTC, nil
	}

	res, err := time.LoadLocation(loc)
	if err != nil {
		return nil, fmt.Errorf("error parsing time zone %s in time.LoadLocation", loc)
	}

	return res, nil
}

func parseDate(dateString string, location *time.Location) (time.Time, error) {
	for _, format := range timeSeriesDateFormats {
		t, err := time.ParseInLocation(format, dateString, location)
		if err != nil {
			continue
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("error converting date %s to time.Time", dateString)
}

func parseFloat(val string) float64 {
	if val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return 0
}

func parseNullFloat(val string) null.Float {
	if val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return null.FloatFrom(f)
		}
	}
	return null.Float{}
}
