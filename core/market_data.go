package core

import (
	"fmt"
	"log"
	"slices"
	"time"

	ex "github.com/Ehomey/smartrisk-lite/extensions"
	m "github.com/Ehomey/smartrisk-lite/models"
)

// SyncSymbolPriceData makes sure the price store holds fresh daily history
// for a symbol. Within the TTL the store is authoritative and nothing is
// fetched; past it the provider history is pulled, new rows are inserted in
// one transaction, and the refresh timestamp advances. Returns where the
// data for this request effectively came from.
func (sc *ServiceContext) SyncSymbolPriceData(symbol string, ttl time.Duration) (m.DataSourceInfo, error) {
	md, err := sc.PostgresConnection.GetMetadataBySymbol(sc.Context, symbol)
	if err != nil {
		return m.DataSourceInfo{}, fmt.Errorf("error determining if metadata exists for %s: %w", symbol, err)
	}

	if md == nil {
		log.Printf("adding new symbol to price store: %s", symbol)
		md = &m.PriceMetadata{
			Symbol:        symbol,
			LastRefreshed: time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
		}

		if err := sc.PostgresConnection.InsertNewMetadata(sc.Context, md, nil); err != nil {
			return m.DataSourceInfo{}, fmt.Errorf("error adding %s to price store: %w", symbol, err)
		}
	}

	if time.Since(md.LastRefreshed) < ttl {
		return m.DataSourceInfo{Source: "cache", Cached: true}, nil
	}

	mrd, err := sc.PostgresConnection.GetMostRecentTimestampForSymbol(sc.Context, symbol)
	if err != nil {
		return m.DataSourceInfo{}, fmt.Errorf("error getting most recent price date for symbol %s: %w", symbol, err)
	}

	history, err := sc.AlphaVantageClient.GetStockDailyAdjustedMetrics(symbol)
	if err != nil {
		return m.DataSourceInfo{}, err
	}

	f := func(p *m.PricePoint) bool { return mrd == nil || p.Timestamp.After(*mrd) }
	toInsert := ex.FilterMultiple(history.PricePoints, f)

	tx, err := sc.PostgresConnection.GetTransaction(sc.Context)
	if err != nil {
		return m.DataSourceInfo{}, fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback(sc.Context) // this will kick off if we return before committing

	var inserted int64
	if len(toInsert) > 0 {
		inserted, err = sc.PostgresConnection.InsertPricePoints(sc.Context, toInsert, md.Id, &tx)
		if err != nil {
			return m.DataSourceInfo{}, fmt.Errorf("error inserting price data: %w", err)
		}
	}

	if err := sc.PostgresConnection.UpdateLastRefreshedDate(sc.Context, symbol, time.Now().UTC(), &tx); err != nil {
		return m.DataSourceInfo{}, err
	}

	if err := tx.Commit(sc.Context); err != nil {
		return m.DataSourceInfo{}, fmt.Errorf("error committing transaction for symbol %s: %w", symbol, err)
	}

	log.Printf("symbol %s got %v price rows from provider, inserted %v new", symbol, len(history.PricePoints), inserted)
	return m.DataSourceInfo{Source: "alpha_vantage", Cached: false}, nil
}

// GetAlignedPrices loads the lookback window of adjusted closes for every
// ticker it can serve and intersects them on common dates, so the table the
// engine receives has no gaps. Tickers that fail to sync or have no rows in
// the window are dropped here; the caller decides whether to proceed with
// the survivors.
func (sc *ServiceContext) GetAlignedPrices(tickers []string, lookback, ttl time.Duration) (*m.PriceSeries, map[string]m.DataSourceInfo, error) {
	since := time.Now().Add(-lookback)

	sources := make(map[string]m.DataSourceInfo, len(tickers))
	histories := make(map[string][]*m.PricePoint, len(tickers))
	fetched := make([]string, 0, len(tickers))

	for _, ticker := range tickers {
		info, err := sc.SyncSymbolPriceData(ticker, ttl)
		if err != nil {
			log.Printf("skipping %s, sync failed: %v", ticker, err)
			continue
		}

		points, err := sc.PostgresConnection.GetPriceHistory(sc.Context, ticker, since)
		if err != nil {
			log.Printf("skipping %s, price store read failed: %v", ticker, err)
			continue
		}
		if len(points) == 0 {
			log.Printf("skipping %s, no price history in window", ticker)
			continue
		}

		histories[ticker] = points
		sources[ticker] = info
		fetched = append(fetched, ticker)
	}

	if len(fetched) == 0 {
		return &m.PriceSeries{}, sources, nil
	}

	return alignPriceHistories(fetched, histories), sources, nil
}

// alignPriceHistories inner-joins the per-ticker histories on trading date.
// A date missing from any ticker is dropped for all of them, so differing
// trading calendars cannot leave gaps in the table.
func alignPriceHistories(tickers []string, histories map[string][]*m.PricePoint) *m.PriceSeries {
	byDate := make(map[string]map[string]float64)
	for ticker, points := range histories {
		for _, p := range points {
			date := ex.FmtShort(p.Timestamp)
			if byDate[date] == nil {
				byDate[date] = make(map[string]float64, len(tickers))
			}
			byDate[date][ticker] = p.AdjustedClose
		}
	}

	dates := make([]string, 0, len(byDate))
	for date, row := range byDate {
		if len(row) == len(tickers) {
			dates = append(dates, date)
		}
	}
	slices.Sort(dates)

	prices := make([][]float64, len(tickers))
	for i, ticker := range tickers {
		prices[i] = make([]float64, len(dates))
		for d, date := range dates {
			prices[i][d] = byDate[date][ticker]
		}
	}

	return &m.PriceSeries{
		Assets: tickers,
		Prices: prices,
	}
}
