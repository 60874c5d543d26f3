package models

import (
	"time"

	"github.com/guregu/null/v6"
)

// PriceMetadata is one row of price_series_metadata: what we know about a
// symbol in the price store and when its history was last refreshed from
// the upstream provider.
type PriceMetadata struct {
	Id            int32     `db:"id"`
	Symbol        string    `db:"symbol"`
	LastRefreshed time.Time `db:"last_refreshed"`
}

// PricePoint is one row of price_series_data. Volume and dividend amount
// are nullable because Alpha Vantage omits them for some asset classes.
type PricePoint struct {
	SourceId       int32      `db:"source_id"`
	Timestamp      time.Time  `db:"timestamp"`
	Close          float64    `db:"close"`
	AdjustedClose  float64    `db:"adjusted_close"`
	Volume         null.Float `db:"volume"`
	DividendAmount null.Float `db:"dividend_amount"`
}

// PriceHistoryResult bundles what one provider fetch returns for a symbol.
type PriceHistoryResult struct {
	Metadata    *PriceMetadata
	PricePoints []*PricePoint
}
