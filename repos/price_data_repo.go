package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	m "github.com/Ehomey/smartrisk-lite/models"
)

// GetPriceHistory returns a symbol's stored daily prices on or after the
// cutoff, oldest first.
func (pg *Postgres) GetPriceHistory(ctx context.Context, symbol string, since time.Time) ([]*m.PricePoint, error) {
	query := `
		SELECT
			psd.source_id,
			psd."timestamp",
			psd."close",
			psd.adjusted_close,
			psd.volume,
			psd.dividend_amount
		FROM price_series_data psd
		JOIN price_series_metadata psm ON psd.source_id = psm.id
		WHERE psm.symbol = @symbol
		AND psd."timestamp" >= @since
		ORDER BY psd."timestamp" ASC`

	args := pgx.NamedArgs{
		"symbol": symbol,
		"since":  since,
	}

	res, err := Query[m.PricePoint](ctx, pg, query, args)
	if err != nil {
		return nil, fmt.Errorf("unable to query price history by symbol (%s): %w", symbol, err)
	}

	return res, nil
}

// GetMostRecentTimestampForSymbol returns nil when the symbol has no rows.
func (pg *Postgres) GetMostRecentTimestampForSymbol(ctx context.Context, symbol string) (*time.Time, error) {
	query := `
		SELECT MAX(psd."timestamp")
		FROM price_series_data psd
		JOIN price_series_metadata psm ON psd.source_id = psm.id
		WHERE psm.symbol = @symbol`

	args := pgx.NamedArgs{
		"symbol": symbol,
	}

	var res *time.Time
	if err := pg.db.QueryRow(ctx, query, args).Scan(&res); err != nil {
		return nil, fmt.Errorf("unable to query most recent timestamp for symbol (%s): %w", symbol, err)
	}

	return res, nil
}

func (pg *Postgres) InsertPricePoints(ctx context.Context, data []*m.PricePoint, sourceId int32, tx *pgx.Tx) (int64, error) {
	columns := []string{
		"source_id", "timestamp", "close", "adjusted_close", "volume", "dividend_amount",
	}

	entries := make([][]any, len(data))
	for i, ent := range data {
		entries[i] = []any{
			sourceId, ent.Timestamp, ent.Close, ent.AdjustedClose, ent.Volume, ent.DividendAmount,
		}
	}

	if tx == nil {
		return pg.db.CopyFrom(ctx, pgx.Identifier{"price_series_data"}, columns, pgx.CopyFromRows(entries))
	}
	return (*tx).CopyFrom(ctx, pgx.Identifier{"price_series_data"}, columns, pgx.CopyFromRows(entries))
}
