package models

// ReturnSeries is a chronologically ordered table of daily fractional
// returns, one column per asset. Columns are stored asset-major so the
// engine can hand a whole asset history to gonum without copying.
// Rows are oldest first and hold no missing values; the data layer aligns
// and drops incomplete dates before the engine ever sees the table.
type ReturnSeries struct {
	Assets  []string
	Returns [][]float64 // Returns[i][d] = asset i, day d
}

func (rs *ReturnSeries) AssetCount() int {
	return len(rs.Assets)
}

func (rs *ReturnSeries) DayCount() int {
	if len(rs.Returns) == 0 {
		return 0
	}
	return len(rs.Returns[0])
}

// PriceSeries is the price-level sibling of ReturnSeries, used by the
// historical CAGR calculations. Same shape rules: asset-major columns,
// rows chronological oldest first.
type PriceSeries struct {
	Assets []string
	Prices [][]float64 // Prices[i][d] = asset i, day d
}

func (ps *PriceSeries) AssetCount() int {
	return len(ps.Assets)
}

func (ps *PriceSeries) DayCount() int {
	if len(ps.Prices) == 0 {
		return 0
	}
	return len(ps.Prices[0])
}

// DailyReturns converts prices to day-over-day fractional returns,
// dropping the first row. A price table with fewer than two rows yields
// empty return columns.
func (ps *PriceSeries) DailyReturns() *ReturnSeries {
	returns := make([][]float64, len(ps.Prices))
	for i, prices := range ps.Prices {
		if len(prices) < 2 {
			returns[i] = []float64{}
			continue
		}
		r := make([]float64, len(prices)-1)
		for d := 1; d < len(prices); d++ {
			r[d-1] = prices[d]/prices[d-1] - 1
		}
		returns[i] = r
	}

	return &ReturnSeries{
		Assets:  ps.Assets,
		Returns: returns,
	}
}
