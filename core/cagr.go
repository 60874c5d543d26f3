package core

import (
	"math"

	"gonum.org/v1/gonum/stat"

	m "github.com/Ehomey/smartrisk-lite/models"
)

// HistoricalCAGR computes the realized compound annual growth rate of the
// equal-weighted composite of the price table: average the first and last
// rows across assets and annualize the ratio over the row count. Degenerate
// inputs (non-positive endpoints, no elapsed time) return 0.0, never an
// error.
func HistoricalCAGR(prices *m.PriceSeries) float64 {
	rows := prices.DayCount()
	if rows == 0 || prices.AssetCount() == 0 {
		return 0
	}

	first := make([]float64, prices.AssetCount())
	last := make([]float64, prices.AssetCount())
	for i, col := range prices.Prices {
		first[i] = col[0]
		last[i] = col[rows-1]
	}

	initial := stat.Mean(first, nil)
	final := stat.Mean(last, nil)

	return cagrBetween(initial, final, float64(rows)/DaysInYear)
}

// PortfolioHistoricalCAGR is the weighted variant: each asset's prices are
// normalized to start at 1.0 and summed under the weight vector, then the
// same annualization applies to the first and last portfolio values.
func PortfolioHistoricalCAGR(prices *m.PriceSeries, weights []float64) float64 {
	rows := prices.DayCount()
	if rows == 0 || len(weights) != prices.AssetCount() {
		return 0
	}

	var initial, final float64
	for i, col := range prices.Prices {
		if col[0] <= 0 {
			return 0
		}
		initial += weights[i]
		final += weights[i] * col[rows-1] / col[0]
	}

	return cagrBetween(initial, final, float64(rows)/DaysInYear)
}

func cagrBetween(initial, final, years float64) float64 {
	if initial <= 0 || final <= 0 || years <= 0 {
		return 0
	}
	return math.Pow(final/initial, 1/years) - 1
}
