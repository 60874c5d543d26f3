package core

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	m "github.com/Ehomey/smartrisk-lite/models"
)

// RiskFreeRate is the annual US Treasury baseline used for Sharpe ratios.
const RiskFreeRate = 0.04

func CalculateAssetMetrics(returns *m.ReturnSeries) map[string]m.AssetMetrics {
	res := make(map[string]m.AssetMetrics, returns.AssetCount())

	for i, asset := range returns.Assets {
		expected := stat.Mean(returns.Returns[i], nil) * DaysInYear
		volatility := stat.StdDev(returns.Returns[i], nil) * math.Sqrt(DaysInYear)

		res[asset] = m.AssetMetrics{
			ExpectedAnnualReturn: expected,
			AnnualVolatility:     volatility,
			SharpeRatio:          sharpeRatio(expected, volatility),
		}
	}

	return res
}

// CalculatePortfolioMetrics aggregates the weighted expected return and the
// covariance-aware volatility sqrt(w' (cov * 252) w) for the whole book.
func CalculatePortfolioMetrics(returns *m.ReturnSeries, weights []float64) m.AssetMetrics {
	if returns.AssetCount() == 1 {
		expected := stat.Mean(returns.Returns[0], nil) * DaysInYear
		volatility := stat.StdDev(returns.Returns[0], nil) * math.Sqrt(DaysInYear)
		return m.AssetMetrics{
			ExpectedAnnualReturn: expected,
			AnnualVolatility:     volatility,
			SharpeRatio:          sharpeRatio(expected, volatility),
		}
	}

	var expected float64
	for i, col := range returns.Returns {
		expected += weights[i] * stat.Mean(col, nil)
	}
	expected *= DaysInYear

	cov := GetCovarianceMatrix(returns.Returns)
	w := mat.NewVecDense(len(weights), weights)
	var covW mat.VecDense
	covW.MulVec(cov, w)
	volatility := math.Sqrt(mat.Dot(w, &covW) * DaysInYear)

	return m.AssetMetrics{
		ExpectedAnnualReturn: expected,
		AnnualVolatility:     volatility,
		SharpeRatio:          sharpeRatio(expected, volatility),
	}
}

func sharpeRatio(expectedReturn, volatility float64) float64 {
	if volatility == 0 {
		return 0
	}
	return (expectedReturn - RiskFreeRate) / volatility
}

// GenerateSummary renders the metrics as a short narrative: Sharpe band,
// return and volatility classification, diversification remark, and a
// concentration warning when a single position dominates.
func GenerateSummary(metrics m.AssetMetrics, tickers []string, weights []float64) string {
	var performance, recommendation string
	switch sharpe := metrics.SharpeRatio; {
	case sharpe < 0:
		performance = "underperforming the risk-free rate"
		recommendation = "Consider reviewing your asset selection."
	case sharpe < 0.5:
		performance = "showing poor risk-adjusted returns"
		recommendation = "Higher risk relative to expected returns."
	case sharpe < 1.0:
		performance = "demonstrating moderate risk-adjusted returns"
		recommendation = "Acceptable performance with room for optimization."
	case sharpe < 2.0:
		performance = "exhibiting strong risk-adjusted returns"
		recommendation = "Well-balanced risk and reward profile."
	default:
		performance = "achieving exceptional risk-adjusted returns"
		recommendation = "Excellent diversification and asset selection."
	}

	var returnLevel string
	switch expected := metrics.ExpectedAnnualReturn; {
	case expected < 0.05:
		returnLevel = "conservative"
	case expected < 0.10:
		returnLevel = "moderate"
	case expected < 0.15:
		returnLevel = "growth-oriented"
	default:
		returnLevel = "aggressive"
	}

	var riskLevel string
	switch volatility := metrics.AnnualVolatility; {
	case volatility < 0.10:
		riskLevel = "low"
	case volatility < 0.20:
		riskLevel = "moderate"
	case volatility < 0.30:
		riskLevel = "elevated"
	default:
		riskLevel = "high"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "This portfolio is %s with a Sharpe ratio of %.2f. ", performance, metrics.SharpeRatio)
	fmt.Fprintf(&sb, "It targets a %s expected return of %.1f%% annually, ", returnLevel, metrics.ExpectedAnnualReturn*100)
	fmt.Fprintf(&sb, "with %s volatility at %.1f%%. ", riskLevel, metrics.AnnualVolatility*100)

	topIndex := 0
	for i, w := range weights {
		if w > weights[topIndex] {
			topIndex = i
		}
	}
	topTicker := tickers[topIndex]
	topWeight := weights[topIndex]

	switch holdings := len(tickers); {
	case holdings == 1:
		fmt.Fprintf(&sb, "The portfolio consists of a single holding (%s), offering no diversification benefit. ", topTicker)
	case holdings <= 3:
		fmt.Fprintf(&sb, "With only %d holdings, diversification is limited. ", holdings)
	case holdings <= 10:
		fmt.Fprintf(&sb, "The portfolio contains %d holdings, providing reasonable diversification. ", holdings)
	default:
		fmt.Fprintf(&sb, "With %d holdings, the portfolio benefits from strong diversification. ", holdings)
	}

	if topWeight > 0.5 {
		fmt.Fprintf(&sb, "Highly concentrated in %s (%.0f%%), increasing single-asset risk. ", topTicker, topWeight*100)
	} else if topWeight > 0.3 {
		fmt.Fprintf(&sb, "Largest position is %s (%.0f%%). ", topTicker, topWeight*100)
	}

	sb.WriteString(recommendation)

	return sb.String()
}
