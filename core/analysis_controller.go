package core

import (
	"fmt"
	"log"
	"strings"
	"time"

	ex "github.com/Ehomey/smartrisk-lite/extensions"
	m "github.com/Ehomey/smartrisk-lite/models"
)

const DefaultInitialInvestment = 10_000.0

// ProjectionYears is the fixed horizon of the analysis endpoint.
const ProjectionYears = 10

// AnalyzePortfolio runs the whole analysis pipeline for one request:
// validation, cached price retrieval, alignment, risk metrics, realized
// CAGR, the Monte Carlo projection, and the narrative summary. Tickers
// whose data cannot be served are dropped with renormalized weights and a
// warning rather than failing the request.
func (sc *ServiceContext) AnalyzePortfolio(req *m.PortfolioRequest) (*m.AnalysisResponse, error) {
	start := time.Now()

	if req.InitialInvestment == 0 {
		req.InitialInvestment = DefaultInitialInvestment
	}
	if err := ValidatePortfolioRequest(req); err != nil {
		return nil, err
	}

	numPaths := req.NumPaths
	if numPaths == 0 {
		numPaths = PathCountFromEnv()
	} else if !AllowedPathCount(numPaths) {
		return nil, requestErrorf("num_paths must be one of %v, received %d", AllowedPathCounts, numPaths)
	}

	log.Printf("Analyzing portfolio of %d asset(s) (time: %v)", len(req.Tickers), time.Since(start))
	lookback := time.Duration(LookbackDays) * 24 * time.Hour
	prices, sources, err := sc.GetAlignedPrices(req.Tickers, lookback, CacheTTLFromEnv())
	if err != nil {
		return nil, err
	}

	if prices.AssetCount() == 0 {
		return nil, requestErrorf("could not download data from any source, check ticker symbols (%s) and try again", strings.Join(req.Tickers, ", "))
	}

	tickers, weights, warning := reconcileFetchedAssets(req.Tickers, req.Weights, prices.Assets)
	if ex.Sum(weights) == 0 {
		return nil, requestErrorf("no weight remains on the assets that could be fetched, cannot proceed with analysis")
	}
	if warning != "" {
		log.Println(warning)
	}

	log.Printf("Calculating risk metrics for %d asset(s) (time: %v)", len(tickers), time.Since(start))
	returns := prices.DailyReturns()
	if returns.DayCount() < 2 {
		return nil, requestErrorf("not enough overlapping price history for %s to estimate returns, check the tickers and try again", strings.Join(tickers, ", "))
	}
	individual := CalculateAssetMetrics(returns)
	portfolioMetrics := CalculatePortfolioMetrics(returns, weights)

	log.Printf("Running projection (time: %v)", time.Since(start))
	projection, err := RunProjection(sc.Context, returns, weights, m.SimulationConfig{
		NumYears:     ProjectionYears,
		NumPaths:     numPaths,
		InitialValue: req.InitialInvestment,
		ChunkSize:    ChunkSizeFromEnv(),
		Seed:         req.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("error running projection: %w", err)
	}

	log.Printf("Analysis complete (time: %v)", time.Since(start))
	return &m.AnalysisResponse{
		IndividualMetrics: individual,
		PortfolioMetrics:  portfolioMetrics,
		Projections: m.Projections{
			CAGR:        PortfolioHistoricalCAGR(prices, weights),
			Years:       projection.Years,
			Percentiles: projection.Percentiles,
		},
		Tickers:     tickers,
		Weights:     weights,
		Summary:     GenerateSummary(portfolioMetrics, tickers, weights),
		DataSources: sources,
		Warning:     warning,
	}, nil
}

// reconcileFetchedAssets handles partial fetch failures: the surviving
// tickers keep their relative weights, renormalized to sum to one, and the
// dropped ones are named in the warning. Available tickers arrive in
// requested order, so positions stay aligned.
func reconcileFetchedAssets(requested []string, weights []float64, available []string) ([]string, []float64, string) {
	if len(available) == len(requested) {
		return requested, weights, ""
	}

	availableSet := make(map[string]bool, len(available))
	for _, t := range available {
		availableSet[t] = true
	}

	var missing []string
	var keptWeights []float64
	var weightSum float64
	for i, t := range requested {
		if availableSet[t] {
			keptWeights = append(keptWeights, weights[i])
			weightSum += weights[i]
		} else {
			missing = append(missing, t)
		}
	}

	if weightSum > 0 {
		for i := range keptWeights {
			keptWeights[i] /= weightSum
		}
	}

	warning := fmt.Sprintf(
		"Could not fetch data for: %s. Analysis proceeds with the remaining %d asset(s), weights adjusted proportionally.",
		strings.Join(missing, ", "), len(available))

	return available, keptWeights, warning
}
