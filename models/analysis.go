package models

// PortfolioRequest is the body of POST /api/analyze_portfolio. Weights are
// positional with Tickers and must sum to 1.0. NumPaths of 0 picks the
// configured default.
type PortfolioRequest struct {
	Tickers           []string  `json:"tickers"`
	Weights           []float64 `json:"weights"`
	NumPaths          int       `json:"num_paths,omitempty"`
	InitialInvestment float64   `json:"initial_investment,omitempty"`
	Seed              int64     `json:"seed,omitempty"`
}

type AssetMetrics struct {
	ExpectedAnnualReturn float64 `json:"expected_annual_return"`
	AnnualVolatility     float64 `json:"annual_volatility"`
	SharpeRatio          float64 `json:"sharpe_ratio"`
}

type Projections struct {
	CAGR        float64               `json:"cagr"`
	Years       []int                 `json:"years"`
	Percentiles ProjectionPercentiles `json:"percentiles"`
}

// DataSourceInfo reports where a ticker's prices came from for this
// request, so the frontend can show cache hits.
type DataSourceInfo struct {
	Source string `json:"source"`
	Cached bool   `json:"cached"`
}

type AnalysisResponse struct {
	IndividualMetrics map[string]AssetMetrics   `json:"individual_metrics"`
	PortfolioMetrics  AssetMetrics              `json:"portfolio_metrics"`
	Projections       Projections               `json:"projections"`
	Tickers           []string                  `json:"tickers"`
	Weights           []float64                 `json:"weights"`
	Summary           string                    `json:"summary"`
	DataSources       map[string]DataSourceInfo `json:"data_sources"`
	Warning           string                    `json:"warning,omitempty"`
}

// PopularAsset is one row of the embedded curated asset list served by
// GET /api/popular_assets.
type PopularAsset struct {
	Ticker     string `json:"ticker"`
	Name       string `json:"name"`
	Sector     string `json:"sector"`
	AssetClass string `json:"assetClass"`
}

type PopularAssetPage struct {
	Items        []PopularAsset `json:"items"`
	Total        int            `json:"total"`
	AssetClasses []string       `json:"asset_classes"`
	Sectors      []string       `json:"sectors"`
	Page         int            `json:"page"`
	Limit        int            `json:"limit"`
}

// AssetSearchResult is the response of GET /api/search_assets.
type AssetSearchResult struct {
	Ticker     string `json:"ticker"`
	Name       string `json:"name"`
	Region     string `json:"region"`
	AssetClass string `json:"assetClass"`
	Source     string `json:"source"`
}
