package core

import (
	"fmt"
	"math"
	"regexp"
	"slices"

	m "github.com/Ehomey/smartrisk-lite/models"
)

const (
	MaxPortfolioSize   = 50
	MinWeightPrecision = 0.0001
	weightSumTolerance = 0.01
)

var tickerPattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,10}$`)

// RequestError marks a failure the caller can correct by changing the
// request. The HTTP layer answers these with a 400; anything else is an
// internal failure and maps to a 500.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string { return e.Message }

func requestErrorf(format string, args ...any) error {
	return &RequestError{Message: fmt.Sprintf(format, args...)}
}

// ValidTicker reports whether a symbol has the accepted uppercase
// alphanumeric/dot/hyphen shape. Anything else is rejected before it can
// reach a query or an upstream request.
func ValidTicker(ticker string) bool {
	return tickerPattern.MatchString(ticker)
}

// ValidatePortfolioRequest enforces the caller-side contract before any
// data is fetched: sane portfolio size, well-formed tickers, aligned and
// normalized weights, positive starting capital.
func ValidatePortfolioRequest(req *m.PortfolioRequest) error {
	if len(req.Tickers) == 0 {
		return requestErrorf("at least one ticker is required")
	}

	if len(req.Tickers) > MaxPortfolioSize {
		return requestErrorf("portfolio too large, maximum %d assets allowed", MaxPortfolioSize)
	}

	if len(req.Tickers) != len(req.Weights) {
		return requestErrorf("ticker/weight mismatch: %d tickers, %d weights", len(req.Tickers), len(req.Weights))
	}

	for i, ticker := range req.Tickers {
		if !ValidTicker(ticker) {
			return requestErrorf("invalid ticker format %q, use 1-10 uppercase letters, numbers, dots, or hyphens", ticker)
		}

		weight := req.Weights[i]
		if weight < 0 {
			return requestErrorf("weight for %s cannot be negative (%v)", ticker, weight)
		}
		if weight > 1.0 {
			return requestErrorf("weight for %s cannot exceed 1.0 (%v)", ticker, weight)
		}
		if weight > 0 && weight < MinWeightPrecision {
			return requestErrorf("weight for %s too small (%v), minimum precision is %v", ticker, weight, MinWeightPrecision)
		}
	}

	var weightSum float64
	for _, w := range req.Weights {
		weightSum += w
	}
	if math.Abs(weightSum-1.0) > weightSumTolerance {
		return requestErrorf("weights must sum to 1.0, got %.4f", weightSum)
	}

	for i, ticker := range req.Tickers {
		if slices.Index(req.Tickers, ticker) != i {
			return requestErrorf("duplicate ticker %s not allowed", ticker)
		}
	}

	if req.InitialInvestment <= 0 {
		return requestErrorf("initial investment must be greater than 0")
	}

	return nil
}
