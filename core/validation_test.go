package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	ex "github.com/Ehomey/smartrisk-lite/extensions"
	m "github.com/Ehomey/smartrisk-lite/models"
)

func TestValidTicker(t *testing.T) {
	valid := []string{"AAPL", "BRK.B", "BTC-USD", "SPY", "A", "0123456789"}
	for _, ticker := range valid {
		ex.AssertAreEqual(t, ticker, true, ValidTicker(ticker))
	}

	invalid := []string{"", "aapl", "TOOLONGTICKER", "AA PL", "AAPL!", "MSFT;DROP"}
	for _, ticker := range invalid {
		ex.AssertAreEqual(t, ticker, false, ValidTicker(ticker))
	}
}

func TestValidatePortfolioRequestAccepts(t *testing.T) {
	requests := []m.PortfolioRequest{
		{Tickers: []string{"AAPL"}, Weights: []float64{1.0}, InitialInvestment: 10_000},
		{Tickers: []string{"AAPL", "MSFT"}, Weights: []float64{0.6, 0.4}, InitialInvestment: 1},
		// within the sum tolerance
		{Tickers: []string{"AAPL", "MSFT"}, Weights: []float64{0.5, 0.495}, InitialInvestment: 500},
	}

	for _, req := range requests {
		if err := ValidatePortfolioRequest(&req); err != nil {
			t.Errorf("expected %v to pass validation, got: %v", req.Tickers, err)
		}
	}
}

func TestValidatePortfolioRequestRejects(t *testing.T) {
	manyTickers := make([]string, MaxPortfolioSize+1)
	manyWeights := make([]float64, MaxPortfolioSize+1)
	for i := range manyTickers {
		manyTickers[i] = "A" + string(rune('A'+i%26)) + string(rune('A'+i/26))
		manyWeights[i] = 1.0 / float64(len(manyTickers))
	}

	cases := []struct {
		name     string
		req      m.PortfolioRequest
		fragment string
	}{
		{
			"empty portfolio",
			m.PortfolioRequest{InitialInvestment: 100},
			"at least one ticker",
		},
		{
			"too many assets",
			m.PortfolioRequest{Tickers: manyTickers, Weights: manyWeights, InitialInvestment: 100},
			"portfolio too large",
		},
		{
			"ticker weight mismatch",
			m.PortfolioRequest{Tickers: []string{"AAPL", "MSFT"}, Weights: []float64{1.0}, InitialInvestment: 100},
			"ticker/weight mismatch",
		},
		{
			"lowercase ticker",
			m.PortfolioRequest{Tickers: []string{"aapl"}, Weights: []float64{1.0}, InitialInvestment: 100},
			"invalid ticker format",
		},
		{
			"negative weight",
			m.PortfolioRequest{Tickers: []string{"AAPL", "MSFT"}, Weights: []float64{-0.5, 1.5}, InitialInvestment: 100},
			"cannot be negative",
		},
		{
			"weight above one",
			m.PortfolioRequest{Tickers: []string{"AAPL"}, Weights: []float64{1.1}, InitialInvestment: 100},
			"cannot exceed 1.0",
		},
		{
			"sub-precision weight",
			m.PortfolioRequest{Tickers: []string{"AAPL", "MSFT"}, Weights: []float64{0.99995, 0.00005}, InitialInvestment: 100},
			"too small",
		},
		{
			"weights do not sum to one",
			m.PortfolioRequest{Tickers: []string{"AAPL", "MSFT"}, Weights: []float64{0.5, 0.4}, InitialInvestment: 100},
			"must sum to 1.0",
		},
		{
			"duplicate ticker",
			m.PortfolioRequest{Tickers: []string{"AAPL", "AAPL"}, Weights: []float64{0.5, 0.5}, InitialInvestment: 100},
			"duplicate ticker",
		},
		{
			"zero initial investment",
			m.PortfolioRequest{Tickers: []string{"AAPL"}, Weights: []float64{1.0}},
			"greater than 0",
		},
		{
			"negative initial investment",
			m.PortfolioRequest{Tickers: []string{"AAPL"}, Weights: []float64{1.0}, InitialInvestment: -50},
			"greater than 0",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePortfolioRequest(&tc.req)
			if err == nil {
				t.Fatalf("expected validation error containing %q, got nil", tc.fragment)
			}
			if !strings.Contains(err.Error(), tc.fragment) {
				t.Errorf("expected error containing %q, got %q", tc.fragment, err.Error())
			}

			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Errorf("validation failures should be request errors, got %T", err)
			}
		})
	}
}

// Infrastructure failures must not be classified as caller mistakes.
func TestRequestErrorClassification(t *testing.T) {
	var reqErr *RequestError

	internal := fmt.Errorf("unable to query: %w", errors.New("connection refused"))
	ex.AssertAreEqual(t, "internal error", false, errors.As(internal, &reqErr))

	wrapped := fmt.Errorf("analysis failed: %w", requestErrorf("weights must sum to 1.0"))
	ex.AssertAreEqual(t, "wrapped request error", true, errors.As(wrapped, &reqErr))
	ex.AssertAreEqual(t, "message survives wrapping", "weights must sum to 1.0", reqErr.Message)
}
