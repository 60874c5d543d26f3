package core

import (
	"slices"
	"testing"
	"time"

	ex "github.com/Ehomey/smartrisk-lite/extensions"
)

func TestGetPopularAssetsUnfiltered(t *testing.T) {
	page, err := GetPopularAssets("", "", 1, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ex.AssertAreEqual(t, "items match total", page.Total, len(page.Items))
	if page.Total == 0 {
		t.Fatal("embedded asset list should not be empty")
	}

	if !slices.Contains(page.AssetClasses, "Stock") || !slices.Contains(page.AssetClasses, "ETF") {
		t.Errorf("expected Stock and ETF among asset classes, got %v", page.AssetClasses)
	}
	if !slices.IsSorted(page.Sectors) {
		t.Errorf("sectors should be sorted, got %v", page.Sectors)
	}
}

func TestGetPopularAssetsClassFilter(t *testing.T) {
	// class matching is case invariant
	page, err := GetPopularAssets("etf", "", 1, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(page.Items) == 0 {
		t.Fatal("expected at least one ETF")
	}
	for _, a := range page.Items {
		ex.AssertAreEqual(t, a.Ticker+" class", "ETF", a.AssetClass)
	}

	// filter lists still describe the full catalog
	if !slices.Contains(page.Sectors, "Technology") {
		t.Errorf("expected full sector list regardless of filter, got %v", page.Sectors)
	}
}

func TestGetPopularAssetsSectorFilter(t *testing.T) {
	page, err := GetPopularAssets("Stock", "Healthcare", 1, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(page.Items) == 0 {
		t.Fatal("expected healthcare stocks")
	}
	for _, a := range page.Items {
		ex.AssertAreEqual(t, a.Ticker+" sector", "Healthcare", a.Sector)
	}
}

func TestGetPopularAssetsPagination(t *testing.T) {
	first, err := GetPopularAssets("", "", 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := GetPopularAssets("", "", 2, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ex.AssertAreEqual(t, "first page size", 5, len(first.Items))
	ex.AssertAreEqual(t, "second page size", 5, len(second.Items))
	ex.AssertAreEqual(t, "page overlap", false, first.Items[4].Ticker == second.Items[0].Ticker)
	ex.AssertAreEqual(t, "totals agree", first.Total, second.Total)

	// out-of-range pages come back empty, not as an error
	far, err := GetPopularAssets("", "", 1000, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ex.AssertAreEqual(t, "far page", 0, len(far.Items))

	// limit and page are clamped to sane values
	clamped, err := GetPopularAssets("", "", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ex.AssertAreEqual(t, "clamped page", 1, clamped.Page)
	ex.AssertAreEqual(t, "clamped limit", 1, clamped.Limit)
	ex.AssertAreEqual(t, "clamped item count", 1, len(clamped.Items))
}

func TestPathCountConfig(t *testing.T) {
	t.Setenv("MC_PATH_COUNT", "")
	ex.AssertAreEqual(t, "default", DefaultPathCount, PathCountFromEnv())

	t.Setenv("MC_PATH_COUNT", "20000")
	ex.AssertAreEqual(t, "env override", 20000, PathCountFromEnv())

	t.Setenv("MC_PATH_COUNT", "not-a-number")
	ex.AssertAreEqual(t, "garbage falls back", DefaultPathCount, PathCountFromEnv())

	t.Setenv("MC_PATH_COUNT", "-5")
	ex.AssertAreEqual(t, "negative falls back", DefaultPathCount, PathCountFromEnv())
}

func TestCacheTTLConfig(t *testing.T) {
	t.Setenv("CACHE_TTL_HOURS", "")
	ex.AssertAreEqual(t, "default", DefaultCacheTTL, CacheTTLFromEnv())

	t.Setenv("CACHE_TTL_HOURS", "6")
	ex.AssertAreEqual(t, "env override", 6*time.Hour, CacheTTLFromEnv())
}

func TestAllowedPathCount(t *testing.T) {
	for _, n := range AllowedPathCounts {
		ex.AssertAreEqual(t, "allowed", true, AllowedPathCount(n))
	}
	ex.AssertAreEqual(t, "arbitrary count", false, AllowedPathCount(7777))
}
