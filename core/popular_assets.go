package core

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	ex "github.com/Ehomey/smartrisk-lite/extensions"
	m "github.com/Ehomey/smartrisk-lite/models"
)

//go:embed assets/popular_assets.json
var popularAssetsRaw []byte

var popularAssetsOnce = sync.OnceValues(func() ([]m.PopularAsset, error) {
	var assets []m.PopularAsset
	if err := json.Unmarshal(popularAssetsRaw, &assets); err != nil {
		return nil, fmt.Errorf("error unmarshaling embedded popular assets: %w", err)
	}
	return assets, nil
})

const maxPageLimit = 200

// GetPopularAssets serves a page of the curated asset list, optionally
// filtered by asset class and sector.
func GetPopularAssets(assetClass, sector string, page, limit int) (*m.PopularAssetPage, error) {
	assets, err := popularAssetsOnce()
	if err != nil {
		return nil, err
	}

	filtered := assets
	if assetClass != "" {
		filtered = ex.FilterMultiple(filtered, func(a m.PopularAsset) bool {
			return ex.AreEqual(a.AssetClass, assetClass)
		})
	}
	if sector != "" {
		filtered = ex.FilterMultiple(filtered, func(a m.PopularAsset) bool {
			return ex.AreEqual(a.Sector, sector)
		})
	}

	assetClasses := collectDistinct(assets, func(a m.PopularAsset) string { return a.AssetClass })
	sectors := collectDistinct(assets, func(a m.PopularAsset) string { return a.Sector })

	limit = max(1, ex.Min(limit, maxPageLimit))
	page = max(1, page)

	startIndex := ex.Min((page-1)*limit, len(filtered))
	endIndex := ex.Min(startIndex+limit, len(filtered))

	return &m.PopularAssetPage{
		Items:        filtered[startIndex:endIndex],
		Total:        len(filtered),
		AssetClasses: assetClasses,
		Sectors:      sectors,
		Page:         page,
		Limit:        limit,
	}, nil
}

func collectDistinct[T any](elements []T, key func(T) string) []string {
	seen := make(map[string]bool, len(elements))
	var res []string
	for _, e := range elements {
		k := key(e)
		if !seen[k] {
			seen[k] = true
			res = append(res, k)
		}
	}
	slices.Sort(res)
	return res
}
