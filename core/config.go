package core

import (
	"os"
	"slices"
	"strconv"
	"time"
)

const (
	DefaultPathCount = 5000
	DefaultChunkSize = 1000
	DefaultCacheTTL  = 24 * time.Hour

	// LookbackDays is the calendar window of history fetched for analysis.
	LookbackDays = 365
)

// AllowedPathCounts are the path counts a request may ask for explicitly;
// anything else is rejected so a caller cannot demand arbitrary work.
var AllowedPathCounts = []int{5_000, 10_000, 20_000}

func AllowedPathCount(numPaths int) bool {
	return slices.Contains(AllowedPathCounts, numPaths)
}

// PathCountFromEnv reads MC_PATH_COUNT, falling back to DefaultPathCount.
func PathCountFromEnv() int {
	return intFromEnv("MC_PATH_COUNT", DefaultPathCount)
}

// ChunkSizeFromEnv reads MC_CHUNK_SIZE, falling back to DefaultChunkSize.
func ChunkSizeFromEnv() int {
	return intFromEnv("MC_CHUNK_SIZE", DefaultChunkSize)
}

// CacheTTLFromEnv reads CACHE_TTL_HOURS, falling back to DefaultCacheTTL.
// Cached prices older than this are refetched from the provider.
func CacheTTLFromEnv() time.Duration {
	hours := intFromEnv("CACHE_TTL_HOURS", 0)
	if hours <= 0 {
		return DefaultCacheTTL
	}
	return time.Duration(hours) * time.Hour
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
