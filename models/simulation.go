package models

// SimulationConfig parameterizes one projection run. Seed 0 means "not
// seeded": the engine picks a seed from the wall clock. Any other value
// makes repeated runs bit-for-bit identical.
type SimulationConfig struct {
	NumYears     int     `json:"num_years"`
	NumPaths     int     `json:"num_paths"`
	InitialValue float64 `json:"initial_value"`
	ChunkSize    int     `json:"chunk_size"`
	Seed         int64   `json:"seed"`
}

type ProjectionPercentiles struct {
	P10  []float64 `json:"p10"`
	P50  []float64 `json:"p50"`
	P90  []float64 `json:"p90"`
	Mean []float64 `json:"mean"`
}

// ProjectionResult is the single output of a projection run: one entry per
// projection year in each of the four parallel sequences. It is built once
// after the last chunk and never mutated afterwards.
type ProjectionResult struct {
	Years       []int                 `json:"years"`
	Percentiles ProjectionPercentiles `json:"percentiles"`
}
