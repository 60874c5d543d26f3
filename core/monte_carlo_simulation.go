package core

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	ex "github.com/Ehomey/smartrisk-lite/extensions"
	m "github.com/Ehomey/smartrisk-lite/models"
)

const Workers = 8

type chunk struct {
	start int
	end   int
}

// buildChunks splits the requested paths into batches of at most chunkSize,
// truncating the last batch. Chunks bound how much simulation state is in
// flight at once; they never change the numbers that come out.
func buildChunks(numPaths int, chunkSize int) []chunk {
	nChunks := int(math.Ceil(float64(numPaths) / float64(chunkSize)))

	chunks := make([]chunk, nChunks)
	for i := range nChunks {
		chunks[i] = chunk{
			start: i * chunkSize,
			end:   ex.Min((i+1)*chunkSize, numPaths),
		}
	}

	return chunks
}

// chunkWorker carries one worker's sampling state: a unit normal source
// that is re-seeded per path, and scratch vectors for the correlated draw.
// Shared statistical resources are read-only.
type chunkWorker struct {
	*StatisticalResources
	normal     distuv.Normal
	z          *mat.VecDense
	correlated *mat.VecDense
}

func newChunkWorker(sr *StatisticalResources) *chunkWorker {
	w := &chunkWorker{
		StatisticalResources: sr,
		normal:               distuv.Normal{Mu: 0, Sigma: 1},
	}

	if sr.CholeskyL != nil {
		n := len(sr.Mean)
		w.z = mat.NewVecDense(n, nil)
		w.correlated = mat.NewVecDense(n, nil)
	}

	return w
}

// seedPath rebinds the normal source to the path's own PCG substream.
// Draws are keyed by path index alone, so neither the chunk size nor the
// worker schedule changes what any path samples: results are bit-identical
// for any chunking of the same seed and inputs.
func (w *chunkWorker) seedPath(seed uint64, path int) {
	w.normal.Src = rand.NewPCG(seed, uint64(path)+1)
}

// DailyPortfolioReturn samples one trading day's portfolio return. A single
// asset draws from the univariate normal directly; multiple assets draw
// independent standard normals, correlate them through the Cholesky factor,
// shift by the mean vector, and reduce by the weight vector.
func (w *chunkWorker) DailyPortfolioReturn() float64 {
	if w.CholeskyL == nil {
		return w.Mean[0] + w.Sigma*w.normal.Rand()
	}

	n := w.z.Len()
	for i := range n {
		w.z.SetVec(i, w.normal.Rand())
	}
	w.correlated.MulVec(w.CholeskyL, w.z)

	var portfolioReturn float64
	for i := range n {
		portfolioReturn += w.Weights[i] * (w.Mean[i] + w.correlated.AtVec(i))
	}

	return portfolioReturn
}

// RunProjection simulates cfg.NumPaths portfolio value trajectories over
// cfg.NumYears trading years and summarizes the value distribution at each
// year boundary. The call either returns a complete result for every
// requested year or an error, never a partial result. It performs no I/O;
// the supplied generator seed is the only entropy consumed.
func RunProjection(ctx context.Context, returns *m.ReturnSeries, weights []float64, cfg m.SimulationConfig) (*m.ProjectionResult, error) {
	if len(weights) != returns.AssetCount() {
		return nil, fmt.Errorf("weights length %d does not match asset count %d", len(weights), returns.AssetCount())
	}
	if returns.DayCount() < 2 {
		return nil, fmt.Errorf("at least 2 return observations are required to estimate statistics, got %d", returns.DayCount())
	}
	if cfg.NumYears < 1 {
		return nil, fmt.Errorf("num_years must be at least 1, got %d", cfg.NumYears)
	}
	if cfg.NumPaths < 1 {
		return nil, fmt.Errorf("num_paths must be at least 1, got %d", cfg.NumPaths)
	}
	if cfg.InitialValue <= 0 {
		return nil, fmt.Errorf("initial_value must be positive, got %v", cfg.InitialValue)
	}

	chunkSize := cfg.ChunkSize
	if chunkSize < 1 || chunkSize > cfg.NumPaths {
		chunkSize = cfg.NumPaths
	}

	seed := uint64(cfg.Seed)
	if cfg.Seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	sr, err := GetStatisticalResources(returns, weights)
	if err != nil {
		return nil, err
	}

	totalDays := cfg.NumYears * DaysInYear

	// one sample slot per projection year per path, written lock-free by
	// path index
	yearly := make([][]float64, cfg.NumYears)
	for y := range yearly {
		yearly[y] = make([]float64, cfg.NumPaths)
	}

	chunks := buildChunks(cfg.NumPaths, chunkSize)
	nWorkers := ex.Min(len(chunks), Workers)

	log.Println("Starting portfolio projection:")
	log.Printf("\t Projection horizon: %v years", cfg.NumYears)
	log.Printf("\t Simulation paths: %v", cfg.NumPaths)
	log.Printf("\t Chunk size: %v", chunkSize)
	log.Printf("\t Workers: %v", nWorkers)

	// workers steal chunks from this channel until it drains
	chunksChannel := make(chan chunk, len(chunks))
	for _, c := range chunks {
		chunksChannel <- c
	}
	close(chunksChannel)

	g, ctx := errgroup.WithContext(ctx)

	for range nWorkers {
		worker := newChunkWorker(sr)
		g.Go(func() error {
			for c := range chunksChannel {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				for path := c.start; path < c.end; path++ {
					worker.seedPath(seed, path)

					value := cfg.InitialValue
					for day := 1; day <= totalDays; day++ {
						value *= 1 + worker.DailyPortfolioReturn()
						if day%DaysInYear == 0 {
							yearly[day/DaysInYear-1][path] = value
						}
					}
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarizeYearlySamples(yearly), nil
}

// summarizeYearlySamples collapses the collected year-boundary values into
// the percentile/mean table. The raw samples are not retained afterwards.
func summarizeYearlySamples(yearly [][]float64) *m.ProjectionResult {
	numYears := len(yearly)

	res := &m.ProjectionResult{
		Years: make([]int, numYears),
		Percentiles: m.ProjectionPercentiles{
			P10:  make([]float64, numYears),
			P50:  make([]float64, numYears),
			P90:  make([]float64, numYears),
			Mean: make([]float64, numYears),
		},
	}

	for y, values := range yearly {
		res.Years[y] = y + 1

		sorted := slices.Clone(values)
		slices.Sort(sorted)

		res.Percentiles.P10[y] = Percentile(sorted, 10)
		res.Percentiles.P50[y] = Percentile(sorted, 50)
		res.Percentiles.P90[y] = Percentile(sorted, 90)
		res.Percentiles.Mean[y] = stat.Mean(values, nil)
	}

	return res
}
