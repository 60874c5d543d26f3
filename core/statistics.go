package core

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	ex "github.com/Ehomey/smartrisk-lite/extensions"
	m "github.com/Ehomey/smartrisk-lite/models"
)

const (
	// DaysInYear is the trading-day convention used everywhere quantities
	// are annualized.
	DaysInYear = 252

	// covarianceJitter is added to the diagonal when the sample covariance
	// matrix is not positive definite (short histories, near-duplicate
	// assets). One retry only.
	covarianceJitter = 1e-8
)

// StatisticalResources holds everything the samplers need, computed once
// per projection run and shared read-only across workers. CholeskyL is nil
// for a single asset, where the univariate Mean/Sigma pair is used instead.
type StatisticalResources struct {
	Mean      []float64
	CovMatrix *mat.SymDense
	CholeskyL *mat.TriDense
	Sigma     float64
	Weights   []float64
}

// GetStatisticalResources estimates the daily mean vector and covariance
// matrix from the historical return table and factorizes the covariance
// for correlated sampling. Fewer than two observations make the covariance
// degenerate; supplying enough history is the caller's contract.
func GetStatisticalResources(returns *m.ReturnSeries, weights []float64) (*StatisticalResources, error) {
	sr := &StatisticalResources{
		CovMatrix: GetCovarianceMatrix(returns.Returns),
		Mean:      GetMeanVector(returns.Returns),
		Weights:   weights,
	}

	if returns.AssetCount() == 1 {
		// variance can dip a hair below zero from floating-point noise
		sr.Sigma = math.Sqrt(math.Max(sr.CovMatrix.At(0, 0), 0))
		return sr, nil
	}

	var err error
	sr.CholeskyL, err = GetCholeskyDecomposition(sr.CovMatrix)
	if err != nil {
		sr.CholeskyL, err = GetCholeskyDecomposition(jitterDiagonal(sr.CovMatrix))
		if err != nil {
			return nil, fmt.Errorf("covariance decomposition failed after jitter retry: %w", err)
		}
	}

	return sr, nil
}

func GetMeanVector[T ex.Number](data [][]T) []float64 {
	res := make([]float64, len(data))
	for i, col := range data {
		values := make([]float64, len(col))
		for j, v := range col {
			values[j] = float64(v)
		}
		res[i] = stat.Mean(values, nil)
	}
	return res
}

func GetCovarianceMatrix[T ex.Number](data [][]T) *mat.SymDense {
	returnMatrix := ArrToMatrix(data)
	covMatrix := mat.NewSymDense(len(data), nil)
	stat.CovarianceMatrix(covMatrix, returnMatrix, nil)
	return covMatrix
}

func GetCholeskyDecomposition(covMatrix *mat.SymDense) (*mat.TriDense, error) {
	chol := new(mat.Cholesky)
	if ok := chol.Factorize(covMatrix); !ok {
		return nil, fmt.Errorf("covariance matrix is not positive definite")
	}

	L := new(mat.TriDense)
	chol.LTo(L)

	return L, nil
}

func jitterDiagonal(covMatrix *mat.SymDense) *mat.SymDense {
	n := covMatrix.SymmetricDim()
	jittered := mat.NewSymDense(n, nil)
	jittered.CopySym(covMatrix)
	for i := range n {
		jittered.SetSym(i, i, jittered.At(i, i)+covarianceJitter)
	}
	return jittered
}

func ArrToMatrix[T ex.Number](data [][]T) *mat.Dense {
	nSymbols := len(data)
	nObservations := len(data[0])
	res := mat.NewDense(nObservations, nSymbols, nil)
	for j, col := range data {
		for i, row := range col {
			res.Set(i, j, float64(row))
		}
	}
	return res
}

// Percentile computes the pth percentile of an ascending-sorted sample by
// linear interpolation between order statistics: the value at fractional
// position p/100 * (n-1). gonum's stat.Quantile cumulant kinds implement
// other interpolation rules, so this stays hand-rolled.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}

	pos := p / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}

	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
