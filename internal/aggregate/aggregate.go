// Package aggregate combines several rankings of the same features into a
// consensus ranking.
package aggregate

import (
	"math"
	"math/rand"
	"sort"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
	"github.com/rs/zerolog/log"

	"github.com/KyungWonPark/featrank/internal/calc"
	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

// DefaultTolerance is the absolute-or-relative distance under which two
// aggregate values are considered tied.
const DefaultTolerance = 1e-12

// Config selects how a rank matrix is aggregated and how ties are broken.
type Config struct {
	Method       Method
	Prenormalize bool
	TieBreak     TieBreak
	// Rand drives TieRandom. It is required for that tie break and ignored
	// otherwise.
	Rand *rand.Rand
	// Tolerance is the absolute-or-relative distance under which aggregate
	// values, and variances under TieMinVar, tie. Zero means only identical
	// values tie; a negative value selects DefaultTolerance.
	Tolerance float64
}

// DefaultConfig is the median of prenormalized ranks with the minimum
// variance tie break.
func DefaultConfig() Config {
	return Config{
		Method:       Median,
		Prenormalize: true,
		TieBreak:     TieMinVar,
		Tolerance:    DefaultTolerance,
	}
}

// Result is a consensus ranking.
type Result struct {
	// Order lists feature indices from best to worst.
	Order []int
	// Ranks gives the 1-based consensus rank of each feature.
	Ranks []int
	// Scores is the aggregate value of each feature; lower is better.
	Scores []float64
	// Variance is the sample variance of each feature's per-run ranks.
	Variance []float64
}

func (c Config) validate() error {
	switch c.Method {
	case Min, Mean, Median, MinVar:
	default:
		return apperrors.UnknownMethod("aggregation method", c.Method.String())
	}
	switch c.TieBreak {
	case TieMinVar, TieAscending:
	case TieRandom:
		if c.Rand == nil {
			return apperrors.InvalidInput("rand", "random tie break needs a random source")
		}
	default:
		return apperrors.UnknownMethod("tie break", c.TieBreak.String())
	}
	if math.IsNaN(c.Tolerance) || math.IsInf(c.Tolerance, 0) {
		return apperrors.InvalidInput("tolerance", "tolerance must be finite, got %v", c.Tolerance)
	}
	return nil
}

// Aggregate collapses the rank matrix rm (rows = features, cols = runs)
// into one ranking. Every column of rm must be a permutation of
// 1..rows. rm is not modified.
func Aggregate(rm mat64.Matrix, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := Validate(rm); err != nil {
		return nil, err
	}
	tol := cfg.Tolerance
	if tol < 0 {
		tol = DefaultTolerance
	}

	n, runs := rm.Dims()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat64.Row(nil, i, rm)
		if cfg.Prenormalize {
			floats.Scale(1/float64(n), rows[i])
		}
	}

	res := &Result{
		Scores:   make([]float64, n),
		Variance: make([]float64, n),
	}
	for i, row := range rows {
		res.Variance[i] = calc.Variance(row)
		switch cfg.Method {
		case Min:
			res.Scores[i] = floats.Min(row)
		case Mean:
			res.Scores[i] = calc.Mean(row)
		case Median:
			res.Scores[i] = calc.Median(row)
		case MinVar:
			res.Scores[i] = res.Variance[i]
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return res.Scores[order[a]] < res.Scores[order[b]]
	})

	groups := 0
	for _, group := range tiedRuns(order, res.Scores, tol) {
		groups++
		breakTie(group, res.Variance, cfg, tol)
	}

	log.Debug().
		Str("method", cfg.Method.String()).
		Str("tie_break", cfg.TieBreak.String()).
		Int("features", n).
		Int("runs", runs).
		Int("tie_groups", groups).
		Msg("aggregated rankings")

	res.Order = order
	res.Ranks = make([]int, n)
	for pos, idx := range order {
		res.Ranks[idx] = pos + 1
	}
	return res, nil
}

// tiedRuns splits order, already sorted by values, into runs of two or more
// indices whose values lie within tol of the run's first member. The runs
// alias order.
func tiedRuns(order []int, values []float64, tol float64) [][]int {
	var runs [][]int
	for start := 0; start < len(order); {
		end := start + 1
		for end < len(order) && tied(values[order[start]], values[order[end]], tol) {
			end++
		}
		if end-start > 1 {
			runs = append(runs, order[start:end])
		}
		start = end
	}
	return runs
}

func tied(a, b, tol float64) bool {
	if tol == 0 {
		return a == b
	}
	return floats.EqualWithinAbsOrRel(a, b, tol, tol)
}

// breakTie reorders one group of tied feature indices in place.
func breakTie(group []int, variance []float64, cfg Config, tol float64) {
	switch cfg.TieBreak {
	case TieRandom:
		cfg.Rand.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
	case TieAscending:
		sort.Ints(group)
	case TieMinVar:
		// exact ordering first, then variances within tol keep index order
		sort.Ints(group)
		sort.SliceStable(group, func(a, b int) bool {
			return variance[group[a]] < variance[group[b]]
		})
		for _, run := range tiedRuns(group, variance, tol) {
			sort.Ints(run)
		}
	}
}

// Validate reports InvalidInput unless every column of rm is a permutation
// of 1..rows.
func Validate(rm mat64.Matrix) error {
	n, runs, err := calc.Check(rm, "rank matrix")
	if err != nil {
		return err
	}
	seen := make([]bool, n+1)
	for j := 0; j < runs; j++ {
		for k := range seen {
			seen[k] = false
		}
		for i := 0; i < n; i++ {
			v := rm.At(i, j)
			if v != math.Trunc(v) || v < 1 || v > float64(n) {
				return apperrors.InvalidInput("rank matrix",
					"entry (%d, %d) = %v is not a rank in 1..%d", i, j, v, n)
			}
			if seen[int(v)] {
				return apperrors.InvalidInput("rank matrix",
					"column %d repeats rank %d", j, int(v))
			}
			seen[int(v)] = true
		}
	}
	return nil
}

// Stack builds a rank matrix from per-run rank vectors, one column each.
func Stack(runs ...[]int) (*mat64.Dense, error) {
	if len(runs) == 0 || len(runs[0]) == 0 {
		return nil, apperrors.InvalidInput("runs", "no rankings to stack")
	}
	n := len(runs[0])
	rm := mat64.NewDense(n, len(runs), nil)
	for j, r := range runs {
		if len(r) != n {
			return nil, apperrors.InvalidInput("runs",
				"run %d ranks %d features, expected %d", j, len(r), n)
		}
		for i, v := range r {
			rm.Set(i, j, float64(v))
		}
	}
	return rm, nil
}
