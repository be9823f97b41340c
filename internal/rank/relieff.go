package rank

import (
	"math"
	"sort"

	"github.com/gonum/matrix/mat64"

	"github.com/KyungWonPark/featrank/internal/calc"
	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

// ReliefEstimator returns one weight per feature for a classification
// problem, using k nearest neighbours per class.
type ReliefEstimator interface {
	Weights(data mat64.Matrix, labels []int, k int) ([]float64, error)
}

// Relief is the ReliefF estimator with uniformly weighted neighbours.
//
// Feature differences are scaled by the feature range, distances are the
// L1 sum of scaled differences, and a pair missing a value contributes
// nothing for that feature. Misses from each other class are weighted by
// that class's prior relative to the instance's own class complement.
type Relief struct{}

type neighbour struct {
	index int
	dist  float64
}

// Weights implements ReliefEstimator.
func (Relief) Weights(data mat64.Matrix, labels []int, k int) ([]float64, error) {
	rows, cols, err := calc.Check(data, "data")
	if err != nil {
		return nil, err
	}
	if len(labels) != rows {
		return nil, apperrors.InvalidLabels("expected %d labels, got %d", rows, len(labels))
	}
	if k < 1 {
		return nil, apperrors.InvalidInput("neighbors", "neighbour count must be positive, got %d", k)
	}

	x := calc.Columns(data)
	span := make([]float64, cols)
	for j, col := range x {
		lo, hi := calc.MinMax(col)
		span[j] = hi - lo
	}

	diff := func(j, a, b int) float64 {
		va, vb := x[j][a], x[j][b]
		if math.IsNaN(va) || math.IsNaN(vb) || span[j] == 0 || math.IsNaN(span[j]) {
			return 0
		}
		return math.Abs(va-vb) / span[j]
	}

	dist := func(a, b int) float64 {
		var sum float64
		var used int
		for j := 0; j < cols; j++ {
			if math.IsNaN(x[j][a]) || math.IsNaN(x[j][b]) {
				continue
			}
			sum += diff(j, a, b)
			used++
		}
		if used == 0 {
			return math.Inf(1)
		}
		return sum * float64(cols) / float64(used)
	}

	members := map[int][]int{}
	for i, l := range labels {
		members[l] = append(members[l], i)
	}
	classes := make([]int, 0, len(members))
	prior := map[int]float64{}
	for c, idx := range members {
		classes = append(classes, c)
		prior[c] = float64(len(idx)) / float64(rows)
	}
	sort.Ints(classes)

	nearest := func(i int, pool []int) []neighbour {
		cand := make([]neighbour, 0, len(pool))
		for _, j := range pool {
			if j == i {
				continue
			}
			cand = append(cand, neighbour{index: j, dist: dist(i, j)})
		}
		sort.SliceStable(cand, func(a, b int) bool { return cand[a].dist < cand[b].dist })
		if len(cand) > k {
			cand = cand[:k]
		}
		return cand
	}

	weights := make([]float64, cols)
	m := float64(rows)

	for i := 0; i < rows; i++ {
		own := labels[i]

		if hits := nearest(i, members[own]); len(hits) > 0 {
			for j := 0; j < cols; j++ {
				var acc float64
				for _, h := range hits {
					acc += diff(j, i, h.index)
				}
				weights[j] -= acc / (m * float64(len(hits)))
			}
		}

		for _, c := range classes {
			if c == own {
				continue
			}
			misses := nearest(i, members[c])
			if len(misses) == 0 {
				continue
			}
			scale := prior[c] / (1 - prior[own])
			for j := 0; j < cols; j++ {
				var acc float64
				for _, h := range misses {
					acc += diff(j, i, h.index)
				}
				weights[j] += scale * acc / (m * float64(len(misses)))
			}
		}
	}

	return weights, nil
}
