package rank

import (
	"math"

	"github.com/gonum/matrix/mat64"

	"github.com/KyungWonPark/featrank/internal/calc"
	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

// MRMRSelector orders features by a minimum-redundancy-maximum-relevance
// criterion. It returns the first n selected feature indices and, for each
// feature, the criterion value at the time it was selected.
type MRMRSelector interface {
	Select(data mat64.Matrix, labels []int, n int) (order []int, gain []float64, err error)
}

// SpearmanMRMR measures relevance as |rho(feature, label)| and redundancy as
// the mean |rho| against already selected features, and greedily picks the
// feature maximising relevance minus redundancy. Ties go to the lower index.
// Features whose relevance is undefined are appended last in index order.
type SpearmanMRMR struct{}

// Select implements MRMRSelector.
func (SpearmanMRMR) Select(data mat64.Matrix, labels []int, n int) ([]int, []float64, error) {
	rows, cols, err := calc.Check(data, "data")
	if err != nil {
		return nil, nil, err
	}
	if len(labels) != rows {
		return nil, nil, apperrors.InvalidLabels("expected %d labels, got %d", rows, len(labels))
	}
	if n <= 0 || n > cols {
		n = cols
	}

	x := calc.Columns(data)
	y := make([]float64, rows)
	for i, l := range labels {
		y[i] = float64(l)
	}

	relevance := make([]float64, cols)
	for j := range x {
		relevance[j] = math.Abs(calc.Spearman(x[j], y))
	}

	redundancy := make([]float64, cols) // running sum of |rho| with the selected set
	selected := make([]bool, cols)
	gain := make([]float64, cols)
	for j := range gain {
		gain[j] = math.NaN()
	}

	order := make([]int, 0, n)
	for len(order) < n {
		best, bestScore := -1, math.Inf(-1)
		for j := 0; j < cols; j++ {
			if selected[j] || math.IsNaN(relevance[j]) {
				continue
			}
			score := relevance[j]
			if len(order) > 0 {
				score -= redundancy[j] / float64(len(order))
			}
			if best < 0 || score > bestScore {
				best, bestScore = j, score
			}
		}
		if best < 0 {
			break
		}

		selected[best] = true
		gain[best] = bestScore
		order = append(order, best)

		for j := 0; j < cols; j++ {
			if selected[j] || math.IsNaN(relevance[j]) {
				continue
			}
			if rho := calc.Spearman(x[j], x[best]); !math.IsNaN(rho) {
				redundancy[j] += math.Abs(rho)
			}
		}
	}

	for j := 0; j < cols && len(order) < n; j++ {
		if !selected[j] {
			selected[j] = true
			order = append(order, j)
		}
	}

	return order, gain, nil
}
