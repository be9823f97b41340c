// Package rank scores and ranks the features of a two-class dataset.
package rank

import (
	"math"
	"sort"

	"github.com/gonum/matrix/mat64"
	"github.com/rs/zerolog/log"

	"github.com/KyungWonPark/featrank/internal/calc"
	apperrors "github.com/KyungWonPark/featrank/internal/errors"
	"github.com/KyungWonPark/featrank/internal/outlier"
	"github.com/KyungWonPark/featrank/internal/scale"
)

// Config enumerates every ranking option. Use DefaultConfig and override
// fields; nil collaborators are replaced by the defaults in New.
type Config struct {
	Method   Method
	Scaling  scale.Method
	Outlier  outlier.Policy // Outlier.Method == outlier.None skips detection
	Handling Handling

	// Neighbors is the ReliefF neighbourhood size.
	Neighbors int

	Scaler scale.Scaler
	Relief ReliefEstimator
	MRMR   MRMRSelector
}

// DefaultConfig is ReliefF on unit-std columns after trimming MAD outliers.
func DefaultConfig() Config {
	return Config{
		Method:    ReliefF,
		Scaling:   scale.StdUnit,
		Outlier:   outlier.Policy{Method: outlier.MAD},
		Handling:  Trim,
		Neighbors: 10,
		Scaler:    scale.Columns{},
		Relief:    Relief{},
		MRMR:      SpearmanMRMR{},
	}
}

// Ranker ranks features under a fixed Config. It holds no per-call state
// and is safe for concurrent use.
type Ranker struct {
	cfg Config
}

// New validates cfg and returns a Ranker.
func New(cfg Config) (*Ranker, error) {
	if _, ok := methodNames[cfg.Method]; !ok {
		return nil, apperrors.UnknownMethod("rank method", cfg.Method.String())
	}
	switch cfg.Scaling {
	case scale.None, scale.Rescale, scale.MeanCenter, scale.StdUnit:
	default:
		return nil, apperrors.UnknownMethod("scaling method", cfg.Scaling.String())
	}
	switch cfg.Handling {
	case Trim, Winsorize:
	default:
		return nil, apperrors.UnknownMethod("outlier handling", cfg.Handling.String())
	}
	if cfg.Outlier.Method != outlier.None {
		if err := cfg.Outlier.Validate(); err != nil {
			return nil, err
		}
	}
	if cfg.Neighbors == 0 {
		cfg.Neighbors = 10
	}
	if cfg.Neighbors < 0 {
		return nil, apperrors.InvalidInput("neighbors", "neighbour count must be positive, got %d", cfg.Neighbors)
	}

	if cfg.Scaler == nil {
		cfg.Scaler = scale.Columns{}
	}
	if cfg.Relief == nil {
		cfg.Relief = Relief{}
	}
	if cfg.MRMR == nil {
		cfg.MRMR = SpearmanMRMR{}
	}

	return &Ranker{cfg: cfg}, nil
}

// Config returns the effective configuration.
func (r *Ranker) Config() Config { return r.cfg }

// Result is a ranking of every feature.
type Result struct {
	Method Method
	// Order lists feature indices from best to worst.
	Order []int
	// RankOf gives the 1-based rank of each feature: RankOf[Order[i]] == i+1.
	RankOf []int
	// Scores is the raw per-feature score (the selection gain for MRMR).
	// NaN marks a feature that could not be scored.
	Scores []float64
	// PValues holds two-sided Welch t-test p-values for TStat, nil otherwise.
	PValues []float64
}

// Rank scores every column of data against labels and orders the columns.
// data is not modified.
func (r *Ranker) Rank(data mat64.Matrix, labels []int) (*Result, error) {
	rows, cols, err := calc.Check(data, "data")
	if err != nil {
		return nil, err
	}
	if err := ValidateLabels(labels, rows); err != nil {
		return nil, err
	}

	work := r.Preprocess(data)

	res := &Result{Method: r.cfg.Method}

	switch r.cfg.Method {
	case MRMR:
		order, gain, err := r.cfg.MRMR.Select(work, labels, cols)
		if err != nil {
			return nil, err
		}
		if err := checkOrder(order, cols); err != nil {
			return nil, err
		}
		if len(gain) != cols {
			return nil, apperrors.InvalidInput("mrmr", "selector returned %d gains for %d features", len(gain), cols)
		}
		res.Order = order
		res.Scores = gain

	case ReliefF:
		weights, err := r.cfg.Relief.Weights(work, labels, r.cfg.Neighbors)
		if err != nil {
			return nil, err
		}
		if len(weights) != cols {
			return nil, apperrors.InvalidInput("relieff", "estimator returned %d weights for %d features", len(weights), cols)
		}
		res.Scores = weights
		res.Order = OrderByMagnitude(weights)

	default:
		score := univariate[r.cfg.Method]
		res.Scores = make([]float64, cols)
		if r.cfg.Method == TStat {
			res.PValues = make([]float64, cols)
		}
		for j := 0; j < cols; j++ {
			c0, c1 := calc.Split(calc.Col(work, j), labels)
			res.Scores[j] = score(c0, c1)
			if res.PValues != nil {
				res.PValues[j] = twoSidedP(welch(c0, c1))
			}
			if math.IsNaN(res.Scores[j]) {
				log.Debug().
					Str("method", r.cfg.Method.String()).
					Int("feature", j).
					Msg("feature could not be scored")
			}
		}
		res.Order = OrderByMagnitude(res.Scores)
	}

	res.RankOf = RanksFromOrder(res.Order)
	return res, nil
}

// Preprocess applies outlier handling and scaling to a private copy of data.
func (r *Ranker) Preprocess(data mat64.Matrix) *mat64.Dense {
	work := mat64.DenseCopyOf(data)

	if r.cfg.Outlier.Method != outlier.None {
		// the policy was validated in New, so Detect cannot fail on it here
		det, err := outlier.Detect(work, r.cfg.Outlier)
		if err == nil {
			switch r.cfg.Handling {
			case Winsorize:
				work = det.Winsorize(work)
			default:
				work = det.Trim(work)
			}
		}
	}

	if r.cfg.Scaling != scale.None {
		work = scale.Matrix(r.cfg.Scaler, work, r.cfg.Scaling)
	}
	return work
}

// ValidateLabels checks that labels has one {0,1} entry per sample and that
// both classes occur.
func ValidateLabels(labels []int, rows int) error {
	if len(labels) != rows {
		return apperrors.InvalidLabels("expected %d labels, got %d", rows, len(labels))
	}
	var seen [2]bool
	for i, l := range labels {
		if l != 0 && l != 1 {
			return apperrors.InvalidLabels("label %d at sample %d is not 0 or 1", l, i)
		}
		seen[l] = true
	}
	if !seen[0] || !seen[1] {
		return apperrors.InvalidLabels("labels must contain both classes 0 and 1")
	}
	return nil
}

// OrderByMagnitude returns feature indices sorted by descending |score|.
// NaN scores sort last; equal magnitudes keep index order.
func OrderByMagnitude(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scores[order[a]], scores[order[b]]
		if math.IsNaN(sb) {
			return !math.IsNaN(sa)
		}
		if math.IsNaN(sa) {
			return false
		}
		return math.Abs(sa) > math.Abs(sb)
	})
	return order
}

// checkOrder reports InvalidInput unless order is a permutation of 0..n-1.
func checkOrder(order []int, n int) error {
	if len(order) != n {
		return apperrors.InvalidInput("mrmr", "selector ordered %d of %d features", len(order), n)
	}
	seen := make([]bool, n)
	for pos, idx := range order {
		if idx < 0 || idx >= n {
			return apperrors.InvalidInput("mrmr", "position %d holds feature %d, outside 0..%d", pos, idx, n-1)
		}
		if seen[idx] {
			return apperrors.InvalidInput("mrmr", "feature %d is selected twice", idx)
		}
		seen[idx] = true
	}
	return nil
}

// RanksFromOrder inverts an ordering into 1-based ranks per index.
func RanksFromOrder(order []int) []int {
	ranks := make([]int, len(order))
	for pos, idx := range order {
		ranks[idx] = pos + 1
	}
	return ranks
}

// Rank is a convenience wrapper around New(cfg).Rank(data, labels).
func Rank(data mat64.Matrix, labels []int, cfg Config) (*Result, error) {
	r, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return r.Rank(data, labels)
}
