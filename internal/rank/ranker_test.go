package rank

import (
	"math"
	"math/rand"
	"testing"

	"github.com/gonum/matrix/mat64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/KyungWonPark/featrank/internal/errors"
	"github.com/KyungWonPark/featrank/internal/outlier"
	"github.com/KyungWonPark/featrank/internal/scale"
)

var tenLabels = []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}

// separable returns 10 samples x 3 features: feature 0 splits the classes
// perfectly, feature 1 is noise, feature 2 is mildly informative.
func separable() *mat64.Dense {
	return mat64.NewDense(10, 3, []float64{
		0, 1, 0,
		1, 2, 1,
		2, 1, 2,
		3, 2, 3,
		4, 1, 4,
		10, 2, 2,
		11, 1, 3,
		12, 2, 4,
		13, 1, 5,
		14, 2, 6,
	})
}

// synthetic returns rows x 4 features where feature 0 is strongly and
// feature 2 weakly shifted by the label.
func synthetic(rows int, seed int64) (*mat64.Dense, []int) {
	rng := rand.New(rand.NewSource(seed))
	data := mat64.NewDense(rows, 4, nil)
	labels := make([]int, rows)
	for i := 0; i < rows; i++ {
		labels[i] = i % 2
		y := float64(labels[i])
		data.Set(i, 0, 3*y+0.5*rng.NormFloat64())
		data.Set(i, 1, rng.NormFloat64())
		data.Set(i, 2, 0.5*y+0.5*rng.NormFloat64())
		data.Set(i, 3, rng.NormFloat64())
	}
	return data, labels
}

func plain(m Method) Config {
	cfg := DefaultConfig()
	cfg.Method = m
	cfg.Outlier = outlier.Policy{Method: outlier.None}
	cfg.Scaling = scale.None
	return cfg
}

func TestRankDMeanEndToEnd(t *testing.T) {
	res, err := Rank(separable(), tenLabels, plain(DMean))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 1}, res.Order)
	assert.Equal(t, []int{1, 3, 2}, res.RankOf)
	assert.InDelta(t, 10, res.Scores[0], 1e-12)
	assert.InDelta(t, 0.2, res.Scores[1], 1e-12)
	assert.InDelta(t, 2, res.Scores[2], 1e-12)
	assert.Nil(t, res.PValues)
}

func TestRankEveryMethod(t *testing.T) {
	data, labels := synthetic(40, 3)
	orig := mat64.DenseCopyOf(data)

	for m := range methodNames {
		t.Run(m.String(), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Method = m

			res, err := Rank(data, labels, cfg)
			require.NoError(t, err)
			require.Len(t, res.Order, 4)
			require.Len(t, res.RankOf, 4)

			seen := make([]bool, 4)
			for i, idx := range res.Order {
				require.False(t, seen[idx], "feature %d ranked twice", idx)
				seen[idx] = true
				assert.Equal(t, i+1, res.RankOf[idx])
			}

			if m != DStd {
				assert.Equal(t, 0, res.Order[0], "strongly shifted feature should rank first")
			}
		})
	}

	assert.True(t, mat64.Equal(orig, data), "input must not be modified")
}

func TestRankTStatPValues(t *testing.T) {
	res, err := Rank(separable(), tenLabels, plain(TStat))
	require.NoError(t, err)

	require.Len(t, res.PValues, 3)
	assert.Equal(t, 0, res.Order[0])
	assert.InDelta(t, -10, res.Scores[0], 1e-12)
	assert.Less(t, res.PValues[0], 1e-4)
	assert.Greater(t, res.PValues[1], 0.05)
}

func TestRankInvalidLabels(t *testing.T) {
	called := false
	cfg := plain(ReliefF)
	cfg.Relief = reliefFunc(func(mat64.Matrix, []int, int) ([]float64, error) {
		called = true
		return nil, nil
	})

	tests := []struct {
		name   string
		labels []int
	}{
		{"three classes", []int{0, 1, 2, 0, 1, 2, 0, 1, 2, 0}},
		{"single class", []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{"too short", []int{0, 1}},
		{"negative", []int{0, -1, 0, 1, 0, 1, 0, 1, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Rank(separable(), tt.labels, cfg)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, apperrors.ErrInvalidLabels)
		})
	}
	assert.False(t, called, "nothing must be computed for invalid labels")
}

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"rank method", func(c *Config) { c.Method = Method(99) }, apperrors.ErrUnknownMethod},
		{"scaling", func(c *Config) { c.Scaling = scale.Method(99) }, apperrors.ErrUnknownMethod},
		{"handling", func(c *Config) { c.Handling = Handling(5) }, apperrors.ErrUnknownMethod},
		{"outlier method", func(c *Config) { c.Outlier.Method = outlier.Method(9) }, apperrors.ErrUnknownMethod},
		{"threshold arity", func(c *Config) {
			c.Outlier = outlier.Policy{Method: outlier.IQR, Threshold: []float64{1.5}}
		}, apperrors.ErrInvalidThreshold},
		{"neighbors", func(c *Config) { c.Neighbors = -1 }, apperrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			r, err := New(cfg)
			assert.Nil(t, r)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewFillsCollaborators(t *testing.T) {
	r, err := New(Config{})
	require.NoError(t, err)

	cfg := r.Config()
	assert.NotNil(t, cfg.Scaler)
	assert.NotNil(t, cfg.Relief)
	assert.NotNil(t, cfg.MRMR)
	assert.Equal(t, 10, cfg.Neighbors)
}

func TestRankEmptyData(t *testing.T) {
	_, err := Rank(&mat64.Dense{}, nil, DefaultConfig())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = Rank(nil, tenLabels, DefaultConfig())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

type reliefFunc func(mat64.Matrix, []int, int) ([]float64, error)

func (f reliefFunc) Weights(data mat64.Matrix, labels []int, k int) ([]float64, error) {
	return f(data, labels, k)
}

func TestRankUsesInjectedRelief(t *testing.T) {
	cfg := plain(ReliefF)
	cfg.Neighbors = 4
	cfg.Relief = reliefFunc(func(data mat64.Matrix, labels []int, k int) ([]float64, error) {
		assert.Equal(t, 4, k)
		return []float64{0.1, -0.5, math.NaN()}, nil
	})

	res, err := Rank(separable(), tenLabels, cfg)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2}, res.Order)
	assert.Equal(t, []int{2, 1, 3}, res.RankOf)
}

type mrmrFunc func(mat64.Matrix, []int, int) ([]int, []float64, error)

func (f mrmrFunc) Select(data mat64.Matrix, labels []int, n int) ([]int, []float64, error) {
	return f(data, labels, n)
}

func TestRankRejectsMalformedPlugins(t *testing.T) {
	gain := []float64{0.3, 0.2, 0.1}

	tests := []struct {
		name   string
		method Method
		order  []int
		gain   []float64
		weight []float64
	}{
		{"mrmr short order", MRMR, []int{2}, gain, nil},
		{"mrmr long order", MRMR, []int{2, 0, 1, 0}, gain, nil},
		{"mrmr duplicate index", MRMR, []int{2, 2, 0}, gain, nil},
		{"mrmr index out of range", MRMR, []int{0, 1, 3}, gain, nil},
		{"mrmr negative index", MRMR, []int{0, -1, 2}, gain, nil},
		{"mrmr short gain", MRMR, []int{2, 0, 1}, []float64{0.3}, nil},
		{"relieff short weights", ReliefF, nil, nil, []float64{0.5}},
		{"relieff no weights", ReliefF, nil, nil, nil},
		{"relieff long weights", ReliefF, nil, nil, []float64{0.5, 0.4, 0.3, 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := plain(tt.method)
			cfg.MRMR = mrmrFunc(func(mat64.Matrix, []int, int) ([]int, []float64, error) {
				return tt.order, tt.gain, nil
			})
			cfg.Relief = reliefFunc(func(mat64.Matrix, []int, int) ([]float64, error) {
				return tt.weight, nil
			})

			var (
				res *Result
				err error
			)
			require.NotPanics(t, func() { res, err = Rank(separable(), tenLabels, cfg) })
			assert.Nil(t, res)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestRankUsesInjectedMRMR(t *testing.T) {
	cfg := plain(MRMR)
	cfg.MRMR = mrmrFunc(func(data mat64.Matrix, labels []int, n int) ([]int, []float64, error) {
		assert.Equal(t, 3, n)
		return []int{2, 0, 1}, []float64{0.2, 0.1, 0.3}, nil
	})

	res, err := Rank(separable(), tenLabels, cfg)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, res.Order)
	assert.Equal(t, []int{2, 3, 1}, res.RankOf)
}

func TestPreprocessWinsorizeThenScale(t *testing.T) {
	data := mat64.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 100})
	cfg := plain(DMean)
	cfg.Outlier = outlier.Policy{Method: outlier.Percentile, Threshold: []float64{0, 75}}
	cfg.Handling = Winsorize
	cfg.Scaling = scale.Rescale

	r, err := New(cfg)
	require.NoError(t, err)
	out := r.Preprocess(data)

	// P75 (midpoint) of six values is 5, so 100 is clamped to 5 before
	// rescaling onto [0, 1]
	assert.InDelta(t, 1, out.At(5, 0), 1e-12)
	assert.InDelta(t, 0.75, out.At(3, 0), 1e-12)
	assert.Equal(t, 100.0, data.At(5, 0))

	cfg.Handling = Trim
	r, err = New(cfg)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(r.Preprocess(data).At(5, 0)))
}

func TestOrderByMagnitude(t *testing.T) {
	nan := math.NaN()
	assert.Equal(t, []int{2, 0, 1, 3}, OrderByMagnitude([]float64{1, -1, 2, nan}))
	assert.Equal(t, []int{1, 3, 0, 2}, OrderByMagnitude([]float64{nan, 5, nan, -4}))
	assert.Equal(t, []int{3, 1, 2}, RanksFromOrder([]int{1, 2, 0}))
}

func TestParseMethod(t *testing.T) {
	tests := map[string]Method{
		"":              ReliefF,
		"ReliefF":       ReliefF,
		"t_stat":        TStat,
		"T-STAT":        TStat,
		"ttest":         TStat,
		"wilcoxon":      Wilcoxon,
		"bhattacharyya": Bhattacharyya,
		"mrmr":          MRMR,
		"dmean":         DMean,
		"dmedian":       DMedian,
		"dstd":          DStd,
	}
	for in, want := range tests {
		got, err := ParseMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMethod("entropy")
	assert.ErrorIs(t, err, apperrors.ErrUnknownMethod)

	h, err := ParseHandling("WINSORIZE")
	require.NoError(t, err)
	assert.Equal(t, Winsorize, h)
	_, err = ParseHandling("drop")
	assert.ErrorIs(t, err, apperrors.ErrUnknownMethod)
}
