package rank

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/KyungWonPark/featrank/internal/calc"
)

// welch returns the Welch t statistic of c0 against c1 and its
// Welch-Satterthwaite degrees of freedom.
func welch(c0, c1 []float64) (t, df float64) {
	a, b := calc.OmitNaN(c0), calc.OmitNaN(c1)
	n0, n1 := float64(len(a)), float64(len(b))
	if n0 < 2 || n1 < 2 {
		return math.NaN(), math.NaN()
	}

	s0 := calc.Variance(a) / n0
	s1 := calc.Variance(b) / n1
	se2 := s0 + s1

	t = (calc.Mean(a) - calc.Mean(b)) / math.Sqrt(se2)
	df = se2 * se2 / (s0*s0/(n0-1) + s1*s1/(n1-1))
	return t, df
}

// twoSidedP is the two-sided Student's t tail probability of t.
func twoSidedP(t, df float64) float64 {
	switch {
	case math.IsNaN(t):
		return math.NaN()
	case math.IsInf(t, 0):
		return 0
	case math.IsNaN(df) || df <= 0:
		return math.NaN()
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.Survival(math.Abs(t))
}

// mannWhitneyU is the Mann-Whitney U of class 0: its mid-ranked rank sum in
// the pooled sample minus n0(n0+1)/2. A class 0 lying entirely below class 1
// gives 0.
func mannWhitneyU(c0, c1 []float64) float64 {
	a, b := calc.OmitNaN(c0), calc.OmitNaN(c1)
	if len(a) == 0 || len(b) == 0 {
		return math.NaN()
	}

	pooled := append(append(make([]float64, 0, len(a)+len(b)), a...), b...)
	ranks := calc.TiedRank(pooled)

	var rankSum float64
	for _, r := range ranks[:len(a)] {
		rankSum += r
	}
	n0 := float64(len(a))
	return rankSum - n0*(n0+1)/2
}

// centredU is mannWhitneyU minus its null mean n0*n1/2, so perfect
// separation in either direction has the largest magnitude and no
// separation scores 0.
func centredU(c0, c1 []float64) float64 {
	n0, n1 := float64(len(calc.OmitNaN(c0))), float64(len(calc.OmitNaN(c1)))
	return mannWhitneyU(c0, c1) - n0*n1/2
}

// bhattacharyya is the univariate Bhattacharyya distance between two
// normal fits. Non-finite results are reported as NaN.
func bhattacharyya(c0, c1 []float64) float64 {
	m0, m1 := calc.Mean(c0), calc.Mean(c1)
	v0, v1 := calc.Variance(c0), calc.Variance(c1)
	avg := (v0 + v1) / 2

	term1 := (m0 - m1) * (m0 - m1) / avg / 8
	term2 := 0.5 * math.Log(avg/math.Sqrt(v0*v1))
	d := term1 + term2

	if math.IsNaN(d) || math.IsInf(d, 0) {
		return math.NaN()
	}
	return d
}

func absDiff(stat func([]float64) float64) func(c0, c1 []float64) float64 {
	return func(c0, c1 []float64) float64 {
		return math.Abs(stat(c0) - stat(c1))
	}
}

// univariate holds the per-column two-class statistics; the ranker orders
// by magnitude. Wilcoxon scores are centred U, not raw U: raw U ranks a
// perfect separator whose class 0 sits below class 1 last.
var univariate = map[Method]func(c0, c1 []float64) float64{
	TStat: func(c0, c1 []float64) float64 {
		t, _ := welch(c0, c1)
		return t
	},
	Wilcoxon:      centredU,
	Bhattacharyya: bhattacharyya,
	DMean:         absDiff(calc.Mean),
	DMedian:       absDiff(calc.Median),
	DStd:          absDiff(calc.Std),
}
