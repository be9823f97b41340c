// Package ensemble ranks features repeatedly, across methods and bootstrap
// resamples, and aggregates the runs into one consensus ranking.
package ensemble

import (
	"context"
	"math/rand"

	"github.com/gonum/matrix/mat64"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/KyungWonPark/featrank/internal/aggregate"
	"github.com/KyungWonPark/featrank/internal/calc"
	apperrors "github.com/KyungWonPark/featrank/internal/errors"
	"github.com/KyungWonPark/featrank/internal/rank"
)

// Plan describes an ensemble.
type Plan struct {
	// Methods are ranked in turn, each with Base as the rest of the config.
	// Empty means Base.Method alone.
	Methods []rank.Method
	Base    rank.Config

	// Resamples is the number of stratified bootstrap resamples per method.
	// Zero ranks the full dataset once per method.
	Resamples int

	// Seed makes resampling and random tie breaks reproducible. Trial i
	// draws from a source seeded with Seed+i.
	Seed    int64
	Workers int

	Aggregate aggregate.Config
}

// DefaultPlan is 20 bootstrap resamples of the default ranker, aggregated
// with the default aggregator.
func DefaultPlan() Plan {
	return Plan{
		Base:      rank.DefaultConfig(),
		Resamples: 20,
		Seed:      1,
		Aggregate: aggregate.DefaultConfig(),
	}
}

// Trial is one ranking run of an ensemble.
type Trial struct {
	ID       uuid.UUID
	Method   rank.Method
	Resample int   // -1 for the full dataset
	Rows     []int // sampled row indices, nil for the full dataset
	Result   *rank.Result
}

// Result holds every trial, the rank matrix built from them and the
// consensus.
type Result struct {
	Trials     []Trial
	RankMatrix *mat64.Dense
	Consensus  *aggregate.Result
}

// Run evaluates plan on data and labels. Trials run on a pool of
// plan.Workers goroutines; the result does not depend on the worker count.
func Run(ctx context.Context, data mat64.Matrix, labels []int, plan Plan) (*Result, error) {
	rows, _, err := calc.Check(data, "data")
	if err != nil {
		return nil, err
	}
	if err := rank.ValidateLabels(labels, rows); err != nil {
		return nil, err
	}
	if plan.Resamples < 0 {
		return nil, apperrors.InvalidInput("resamples", "resample count must be non-negative, got %d", plan.Resamples)
	}

	methods := plan.Methods
	if len(methods) == 0 {
		methods = []rank.Method{plan.Base.Method}
	}
	rankers := make([]*rank.Ranker, len(methods))
	for i, m := range methods {
		cfg := plan.Base
		cfg.Method = m
		if rankers[i], err = rank.New(cfg); err != nil {
			return nil, err
		}
	}

	agg := plan.Aggregate
	if agg.TieBreak == aggregate.TieRandom && agg.Rand == nil {
		agg.Rand = rand.New(rand.NewSource(plan.Seed))
	}

	perMethod := plan.Resamples
	if perMethod == 0 {
		perMethod = 1
	}

	src := mat64.DenseCopyOf(data)
	trials := make([]Trial, len(methods)*perMethod)
	errs := make([]error, len(trials))

	pool := calc.NewPool(plan.Workers)
	log.Debug().
		Int("trials", len(trials)).
		Int("workers", pool.Workers()).
		Int64("seed", plan.Seed).
		Msg("starting ensemble")

	err = pool.Run(ctx, len(trials), func(i int) {
		t := &trials[i]
		t.ID = uuid.New()
		t.Method = methods[i/perMethod]
		t.Resample = -1

		x, y := mat64.Matrix(src), labels
		if plan.Resamples > 0 {
			t.Resample = i % perMethod
			rng := rand.New(rand.NewSource(plan.Seed + int64(i)))
			t.Rows = Bootstrap(rng, labels)
			x, y = takeRows(src, labels, t.Rows)
		}

		t.Result, errs[i] = rankers[i/perMethod].Rank(x, y)

		log.Debug().
			Str("trial", t.ID.String()).
			Str("method", t.Method.String()).
			Int("resample", t.Resample).
			Err(errs[i]).
			Msg("trial finished")
	})
	if err != nil {
		return nil, err
	}
	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}

	ranks := make([][]int, len(trials))
	for i, t := range trials {
		ranks[i] = t.Result.RankOf
	}
	rm, err := aggregate.Stack(ranks...)
	if err != nil {
		return nil, err
	}
	consensus, err := aggregate.Aggregate(rm, agg)
	if err != nil {
		return nil, err
	}

	return &Result{Trials: trials, RankMatrix: rm, Consensus: consensus}, nil
}

// Bootstrap draws a stratified bootstrap sample: each class is resampled
// with replacement to its own size, so every class stays present. The
// returned row indices are grouped by class in label order.
func Bootstrap(rng *rand.Rand, labels []int) []int {
	var members [2][]int
	for i, l := range labels {
		members[l] = append(members[l], i)
	}
	rows := make([]int, 0, len(labels))
	for _, idx := range members {
		for range idx {
			rows = append(rows, idx[rng.Intn(len(idx))])
		}
	}
	return rows
}

func takeRows(m *mat64.Dense, labels []int, rows []int) (*mat64.Dense, []int) {
	_, cols := m.Dims()
	out := mat64.NewDense(len(rows), cols, nil)
	y := make([]int, len(rows))
	for i, r := range rows {
		out.SetRow(i, m.RawRowView(r))
		y[i] = labels[r]
	}
	return out, y
}
