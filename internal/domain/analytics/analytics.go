// Package analytics derives cohort insights from a batch: a 2-D projection,
// clusters, nearest neighbors and a composite success score.
//
// Every step is best effort. A failing step yields its documented default
// (origin coordinates, cluster 0, no neighbors) and is logged, never raised.
package analytics

import (
	"context"

	"github.com/okian/screener/internal/domain/model"
	"github.com/okian/screener/internal/domain/types"
	"github.com/okian/screener/internal/domain/vectorspace"
	"github.com/okian/screener/pkg/logger"
	"github.com/okian/screener/pkg/metrics"
	"github.com/sourcegraph/conc/panics"
)

// Step names used in logs and metrics.
const (
	StepVectorize = "vectorize"
	StepPCA       = "pca"
	StepCluster   = "cluster"
	StepNeighbors = "neighbors"
)

// Input is the redacted corpus of one batch. Filenames and Texts align.
type Input struct {
	JobText   string
	Filenames []string
	Texts     []string
}

// Report holds one value per candidate for each step.
type Report struct {
	PCA       types.Step[[]types.Point]
	Clusters  types.Step[[]int]
	Neighbors types.Step[[][]types.Neighbor]
}

// Analyzer runs the cohort steps.
type Analyzer struct {
	vectorizer *vectorspace.Vectorizer
	seed       int64
	logger     logger.Logger
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		vectorizer: vectorspace.New(),
		seed:       DefaultKMeans(0).Seed,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run builds its own vector space over [job]+texts and computes every step.
func (a *Analyzer) Run(ctx context.Context, in Input) Report {
	n := len(in.Texts)
	rep := Report{
		PCA:       types.OK(make([]types.Point, n)),
		Clusters:  types.OK(make([]int, n)),
		Neighbors: types.OK(emptyNeighbors(n)),
	}
	if n == 0 {
		return rep
	}

	docs := append([]string{in.JobText}, in.Texts...)
	m, err := a.vectorizer.Fit(docs)
	if err != nil {
		a.degraded(ctx, StepVectorize, err)
		rep.PCA = types.Degrade(make([]types.Point, n), err)
		rep.Clusters = types.Degrade(make([]int, n), err)
		rep.Neighbors = types.Degrade(emptyNeighbors(n), err)
		return rep
	}
	rows := m.Rows[1:]
	if n < 2 {
		return rep
	}

	if m.Dims() >= projectionDims {
		rep.PCA = guard(ctx, a, StepPCA, make([]types.Point, n), func() ([]types.Point, error) {
			return Project(m.Dense(1))
		})
	}
	rep.Clusters = guard(ctx, a, StepCluster, make([]int, n), func() ([]int, error) {
		km := DefaultKMeans(ClusterCount(n))
		km.Seed = a.seed
		return km.Fit(rows)
	})
	rep.Neighbors = guard(ctx, a, StepNeighbors, emptyNeighbors(n), func() ([][]types.Neighbor, error) {
		sim, err := vectorspace.Pairwise(rows)
		if err != nil {
			return nil, err
		}
		return Neighbors(sim, in.Filenames, MaxNeighbors)
	})
	return rep
}

// guard runs f, converting errors and panics into a degraded step.
func guard[T any](ctx context.Context, a *Analyzer, step string, def T, f func() (T, error)) types.Step[T] {
	var (
		v   T
		err error
	)
	if r := panics.Try(func() { v, err = f() }); r != nil {
		err = r.AsError()
	}
	if err != nil {
		a.degraded(ctx, step, err)
		return types.Degrade(def, err)
	}
	return types.OK(v)
}

func (a *Analyzer) degraded(ctx context.Context, step string, err error) {
	a.logger.Warn(ctx, "analytics step degraded", logger.String("step", step), logger.Error(err))
	metrics.RecordAnalyticsDegraded(step)
}

// Attach sets insights and the success score on scored candidates. Report
// values are matched by filename, since scored candidates are reordered.
func Attach(scored []model.ScoredCandidate, filenames []string, rep Report) {
	index := make(map[string]int, len(filenames))
	for i, f := range filenames {
		index[f] = i
	}
	for i := range scored {
		c := &scored[i]
		ins := &model.Insights{Neighbors: []types.Neighbor{}}
		if j, ok := index[c.Filename]; ok {
			ins.PCA = rep.PCA.Value[j]
			ins.ClusterID = rep.Clusters.Value[j]
			ins.Neighbors = rep.Neighbors.Value[j]
		}
		c.Insights = ins
		ins.SuccessScore, ins.SuccessExplain = Success(c)
	}
}

func emptyNeighbors(n int) [][]types.Neighbor {
	out := make([][]types.Neighbor, n)
	for i := range out {
		out[i] = []types.Neighbor{}
	}
	return out
}
