// Package bayesian implements a Gaussian-process surrogate minimizer: a
// space-filling exploration phase followed by model-guided point selection
// under a strict objective evaluation budget.
package bayesian

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/optimization"
	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/optimization/acquisition"
	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/optimization/kernels"
)

// Defaults applied when the corresponding Config field is zero.
const (
	defaultExplorationFraction = 0.5
	defaultKappa               = 10.0
	defaultXi                  = 0.01
	gpNoiseVar                 = 1e-6
)

// Optimizer is a Bayesian global minimizer satisfying
// optimization.Minimizer. Each Minimize call runs with fresh state, so a
// single Optimizer can serve consecutive calibration stages.
type Optimizer struct {
	logger *zap.Logger
}

// New creates a Bayesian Optimizer. A nil logger disables logging.
func New(logger *zap.Logger) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{logger: logger.Named("bayesian_optimizer")}
}

// Minimize spends at most cfg.MaxEvals objective evaluations inside
// cfg.Bounds and returns the best point observed. Runs are deterministic
// for a fixed cfg.Seed.
func (o *Optimizer) Minimize(ctx context.Context, cfg optimization.Config) (*optimization.Result, error) {
	if cfg.Objective == nil {
		return nil, optimization.NewErrorf("objective function is required")
	}
	if len(cfg.Bounds) == 0 {
		return nil, optimization.NewErrorf("search space is empty")
	}
	for _, b := range cfg.Bounds {
		if !(b.Min < b.Max) {
			return nil, optimization.NewErrorf("bound %q has empty interval [%v, %v]", b.Name, b.Min, b.Max)
		}
	}
	if cfg.MaxEvals < 1 {
		return nil, optimization.NewErrorf("evaluation budget must be positive, got %d", cfg.MaxEvals)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	frac := cfg.ExplorationFraction
	if frac <= 0 || frac >= 1 {
		frac = defaultExplorationFraction
	}

	var acq acquisition.Function
	switch cfg.Acquisition {
	case optimization.AcquisitionEI:
		xi := cfg.Xi
		if xi == 0 {
			xi = defaultXi
		}
		acq = acquisition.NewExpectedImprovement(math.Inf(1), xi)
	case optimization.AcquisitionLCB, "":
		kappa := cfg.Kappa
		if kappa == 0 {
			kappa = defaultKappa
		}
		acq = acquisition.NewLowerConfidenceBound(kappa)
	default:
		return nil, optimization.NewErrorf("unknown acquisition strategy %q", cfg.Acquisition)
	}

	r := &run{
		cfg:     cfg,
		acq:     acq,
		gp:      NewGP(kernels.NewMatern52(1.0, 1.0), gpNoiseVar, o.logger),
		rng:     rand.New(rand.NewSource(seed)),
		history: make([]optimization.Evaluation, 0, cfg.MaxEvals),
		logger:  o.logger,
	}
	return r.minimize(ctx, frac)
}

// run holds the state of a single Minimize call.
type run struct {
	cfg     optimization.Config
	acq     acquisition.Function
	gp      *GP
	rng     *rand.Rand
	best    *optimization.Solution
	history []optimization.Evaluation
	evals   int
	logger  *zap.Logger
}

func (r *run) minimize(ctx context.Context, explorationFraction float64) (*optimization.Result, error) {
	budget := r.cfg.MaxEvals

	// The warm start is a real evaluation and counts against the budget.
	if r.cfg.WarmStart != nil {
		if len(r.cfg.WarmStart) != len(r.cfg.Bounds) {
			return nil, optimization.NewErrorf("warm start has %d dimensions, search space has %d",
				len(r.cfg.WarmStart), len(r.cfg.Bounds))
		}
		if err := r.evaluate(ctx, r.clamp(r.cfg.WarmStart)); err != nil {
			return nil, err
		}
	}

	nInit := int(math.Round(explorationFraction * float64(budget)))
	if nInit < 1 {
		nInit = 1
	}
	if remaining := budget - r.evals; nInit > remaining {
		nInit = remaining
	}

	for _, x := range r.latinHypercubeSample(nInit) {
		if r.evals >= budget {
			break
		}
		if err := r.evaluate(ctx, x); err != nil {
			return nil, err
		}
	}

	for r.evals < budget {
		next := r.nextPoint()
		if err := r.evaluate(ctx, next); err != nil {
			return nil, err
		}
	}

	r.logger.Debug("optimization finished",
		zap.Int("evals", r.evals),
		zap.Float64("best_value", r.best.Value),
	)

	return &optimization.Result{
		Best:    *r.best,
		History: r.history,
		Evals:   r.evals,
	}, nil
}

// evaluate spends one unit of budget on x, which must already lie inside
// the bounds.
func (r *run) evaluate(ctx context.Context, x []float64) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	value, err := r.cfg.Objective(x)
	if err != nil {
		return optimization.WrapError(err, "objective evaluation failed")
	}

	r.evals++
	point := append([]float64(nil), x...)
	r.history = append(r.history, optimization.Evaluation{
		Call:     r.evals,
		Solution: optimization.Solution{Point: point, Value: value},
	})

	if r.best == nil || value < r.best.Value {
		r.best = &optimization.Solution{Point: point, Value: value}
		r.acq.UpdateBest(value)
	}
	return nil
}

// nextPoint fits the surrogate to the history and returns the in-bounds
// point maximizing the acquisition. Surrogate failures degrade to uniform
// sampling rather than aborting the run.
func (r *run) nextPoint() []float64 {
	X, y := r.trainingData()
	if err := r.gp.Fit(X, y); err != nil {
		r.logger.Warn("GP fit failed, falling back to random sampling", zap.Error(err))
		return r.randomPoint()
	}

	nDims := len(r.cfg.Bounds)
	objective := func(x []float64) float64 {
		mu, sigma, err := r.gp.Predict(r.clamp(x))
		if err != nil {
			return math.Inf(1)
		}
		// Negated: gonum minimizes, the acquisition is maximized.
		return -r.acq.Score(mu, sigma)
	}

	// Multi-start Nelder-Mead: the incumbent plus random restarts.
	nStarts := 5 + int(5*math.Sqrt(float64(nDims)))
	starts := make([][]float64, nStarts)
	starts[0] = append([]float64(nil), r.best.Point...)
	for i := 1; i < nStarts; i++ {
		starts[i] = r.randomPoint()
	}

	problem := optimize.Problem{Func: objective}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-6,
			Relative:   1e-6,
			Iterations: 100,
		},
	}

	var bestX []float64
	bestVal := math.Inf(1)
	for _, start := range starts {
		result, err := optimize.Minimize(problem, start, settings, &optimize.NelderMead{})
		if err == nil && result.F < bestVal {
			bestVal = result.F
			bestX = r.clamp(result.X)
		}
	}
	if bestX == nil {
		return r.randomPoint()
	}
	return bestX
}

func (r *run) trainingData() (*mat.Dense, *mat.VecDense) {
	nSamples := len(r.history)
	nDims := len(r.cfg.Bounds)

	X := mat.NewDense(nSamples, nDims, nil)
	y := mat.NewVecDense(nSamples, nil)
	for i, eval := range r.history {
		X.SetRow(i, eval.Solution.Point)
		y.SetVec(i, eval.Solution.Value)
	}
	return X, y
}

// latinHypercubeSample draws n stratified points inside the bounds.
func (r *run) latinHypercubeSample(n int) [][]float64 {
	nDims := len(r.cfg.Bounds)
	samples := make([][]float64, n)
	for j := range samples {
		samples[j] = make([]float64, nDims)
	}

	for i := 0; i < nDims; i++ {
		strata := make([]float64, n)
		for j := 0; j < n; j++ {
			strata[j] = (float64(j) + r.rng.Float64()) / float64(n)
		}
		r.rng.Shuffle(n, func(k, l int) {
			strata[k], strata[l] = strata[l], strata[k]
		})

		min, max := r.cfg.Bounds[i].Min, r.cfg.Bounds[i].Max
		for j := 0; j < n; j++ {
			samples[j][i] = min + strata[j]*(max-min)
		}
	}
	return samples
}

func (r *run) randomPoint() []float64 {
	x := make([]float64, len(r.cfg.Bounds))
	for i, b := range r.cfg.Bounds {
		x[i] = b.Min + r.rng.Float64()*(b.Max-b.Min)
	}
	return x
}

// clamp projects x onto the bounds, returning a copy.
func (r *run) clamp(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, b := range r.cfg.Bounds {
		out[i] = math.Max(b.Min, math.Min(x[i], b.Max))
	}
	return out
}
