// Package optimization defines the contract between the calibration
// layer and the derivative-free global optimizers that serve it.
package optimization

import (
	"context"
)

// Minimizer is a black-box global minimizer. Implementations spend at most
// Config.MaxEvals objective evaluations, never query the objective outside
// Config.Bounds, and return the best point observed over the whole run.
type Minimizer interface {
	Minimize(ctx context.Context, cfg Config) (*Result, error)
}

// ObjectiveFunction is the function being minimized. It must be
// deterministic: identical inputs yield identical values.
type ObjectiveFunction func([]float64) (float64, error)

// Bound is one dimension of the search space. Name identifies the
// parameter the dimension's values are unpacked into.
type Bound struct {
	Name     string
	Min, Max float64
}

// Config describes a single optimization run.
type Config struct {
	// Objective function to minimize.
	Objective ObjectiveFunction

	// Bounds of the search space, one per dimension, in the order values
	// are handed to the objective.
	Bounds []Bound

	// MaxEvals is the total objective evaluation budget, including any
	// warm-start evaluation and the exploration phase.
	MaxEvals int

	// ExplorationFraction is the share of MaxEvals spent on unbiased
	// space-filling sampling before the model-guided phase. Zero means
	// the implementation's default.
	ExplorationFraction float64

	// WarmStart, when non-nil, is a known-good point evaluated first to
	// seed the search. It is clamped to Bounds and counts against
	// MaxEvals.
	WarmStart []float64

	// Seed makes the run reproducible. Zero seeds from the current time.
	Seed int64

	// Acquisition selects the strategy steering the model-guided phase.
	Acquisition AcquisitionStrategy

	// Kappa is the exploration weight for the LCB acquisition.
	Kappa float64

	// Xi is the improvement margin for the EI acquisition.
	Xi float64
}

// AcquisitionStrategy names a model-guided point selection strategy.
type AcquisitionStrategy string

const (
	// AcquisitionLCB selects points by lower confidence bound. Default;
	// with a large Kappa it keeps the search aggressively exploratory.
	AcquisitionLCB AcquisitionStrategy = "lcb"

	// AcquisitionEI selects points by expected improvement.
	AcquisitionEI AcquisitionStrategy = "ei"
)

// Solution is a point in the search space with its objective value.
type Solution struct {
	Point []float64
	Value float64
}

// Evaluation records a single objective evaluation.
type Evaluation struct {
	Call     int
	Solution Solution
}

// Result is the outcome of an optimization run.
type Result struct {
	// Best is the lowest-objective point observed, not the last queried.
	Best Solution

	// History holds every evaluation in call order.
	History []Evaluation

	// Evals is the number of objective evaluations actually spent.
	Evals int
}
