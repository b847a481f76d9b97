// Package acquisition provides the point-selection strategies that steer
// the model-guided phase of Bayesian optimization.
package acquisition

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// Function scores a candidate from the surrogate posterior at that point;
// the optimizer queries the candidate with the highest score. Minimization
// is assumed throughout.
type Function interface {
	// Score computes the acquisition value from the posterior mean and
	// standard deviation at a candidate point.
	Score(mu, sigma float64) float64

	// UpdateBest informs the function of the best objective value
	// observed so far.
	UpdateBest(best float64)
}

// ExpectedImprovement implements the Expected Improvement acquisition
// function for minimization.
type ExpectedImprovement struct {
	// Best observed value so far.
	bestObserved float64
	// Exploration-exploitation trade-off parameter (xi).
	xi float64
}

// NewExpectedImprovement creates an ExpectedImprovement acquisition
// function.
func NewExpectedImprovement(bestObserved, xi float64) *ExpectedImprovement {
	return &ExpectedImprovement{
		bestObserved: bestObserved,
		xi:           xi,
	}
}

// Score computes the Expected Improvement at a point with posterior mean
// mu and standard deviation sigma. The result is always non-negative.
func (ei *ExpectedImprovement) Score(mu, sigma float64) float64 {
	improvement := ei.bestObserved - mu - ei.xi
	if improvement <= 0 {
		return 0.0
	}

	// With a certain prediction the improvement is the whole story.
	if sigma <= 1e-10 {
		return improvement
	}

	// EI = improvement*Φ(z) + sigma*φ(z) with z = improvement/sigma.
	stdNormal := distuv.UnitNormal
	z := improvement / sigma
	return improvement*stdNormal.CDF(z) + sigma*stdNormal.Prob(z)
}

// UpdateBest updates the best observed value.
func (ei *ExpectedImprovement) UpdateBest(best float64) {
	ei.bestObserved = best
}

// SetXi sets the exploration-exploitation trade-off parameter.
func (ei *ExpectedImprovement) SetXi(xi float64) {
	ei.xi = xi
}

// BestObserved returns the best observed value.
func (ei *ExpectedImprovement) BestObserved() float64 {
	return ei.bestObserved
}
