package acquisition

// LowerConfidenceBound scores candidates by kappa*sigma - mu, so that
// maximizing the score minimizes the lower confidence bound mu -
// kappa*sigma. A large kappa keeps the search strongly exploratory, which
// suits multi-modal physical calibration objectives.
type LowerConfidenceBound struct {
	kappa float64
}

// NewLowerConfidenceBound creates an LCB acquisition function with the
// given exploration weight.
func NewLowerConfidenceBound(kappa float64) *LowerConfidenceBound {
	return &LowerConfidenceBound{kappa: kappa}
}

// Score computes the (negated) lower confidence bound at a point with
// posterior mean mu and standard deviation sigma.
func (l *LowerConfidenceBound) Score(mu, sigma float64) float64 {
	return l.kappa*sigma - mu
}

// UpdateBest is a no-op: LCB does not depend on the incumbent.
func (l *LowerConfidenceBound) UpdateBest(float64) {}

// Kappa returns the exploration weight.
func (l *LowerConfidenceBound) Kappa() float64 { return l.kappa }
