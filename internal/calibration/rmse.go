// Package calibration implements the staged black-box identification of
// the simulator's physical parameters: a fixed sequence of forcing
// scenarios, each isolating a parameter subset, each seeding the next.
package calibration

import (
	"math"

	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/sim"
)

// RMSE computes the root-mean-squared error between two trajectories over
// both coordinates. Unequal lengths are handled by trailing-hold padding:
// the shorter trajectory repeats its last point until the lengths match,
// so an early-terminating run still scores finite and monotonically
// worse instead of failing.
func RMSE(a, b sim.Trajectory) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		pa := hold(a, i)
		pb := hold(b, i)
		dx := pa.X - pb.X
		dy := pa.Y - pb.Y
		sum += dx*dx + dy*dy
	}
	return math.Sqrt(sum / float64(2*n))
}

// hold returns t[i], holding the final point for indexes past the end. An
// empty trajectory holds the origin.
func hold(t sim.Trajectory, i int) sim.Vec {
	if len(t) == 0 {
		return sim.Vec{}
	}
	if i >= len(t) {
		return t[len(t)-1]
	}
	return t[i]
}
