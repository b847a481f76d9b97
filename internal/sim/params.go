package sim

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Parameter names understood by the simulator.
const (
	ParamFriction   = "friction"
	ParamElasticity = "elasticity"
	ParamMass       = "mass"
)

// Defaults used for any parameter absent from a Params set.
const (
	DefaultFriction   = 0.7
	DefaultElasticity = 0.95
	DefaultMass       = 10.0
)

// Params maps physical parameter names to values. Absent keys fall back to
// the package defaults when the simulation world is constructed.
type Params map[string]float64

// Friction returns the Coulomb friction coefficient.
func (p Params) Friction() float64 { return p.value(ParamFriction, DefaultFriction) }

// Elasticity returns the coefficient of restitution.
func (p Params) Elasticity() float64 { return p.value(ParamElasticity, DefaultElasticity) }

// Mass returns the body mass.
func (p Params) Mass() float64 { return p.value(ParamMass, DefaultMass) }

func (p Params) value(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// Clone returns an independent copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Validate rejects parameter sets the simulator cannot construct a world
// from. Bounds (friction, elasticity in [0,1]) are the search space's job,
// not the simulator's; only non-finite values and non-positive mass fail.
func (p Params) Validate() error {
	for _, name := range []string{ParamFriction, ParamElasticity, ParamMass} {
		if v, ok := p[name]; ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return fmt.Errorf("sim: parameter %q is not finite: %v", name, v)
		}
	}
	if m := p.Mass(); m <= 0 {
		return fmt.Errorf("sim: mass must be positive, got %v", m)
	}
	return nil
}

// String renders the parameter set in stable name order, for log lines.
func (p Params) String() string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = fmt.Sprintf("%s=%.4f", k, p[k])
	}
	return strings.Join(parts, ", ")
}
