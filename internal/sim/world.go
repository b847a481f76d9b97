package sim

import "math"

// Scene constants. The scene is deliberately fixed: one static ground
// segment and one dynamic circle dropped from the same spot every run, so
// that two runs differ only through the physical parameters and the
// impulse schedule.
const (
	Timestep = 1.0 / 60.0

	groundY         = 50.0
	groundHalfThick = 5.0
	groundFriction  = 1.0
	ballRadius      = 20.0
	startX, startY  = 0.0, 300.0
	gravityY        = -1000.0

	// Contacts slower than this along the normal are resolved inelastically,
	// otherwise a resting ball re-bounces off its own gravity step forever.
	velocityThreshold = 1.0

	correctionPercent = 0.4
	correctionSlop    = 0.005
)

// World is an isolated simulation: a static ground plane and a single
// dynamic circular body. A World is built fresh for every simulation run
// and never shared.
type World struct {
	Gravity Vec

	pos Vec
	vel Vec

	mass        float64
	invMass     float64
	restitution float64
	friction    float64
}

// NewWorld constructs a world from the given physical parameters. Invalid
// parameters (non-finite values, non-positive mass) fail here rather than
// propagating into the trajectory.
func NewWorld(params Params) (*World, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	m := params.Mass()
	return &World{
		Gravity:     Vec{0, gravityY},
		pos:         Vec{startX, startY},
		mass:        m,
		invMass:     1.0 / m,
		restitution: params.Elasticity(),
		friction:    params.Friction(),
	}, nil
}

// Position returns the body's current position.
func (w *World) Position() Vec { return w.pos }

// Velocity returns the body's current velocity.
func (w *World) Velocity() Vec { return w.vel }

// ApplyImpulse applies an instantaneous impulse at the body's center:
// a velocity change of J/m, no torque.
func (w *World) ApplyImpulse(j Vec) {
	w.vel = w.vel.Add(j.Scale(w.invMass))
}

// Step advances the world by dt: integrate gravity, move the body, then
// resolve any contact with the ground segment.
func (w *World) Step(dt float64) {
	w.vel = w.vel.Add(w.Gravity.Scale(dt))
	w.pos = w.pos.Add(w.vel.Scale(dt))
	w.resolveGroundContact()
}

// resolveGroundContact handles the circle-vs-segment contact with an
// impulse-based response: a normal impulse scaled by restitution and a
// tangential impulse clamped by the Coulomb cone.
func (w *World) resolveGroundContact() {
	surface := groundY + groundHalfThick
	penetration := surface + ballRadius - w.pos.Y
	if penetration <= 0 {
		return
	}

	// Contact normal points up; the ground is static, so the relative
	// velocity is the body's own.
	vn := w.vel.Y
	if vn < 0 {
		e := w.restitution
		if -vn < velocityThreshold {
			e = 0
		}
		jn := -(1 + e) * vn * w.mass
		w.vel.Y += jn * w.invMass

		// Coulomb friction along the tangent, clamped by mu*|jn|. The
		// ground's coefficient is 1.0 so the body's coefficient is what
		// governs.
		vt := w.vel.X
		if vt != 0 {
			jt := -vt * w.mass
			mu := w.friction * groundFriction
			if math.Abs(jt) > mu*jn {
				jt = -math.Copysign(mu*jn, vt)
			}
			w.vel.X += jt * w.invMass
		}
	}

	if penetration > correctionSlop {
		w.pos.Y += (penetration - correctionSlop) * correctionPercent
	}
}
