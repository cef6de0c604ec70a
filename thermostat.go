package dsmc

import "math"

// Thermostat rescales the ensemble's velocity fluctuations to match a
// reference temperature every niter_thermo steps (§4.9 "thermal
// control"), the same kind of periodic correction the teacher applies
// to its deposition velocities in science.go.
type Thermostat struct {
	TRef float64 // reference temperature
	Mass float64
}

// Apply rescales every particle's velocity about the ensemble mean so
// the resulting kinetic temperature matches TRef exactly.
func (t *Thermostat) Apply(e *Ensemble) {
	n := e.N()
	if n == 0 {
		return
	}
	var mux, muy, muz float64
	for _, p := range e.P {
		mux += p.Vx
		muy += p.Vy
		muz += p.Vz
	}
	mux /= float64(n)
	muy /= float64(n)
	muz /= float64(n)

	var kinetic float64
	for _, p := range e.P {
		dx, dy, dz := p.Vx-mux, p.Vy-muy, p.Vz-muz
		kinetic += dx*dx + dy*dy + dz*dz
	}
	// 3 translational degrees of freedom per particle.
	tCur := t.Mass * kinetic / (3 * float64(n))
	if tCur <= 0 {
		return
	}
	scale := math.Sqrt(t.TRef / tCur)

	for i := range e.P {
		e.P[i].Vx = mux + (e.P[i].Vx-mux)*scale
		e.P[i].Vy = muy + (e.P[i].Vy-muy)*scale
		e.P[i].Vz = muz + (e.P[i].Vz-muz)*scale
	}
}
