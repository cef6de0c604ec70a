package dsmc

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Engine is the deterministic random engine required by §4.1: uniform
// U over (0,1), a uniform point on the unit sphere, and a Maxwell-
// Boltzmann velocity sampler. It is seed-deterministic and reseedable.
type Engine struct {
	src     rand.Source
	uniform distuv.Uniform
}

// NewEngine builds a random engine from a 64-bit seed.
func NewEngine(seed uint64) *Engine {
	src := rand.NewSource(seed)
	return &Engine{
		src:     src,
		uniform: distuv.Uniform{Min: 0, Max: 1, Src: src},
	}
}

// Reseed resets the engine's stream deterministically.
func (e *Engine) Reseed(seed uint64) {
	e.src.Seed(seed)
}

// U draws a single uniform variate in (0,1).
func (e *Engine) U() float64 {
	return e.uniform.Rand()
}

// Sphere draws a uniform point (kx,ky,kz) on the unit sphere, consuming
// two uniforms, then renormalizes to kill accumulated round-off per §4.1.
func (e *Engine) Sphere() (kx, ky, kz float64) {
	kx = 2*e.U() - 1
	phi := 2 * math.Pi * e.U()
	r := math.Sqrt(max0(1 - kx*kx))
	ky = r * math.Cos(phi)
	kz = r * math.Sin(phi)
	norm := math.Sqrt(kx*kx + ky*ky + kz*kz)
	if norm > 0 {
		kx /= norm
		ky /= norm
		kz /= norm
	}
	return
}

// Maxwell samples a velocity (vx,vy,vz) from a Maxwell-Boltzmann
// distribution of mass m and temperature T, centered at bulk velocity
// (ux,uy,0), via two Box-Muller transforms producing three normal
// variates of variance T/m. Consumes exactly four uniforms.
func (e *Engine) Maxwell(m, ux, uy, T float64) (vx, vy, vz float64) {
	sigma := math.Sqrt(T / m)

	u1, u2 := e.U(), e.U()
	r := sigma * math.Sqrt(-2*math.Log(max0(u1)+tinyEps))
	vx = ux + r*math.Cos(2*math.Pi*u2)
	vy = uy + r*math.Sin(2*math.Pi*u2)

	u3, u4 := e.U(), e.U()
	r2 := sigma * math.Sqrt(-2*math.Log(max0(u3)+tinyEps))
	vz = r2 * math.Cos(2*math.Pi*u4)
	return
}

const tinyEps = 1e-300

func max0(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}
