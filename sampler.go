package dsmc

import (
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// SampleMoments holds the bin-wise first and second velocity moments,
// number density, kinetic temperature, the full streaming pressure
// tensor, and heat flux accumulated over a sampling window (§4.9
// "Sampled observables", restored per the original sampler's six
// pressure components and three heat-flux components rather than a
// reduced scalar/2-vector). All fields are interior-only, indexed
// (cx,cy).
type SampleMoments struct {
	Count      *HaloField[float64] // raw hit count, undivided
	N          *HaloField[float64] // number density, count/(outer*V_cell)
	Ux, Uy, Uz *HaloField[float64] // mean velocity components
	T          *HaloField[float64] // kinetic temperature

	// Streaming pressure tensor (symmetric, 6 independent components).
	Pxx, Pyy, Pzz *HaloField[float64]
	Pxy, Pxz, Pyz *HaloField[float64]

	// Heat flux, all three components.
	Qx, Qy, Qz *HaloField[float64]
}

// NewSampleMoments allocates interior-only moment fields for grid g.
func NewSampleMoments(g *Grid) *SampleMoments {
	h := func() *HaloField[float64] { return NewHaloField[float64](0, g.Nx, 0, g.Ny, 0, 0, 0) }
	return &SampleMoments{
		Count: h(), N: h(),
		Ux: h(), Uy: h(), Uz: h(),
		T:   h(),
		Pxx: h(), Pyy: h(), Pzz: h(),
		Pxy: h(), Pxz: h(), Pyz: h(),
		Qx: h(), Qy: h(), Qz: h(),
	}
}

// Sampler accumulates raw per-cell velocity moments over many steps and
// reduces them to SampleMoments on Flush, the same accumulate-then-
// reduce shape as the teacher's science.go pollutant-concentration
// averaging, grounded on the original sampler's sample()/average()
// split (§4.9, original_source/sampling.cpp).
type Sampler struct {
	Grid *Grid
	Mass float64

	nSamples int // outer_counter
	sumN     []float64
	sumVx    []float64
	sumVy    []float64
	sumVz    []float64

	sumVxVx []float64
	sumVyVy []float64
	sumVzVz []float64
	sumVxVy []float64
	sumVxVz []float64
	sumVyVz []float64

	sumE   []float64 // sum of v.v per particle
	sumVxE []float64
	sumVyE []float64
	sumVzE []float64
}

// NewSampler allocates a sampler for grid g.
func NewSampler(g *Grid, mass float64) *Sampler {
	nc := g.NumCells()
	mk := func() []float64 { return make([]float64, nc) }
	return &Sampler{
		Grid: g, Mass: mass,
		sumN: mk(), sumVx: mk(), sumVy: mk(), sumVz: mk(),
		sumVxVx: mk(), sumVyVy: mk(), sumVzVz: mk(),
		sumVxVy: mk(), sumVxVz: mk(), sumVyVz: mk(),
		sumE: mk(), sumVxE: mk(), sumVyE: mk(), sumVzE: mk(),
	}
}

// Accumulate adds one step's worth of per-particle velocities into the
// running per-cell sums. idx and dens are accepted for symmetry with the
// rest of the pipeline but the moments are computed directly from the
// ensemble so density rebinning order never matters.
func (s *Sampler) Accumulate(e *Ensemble, idx *BinnedIndex, dens *DensityFields) {
	g := s.Grid
	for _, p := range e.P {
		c := g.Lexico(p.Cx, p.Cy)
		vx, vy, vz := p.Vx, p.Vy, p.Vz
		ekin := vx*vx + vy*vy + vz*vz

		s.sumN[c]++
		s.sumVx[c] += vx
		s.sumVy[c] += vy
		s.sumVz[c] += vz

		s.sumVxVx[c] += vx * vx
		s.sumVyVy[c] += vy * vy
		s.sumVzVz[c] += vz * vz
		s.sumVxVy[c] += vx * vy
		s.sumVxVz[c] += vx * vz
		s.sumVyVz[c] += vy * vz

		s.sumE[c] += ekin
		s.sumVxE[c] += vx * ekin
		s.sumVyE[c] += vy * ekin
		s.sumVzE[c] += vz * ekin
	}
	s.nSamples++
}

// Flush reduces the accumulated sums into SampleMoments and resets the
// accumulator for the next window. Number density and the pressure
// tensor/heat flux both carry the dt_factor = n/(outer_counter*V_cell)
// weighting the original sampler applies in its average() step.
func (s *Sampler) Flush() *SampleMoments {
	g := s.Grid
	m := NewSampleMoments(g)
	temps := make([]float64, 0, g.NumCells())

	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			c := g.Lexico(i, j)
			n := s.sumN[c]
			m.Count.Set(i, j, n)
			if n == 0 || s.nSamples == 0 {
				continue
			}

			nAvg := n / (float64(s.nSamples) * g.VCell)
			m.N.Set(i, j, nAvg)

			ux, uy, uz := s.sumVx[c]/n, s.sumVy[c]/n, s.sumVz[c]/n
			m.Ux.Set(i, j, ux)
			m.Uy.Set(i, j, uy)
			m.Uz.Set(i, j, uz)

			pxx := (s.sumVxVx[c]/n - ux*ux) * nAvg * s.Mass
			pyy := (s.sumVyVy[c]/n - uy*uy) * nAvg * s.Mass
			pzz := (s.sumVzVz[c]/n - uz*uz) * nAvg * s.Mass
			pxy := (s.sumVxVy[c]/n - ux*uy) * nAvg * s.Mass
			pxz := (s.sumVxVz[c]/n - ux*uz) * nAvg * s.Mass
			pyz := (s.sumVyVz[c]/n - uy*uz) * nAvg * s.Mass
			m.Pxx.Set(i, j, pxx)
			m.Pyy.Set(i, j, pyy)
			m.Pzz.Set(i, j, pzz)
			m.Pxy.Set(i, j, pxy)
			m.Pxz.Set(i, j, pxz)
			m.Pyz.Set(i, j, pyz)

			qx := (s.sumVxE[c] / (2 * n)) * nAvg * s.Mass
			qy := (s.sumVyE[c] / (2 * n)) * nAvg * s.Mass
			qz := (s.sumVzE[c] / (2 * n)) * nAvg * s.Mass
			m.Qx.Set(i, j, qx)
			m.Qy.Set(i, j, qy)
			m.Qz.Set(i, j, qz)

			meanE := s.sumE[c] / n
			tLocal := s.Mass * (meanE - (ux*ux + uy*uy + uz*uz)) / 3
			m.T.Set(i, j, tLocal)
			temps = append(temps, tLocal)
		}
	}

	if len(temps) > 0 {
		mean, variance := stat.MeanVariance(temps, nil)
		logrus.WithFields(logrus.Fields{
			"samples":   s.nSamples,
			"mean_temp": mean,
			"temp_var":  variance,
		}).Debug("dsmc: flushed sample window")
	}

	s.reset()
	return m
}

func (s *Sampler) reset() {
	s.nSamples = 0
	for i := range s.sumN {
		s.sumN[i] = 0
		s.sumVx[i] = 0
		s.sumVy[i] = 0
		s.sumVz[i] = 0
		s.sumVxVx[i] = 0
		s.sumVyVy[i] = 0
		s.sumVzVz[i] = 0
		s.sumVxVy[i] = 0
		s.sumVxVz[i] = 0
		s.sumVyVz[i] = 0
		s.sumE[i] = 0
		s.sumVxE[i] = 0
		s.sumVyE[i] = 0
		s.sumVzE[i] = 0
	}
}
