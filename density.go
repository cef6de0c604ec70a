package dsmc

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DensityFields holds the three cell-indexed fields of §3 "Density
// fields": number density n, reduced density eta, and the disk-smoothed
// reduced density etaBar. n and Eta share halo bounds (-Cx,Nx+Cx)x
// (-Cy,Ny+Cy); EtaBar is interior-only.
type DensityFields struct {
	N      *HaloField[float64]
	Eta    *HaloField[float64]
	EtaBar *HaloField[float64]
}

// NewDensityFields allocates the three fields for grid g with mean-field
// cutoff c.
func NewDensityFields(g *Grid, c Cutoff) *DensityFields {
	return &DensityFields{
		N:      NewHaloField[float64](0, g.Nx, 0, g.Ny, c.Cx, c.Cy, 0),
		Eta:    NewHaloField[float64](0, g.Nx, 0, g.Ny, c.Cx, c.Cy, 0),
		EtaBar: NewHaloField[float64](0, g.Nx, 0, g.Ny, 0, 0, 0),
	}
}

// Rebuild executes the density kernel of §4.4 on an index that has
// already been rebuilt: copy its counts into the halo-backed number
// density, periodic-fill the halo, derive the reduced density, and
// disk-smooth it.
func (d *DensityFields) Rebuild(g *Grid, idx *BinnedIndex, sp Species, sw *StencilWeights, bc BoundaryPolicy) {
	// Step 2: copy npc (cast to real) into n's interior, divide by the
	// cell volume, then halo-fill so the halo holds densities too.
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			d.N.Set(i, j, float64(idx.Npc.Get(j, i)))
		}
	}
	ScaleFloat(d.N, 1/g.VCell)
	bc.FillHalo(d.N)

	// Step 3: reduced density eta = n * (pi/6) sigma^3.
	etaCoef := (math.Pi / 6) * sp.Sigma * sp.Sigma * sp.Sigma
	lx, ux, ly, uy := d.N.Bounds()
	hx, hy := d.N.Halo()
	for j := ly - hy; j < uy+hy; j++ {
		for i := lx - hx; i < ux+hx; i++ {
			d.Eta.Set(i, j, d.N.Get(i, j)*etaCoef)
		}
	}

	// Step 4: smoothed density, disk-weighted stencil average, interior only.
	terms := make([]float64, 0, len(sw.W))
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			terms = terms[:0]
			for off, w := range sw.W {
				terms = append(terms, w*d.Eta.Get(i+off[0], j+off[1]))
			}
			d.EtaBar.Set(i, j, floats.Sum(terms))
		}
	}
}
