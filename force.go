package dsmc

// ForceField holds the interior-only mean-field force components, Fx and
// Fy (§3 "Force field"). Built by convolving the precomputed radial
// kernel matrix with the halo-backed density field (§4.5).
type ForceField struct {
	Fx, Fy *HaloField[float64]
}

// NewForceField allocates an interior-only Nx x Ny force field.
func NewForceField(g *Grid) *ForceField {
	return &ForceField{
		Fx: NewHaloField[float64](0, g.Nx, 0, g.Ny, 0, 0, 0),
		Fy: NewHaloField[float64](0, g.Nx, 0, g.Ny, 0, 0, 0),
	}
}

// Rebuild convolves the kernel matrix with the halo-backed number
// density n to produce Fx(i,j) and Fy(i,j) (§4.5).
func (ff *ForceField) Rebuild(g *Grid, km *KernelMatrix, n *HaloField[float64]) {
	invArea := 1 / (g.Dx * g.Dy)
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			var fx, fy float64
			for off, k := range km.K {
				a, b := off[0], off[1]
				_, ux, uy := km.At(a, b, g.Dx, g.Dy)
				nv := n.Get(i+a, j+b)
				fx += k * ux * nv
				fy += k * uy * nv
			}
			ff.Fx.Set(i, j, fx*invArea)
			ff.Fy.Set(i, j, fy*invArea)
		}
	}
}

// At returns the force on a particle in cell (cx,cy), divided by mass to
// give an acceleration, or zero if the force field is disabled.
func (ff *ForceField) At(cx, cy int, mass float64) (ax, ay float64) {
	if ff == nil {
		return 0, 0
	}
	return ff.Fx.Get(cx, cy) / mass, ff.Fy.Get(cx, cy) / mass
}
