package dsmc

import "math"

// Grid holds the domain extents and cell geometry. It is constructed once
// at startup and never mutated afterward, matching the lifecycle the
// teacher repository gives its vargrid geometry.
type Grid struct {
	Xmin, Xmax float64 // domain extent in x [m]
	Ymin, Ymax float64 // domain extent in y [m]
	Nx, Ny     int     // number of cells in each direction

	Dx, Dy   float64 // cell size
	RDx, RDy float64 // 1/Dx, 1/Dy

	Xc []float64 // cell centroids, length Nx
	Yc []float64 // cell centroids, length Ny

	Section float64 // effective third-dimension thickness
	VCell   float64 // Dx * Dy * Section
}

// NewGrid builds a Grid from domain extents and resolution. Section is the
// effective third-dimension thickness derived elsewhere (from the target
// reduced density, see DeriveSection) so that the total particle count
// reproduces it; NewGrid takes it as already-resolved input.
func NewGrid(xmin, xmax, ymin, ymax float64, nx, ny int, section float64) (*Grid, error) {
	if nx <= 0 || ny <= 0 {
		return nil, &ConfigError{Msg: "grid resolution must be positive"}
	}
	if xmax <= xmin || ymax <= ymin {
		return nil, &ConfigError{Msg: "domain extents are degenerate"}
	}
	g := &Grid{
		Xmin: xmin, Xmax: xmax,
		Ymin: ymin, Ymax: ymax,
		Nx: nx, Ny: ny,
		Section: section,
	}
	g.Dx = (xmax - xmin) / float64(nx)
	g.Dy = (ymax - ymin) / float64(ny)
	g.RDx = 1 / g.Dx
	g.RDy = 1 / g.Dy
	g.VCell = g.Dx * g.Dy * g.Section

	g.Xc = make([]float64, nx)
	for i := 0; i < nx; i++ {
		g.Xc[i] = xmin + (float64(i)+0.5)*g.Dx
	}
	g.Yc = make([]float64, ny)
	for j := 0; j < ny; j++ {
		g.Yc[j] = ymin + (float64(j)+0.5)*g.Dy
	}
	return g, nil
}

// DeriveSection computes the effective third-dimension thickness so that
// nPart particles distributed uniformly across the domain reproduce the
// target reduced density etaTarget for a fluid of hard-sphere diameter sigma.
func DeriveSection(nPart int, nx, ny int, dx, dy, sigma, etaTarget float64) float64 {
	// eta = (pi/6) sigma^3 * n, n = nPart / (Nx*Ny*dx*dy*section)
	numCells := float64(nx * ny)
	n := etaTarget / ((math.Pi / 6) * sigma * sigma * sigma)
	return float64(nPart) / (numCells * dx * dy * n)
}

// Cell returns the cell index (cx, cy) containing point (x, y), assuming
// x and y have already been wrapped into [Xmin,Xmax) and [Ymin,Ymax).
func (g *Grid) Cell(x, y float64) (int, int) {
	cx := int((x - g.Xmin) * g.RDx)
	cy := int((y - g.Ymin) * g.RDy)
	if cx >= g.Nx {
		cx = g.Nx - 1
	}
	if cy >= g.Ny {
		cy = g.Ny - 1
	}
	if cx < 0 {
		cx = 0
	}
	if cy < 0 {
		cy = 0
	}
	return cx, cy
}

// Lexico converts a cell coordinate to a row-major linear cell index.
func (g *Grid) Lexico(cx, cy int) int { return cy*g.Nx + cx }

// NumCells returns Nx*Ny.
func (g *Grid) NumCells() int { return g.Nx * g.Ny }

// Wrap folds x into [lo, hi) using a single modular reduction, bounded
// regardless of how many periods x is displaced by — never an iterative
// shift loop that could wedge on pathological velocities.
func Wrap(x, lo, hi float64) float64 {
	span := hi - lo
	y := math.Mod(x-lo, span)
	if y < 0 {
		y += span
	}
	return lo + y
}

// Species holds fluid parameters shared by the potential, force, and
// collision subsystems.
type Species struct {
	Mass  float64 // m
	Sigma float64 // hard-sphere diameter, sigma
}

// Cutoff is the mean-field interaction range expressed in cells.
type Cutoff struct {
	Cx, Cy int
}

// NewCutoff derives the halo cutoff in cells from a physical range and
// cell size, rounding up so the window fully covers the interaction range.
func NewCutoff(xExtra, yExtra, dx, dy float64) Cutoff {
	return Cutoff{
		Cx: int(math.Ceil(xExtra / dx)),
		Cy: int(math.Ceil(yExtra / dy)),
	}
}

// StencilWeights are the normalized disk-averaging weights used by the
// density kernel (§3 "Stencil weights w(i,j)").
type StencilWeights struct {
	Sx, Sy int // half-extent of the stencil window, in cells
	W      map[[2]int]float64
}

// NewStencilWeights builds the raw weights over the disk of radius sigma/2
// and normalizes them to sum to exactly 1.
func NewStencilWeights(sigma, dx, dy float64) *StencilWeights {
	sx := int(sigma / (2 * dx * math.Sqrt2))
	sy := int(sigma / (2 * dy * math.Sqrt2))
	s := &StencilWeights{Sx: sx, Sy: sy, W: make(map[[2]int]float64)}

	const coef = 12 / math.Pi // divided by sigma^3 below
	var sum float64
	for i := -sx; i <= sx; i++ {
		for j := -sy; j <= sy; j++ {
			r2 := (float64(i) * dx) * (float64(i) * dx)
			r2 += (float64(j) * dy) * (float64(j) * dy)
			disc := sigma*sigma/4 - r2
			if disc <= 0 {
				continue
			}
			w := coef / (sigma * sigma * sigma) * math.Sqrt(disc) * dx * dy
			s.W[[2]int{i, j}] = w
			sum += w
		}
	}
	if sum <= 0 {
		panic("stencil weights degenerate: sigma too small relative to cell size")
	}
	for k, w := range s.W {
		s.W[k] = w / sum
	}
	return s
}
