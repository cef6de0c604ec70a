package dsmc

import "fmt"

// Particle is a single DSMC simulation particle: 2-D position, 3-D
// velocity, cached cell index, and a stable tag that survives rebinning
// (§3 "Particle", supplemented per SPEC_FULL.md §3.x).
type Particle struct {
	X, Y       float64
	Vx, Vy, Vz float64
	Cx, Cy     int
	Tag        int64
}

// Ensemble is the population of particles tracked by the simulation.
// Lifecycle: populated once, then positions/velocities mutate in
// advection and collisions (§3 "Lifecycle").
type Ensemble struct {
	P []Particle

	grid    *Grid
	nextTag int64
}

// NewEnsemble allocates an ensemble sized for n particles against g.
func NewEnsemble(g *Grid, n int) *Ensemble {
	return &Ensemble{P: make([]Particle, 0, n), grid: g}
}

// Add appends a particle at (x,y,vx,vy,vz), assigning it the next stable
// tag and computing its cached cell index. x,y must already lie in
// [Xmin,Xmax)x[Ymin,Ymax).
func (e *Ensemble) Add(x, y, vx, vy, vz float64) {
	cx, cy := e.grid.Cell(x, y)
	e.P = append(e.P, Particle{
		X: x, Y: y,
		Vx: vx, Vy: vy, Vz: vz,
		Cx: cx, Cy: cy,
		Tag: e.nextTag,
	})
	e.nextTag++
}

// N returns the number of particles.
func (e *Ensemble) N() int { return len(e.P) }

// CheckInvariants verifies every particle satisfies the domain and
// cell-index invariants in §3, returning an *InvariantError for the
// first violation found (§7 kind 2: invariant violations are
// programmer/numerical bugs, not transient conditions).
func (e *Ensemble) CheckInvariants() error {
	g := e.grid
	for i, p := range e.P {
		if p.X < g.Xmin || p.X >= g.Xmax || p.Y < g.Ymin || p.Y >= g.Ymax {
			return &InvariantError{
				Msg:  fmt.Sprintf("particle %d (tag %d) outside domain: (%g,%g)", i, p.Tag, p.X, p.Y),
				File: "particle.go", Line: 0,
			}
		}
		wantCx, wantCy := g.Cell(p.X, p.Y)
		if p.Cx != wantCx || p.Cy != wantCy {
			return &InvariantError{
				Msg:  fmt.Sprintf("particle %d (tag %d) cached cell (%d,%d) does not match position-derived cell (%d,%d)", i, p.Tag, p.Cx, p.Cy, wantCx, wantCy),
				File: "particle.go", Line: 0,
			}
		}
		if p.Cx < 0 || p.Cx >= g.Nx || p.Cy < 0 || p.Cy >= g.Ny {
			return &InvariantError{
				Msg:  fmt.Sprintf("particle %d (tag %d) cell index (%d,%d) out of range", i, p.Tag, p.Cx, p.Cy),
				File: "particle.go", Line: 0,
			}
		}
	}
	return nil
}
