package dsmc

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// BinnedIndex is the cell-sorted particle map of §4.3: a cumulative-count
// index permitting O(1) lookup of every particle in a given cell. Npc is
// backed by github.com/ctessum/sparse, the same library the teacher uses
// for every plain (non-halo) gridded field.
type BinnedIndex struct {
	grid *Grid

	Npc *sparse.DenseArrayInt // particle count per cell, Ny rows x Nx cols
	Iof []int                 // cumulative offsets, length Nc+1
	Ind []int                 // particle ids grouped contiguously by cell

	cellOf []int // scratch: cell index of each particle, reused across steps
	raw    []int // scratch: per-cell running insertion count
}

// NewBinnedIndex allocates a binned index for grid g.
func NewBinnedIndex(g *Grid) *BinnedIndex {
	nc := g.NumCells()
	return &BinnedIndex{
		grid: g,
		Npc:  sparse.ZerosDenseInt(g.Ny, g.Nx),
		Iof:  make([]int, nc+1),
	}
}

// Rebuild recomputes Npc, Iof, and Ind from the ensemble's cached cell
// indices, per the three-pass algorithm in §4.3. An out-of-range cached
// cell index is a programmer error: the run terminates rather than
// silently clamping (§4.3 "Failure policy").
func (b *BinnedIndex) Rebuild(e *Ensemble) error {
	g := b.grid
	n := e.N()
	nc := g.NumCells()

	for i := range b.Npc.Elements {
		b.Npc.Elements[i] = 0
	}
	if cap(b.cellOf) < n {
		b.cellOf = make([]int, n)
	} else {
		b.cellOf = b.cellOf[:n]
	}
	if cap(b.Ind) < n {
		b.Ind = make([]int, n)
	} else {
		b.Ind = b.Ind[:n]
	}

	// Pass 1: count particles per cell.
	for i, p := range e.P {
		if p.Cx < 0 || p.Cx >= g.Nx || p.Cy < 0 || p.Cy >= g.Ny {
			return &InvariantError{
				Msg:  fmt.Sprintf("particle %d has out-of-range cached cell (%d,%d)", i, p.Cx, p.Cy),
				File: "index.go", Line: 59,
			}
		}
		c := g.Lexico(p.Cx, p.Cy)
		b.cellOf[i] = c
		b.Npc.Elements[c]++
	}

	// Pass 2: cumulative offsets.
	b.Iof[0] = 0
	for k := 0; k < nc; k++ {
		b.Iof[k+1] = b.Iof[k] + b.Npc.Elements[k]
	}

	// Pass 3: scatter particle ids into their cell's contiguous run.
	if cap(b.raw) < nc {
		b.raw = make([]int, nc)
	} else {
		b.raw = b.raw[:nc]
		for i := range b.raw {
			b.raw[i] = 0
		}
	}
	for i := range e.P {
		c := b.cellOf[i]
		b.Ind[b.Iof[c]+b.raw[c]] = i
		b.raw[c]++
	}
	return nil
}

// Cell returns the slice of particle indices (into the ensemble) that
// belong to cell (cx,cy).
func (b *BinnedIndex) Cell(cx, cy int) []int {
	c := b.grid.Lexico(cx, cy)
	return b.Ind[b.Iof[c]:b.Iof[c+1]]
}

// Count returns the number of particles in cell (cx,cy).
func (b *BinnedIndex) Count(cx, cy int) int {
	c := b.grid.Lexico(cx, cy)
	return b.Iof[c+1] - b.Iof[c]
}

// RandomParticle picks a uniformly random particle (ensemble index) from
// cell (cx,cy) using u, a uniform in [0,1). Returns ok=false if the cell
// is empty.
func (b *BinnedIndex) RandomParticle(cx, cy int, u float64) (idx int, ok bool) {
	cell := b.Cell(cx, cy)
	if len(cell) == 0 {
		return 0, false
	}
	k := int(u * float64(len(cell)))
	if k >= len(cell) {
		k = len(cell) - 1
	}
	return cell[k], true
}
