package dsmc

import (
	"math"
	"testing"
)

func TestElasticCollisionConservesMomentumAndEnergy(t *testing.T) {
	// Section 4 gives V_cell = 4, so the two particles in cell (5,5) sit
	// at eta = (pi/6)*2/4 ≈ 0.26, safely below the eta >= 1 limit at
	// which the correlation function rejects the configuration.
	g, _ := NewGrid(0, 10, 0, 10, 10, 10, 4)
	sp := Species{Mass: 1, Sigma: 1}
	e := NewEnsemble(g, 2)
	e.Add(5, 5, 1, 0, 0.5)
	e.Add(5, 5, -1, 0, -0.5)

	idx := NewBinnedIndex(g)
	if err := idx.Rebuild(e); err != nil {
		t.Fatalf("Rebuild returned error: %v", err)
	}
	cutoff := NewCutoff(1, 1, g.Dx, g.Dy)
	sw := NewStencilWeights(sp.Sigma, g.Dx, g.Dy)
	dens := NewDensityFields(g, cutoff)
	dens.Rebuild(g, idx, sp, sw, Periodic{})

	rng := NewEngine(76)
	corr := CarnahanStarling{}
	ce := NewCollisionEngine(g, sp, corr, rng)
	ce.Majorants.setA(5, 5, 2)
	ce.Majorants.setC(5, 5, 2)

	pxBefore := e.P[0].Vx + e.P[1].Vx
	pzBefore := e.P[0].Vz + e.P[1].Vz
	eBefore := e.P[0].Vx*e.P[0].Vx + e.P[0].Vy*e.P[0].Vy + e.P[0].Vz*e.P[0].Vz +
		e.P[1].Vx*e.P[1].Vx + e.P[1].Vy*e.P[1].Vy + e.P[1].Vz*e.P[1].Vz

	// Each call tries ~125 candidate pairs (pi*sigma^2*A*C*dt at A=C=2,
	// dt=10), of which about 2 are accepted on average, so a handful of
	// calls lands at least one acceptance; loop until one does so the
	// z-kick assertion below isn't flaky.
	var sawAccept bool
	for i := 0; i < 5 && !sawAccept; i++ {
		if err := ce.Step(e, idx, dens, 10); err != nil {
			t.Fatalf("Step returned error: %v", err)
		}
		sawAccept = sawAccept || ce.Counters.Accepted > 0
	}
	if !sawAccept {
		t.Fatal("no collision was accepted in 5 steps; cannot exercise the elastic exchange")
	}

	pxAfter := e.P[0].Vx + e.P[1].Vx
	pzAfter := e.P[0].Vz + e.P[1].Vz
	eAfter := e.P[0].Vx*e.P[0].Vx + e.P[0].Vy*e.P[0].Vy + e.P[0].Vz*e.P[0].Vz +
		e.P[1].Vx*e.P[1].Vx + e.P[1].Vy*e.P[1].Vy + e.P[1].Vz*e.P[1].Vz

	if diff := math.Abs(pxAfter - pxBefore); diff > 1e-9 {
		t.Errorf("x-momentum not conserved: before=%v after=%v", pxBefore, pxAfter)
	}
	// A nonzero starting Vz exercises the z-component of the elastic
	// exchange: the kick must be applied there too, not just in x,y.
	if diff := math.Abs(pzAfter - pzBefore); diff > 1e-9 {
		t.Errorf("z-momentum not conserved: before=%v after=%v", pzBefore, pzAfter)
	}
	if e.P[0].Vz == 0.5 && e.P[1].Vz == -0.5 {
		t.Errorf("Vz unchanged by an accepted collision (%v, %v): z-component of the elastic kick was not applied", e.P[0].Vz, e.P[1].Vz)
	}
	if diff := math.Abs(eAfter - eBefore); diff > 1e-9 {
		t.Errorf("kinetic energy not conserved: before=%v after=%v", eBefore, eAfter)
	}
}

func TestStepWithAllZeroMajorantsProducesNoCandidates(t *testing.T) {
	// §4.7 failure semantics: a cell with A=0 and C=0 but particles
	// produces no candidate; it is correct initially and self-repairs
	// only once neighbouring activity (from a cell with a nonzero
	// majorant) seeds it. With every cell zero, nothing should fire.
	g, _ := NewGrid(0, 10, 0, 10, 10, 10, 1)
	sp := Species{Mass: 1, Sigma: 1}
	rng := NewEngine(76)
	e := NewEnsemble(g, 200)
	for i := 0; i < 200; i++ {
		e.Add(rng.U()*10, rng.U()*10, 0, 0, 0)
	}

	idx := NewBinnedIndex(g)
	if err := idx.Rebuild(e); err != nil {
		t.Fatalf("Rebuild returned error: %v", err)
	}
	cutoff := NewCutoff(1, 1, g.Dx, g.Dy)
	sw := NewStencilWeights(sp.Sigma, g.Dx, g.Dy)
	dens := NewDensityFields(g, cutoff)
	dens.Rebuild(g, idx, sp, sw, Periodic{})

	corr := CarnahanStarling{}
	ce := NewCollisionEngine(g, sp, corr, rng)
	if err := ce.Step(e, idx, dens, 0.1); err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if ce.Counters.Total() != 0 {
		t.Errorf("counters = %+v, want all zero with every majorant at zero", ce.Counters)
	}
}

func TestMajorantRepairStabilizes(t *testing.T) {
	g, _ := NewGrid(0, 10, 0, 10, 10, 10, 1)
	sp := Species{Mass: 1, Sigma: 0.3}
	rng := NewEngine(76)
	n := 2000
	e := NewEnsemble(g, n)
	for i := 0; i < n; i++ {
		vx, vy, vz := rng.Maxwell(sp.Mass, 0, 0, 0.5)
		e.Add(rng.U()*10, rng.U()*10, vx, vy, vz)
	}

	idx := NewBinnedIndex(g)
	cutoff := NewCutoff(1, 1, g.Dx, g.Dy)
	sw := NewStencilWeights(sp.Sigma, g.Dx, g.Dy)
	dens := NewDensityFields(g, cutoff)
	corr := CarnahanStarling{}
	ce := NewCollisionEngine(g, sp, corr, rng)

	if err := idx.Rebuild(e); err != nil {
		t.Fatalf("Rebuild returned error: %v", err)
	}
	dens.Rebuild(g, idx, sp, sw, Periodic{})
	if err := ce.InitialMajorantEstimate(e, idx, dens); err != nil {
		t.Fatalf("InitialMajorantEstimate returned error: %v", err)
	}

	var anySeeded bool
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			if ce.Majorants.getC(i, j) > 0 {
				anySeeded = true
			}
		}
	}
	if !anySeeded {
		t.Fatalf("InitialMajorantEstimate failed to seed any cell's C majorant")
	}

	var lastA float64
	for step := 0; step < 100; step++ {
		if err := idx.Rebuild(e); err != nil {
			t.Fatalf("Rebuild returned error at step %d: %v", step, err)
		}
		dens.Rebuild(g, idx, sp, sw, Periodic{})
		if err := ce.Step(e, idx, dens, 0.01); err != nil {
			t.Fatalf("Step returned error at step %d: %v", step, err)
		}
		if step == 98 {
			lastA = ce.Majorants.getA(5, 5)
		}
	}
	finalA := ce.Majorants.getA(5, 5)
	if lastA > 0 {
		relDiff := (finalA - lastA) / lastA
		if relDiff < 0 {
			relDiff = -relDiff
		}
		if relDiff > 0.10 {
			t.Errorf("A(5,5) moved by %v%% in the final step, want stabilised within 10%%", relDiff*100)
		}
	}
}

func TestInitialMajorantEstimateSeedsMajorants(t *testing.T) {
	g, _ := NewGrid(0, 10, 0, 10, 10, 10, 1)
	// sigma = 0.3 keeps eta = (pi/6)*sigma^3*npc well below 1 at about 5
	// particles per unit cell.
	sp := Species{Mass: 1, Sigma: 0.3}
	rng := NewEngine(76)
	e := NewEnsemble(g, 500)
	for i := 0; i < 500; i++ {
		vx, vy, vz := rng.Maxwell(sp.Mass, 0, 0, 1)
		e.Add(rng.U()*10, rng.U()*10, vx, vy, vz)
	}

	idx := NewBinnedIndex(g)
	if err := idx.Rebuild(e); err != nil {
		t.Fatalf("Rebuild returned error: %v", err)
	}
	cutoff := NewCutoff(1, 1, g.Dx, g.Dy)
	sw := NewStencilWeights(sp.Sigma, g.Dx, g.Dy)
	dens := NewDensityFields(g, cutoff)
	dens.Rebuild(g, idx, sp, sw, Periodic{})

	corr := CarnahanStarling{}
	ce := NewCollisionEngine(g, sp, corr, rng)
	if err := ce.InitialMajorantEstimate(e, idx, dens); err != nil {
		t.Fatalf("InitialMajorantEstimate returned error: %v", err)
	}

	var anyPositive bool
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			if ce.Majorants.getC(i, j) > 0 {
				anyPositive = true
			}
		}
	}
	if !anyPositive {
		t.Errorf("expected InitialMajorantEstimate to raise C above zero somewhere")
	}
}
