package dsmc

import "testing"

func TestSplitCountsUniformReturnsAllGas(t *testing.T) {
	g, _ := NewGrid(0, 10, 0, 10, 10, 10, 1)
	nLiq, nGas := splitCounts(g, 1000, 0, 0.1, 0.4, 2, 2)
	if nLiq != 0 || nGas != 1000 {
		t.Errorf("splitCounts(liqInterf=0) = (%d,%d), want (0,1000)", nLiq, nGas)
	}
}

func TestSplitCountsSlabWeightsByDensity(t *testing.T) {
	g, _ := NewGrid(0, 10, 0, 10, 10, 10, 1)
	nLiq, nGas := splitCounts(g, 1000, 5, 0.1, 0.4, 2, 2)
	if nLiq+nGas != 1000 {
		t.Errorf("nLiq+nGas = %d, want 1000", nLiq+nGas)
	}
	if nLiq <= 0 {
		t.Errorf("nLiq = %d, want > 0 for a denser slab", nLiq)
	}
}

func TestPopulateUniformPlacesAllParticlesInDomain(t *testing.T) {
	g, _ := NewGrid(0, 10, 0, 10, 10, 10, 1)
	sp := Species{Mass: 1, Sigma: 0.3}
	rng := NewEngine(76)
	e := Populate(g, sp, rng, 500, 0, 0.1, 0.4, 2, 2, 0.5)

	if e.N() != 500 {
		t.Fatalf("N() = %d, want 500", e.N())
	}
	for i, p := range e.P {
		if p.X < g.Xmin || p.X >= g.Xmax || p.Y < g.Ymin || p.Y >= g.Ymax {
			t.Fatalf("particle %d out of domain: (%v,%v)", i, p.X, p.Y)
		}
	}
	if err := e.CheckInvariants(); err != nil {
		t.Errorf("CheckInvariants: %v", err)
	}
}

func TestPopulateHorizontalSlabKeepsLiquidParticlesInBand(t *testing.T) {
	g, _ := NewGrid(0, 10, 0, 10, 10, 10, 1)
	sp := Species{Mass: 1, Sigma: 0.3}
	rng := NewEngine(76)
	yThick := 2.0
	cy := (g.Ymin + g.Ymax) / 2

	nLiq, _ := splitCounts(g, 400, 5, 0.1, 0.4, 2, yThick)
	if nLiq == 0 {
		t.Fatal("expected a nonzero liquid-slab particle count for test setup")
	}
	for k := 0; k < 50; k++ {
		x, y := sampleInSlab(g, rng, 5, 2, yThick)
		if y < cy-yThick/2-1e-9 || y > cy+yThick/2+1e-9 {
			t.Fatalf("sampleInSlab produced y=%v outside the band [%v,%v]", y, cy-yThick/2, cy+yThick/2)
		}
		_ = x
	}
}

func TestSampleOutsideSlabAvoidsTheBand(t *testing.T) {
	g, _ := NewGrid(0, 10, 0, 10, 10, 10, 1)
	rng := NewEngine(76)
	yThick := 2.0
	cy := (g.Ymin + g.Ymax) / 2

	for k := 0; k < 200; k++ {
		_, y := sampleOutsideSlab(g, rng, 5, 2, yThick)
		if y >= cy-yThick/2 && y < cy+yThick/2 {
			t.Fatalf("sampleOutsideSlab returned y=%v inside the excluded band", y)
		}
	}
}
