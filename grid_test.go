package dsmc

import "testing"

func TestNewGridDerivedFields(t *testing.T) {
	g, err := NewGrid(-25, 25, -25, 25, 50, 50, 1)
	if err != nil {
		t.Fatalf("NewGrid returned error: %v", err)
	}
	if g.Dx != 1 || g.Dy != 1 {
		t.Errorf("Dx,Dy = %v,%v, want 1,1", g.Dx, g.Dy)
	}
	if g.VCell != 1 {
		t.Errorf("VCell = %v, want 1", g.VCell)
	}
	if len(g.Xc) != 50 || len(g.Yc) != 50 {
		t.Errorf("centroid slice lengths = %d,%d, want 50,50", len(g.Xc), len(g.Yc))
	}
	if g.Xc[0] != -24.5 {
		t.Errorf("Xc[0] = %v, want -24.5", g.Xc[0])
	}
}

func TestNewGridRejectsBadInput(t *testing.T) {
	cases := []struct {
		name                   string
		xmin, xmax, ymin, ymax float64
		nx, ny                 int
	}{
		{"zero nx", -1, 1, -1, 1, 0, 10},
		{"degenerate x", 1, 1, -1, 1, 10, 10},
		{"inverted y", -1, 1, 1, -1, 10, 10},
	}
	for _, c := range cases {
		if _, err := NewGrid(c.xmin, c.xmax, c.ymin, c.ymax, c.nx, c.ny, 1); err == nil {
			t.Errorf("%s: expected error, got none", c.name)
		}
	}
}

func TestGridCell(t *testing.T) {
	g, _ := NewGrid(0, 10, 0, 10, 10, 10, 1)
	cases := []struct {
		x, y   float64
		cx, cy int
	}{
		{0, 0, 0, 0},
		{9.999, 9.999, 9, 9},
		{5.5, 2.5, 5, 2},
		{-0.5, -0.5, 0, 0}, // clamped, callers must wrap first
		{10.5, 10.5, 9, 9},
	}
	for _, c := range cases {
		cx, cy := g.Cell(c.x, c.y)
		if cx != c.cx || cy != c.cy {
			t.Errorf("Cell(%v,%v) = (%d,%d), want (%d,%d)", c.x, c.y, cx, cy, c.cx, c.cy)
		}
	}
}

func TestWrap(t *testing.T) {
	cases := []struct {
		x, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{10, 0, 10, 0},
		{-1, 0, 10, 9},
		{23, 0, 10, 3},
		{-23, 0, 10, 7},
	}
	for _, c := range cases {
		if got := Wrap(c.x, c.lo, c.hi); got != c.want {
			t.Errorf("Wrap(%v,%v,%v) = %v, want %v", c.x, c.lo, c.hi, got, c.want)
		}
	}
}

func TestStencilWeightsSumToOne(t *testing.T) {
	sw := NewStencilWeights(1.0, 0.1, 0.1)
	var sum float64
	for _, w := range sw.W {
		sum += w
	}
	if diff := sum - 1; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("stencil weights sum = %v, want 1", sum)
	}
}

func TestNewCutoff(t *testing.T) {
	c := NewCutoff(2.5, 1.1, 1.0, 1.0)
	if c.Cx != 3 || c.Cy != 2 {
		t.Errorf("Cutoff = (%d,%d), want (3,2)", c.Cx, c.Cy)
	}
}
