package dsmc

import "testing"

func TestHaloFieldGetSet(t *testing.T) {
	f := NewHaloField[float64](0, 4, 0, 4, 1, 1, 0)
	f.Set(2, 2, 7)
	if got := f.Get(2, 2); got != 7 {
		t.Errorf("Get(2,2) = %v, want 7", got)
	}
	lx, ux, ly, uy := f.Bounds()
	if lx != 0 || ux != 4 || ly != 0 || uy != 4 {
		t.Errorf("Bounds = (%d,%d,%d,%d), want (0,4,0,4)", lx, ux, ly, uy)
	}
}

func TestHaloFieldOutOfBoundsPanics(t *testing.T) {
	f := NewHaloField[float64](0, 4, 0, 4, 1, 1, 0)
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic indexing outside storage bounds")
		}
	}()
	f.Get(10, 10)
}

func TestFillHaloPeriodicRoundTrip(t *testing.T) {
	nx, ny := 4, 4
	f := NewHaloField[float64](0, nx, 0, ny, 2, 2, 0)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			f.Set(i, j, float64(i*10+j))
		}
	}
	FillHaloPeriodic(f)

	for j := -2; j < ny+2; j++ {
		for i := -2; i < nx+2; i++ {
			wantI := mod(i, nx)
			wantJ := mod(j, ny)
			want := f.Get(wantI, wantJ)
			if got := f.Get(i, j); got != want {
				t.Errorf("halo(%d,%d) = %v, want %v (interior %d,%d)", i, j, got, want, wantI, wantJ)
			}
		}
	}
}

func TestScaleAndScaleAddFloat(t *testing.T) {
	f := NewHaloField[float64](0, 2, 0, 2, 0, 0, 2)
	g := NewHaloField[float64](0, 2, 0, 2, 0, 0, 3)

	ScaleAddFloat(f, 2, g)
	if got := f.Get(0, 0); got != 8 {
		t.Errorf("after ScaleAddFloat, Get(0,0) = %v, want 8", got)
	}

	ScaleFloat(f, 0.5)
	if got := f.Get(0, 0); got != 4 {
		t.Errorf("after ScaleFloat, Get(0,0) = %v, want 4", got)
	}
}

func TestReflectIsInvolution(t *testing.T) {
	for _, b := range []HaloBlock{TL, CL, BL, BC, BR, CR, TR, TC} {
		if reflect(reflect(b)) != b {
			t.Errorf("reflect(reflect(%d)) != %d", b, b)
		}
	}
}

func TestCopyCast(t *testing.T) {
	src := NewHaloField[int](0, 2, 0, 2, 0, 0, 0)
	src.Set(0, 0, 3)
	dst := NewHaloField[float64](0, 2, 0, 2, 0, 0, 0)
	CopyCast(dst, src, func(v int) float64 { return float64(v) * 2 })
	if got := dst.Get(0, 0); got != 6 {
		t.Errorf("CopyCast Get(0,0) = %v, want 6", got)
	}
}
