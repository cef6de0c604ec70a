package dsmc

import "fmt"

// HaloBlock identifies one of the eight halo regions surrounding the
// interior of a HaloField, per §4.2.
type HaloBlock int

const (
	TL HaloBlock = iota // top-left corner
	CL                  // center-left edge
	BL                  // bottom-left corner
	BC                  // bottom-center edge
	BR                  // bottom-right corner
	CR                  // center-right edge
	TR                  // top-right corner
	TC                  // top-center edge
)

// reflect maps each of the 8 halo blocks to its opposite, the source
// block a periodic fill copies from.
func reflect(r HaloBlock) HaloBlock {
	switch r {
	case TL:
		return BR
	case CL:
		return CR
	case BL:
		return TR
	case BC:
		return TC
	case BR:
		return TL
	case CR:
		return CL
	case TR:
		return BL
	case TC:
		return BC
	}
	panic("unknown halo block")
}

// BoundaryPolicy fills the halo of a field from its interior. Periodic is
// the only policy the core requires; wall conditions plug in here without
// touching HaloField itself (§9 Design Note).
type BoundaryPolicy interface {
	FillHalo(f *HaloField[float64])
}

// Periodic is the BoundaryPolicy required by the core: every halo block
// is replicated from the opposite interior block.
type Periodic struct{}

// FillHalo implements BoundaryPolicy.
func (Periodic) FillHalo(f *HaloField[float64]) { FillHaloPeriodic(f) }

// HaloField is a 2-D array with inclusive lower and exclusive upper
// logical bounds (lx,ux)x(ly,uy) and an optional halo width (hx,hy),
// modeled on github.com/ctessum/sparse's DenseArray (flat slice + shape +
// strides) but generalized with type parameters and extended with the
// offset/halo semantics sparse.DenseArray does not provide (§3 "Halo-
// backed field H<T>", §4.2).
type HaloField[T any] struct {
	lx, ux int // interior logical bounds in x (inclusive, exclusive)
	ly, uy int
	hx, hy int // halo width

	width  int // ux - lx + 2*hx, storage width
	height int // uy - ly + 2*hy, storage height

	data []T
}

// NewHaloField allocates a field with logical interior bounds
// [lx,ux)x[ly,uy) and halo width (hx,hy), filled with defaultVal.
func NewHaloField[T any](lx, ux, ly, uy, hx, hy int, defaultVal T) *HaloField[T] {
	w := (ux - lx) + 2*hx
	h := (uy - ly) + 2*hy
	f := &HaloField[T]{
		lx: lx, ux: ux, ly: ly, uy: uy,
		hx: hx, hy: hy,
		width: w, height: h,
		data: make([]T, w*h),
	}
	for i := range f.data {
		f.data[i] = defaultVal
	}
	return f
}

// storageIndex maps logical (i,j) to the flat storage offset.
func (f *HaloField[T]) storageIndex(i, j int) int {
	si := (i - f.lx) + f.hx
	sj := (j - f.ly) + f.hy
	if si < 0 || si >= f.width || sj < 0 || sj >= f.height {
		panic(fmt.Sprintf("dsmc: halo field index (%d,%d) out of storage bounds", i, j))
	}
	return sj*f.width + si
}

// Get returns the value at logical index (i,j).
func (f *HaloField[T]) Get(i, j int) T {
	return f.data[f.storageIndex(i, j)]
}

// Set stores val at logical index (i,j).
func (f *HaloField[T]) Set(i, j int, val T) {
	f.data[f.storageIndex(i, j)] = val
}

// Bounds returns the interior logical bounds (lx,ux,ly,uy).
func (f *HaloField[T]) Bounds() (lx, ux, ly, uy int) {
	return f.lx, f.ux, f.ly, f.uy
}

// Halo returns the halo width (hx,hy).
func (f *HaloField[T]) Halo() (hx, hy int) { return f.hx, f.hy }

// Fill sets every element, interior and halo, to val.
func (f *HaloField[T]) Fill(val T) {
	for i := range f.data {
		f.data[i] = val
	}
}

// CopyCast copies src's interior into f's interior (which must share the
// same interior bounds), applying the conversion function to each value
// (§4.2 "copy_cast between element types").
func CopyCast[S, T any](dst *HaloField[T], src *HaloField[S], conv func(S) T) {
	if dst.lx != src.lx || dst.ux != src.ux || dst.ly != src.ly || dst.uy != src.uy {
		panic("dsmc: CopyCast requires matching interior bounds")
	}
	for j := dst.ly; j < dst.uy; j++ {
		for i := dst.lx; i < dst.ux; i++ {
			dst.Set(i, j, conv(src.Get(i, j)))
		}
	}
}

// ScaleAddFloat performs f += s*g element-wise over the interior
// (§4.2 "+= s*F"). It is a free function rather than a method because Go
// does not allow specializing a generic method to one instantiation
// (float64) of its receiver's type parameter; float64 is the only
// element type the density/force kernels need arithmetic on.
func ScaleAddFloat(f *HaloField[float64], s float64, g *HaloField[float64]) {
	for j := f.ly; j < f.uy; j++ {
		for i := f.lx; i < f.ux; i++ {
			f.Set(i, j, f.Get(i, j)+s*g.Get(i, j))
		}
	}
}

// ScaleFloat multiplies every interior element by s (§4.2 "*= s").
func ScaleFloat(f *HaloField[float64], s float64) {
	for j := f.ly; j < f.uy; j++ {
		for i := f.lx; i < f.ux; i++ {
			f.Set(i, j, f.Get(i, j)*s)
		}
	}
}

// FillHaloPeriodic fills all eight halo blocks of f by periodic
// replication of the interior, the boundary policy required by the core
// (§4.2: "outer[r] <- inner[reflect(r)]").
func FillHaloPeriodic(f *HaloField[float64]) {
	nx := f.ux - f.lx
	ny := f.uy - f.ly
	if f.hx == 0 && f.hy == 0 {
		return
	}
	for j := f.ly - f.hy; j < f.uy+f.hy; j++ {
		for i := f.lx - f.hx; i < f.ux+f.hx; i++ {
			if i >= f.lx && i < f.ux && j >= f.ly && j < f.uy {
				continue // interior, nothing to fill
			}
			srcI := f.lx + mod(i-f.lx, nx)
			srcJ := f.ly + mod(j-f.ly, ny)
			f.Set(i, j, f.Get(srcI, srcJ))
		}
	}
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
