package dsmc

import (
	"math"

	"github.com/densegas/enskog-dsmc/internal/quadrature"
)

// Potential is the pair-potential interface of §4.5: a non-directional
// function of radius exposing the potential itself, its derivative, and
// the pot_kernel helper pot_kernel(r) = (1/r) dU/dr used by the radial
// kernel integral. Two variants are selectable at build time, chosen
// here by an ordinary interface value rather than a template parameter
// (§9 "tagged variants or trait objects... compile-time monomorphisation
// is permitted but not required").
type Potential interface {
	U(r float64) float64
	DU(r float64) float64
	PotKernel(r float64) float64
}

// SutherlandMie implements U(r) = -phi*(sigma/r)^gamma.
type SutherlandMie struct {
	Phi, Gamma, Sigma float64
}

func (p SutherlandMie) U(r float64) float64 {
	return -p.Phi * math.Pow(p.Sigma/r, p.Gamma)
}

func (p SutherlandMie) DU(r float64) float64 {
	return p.Phi * p.Gamma * math.Pow(p.Sigma, p.Gamma) / math.Pow(r, p.Gamma+1)
}

func (p SutherlandMie) PotKernel(r float64) float64 {
	return p.DU(r) / r
}

// SutherlandMorse implements U(r) = -phi*exp(-alpha(r-sigma)).
type SutherlandMorse struct {
	Phi, Alpha, Sigma float64
}

func (p SutherlandMorse) U(r float64) float64 {
	return -p.Phi * math.Exp(-p.Alpha*(r-p.Sigma))
}

func (p SutherlandMorse) DU(r float64) float64 {
	return p.Phi * p.Alpha * math.Exp(-p.Alpha*(r-p.Sigma))
}

func (p SutherlandMorse) PotKernel(r float64) float64 {
	return p.DU(r) / r
}

const kernelRelTol = 1e-4
const kernelEps = 1e-6 // threshold epsilon used when d^2 == sigma^2, §4.5

// RadialKernel computes K(i,j) = integral over z of
// pot_kernel(sqrt(d^2+z^2)) dz, splitting the integration around the
// sphere of exclusion r < sigma as specified in §4.5.
func RadialKernel(pot Potential, d2, sigma2 float64) float64 {
	integrand := func(z float64) func(float64) float64 {
		return func(zz float64) float64 {
			r := math.Sqrt(d2 + zz*zz)
			return pot.PotKernel(r)
		}
	}
	f := integrand(0)

	switch {
	case d2 > sigma2:
		zStar := math.Sqrt(d2 - sigma2)
		inner := quadrature.Romberg(f, -zStar, zStar, kernelRelTol)
		left := quadrature.Semiinfinite(func(z float64) float64 { return f(-z) }, zStar, kernelRelTol)
		right := quadrature.Semiinfinite(f, zStar, kernelRelTol)
		return left + inner + right

	case d2 < sigma2:
		zStar := math.Sqrt(sigma2 - d2)
		left := quadrature.Semiinfinite(func(z float64) float64 { return f(-z) }, zStar, kernelRelTol)
		right := quadrature.Semiinfinite(f, zStar, kernelRelTol)
		return left + right

	default: // d2 == sigma2
		left := quadrature.Semiinfinite(func(z float64) float64 { return f(-z) }, kernelEps, kernelRelTol)
		right := quadrature.Semiinfinite(f, kernelEps, kernelRelTol)
		return left + right
	}
}

// KernelMatrix is the precomputed radial potential integral over the
// cutoff window |i|<=Cx, |j|<=Cy (§4.5 "Radial kernel matrix K(i,j)").
// It is built once at startup and never mutated.
type KernelMatrix struct {
	Cx, Cy int
	K      map[[2]int]float64
}

// NewKernelMatrix precomputes K(i,j) for every offset in the cutoff
// window against grid spacing (dx,dy) and species sigma.
func NewKernelMatrix(pot Potential, c Cutoff, dx, dy, sigma float64) *KernelMatrix {
	sigma2 := sigma * sigma
	km := &KernelMatrix{Cx: c.Cx, Cy: c.Cy, K: make(map[[2]int]float64)}
	for i := -c.Cx; i <= c.Cx; i++ {
		for j := -c.Cy; j <= c.Cy; j++ {
			if i == 0 && j == 0 {
				continue // self-offset excluded: inside the sphere of exclusion at d=0
			}
			d2 := (float64(i) * dx) * (float64(i) * dx)
			d2 += (float64(j) * dy) * (float64(j) * dy)
			km.K[[2]int{i, j}] = RadialKernel(pot, d2, sigma2)
		}
	}
	return km
}

// At returns K(i,j), and the unit orientation (ux,uy) of the offset
// (i,j), used by the force kernel to split the scalar radial integral
// into Fx and Fy components (§4.5 "a single kernel K is used together
// with an orientation vector derived from the offset").
func (km *KernelMatrix) At(i, j int, dx, dy float64) (k, ux, uy float64) {
	k = km.K[[2]int{i, j}]
	x := float64(i) * dx
	y := float64(j) * dy
	d := math.Hypot(x, y)
	if d == 0 {
		return k, 0, 0
	}
	return k, x / d, y / d
}
