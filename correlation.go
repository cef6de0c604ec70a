package dsmc

import "math"

// Correlation is the pair correlation function chi(eta) at contact,
// selectable at build time (§4.7, §9 "tagged variants").
type Correlation interface {
	Chi(eta float64) (float64, error)
}

// CarnahanStarling implements chi(eta) = 1/2 * (2-eta)/(1-eta)^3.
type CarnahanStarling struct{}

func (CarnahanStarling) Chi(eta float64) (float64, error) {
	if eta >= 1 {
		return 0, &InvariantError{Msg: "Carnahan-Starling correlation: eta >= 1, configuration is physically invalid", File: "correlation.go", Line: 15}
	}
	if eta < 0 {
		eta = 0
	}
	denom := (1 - eta) * (1 - eta) * (1 - eta)
	return 0.5 * (2 - eta) / denom, nil
}

// Vera implements the Vera (1997) correlation in terms of
// xi = 6*eta/(pi*sqrt(2)):
//
//	chi = 3*(296 + xi*(-340 + xi*(-25 + xi^2*(18 + 142*xi^7))))
//	      / (200*pi*sqrt(2)*(1-xi)^3)
//
// Note chi(0) = 888/(200*pi*sqrt(2)) ≈ 0.99935, not 1.
type Vera struct{}

func (Vera) Chi(eta float64) (float64, error) {
	if eta >= 1 {
		return 0, &InvariantError{Msg: "Vera correlation: eta >= 1, configuration is physically invalid", File: "correlation.go", Line: 35}
	}
	if eta < 0 {
		eta = 0
	}
	xi := 6 * eta / (math.Pi * math.Sqrt2)
	xi7 := math.Pow(xi, 7)
	inner := 18 + 142*xi7
	inner = xi*xi*inner - 25
	inner = xi*inner - 340
	inner = xi*inner + 296
	num := 3 * inner
	denom := 200 * math.Pi * math.Sqrt2 * (1 - xi) * (1 - xi) * (1 - xi)
	return num / denom, nil
}
