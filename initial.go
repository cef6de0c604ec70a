package dsmc

// Populate builds an initial Ensemble of nPart particles distributed
// according to the liq_interf mode (§6): 0 uniform, 5 a horizontal
// liquid slab, 6 a vertical liquid slab. Inside the slab particles are
// packed to reduced density etaLiq1, outside to etaLiq0; velocities are
// drawn from a Maxwellian at tIni.
func Populate(g *Grid, sp Species, rng *Engine, nPart, liqInterf int, etaLiq0, etaLiq1, xThick, yThick, tIni float64) *Ensemble {
	e := NewEnsemble(g, nPart)

	nLiq, nGas := splitCounts(g, nPart, liqInterf, etaLiq0, etaLiq1, xThick, yThick)

	for k := 0; k < nLiq; k++ {
		x, y := sampleInSlab(g, rng, liqInterf, xThick, yThick)
		addMaxwellian(e, g, sp, rng, x, y, tIni)
	}
	for k := 0; k < nGas; k++ {
		x, y := sampleOutsideSlab(g, rng, liqInterf, xThick, yThick)
		addMaxwellian(e, g, sp, rng, x, y, tIni)
	}
	return e
}

// splitCounts divides nPart between the liquid slab and the surrounding
// gas so that each region's particle count is proportional to its area
// times its target reduced density.
func splitCounts(g *Grid, nPart, liqInterf int, etaLiq0, etaLiq1, xThick, yThick float64) (nLiq, nGas int) {
	if liqInterf == 0 {
		return 0, nPart
	}
	domainArea := (g.Xmax - g.Xmin) * (g.Ymax - g.Ymin)
	var slabArea float64
	switch liqInterf {
	case 5:
		slabArea = (g.Xmax - g.Xmin) * yThick
	case 6:
		slabArea = xThick * (g.Ymax - g.Ymin)
	default:
		return 0, nPart
	}
	gasArea := domainArea - slabArea
	wLiq := slabArea * etaLiq1
	wGas := gasArea * etaLiq0
	total := wLiq + wGas
	if total <= 0 {
		return 0, nPart
	}
	nLiq = int(float64(nPart) * wLiq / total)
	nGas = nPart - nLiq
	return
}

func sampleInSlab(g *Grid, rng *Engine, liqInterf int, xThick, yThick float64) (x, y float64) {
	cx := (g.Xmin + g.Xmax) / 2
	cy := (g.Ymin + g.Ymax) / 2
	switch liqInterf {
	case 5:
		x = g.Xmin + rng.U()*(g.Xmax-g.Xmin)
		y = cy - yThick/2 + rng.U()*yThick
	case 6:
		x = cx - xThick/2 + rng.U()*xThick
		y = g.Ymin + rng.U()*(g.Ymax-g.Ymin)
	default:
		x = g.Xmin + rng.U()*(g.Xmax-g.Xmin)
		y = g.Ymin + rng.U()*(g.Ymax-g.Ymin)
	}
	return
}

func sampleOutsideSlab(g *Grid, rng *Engine, liqInterf int, xThick, yThick float64) (x, y float64) {
	cx := (g.Xmin + g.Xmax) / 2
	cy := (g.Ymin + g.Ymax) / 2
	for {
		x = g.Xmin + rng.U()*(g.Xmax-g.Xmin)
		y = g.Ymin + rng.U()*(g.Ymax-g.Ymin)
		switch liqInterf {
		case 5:
			if y < cy-yThick/2 || y >= cy+yThick/2 {
				return
			}
		case 6:
			if x < cx-xThick/2 || x >= cx+xThick/2 {
				return
			}
		default:
			return
		}
	}
}

func addMaxwellian(e *Ensemble, g *Grid, sp Species, rng *Engine, x, y, t float64) {
	x = Wrap(x, g.Xmin, g.Xmax)
	y = Wrap(y, g.Ymin, g.Ymax)
	vx, vy, vz := rng.Maxwell(sp.Mass, 0, 0, t)
	e.Add(x, y, vx, vy, vz)
}
