package dsmc

import (
	"runtime"
	"sync"
)

// Advect performs the kick-drift advection step of §4.6 under the
// (optional) force field, with periodic wrap-around, for every particle
// in the ensemble. Work is partitioned across a fixed worker pool, one
// goroutine per shard, exactly as the teacher's run.go Calculations
// fans calculators out across runtime.GOMAXPROCS shards: each particle's
// record is written exclusively by the worker that owns its shard index,
// so no synchronization is needed within the stage (§5 "each particle's
// record is written exclusively by one worker").
func Advect(g *Grid, e *Ensemble, ff *ForceField, mass, dt float64) {
	nprocs := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for shard := 0; shard < nprocs; shard++ {
		go func(shard int) {
			defer wg.Done()
			for i := shard; i < len(e.P); i += nprocs {
				advectOne(g, &e.P[i], ff, mass, dt)
			}
		}(shard)
	}
	wg.Wait()
}

func advectOne(g *Grid, p *Particle, ff *ForceField, mass, dt float64) {
	ax, ay := ff.At(p.Cx, p.Cy, mass)

	p.X += p.Vx*dt + 0.5*ax*dt*dt
	p.Y += p.Vy*dt + 0.5*ay*dt*dt

	p.X = Wrap(p.X, g.Xmin, g.Xmax)
	p.Y = Wrap(p.Y, g.Ymin, g.Ymax)

	p.Vx += ax * dt
	p.Vy += ay * dt

	p.Cx, p.Cy = g.Cell(p.X, p.Y)
}
