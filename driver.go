package dsmc

import "github.com/sirupsen/logrus"

// Driver sequences the per-step pipeline of §4.8: force field rebuild,
// advection, rebinning and density rebuild, collisions, and sampling.
// Its shape mirrors the teacher's run.go driver, which threads a fixed
// sequence of DomainManipulator stages through the same kind of
// cancellation check between stages.
type Driver struct {
	Grid      *Grid
	Species   Species
	Ensemble  *Ensemble
	Index     *BinnedIndex
	Density   *DensityFields
	Force     *ForceField
	Kernel    *KernelMatrix
	Stencil   *StencilWeights
	Boundary  BoundaryPolicy
	Collision *CollisionEngine
	Thermo    *Thermostat
	Sampler   *Sampler

	DT          float64
	Step        int
	ForceEvery  int // rebuild the mean-field force every N steps, 0 disables it entirely
	ThermoEvery int // rescale velocities every N steps, 0 disables the thermostat
	SampleEvery int // flush the sampler every N steps, 0 disables flushing entirely

	// Cancel, when it returns true, stops Run before the next step
	// begins. It is checked once per step, before the step's first
	// stage; the stages within a step always run to completion.
	Cancel func() bool

	// OnFlush, if set, is called with the flushed moments and current
	// step whenever the sampler flushes. The driver itself stays free
	// of output concerns; cmd/enskogdsmc wires this to WriteField.
	OnFlush func(step int, m *SampleMoments)
}

// runStep advances the simulation by one step, in pipeline order.
func (d *Driver) runStep() error {
	if d.ForceEvery > 0 && d.Step%d.ForceEvery == 0 && d.Force != nil {
		d.Force.Rebuild(d.Grid, d.Kernel, d.Density.N)
	}

	Advect(d.Grid, d.Ensemble, d.Force, d.Species.Mass, d.DT)

	if err := d.Index.Rebuild(d.Ensemble); err != nil {
		return err
	}
	d.Density.Rebuild(d.Grid, d.Index, d.Species, d.Stencil, d.Boundary)

	if err := d.Collision.Step(d.Ensemble, d.Index, d.Density, d.DT); err != nil {
		return err
	}

	if d.ThermoEvery > 0 && d.Step%d.ThermoEvery == 0 && d.Thermo != nil {
		d.Thermo.Apply(d.Ensemble)
	}

	if d.Sampler != nil {
		d.Sampler.Accumulate(d.Ensemble, d.Index, d.Density)
	}

	d.Step++

	if d.Sampler != nil && d.SampleEvery > 0 && d.Step%d.SampleEvery == 0 {
		m := d.Sampler.Flush()
		if d.OnFlush != nil {
			d.OnFlush(d.Step, m)
		}
	}
	return nil
}

// Run advances the simulation for nSteps steps, stopping early if Cancel
// returns true or a stage returns an error.
func (d *Driver) Run(nSteps int) error {
	for s := 0; s < nSteps; s++ {
		if d.Cancel != nil && d.Cancel() {
			logrus.WithField("step", d.Step).Info("dsmc: run cancelled")
			return nil
		}
		if err := d.runStep(); err != nil {
			return err
		}
	}
	return nil
}
