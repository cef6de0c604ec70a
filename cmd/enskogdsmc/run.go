package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	dsmc "github.com/densegas/enskog-dsmc"
)

var (
	nSteps     int
	outDir     string
	resumeFrom string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation from the initial configuration.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimulation(cmd, "")
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a simulation from a saved ensemble snapshot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if resumeFrom == "" {
			return fmt.Errorf("resume requires --from")
		}
		return runSimulation(cmd, resumeFrom)
	},
}

func init() {
	runCmd.Flags().IntVar(&nSteps, "steps", 1000, "number of steps to run")
	runCmd.Flags().StringVar(&outDir, "out", "./out", "output directory")

	resumeCmd.Flags().IntVar(&nSteps, "steps", 1000, "number of steps to run")
	resumeCmd.Flags().StringVar(&outDir, "out", "./out", "output directory")
	resumeCmd.Flags().StringVar(&resumeFrom, "from", "", "ensemble snapshot to resume from")
}

// newViper layers environment-variable overrides on top of the CLI
// flags, mirroring inmaputil's split between the physics config file and
// the CLI's own config.
func newViper(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("ENSKOGDSMC")
	v.AutomaticEnv()
	v.BindPFlags(cmd.Flags())
	return v
}

func runSimulation(cmd *cobra.Command, snapshotPath string) error {
	v := newViper(cmd)
	nSteps = v.GetInt("steps")
	outDir = v.GetString("out")

	f, err := os.Open(configFile)
	if err != nil {
		return &dsmcConfigOpenError{path: configFile, err: err}
	}
	defer f.Close()

	cfg, err := dsmc.ReadConfig(f)
	if err != nil {
		return err
	}

	dx := (cfg.XMin + cfg.XMax) / float64(cfg.NCellsX)
	dy := (cfg.YMin + cfg.YMax) / float64(cfg.NCellsY)
	section := dsmc.DeriveSection(cfg.NPart, cfg.NCellsX, cfg.NCellsY, dx, dy, cfg.DiamFluid, cfg.EtaLiq0)
	g, err := dsmc.NewGrid(-cfg.XMin, cfg.XMax, -cfg.YMin, cfg.YMax, cfg.NCellsX, cfg.NCellsY, section)
	if err != nil {
		return err
	}

	sp := dsmc.Species{Mass: cfg.MassFluid, Sigma: cfg.DiamFluid}
	rng := dsmc.NewEngine(cfg.Seed)

	var ensemble *dsmc.Ensemble
	if snapshotPath != "" {
		sf, err := os.Open(snapshotPath)
		if err != nil {
			return &dsmcConfigOpenError{path: snapshotPath, err: err}
		}
		defer sf.Close()
		ensemble, err = dsmc.LoadEnsemble(sf, g)
		if err != nil {
			return err
		}
	} else {
		ensemble = dsmc.Populate(g, sp, rng, cfg.NPart, cfg.LiqInterf, cfg.EtaLiq0, cfg.EtaLiq1,
			cfg.XLiqInterf, cfg.YLiqInterf, cfg.TIni)
	}

	cutoff := dsmc.NewCutoff(cfg.XExtra, cfg.YExtra, g.Dx, g.Dy)
	dens := dsmc.NewDensityFields(g, cutoff)
	sw := dsmc.NewStencilWeights(sp.Sigma, g.Dx, g.Dy)
	idx := dsmc.NewBinnedIndex(g)
	corr := dsmc.CarnahanStarling{}

	var force *dsmc.ForceField
	var kernel *dsmc.KernelMatrix
	if cfg.MeanFGG {
		pot := dsmc.SutherlandMie{Phi: cfg.Phi11, Gamma: cfg.Gamma11, Sigma: sp.Sigma}
		kernel = dsmc.NewKernelMatrix(pot, cutoff, g.Dx, g.Dy, sp.Sigma)
		force = dsmc.NewForceField(g)
	}

	collision := dsmc.NewCollisionEngine(g, sp, corr, rng)

	if err := idx.Rebuild(ensemble); err != nil {
		return err
	}
	dens.Rebuild(g, idx, sp, sw, dsmc.Periodic{})
	if err := collision.InitialMajorantEstimate(ensemble, idx, dens); err != nil {
		return err
	}

	sampler := dsmc.NewSampler(g, sp.Mass)
	thermo := &dsmc.Thermostat{TRef: cfg.TRef, Mass: sp.Mass}

	driver := &dsmc.Driver{
		Grid: g, Species: sp, Ensemble: ensemble, Index: idx, Density: dens,
		Force: force, Kernel: kernel, Stencil: sw, Boundary: dsmc.Periodic{},
		Collision: collision, Thermo: thermo, Sampler: sampler,
		DT: cfg.DeltaT, ForceEvery: boolToEvery(cfg.MeanFGG), ThermoEvery: cfg.NIterThermo,
		SampleEvery: cfg.NIterSampling,
		OnFlush: func(step int, m *dsmc.SampleMoments) {
			if err := dsmc.WriteField(outDir+"/temperature", strconv.Itoa(step), m.T); err != nil {
				logrus.WithError(err).Warn("enskogdsmc: sample write failed")
			}
		},
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		logrus.WithError(err).Warn("enskogdsmc: could not create output directory")
	}

	if err := driver.Run(nSteps); err != nil {
		return err
	}

	if err := dsmc.WriteField(outDir+"/eta_bar", strconv.Itoa(driver.Step), dens.EtaBar); err != nil {
		logrus.WithError(err).Warn("enskogdsmc: final sample write failed")
	}

	logrus.WithField("steps", driver.Step).Info("enskogdsmc: run complete")
	return nil
}

func boolToEvery(b bool) int {
	if b {
		return 1
	}
	return 0
}

type dsmcConfigOpenError struct {
	path string
	err  error
}

func (e *dsmcConfigOpenError) Error() string {
	return fmt.Sprintf("opening %s: %v", e.path, e.err)
}

func (e *dsmcConfigOpenError) Unwrap() error { return e.err }
