package dsmc

import (
	"bufio"
	"io"
	"strings"

	"github.com/spf13/cast"
)

// descWidth is the fixed width of the description field that precedes
// every value on a config line (§6 "45 characters of description").
const descWidth = 45

// PhysicsConfig holds every recognised option from the fixed-width
// physics config file (§6). Field names track the config key's
// semantic meaning rather than its on-disk spelling.
type PhysicsConfig struct {
	MassFluid float64
	DiamFluid float64
	Phi11     float64
	Gamma11   float64
	MeanFGG   bool

	TIni float64
	TRef float64

	EtaLiq0    float64
	EtaLiq1    float64
	LiqInterf  int
	XLiqInterf float64
	YLiqInterf float64

	WallCond [4]string
	PE       [4]float64

	XMin, XMax float64
	YMin, YMax float64
	XExtra     float64
	YExtra     float64

	NCellsX, NCellsY int
	NPart            int

	DeltaT, TInitial, TMax float64
	Seed                   uint64

	NIterThermo   int
	NIterSampling int
}

// ReadConfig parses the fixed-width physics config file from r. Unknown
// keys are ignored (forward-compatible with options this core does not
// consume); a malformed numeric value is a ConfigError (§7 kind 1).
func ReadConfig(r io.Reader) (*PhysicsConfig, error) {
	cfg := &PhysicsConfig{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if len(strings.TrimSpace(line)) == 0 || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		key, value, err := splitConfigLine(line)
		if err != nil {
			return nil, err
		}
		if err := cfg.assign(key, value); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ConfigError{Msg: "reading config stream: " + err.Error()}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitConfigLine splits a line into its description and value fields,
// tolerant of a description shorter than descWidth (trailing whitespace
// collapsed) as long as the value field is still unambiguous.
func splitConfigLine(line string) (desc, value string, err error) {
	if len(line) <= descWidth {
		return "", "", &ConfigError{Msg: "config line shorter than the description field: " + line}
	}
	desc = strings.TrimSpace(line[:descWidth])
	value = strings.TrimSpace(line[descWidth:])
	key := configKey(desc)
	if key == "" {
		return "", "", &ConfigError{Msg: "unrecognised config description: " + desc, Key: desc}
	}
	return key, value, nil
}

// configKey maps a free-text description prefix to its canonical key:
// the first whitespace-delimited token, case preserved. Case matters
// here — T_ini (initial temperature) and t_ini (time bracket start) are
// both real keys in §6 and differ only by case.
func configKey(desc string) string {
	fields := strings.Fields(desc)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func (cfg *PhysicsConfig) assign(key, value string) error {
	f64 := func() (float64, error) {
		v, err := cast.ToFloat64E(value)
		if err != nil {
			return 0, &ConfigError{Msg: "not a number: " + value, Key: key}
		}
		return v, nil
	}
	i64 := func() (int, error) {
		v, err := cast.ToIntE(value)
		if err != nil {
			return 0, &ConfigError{Msg: "not an integer: " + value, Key: key}
		}
		return v, nil
	}

	var err error
	switch key {
	case "mass_fluid":
		cfg.MassFluid, err = f64()
	case "diam_fluid":
		cfg.DiamFluid, err = f64()
	case "phi11":
		cfg.Phi11, err = f64()
	case "gamma11":
		cfg.Gamma11, err = f64()
	case "mean_f_gg":
		cfg.MeanFGG = value == "y" || value == "Y"
	case "T_ini":
		cfg.TIni, err = f64()
	case "T_ref":
		cfg.TRef, err = f64()
	case "eta_liq0":
		cfg.EtaLiq0, err = f64()
	case "eta_liq1":
		cfg.EtaLiq1, err = f64()
	case "liq_interf":
		cfg.LiqInterf, err = i64()
	case "x_liq_interf":
		cfg.XLiqInterf, err = f64()
	case "y_liq_interf":
		cfg.YLiqInterf, err = f64()
	case "wall_cond0":
		cfg.WallCond[0] = value
	case "wall_cond1":
		cfg.WallCond[1] = value
	case "wall_cond2":
		cfg.WallCond[2] = value
	case "wall_cond3":
		cfg.WallCond[3] = value
	case "p_e0":
		cfg.PE[0], err = f64()
	case "p_e1":
		cfg.PE[1], err = f64()
	case "p_e2":
		cfg.PE[2], err = f64()
	case "p_e3":
		cfg.PE[3], err = f64()
	case "x_min":
		cfg.XMin, err = f64()
	case "x_max":
		cfg.XMax, err = f64()
	case "y_min":
		cfg.YMin, err = f64()
	case "y_max":
		cfg.YMax, err = f64()
	case "x_extra":
		cfg.XExtra, err = f64()
	case "y_extra":
		cfg.YExtra, err = f64()
	case "n_cells_x":
		cfg.NCellsX, err = i64()
	case "n_cells_y":
		cfg.NCellsY, err = i64()
	case "n_part":
		cfg.NPart, err = i64()
	case "delta_t":
		cfg.DeltaT, err = f64()
	case "t_ini":
		cfg.TInitial, err = f64()
	case "t_max":
		cfg.TMax, err = f64()
	case "seed":
		var v int
		v, err = i64()
		cfg.Seed = uint64(v)
	case "niter_thermo":
		cfg.NIterThermo, err = i64()
	case "niter_sampling":
		cfg.NIterSampling, err = i64()
	default:
		// unrecognised key: ignored, forward-compatible
	}
	return err
}

// validate checks the cross-field consistency rules called out in §7:
// inconsistent periodic boundary pairs and a particle count too sparse
// for the requested resolution.
func (cfg *PhysicsConfig) validate() error {
	if cfg.WallCond[0] == "p" || cfg.WallCond[2] == "p" {
		if cfg.WallCond[0] != cfg.WallCond[2] {
			return &ConfigError{Msg: "periodic boundary must be symmetric on the x pair", Key: "wall_cond0/wall_cond2"}
		}
	}
	if cfg.WallCond[1] == "p" || cfg.WallCond[3] == "p" {
		if cfg.WallCond[1] != cfg.WallCond[3] {
			return &ConfigError{Msg: "periodic boundary must be symmetric on the y pair", Key: "wall_cond1/wall_cond3"}
		}
	}
	if cfg.NCellsX > 0 && cfg.NCellsY > 0 && cfg.NPart > 0 {
		if float64(cfg.NPart) < float64(cfg.NCellsX*cfg.NCellsY)/10 {
			return &ConfigError{Msg: "n_part too small relative to grid resolution", Key: "n_part"}
		}
	}
	return nil
}
