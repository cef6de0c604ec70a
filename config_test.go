package dsmc

import (
	"strings"
	"testing"
)

// sampleConfig uses each key itself as the description's leading token,
// since splitConfigLine keys off the first whitespace-delimited word of
// the 45-character description field. T_ini (initial/thermostat
// temperature) and t_ini (time bracket start) differ only by case and
// are deliberately given distinct values below to prove configKey
// keeps them apart.
const sampleConfig = `mass_fluid description                       1.0
diam_fluid description                       1.0
phi11 description                            1.0
gamma11 description                          6.0
mean_f_gg description                        y
T_ini description                            0.5
T_ref description                            0.5
eta_liq0 description                         0.1
eta_liq1 description                         0.4
liq_interf description                       0
x_liq_interf description                     0
y_liq_interf description                     0
wall_cond0 description                       p
wall_cond1 description                       p
wall_cond2 description                       p
wall_cond3 description                       p
x_min description                            25
x_max description                            25
y_min description                            25
y_max description                            25
x_extra description                          3
y_extra description                          3
n_cells_x description                        50
n_cells_y description                        50
n_part description                           10000
delta_t description                          0.005
t_ini description                            0
t_max description                            5
seed description                             76
niter_thermo description                     20
niter_sampling description                   50
`

func TestReadConfigParsesRecognisedKeys(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("ReadConfig returned error: %v", err)
	}
	if cfg.MassFluid != 1.0 {
		t.Errorf("MassFluid = %v, want 1.0", cfg.MassFluid)
	}
	if !cfg.MeanFGG {
		t.Errorf("MeanFGG = false, want true")
	}
	if cfg.LiqInterf != 0 {
		t.Errorf("LiqInterf = %d, want 0", cfg.LiqInterf)
	}
	if cfg.NCellsX != 50 || cfg.NCellsY != 50 {
		t.Errorf("NCellsX,NCellsY = %d,%d, want 50,50", cfg.NCellsX, cfg.NCellsY)
	}
	if cfg.Seed != 76 {
		t.Errorf("Seed = %d, want 76", cfg.Seed)
	}
	if cfg.WallCond[0] != "p" {
		t.Errorf("WallCond[0] = %q, want p", cfg.WallCond[0])
	}
	if cfg.TIni != 0.5 {
		t.Errorf("TIni = %v, want 0.5 (from T_ini, not confused with t_ini)", cfg.TIni)
	}
	if cfg.TInitial != 0 {
		t.Errorf("TInitial = %v, want 0 (from t_ini, not confused with T_ini)", cfg.TInitial)
	}
}

func TestReadConfigRejectsShortLine(t *testing.T) {
	_, err := ReadConfig(strings.NewReader("too short\n"))
	if err == nil {
		t.Errorf("expected error for a line shorter than the description field")
	}
}

func TestReadConfigRejectsMalformedNumber(t *testing.T) {
	bad := "mass_fluid description                       not-a-number\n"
	_, err := ReadConfig(strings.NewReader(bad))
	if err == nil {
		t.Errorf("expected error for a malformed numeric field")
	}
}

func TestReadConfigRejectsAsymmetricPeriodicPair(t *testing.T) {
	bad := sampleConfigWithWallCond2("r")
	_, err := ReadConfig(strings.NewReader(bad))
	if err == nil {
		t.Errorf("expected error for an asymmetric periodic boundary pair")
	}
}

func sampleConfigWithWallCond2(value string) string {
	lines := strings.Split(sampleConfig, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "wall_cond2") {
			lines[i] = "wall_cond2 description                       " + value
		}
	}
	return strings.Join(lines, "\n")
}
