// Command enskogdsmc runs a 2-D Enskog-Vlasov DSMC simulation from a
// fixed-width physics config file.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "enskogdsmc",
	Short: "Direct Simulation Monte Carlo for the Enskog-Vlasov equation.",
	Long: `enskogdsmc runs a 2-D dense-gas DSMC simulation: a binned particle
index, a density kernel, a mean-field force kernel, and a majorant-based
Enskog collision engine, driven by a fixed-width physics config file.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./dsmc.conf", "physics configuration file location")
	rootCmd.AddCommand(runCmd, resumeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("enskogdsmc: run failed")
		os.Exit(1)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
