package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	jsonOut  bool
	levelNum int
	seed     int64
)

var rootCmd = &cobra.Command{
	Use:          "trafficsim",
	Short:        "Drive a tick-quantized road-traffic simulation from the command line",
	SilenceUsage: true,
	Long: `trafficsim loads (or creates) a simulation world, applies one
subcommand's effect, and saves the result back out, one shell
invocation per world mutation.

Examples:
  trafficsim status               Show the world's rating and tick count
  trafficsim tick                 Advance one simulation quantum
  trafficsim build road 3 4 right Lay a road tile connecting right
  trafficsim spawn 1 2            Spawn a vehicle from building 1 to 2
  trafficsim save out.yaml        Write the current world to a file`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./trafficsim.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().IntVar(&levelNum, "level", 0, "built-in starter level, used only when no save file exists yet")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1, "deterministic RNG seed, used only when no save file exists yet")
}
