// Command trafficsim is the headless CLI driver for the simulation: one
// Core loaded (or created) per invocation, mutated by a subcommand, and
// saved back out, mirroring this codebase's own cobra-based game CLI.
package main

import (
	"os"

	"github.com/trafficgrid/sim/cmd/trafficsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
