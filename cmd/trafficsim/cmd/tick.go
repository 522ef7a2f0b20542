package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var tickCount int

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Advance the simulation one or more quanta and save the result",
	RunE:  runTick,
}

func init() {
	tickCmd.Flags().IntVar(&tickCount, "count", 1, "number of ticks to advance")
	rootCmd.AddCommand(tickCmd)
}

func runTick(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := GetCore(cfg)
	if err != nil {
		return err
	}

	if tickCount < 1 {
		tickCount = 1
	}
	ctx := context.Background()
	last := c.Tick(ctx)
	for i := 1; i < tickCount; i++ {
		last = c.Tick(ctx)
	}

	if err := SaveCore(cfg, c); err != nil {
		return err
	}
	fmt.Printf("advanced to tick %d (rating %.3f, %d active vehicles)\n",
		last.Tick+1, last.Rating, last.ActiveVehicles)
	return nil
}
