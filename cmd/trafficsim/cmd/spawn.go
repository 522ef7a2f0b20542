package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var spawnCmd = &cobra.Command{
	Use:   "spawn <from-building-id> <to-building-id>",
	Short: "Start a trip from one building to another",
	Args:  cobra.ExactArgs(2),
	RunE:  runSpawn,
}

func init() {
	rootCmd.AddCommand(spawnCmd)
}

func runSpawn(cmd *cobra.Command, args []string) error {
	fromID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid from-building-id: %w", err)
	}
	toID, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid to-building-id: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := GetCore(cfg)
	if err != nil {
		return err
	}

	vid, err := c.SpawnVehicle(fromID, toID)
	if err != nil {
		return err
	}
	if err := SaveCore(cfg, c); err != nil {
		return err
	}
	fmt.Printf("spawned vehicle %d\n", vid)
	return nil
}
