package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the world's rating, tick count, and active vehicles",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := GetCore(cfg)
	if err != nil {
		return err
	}

	if jsonOut {
		out, _ := json.MarshalIndent(map[string]any{
			"rating":   c.Rating(),
			"tick_num": c.World.Map.TickNum,
			"vehicles": len(c.World.Vehicles),
		}, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("tick: %d\nrating: %.3f\nactive vehicles: %d\n",
		c.World.Map.TickNum, c.Rating(), len(c.World.Vehicles))
	return nil
}
