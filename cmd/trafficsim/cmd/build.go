package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/trafficgrid/sim/internal/command"
	"github.com/trafficgrid/sim/internal/geom"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Edit the world's grid",
}

var buildRoadCmd = &cobra.Command{
	Use:   "road <x> <y> <direction>",
	Short: "Build (or extend) a road tile, connecting outward in direction",
	Long: `direction is one of: right, left, up, down.

Examples:
  trafficsim build road 3 4 right
  trafficsim build road 3 4 up`,
	Args: cobra.ExactArgs(3),
	RunE: runBuildRoad,
}

func init() {
	buildCmd.AddCommand(buildRoadCmd)
	rootCmd.AddCommand(buildCmd)
}

func parseDirection(s string) (geom.Direction, error) {
	switch s {
	case "right":
		return geom.Right, nil
	case "left":
		return geom.Left, nil
	case "up":
		return geom.Up, nil
	case "down":
		return geom.Down, nil
	default:
		return geom.Direction{}, fmt.Errorf("unknown direction %q (want right, left, up, or down)", s)
	}
}

func runBuildRoad(cmd *cobra.Command, args []string) error {
	x, err := strconv.ParseInt(args[0], 10, 16)
	if err != nil {
		return fmt.Errorf("invalid x: %w", err)
	}
	y, err := strconv.ParseInt(args[1], 10, 16)
	if err != nil {
		return fmt.Errorf("invalid y: %w", err)
	}
	dir, err := parseDirection(args[2])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := GetCore(cfg)
	if err != nil {
		return err
	}

	action := &command.BuildRoadAction{Pos: geom.New(int16(x), int16(y)), Dir: dir}
	if err := c.Build(context.Background(), action); err != nil {
		return err
	}
	if err := SaveCore(cfg, c); err != nil {
		return err
	}
	fmt.Println(action.Description())
	return nil
}
