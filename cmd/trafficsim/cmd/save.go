package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save <path>",
	Short: "Write the current world to a path outside the configured save slot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSave,
}

var loadCmd = &cobra.Command{
	Use:   "load <path>",
	Short: "Replace the configured save slot with the world encoded at path",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

func init() {
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(loadCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := GetCore(cfg)
	if err != nil {
		return err
	}
	data, err := c.Save()
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return err
	}
	fmt.Printf("saved to %s\n", args[0])
	return nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	c, err := GetCore(cfg)
	if err != nil {
		return err
	}
	if err := c.Load(data); err != nil {
		return err
	}
	if err := SaveCore(cfg, c); err != nil {
		return err
	}
	fmt.Printf("loaded %s into %s\n", args[0], cfg.SavePath)
	return nil
}
