package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Revert the most recently built action",
	RunE:  runUndo,
}

var redoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Re-apply the next action in the undo history",
	RunE:  runRedo,
}

func init() {
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(redoCmd)
}

func runUndo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := GetCore(cfg)
	if err != nil {
		return err
	}
	if err := c.Undo(); err != nil {
		return err
	}
	if err := SaveCore(cfg, c); err != nil {
		return err
	}
	fmt.Println("undone")
	return nil
}

func runRedo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := GetCore(cfg)
	if err != nil {
		return err
	}
	if err := c.Redo(); err != nil {
		return err
	}
	if err := SaveCore(cfg, c); err != nil {
		return err
	}
	fmt.Println("redone")
	return nil
}
