package cmd

import (
	"os"

	"github.com/trafficgrid/sim/internal/config"
	"github.com/trafficgrid/sim/pkg/trafficcore"
)

// loadConfig reads the shared config file, honoring --config.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// GetCore loads the Core from cfg.SavePath if it exists, or creates a
// fresh starter level otherwise. Every subcommand starts from this and
// is responsible for calling SaveCore once it's done mutating it.
func GetCore(cfg *config.Config) (*trafficcore.Core, error) {
	data, err := os.ReadFile(cfg.SavePath)
	if os.IsNotExist(err) {
		return trafficcore.NewLevel(levelNum, seed), nil
	}
	if err != nil {
		return nil, err
	}
	c := trafficcore.NewBlank(1, 1, seed)
	if err := c.Load(data); err != nil {
		return nil, err
	}
	return c, nil
}

// SaveCore persists c back to cfg.SavePath.
func SaveCore(cfg *config.Config, c *trafficcore.Core) error {
	data, err := c.Save()
	if err != nil {
		return err
	}
	return os.WriteFile(cfg.SavePath, data, 0o644)
}
