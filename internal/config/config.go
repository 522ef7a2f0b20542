// Package config loads the simulation's runtime configuration from a
// trafficsim.yaml file, environment variables, and an optional local
// .env file, the way the backend's cobra commands do it.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every knob the CLI, REPL, and server binaries read at
// startup.
type Config struct {
	ServerAddr    string `mapstructure:"server_addr"`
	DBEndpoint    string `mapstructure:"db_endpoint"`
	DatastoreProj string `mapstructure:"datastore_project"`
	S3Bucket      string `mapstructure:"s3_bucket"`
	S3Region      string `mapstructure:"s3_region"`
	SavePath      string `mapstructure:"save_path"`
	TickInterval  string `mapstructure:"tick_interval"`
	Verbose       bool   `mapstructure:"verbose"`

	OAuthClientID     string `mapstructure:"oauth_client_id"`
	OAuthClientSecret string `mapstructure:"oauth_client_secret"`
	OAuthRedirectURL  string `mapstructure:"oauth_redirect_url"`
}

func defaults() Config {
	return Config{
		ServerAddr:       ":8080",
		SavePath:         "trafficsim.save.yaml",
		TickInterval:     "100ms",
		OAuthRedirectURL: "http://localhost:8080/auth/callback",
	}
}

// Load reads trafficsim.yaml from the working directory and the user's
// home directory (or cfgFile, when given), overlays TRAFFICSIM_-prefixed
// environment variables, and returns the merged result. A trafficsim.yaml
// absent from both search directories is not an error; a missing cfgFile
// or a malformed file is.
func Load(cfgFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	d := defaults()
	v.SetDefault("server_addr", d.ServerAddr)
	v.SetDefault("save_path", d.SavePath)
	v.SetDefault("tick_interval", d.TickInterval)
	v.SetDefault("oauth_redirect_url", d.OAuthRedirectURL)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("trafficsim")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix("TRAFFICSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	cfg := defaults()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
