package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aurumfx/lbadmin/internal/config"
)

var Version = "dev"

// jsonOutput controls whether output is formatted as JSON
var jsonOutput bool

// configFile overrides the config file location
var configFile string

var rootCmd = &cobra.Command{
	Use:     "lbadmin",
	Short:   "Trader leaderboard admin CLI",
	Long:    `A CLI and terminal UI for managing the ranked trader leaderboard.`,
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default "+config.ConfigPath()+")")
}

// GetJSONMode returns whether JSON output mode is enabled.
func GetJSONMode() bool {
	return jsonOutput
}

// GetConfigPath returns the config file in effect.
func GetConfigPath() string {
	if configFile != "" {
		return configFile
	}
	return config.ConfigPath()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
