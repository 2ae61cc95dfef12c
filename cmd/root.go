package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	config "task-assignment.com/task-assignment/internal/configs"
	"task-assignment.com/task-assignment/internal/logging"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "task-assignment",
	Short:         "Task assignment service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (yaml, json or toml)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logging.Logger.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

// loadConfig reads .env when present, then the config file and environment,
// and initialises logging from the result.
func loadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil {
		logging.Logger.Debug(".env file not found, using environment variables")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return config.Config{}, err
	}

	logging.Init(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	return cfg, nil
}
