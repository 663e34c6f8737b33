// Image Autotone - per-channel percentile contrast stretching
// License: MIT

package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"image-autotone/internal/config"
)

const (
	AppName    = "Image Autotone"
	AppVersion = "1.0.0"
)

var rootCmd = &cobra.Command{
	Use:           "autotone",
	Short:         "Stretch image color channels to shadow and highlight targets",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())
}

func addGlobalFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "YAML config file")
	flags.Bool("debug", false, "Enable debug mode with verbose logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config and applies --debug.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Log = config.Log{Level: "debug", Format: "text"}
	}
	return cfg, nil
}

// initLogger initializes the logger with the configured level and format
func initLogger(cfg config.Log) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   level == logrus.DebugLevel,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger, nil
}
