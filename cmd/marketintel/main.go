// Command marketintel runs the news-intelligence and constitutional
// decision-core pipeline described by the project's configuration.
package main

import (
	"fmt"
	"os"

	"marketintel/internal/cli"
	"marketintel/internal/config"
	"marketintel/internal/logging"
)

func main() {
	configDir := config.DefaultConfigDir()
	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marketintel: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	logger := logging.NewLoggerWithConfig(logCfg)

	rootCmd, err := cli.NewRootCmd(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
