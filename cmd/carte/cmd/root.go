// Package cmd implements the carte command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sebvdn/carte-gpx/internal/config"
	"github.com/sebvdn/carte-gpx/internal/logging"
	"github.com/sebvdn/carte-gpx/internal/session"
	"github.com/sebvdn/carte-gpx/internal/storage"
	"github.com/sebvdn/carte-gpx/internal/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "carte",
	Short: "Map annotation toolbox",
	Long:  "Inspect and export the markers of a carte annotation database.",
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", ".", "directory containing carte.cfg.json")
	rootCmd.PersistentFlags().String("log-level", "", "override the configured log level")
}

func initConfig() {
	dir := rootCmd.PersistentFlags().Lookup("config").Value.String()
	if err := config.Load(dir); err != nil {
		// defaults already applied by Load; a missing file is fine
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if level := rootCmd.PersistentFlags().Lookup("log-level").Value.String(); level != "" {
		viper.Set("logLevel", level)
	}
}

// environment is everything a subcommand needs for one run.
type environment struct {
	session   *session.Session
	telemetry *telemetry.Manager
	log       zerolog.Logger

	logFile *os.File
}

func openEnvironment(ctx context.Context) (*environment, error) {
	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	logFile, err := os.Create(logging.LogFilePath(logsDir, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	log := logging.Setup(logFile, viper.GetString("logLevel"), config.GetGraylogConfig())

	backend, err := storage.NewBackend(config.GetStorageConfig())
	if err != nil {
		logFile.Close()
		return nil, err
	}

	sess, err := session.Open(ctx, backend, log)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	tm := telemetry.NewManager(config.GetInfluxConfig(), log)
	if err := tm.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to connect telemetry")
	}
	tm.SessionOpened(sess.Store.Len())

	return &environment{
		session:   sess,
		telemetry: tm,
		log:       log,
		logFile:   logFile,
	}, nil
}

func (e *environment) close() {
	if err := e.session.Close(); err != nil {
		e.log.Error().Err(err).Msg("Failed to close session")
	}
	e.telemetry.Close()
	e.logFile.Close()
}

func exportDir() string {
	if out := exportCmd.Flags().Lookup("out").Value.String(); out != "" {
		return out
	}
	return config.GetExportConfig().OutputDir
}
