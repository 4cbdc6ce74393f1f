package cmd

import (
	"errors"
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/shirtstats/internal/config"
	"github.com/KaramelBytes/shirtstats/internal/logger"
	"github.com/KaramelBytes/shirtstats/internal/parser"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile      string
	debug        bool
	flagLogLevel string

	// Loaded configuration
	cfg *cfgpkg.Global
)

// Exit codes returned by Execute.
const (
	exitFailure   = 1
	exitNotFound  = 2
	exitMalformed = 3
)

var rootCmd = &cobra.Command{
	Use:          "shirtstats",
	Short:        "shirtstats: color frequency statistics from an HTML table",
	Long:         `shirtstats reads a table of per-day garment colors from an HTML document (or CSV/XLSX export), computes mode, median, variance of color frequencies and the probability of a target color, and can save the frequencies to PostgreSQL.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := exitCode(err)
		if code == exitFailure {
			logger.Get().Error().Err(err).Msg("command failed")
		}
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(code)
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, parser.ErrInputNotFound):
		return exitNotFound
	case errors.Is(err, parser.ErrMalformedInput):
		return exitMalformed
	default:
		return exitFailure
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.shirtstats/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: trace|debug|info|warn|error (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: cfg stays nil, currentConfig supplies defaults and
		// config set reloads to surface the error.
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
	}
	cfg = c

	eff := currentConfig()
	level := eff.LogLevel
	if f := rootCmd.PersistentFlags(); f.Changed("log-level") && flagLogLevel != "" {
		level = flagLogLevel
	}
	if debug {
		level = "debug"
	}
	logger.Init(logger.Options{Level: level, Format: eff.LogFormat})
}

// currentConfig returns the loaded configuration, or defaults when none was loaded.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Defaults()
	}
	return cfg
}
