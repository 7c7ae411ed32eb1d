// Package cmd provides the command line interface for the application.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/therealmvp/config"
	"github.com/therealmvp/server"
)

// AppName is the binary name.
const AppName = "therealmvp"

var examples = []string{
	fmt.Sprintf("  Serve the dashboard:                  $ %s serve", AppName),
	fmt.Sprintf("  Serve from a remote dataset:          $ %s serve --source https://example.com/season.json --open", AppName),
	fmt.Sprintf("  Export chart tuples to a spreadsheet: $ %s export --format xlsx --out tuples.xlsx", AppName),
}

var rootCmd = &cobra.Command{
	Use:               AppName,
	Short:             AppName,
	Long:              fmt.Sprintf("%s charts 2018-2019 NBA player statistics as a linked parallel-coordinates and scatter plot.", AppName),
	Example:           strings.Join(examples, "\n"),
	PersistentPreRunE: initializeApplication,
	SilenceUsage:      true,
}

var (
	flagConfig    string
	flagDebug     bool
	flagLogStdOut bool
	flagSource    string
)

const (
	flagConfigName    = "config"
	flagDebugName     = "debug"
	flagLogStdOutName = "log-stdout"
	flagSourceName    = "source"
)

var (
	appConfig config.Config
	logFile   *os.File
)

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)

	rootCmd.PersistentFlags().StringVar(&flagConfig, flagConfigName, "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, flagDebugName, false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagLogStdOut, flagLogStdOutName, false, "log to stdout only instead of the log file")
	rootCmd.PersistentFlags().StringVar(&flagSource, flagSourceName, "", "dataset file path, http(s) URL or embedded:sample")
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func initializeApplication(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cmd.Flags(), &cfg)
	appConfig = cfg

	logFile, err = setupLogging(cfg, flagLogStdOut)
	return err
}

// setupLogging installs the default slog logger. With stdoutOnly no log
// file is opened and the returned file is nil.
func setupLogging(cfg config.Config, stdoutOnly bool) (*os.File, error) {
	if stdoutOnly {
		logOpts := slog.HandlerOptions{Level: slog.LevelInfo}
		if cfg.Debug {
			logOpts.Level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &logOpts)))
		return nil, nil
	}

	f, err := server.SetupLogging(cfg.LogDir, cfg.Debug)
	if err != nil {
		return nil, errors.Wrap(err, "failed to set up logging")
	}
	return f, nil
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed(flagDebugName) {
		cfg.Debug = flagDebug
	}
	if flags.Changed(flagSourceName) {
		cfg.Source = flagSource
	}
	if flags.Changed(flagAddrName) {
		cfg.Addr = flagAddr
	}
	if flags.Changed(flagOpenName) {
		cfg.OpenBrowser = flagOpen
	}
	if flags.Changed(flagCacheName) {
		cfg.Cache.Backend = flagCache
	}
}
