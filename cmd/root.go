package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyle-org/noir-verifier/config"
	"github.com/hyle-org/noir-verifier/decoder"
)

var (
	fConfigPath   string
	fLogLevel     string
	fStrictWindow bool

	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:               "noir-verifier",
	Short:             "verifies noir proofs with bb and decodes the HyleOutput in their public inputs",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(fConfigPath)
	if err != nil {
		return err
	}
	if fLogLevel != "" {
		loaded.Log.Level = fLogLevel
		if err := loaded.Validate(); err != nil {
			return err
		}
	}
	cfg = loaded
	setupLogger(cfg.LogLevel())
	return nil
}

// setupLogger keeps stdout free for the decoded output.
func setupLogger(level zerolog.Level) {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func windowPolicy() decoder.WindowPolicy {
	if fStrictWindow {
		return decoder.PayloadWindowStrict
	}
	return cfg.WindowPolicy()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&fConfigPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&fLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&fStrictWindow, "strict-window", false, "fail when the payload window holds fewer tokens than the circuit reserves")
}
