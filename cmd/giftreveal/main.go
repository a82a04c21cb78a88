package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ivlev/giftreveal/internal/config"
	"github.com/ivlev/giftreveal/internal/engine"
	"github.com/ivlev/giftreveal/internal/prefs"
)

var version = "dev"

var (
	flagVariant  string
	flagLogLevel string
	flagContent  string
	flagScenario string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "giftreveal",
	Short:        "Gift reveal experience and voucher renderer",
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagVariant, "variant", "", "Reveal variant: timed, click, scroll (default $VARIANT)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level (default $LOG_LEVEL)")
	pf.StringVar(&flagContent, "content", "", "YAML voucher document (default $CONTENT_PATH)")
	pf.StringVar(&flagScenario, "scenario", "", "YAML reveal scenario (default $SCENARIO_PATH)")

	rootCmd.AddCommand(serveCmd, playCmd, renderCmd, shareCmd, countdownCmd, scenarioCmd, contentCmd, prefsCmd)
}

// loadConfig reads the environment, applies flag overrides and configures
// logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.BuildVersion = version

	if cmd.Flags().Changed("variant") {
		cfg.Variant = config.Variant(flagVariant)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if cmd.Flags().Changed("content") {
		cfg.ContentPath = flagContent
	}
	if cmd.Flags().Changed("scenario") {
		cfg.ScenarioPath = flagScenario
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ConfigureLogging()
	return cfg, nil
}

// openPreferences opens the configured store and loads the preferences.
// The caller must Close the result.
func openPreferences(ctx context.Context, cfg *config.Config) (*prefs.Preferences, error) {
	store, err := prefs.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening preference store: %w", err)
	}
	p, err := prefs.NewPreferences(ctx, store)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("loading preferences: %w", err)
	}
	return p, nil
}

func newFactory(ctx context.Context, cfg *config.Config) (*engine.Factory, *prefs.Preferences, error) {
	p, err := openPreferences(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	f, err := engine.NewFactory(cfg, p, logrus.StandardLogger())
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	return f, p, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
