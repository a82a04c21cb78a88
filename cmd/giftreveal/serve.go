package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ivlev/giftreveal/internal/server"
	"github.com/ivlev/giftreveal/internal/system"
)

var (
	servePort        int
	serveMetricsPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reveal sessions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.HTTPPort = servePort
		}
		if cmd.Flags().Changed("metrics-port") {
			cfg.MetricsPort = serveMetricsPort
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		system.InitResourceLimits()

		ctx, cancel := signalContext()
		defer cancel()

		f, p, err := newFactory(ctx, cfg)
		if err != nil {
			return err
		}
		defer p.Close()

		ms := server.NewMetricsServer(cfg.MetricsPort, cfg.MetricsEndpoint)
		metrics := server.NewMetrics(ms.Registry())
		srv := server.New(f, p, metrics, cfg.BuildVersion, logrus.WithField("component", "http"))

		fmt.Printf("[*] Variant: %s, preferences: %s\n", cfg.Variant, cfg.PrefsBackend)
		return srv.Run(ctx, cfg.HTTPPort, ms)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port (default $HTTP_PORT)")
	serveCmd.Flags().IntVar(&serveMetricsPort, "metrics-port", 9090, "Metrics port (default $METRICS_PORT)")
}
