package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ivlev/giftreveal/internal/player"
)

var playWidth int

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the reveal in the terminal",
	Long: `Play the reveal in the terminal.

Keys: Enter start/reveal, ↑/↓ scroll, m music, d download voucher,
s share link, q or Esc quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		f, p, err := newFactory(ctx, cfg)
		if err != nil {
			return err
		}
		defer p.Close()

		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("opening terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("initializing terminal: %w", err)
		}
		defer screen.Fini()

		pl := player.New(screen, cfg.OutputDir, logrus.WithField("component", "player"))
		session, err := f.NewSession(cfg.Variant, playWidth, pl, pl.Wake)
		if err != nil {
			return err
		}
		pl.Attach(session)
		return pl.Run(ctx)
	},
}

func init() {
	playCmd.Flags().IntVar(&playWidth, "viewport-width", 1440, "Viewport width in px (below 768 is treated as mobile)")
}
