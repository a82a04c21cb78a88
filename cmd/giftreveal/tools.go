package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/giftreveal/internal/clock"
	"github.com/ivlev/giftreveal/internal/content"
	"github.com/ivlev/giftreveal/internal/countdown"
	"github.com/ivlev/giftreveal/internal/director"
	"github.com/ivlev/giftreveal/internal/player"
	"github.com/ivlev/giftreveal/internal/share"
	"github.com/ivlev/giftreveal/internal/system"
)

var (
	shareQR     string
	shareQRSize int
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print the share link",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		link := share.BuildShareLink(share.Message)
		fmt.Println(link)
		if shareQR == "" {
			return nil
		}
		data, err := share.QRCodePNG(link, shareQRSize)
		if err != nil {
			return err
		}
		if err := os.WriteFile(shareQR, data, 0644); err != nil {
			return err
		}
		fmt.Printf("[*] QR code: %s\n", shareQR)
		return nil
	},
}

var countdownWatch bool

var countdownCmd = &cobra.Command{
	Use:   "countdown",
	Short: "Print the time left on the voucher",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		target, err := cfg.Target()
		if err != nil {
			return err
		}
		if !countdownWatch {
			fmt.Println(player.FormatCountdown(countdown.ComputeRemaining(target, time.Now())))
			return nil
		}

		ctx, cancel := signalContext()
		defer cancel()

		states := make(chan countdown.State, 1)
		timer := countdown.NewTimer(clock.Real{}, target, func(st countdown.State) {
			select {
			case states <- st:
			default:
			}
		})
		timer.Start()
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				fmt.Println()
				return nil
			case st := <-states:
				fmt.Printf("\r%s   ", player.FormatCountdown(st))
				if st.Expired {
					fmt.Println()
					return nil
				}
			}
		}
	},
}

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Manage reveal scenarios",
}

var scenarioDir string

var scenarioInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in scenario of the selected variant",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := director.DefaultScenario(cfg.Variant)
		if err != nil {
			return err
		}
		if err := system.EnsureDirs(scenarioDir); err != nil {
			return err
		}
		path := director.GenerateScenarioPath(scenarioDir, cfg.Variant)
		if err := director.WriteScenario(s, path); err != nil {
			return err
		}
		fmt.Printf("[+++] Scenario written: %s\n", path)
		fmt.Printf("[*] Use it with --scenario %s\n", path)
		return nil
	},
}

var scenarioValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := director.ReadScenario(args[0])
		if err != nil {
			return err
		}
		if _, err := director.NewStrategy(s); err != nil {
			return err
		}
		fmt.Printf("[*] %s: %s scenario, %d cues, %d sections\n", args[0], s.Variant, len(s.Cues), len(s.Sections))
		return nil
	},
}

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage voucher documents",
}

var contentInitCmd = &cobra.Command{
	Use:   "init <file>",
	Short: "Write the built-in voucher document of the selected variant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := system.EnsureDirs(filepath.Dir(args[0])); err != nil {
			return err
		}
		if err := content.Write(content.ForVariant(cfg.Variant), args[0]); err != nil {
			return err
		}
		fmt.Printf("[+++] Voucher document written: %s\n", args[0])
		return nil
	},
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect or change stored preferences",
}

var prefsMusicCmd = &cobra.Command{
	Use:       "music [on|off|toggle]",
	Short:     "Show or change the music preference",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		p, err := openPreferences(ctx, cfg)
		if err != nil {
			return err
		}
		defer p.Close()

		if len(args) == 1 {
			switch args[0] {
			case "on":
				err = p.SetMusicEnabled(ctx, true)
			case "off":
				err = p.SetMusicEnabled(ctx, false)
			case "toggle":
				_, err = p.ToggleMusic(ctx)
			}
			if err != nil {
				return err
			}
		}
		state := "off"
		if p.MusicEnabled() {
			state = "on"
		}
		fmt.Printf("music: %s (%s backend)\n", state, cfg.PrefsBackend)
		return nil
	},
}

func init() {
	shareCmd.Flags().StringVar(&shareQR, "qr", "", "Also write the link as a QR code PNG to this path")
	shareCmd.Flags().IntVar(&shareQRSize, "qr-size", 256, "QR code size in px")

	countdownCmd.Flags().BoolVarP(&countdownWatch, "watch", "w", false, "Keep updating once per second")

	scenarioInitCmd.Flags().StringVar(&scenarioDir, "dir", "scenarios", "Directory for the scenario file")
	scenarioCmd.AddCommand(scenarioInitCmd, scenarioValidateCmd)
	contentCmd.AddCommand(contentInitCmd)
	prefsCmd.AddCommand(prefsMusicCmd)
}
