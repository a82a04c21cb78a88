package main

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/giftreveal/internal/analyzer"
	"github.com/ivlev/giftreveal/internal/config"
	"github.com/ivlev/giftreveal/internal/engine"
	"github.com/ivlev/giftreveal/internal/renderer"
	"github.com/ivlev/giftreveal/internal/system"
)

const verifyMargin = 40

var (
	renderAll      bool
	renderOut      string
	renderStats    bool
	renderVerify   bool
	renderDetector string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render voucher images to disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("stats") {
			renderStats = cfg.ShowStats
		}
		outDir := cfg.OutputDir
		if renderOut != "" {
			outDir = renderOut
		}
		if err := system.EnsureDirs(outDir); err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		f, p, err := newFactory(ctx, cfg)
		if err != nil {
			return err
		}
		defer p.Close()

		variants := []config.Variant{cfg.Variant}
		if renderAll {
			variants = config.Variants()
		}
		jobs := uniqueOutputs(variants)

		var before system.HostStats
		if renderStats {
			before, _ = system.ReadHostStats()
		}
		start := time.Now()

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.NumCPU())
		for _, v := range jobs {
			v := v
			g.Go(func() error {
				return renderOne(gctx, f, v, outDir)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		fmt.Printf("[+++] Rendered %d voucher(s) in %s\n", len(jobs), time.Since(start).Round(time.Millisecond))
		if renderStats {
			after, err := system.ReadHostStats()
			if err != nil {
				fmt.Printf("[!] Host stats unavailable: %v\n", err)
				return nil
			}
			fmt.Printf("[*] Before: %s\n", before)
			fmt.Printf("[*] After:  %s\n", after)
		}
		return nil
	},
}

// uniqueOutputs drops variants whose voucher file another variant already
// produces, keeping the first.
func uniqueOutputs(variants []config.Variant) []config.Variant {
	seen := make(map[string]bool)
	var out []config.Variant
	for _, v := range variants {
		p, ok := config.ProfileFor(v)
		if !ok || seen[p.Filename] {
			continue
		}
		seen[p.Filename] = true
		out = append(out, v)
	}
	return out
}

func renderOne(ctx context.Context, f *engine.Factory, v config.Variant, outDir string) error {
	profile, _ := config.ProfileFor(v)
	spec := renderer.SpecFor(profile)

	asset, err := f.Renderer.Render(ctx, f.Document(v), spec)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", v, err)
	}
	path := filepath.Join(outDir, asset.Filename)
	if err := os.WriteFile(path, asset.Data, 0644); err != nil {
		return err
	}
	fmt.Printf("[*] %s: %s (%dx%d, %s)\n", v, path, spec.Width, spec.Height, humanize.Bytes(uint64(len(asset.Data))))

	if !renderVerify {
		return nil
	}
	img, err := png.Decode(bytes.NewReader(asset.Data))
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	det, err := analyzer.NewDetector(renderDetector)
	if err != nil {
		return err
	}
	rep, err := analyzer.Verify(det, img, verifyMargin)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", path, err)
	}
	if len(rep.Bands) == 0 {
		return fmt.Errorf("verifying %s: no text found", path)
	}
	last := rep.Bands[len(rep.Bands)-1]
	fmt.Printf("[*] %s: %d text bands, last ends at y=%d of %d, coverage %.1f%%\n",
		v, len(rep.Bands), last.Bottom, spec.Height, rep.Coverage*100)
	return nil
}

func init() {
	f := renderCmd.Flags()
	f.BoolVar(&renderAll, "all", false, "Render the vouchers of every variant")
	f.StringVarP(&renderOut, "out", "o", "", "Output directory (default $OUTPUT_DIR)")
	f.BoolVar(&renderStats, "stats", false, "Print memory statistics (default $SHOW_STATS)")
	f.BoolVar(&renderVerify, "verify", false, "Check that rendered text stays inside the canvas")
	f.StringVar(&renderDetector, "detector", "ink", "Detector used by --verify: ink, contrast")
}
