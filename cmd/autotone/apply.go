package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"image-autotone/internal/autotone"
	"image-autotone/internal/config"
	imgio "image-autotone/internal/io"
	"image-autotone/internal/metrics"
	"image-autotone/internal/pipeline"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply autotone to a batch of images",
	RunE:  runApply,
}

func init() {
	addApplyFlags(applyCmd)
	applyCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(applyCmd)
}

func addApplyFlags(cmd *cobra.Command) {
	formats := strings.Join(imgio.NewImageLoader(nil).GetSupportedFormats(), " ")
	cmd.Flags().StringArrayP("input", "i", nil, "Input image (repeatable; all must share dimensions; "+formats+")")
	cmd.Flags().StringP("output", "o", "", "Output directory (default: next to each input)")
	cmd.Flags().String("suffix", "_autotone", "Suffix added to output file names")
	cmd.Flags().String("shadows", autotone.DefaultShadows, "Shadow target color, \"r,g,b\" or \"#RRGGBB\"")
	cmd.Flags().String("highlights", autotone.DefaultHighlights, "Highlight target color, \"r,g,b\" or \"#RRGGBB\"")
	cmd.Flags().Float64("shadow-clip", autotone.DefaultShadowClip, "Fraction of pixels to clip from the shadows (0-1)")
	cmd.Flags().Float64("highlight-clip", autotone.DefaultHighlightClip, "Fraction of pixels to clip from the highlights (0-1)")
	cmd.Flags().Int("workers", 0, "Images processed in parallel (0 = all CPUs)")
	cmd.Flags().Bool("metrics", false, "Report before/after quality metrics")
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("shadows") {
		cfg.Shadows, _ = flags.GetString("shadows")
	}
	if flags.Changed("highlights") {
		cfg.Highlights, _ = flags.GetString("highlights")
	}
	if flags.Changed("shadow-clip") {
		cfg.ShadowClip, _ = flags.GetFloat64("shadow-clip")
	}
	if flags.Changed("highlight-clip") {
		cfg.HighlightClip, _ = flags.GetFloat64("highlight-clip")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("metrics") {
		cfg.Metrics, _ = flags.GetBool("metrics")
	}
}

// outputPaths refuses any mapping that would write over an input file.
func outputPaths(inputs []string, outDir, suffix string) ([]string, error) {
	outputs := pipeline.OutputPaths(inputs, outDir, suffix)

	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		seen[filepath.Clean(in)] = true
	}
	for i, out := range outputs {
		if seen[filepath.Clean(out)] {
			return nil, fmt.Errorf("output %s would overwrite input %s; set --suffix or --output", out, inputs[i])
		}
	}
	return outputs, nil
}

// startFields describes the run, with target colors in resolved hex form.
func startFields(cfg config.Config, images int) (logrus.Fields, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return logrus.Fields{
		"version":        AppVersion,
		"images":         images,
		"shadows":        opts.Shadows.Hex(),
		"highlights":     opts.Highlights.Hex(),
		"shadow_clip":    opts.ShadowClip,
		"highlight_clip": opts.HighlightClip,
	}, nil
}

// printResult writes the run summary, listing metrics in a stable order.
func printResult(w io.Writer, result *pipeline.Result, inputs, outputs []string) {
	fmt.Fprintf(w, "Processed %d image(s) at %dx%d in %s\n", result.Images, result.Width, result.Height, result.Elapsed)
	for i := range inputs {
		fmt.Fprintf(w, "  %s -> %s\n", inputs[i], outputs[i])
	}
	for _, name := range metrics.NewEvaluator().Names() {
		if v, ok := result.Metrics[name]; ok {
			fmt.Fprintf(w, "  %-15s %.4f\n", name, v)
		}
	}
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := initLogger(cfg.Log)
	if err != nil {
		return err
	}

	inputs, _ := cmd.Flags().GetStringArray("input")
	outDir, _ := cmd.Flags().GetString("output")
	suffix, _ := cmd.Flags().GetString("suffix")

	outputs, err := outputPaths(inputs, outDir, suffix)
	if err != nil {
		return err
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	fields, err := startFields(cfg, len(inputs))
	if err != nil {
		return err
	}
	logger.WithFields(fields).Info("Starting " + AppName)

	p, err := pipeline.New(logger, pipeline.Options{
		Params:  cfg.Params(),
		Workers: cfg.Workers,
		Metrics: cfg.Metrics,
	})
	if err != nil {
		return err
	}

	result, err := p.Run(cmd.Context(), inputs, outputs)
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), result, inputs, outputs)
	return nil
}
