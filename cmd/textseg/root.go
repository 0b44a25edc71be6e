package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/textseg/internal/config"
	"github.com/ironsheep/textseg/internal/detection"
	"github.com/ironsheep/textseg/internal/pipeline"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "textseg <image>",
		Short: "Segment a scanned page into lines, words and characters",
		Long: `textseg binarizes a page image, works out whether text is dark on light or
light on dark, and finds text lines by horizontal projection profile. Each
line is then split into words (or characters) by a vertical profile.

Unless --no-variants is given, three files are written next to the input:
<name>_rgb (boxes drawn), <name>_gray and <name>_bin.`,
		Args:              cobra.ExactArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		RunE:              runSegment,
	}

	ll := os.Getenv("LOG_LEVEL")
	if ll == "" {
		ll = "INFO"
	}
	pf := cmd.PersistentFlags()
	pf.String("log-level", ll, "The logging level for the command")
	pf.String("config", os.Getenv("TEXTSEG_CONFIG"), "YAML configuration file")
	pf.Float64("binarize-threshold", 0, "Intensity threshold in [0,1]; pixels above it are paper on a dark-text page")
	pf.Int("bridge-width-line", 0, "Horizontal gap bridging before the line pass (0 = off)")
	pf.Int("bridge-height-line", 0, "Vertical gap bridging before the line pass (0 = off)")
	pf.Int("bridge-width-word", 0, "Horizontal gap bridging before the word pass (0 = off)")
	pf.String("trailing-run", "", "Runs still open at the end of a band: close or discard")
	pf.Int("workers", 0, "Lines segmented in parallel (0 = GOMAXPROCS)")

	f := cmd.Flags()
	f.StringP("format", "f", pipeline.FormatText, "Report format: text, json or yaml")
	f.StringP("granularity", "g", "words", "Split lines into words or chars")
	f.Bool("no-variants", false, "Do not write the _rgb, _gray and _bin images")

	return cmd
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	ll, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}

	switch strings.ToUpper(ll) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	}

	// stdout carries the report or the JSON-RPC stream
	opts := &slog.HandlerOptions{
		Level: level,
	}
	handler := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
	slog.SetDefault(handler)

	return nil
}

// loadConfig layers flags the user set over the file and environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("binarize-threshold") {
		cfg.BinarizeThreshold, _ = flags.GetFloat64("binarize-threshold")
	}
	if flags.Changed("bridge-width-line") {
		cfg.Segmentation.BridgeWidthLine, _ = flags.GetInt("bridge-width-line")
	}
	if flags.Changed("bridge-height-line") {
		cfg.Segmentation.BridgeHeightLine, _ = flags.GetInt("bridge-height-line")
	}
	if flags.Changed("bridge-width-word") {
		cfg.Segmentation.BridgeWidthWord, _ = flags.GetInt("bridge-width-word")
	}
	if flags.Changed("trailing-run") {
		v, _ := flags.GetString("trailing-run")
		if err := cfg.Segmentation.TrailingRun.UnmarshalText([]byte(v)); err != nil {
			return nil, err
		}
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSegment(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := pipeline.ValidateFormat(format); err != nil {
		return err
	}
	gran, _ := cmd.Flags().GetString("granularity")
	g, err := detection.ParseGranularity(gran)
	if err != nil {
		return err
	}
	noVariants, _ := cmd.Flags().GetBool("no-variants")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := pipeline.New(cfg, nil)
	if err != nil {
		return err
	}

	res, err := p.ProcessFile(cmd.Context(), args[0], pipeline.Options{
		Granularity:  g,
		SaveVariants: !noVariants,
	})
	if err != nil {
		return fmt.Errorf("failed to segment page: %w", err)
	}

	return res.Report().Write(cmd.OutOrStdout(), format)
}
