package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ironsheep/textseg/internal/imaging"
	"github.com/ironsheep/textseg/internal/pipeline"
	"github.com/ironsheep/textseg/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdin/stdout",
		Long: `serve exposes the segmentation tools (page_load, page_polarity, page_lines,
page_segment, page_profile, page_annotate, page_crop_region) to an MCP client
over JSON-RPC 2.0 on stdio. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			p, err := pipeline.New(cfg, imaging.NewImageCache())
			if err != nil {
				return err
			}

			server.Version = Version
			slog.Debug("Starting MCP server", "version", Version, "build_time", BuildTime, "commit", GitCommit)

			return server.New(p).Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
