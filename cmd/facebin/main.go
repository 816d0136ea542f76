package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shiroemons/go-facebin/internal/faces/app"
	"github.com/shiroemons/go-facebin/internal/faces/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "facebin",
		Short:         "Extract character portraits from face.bin",
		Long:          `Extract palettes, expression tiles and OAM metadata from a face.bin archive`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.ShowVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "facebin version %s\n", config.Version)
				return nil
			}
			return cmd.Help()
		},
	}
	config.BindGlobalFlags(rootCmd.PersistentFlags(), cfg)

	extractCmd := &cobra.Command{
		Use:   "extract <face.bin>",
		Short: "Extract every character that has its own expressions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.ArchivePath = args[0]
			return app.New(cfg).Run(cmd.Context())
		},
	}
	config.BindScanFlags(extractCmd.Flags(), cfg)
	config.BindExtractFlags(extractCmd.Flags(), cfg)

	listCmd := &cobra.Command{
		Use:   "list <face.bin>",
		Short: "List the pointer table and expression pointers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.ArchivePath = args[0]
			return app.New(cfg).List(cmd.Context())
		},
	}
	config.BindScanFlags(listCmd.Flags(), cfg)

	rootCmd.AddCommand(extractCmd, listCmd)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd(config.New()).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "エラー: %v\n", err)
		os.Exit(1)
	}
}
