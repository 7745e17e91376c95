package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"galleria/internal/cleanup"
	"galleria/internal/config"
	"galleria/internal/store"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete orphaned files from the media directory",
		Long: "Removes every file in the media directory that no database row " +
			"references, either as a media file or a thumbnail. The daemon runs " +
			"this on an interval; the command forces a pass immediately.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				removed, err := cleanup.New(cfg, st, nil).Sweep(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d orphaned file(s)\n", removed)
				return nil
			})
		},
	}
}
