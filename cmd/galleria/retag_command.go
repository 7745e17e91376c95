package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"galleria/internal/config"
	"galleria/internal/store"
	"galleria/internal/tagging"
)

func newRetagCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "retag",
		Short: "Backfill tags for untagged library items",
		Long: "Runs tag inference for active items that have no tags yet, for " +
			"example items promoted while the inference service was down. " +
			"Requires tagging to be enabled in configuration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				if !cfg.Tagging.Enabled {
					return errors.New("tagging is disabled in configuration")
				}
				client := tagging.NewClient(cfg.Tagging)

				items, err := st.List(cmd.Context(), store.StatusActive)
				if err != nil {
					return err
				}

				processed, tagged := 0, 0
				for _, item := range items {
					if limit > 0 && processed >= limit {
						break
					}
					existing, err := st.TagsForItem(cmd.Context(), item.ID)
					if err != nil {
						return err
					}
					if len(existing) > 0 {
						continue
					}

					mediaPath := filepath.Join(cfg.Paths.MediaDir, item.Filename)
					if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
						fmt.Fprintf(cmd.OutOrStdout(), "item %d: file missing, skipped\n", item.ID)
						continue
					}

					processed++
					tags, err := client.Infer(cmd.Context(), mediaPath)
					if err != nil {
						return fmt.Errorf("item %d: %w", item.ID, err)
					}
					if len(tags) == 0 {
						fmt.Fprintf(cmd.OutOrStdout(), "item %d: no usable tags\n", item.ID)
						continue
					}
					if err := st.AddTags(cmd.Context(), item.ID, tags); err != nil {
						return err
					}
					tagged++
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Inferred tags for %d of %d item(s)\n", tagged, processed)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many inference calls (0 = all)")
	return cmd
}
