package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"galleria/internal/config"
	"galleria/internal/fileutil"
	"galleria/internal/media"
	"galleria/internal/store"
)

func newMigrateFilenamesCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate-filenames",
		Short: "Rename legacy library files to unguessable names",
		Long: "Finds active items whose files still carry their original upload " +
			"names, renames them to random hex names, regenerates their " +
			"thumbnails, and updates the database. Safe to re-run; already " +
			"migrated items are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				items, err := st.List(cmd.Context(), store.StatusActive)
				if err != nil {
					return err
				}

				migrated := 0
				for _, item := range items {
					if media.IsRandomStem(item.Filename) {
						continue
					}
					oldPath := filepath.Join(cfg.Paths.MediaDir, item.Filename)
					if _, err := os.Stat(oldPath); os.IsNotExist(err) {
						fmt.Fprintf(cmd.OutOrStdout(), "item %d: file %s missing, skipped\n", item.ID, item.Filename)
						continue
					}

					newFilename := media.RandomFilename(item.Filename)
					if dryRun {
						fmt.Fprintf(cmd.OutOrStdout(), "item %d: %s -> %s\n", item.ID, item.Filename, newFilename)
						migrated++
						continue
					}

					newPath := filepath.Join(cfg.Paths.MediaDir, newFilename)
					if err := fileutil.MoveFile(oldPath, newPath); err != nil {
						return fmt.Errorf("item %d: rename: %w", item.ID, err)
					}

					oldThumb := item.ThumbnailFilename
					thumb, err := media.Thumbnail(
						newPath, cfg.Paths.MediaDir, newFilename,
						cfg.Thumbnails.BoxSize, cfg.Thumbnails.Quality,
					)
					if err != nil {
						fmt.Fprintf(cmd.OutOrStdout(), "item %d: thumbnail failed: %v\n", item.ID, err)
						thumb = ""
					}

					item.Filename = newFilename
					item.ThumbnailFilename = thumb
					if err := st.Update(cmd.Context(), item); err != nil {
						return fmt.Errorf("item %d: update: %w", item.ID, err)
					}
					if oldThumb != "" && oldThumb != thumb {
						_ = fileutil.RemoveQuiet(filepath.Join(cfg.Paths.MediaDir, oldThumb))
					}
					migrated++
				}

				verb := "Migrated"
				if dryRun {
					verb = "Would migrate"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d item(s)\n", verb, migrated)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without touching files")
	return cmd
}
