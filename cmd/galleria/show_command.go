package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"galleria/internal/config"
	"galleria/internal/media"
	"galleria/internal/store"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|filename>",
		Short: "Show one item's details and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				item, err := lookupItem(cmd, st, args[0])
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("no item matching %q", args[0])
				}

				tags, err := st.TagsForItem(cmd.Context(), item.ID)
				if err != nil {
					return err
				}

				rows := [][]string{
					{"ID", strconv.FormatInt(item.ID, 10)},
					{"Title", item.Title},
					{"Status", string(item.Status)},
					{"Filename", item.Filename},
					{"Thumbnail", item.ThumbnailFilename},
					{"Original name", item.OriginalFilename},
					{"Fingerprint", item.Fingerprint},
					{"Tags", strings.Join(tags, ", ")},
					{"Created", item.CreatedAt.Format(time.RFC3339)},
					{"Updated", item.UpdatedAt.Format(time.RFC3339)},
				}

				if item.Status == store.StatusActive {
					path := filepath.Join(cfg.Paths.MediaDir, item.Filename)
					if w, h, err := media.Dimensions(path); err == nil {
						rows = append(rows, []string{"Dimensions", fmt.Sprintf("%dx%d", w, h)})
					}
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Field", "Value"}, rows,
				))
				return nil
			})
		},
	}
}

func lookupItem(cmd *cobra.Command, st *store.Store, key string) (*store.Item, error) {
	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		return st.GetByID(cmd.Context(), id)
	}
	return st.GetByFilename(cmd.Context(), key)
}
