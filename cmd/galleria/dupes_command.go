package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"galleria/internal/config"
	"galleria/internal/media"
	"galleria/internal/store"
)

func newDupesCommand(ctx *commandContext) *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "dupes",
		Short: "Find visually similar library items",
		Long: "Compares the perceptual fingerprints of all active items and " +
			"reports pairs within the given Hamming distance. A distance of 0 " +
			"means the 8x8 luminance structure is identical; anything under " +
			"about 10 is usually the same picture re-encoded or resized.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				items, err := st.List(cmd.Context(), store.StatusActive)
				if err != nil {
					return err
				}

				var fingerprinted []*store.Item
				for _, item := range items {
					if item.Fingerprint != "" {
						fingerprinted = append(fingerprinted, item)
					}
				}

				var rows [][]string
				for i := 0; i < len(fingerprinted); i++ {
					for j := i + 1; j < len(fingerprinted); j++ {
						a, b := fingerprinted[i], fingerprinted[j]
						dist, err := media.FingerprintDistance(a.Fingerprint, b.Fingerprint)
						if err != nil {
							return err
						}
						if dist > threshold {
							continue
						}
						rows = append(rows, []string{
							strconv.FormatInt(a.ID, 10),
							a.Title,
							strconv.FormatInt(b.ID, 10),
							b.Title,
							strconv.Itoa(dist),
						})
					}
				}

				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No similar pairs found")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Title", "ID", "Title", "Distance"}, rows, 0, 2, 4,
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", 5, "Maximum Hamming distance to report")
	return cmd
}
