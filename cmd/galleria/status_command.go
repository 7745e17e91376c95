package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"galleria/internal/config"
	"galleria/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var showTags bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show library and quarantine state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				health, err := st.Health(cmd.Context())
				if err != nil {
					return err
				}

				rows := [][]string{
					{"Total items", strconv.Itoa(health.Total)},
					{"Pending in quarantine", strconv.Itoa(health.Pending)},
					{"Active in library", strconv.Itoa(health.Active)},
					{"Distinct tags", strconv.Itoa(health.Tags)},
					{"Database", st.Path()},
					{"Media directory", cfg.Paths.MediaDir},
					{"Quarantine directory", cfg.Paths.QuarantineDir},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Metric", "Value"}, rows,
				))

				if !showTags {
					return nil
				}
				counts, err := st.TagCounts(cmd.Context())
				if err != nil {
					return err
				}
				names := make([]string, 0, len(counts))
				for name := range counts {
					names = append(names, name)
				}
				sort.Slice(names, func(i, j int) bool {
					if counts[names[i]] != counts[names[j]] {
						return counts[names[i]] > counts[names[j]]
					}
					return names[i] < names[j]
				})
				tagRows := make([][]string, 0, len(names))
				for _, name := range names {
					tagRows = append(tagRows, []string{name, strconv.Itoa(counts[name])})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Tag", "Items"}, tagRows, 1,
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showTags, "tags", false, "Include per-tag item counts")
	return cmd
}
