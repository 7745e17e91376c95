package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"galleria/internal/cleanup"
	"galleria/internal/config"
	"galleria/internal/enrich"
	"galleria/internal/quarantine"
	"galleria/internal/scheduler"
	"galleria/internal/store"
	"galleria/internal/tagging"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var maxTicks int
	var withCleanup bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run maintenance work once, without the daemon",
		Long: "Runs the same priority pipeline the daemon runs (quarantine " +
			"validation, then tag backfill) until no source has work left or the " +
			"tick limit is reached. Useful for draining a backlog by hand.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				var inferrer quarantine.TagInferrer
				if cfg.Tagging.Enabled {
					inferrer = tagging.NewClient(cfg.Tagging)
				}

				sources := []scheduler.Source{
					quarantine.New(cfg, st, inferrer, nil),
					enrich.New(cfg, st, inferrer, nil),
				}
				if withCleanup {
					sources = append(sources, cleanup.New(cfg, st, nil))
				}
				selector := scheduler.NewSelector(sources...)

				ticks := 0
				for maxTicks <= 0 || ticks < maxTicks {
					name, err := selector.Tick(cmd.Context())
					if err != nil {
						return err
					}
					if name == "" {
						break
					}
					ticks++
					fmt.Fprintf(cmd.OutOrStdout(), "tick %d: %s\n", ticks, name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Done after %d tick(s)\n", ticks)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&maxTicks, "max", 0, "Stop after this many ticks (0 = until idle)")
	cmd.Flags().BoolVar(&withCleanup, "cleanup", false, "Also run the orphan sweep")
	return cmd
}
