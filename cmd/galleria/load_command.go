package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"galleria/internal/config"
	"galleria/internal/intake"
	"galleria/internal/store"
)

func newLoadCommand(ctx *commandContext) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "load <directory>",
		Short: "Admit every image in a directory into quarantine",
		Long: "Copies supported image files (png, jpg, jpeg, gif) from the given " +
			"directory into the quarantine area and registers them as pending items. " +
			"The daemon validates and promotes them on its next passes.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			info, err := os.Stat(dir)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				var userID int64
				if username != "" {
					user, err := st.EnsureUser(cmd.Context(), username)
					if err != nil {
						return err
					}
					userID = user.ID
				}

				in := intake.New(cfg, st, nil)
				items, err := in.AdmitDir(cmd.Context(), dir, userID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Admitted %d file(s) into quarantine\n", len(items))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "Attribute admitted items to this username")
	return cmd
}
