package main

import (
	"context"

	"github.com/2beens/fitsync/internal/app"

	"github.com/spf13/cobra"
)

func newSyncCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull all workouts from Hevy into the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), app.SyncTimeout(s.cfg))
			defer cancel()

			result, err := s.components.Syncer.SyncRemote(ctx, s.userID)
			if result != nil {
				if printErr := printJSON(cmd.OutOrStdout(), result); printErr != nil && err == nil {
					err = printErr
				}
			}
			return err
		},
	}
}
