package main

import (
	"fmt"
	"time"

	"github.com/2beens/fitsync/internal/workout"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		source string
		from   string
		to     string
	)

	exportCmd := &cobra.Command{
		Use:   "export <out.parquet>",
		Short: "Export cached workouts to a parquet file",
		Long: `Writes the user's cached workouts, with wearable duplicates of authoritative
workouts removed, to a SNAPPY compressed parquet file.

Examples:
  fitsyncctl export ./workouts.parquet
  fitsyncctl export --from 2025-01-01 --source hevy ./hevy-2025.parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := workout.ListParams{
				Source: workout.Source(source),
			}
			var err error
			if params.From, err = parseDate(from); err != nil {
				return err
			}
			if params.To, err = parseDate(to); err != nil {
				return err
			}
			if params.To != nil {
				// inclusive last day
				endOfDay := params.To.Add(24*time.Hour - time.Nanosecond)
				params.To = &endOfDay
			}

			s, err := opts.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()
			params.UserID = s.userID

			count, err := s.components.Exporter.ExportFile(cmd.Context(), params, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported %d workouts to %s\n", count, args[0])
			return err
		},
	}

	exportCmd.Flags().StringVar(&source, "source", "", "only export workouts of this source (hevy, apple_health, fit_file)")
	exportCmd.Flags().StringVar(&from, "from", "", "first day to export (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&to, "to", "", "last day to export (YYYY-MM-DD)")

	return exportCmd
}

func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", v, err)
	}
	return &t, nil
}
