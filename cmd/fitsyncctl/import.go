package main

import (
	"github.com/2beens/fitsync/internal/ingest/fitfile"
	"github.com/2beens/fitsync/internal/ingest/healthexport"

	"github.com/spf13/cobra"
)

func newImportHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import-health <file>",
		Short: "Import an Apple Health JSON export (optionally gzipped)",
		Long: `Imports daily metrics, raw workout metrics and workouts from a Health Auto Export
JSON file. Files ending in .gz are decompressed on the fly.

Examples:
  fitsyncctl import-health ./HealthAutoExport-2025-06-01.json
  fitsyncctl import-health --store postgres ./export.json.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := opts.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			export, err := healthexport.ParseFile(args[0])
			if err != nil {
				return err
			}

			result, err := s.components.Syncer.ImportHealthExport(ctx, s.userID, export)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func newImportFitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import-fit <file>",
		Short: "Import a FIT activity file",
		Long: `Imports the session of a FIT activity file as a workout. Activities that duplicate
an already cached workout of the authoritative source are discarded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := opts.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			raw, err := fitfile.ParseActivityFile(args[0])
			if err != nil {
				return err
			}

			result, err := s.components.Syncer.ImportFitActivity(ctx, s.userID, raw)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}
