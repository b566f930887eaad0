package main

import (
	"github.com/spf13/cobra"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	var (
		days     int
		exercise string
		metrics  []string
	)

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print an analytics report as JSON",
	}
	reportCmd.PersistentFlags().IntVar(&days, "days", 0, "window in days (0 = report default)")

	frequencyCmd := &cobra.Command{
		Use:   "frequency",
		Short: "Workout frequency, volume trend and consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			report, err := s.components.Reports.Frequency(cmd.Context(), s.userID, days)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	progressionCmd := &cobra.Command{
		Use:   "progression",
		Short: "Per-session history and personal records of one exercise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			progression, err := s.components.Reports.Progression(cmd.Context(), s.userID, exercise, days)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), progression)
		},
	}

	plateauCmd := &cobra.Command{
		Use:   "plateau",
		Short: "Check whether the working weight of an exercise stalled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			report, err := s.components.Reports.Plateau(cmd.Context(), s.userID, exercise)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	for _, c := range []*cobra.Command{progressionCmd, plateauCmd} {
		c.Flags().StringVar(&exercise, "exercise", "", "exercise name, partial and case-insensitive")
		_ = c.MarkFlagRequired("exercise")
	}

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Muscle group distribution, imbalances and balance score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			report, err := s.components.Reports.Balance(cmd.Context(), s.userID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Daily health metrics: coverage, averages and the last 7 days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			report, err := s.components.Reports.HealthMetrics(cmd.Context(), s.userID, days, metrics)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	healthCmd.Flags().StringSliceVar(&metrics, "metrics", nil, "metrics to report, e.g. steps,weight_lbs (default steps, weight_lbs, active_calories, exercise_minutes)")

	reportCmd.AddCommand(frequencyCmd, progressionCmd, plateauCmd, balanceCmd, healthCmd)
	return reportCmd
}
