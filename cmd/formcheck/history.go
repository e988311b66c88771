package main

import (
	"context"
	"fmt"

	"github.com/2beens/formcheck/internal/assessment"

	"github.com/spf13/cobra"
)

var (
	historyUser   string
	resultsLimit  int
	planResultID  string
	referenceOnly string
)

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "List the stored results of a user, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, store, err := openService(nil)
			if err != nil {
				return err
			}
			defer closeStore(store)

			results, err := service.ListByUser(context.Background(), historyUser, resultsLimit)
			if err != nil {
				return fmt.Errorf("list results: %w", err)
			}
			if results == nil {
				results = []assessment.Result{}
			}
			return printOutput(cmd.OutOrStdout(), results, func(r *renderer) string {
				return r.results(results)
			})
		},
	}
	cmd.Flags().StringVar(&historyUser, "user", "local", "user id")
	cmd.Flags().IntVar(&resultsLimit, "limit", assessment.DefaultListLimit, "max number of results")
	return cmd
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the progress of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, store, err := openService(nil)
			if err != nil {
				return err
			}
			defer closeStore(store)

			stats, err := service.UserStats(context.Background(), historyUser)
			if err != nil {
				return fmt.Errorf("user stats: %w", err)
			}
			return printOutput(cmd.OutOrStdout(), stats, func(r *renderer) string {
				return r.stats(historyUser, stats)
			})
		},
	}
	cmd.Flags().StringVar(&historyUser, "user", "local", "user id")
	return cmd
}

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Suggest a workout plan from the latest (or the given) result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, store, err := openService(nil)
			if err != nil {
				return err
			}
			defer closeStore(store)

			plan, err := service.WorkoutPlan(context.Background(), historyUser, planResultID)
			if err != nil {
				return fmt.Errorf("workout plan: %w", err)
			}
			return printOutput(cmd.OutOrStdout(), plan, func(r *renderer) string {
				return r.plan(plan)
			})
		},
	}
	cmd.Flags().StringVar(&historyUser, "user", "local", "user id")
	cmd.Flags().StringVar(&planResultID, "result", "", "result id, defaults to the latest result")
	return cmd
}

func newExercisesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exercises",
		Short: "List the supported exercises, or the reference metrics of one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, store, err := openService(nil)
			if err != nil {
				return err
			}
			defer closeStore(store)

			if referenceOnly != "" {
				ref, err := service.ReferenceMetrics(referenceOnly)
				if err != nil {
					return err
				}
				// reference metrics have no text rendering
				if outputFormat == formatText {
					outputFormat = formatYAML
				}
				return printOutput(cmd.OutOrStdout(), ref, nil)
			}

			exercises := service.Exercises()
			return printOutput(cmd.OutOrStdout(), exercises, func(r *renderer) string {
				return r.exercises(exercises)
			})
		},
	}
	cmd.Flags().StringVar(&referenceOnly, "reference-of", "", "print the reference metrics of this exercise")
	return cmd
}
