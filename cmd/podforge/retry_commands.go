package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"podforge/internal/jobs"
	"podforge/internal/plan"
	"podforge/internal/retry"
)

func newRetryCommand(ctx *commandContext) *cobra.Command {
	var tierFlag string

	cmd := &cobra.Command{
		Use:   "retry <project-id> <job>",
		Short: "Queue one failed generation job for a retry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := ctx.userID()
			if err != nil {
				return err
			}
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			job, ok := jobs.Parse(args[1])
			if !ok {
				return fmt.Errorf("unknown job %q (known: %s)", args[1], jobNames())
			}
			return ctx.withCoordinator(func(coord *retry.Coordinator) error {
				if err := coord.RetryJob(cmd.Context(), userID, plan.Parse(tierFlag), id, job); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Retry for %s queued on project %d\n", job, id)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tierFlag, "plan", "free", "Current plan tier of the user")
	return cmd
}

func newGenerateMissingCommand(ctx *commandContext) *cobra.Command {
	var tierFlag string

	cmd := &cobra.Command{
		Use:   "generate-missing <project-id>",
		Short: "Queue generation for entitled features the project lacks",
		Long: "Queues every content job the current plan is entitled to that has no " +
			"stored result, typically after upgrading the plan.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := ctx.userID()
			if err != nil {
				return err
			}
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			return ctx.withCoordinator(func(coord *retry.Coordinator) error {
				queued, err := coord.GenerateMissingFeatures(cmd.Context(), userID, plan.Parse(tierFlag), id)
				if err != nil {
					return err
				}
				names := make([]string, 0, len(queued))
				for _, job := range queued {
					names = append(names, string(job))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued %d job(s) on project %d: %s\n",
					len(queued), id, strings.Join(names, ", "))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tierFlag, "plan", "free", "Current plan tier of the user")
	return cmd
}

func jobNames() string {
	all := jobs.All()
	names := make([]string, 0, len(all))
	for _, job := range all {
		names = append(names, string(job))
	}
	return strings.Join(names, ", ")
}
