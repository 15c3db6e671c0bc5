package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"panaudit/internal/backend"
)

func newPipelineCommand(ctx *commandContext) *cobra.Command {
	pipelineCmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Control the backend AI identification pipeline",
	}

	pipelineCmd.AddCommand(newPipelineRunCommand(ctx))
	pipelineCmd.AddCommand(newPipelineStatusCommand(ctx))
	return pipelineCmd
}

func newPipelineRunCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var waitFlag bool

	cmd := &cobra.Command{
		Use:   "run <restaurant-id>",
		Short: "Start the pan identification pipeline for a restaurant and date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			restaurantID := args[0]
			date, err := ctx.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}

			if err := client.RunPipeline(cmd.Context(), restaurantID, date); err != nil {
				return fmt.Errorf("start pipeline: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pipeline started for restaurant %s on %s\n", restaurantID, date)

			if !waitFlag {
				return nil
			}
			state, err := client.WaitForPipeline(cmd.Context(), date, cfg.PipelinePollInterval())
			if err != nil {
				return fmt.Errorf("wait for pipeline: %w", err)
			}
			printPipelineState(cmd, date, state)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Audit date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&waitFlag, "wait", false, "Block until the pipeline finishes")
	return cmd
}

func newPipelineStatusCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var waitFlag bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report the pipeline state for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := ctx.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}

			if waitFlag {
				state, err := client.WaitForPipeline(cmd.Context(), date, cfg.PipelinePollInterval())
				if err != nil {
					return fmt.Errorf("wait for pipeline: %w", err)
				}
				printPipelineState(cmd, date, state)
				return nil
			}

			state, err := client.PipelineStatus(cmd.Context(), date)
			if err != nil {
				return fmt.Errorf("fetch pipeline status: %w", err)
			}
			printPipelineState(cmd, date, state)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Audit date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&waitFlag, "wait", false, "Block until the pipeline finishes")
	return cmd
}

func printPipelineState(cmd *cobra.Command, date string, state *backend.PipelineState) {
	out := cmd.OutOrStdout()
	if state.Running {
		fmt.Fprintf(out, "Pipeline for %s is running\n", date)
	} else if state.CompletedAt != "" {
		fmt.Fprintf(out, "Pipeline for %s completed at %s\n", date, state.CompletedAt)
	} else {
		fmt.Fprintf(out, "Pipeline for %s is idle\n", date)
	}
	if state.LastError != "" {
		fmt.Fprintf(out, "Last error: %s\n", state.LastError)
	}
	if state.Coverage.Total > 0 {
		fmt.Fprintf(out, "Coverage: %d of %d scan(s) have a pan guess\n",
			state.Coverage.WithPan, state.Coverage.Total)
	}
}
