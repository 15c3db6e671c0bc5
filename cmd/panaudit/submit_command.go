package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"panaudit/internal/session"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "submit <restaurant-id>",
		Short: "Submit the recorded audit decisions to the backend",
		Long: "Submit the recorded audit decisions to the backend. On failure every local\n" +
			"decision is kept so the submission can be retried as-is.",
		Args: cobra.ExactArgs(1),
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
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *session.Store) error {
				ses, err := store.LoadScope(cmd.Context(), restaurantID, date)
				if err != nil {
					return err
				}
				if ses == nil {
					return fmt.Errorf("no audit session for restaurant %s on %s", restaurantID, date)
				}
				if len(ses.ChangedActions()) == 0 {
					return fmt.Errorf("no decisions to submit for restaurant %s on %s", restaurantID, date)
				}

				if err := ses.BeginSubmit(); err != nil {
					return err
				}
				ses.Finalize(time.Now().In(loc))
				if err := store.Save(cmd.Context(), ses); err != nil {
					return err
				}

				result, err := client.SubmitAudit(cmd.Context(), ses)
				if err != nil {
					ses.FailSubmit()
					if saveErr := store.Save(cmd.Context(), ses); saveErr != nil {
						return fmt.Errorf("submission failed (%v) and ledger save failed: %w", err, saveErr)
					}
					return fmt.Errorf("submission failed, local decisions kept for retry: %w", err)
				}

				ses.CompleteSubmit()
				if err := store.Delete(cmd.Context(), ses.ID); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Applied %d action(s)", result.AppliedActions)
				if result.FailedActions > 0 {
					fmt.Fprintf(out, ", %d failed", result.FailedActions)
				}
				fmt.Fprintln(out)
				for _, message := range result.Errors {
					fmt.Fprintf(out, "  %s\n", message)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Audit date (YYYY-MM-DD)")
	return cmd
}
