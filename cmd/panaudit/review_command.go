package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"panaudit/internal/session"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "review <restaurant-id>",
		Short: "Summarize the unsubmitted audit decisions for a restaurant and date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			restaurantID := args[0]
			date, err := ctx.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *session.Store) error {
				ses, err := store.LoadScope(cmd.Context(), restaurantID, date)
				if err != nil {
					return err
				}
				if ses == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "No audit session for restaurant %s on %s\n", restaurantID, date)
					return nil
				}

				changed := ses.ChangedActions()
				if jsonFlag {
					return writeJSON(cmd, map[string]any{
						"sessionId":    ses.ID,
						"restaurantId": ses.RestaurantID,
						"date":         ses.Date,
						"actions":      changed,
					})
				}

				out := cmd.OutOrStdout()
				if len(changed) == 0 {
					fmt.Fprintf(out, "No decisions recorded yet (%d scan(s) in the ledger)\n", len(ses.Actions))
					return nil
				}

				rows := make([][]string, 0, len(changed))
				for _, action := range changed {
					menu := action.MenuItemName
					if menu == "" {
						menu = action.MenuItemID
					}
					rows = append(rows, []string{
						action.ScanID,
						yesNo(action.Delete),
						action.PanID,
						menu,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Scan", "Delete", "Pan", "Menu Item"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
				fmt.Fprintf(out, "%d change(s) across %d scan(s); submit with `panaudit submit %s`\n",
					len(changed), len(ses.Actions), restaurantID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Audit date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	return cmd
}
