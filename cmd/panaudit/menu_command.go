package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newMenuCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var queryFlag string
	var limitFlag int
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "menu <restaurant-id>",
		Short: "Search the menu items observed in a restaurant's scans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			restaurantID := args[0]
			date, err := ctx.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}

			items, err := client.SearchMenuItems(cmd.Context(), restaurantID, date, queryFlag, limitFlag)
			if err != nil {
				return fmt.Errorf("search menu items: %w", err)
			}

			if jsonFlag {
				return writeJSON(cmd, items)
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{item.ID, truncate(item.Name, 50), strconv.Itoa(item.Count)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Seen"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No menu items matched")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Audit date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&queryFlag, "query", "q", "", "Name substring to search for")
	cmd.Flags().IntVar(&limitFlag, "limit", 50, "Maximum number of items to return")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	return cmd
}
