package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRestaurantsCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "restaurants",
		Short: "List restaurants, with scan counts for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}

			restaurants, err := client.RestaurantsWithScans(cmd.Context(), dateFlag)
			if err != nil {
				return fmt.Errorf("fetch restaurants: %w", err)
			}

			if jsonFlag {
				return writeJSON(cmd, restaurants)
			}

			rows := make([][]string, 0, len(restaurants))
			for _, r := range restaurants {
				rows = append(rows, []string{
					r.ID.String(),
					truncate(r.Name, 40),
					strconv.Itoa(r.ScanCount),
					strconv.Itoa(r.NormalScanCount),
					strconv.Itoa(r.FlaggedScanCount),
					strconv.Itoa(r.ActiveAuditors),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Scans", "Normal", "Flagged", "Auditors"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			if len(restaurants) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No restaurants found")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Count scans for this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	return cmd
}
