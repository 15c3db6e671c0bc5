package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"panaudit/internal/scan"
	"panaudit/internal/session"
	"panaudit/internal/view"
)

func newScansCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var viewFlag string
	var scopeFlag string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "scans <restaurant-id>",
		Short: "List the scans to audit for a restaurant and date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			restaurantID := args[0]
			date, err := ctx.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			modeValue := viewFlag
			if modeValue == "" {
				if prefStore, err := ctx.prefs(); err == nil {
					modeValue = prefStore.ViewMode()
				}
			}
			mode, ok := view.ParseMode(modeValue)
			if !ok {
				return fmt.Errorf("invalid view mode %q (use all, manual, or automated)", modeValue)
			}
			scope, err := parseScope(scopeFlag)
			if err != nil {
				return err
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *session.Store) error {
				ses, feed, err := ctx.loadSession(cmd.Context(), store, client, restaurantID, date)
				if err != nil {
					return err
				}

				if prefStore, err := ctx.prefs(); err == nil {
					_ = prefStore.SetLastDate(date)
					if viewFlag != "" {
						_ = prefStore.SetViewMode(string(mode))
					}
				}

				scans := allScans(feed)
				visible := view.VisibleIndices(scans, mode, scope, ses)
				if scope == view.ScopeInvalidOnly {
					// The fetch always includes bad scans, so the invalid-only
					// scope is applied here. Delete-marked scans stay visible.
					kept := make([]int, 0, len(visible))
					for _, index := range visible {
						record := scans[index]
						action := ses.Find(record.ScanID())
						if record.Flagged() || (action != nil && action.Delete) {
							kept = append(kept, index)
						}
					}
					visible = kept
				}

				if jsonFlag {
					subset := make([]scan.Record, 0, len(visible))
					for _, index := range visible {
						subset = append(subset, scans[index])
					}
					return writeJSON(cmd, map[string]any{
						"date":          date,
						"scans":         subset,
						"propagating":   feed.Propagating,
						"noData":        feed.NoData,
						"aiRunning":     feed.AIRunning,
						"aiCompletedAt": feed.AICompletedAt,
					})
				}

				out := cmd.OutOrStdout()
				rows := make([][]string, 0, len(visible))
				for _, index := range visible {
					record := scans[index]
					action := ses.Find(record.ScanID())
					rows = append(rows, []string{
						strconv.Itoa(index),
						record.ScanID(),
						truncate(scan.ExtractMenuItemName(record), 30),
						scan.ExtractPanID(record),
						formatWeight(record.Weight()),
						scanStatus(record, action),
						editSummary(action),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Scan", "Menu Item", "Pan", "Weight", "Status", "Pending Edits"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))

				fmt.Fprintf(out, "%d of %d scan(s) visible (view=%s)\n", len(visible), len(scans), mode)
				if feed.Propagating {
					fmt.Fprintln(out, "Scan data is still propagating; re-run shortly for the full set")
				}
				if feed.NoData {
					fmt.Fprintln(out, "No scan data exists for this date")
				}
				if feed.AIRunning {
					fmt.Fprintln(out, "AI identification is running; pan guesses may still improve")
				} else if feed.AICompletedAt != "" {
					fmt.Fprintf(out, "AI identification completed at %s\n", feed.AICompletedAt)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Audit date (YYYY-MM-DD, defaults to the last used date)")
	cmd.Flags().StringVar(&viewFlag, "view", "", "View mode: all, manual, or automated")
	cmd.Flags().StringVar(&scopeFlag, "scope", "", "Fetch scope: all or invalid-only")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	return cmd
}

func parseScope(value string) (view.Scope, error) {
	switch value {
	case "":
		return view.ScopeDefault, nil
	case "all":
		return view.ScopeAll, nil
	case "invalid-only", "invalidOnly":
		return view.ScopeInvalidOnly, nil
	default:
		return view.ScopeDefault, fmt.Errorf("invalid scope %q (use all or invalid-only)", value)
	}
}
