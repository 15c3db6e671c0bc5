package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"panaudit/internal/catalog"
	"panaudit/internal/session"
)

// withScanAction loads the session for a scope, applies an edit to one scan's
// action, and persists the result.
func withScanAction(cmd *cobra.Command, ctx *commandContext, restaurantID, dateFlag, scanID string, apply func(*session.Session) (bool, error)) error {
	date, err := ctx.resolveDate(dateFlag)
	if err != nil {
		return err
	}
	client, err := ctx.client()
	if err != nil {
		return err
	}

	return ctx.withStore(func(store *session.Store) error {
		ses, _, err := ctx.loadSession(cmd.Context(), store, client, restaurantID, date)
		if err != nil {
			return err
		}
		applied, err := apply(ses)
		if err != nil {
			return err
		}
		if !applied {
			return fmt.Errorf("scan %q is not part of the %s audit for restaurant %s", scanID, date, restaurantID)
		}
		if err := store.Save(cmd.Context(), ses); err != nil {
			return err
		}

		if prefStore, err := ctx.prefs(); err == nil {
			// Starting to audit forgets the remembered date shortcut.
			_ = prefStore.ClearLastDate()
		}
		return nil
	})
}

func newSetPanCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var verifyFlag bool

	cmd := &cobra.Command{
		Use:   "set-pan <restaurant-id> <scan-id> <pan-id>",
		Short: "Assign a catalog pan to a scan",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			restaurantID, scanID, panID := args[0], args[1], args[2]

			if verifyFlag {
				client, err := ctx.client()
				if err != nil {
					return err
				}
				date, err := ctx.resolveDate(dateFlag)
				if err != nil {
					return err
				}
				pans, _, err := client.RegisteredPans(cmd.Context(), restaurantID, date)
				if err != nil {
					return fmt.Errorf("fetch pan catalog: %w", err)
				}
				if catalog.FindByID(pans, panID) == nil {
					return fmt.Errorf("pan %q is not in the catalog for restaurant %s", panID, restaurantID)
				}
			}

			err := withScanAction(cmd, ctx, restaurantID, dateFlag, scanID, func(ses *session.Session) (bool, error) {
				return ses.SetPan(scanID, panID), nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned pan %s to scan %s\n", panID, scanID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Audit date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&verifyFlag, "verify", false, "Require the pan id to exist in the catalog")
	return cmd
}

func newSetMenuCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var nameFlag string

	cmd := &cobra.Command{
		Use:   "set-menu <restaurant-id> <scan-id> <menu-item-id>",
		Short: "Assign a menu item to a scan",
		Long: "Assign a menu item to a scan. Pass an empty menu-item-id with --name to\n" +
			"record a free-text item that has no catalog entry.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			restaurantID, scanID, menuItemID := args[0], args[1], args[2]
			if menuItemID == "" && nameFlag == "" {
				return fmt.Errorf("either a menu-item-id or --name is required")
			}

			err := withScanAction(cmd, ctx, restaurantID, dateFlag, scanID, func(ses *session.Session) (bool, error) {
				return ses.SetMenuItem(scanID, menuItemID, nameFlag), nil
			})
			if err != nil {
				return err
			}
			label := menuItemID
			if nameFlag != "" {
				label = nameFlag
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned menu item %s to scan %s\n", label, scanID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Audit date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&nameFlag, "name", "", "Free-text menu item name")
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "delete <restaurant-id> <scan-id>",
		Short: "Toggle the delete mark on a scan",
		Long: "Toggle the delete mark on a scan. The mark is local until submit; running\n" +
			"the command again clears it. Marked scans stay visible in every view.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			restaurantID, scanID := args[0], args[1]

			var marked bool
			err := withScanAction(cmd, ctx, restaurantID, dateFlag, scanID, func(ses *session.Session) (bool, error) {
				if !ses.ToggleDelete(scanID) {
					return false, nil
				}
				if action := ses.Find(scanID); action != nil {
					marked = action.Delete
				}
				return true, nil
			})
			if err != nil {
				return err
			}
			if marked {
				fmt.Fprintf(cmd.OutOrStdout(), "Marked scan %s for deletion\n", scanID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared the delete mark on scan %s\n", scanID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Audit date (YYYY-MM-DD)")
	return cmd
}
