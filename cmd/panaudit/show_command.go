package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"panaudit/internal/backend"
	"panaudit/internal/catalog"
	"panaudit/internal/images"
	"panaudit/internal/scan"
	"panaudit/internal/session"
	"panaudit/internal/view"
)

var fieldTitler = cases.Title(language.English)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var viewFlag string
	var noImageFlag bool

	cmd := &cobra.Command{
		Use:   "show <restaurant-id> <scan-id or index>",
		Short: "Inspect one scan: detector fields, catalog match, and pending edits",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			restaurantID := args[0]
			date, err := ctx.resolveDate(dateFlag)
			if err != nil {
				return err
			}
			mode, ok := view.ParseMode(viewFlag)
			if !ok {
				return fmt.Errorf("invalid view mode %q (use all, manual, or automated)", viewFlag)
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
				scans := allScans(feed)
				if len(scans) == 0 {
					return fmt.Errorf("no scans for restaurant %s on %s", restaurantID, date)
				}

				index, err := locateScan(scans, args[1])
				if err != nil {
					return err
				}
				record := scans[index]

				visible := view.VisibleIndices(scans, mode, view.ScopeDefault, ses)
				nav := view.NewNavigator(visible)
				if !nav.Select(index) {
					// The requested scan fell outside the filter; anchor to it
					// anyway so prev/next hints stay meaningful.
					nav.SetVisible(append([]int{index}, visible...))
					nav.Select(index)
				}

				pans, err := client.RegisteredPansWithRetry(cmd.Context(), restaurantID, date,
					1, 0)
				if err != nil {
					// Catalog trouble degrades detail output, it doesn't block it.
					pans = nil
				}

				return renderScanDetail(cmd, ctx, client, record, ses, pans, nav, noImageFlag)
			})
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Audit date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&viewFlag, "view", "", "View mode used for prev/next hints")
	cmd.Flags().BoolVar(&noImageFlag, "no-image", false, "Skip presigning the scan image")
	return cmd
}

func locateScan(scans []scan.Record, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if index, err := strconv.Atoi(ref); err == nil {
		if index < 0 || index >= len(scans) {
			return 0, fmt.Errorf("scan index %d out of range (0-%d)", index, len(scans)-1)
		}
		return index, nil
	}
	for i, record := range scans {
		if record.ScanID() == ref {
			return i, nil
		}
	}
	return 0, fmt.Errorf("scan %q not found", ref)
}

func renderScanDetail(cmd *cobra.Command, ctx *commandContext, client *backend.Client, record scan.Record, ses *session.Session, pans []catalog.Pan, nav *view.Navigator, skipImage bool) error {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	printField := func(name, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(out, "  %-18s %s\n", fieldTitler.String(name)+":", value)
	}

	fmt.Fprintf(out, "Scan %s\n", highlight(record.ScanID(), colorize))
	printField("menu item", scan.ExtractMenuItemName(record))
	printField("menu item id", scan.ExtractMenuItemID(record))
	printField("reported pan", scan.ExtractPanID(record))
	printField("weight", formatWeight(record.Weight()))
	printField("status", scanStatus(record, ses.Find(record.ScanID())))
	printField("needs review", yesNo(scan.NeedsManualReview(record)))

	if match := catalog.MatchByExternalID(pans, scan.ExtractPanID(record)); match != nil {
		shapeLabel := "-"
		if shape, ok := match.ShapeValue(); ok {
			shapeLabel = shape.Label()
		}
		dims := match.PanDimensions()
		fmt.Fprintln(out, "Catalog match")
		printField("pan id", match.ID.String())
		printField("shape", shapeLabel)
		printField("size", match.DBSizeStandard)
		if !dims.IsZero() {
			printField("dimensions", fmt.Sprintf("%.1f x %.1f x %.1f in", dims.Length, dims.Width, dims.Depth))
		}
		printField("audited before", yesNo(match.WasAudited))
	} else if len(pans) > 0 {
		fmt.Fprintln(out, "No catalog match for the reported pan id")
	}

	if action := ses.Find(record.ScanID()); action != nil && action.Changed() {
		fmt.Fprintf(out, "Pending edits: %s\n", editSummary(action))
	}

	if !skipImage {
		if url := resolveImage(cmd, ctx, client, record); url != "" {
			printField("image", url)
		}
	}

	if current := nav.Current(); current >= 0 {
		next := nav.Next()
		nav.Select(current)
		prev := nav.Prev()
		nav.Select(current)
		fmt.Fprintf(out, "Navigation: prev=%d next=%d\n", prev, next)
	}
	return nil
}

// resolveImage presigns the scan's display image. Failures are silent: the
// image is a convenience, not part of the audit record.
func resolveImage(cmd *cobra.Command, ctx *commandContext, client *backend.Client, record scan.Record) string {
	if url := record.ImageURL(); url != "" {
		return url
	}
	key := record.ImageKey()
	if key == "" {
		return ""
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return ""
	}
	resolver := images.NewResolver(client, cfg.PresignTTL())
	select {
	case result := <-resolver.Select(cmd.Context(), key):
		if result.Err != nil {
			return ""
		}
		return result.URL
	case <-cmd.Context().Done():
		return ""
	}
}
