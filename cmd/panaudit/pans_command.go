package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"panaudit/internal/backend"
	"panaudit/internal/catalog"
)

func newPansCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var shapeFlag string
	var sizeFlag string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "pans <restaurant-id>",
		Short: "List the registered pan catalog, optionally filtered by shape and size",
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

			pans, err := client.RegisteredPansWithRetry(cmd.Context(), restaurantID, date,
				cfg.Audit.CatalogRetryAttempts, cfg.CatalogRetryDelay())
			if err != nil {
				if errors.Is(err, backend.ErrCatalogBuilding) {
					return fmt.Errorf("pan catalog for %s is still building; try again in a minute", date)
				}
				return fmt.Errorf("fetch pan catalog: %w", err)
			}

			shape, err := parseShapeFlag(shapeFlag)
			if err != nil {
				return err
			}

			filtered := pans
			if shape != nil || sizeFlag != "" {
				filtered = catalog.MatchByShapeSize(pans, shape, sizeFlag)
				if len(filtered) == 0 {
					// An over-narrow filter falls back to the full catalog so
					// the auditor always has something to pick from.
					fmt.Fprintln(cmd.OutOrStdout(), "No pans match the filter; showing the full catalog")
					filtered = pans
				}
			}

			if jsonFlag {
				return writeJSON(cmd, filtered)
			}

			rows := make([][]string, 0, len(filtered))
			for _, pan := range filtered {
				shapeLabel := "-"
				if value, ok := pan.ShapeValue(); ok {
					shapeLabel = value.Label()
				}
				dims := pan.PanDimensions()
				dimLabel := "-"
				if !dims.IsZero() {
					dimLabel = fmt.Sprintf("%.1fx%.1fx%.1f", dims.Length, dims.Width, dims.Depth)
				}
				rows = append(rows, []string{
					pan.ID.String(),
					pan.Number.String(),
					shapeLabel,
					pan.DBSizeStandard,
					dimLabel,
					yesNo(pan.WasAudited),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Number", "Shape", "Size", "Dimensions", "Audited"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(cmd.OutOrStdout(), "%d pan(s)\n", len(filtered))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Audit date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&shapeFlag, "shape", "", "Filter by shape: rectangular, oval, or a numeric shape code")
	cmd.Flags().StringVar(&sizeFlag, "size", "", "Filter by size class (e.g. Full, 1/2, 1/3)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	return cmd
}

func parseShapeFlag(value string) (*catalog.Shape, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return nil, nil
	}
	switch value {
	case "rectangular", "rect":
		shape := catalog.ShapeRectangular
		return &shape, nil
	case "oval":
		shape := catalog.ShapeOval
		return &shape, nil
	}
	code, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid shape %q (use rectangular, oval, or a numeric code)", value)
	}
	shape := catalog.Shape(code)
	return &shape, nil
}
