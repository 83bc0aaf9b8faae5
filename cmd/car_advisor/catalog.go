package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/car-advisor/internal/catalog"
	"github.com/jonathan/car-advisor/internal/observability"
)

type catalogOptions struct {
	filter catalog.CarFilter
	json   bool
}

func newCatalogCmd() *cobra.Command {
	opts := &catalogOptions{}

	cmd := &cobra.Command{
		Use:   "catalog [car-id]",
		Short: "List catalog cars, or show one car",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.filter.Make, "make", "", "Filter by make (case-insensitive)")
	cmd.Flags().StringVar(&opts.filter.Type, "type", "", "Filter by body type (sedan, suv, ...)")
	cmd.Flags().StringVar(&opts.filter.FuelType, "fuel", "", "Filter by fuel type (gasoline, hybrid, electric, diesel)")
	cmd.Flags().Float64Var(&opts.filter.MinPrice, "min-price", 0, "Minimum price")
	cmd.Flags().Float64Var(&opts.filter.MaxPrice, "max-price", 0, "Maximum price")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print JSON")
	return cmd
}

func runCatalog(cmd *cobra.Command, args []string, opts *catalogOptions) error {
	a, err := newApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 1 {
		car, ok, err := catalog.Lookup(cmd.Context(), a.cars, args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("car not found: %s", args[0])
		}
		if opts.json {
			return writeJSON(cmd.OutOrStdout(), car)
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintCar(&car)
		return nil
	}

	matched, err := catalog.List(cmd.Context(), a.cars, opts.filter)
	if err != nil {
		return err
	}
	if opts.json {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"cars": matched, "count": len(matched)})
	}
	observability.NewPrinter(cmd.OutOrStdout()).WithMaxItems(0).PrintCatalog(matched)
	return nil
}
