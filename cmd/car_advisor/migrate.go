package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/car-advisor/internal/catalog"
	"github.com/jonathan/car-advisor/internal/db"
	"github.com/jonathan/car-advisor/internal/logging"
	"github.com/jonathan/car-advisor/internal/types"
)

func newMigrateCmd() *cobra.Command {
	var seedFile string
	var skipSeed bool
	var prune bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the Postgres schema and load the car catalog",
		Long: "Creates the cars table if needed and upserts the built-in catalog, or the cars from --file, into Postgres. " +
			"With --prune, stored cars missing from the loaded catalog are deleted.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errNoDatabase
			}

			cars, err := loadSeed(seedFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			database, err := db.Connect(ctx, cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close()

			if err := database.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("failed to create schema: %w", err)
			}
			if skipSeed {
				logging.Info().Msg("schema ready")
				return nil
			}

			store := db.NewCarStore(database)
			if err := store.UpsertCars(ctx, cars.All()); err != nil {
				return fmt.Errorf("failed to load cars: %w", err)
			}
			logging.Info().Int("cars", cars.Len()).Msg("catalog loaded")
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d cars\n", cars.Len())

			if prune {
				removed, err := pruneCars(ctx, store, cars)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cars\n", removed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&seedFile, "file", "f", "", "Catalog YAML to load instead of the built-in catalog")
	cmd.Flags().BoolVar(&skipSeed, "schema-only", false, "Only create the schema")
	cmd.Flags().BoolVar(&prune, "prune", false, "Delete stored cars that are not in the loaded catalog")
	return cmd
}

// carPruner is the part of db.CarStore that pruneCars needs.
type carPruner interface {
	ListCars(ctx context.Context) ([]types.Car, error)
	DeleteCar(ctx context.Context, id string) error
}

// pruneCars deletes stored cars whose id is not in keep and returns how many were removed.
func pruneCars(ctx context.Context, store carPruner, keep *catalog.Catalog) (int, error) {
	stored, err := store.ListCars(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list stored cars: %w", err)
	}

	removed := 0
	for i := range stored {
		if _, ok := keep.ByID(stored[i].ID); ok {
			continue
		}
		if err := store.DeleteCar(ctx, stored[i].ID); err != nil {
			return removed, err
		}
		logging.Info().Str("car", stored[i].ID).Msg("pruned car")
		removed++
	}
	return removed, nil
}

func loadSeed(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	c, err := catalog.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog file %s: %w", path, err)
	}
	return c, nil
}
