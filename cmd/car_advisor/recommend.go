package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jonathan/car-advisor/internal/observability"
	"github.com/jonathan/car-advisor/internal/ranking"
	"github.com/jonathan/car-advisor/internal/server"
	"github.com/jonathan/car-advisor/internal/types"
)

type recommendOptions struct {
	prefsPath string
	mode      string
	limit     int
	seed      uint64
	out       string
	json      bool
	all       bool
}

func newRecommendCmd() *cobra.Command {
	opts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank the catalog against a preferences file",
		Long:  "Scores every catalog car against UserPreferences JSON and prints the best matches. Use --prefs - to read from stdin.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecommend(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.prefsPath, "prefs", "p", "", "Path to UserPreferences JSON file, or - for stdin (required)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "Ranking mode: simple or ensemble (default ranking.default_mode)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum results (default ranking.default_limit)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Seed for ensemble clustering; 0 picks a random seed")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Also write the JSON result to this file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print JSON instead of a summary")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Show every result in the summary")

	if err := cmd.MarkFlagRequired("prefs"); err != nil {
		panic(fmt.Sprintf("failed to mark prefs flag as required: %v", err))
	}
	return cmd
}

func runRecommend(cmd *cobra.Command, opts *recommendOptions) error {
	prefs, err := readPreferences(cmd.InOrStdin(), opts.prefsPath)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	mode := opts.mode
	if mode == "" {
		mode = a.cfg.Ranking.DefaultMode
	}
	limit := opts.limit
	if limit == 0 {
		limit = a.cfg.Ranking.DefaultLimit
	}

	cars, err := a.cars.Cars(cmd.Context())
	if err != nil {
		return err
	}

	var rng *rand.Rand
	if opts.seed != 0 {
		rng = ranking.SeededRand(opts.seed)
	}
	recs, err := ranking.Rank(cars, prefs, mode, limit, rng)
	if err != nil {
		return fmt.Errorf("failed to rank cars: %w", err)
	}
	if recs == nil {
		recs = []types.CarRecommendation{}
	}

	result := server.RecommendationResponse{Recommendations: recs, Count: len(recs), Mode: mode}

	if opts.out != "" {
		if err := writeJSONFile(opts.out, result); err != nil {
			return err
		}
	}

	if opts.json {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	p := observability.NewPrinter(cmd.OutOrStdout())
	if opts.all {
		p = p.WithMaxItems(0)
	}
	p.PrintPreferences(prefs)
	p.PrintRecommendations(recs, mode)
	return nil
}

func readPreferences(stdin io.Reader, path string) (*types.UserPreferences, error) {
	var (
		content []byte
		err     error
	)
	if path == "-" {
		content, err = io.ReadAll(stdin)
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences %s: %w", path, err)
	}

	var prefs types.UserPreferences
	if err := json.Unmarshal(content, &prefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences JSON: %w", err)
	}
	if err := ranking.ValidatePreferences(&prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
