// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jonathan/car-advisor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxReasonsToShow limits reasons and warnings per car
	maxReasonsToShow = 3
)

// Printer handles formatted output for the CLI
type Printer struct {
	out      io.Writer
	maxItems int
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, maxItems: maxItemsToShow}
}

// WithMaxItems returns a copy that lists up to n items per box. n <= 0 lists everything.
func (p *Printer) WithMaxItems(n int) *Printer {
	cp := *p
	cp.maxItems = n
	return &cp
}

func (p *Printer) limit(total int) int {
	if p.maxItems <= 0 {
		return total
	}
	return min(total, p.maxItems)
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to width runes, ending in "..." when cut.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// Price formats a catalog price as "$27,500".
func Price(v float64) string {
	return "$" + humanize.Commaf(float64(int64(v+0.5)))
}

// PrintRecommendations outputs the ranked cars with their reasons and warnings.
func (p *Printer) PrintRecommendations(recs []types.CarRecommendation, mode string) {
	title := "TOP RECOMMENDATIONS"
	if mode != "" {
		title += " (" + strings.ToUpper(mode) + ")"
	}

	if len(recs) == 0 {
		p.printBox(title, "No cars matched these preferences.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total matches: %d\n\n", len(recs)))

	count := p.limit(len(recs))
	for i := 0; i < count; i++ {
		rec := recs[i]
		sb.WriteString(fmt.Sprintf("#%d  %d %s %s\n", i+1, rec.Year, rec.Make, rec.Model))
		sb.WriteString(fmt.Sprintf("    Match: %d/100  %s", rec.MatchScore, Price(rec.Price)))
		if rec.SimilarityScore != nil {
			sb.WriteString(fmt.Sprintf("  sim %.2f", *rec.SimilarityScore))
		}
		sb.WriteString("\n")

		for j, reason := range rec.Reasons {
			if j == maxReasonsToShow {
				break
			}
			sb.WriteString(fmt.Sprintf("    + %s\n", reason))
		}
		for j, warning := range rec.Warnings {
			if j == maxReasonsToShow {
				break
			}
			sb.WriteString(fmt.Sprintf("    ! %s\n", warning))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(recs) > count {
		sb.WriteString(fmt.Sprintf("\n... and %d more cars", len(recs)-count))
	}

	p.printBox(title, sb.String())
}

// PrintPreferences outputs a summary of what the user asked for.
func (p *Printer) PrintPreferences(prefs *types.UserPreferences) {
	if prefs == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Budget:     %s - %s\n", Price(prefs.Budget.Min), Price(prefs.Budget.Max)))
	sb.WriteString(fmt.Sprintf("Body types: %s\n", listOrAny(prefs.CarType)))
	sb.WriteString(fmt.Sprintf("Fuel types: %s\n", listOrAny(prefs.FuelType)))
	if prefs.SeatingCapacity > 0 {
		sb.WriteString(fmt.Sprintf("Seats:      %d+\n", prefs.SeatingCapacity))
	}
	sb.WriteString(fmt.Sprintf("Efficiency: %.0f mpg (%s)\n", prefs.FuelEfficiency.Min, prefs.FuelEfficiency.Importance))
	sb.WriteString(fmt.Sprintf("Safety:     %.0f stars (%s)\n", prefs.SafetyRating.Min, prefs.SafetyRating.Importance))
	if len(prefs.Features) > 0 {
		sb.WriteString(fmt.Sprintf("Features:   %s\n", strings.Join(prefs.Features, ", ")))
	}
	if len(prefs.Priorities) > 0 {
		sb.WriteString(fmt.Sprintf("Priorities: %s\n", strings.Join(prefs.Priorities, ", ")))
	}

	p.printBox("PREFERENCES", sb.String())
}

// PrintCatalog lists cars one per line.
func (p *Printer) PrintCatalog(cars []types.Car) {
	title := fmt.Sprintf("CATALOG (%d CARS)", len(cars))
	if len(cars) == 0 {
		p.printBox(title, "No cars matched.")
		return
	}

	var sb strings.Builder
	count := p.limit(len(cars))
	for i := 0; i < count; i++ {
		car := cars[i]
		sb.WriteString(catalogRow(&car))
		sb.WriteString("\n")
	}
	if len(cars) > count {
		sb.WriteString(fmt.Sprintf("... and %d more cars", len(cars)-count))
	}

	p.printBox(title, sb.String())
}

// catalogRow fits one car on a box line; long IDs are cut so the price always shows.
func catalogRow(car *types.Car) string {
	return fmt.Sprintf("%-24s %-11s %-8s %9s", truncate(car.ID, 24), car.Type, car.FuelType, Price(car.Price))
}

// PrintCar outputs the full details of one car.
func (p *Printer) PrintCar(car *types.Car) {
	if car == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Price:        %s\n", Price(car.Price)))
	sb.WriteString(fmt.Sprintf("Body / fuel:  %s, %s\n", car.Type, car.FuelType))
	sb.WriteString(fmt.Sprintf("Efficiency:   %.0f mpg\n", car.FuelEfficiency))
	sb.WriteString(fmt.Sprintf("Safety:       %d/5\n", car.SafetyRating))
	sb.WriteString(fmt.Sprintf("Seats:        %d\n", car.SeatingCapacity))
	sb.WriteString(fmt.Sprintf("Drive:        %s, %s\n", car.Transmission, car.Drivetrain))
	sb.WriteString(fmt.Sprintf("Reliability:  %d/10  maintenance %s\n", car.Reliability, car.MaintenanceCost))

	if len(car.Features) > 0 {
		sb.WriteString("\nFeatures:\n")
		for _, f := range car.Features {
			sb.WriteString(fmt.Sprintf("  • %s\n", f))
		}
	}
	if len(car.Pros) > 0 {
		sb.WriteString("\nPros:\n")
		for _, pro := range car.Pros {
			sb.WriteString(fmt.Sprintf("  + %s\n", pro))
		}
	}
	if len(car.Cons) > 0 {
		sb.WriteString("\nCons:\n")
		for _, con := range car.Cons {
			sb.WriteString(fmt.Sprintf("  - %s\n", con))
		}
	}

	p.printBox(fmt.Sprintf("%d %s %s", car.Year, car.Make, car.Model), sb.String())
}

func listOrAny(values []string) string {
	if len(values) == 0 {
		return "any"
	}
	return strings.Join(values, ", ")
}
