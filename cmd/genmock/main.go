// Command genmock prints deterministic overview view-models for every region,
// for use as UI mock data. It runs the real planner over the embedded reference
// data with a fixed clock and a fixed random source, so repeated runs produce
// identical output.
//
// Usage:
//
//	go run ./cmd/genmock -date 2026-07-20 -out data/mock/overviews.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/pachawayra-service/internal/catalog"
	"github.com/couchcryptid/pachawayra-service/internal/observability"
	"github.com/couchcryptid/pachawayra-service/internal/planner"
)

// fixedRandom always returns the same draw, pinning every jitter to its midpoint.
type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

// fixture is one region's entry in the output file.
type fixture struct {
	Region   string           `json:"region"`
	Overview planner.Overview `json:"overview"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	now := flag.String("now", "2026-07-05T12:00:00-05:00", "RFC 3339 instant used as the current time")
	date := flag.String("date", "2026-07-20", "travel date (YYYY-MM-DD)")
	draw := flag.Float64("random", 0.5, "fixed random draw in [0,1)")
	refDir := flag.String("refdata-dir", "", "reference data directory (default: embedded set)")
	out := flag.String("out", "", "output path (default: stdout)")
	flag.Parse()

	if *draw < 0 || *draw >= 1 {
		return fmt.Errorf("-random must be in [0,1), got %v", *draw)
	}
	current, err := time.Parse(time.RFC3339, *now)
	if err != nil {
		return fmt.Errorf("parse -now: %w", err)
	}
	loc, err := time.LoadLocation("America/Lima")
	if err != nil {
		return fmt.Errorf("load America/Lima: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat, err := catalog.Open(*refDir, logger)
	if err != nil {
		return err
	}

	clk := clockwork.NewFakeClockAt(current)
	p := planner.New(cat, clk, fixedRandom(*draw), loc, observability.NewMetricsForTesting())

	fixtures, err := generate(p, *date)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(fixtures, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixtures: %w", err)
	}
	data = append(data, '\n')

	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %d region fixtures to %s\n", len(fixtures), *out)
	return nil
}

// generate builds one overview per catalog region, in catalog order.
func generate(p *planner.Planner, date string) ([]fixture, error) {
	regions := p.Regions()
	fixtures := make([]fixture, 0, len(regions))
	for _, region := range regions {
		trip, err := p.TripFor(region, date)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", region, err)
		}
		fixtures = append(fixtures, fixture{Region: region, Overview: p.Overview(trip)})
	}
	return fixtures, nil
}
