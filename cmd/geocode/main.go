// Command geocode batch-geocodes a map document file: it reads the document
// JSON, resolves coordinates for every place that has an address but no
// center, and writes the updated document back out.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"mapsmith/internal/config"
	"mapsmith/internal/geocode"
	"mapsmith/internal/validator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	inPath := flag.String("in", "", "input document JSON file")
	outPath := flag.String("out", "", "output file (defaults to overwriting the input)")
	flag.Parse()

	if *inPath == "" {
		flag.Usage()
		return fmt.Errorf("missing -in flag")
	}
	if *outPath == "" {
		*outPath = *inPath
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Geocoder.APIKey == "" {
		return fmt.Errorf("no geocoder API key configured (MAPSMITH_GEOCODER_API_KEY)")
	}

	raw, err := os.ReadFile(*inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *inPath, err)
	}
	doc, err := validator.ParseDocument(raw)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", *inPath, err)
	}

	geocoder, err := geocode.NewGeocoder(&cfg.Geocoder)
	if err != nil {
		return err
	}
	runner := geocode.NewBatchRunner(geocoder, &cfg.Geocoder)

	pending := 0
	for i := range doc.Data {
		if doc.Data[i].Center.IsZero() && doc.Data[i].Address != "" {
			pending++
		}
	}
	if pending == 0 {
		fmt.Println("nothing to geocode")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bar := progressbar.NewOptions(pending,
		progressbar.OptionSetDescription("geocoding"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
	)

	outcomes := runner.Run(ctx, doc, func(index, total int, address string) {
		_ = bar.Add(1)
	})
	_ = bar.Finish()
	fmt.Println()

	succeeded := 0
	for _, o := range outcomes {
		if o.Success {
			succeeded++
		} else {
			log.Printf("failed: %s (%s): %s", o.Name, o.Address, o.Error)
		}
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("rendering document: %w", err)
	}
	if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", *outPath, err)
	}

	fmt.Printf("geocoded %d/%d places -> %s\n", succeeded, len(outcomes), *outPath)
	return nil
}
