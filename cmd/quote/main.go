// README: Command-line quote: prices a known distance or routes two addresses first.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"pabili/internal/config"
	"pabili/internal/infra"
	"pabili/internal/maps"
	"pabili/internal/modules/pricing"
)

type options struct {
	distance float64
	buyer    bool
	hours    float64
	weight   float64
	from     string
	to       string
	timeout  time.Duration
	verbose  bool
}

func main() {
	var opts options
	flag.Float64Var(&opts.distance, "distance", -1, "distance in km (skip routing)")
	flag.BoolVar(&opts.buyer, "buyer", false, "request buyer service")
	flag.Float64Var(&opts.hours, "hours", 0, "buyer service hours")
	flag.Float64Var(&opts.weight, "weight", 0, "cargo weight in kg")
	flag.StringVar(&opts.from, "from", "", "start address or \"lat,lng\"")
	flag.StringVar(&opts.to, "to", "", "destination address or \"lat,lng\"")
	flag.DurationVar(&opts.timeout, "timeout", 20*time.Second, "overall timeout")
	flag.BoolVar(&opts.verbose, "v", false, "log upstream calls")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := zap.NewNop()
	if opts.verbose {
		if logger, err = infra.NewLogger(cfg.Env); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	if err := run(ctx, os.Stdout, cfg, opts, logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, cfg config.Config, opts options, logger *zap.Logger) error {
	km := opts.distance
	if km < 0 {
		if opts.from == "" || opts.to == "" {
			return errors.New("either -distance or both -from and -to are required")
		}
		geocoder, router, err := maps.Build(cfg.Maps.Options(nil, logger))
		if err != nil {
			return err
		}
		if km, err = routeKm(ctx, out, geocoder, router, opts.from, opts.to); err != nil {
			return err
		}
	}

	in := pricing.PricingInput{
		DistanceKm:            km,
		BuyerServiceRequested: opts.buyer,
		Hours:                 opts.hours,
		WeightKg:              opts.weight,
	}
	result, err := pricing.NewService(cfg.Pricing.RoundDistance).Estimate(ctx, in)
	if err != nil {
		return err
	}
	for _, line := range pricing.Receipt(in, result) {
		fmt.Fprintln(out, line)
	}
	return nil
}

func routeKm(ctx context.Context, out io.Writer, g maps.Geocoder, r maps.Router, from, to string) (float64, error) {
	fromCh, toCh := maps.Resolve(ctx, g, from), maps.Resolve(ctx, g, to)
	start, dest := maps.Await(ctx, fromCh), maps.Await(ctx, toCh)
	if start.Err != nil {
		return 0, fmt.Errorf("start %q: %w", from, start.Err)
	}
	if dest.Err != nil {
		return 0, fmt.Errorf("destination %q: %w", to, dest.Err)
	}
	route, err := r.Route(ctx, start.Place.Point, dest.Place.Point)
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(out, "%s → %s\n", start.Place.Label, dest.Place.Label)
	if route.IsFallback {
		fmt.Fprintf(out, "Distance: %.2f km (straight-line estimate)\n", route.DistanceKm())
	} else {
		fmt.Fprintf(out, "Distance: %.2f km\n", route.DistanceKm())
	}
	return route.DistanceKm(), nil
}
