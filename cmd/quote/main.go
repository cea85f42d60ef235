// Command quote resolves two addresses and prints the delivery estimate.
//
//	quote -from "12 Broad Street, Lagos" -to "Allen Avenue, Ikeja"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"oyadrop/internal/config"
	"oyadrop/internal/infra"
	"oyadrop/internal/maps"
	"oyadrop/internal/modules/pricing"
)

func main() {
	from := flag.String("from", "", "pickup address")
	to := flag.String("to", "", "drop-off address")
	timeout := flag.Duration("timeout", 15*time.Second, "overall timeout")
	flag.Parse()
	if *from == "" || *to == "" {
		flag.Usage()
		log.Fatal("both -from and -to are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := infra.NewLogger(cfg.Env, "quote")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	geocoder, err := maps.NewGeocoder(cfg.Geocoder, cfg.Maps.GoogleKey)
	if err != nil {
		logger.Fatal("geocoder", zap.Error(err))
	}

	// Either side may stay unresolved; the estimate is then N/A.
	var route pricing.RoutePair
	if s, err := maps.Resolve(ctx, geocoder, *from); err == nil {
		p := s.Position
		route.Pickup = &p
		fmt.Printf("Pickup:   %s (%.5f, %.5f)\n", s.DisplayName, p.Lat, p.Lng)
	} else {
		fmt.Printf("Pickup:   unresolved (%v)\n", err)
	}
	if s, err := maps.Resolve(ctx, geocoder, *to); err == nil {
		p := s.Position
		route.Dropoff = &p
		fmt.Printf("Drop-off: %s (%.5f, %.5f)\n", s.DisplayName, p.Lat, p.Lng)
	} else {
		fmt.Printf("Drop-off: unresolved (%v)\n", err)
	}

	price, ok := pricing.EstimatePrice(route)
	if ok {
		fmt.Printf("Distance: %.2f km\n", pricing.DistanceKm(*route.Pickup, *route.Dropoff))
	}
	fmt.Printf("Estimate: %s\n", pricing.FormatPrice(price, ok))
}
